package shell

import (
	"context"
	"fmt"
	"strings"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
)

// askLine prints label and reads one trimmed answer.
func (s *Shell) askLine(label string) string {
	s.ui().Info("%s:", label)
	return strings.TrimSpace(s.ui().Ask(nil))
}

func (s *Shell) products(ctx context.Context, sc session.Context) {
	list := panel.NewProductList(s.env, sc)
	list.Load(ctx)
	for {
		list.Show()
		switch s.ui().Choose("Products", []string{"Search by ID", "Transfer a product", "Show details", "Refresh", "Back"}) {
		case 0:
			list.Search(ctx, s.askLine("Product ID"))
		case 1:
			t := panel.NewTransferProduct(s.env, sc)
			id, to := t.Prompt("", "")
			if t.Transfer(ctx, id, to) == nil {
				list.Load(ctx)
			}
		case 2:
			s.details(list)
		case 3:
			list.Load(ctx)
		default:
			return
		}
	}
}

func (s *Shell) details(list *panel.ProductList) {
	id, err := pcommon.ParsePositive("product ID", s.askLine("Product ID"))
	if err != nil {
		s.ui().Error("%s", err)
		return
	}
	if !list.ShowDetails(id) {
		s.ui().Warn("Product %s is not in your list, search for it first", id)
	}
}

func (s *Shell) register(ctx context.Context, sc session.Context) {
	p := panel.NewRegisterProduct(s.env, sc)
	p.Register(ctx, p.Prompt(panel.RegisterForm{}))
}

func (s *Shell) claim(ctx context.Context, sc session.Context) {
	c := panel.NewWarrantyClaim(s.env, sc)
	c.Submit(ctx, c.Prompt(panel.ClaimForm{}))
}

func (s *Shell) sell(ctx context.Context, sc session.Context) {
	p := panel.NewSellProduct(s.env, sc)
	defer p.Close()
	p.LoadAvailable(ctx)
	for {
		p.ShowAvailable()
		switch s.ui().Choose("Sell", []string{"Sell a product", "Refresh", "Back"}) {
		case 0:
			p.Sell(ctx, p.Prompt(panel.SellForm{}))
		case 1:
			p.LoadAvailable(ctx)
		default:
			return
		}
	}
}

func (s *Shell) serviceCenter(ctx context.Context, sc session.Context) {
	p := panel.NewServiceCenter(s.env, sc)
	p.LoadAll(ctx)
	for {
		p.Show()
		switch s.ui().Choose("Claims", []string{"Open claim by ID", "Refresh", "Back"}) {
		case 0:
			if c, ok := p.Open(ctx, s.askLine("Claim ID")); ok {
				s.claimActions(ctx, p, c)
			}
		case 1:
			p.LoadAll(ctx)
		default:
			return
		}
	}
}

// claimActions offers only what the claim's state still allows.
func (s *Shell) claimActions(ctx context.Context, p *panel.ServiceCenter, c contract.WarrantyClaim) {
	u := s.ui()
	status := panel.ClaimStatus(c)
	actions := panel.ClaimActions(c)
	if len(actions) == 0 {
		u.Info("Claim #%s is %s, nothing left to do", c.ClaimID, status)
		return
	}
	options := make([]string, 0, len(actions)+1)
	for _, a := range actions {
		options = append(options, a.String())
	}
	options = append(options, "Back")
	idx := u.Choose(fmt.Sprintf("Claim #%s (%s)", c.ClaimID, status), options)
	if idx < 0 || idx >= len(actions) {
		return
	}
	switch actions[idx] {
	case panel.ActionApprove:
		p.Process(ctx, c.ClaimID, true)
	case panel.ActionReject:
		p.Process(ctx, c.ClaimID, false)
	case panel.ActionRecordService:
		p.RecordService(ctx, c.ClaimID, s.askLine("Service notes"))
	}
}

func (s *Shell) roles(ctx context.Context, sc session.Context) {
	p := panel.NewRoleManager(s.env, sc, s.manager)
	p.Show()
	if !sc.Roles.Admin {
		return
	}
	if s.ui().Choose("Roles", []string{"Grant role", "Back"}) != 0 {
		return
	}
	role, addr := p.Prompt("", "")
	p.Grant(ctx, role, addr)
}

func (s *Shell) history(ctx context.Context, sc session.Context) {
	panel.NewProductHistory(s.env, sc).Show(ctx, s.askLine("Product ID"))
}
