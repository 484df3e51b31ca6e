package panel

import (
	"context"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/tranvictor/provenance/catalog"
	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
)

const (
	actionTransferProduct = "transfer product"
	actionLoadAvailable   = "load available products"

	findLimit = 10
)

type SellForm struct {
	Serial string
	Model  string
	To     string
}

// SellProduct hands a retailer's unsold product to a customer, which
// activates its warranty.
type SellProduct struct {
	base
	available []contract.Product
	catalog   *catalog.Catalog
}

func NewSellProduct(env Env, sc session.Context) *SellProduct {
	return &SellProduct{base: newBase(env, sc, "sell")}
}

// Close releases the search index.
func (s *SellProduct) Close() error {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Close()
}

func (s *SellProduct) Available() []contract.Product {
	return append([]contract.Product(nil), s.available...)
}

// LoadAvailable lists every registered product the retailer owns whose
// warranty was never activated.
func (s *SellProduct) LoadAvailable(ctx context.Context) error {
	return s.run(actionLoadAvailable, func() error {
		if err := s.requireRole(contract.RoleRetailer); err != nil {
			return err
		}
		registrations, err := s.contract.ProductRegistrations(ctx, nil)
		if err != nil {
			return err
		}
		ids := make([]*big.Int, 0, len(registrations))
		for _, r := range registrations {
			ids = append(ids, r.TokenID)
		}
		available := []contract.Product{}
		for _, id := range distinctIDs(ids) {
			owner, err := s.contract.OwnerOf(ctx, id)
			if err != nil {
				s.logger.Warn("couldn't read owner", zap.Stringer("tokenId", id), zap.Error(err))
				continue
			}
			if owner != s.account() {
				continue
			}
			p, err := s.contract.ProductDetails(ctx, id)
			if err != nil {
				s.logger.Warn("couldn't read product", zap.Stringer("tokenId", id), zap.Error(err))
				continue
			}
			if p.Sold() {
				continue
			}
			available = append(available, p)
		}
		s.available = available
		return s.index()
	})
}

func (s *SellProduct) index() error {
	if s.catalog == nil {
		c, err := catalog.New()
		if err != nil {
			return err
		}
		s.catalog = c
	}
	entries := make([]catalog.Entry, 0, len(s.available))
	for _, p := range s.available {
		entries = append(entries, catalog.Entry{
			TokenID:      p.TokenID.String(),
			SerialNumber: p.SerialNumber,
			Model:        p.Model,
		})
	}
	return s.catalog.Replace(entries)
}

// Find searches the available products by serial or model, tolerating
// typos.
func (s *SellProduct) Find(query string) ([]contract.Product, error) {
	if s.catalog == nil || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	entries, err := s.catalog.Search(query, findLimit)
	if err != nil {
		return nil, err
	}
	var out []contract.Product
	for _, e := range entries {
		for _, p := range s.available {
			if p.TokenID.String() == e.TokenID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (s *SellProduct) ShowAvailable() {
	s.ui().Section("Available Products")
	if len(s.available) == 0 {
		s.ui().Info("No products available for sale")
		return
	}
	s.showTable(s.available)
}

// ShowMatches prints the available products matching query.
func (s *SellProduct) ShowMatches(query string) error {
	u := s.ui()
	u.Section("Available Products")
	matches, err := s.Find(query)
	if err != nil {
		return s.report("search available products", err)
	}
	if len(matches) == 0 {
		u.Info("No available product matches %q", query)
		return nil
	}
	s.showTable(matches)
	return nil
}

func (s *SellProduct) showTable(products []contract.Product) {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.TokenID.String(),
			p.SerialNumber,
			p.Model,
			pcommon.FormatAddress(p.Manufacturer.Hex()),
			pcommon.FormatTimestamp(pcommon.DisplayUint(p.ManufactureTimestamp)),
		})
	}
	s.ui().Table([]string{"ID", "Serial", "Model", "Manufacturer", "Manufactured"}, rows)
}

// Prompt fills the form, offering to pick the product from the
// available list by free text search.
func (s *SellProduct) Prompt(f SellForm) SellForm {
	u := s.ui()
	u.Section("Sell Product")
	if f.Serial == "" && len(s.available) > 0 {
		u.Info("Search available products by serial or model (empty to type the serial):")
		if query := strings.TrimSpace(u.Ask(nil)); query != "" {
			if p, ok := s.pick(query); ok {
				f.Serial, f.Model = p.SerialNumber, p.Model
				u.Interpret(p.SerialNumber + " (" + p.Model + ")")
			}
		}
	}
	f.Serial = prompt(u, "Serial number", f.Serial)
	f.Model = prompt(u, "Model", f.Model)
	f.To = prompt(u, "Customer address", f.To)
	return f
}

func (s *SellProduct) pick(query string) (contract.Product, bool) {
	u := s.ui()
	matches, err := s.Find(query)
	if err != nil {
		s.logger.Warn("catalog search failed", zap.Error(err))
	}
	if len(matches) == 0 {
		u.Warn("No available product matches %q", query)
		return contract.Product{}, false
	}
	options := make([]string, 0, len(matches)+1)
	for _, p := range matches {
		options = append(options, p.SerialNumber+" ("+p.Model+")")
	}
	options = append(options, "None of these")
	idx := u.Choose("Which product?", options)
	if idx < 0 || idx >= len(matches) {
		return contract.Product{}, false
	}
	return matches[idx], true
}

// Sell checks every precondition before sending safeTransferFrom so a
// doomed sale costs no gas.
func (s *SellProduct) Sell(ctx context.Context, f SellForm) error {
	err := s.run(actionTransferProduct, func() error {
		if err := s.requireRole(contract.RoleRetailer); err != nil {
			return err
		}
		if err := required(f.Serial, "Please enter serial number"); err != nil {
			return err
		}
		if err := required(f.Model, "Please enter model"); err != nil {
			return err
		}
		if err := required(f.To, "Please enter customer address"); err != nil {
			return err
		}
		to, err := pcommon.ParseAddress(f.To)
		if err != nil {
			return err
		}
		p, err := s.ownedBySerial(ctx, strings.TrimSpace(f.Serial), "This product does not belong to you, cannot sell")
		if err != nil {
			return err
		}
		if p.Sold() {
			return pcommon.Validation("This product's warranty is activated, cannot sell again")
		}
		if err := checkModel(p, f.Model); err != nil {
			return err
		}
		s.logger.Info("selling product", zap.Stringer("tokenId", p.TokenID), zap.String("to", to.Hex()))
		err = s.submit(ctx, func() (Pending, error) {
			return s.contract.SafeTransferFrom(ctx, s.account(), to, p.TokenID)
		})
		if err != nil {
			return err
		}
		s.ui().Success("Product transferred successfully! Warranty has been automatically activated.")
		return nil
	})
	if err != nil {
		return err
	}
	// A failed refresh is already reported; the sale itself succeeded.
	_ = s.LoadAvailable(ctx)
	return nil
}
