package panel

import (
	"context"
	"math/big"
	"sort"

	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
	"github.com/tranvictor/provenance/ui"
)

const (
	actionLoadClaims    = "load all warranty claims"
	actionLookupClaim   = "load warranty claim"
	actionProcessClaim  = "process warranty claim"
	actionRecordService = "record service"
)

// ClaimState is where a claim is in its lifecycle:
// Pending -> Approved -> Serviced, or Pending -> Rejected.
type ClaimState uint8

const (
	ClaimPending ClaimState = iota
	ClaimApproved
	ClaimRejected
	ClaimServiced
)

func (s ClaimState) String() string {
	switch s {
	case ClaimPending:
		return "Pending"
	case ClaimApproved:
		return "Approved"
	case ClaimRejected:
		return "Rejected"
	case ClaimServiced:
		return "Serviced"
	}
	return "Unknown"
}

func (s ClaimState) styled() ui.StyledText {
	switch s {
	case ClaimPending:
		return ui.Pending(s.String())
	case ClaimRejected:
		return ui.Bad(s.String())
	}
	return ui.Good(s.String())
}

type ClaimAction uint8

const (
	ActionApprove ClaimAction = iota
	ActionReject
	ActionRecordService
)

func (a ClaimAction) String() string {
	switch a {
	case ActionApprove:
		return "Approve"
	case ActionReject:
		return "Reject"
	case ActionRecordService:
		return "Record service"
	}
	return "Unknown"
}

func ClaimStatus(c contract.WarrantyClaim) ClaimState {
	switch {
	case !c.Processed:
		return ClaimPending
	case !c.Approved:
		return ClaimRejected
	case c.ServiceNotes == "":
		return ClaimApproved
	default:
		return ClaimServiced
	}
}

// ClaimActions lists what a service center may still do with c.
func ClaimActions(c contract.WarrantyClaim) []ClaimAction {
	switch ClaimStatus(c) {
	case ClaimPending:
		return []ClaimAction{ActionApprove, ActionReject}
	case ClaimApproved:
		return []ClaimAction{ActionRecordService}
	}
	return nil
}

func allows(c contract.WarrantyClaim, action ClaimAction) bool {
	for _, a := range ClaimActions(c) {
		if a == action {
			return true
		}
	}
	return false
}

// ServiceCenter reviews claims, approves or rejects them and records
// the service done for approved ones.
type ServiceCenter struct {
	base
	claims []contract.WarrantyClaim
}

func NewServiceCenter(env Env, sc session.Context) *ServiceCenter {
	return &ServiceCenter{base: newBase(env, sc, "service")}
}

// Claims are ordered newest first.
func (s *ServiceCenter) Claims() []contract.WarrantyClaim {
	return append([]contract.WarrantyClaim(nil), s.claims...)
}

// LoadAll re-reads every claim ever submitted. Claims that cannot be
// read are left out.
func (s *ServiceCenter) LoadAll(ctx context.Context) error {
	return s.run(actionLoadClaims, func() error {
		if err := s.requireRole(contract.RoleServiceCenter); err != nil {
			return err
		}
		submitted, err := s.contract.ClaimSubmissions(ctx, nil)
		if err != nil {
			return err
		}
		ids := make([]*big.Int, 0, len(submitted))
		for _, ev := range submitted {
			ids = append(ids, ev.ClaimID)
		}
		claims := []contract.WarrantyClaim{}
		for _, id := range distinctIDs(ids) {
			c, err := s.contract.WarrantyClaim(ctx, id)
			if err != nil {
				s.logger.Warn("couldn't read claim", zap.Stringer("claimId", id), zap.Error(err))
				continue
			}
			claims = append(claims, c)
		}
		s.claims = claims
		s.sort()
		return nil
	})
}

func (s *ServiceCenter) sort() {
	sort.SliceStable(s.claims, func(i, j int) bool {
		return s.claims[i].ClaimID.Cmp(s.claims[j].ClaimID) > 0
	})
}

// merge adds c or replaces the claim with the same id.
func (s *ServiceCenter) merge(c contract.WarrantyClaim) {
	for i := range s.claims {
		if s.claims[i].ClaimID.Cmp(c.ClaimID) == 0 {
			s.claims[i] = c
			return
		}
	}
	s.claims = append(s.claims, c)
	s.sort()
}

func (s *ServiceCenter) find(id *big.Int) (contract.WarrantyClaim, bool) {
	for _, c := range s.claims {
		if c.ClaimID.Cmp(id) == 0 {
			return c, true
		}
	}
	return contract.WarrantyClaim{}, false
}

// Lookup reads one claim by id and merges it into the list.
func (s *ServiceCenter) Lookup(ctx context.Context, idText string) error {
	_, err := s.lookup(ctx, idText)
	return err
}

// Open is Lookup for a caller about to act on the claim: it returns the
// fresh claim, or false once the failure has been reported.
func (s *ServiceCenter) Open(ctx context.Context, idText string) (contract.WarrantyClaim, bool) {
	c, err := s.lookup(ctx, idText)
	return c, err == nil
}

func (s *ServiceCenter) lookup(ctx context.Context, idText string) (contract.WarrantyClaim, error) {
	var c contract.WarrantyClaim
	err := s.run(actionLookupClaim, func() error {
		if err := s.requireRole(contract.RoleServiceCenter); err != nil {
			return err
		}
		id, err := pcommon.ParsePositive("claim ID", idText)
		if err != nil {
			return err
		}
		c, err = s.contract.WarrantyClaim(ctx, id)
		if err != nil {
			return err
		}
		s.merge(c)
		return nil
	})
	return c, err
}

// current returns the claim as last seen, reading it when unknown.
func (s *ServiceCenter) current(ctx context.Context, id *big.Int) (contract.WarrantyClaim, error) {
	if c, ok := s.find(id); ok {
		return c, nil
	}
	c, err := s.contract.WarrantyClaim(ctx, id)
	if err != nil {
		return contract.WarrantyClaim{}, err
	}
	s.merge(c)
	return c, nil
}

// reload replaces the claim after a write so the list shows its new
// state. A failed read leaves the old one.
func (s *ServiceCenter) reload(ctx context.Context, id *big.Int) {
	c, err := s.contract.WarrantyClaim(ctx, id)
	if err != nil {
		s.logger.Warn("couldn't reload claim", zap.Stringer("claimId", id), zap.Error(err))
		return
	}
	s.merge(c)
}

func (s *ServiceCenter) Process(ctx context.Context, id *big.Int, approved bool) error {
	return s.run(actionProcessClaim, func() error {
		if err := s.requireRole(contract.RoleServiceCenter); err != nil {
			return err
		}
		c, err := s.current(ctx, id)
		if err != nil {
			return err
		}
		if ClaimStatus(c) != ClaimPending {
			return pcommon.Validation("Claim #%s is already %s", id, ClaimStatus(c))
		}
		s.logger.Info("processing claim", zap.Stringer("claimId", id), zap.Bool("approved", approved))
		err = s.submit(ctx, func() (Pending, error) {
			return s.contract.ProcessWarrantyClaim(ctx, id, approved)
		})
		if err != nil {
			return err
		}
		if approved {
			s.ui().Success("Warranty claim approved")
		} else {
			s.ui().Success("Warranty claim rejected")
		}
		s.reload(ctx, id)
		return nil
	})
}

func (s *ServiceCenter) RecordService(ctx context.Context, id *big.Int, notes string) error {
	return s.run(actionRecordService, func() error {
		if err := s.requireRole(contract.RoleServiceCenter); err != nil {
			return err
		}
		if id == nil {
			return pcommon.Validation("Please select a claim and enter service notes")
		}
		if err := required(notes, "Please select a claim and enter service notes"); err != nil {
			return err
		}
		c, err := s.current(ctx, id)
		if err != nil {
			return err
		}
		if !allows(c, ActionRecordService) {
			return pcommon.Validation("Service can only be recorded once for an approved claim, claim #%s is %s", id, ClaimStatus(c))
		}
		s.logger.Info("recording service", zap.Stringer("claimId", id))
		err = s.submit(ctx, func() (Pending, error) {
			return s.contract.RecordService(ctx, id, notes)
		})
		if err != nil {
			return err
		}
		s.ui().Success("Service record saved")
		s.reload(ctx, id)
		return nil
	})
}

func (s *ServiceCenter) Show() {
	u := s.ui()
	u.Section("Service Center Management")
	if len(s.claims) == 0 {
		u.Info("No warranty claims")
		return
	}
	rows := make([][]string, 0, len(s.claims))
	for _, c := range s.claims {
		processed := "-"
		if !pcommon.IsZero(c.ProcessedAt) {
			processed = pcommon.FormatTimestamp(pcommon.DisplayUint(c.ProcessedAt))
		}
		rows = append(rows, []string{
			c.ClaimID.String(),
			c.TokenID.String(),
			pcommon.FormatAddress(c.Customer.Hex()),
			c.IssueDescription,
			pcommon.FormatTimestamp(pcommon.DisplayUint(c.SubmittedAt)),
			u.Style(ClaimStatus(c).styled()),
			processed,
			c.ServiceNotes,
		})
	}
	u.Table([]string{"Claim", "Product", "Customer", "Issue", "Submitted", "Status", "Processed", "Service notes"}, rows)
}
