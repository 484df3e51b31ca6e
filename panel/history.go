package panel

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
)

const actionHistory = "load product history"

type HistoryKind string

const (
	HistoryRegistered HistoryKind = "Registered"
	HistoryTransfer   HistoryKind = "Transfer"
	HistoryActivated  HistoryKind = "Warranty activated"
	HistoryClaim      HistoryKind = "Claim submitted"
	HistoryProcessed  HistoryKind = "Claim processed"
	HistoryServiced   HistoryKind = "Service recorded"
)

// HistoryEntry is one event in the life of a product.
type HistoryEntry struct {
	contract.LogRef
	Kind    HistoryKind
	Actor   common.Address
	Time    uint64
	Details string
}

// ProductHistory rebuilds the provenance of a token from its events.
// Anybody may read it.
type ProductHistory struct {
	base
}

func NewProductHistory(env Env, sc session.Context) *ProductHistory {
	return &ProductHistory{base: newBase(env, sc, "history")}
}

// Timeline returns every event of tokenID ordered by block and log
// index. All six scans must succeed.
func (h *ProductHistory) Timeline(ctx context.Context, tokenID *big.Int) ([]HistoryEntry, error) {
	var (
		mu      sync.Mutex
		entries []HistoryEntry
	)
	add := func(es ...HistoryEntry) {
		mu.Lock()
		defer mu.Unlock()
		entries = append(entries, es...)
	}
	_, err := pcommon.Parallel(
		func() error {
			evs, err := h.contract.ProductRegistrations(ctx, tokenID)
			for _, ev := range evs {
				add(HistoryEntry{
					LogRef:  ev.LogRef,
					Kind:    HistoryRegistered,
					Actor:   ev.Manufacturer,
					Time:    pcommon.DisplayUint(ev.Timestamp),
					Details: fmt.Sprintf("%s %s, owner %s, warranty %s, %d claims", ev.SerialNumber, ev.Model, ev.InitialOwner.Hex(), pcommon.FormatDuration(pcommon.DisplayUint(ev.WarrantyDuration)), pcommon.DisplayUint(ev.ClaimLimit)),
				})
			}
			return err
		},
		func() error {
			evs, err := h.contract.TransfersOf(ctx, tokenID)
			for _, ev := range evs {
				add(HistoryEntry{
					LogRef:  ev.LogRef,
					Kind:    HistoryTransfer,
					Actor:   ev.From,
					Details: fmt.Sprintf("%s -> %s", ev.From.Hex(), ev.To.Hex()),
				})
			}
			return err
		},
		func() error {
			evs, err := h.contract.WarrantyActivations(ctx, tokenID)
			for _, ev := range evs {
				add(HistoryEntry{
					LogRef:  ev.LogRef,
					Kind:    HistoryActivated,
					Actor:   ev.Customer,
					Time:    pcommon.DisplayUint(ev.StartTime),
					Details: "expires " + pcommon.FormatTimestamp(pcommon.DisplayUint(ev.ExpirationTime)),
				})
			}
			return err
		},
		func() error {
			evs, err := h.contract.ClaimSubmissions(ctx, tokenID)
			for _, ev := range evs {
				add(HistoryEntry{
					LogRef:  ev.LogRef,
					Kind:    HistoryClaim,
					Actor:   ev.Customer,
					Time:    pcommon.DisplayUint(ev.SubmittedAt),
					Details: fmt.Sprintf("#%s: %s", ev.ClaimID, ev.IssueDescription),
				})
			}
			return err
		},
		func() error {
			evs, err := h.contract.ClaimProcessings(ctx, tokenID)
			for _, ev := range evs {
				verdict := "rejected"
				if ev.Approved {
					verdict = "approved"
				}
				add(HistoryEntry{
					LogRef:  ev.LogRef,
					Kind:    HistoryProcessed,
					Actor:   ev.ServiceCenter,
					Time:    pcommon.DisplayUint(ev.ProcessedAt),
					Details: fmt.Sprintf("#%s %s", ev.ClaimID, verdict),
				})
			}
			return err
		},
		func() error {
			evs, err := h.contract.ServiceRecords(ctx, tokenID)
			for _, ev := range evs {
				add(HistoryEntry{
					LogRef:  ev.LogRef,
					Kind:    HistoryServiced,
					Actor:   ev.ServiceCenter,
					Time:    pcommon.DisplayUint(ev.ServiceDate),
					Details: fmt.Sprintf("#%s: %s", ev.ClaimID, ev.ServiceNotes),
				})
			}
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].BlockNumber != entries[j].BlockNumber {
			return entries[i].BlockNumber < entries[j].BlockNumber
		}
		return entries[i].Index < entries[j].Index
	})
	return entries, nil
}

// Show prints the timeline of the product idText names.
func (h *ProductHistory) Show(ctx context.Context, idText string) error {
	return h.run(actionHistory, func() error {
		id, err := pcommon.ParsePositive("product ID", idText)
		if err != nil {
			return err
		}
		entries, err := h.Timeline(ctx, id)
		if err != nil {
			return err
		}
		u := h.ui()
		u.Section("Product History #" + id.String())
		if len(entries) == 0 {
			u.Info("No events found for product %s", id)
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			when := "-"
			if e.Time != 0 {
				when = pcommon.FormatTimestamp(e.Time)
			}
			rows = append(rows, []string{
				pcommon.StringFromUint(e.BlockNumber),
				string(e.Kind),
				when,
				pcommon.FormatAddress(e.Actor.Hex()),
				e.Details,
			})
		}
		u.Table([]string{"Block", "Event", "Time", "By", "Details"}, rows)
		return nil
	})
}
