package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	pcommon "github.com/tranvictor/provenance/common"
)

// Log scans cover the whole history from the client's start block in a
// single eth_getLogs request.

func (c *Client) filter(ctx context.Context, event string, topics ...[]common.Hash) ([]types.Log, error) {
	ev, ok := ABI().Events[event]
	if !ok {
		return nil, fmt.Errorf("unknown event %s", event)
	}
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(c.fromBlock),
		Addresses: []common.Address{c.address},
		Topics:    append([][]common.Hash{{ev.ID}}, topics...),
	}
	logs, err := c.backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, pcommon.Failure(fmt.Errorf("querying %s logs: %w", event, err))
	}
	return logs, nil
}

func optionalTopic(n *big.Int) []common.Hash {
	if n == nil {
		return nil
	}
	return []common.Hash{pcommon.BigToTopic(n)}
}

func ref(l types.Log) LogRef {
	return LogRef{BlockNumber: l.BlockNumber, TxHash: l.TxHash, Index: l.Index}
}

// checkLog makes sure l is an instance of event with all indexed
// arguments present and returns the decoded non indexed ones.
func checkLog(event string, l types.Log) ([]interface{}, error) {
	ev := ABI().Events[event]
	indexed := 0
	for _, in := range ev.Inputs {
		if in.Indexed {
			indexed++
		}
	}
	if len(l.Topics) != indexed+1 || l.Topics[0] != ev.ID {
		return nil, fmt.Errorf("log %s:%d is not a %s event", l.TxHash.Hex(), l.Index, event)
	}
	values, err := ev.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode %s data: %w", event, err)
	}
	return values, nil
}

func topicAddress(l types.Log, i int) common.Address {
	return common.BytesToAddress(l.Topics[i].Bytes())
}

func topicBig(l types.Log, i int) *big.Int {
	return new(big.Int).SetBytes(l.Topics[i].Bytes())
}

func shapeErr(event string, i int, v interface{}) error {
	return fmt.Errorf("couldn't decode %s data: field %d has type %T", event, i, v)
}

func parseTransfer(l types.Log) (TransferEvent, error) {
	if _, err := checkLog("Transfer", l); err != nil {
		return TransferEvent{}, err
	}
	return TransferEvent{
		LogRef:  ref(l),
		From:    topicAddress(l, 1),
		To:      topicAddress(l, 2),
		TokenID: topicBig(l, 3),
	}, nil
}

func parseProductRegistered(l types.Log) (ProductRegisteredEvent, error) {
	const name = "ProductRegistered"
	v, err := checkLog(name, l)
	if err != nil {
		return ProductRegisteredEvent{}, err
	}
	ev := ProductRegisteredEvent{
		LogRef:       ref(l),
		TokenID:      topicBig(l, 1),
		Manufacturer: topicAddress(l, 2),
		InitialOwner: topicAddress(l, 3),
	}
	var ok bool
	if ev.SerialNumber, ok = v[0].(string); !ok {
		return ev, shapeErr(name, 0, v[0])
	}
	if ev.Model, ok = v[1].(string); !ok {
		return ev, shapeErr(name, 1, v[1])
	}
	if ev.Timestamp, ok = v[2].(*big.Int); !ok {
		return ev, shapeErr(name, 2, v[2])
	}
	if ev.WarrantyDuration, ok = v[3].(*big.Int); !ok {
		return ev, shapeErr(name, 3, v[3])
	}
	if ev.ClaimLimit, ok = v[4].(*big.Int); !ok {
		return ev, shapeErr(name, 4, v[4])
	}
	return ev, nil
}

func parseWarrantyActivated(l types.Log) (WarrantyActivatedEvent, error) {
	const name = "WarrantyActivated"
	v, err := checkLog(name, l)
	if err != nil {
		return WarrantyActivatedEvent{}, err
	}
	ev := WarrantyActivatedEvent{
		LogRef:   ref(l),
		TokenID:  topicBig(l, 1),
		Customer: topicAddress(l, 2),
	}
	var ok bool
	if ev.StartTime, ok = v[0].(*big.Int); !ok {
		return ev, shapeErr(name, 0, v[0])
	}
	if ev.ExpirationTime, ok = v[1].(*big.Int); !ok {
		return ev, shapeErr(name, 1, v[1])
	}
	return ev, nil
}

func parseClaimSubmitted(l types.Log) (ClaimSubmittedEvent, error) {
	const name = "WarrantyClaimSubmitted"
	v, err := checkLog(name, l)
	if err != nil {
		return ClaimSubmittedEvent{}, err
	}
	ev := ClaimSubmittedEvent{
		LogRef:   ref(l),
		ClaimID:  topicBig(l, 1),
		TokenID:  topicBig(l, 2),
		Customer: topicAddress(l, 3),
	}
	var ok bool
	if ev.IssueDescription, ok = v[0].(string); !ok {
		return ev, shapeErr(name, 0, v[0])
	}
	if ev.SubmittedAt, ok = v[1].(*big.Int); !ok {
		return ev, shapeErr(name, 1, v[1])
	}
	return ev, nil
}

func parseClaimProcessed(l types.Log) (ClaimProcessedEvent, error) {
	const name = "WarrantyClaimProcessed"
	v, err := checkLog(name, l)
	if err != nil {
		return ClaimProcessedEvent{}, err
	}
	ev := ClaimProcessedEvent{
		LogRef:        ref(l),
		ClaimID:       topicBig(l, 1),
		TokenID:       topicBig(l, 2),
		ServiceCenter: topicAddress(l, 3),
	}
	var ok bool
	if ev.Approved, ok = v[0].(bool); !ok {
		return ev, shapeErr(name, 0, v[0])
	}
	if ev.ProcessedAt, ok = v[1].(*big.Int); !ok {
		return ev, shapeErr(name, 1, v[1])
	}
	return ev, nil
}

func parseServiceRecorded(l types.Log) (ServiceRecordedEvent, error) {
	const name = "ServiceRecorded"
	v, err := checkLog(name, l)
	if err != nil {
		return ServiceRecordedEvent{}, err
	}
	ev := ServiceRecordedEvent{
		LogRef:        ref(l),
		TokenID:       topicBig(l, 1),
		ClaimID:       topicBig(l, 2),
		ServiceCenter: topicAddress(l, 3),
	}
	var ok bool
	if ev.ServiceNotes, ok = v[0].(string); !ok {
		return ev, shapeErr(name, 0, v[0])
	}
	if ev.ServiceDate, ok = v[1].(*big.Int); !ok {
		return ev, shapeErr(name, 1, v[1])
	}
	return ev, nil
}

func parseAll[T any](logs []types.Log, parse func(types.Log) (T, error)) ([]T, error) {
	result := make([]T, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		ev, err := parse(l)
		if err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	return result, nil
}

// TransfersTo returns every Transfer whose receiver is to.
func (c *Client) TransfersTo(ctx context.Context, to common.Address) ([]TransferEvent, error) {
	logs, err := c.filter(ctx, "Transfer", nil, []common.Hash{pcommon.AddressToTopic(to)})
	if err != nil {
		return nil, err
	}
	return parseAll(logs, parseTransfer)
}

// TransfersOf returns every Transfer of tokenID, mint included.
func (c *Client) TransfersOf(ctx context.Context, tokenID *big.Int) ([]TransferEvent, error) {
	logs, err := c.filter(ctx, "Transfer", nil, nil, optionalTopic(tokenID))
	if err != nil {
		return nil, err
	}
	return parseAll(logs, parseTransfer)
}

// ProductRegistrations returns registrations of tokenID, or of every
// product when tokenID is nil.
func (c *Client) ProductRegistrations(ctx context.Context, tokenID *big.Int) ([]ProductRegisteredEvent, error) {
	logs, err := c.filter(ctx, "ProductRegistered", optionalTopic(tokenID))
	if err != nil {
		return nil, err
	}
	return parseAll(logs, parseProductRegistered)
}

func (c *Client) WarrantyActivations(ctx context.Context, tokenID *big.Int) ([]WarrantyActivatedEvent, error) {
	logs, err := c.filter(ctx, "WarrantyActivated", optionalTopic(tokenID))
	if err != nil {
		return nil, err
	}
	return parseAll(logs, parseWarrantyActivated)
}

// ClaimSubmissions returns claims filed against tokenID, or every claim
// when tokenID is nil.
func (c *Client) ClaimSubmissions(ctx context.Context, tokenID *big.Int) ([]ClaimSubmittedEvent, error) {
	logs, err := c.filter(ctx, "WarrantyClaimSubmitted", nil, optionalTopic(tokenID))
	if err != nil {
		return nil, err
	}
	return parseAll(logs, parseClaimSubmitted)
}

func (c *Client) ClaimProcessings(ctx context.Context, tokenID *big.Int) ([]ClaimProcessedEvent, error) {
	logs, err := c.filter(ctx, "WarrantyClaimProcessed", nil, optionalTopic(tokenID))
	if err != nil {
		return nil, err
	}
	return parseAll(logs, parseClaimProcessed)
}

func (c *Client) ServiceRecords(ctx context.Context, tokenID *big.Int) ([]ServiceRecordedEvent, error) {
	logs, err := c.filter(ctx, "ServiceRecorded", optionalTopic(tokenID))
	if err != nil {
		return nil, err
	}
	return parseAll(logs, parseServiceRecorded)
}
