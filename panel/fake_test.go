package panel

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
)

var (
	retailer = common.HexToAddress("0x00000000000000000000000000000000000000AA")
	customer = common.HexToAddress("0x00000000000000000000000000000000000000CC")
	maker    = common.HexToAddress("0x00000000000000000000000000000000000000DD")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000EE")

	errNode = errors.New("connection refused")
)

type staticSigner struct{ addr common.Address }

func (s staticSigner) Address() common.Address { return s.addr }
func (s staticSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return tx, nil
}

type sentTx struct {
	Method string
	Args   []interface{}
}

type fakePending struct {
	hash common.Hash
	err  error
}

func (p fakePending) Hash() common.Hash { return p.hash }
func (p fakePending) Wait(ctx context.Context) (*types.Receipt, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, GasUsed: 21000}, nil
}

// fakeChain is an in-memory warranty contract. Writes are recorded and,
// when onSend is set, applied by it.
type fakeChain struct {
	mu sync.Mutex

	products map[string]contract.Product
	owners   map[string]common.Address
	serials  map[common.Hash]*big.Int
	claims   map[string]contract.WarrantyClaim
	digests  map[contract.Role]common.Hash

	// enumFailAt makes tokenOfOwnerByIndex fail from that index on; a
	// negative value never fails.
	enumFailAt  int
	balanceErr  error
	ownerErr    map[string]error
	claimErr    map[string]error
	transferErr error

	transfers     []contract.TransferEvent
	registrations []contract.ProductRegisteredEvent
	activations   []contract.WarrantyActivatedEvent
	submissions   []contract.ClaimSubmittedEvent
	processings   []contract.ClaimProcessedEvent
	services      []contract.ServiceRecordedEvent

	sendErr error
	waitErr error
	onSend  func(tx sentTx)
	sent    []sentTx
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		products:   map[string]contract.Product{},
		owners:     map[string]common.Address{},
		serials:    map[common.Hash]*big.Int{},
		claims:     map[string]contract.WarrantyClaim{},
		digests:    map[contract.Role]common.Hash{},
		ownerErr:   map[string]error{},
		claimErr:   map[string]error{},
		enumFailAt: -1,
	}
}

func (f *fakeChain) bind(signer account.Signer) Contract { return f }

// addProduct registers a product owned by owner. start is the warranty
// start, 0 for an unsold product.
func (f *fakeChain) addProduct(id int64, serial, model string, owner common.Address, start int64) contract.Product {
	p := contract.Product{
		TokenID:              big.NewInt(id),
		SerialNumber:         serial,
		Model:                model,
		Manufacturer:         maker,
		ManufactureTimestamp: big.NewInt(1700000000),
		WarrantyDuration:     big.NewInt(365 * pcommon.SecondsPerDay),
		WarrantyClaimLimit:   big.NewInt(3),
		WarrantyStart:        big.NewInt(start),
		WarrantyExpiration:   big.NewInt(0),
		WarrantyClaimCount:   big.NewInt(0),
	}
	if start > 0 {
		p.WarrantyExpiration = big.NewInt(start + 365*pcommon.SecondsPerDay)
	}
	key := p.TokenID.String()
	f.products[key] = p
	f.owners[key] = owner
	f.serials[pcommon.SerialHash(serial)] = p.TokenID
	f.registrations = append(f.registrations, contract.ProductRegisteredEvent{
		LogRef:       contract.LogRef{BlockNumber: uint64(id)},
		TokenID:      p.TokenID,
		SerialNumber: serial,
		Model:        model,
		Manufacturer: maker,
		InitialOwner: owner,
	})
	return p
}

func (f *fakeChain) addClaim(id, tokenID int64, processed, approved bool, notes string) {
	f.claims[big.NewInt(id).String()] = contract.WarrantyClaim{
		ClaimID:          big.NewInt(id),
		TokenID:          big.NewInt(tokenID),
		Customer:         customer,
		IssueDescription: "screen flickers",
		SubmittedAt:      big.NewInt(1700000000),
		Processed:        processed,
		Approved:         approved,
		ServiceNotes:     notes,
		ProcessedAt:      big.NewInt(0),
	}
	f.submissions = append(f.submissions, contract.ClaimSubmittedEvent{
		ClaimID: big.NewInt(id),
		TokenID: big.NewInt(tokenID),
	})
}

func (f *fakeChain) sentMethods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, tx := range f.sent {
		out = append(out, tx.Method)
	}
	return out
}

func (f *fakeChain) ProductDetails(ctx context.Context, tokenID *big.Int) (contract.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[tokenID.String()]
	if !ok {
		return contract.Product{}, pcommon.Failure(fmt.Errorf("execution reverted: unknown token %s", tokenID))
	}
	return p, nil
}

func (f *fakeChain) IsWarrantyActive(ctx context.Context, tokenID *big.Int) (bool, error) {
	p, err := f.ProductDetails(ctx, tokenID)
	if err != nil {
		return false, err
	}
	return p.Sold(), nil
}

func (f *fakeChain) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ownerErr[tokenID.String()]; err != nil {
		return common.Address{}, err
	}
	owner, ok := f.owners[tokenID.String()]
	if !ok {
		return common.Address{}, pcommon.Failure(errors.New("ERC721: invalid token ID"))
	}
	return owner, nil
}

func (f *fakeChain) ownedBy(owner common.Address) []*big.Int {
	var ids []*big.Int
	for i := int64(1); i <= int64(len(f.products))+10; i++ {
		if o, ok := f.owners[big.NewInt(i).String()]; ok && o == owner {
			ids = append(ids, big.NewInt(i))
		}
	}
	return ids
}

func (f *fakeChain) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return big.NewInt(int64(len(f.ownedBy(owner)))), nil
}

func (f *fakeChain) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enumFailAt >= 0 && index.Int64() >= int64(f.enumFailAt) {
		return nil, pcommon.Failure(errors.New("execution reverted"))
	}
	ids := f.ownedBy(owner)
	if index.Int64() >= int64(len(ids)) {
		return nil, pcommon.Failure(errors.New("owner index out of bounds"))
	}
	return ids[index.Int64()], nil
}

func (f *fakeChain) TokenIDForSerialHash(ctx context.Context, serialHash common.Hash) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.serials[serialHash]; ok {
		return id, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) WarrantyClaim(ctx context.Context, claimID *big.Int) (contract.WarrantyClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.claimErr[claimID.String()]; err != nil {
		return contract.WarrantyClaim{}, err
	}
	c, ok := f.claims[claimID.String()]
	if !ok {
		return contract.WarrantyClaim{}, pcommon.Failure(errors.New("execution reverted: claim does not exist"))
	}
	return c, nil
}

func (f *fakeChain) RoleDigest(ctx context.Context, role contract.Role) (common.Hash, error) {
	if role == contract.RoleAdmin {
		return contract.DefaultAdminRole, nil
	}
	return common.BytesToHash([]byte(role.String())), nil
}

func (f *fakeChain) TransfersTo(ctx context.Context, to common.Address) ([]contract.TransferEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	var out []contract.TransferEvent
	for _, t := range f.transfers {
		if t.To == to {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeChain) TransfersOf(ctx context.Context, tokenID *big.Int) ([]contract.TransferEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.TransferEvent
	for _, t := range f.transfers {
		if t.TokenID.Cmp(tokenID) == 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

func matches(filter, id *big.Int) bool {
	return filter == nil || filter.Cmp(id) == 0
}

func (f *fakeChain) ProductRegistrations(ctx context.Context, tokenID *big.Int) ([]contract.ProductRegisteredEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.ProductRegisteredEvent
	for _, ev := range f.registrations {
		if matches(tokenID, ev.TokenID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeChain) WarrantyActivations(ctx context.Context, tokenID *big.Int) ([]contract.WarrantyActivatedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.WarrantyActivatedEvent
	for _, ev := range f.activations {
		if matches(tokenID, ev.TokenID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeChain) ClaimSubmissions(ctx context.Context, tokenID *big.Int) ([]contract.ClaimSubmittedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.ClaimSubmittedEvent
	for _, ev := range f.submissions {
		if matches(tokenID, ev.TokenID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeChain) ClaimProcessings(ctx context.Context, tokenID *big.Int) ([]contract.ClaimProcessedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.ClaimProcessedEvent
	for _, ev := range f.processings {
		if matches(tokenID, ev.TokenID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeChain) ServiceRecords(ctx context.Context, tokenID *big.Int) ([]contract.ServiceRecordedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.ServiceRecordedEvent
	for _, ev := range f.services {
		if matches(tokenID, ev.TokenID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeChain) send(method string, args ...interface{}) (Pending, error) {
	f.mu.Lock()
	if f.sendErr != nil {
		err := f.sendErr
		f.mu.Unlock()
		return nil, err
	}
	tx := sentTx{Method: method, Args: args}
	f.sent = append(f.sent, tx)
	onSend, waitErr := f.onSend, f.waitErr
	n := len(f.sent)
	f.mu.Unlock()
	if onSend != nil && waitErr == nil {
		onSend(tx)
	}
	return fakePending{hash: common.BigToHash(big.NewInt(int64(n))), err: waitErr}, nil
}

func (f *fakeChain) RegisterProduct(ctx context.Context, owner common.Address, serial, model string, warrantySeconds, claimLimit *big.Int) (Pending, error) {
	return f.send("registerProduct", owner, serial, model, warrantySeconds, claimLimit)
}

func (f *fakeChain) SubmitWarrantyClaim(ctx context.Context, tokenID *big.Int, description string) (Pending, error) {
	return f.send("submitWarrantyClaim", tokenID, description)
}

func (f *fakeChain) ProcessWarrantyClaim(ctx context.Context, claimID *big.Int, approved bool) (Pending, error) {
	return f.send("processWarrantyClaim", claimID, approved)
}

func (f *fakeChain) RecordService(ctx context.Context, claimID *big.Int, notes string) (Pending, error) {
	return f.send("recordService", claimID, notes)
}

func (f *fakeChain) SafeTransferFrom(ctx context.Context, from, to common.Address, tokenID *big.Int) (Pending, error) {
	return f.send("safeTransferFrom", from, to, tokenID)
}

func (f *fakeChain) GrantRole(ctx context.Context, role common.Hash, acc common.Address) (Pending, error) {
	return f.send("grantRole", role, acc)
}

func connected(acc common.Address, roles session.RoleSet) session.Context {
	return session.Context{
		Session: session.Session{Account: acc, Signer: staticSigner{acc}},
		Roles:   roles,
	}
}

func newTestEnv(chain *fakeChain, inputs ...string) (Env, *ui.RecordingUI) {
	u := ui.NewRecordingUI(inputs...)
	return NewEnv(u, chain.bind, nil), u
}

func entry(method, value string) ui.Entry {
	return ui.Entry{Method: method, Value: value}
}
