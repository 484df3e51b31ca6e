package shell

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
	"github.com/tranvictor/provenance/wallet"
)

type fakeRoles struct {
	granted map[contract.Role]bool
}

func (f fakeRoles) RoleDigest(ctx context.Context, role contract.Role) (common.Hash, error) {
	return common.BigToHash(big.NewInt(int64(role))), nil
}

func (f fakeRoles) HasRole(ctx context.Context, role common.Hash, acc common.Address) (bool, error) {
	return f.granted[contract.Role(role.Big().Int64())], nil
}

// emptyContract owns nothing. Methods the tests never reach are left
// to the nil embedded interface.
type emptyContract struct {
	panel.Contract
}

func (emptyContract) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (emptyContract) TransfersTo(ctx context.Context, to common.Address) ([]contract.TransferEvent, error) {
	return nil, nil
}

func newShell(t *testing.T, granted map[contract.Role]bool, inputs ...string) (*Shell, *wallet.KeyWallet, *ui.RecordingUI) {
	t.Helper()
	return newShellWith(t, emptyContract{}, granted, inputs...)
}

func newShellWith(t *testing.T, c panel.Contract, granted map[contract.Role]bool, inputs ...string) (*Shell, *wallet.KeyWallet, *ui.RecordingUI) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	w := wallet.NewKeyWallet(key)
	w.Disconnect()

	m := session.NewManager(w, func(account.Signer) session.RoleReader {
		return fakeRoles{granted: granted}
	}, nil)
	u := ui.NewRecordingUI(inputs...)
	env := panel.NewEnv(u, func(account.Signer) panel.Contract { return c }, nil)
	return New(m, env), w, u
}

func TestConnectLockedEntryAndDisconnect(t *testing.T) {
	s, w, u := newShell(t, nil,
		"1", // Connect Wallet
		"2", // Register Product, locked
		"6", // Role Management
		"9", // Disconnect
		"2", // Quit
	)

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, u.SuccessMessages(), "Connected "+w.Address().Hex())
	assert.Contains(t, u.WarnMessages(), "Insufficient Permissions")
	assert.Contains(t, u.InfoMessages(), "Register Product requires the Manufacturer role")
	assert.Contains(t, u.Entries(), ui.Entry{Method: "KeyValue", Value: "Retailer: No"})
	assert.Contains(t, u.SuccessMessages(), "Wallet disconnected")
	assert.False(t, s.manager.Current().Session.Connected())
	assert.Zero(t, u.Remaining())
}

func TestRestoredSessionSkipsConnector(t *testing.T) {
	s, w, u := newShell(t, map[contract.Role]bool{contract.RoleManufacturer: true},
		"1",  // My Products
		"5",  // Back
		"10", // Quit
	)
	_, err := w.RequestAccounts(context.Background(), u)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, u.Entries(), ui.Entry{Method: "KeyValue", Value: "Roles: Manufacturer"})
	assert.Contains(t, u.InfoMessages(), "You don't have any products yet")
	assert.Empty(t, u.ErrorMessages())
	assert.Zero(t, u.Remaining())
}

func TestMenuMarksLockedEntries(t *testing.T) {
	s, w, u := newShell(t, map[contract.Role]bool{contract.RoleRetailer: true}, "10")
	_, err := w.RequestAccounts(context.Background(), u)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "Retailer", roleBadges(s.manager.Current().Roles))
	opts := []string{}
	for _, e := range s.entries() {
		if e.role != nil && !s.manager.Current().Roles.Has(*e.role) {
			opts = append(opts, e.title)
		}
	}
	assert.Equal(t, []string{"Register Product", "Service Center"}, opts)
}

func TestAnnounceWalletChanges(t *testing.T) {
	s, w, u := newShell(t, nil)
	_, err := w.RequestAccounts(context.Background(), u)
	require.NoError(t, err)

	_, err = s.manager.Restore(context.Background())
	require.NoError(t, err)
	s.accept(s.manager.Current())
	s.manager.OnChange(s.observe)

	// nothing changed, nothing to say
	s.announce()
	assert.Empty(t, u.WarnMessages())

	s.manager.Disconnect()
	cur := s.announce()
	assert.False(t, cur.Session.Connected())
	assert.Equal(t, []string{"Wallet disconnected"}, u.WarnMessages())
}

func TestRoleBadges(t *testing.T) {
	assert.Equal(t, "Customer", roleBadges(session.RoleSet{}))
	assert.Equal(t, "Administrator, Service Center", roleBadges(session.RoleSet{Admin: true, ServiceCenter: true}))
}

func TestEstablishConnectsWhenNothingRestored(t *testing.T) {
	s, w, u := newShell(t, nil)
	sc, ok := s.Establish(context.Background())
	require.True(t, ok)
	assert.Equal(t, w.Address(), sc.Session.Account)
	assert.Contains(t, u.SuccessMessages(), "Connected "+w.Address().Hex())

	// already authorized, no second prompt
	sc, ok = s.Establish(context.Background())
	require.True(t, ok)
	assert.Equal(t, []string{"Connected " + w.Address().Hex()}, u.SuccessMessages())
}

type minedTx struct{}

func (minedTx) Hash() common.Hash { return common.HexToHash("0xabc") }

func (minedTx) Wait(ctx context.Context) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

type claimsContract struct {
	emptyContract
	claims map[int64]*contract.WarrantyClaim
}

func newClaimsContract(claims ...contract.WarrantyClaim) *claimsContract {
	c := &claimsContract{claims: map[int64]*contract.WarrantyClaim{}}
	for i := range claims {
		c.claims[claims[i].ClaimID.Int64()] = &claims[i]
	}
	return c
}

func (c *claimsContract) ClaimSubmissions(ctx context.Context, tokenID *big.Int) ([]contract.ClaimSubmittedEvent, error) {
	evs := []contract.ClaimSubmittedEvent{}
	for _, cl := range c.claims {
		evs = append(evs, contract.ClaimSubmittedEvent{ClaimID: cl.ClaimID, TokenID: cl.TokenID})
	}
	return evs, nil
}

func (c *claimsContract) WarrantyClaim(ctx context.Context, id *big.Int) (contract.WarrantyClaim, error) {
	cl, ok := c.claims[id.Int64()]
	if !ok {
		return contract.WarrantyClaim{}, errors.New("no such claim")
	}
	return *cl, nil
}

func (c *claimsContract) RecordService(ctx context.Context, id *big.Int, notes string) (panel.Pending, error) {
	c.claims[id.Int64()].ServiceNotes = notes
	return minedTx{}, nil
}

func testClaim(id int64, processed, approved bool, notes string) contract.WarrantyClaim {
	return contract.WarrantyClaim{
		ClaimID:          big.NewInt(id),
		TokenID:          big.NewInt(7),
		IssueDescription: "cracked screen",
		SubmittedAt:      big.NewInt(1700000000),
		Processed:        processed,
		Approved:         approved,
		ServiceNotes:     notes,
		ProcessedAt:      big.NewInt(1700000100),
	}
}

func TestServiceCenterOffersNothingForClosedClaims(t *testing.T) {
	claims := newClaimsContract(
		testClaim(1, true, false, ""),
		testClaim(2, true, true, "replaced screen"),
	)
	for _, tc := range []struct {
		id    string
		state string
	}{
		{"1", "Rejected"},
		{"2", "Serviced"},
	} {
		t.Run(tc.state, func(t *testing.T) {
			s, w, u := newShellWith(t, claims, map[contract.Role]bool{contract.RoleServiceCenter: true},
				"4",   // Service Center
				"1",   // Open claim by ID
				tc.id, // claim
				"3",   // Back
				"10",  // Quit
			)
			_, err := w.RequestAccounts(context.Background(), u)
			require.NoError(t, err)

			require.NoError(t, s.Run(context.Background()))
			assert.Contains(t, u.InfoMessages(), "Claim #"+tc.id+" is "+tc.state+", nothing left to do")
			assert.NotContains(t, u.InfoMessages(), "Service notes:")
			assert.Empty(t, u.ErrorMessages())
			assert.Zero(t, u.Remaining())
		})
	}
}

func TestServiceCenterApprovedClaimOnlyTakesServiceNotes(t *testing.T) {
	claims := newClaimsContract(testClaim(3, true, true, ""))
	s, w, u := newShellWith(t, claims, map[contract.Role]bool{contract.RoleServiceCenter: true},
		"4",               // Service Center
		"1",               // Open claim by ID
		"3",               // claim
		"1",               // Record service, the only action
		"replaced screen", // notes
		"3",               // Back
		"10",              // Quit
	)
	_, err := w.RequestAccounts(context.Background(), u)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, u.Entries(), ui.Entry{Method: "Choose", Value: "Claim #3 (Approved)"})
	assert.Contains(t, u.InfoMessages(), "Service notes:")
	assert.Contains(t, u.SuccessMessages(), "Service record saved")
	assert.Equal(t, "replaced screen", claims.claims[3].ServiceNotes)
	assert.Empty(t, u.ErrorMessages())
	assert.Zero(t, u.Remaining())
}
