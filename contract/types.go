package contract

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Product is one registered token as returned by getProductDetails and
// isWarrantyActive.
type Product struct {
	TokenID              *big.Int
	SerialNumber         string
	Model                string
	Manufacturer         common.Address
	ManufactureTimestamp *big.Int
	WarrantyDuration     *big.Int
	WarrantyClaimLimit   *big.Int
	WarrantyStart        *big.Int
	WarrantyExpiration   *big.Int
	WarrantyClaimCount   *big.Int
	IsWarrantyActive     bool
}

// Sold reports whether the warranty was ever activated, which the
// contract does on the first sale to a customer.
func (p Product) Sold() bool {
	return p.WarrantyStart != nil && p.WarrantyStart.Sign() > 0
}

type WarrantyClaim struct {
	ClaimID          *big.Int
	TokenID          *big.Int
	Customer         common.Address
	IssueDescription string
	SubmittedAt      *big.Int
	Processed        bool
	Approved         bool
	ServiceNotes     string
	ProcessedAt      *big.Int
}

type Role uint8

const (
	RoleAdmin Role = iota
	RoleManufacturer
	RoleRetailer
	RoleServiceCenter
)

// DefaultAdminRole is the OpenZeppelin AccessControl admin role digest.
var DefaultAdminRole = common.Hash{}

// GrantableRoles are the roles an admin may hand out.
var GrantableRoles = []Role{RoleManufacturer, RoleRetailer, RoleServiceCenter}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleManufacturer:
		return "MANUFACTURER"
	case RoleRetailer:
		return "RETAILER"
	case RoleServiceCenter:
		return "SERVICE_CENTER"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Title is the human readable role name.
func (r Role) Title() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleManufacturer:
		return "Manufacturer"
	case RoleRetailer:
		return "Retailer"
	case RoleServiceCenter:
		return "Service Center"
	}
	return r.String()
}

// method returns the constant getter exposing the role digest. Admin has
// none, its digest is DefaultAdminRole.
func (r Role) method() string {
	switch r {
	case RoleManufacturer:
		return "MANUFACTURER_ROLE"
	case RoleRetailer:
		return "RETAILER_ROLE"
	case RoleServiceCenter:
		return "SERVICE_CENTER_ROLE"
	}
	return ""
}

// ParseGrantableRole accepts MANUFACTURER, RETAILER or SERVICE_CENTER in
// any case, with spaces or dashes in place of the underscore.
func ParseGrantableRole(name string) (Role, bool) {
	norm := strings.ToUpper(strings.TrimSpace(name))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, r := range GrantableRoles {
		if r.String() == norm {
			return r, true
		}
	}
	return 0, false
}

// Event structs carry the log position so callers can order a token's
// history.

type LogRef struct {
	BlockNumber uint64
	TxHash      common.Hash
	Index       uint
}

type TransferEvent struct {
	LogRef
	From    common.Address
	To      common.Address
	TokenID *big.Int
}

type ProductRegisteredEvent struct {
	LogRef
	TokenID          *big.Int
	SerialNumber     string
	Model            string
	Manufacturer     common.Address
	InitialOwner     common.Address
	Timestamp        *big.Int
	WarrantyDuration *big.Int
	ClaimLimit       *big.Int
}

type WarrantyActivatedEvent struct {
	LogRef
	TokenID        *big.Int
	Customer       common.Address
	StartTime      *big.Int
	ExpirationTime *big.Int
}

type ClaimSubmittedEvent struct {
	LogRef
	ClaimID          *big.Int
	TokenID          *big.Int
	Customer         common.Address
	IssueDescription string
	SubmittedAt      *big.Int
}

type ClaimProcessedEvent struct {
	LogRef
	ClaimID       *big.Int
	TokenID       *big.Int
	ServiceCenter common.Address
	Approved      bool
	ProcessedAt   *big.Int
}

type ServiceRecordedEvent struct {
	LogRef
	TokenID       *big.Int
	ClaimID       *big.Int
	ServiceCenter common.Address
	ServiceNotes  string
	ServiceDate   *big.Int
}
