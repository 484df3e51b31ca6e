package contract

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// warrantyABI is the one interface this tool speaks: uint256 fields
// everywhere and products looked up by the keccak256 digest of their
// serial number.
const warrantyABI = `[
{"type":"function","name":"registerProduct","stateMutability":"nonpayable",
 "inputs":[{"name":"initialOwner","type":"address"},{"name":"serialNumber","type":"string"},{"name":"model","type":"string"},{"name":"warrantyDurationInSeconds","type":"uint256"},{"name":"claimLimit","type":"uint256"}],
 "outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getProductDetails","stateMutability":"view",
 "inputs":[{"name":"tokenId","type":"uint256"}],
 "outputs":[{"name":"","type":"tuple","internalType":"struct ProductDetails","components":[
   {"name":"serialNumber","type":"string"},
   {"name":"model","type":"string"},
   {"name":"manufacturer","type":"address"},
   {"name":"manufactureTimestamp","type":"uint256"},
   {"name":"warrantyDuration","type":"uint256"},
   {"name":"warrantyClaimLimit","type":"uint256"},
   {"name":"warrantyStart","type":"uint256"},
   {"name":"warrantyExpiration","type":"uint256"},
   {"name":"warrantyClaimCount","type":"uint256"}]}]},
{"type":"function","name":"getWarrantyClaim","stateMutability":"view",
 "inputs":[{"name":"claimId","type":"uint256"}],
 "outputs":[{"name":"","type":"tuple","internalType":"struct WarrantyClaim","components":[
   {"name":"tokenId","type":"uint256"},
   {"name":"customer","type":"address"},
   {"name":"issueDescription","type":"string"},
   {"name":"submittedAt","type":"uint256"},
   {"name":"processed","type":"bool"},
   {"name":"approved","type":"bool"},
   {"name":"serviceNotes","type":"string"},
   {"name":"processedAt","type":"uint256"}]}]},
{"type":"function","name":"submitWarrantyClaim","stateMutability":"nonpayable",
 "inputs":[{"name":"tokenId","type":"uint256"},{"name":"issueDescription","type":"string"}],
 "outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"processWarrantyClaim","stateMutability":"nonpayable",
 "inputs":[{"name":"claimId","type":"uint256"},{"name":"approved","type":"bool"}],"outputs":[]},
{"type":"function","name":"recordService","stateMutability":"nonpayable",
 "inputs":[{"name":"claimId","type":"uint256"},{"name":"serviceNotes","type":"string"}],"outputs":[]},
{"type":"function","name":"isWarrantyActive","stateMutability":"view",
 "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"ownerOf","stateMutability":"view",
 "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"balanceOf","stateMutability":"view",
 "inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view",
 "inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"tokenIdForSerialHash","stateMutability":"view",
 "inputs":[{"name":"serialHash","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"safeTransferFrom","stateMutability":"nonpayable",
 "inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"grantRole","stateMutability":"nonpayable",
 "inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
{"type":"function","name":"hasRole","stateMutability":"view",
 "inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"MANUFACTURER_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"RETAILER_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"SERVICE_CENTER_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"event","name":"ProductRegistered","anonymous":false,"inputs":[
  {"name":"tokenId","type":"uint256","indexed":true},
  {"name":"serialNumber","type":"string","indexed":false},
  {"name":"model","type":"string","indexed":false},
  {"name":"manufacturer","type":"address","indexed":true},
  {"name":"initialOwner","type":"address","indexed":true},
  {"name":"timestamp","type":"uint256","indexed":false},
  {"name":"warrantyDuration","type":"uint256","indexed":false},
  {"name":"claimLimit","type":"uint256","indexed":false}]},
{"type":"event","name":"WarrantyActivated","anonymous":false,"inputs":[
  {"name":"tokenId","type":"uint256","indexed":true},
  {"name":"customer","type":"address","indexed":true},
  {"name":"startTime","type":"uint256","indexed":false},
  {"name":"expirationTime","type":"uint256","indexed":false}]},
{"type":"event","name":"WarrantyClaimSubmitted","anonymous":false,"inputs":[
  {"name":"claimId","type":"uint256","indexed":true},
  {"name":"tokenId","type":"uint256","indexed":true},
  {"name":"customer","type":"address","indexed":true},
  {"name":"issueDescription","type":"string","indexed":false},
  {"name":"submittedAt","type":"uint256","indexed":false}]},
{"type":"event","name":"WarrantyClaimProcessed","anonymous":false,"inputs":[
  {"name":"claimId","type":"uint256","indexed":true},
  {"name":"tokenId","type":"uint256","indexed":true},
  {"name":"serviceCenter","type":"address","indexed":true},
  {"name":"approved","type":"bool","indexed":false},
  {"name":"processedAt","type":"uint256","indexed":false}]},
{"type":"event","name":"ServiceRecorded","anonymous":false,"inputs":[
  {"name":"tokenId","type":"uint256","indexed":true},
  {"name":"claimId","type":"uint256","indexed":true},
  {"name":"serviceCenter","type":"address","indexed":true},
  {"name":"serviceNotes","type":"string","indexed":false},
  {"name":"serviceDate","type":"uint256","indexed":false}]},
{"type":"event","name":"Transfer","anonymous":false,"inputs":[
  {"name":"from","type":"address","indexed":true},
  {"name":"to","type":"address","indexed":true},
  {"name":"tokenId","type":"uint256","indexed":true}]}
]`

var (
	parsed    abi.ABI
	parseOnce sync.Once
)

// ABI returns the parsed warranty contract interface. The JSON is a
// constant so a parse failure is a programming error.
func ABI() *abi.ABI {
	parseOnce.Do(func() {
		var err error
		parsed, err = abi.JSON(strings.NewReader(warrantyABI))
		if err != nil {
			panic(err)
		}
	})
	return &parsed
}
