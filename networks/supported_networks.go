package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	Sepolia,
	Holesky,
	PolygonAmoy,
	Localhost,
}

var globalSupportedNetworks = newSupportedNetworks(supportedNetworks, customNetworksDir())
var ErrNetworkNotFound = fmt.Errorf("network not found")

type networks struct {
	networks     map[string]Network
	networksByID map[uint64]Network
}

func (n *networks) getSupportedNetworkNames() []string {
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	res, found := n.networks[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) add(network Network) error {
	for _, name := range append([]string{network.GetName()}, network.GetAlternativeNames()...) {
		if _, found := n.networks[name]; found {
			return fmt.Errorf("network with name or alternative name of '%s' already exists", name)
		}
	}
	n.networks[network.GetName()] = network
	for _, an := range network.GetAlternativeNames() {
		n.networks[an] = network
	}
	n.networksByID[network.GetChainID()] = network
	return nil
}

func newSupportedNetworks(builtin []Network, customDir string) *networks {
	result := networks{
		map[string]Network{},
		map[uint64]Network{},
	}
	for _, n := range builtin {
		if err := result.add(n); err != nil {
			panic(err)
		}
	}

	if customDir == "" {
		return &result
	}
	customNetworks, err := loadCustomNetworks(customDir)
	if err != nil {
		fmt.Printf("WARNING: Failed to load custom networks: %s. Ignore and continue with built-in networks.\n", err)
		return &result
	}

	for _, n := range customNetworks {
		if _, nameFound := result.networks[n.GetName()]; nameFound {
			fmt.Printf("Network with name '%s' already exists. Using custom network.\n", n.GetName())
		}
		if _, idFound := result.networksByID[n.GetChainID()]; idFound {
			fmt.Printf("Network with id '%d' already exists. Using custom network.\n", n.GetChainID())
		}
		result.networks[n.GetName()] = n
		result.networksByID[n.GetChainID()] = n
	}
	return &result
}

func customNetworksDir() string {
	usr, err := user.Current()
	if err != nil {
		return ""
	}
	return filepath.Join(usr.HomeDir, ".provenance", "networks")
}

func loadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	networks := []Network{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}

		network, err := NewNetworkFromJSON(content)
		if err != nil {
			fmt.Printf("failed to parse network from file %s: %s. Ignore and continue with other custom networks.\n", file, err)
			continue
		}
		networks = append(networks, network)
	}
	return networks, nil
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	config := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("network config has no name")
	}
	if config.ChainID == 0 {
		return nil, fmt.Errorf("network %s has no chain id", config.Name)
	}
	config.Name = strings.ToLower(config.Name)
	return NewGenericNetwork(config), nil
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

// Nodes returns the default nodes of n plus a "custom-node" taken from
// the network's node variable when it is set.
func Nodes(n Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range n.GetDefaultNodes() {
		nodes[name] = url
	}
	customNode := strings.Trim(os.Getenv(n.GetNodeVariableName()), " ")
	if customNode != "" {
		nodes["custom-node"] = customNode
	}
	return nodes
}

// Contract returns the warranty contract address for n, preferring the
// network's contract variable over its default.
func Contract(n Network) string {
	if addr := strings.TrimSpace(os.Getenv(n.GetContractVariableName())); addr != "" {
		return addr
	}
	return n.GetDefaultContract()
}

// GetSupportedNetworks lists every network once, ordered by chain id.
func GetSupportedNetworks() []Network {
	res := []Network{}
	for _, n := range globalSupportedNetworks.networksByID {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].GetChainID() < res[j].GetChainID() })
	return res
}

// AddNetwork saves n as <name>.json in ~/.provenance/networks and makes
// it available to this process, replacing any network with the same
// name or chain id.
func AddNetwork(n Network) error {
	return globalSupportedNetworks.save(customNetworksDir(), n)
}

func (ns *networks) save(dir string, n Network) error {
	if dir == "" {
		return fmt.Errorf("no custom network directory")
	}
	content, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal network %s: %w", n.GetName(), err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, n.GetName()+".json"), content, 0o644); err != nil {
		return fmt.Errorf("failed to write network %s: %w", n.GetName(), err)
	}
	ns.networks[n.GetName()] = n
	for _, an := range n.GetAlternativeNames() {
		ns.networks[an] = n
	}
	ns.networksByID[n.GetChainID()] = n
	return nil
}
