package config

import (
	"errors"
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var Network string

var (
	RPC       string
	Contract  string
	FromBlock uint64
	Keystore  string
	From      string

	GasPrice      float64
	ExtraGasPrice float64
	TipGas        float64
	GasLimit      uint64
	ExtraGasLimit uint64
	ForceLegacy   bool

	LogLevel string
	LogFile  string
	Verbose  bool

	// never flags, only env or config file
	PrivateKey string
	Passphrase string
)

const envPrefix = "PROVENANCE"

// Dir is ~/.provenance, home of the config file, the default keystore
// and the log.
func Dir() string {
	usr, err := user.Current()
	if err != nil {
		return ".provenance"
	}
	return filepath.Join(usr.HomeDir, ".provenance")
}

func DefaultKeystore() string {
	return filepath.Join(Dir(), "keystore")
}

func DefaultLogFile() string {
	return filepath.Join(Dir(), "provenance.log")
}

// Load fills the globals from flags, PROVENANCE_* env vars and
// ~/.provenance/config.yaml, in that order of precedence.
func Load(flags *pflag.FlagSet) error {
	return load(Dir(), flags)
}

func load(dir string, flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("couldn't read config in %s: %w", dir, err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("couldn't bind flags: %w", err)
		}
	}

	Network = stringOr(v, "network", Network)
	RPC = stringOr(v, "rpc", RPC)
	Contract = stringOr(v, "contract", Contract)
	FromBlock = v.GetUint64("from-block")
	Keystore = stringOr(v, "keystore", Keystore)
	From = stringOr(v, "from", From)

	GasPrice = v.GetFloat64("gasprice")
	ExtraGasPrice = v.GetFloat64("extraprice")
	TipGas = v.GetFloat64("tipgas")
	GasLimit = v.GetUint64("gas")
	ExtraGasLimit = v.GetUint64("extragas")
	ForceLegacy = v.GetBool("legacy-tx")

	LogLevel = stringOr(v, "log-level", LogLevel)
	LogFile = stringOr(v, "log-file", LogFile)
	Verbose = v.GetBool("verbose")

	PrivateKey = strings.TrimSpace(v.GetString("private-key"))
	Passphrase = v.GetString("passphrase")
	return nil
}

func stringOr(v *viper.Viper, key, fallback string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return fallback
}
