package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sigweihq/web3provider/pkg/types"
)

const (
	// DefaultFileName is looked up in the working directory when no path is given
	DefaultFileName = "web3provider.toml"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "WEB3_"
	// DefaultEnvFile is read for overrides that are not already set in the process environment
	DefaultEnvFile = ".env"
)

const (
	envAvailableChains = EnvPrefix + "AVAILABLE_CHAINS"
	envRPCURL          = EnvPrefix + "RPC_URL_"
	envExplorerURL     = EnvPrefix + "EXPLORER_URL_"
	envWalletURL       = EnvPrefix + "WALLET_URL"
	envLogLevel        = EnvPrefix + "LOG_LEVEL"
)

// Loader resolves configuration from a TOML file, a dotenv file and the process environment
// Priority: process environment > dotenv file > config file > defaults
type Loader struct {
	dir     string
	envFile string
	environ func() []string
	logger  *slog.Logger
}

// NewLoader creates a loader that looks for files relative to dir ("" means the working directory)
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dir:     dir,
		envFile: DefaultEnvFile,
		environ: os.Environ,
		logger:  logger,
	}
}

// Load reads the explicit path, or DefaultFileName when path is empty, then applies environment overrides
// Returns the config and the file it was read from ("" when none was found)
func (l *Loader) Load(path string) (*Config, string, error) {
	file, err := l.findConfigFile(path)
	if err != nil {
		return nil, "", err
	}

	cfg := Default()
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, "", fmt.Errorf("%s: %w", file, err)
		}
		l.warnUnknownKeys(data)
		l.logger.Debug("loaded config file", "path", file)
	}

	env, err := l.environment()
	if err != nil {
		return nil, "", err
	}
	cfg.ApplyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, file, nil
}

// Load is a shorthand for NewLoader("", nil).Load(path)
func Load(path string) (*Config, string, error) {
	return NewLoader("", nil).Load(path)
}

// findConfigFile returns the explicit path when given, which must exist, else the default file if present
func (l *Loader) findConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %w", err)
		}
		return path, nil
	}

	candidate := filepath.Join(l.dir, DefaultFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %s: %w", candidate, err)
	}
	return "", nil
}

// environment merges the dotenv file under the process environment
func (l *Loader) environment() (map[string]string, error) {
	env := make(map[string]string)

	dotenv, err := godotenv.Read(filepath.Join(l.dir, l.envFile))
	switch {
	case err == nil:
		for k, v := range dotenv {
			env[k] = v
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", l.envFile, err)
	}

	for _, kv := range l.environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv applies WEB3_* overrides
// WEB3_RPC_URL_<ID> takes a comma separated list; <ID> is matched case-insensitively against chain ids
func (c *Config) ApplyEnv(env map[string]string) {
	if v, ok := env[envAvailableChains]; ok && strings.TrimSpace(v) != "" {
		c.AvailableChains = splitList(v)
	}
	if v, ok := env[envWalletURL]; ok && v != "" {
		c.Wallet.URL = v
	}
	if v, ok := env[envLogLevel]; ok && v != "" {
		c.LogLevel = v
	}

	for key, value := range env {
		switch {
		case strings.HasPrefix(key, envRPCURL) && value != "":
			chain := c.chain(strings.TrimPrefix(key, envRPCURL))
			chain.RPCURLs = splitList(value)
		case strings.HasPrefix(key, envExplorerURL) && value != "":
			chain := c.chain(strings.TrimPrefix(key, envExplorerURL))
			chain.ExplorerURL = value
		}
	}
}

// chain returns the configured chain with the given id, adding an empty entry when missing
func (c *Config) chain(raw string) *ChainConfig {
	id := types.CanonicalChainID(strings.ToLower(raw))
	for i := range c.Chains {
		if types.CanonicalChainID(c.Chains[i].ID) == id {
			return &c.Chains[i]
		}
	}
	c.Chains = append(c.Chains, ChainConfig{ID: id.String()})
	return &c.Chains[len(c.Chains)-1]
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// warnUnknownKeys logs top-level keys the Config type does not know
func (l *Loader) warnUnknownKeys(data []byte) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return
	}

	known := map[string]bool{
		"available_chains": true,
		"chains":           true,
		"wallet":           true,
		"transactions":     true,
		"discovery":        true,
		"log_level":        true,
	}
	for key := range raw {
		if !known[key] {
			l.logger.Warn("unknown config key", "key", key)
		}
	}
}
