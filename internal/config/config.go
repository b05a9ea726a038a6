// Package config loads the Plex connection settings from the environment and
// the library list from config.yml.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read at load time.
const (
	EnvToken    = "PLEX_TOKEN"
	EnvServerIP = "PLEX_SERVER_IP"
	EnvPublicIP = "PLEX_SERVER_PUBLIC_IP"
)

// Config is the resolved runtime configuration, built once at startup.
type Config struct {
	Token         string
	ServerIP      string // primary address
	PublicIP      string // fallback address, empty when none is configured
	UsingPublicIP bool   // primary is the public address (no local IP given)

	// Libraries are the configured library names, sorted.
	Libraries []string

	// CollectionFiles maps a library name to its collection-config file paths.
	// Consumed only when collection editing is enabled.
	CollectionFiles map[string][]string
}

// fileConfig is the config.yml wire format: a mapping of library name to
// per-library settings.
type fileConfig struct {
	Libraries map[string]librarySettings `yaml:"libraries"`
}

type librarySettings struct {
	CollectionFiles []collectionFileRef `yaml:"collection_files"`
}

type collectionFileRef struct {
	File string `yaml:"file"`
}

// Load reads the environment (after a best-effort .env load) and the YAML
// config file at path. Environment problems are accumulated into a single
// *ConfigError so a user can fix everything in one pass.
func Load(path string) (*Config, error) {
	// Take environment variables from .env when present. A missing .env is
	// fine; the variables may come from the shell.
	_ = godotenv.Overload()

	cfg := &Config{}
	cerr := &ConfigError{Path: path}

	cfg.Token = os.Getenv(EnvToken)
	if cfg.Token == "" {
		cerr.Missing = append(cerr.Missing, EnvToken)
	}

	cfg.ServerIP = os.Getenv(EnvServerIP)
	publicIP := os.Getenv(EnvPublicIP)
	switch {
	case cfg.ServerIP != "":
		cfg.PublicIP = publicIP
	case publicIP != "":
		// No local address given, promote the public one to primary.
		cfg.ServerIP = publicIP
		cfg.UsingPublicIP = true
	default:
		cerr.Missing = append(cerr.Missing, fmt.Sprintf("%s (or %s)", EnvServerIP, EnvPublicIP))
	}

	for _, addr := range []string{cfg.ServerIP, cfg.PublicIP} {
		if addr != "" && !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
			cerr.Errors = append(cerr.Errors,
				fmt.Sprintf("server address %q must begin with http:// or https://", addr))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		cerr.Errors = append(cerr.Errors, fmt.Sprintf("reading config: %v", err))
		return nil, cerr
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		cerr.Errors = append(cerr.Errors, fmt.Sprintf("parsing config: %v", err))
		return nil, cerr
	}
	if len(fc.Libraries) == 0 {
		cerr.Errors = append(cerr.Errors, "no libraries configured")
	}

	cfg.CollectionFiles = make(map[string][]string, len(fc.Libraries))
	for name, settings := range fc.Libraries {
		cfg.Libraries = append(cfg.Libraries, name)
		for _, ref := range settings.CollectionFiles {
			cfg.CollectionFiles[name] = append(cfg.CollectionFiles[name], ref.File)
		}
	}
	sort.Strings(cfg.Libraries)

	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}
