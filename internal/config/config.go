// Package config loads and validates the content engine's TOML
// configuration file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// AdapterSpec describes one adapter registration. Kind selects which
// fields apply: "filesystem" uses Root/Extensions/Writable; "feed" uses
// FeedURL; "rdf" uses RDFFile/RDFURL/RDFFormat/SparqlURL.
type AdapterSpec struct {
	Namespace  string   `toml:"namespace"`
	Kind       string   `toml:"kind"`
	Root       string   `toml:"root,omitempty"`
	Extensions []string `toml:"extensions,omitempty"`
	Writable   bool     `toml:"writable,omitempty"`
	FeedURL    string   `toml:"feed_url,omitempty"`
	RDFFile    string   `toml:"rdf_file,omitempty"`
	RDFURL     string   `toml:"rdf_url,omitempty"`
	RDFFormat  string   `toml:"rdf_format,omitempty"`
	SparqlURL  string   `toml:"sparql_url,omitempty"`
}

// TLSConfig names the certificate/key pair for the JSON-RPC surface's
// optional TLS listener. The paths are decoded only; nothing in this
// repository loads the files.
type TLSConfig struct {
	CertFile string `toml:"cert_file,omitempty"`
	KeyFile  string `toml:"key_file,omitempty"`
}

// Config is the top-level decoded configuration document.
type Config struct {
	Listen      string        `toml:"listen"`
	RemoteHost  string        `toml:"remote_host,omitempty"`
	SeedContent bool          `toml:"seed_content"`
	Adapters    []AdapterSpec `toml:"adapter"`
	TLS         TLSConfig     `toml:"tls"`
}

// Load decodes and validates the TOML configuration at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural invariants Load's callers rely on:
// every adapter has a namespace and a known kind, and each kind's
// required fields are present.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is required")
	}
	seen := make(map[string]bool)
	for _, a := range c.Adapters {
		if a.Namespace == "" {
			return fmt.Errorf("config: adapter missing namespace")
		}
		if seen[a.Namespace] {
			return fmt.Errorf("config: duplicate adapter namespace %q", a.Namespace)
		}
		seen[a.Namespace] = true

		switch a.Kind {
		case "filesystem":
			if a.Root == "" {
				return fmt.Errorf("config: filesystem adapter %q requires root", a.Namespace)
			}
		case "feed":
			if a.FeedURL == "" {
				return fmt.Errorf("config: feed adapter %q requires feed_url", a.Namespace)
			}
		case "rdf":
			hasFile := a.RDFFile != ""
			hasURL := a.RDFURL != ""
			if hasFile == hasURL {
				return fmt.Errorf("config: rdf adapter %q requires exactly one of rdf_file or rdf_url", a.Namespace)
			}
		default:
			return fmt.Errorf("config: adapter %q has unknown kind %q", a.Namespace, a.Kind)
		}
	}
	return nil
}
