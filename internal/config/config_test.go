package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopherdesk/contentd/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "contentd.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := writeConfig(t, `
listen = ":7070"
seed_content = true

[[adapter]]
namespace = "vault"
kind = "filesystem"
root = "/srv/vault"
writable = true
`)

	cfg, err := config.Load(path)
	require.NoError(err)
	assert.Equal(":7070", cfg.Listen)
	assert.True(cfg.SeedContent)
	require.Len(cfg.Adapters, 1)
	assert.Equal("vault", cfg.Adapters[0].Namespace)
}

func TestValidateRejectsMissingListen(t *testing.T) {
	cfg := &config.Config{}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	cfg := &config.Config{
		Listen:   ":7070",
		Adapters: []config.AdapterSpec{{Namespace: "x", Kind: "mystery"}},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsFilesystemWithoutRoot(t *testing.T) {
	cfg := &config.Config{
		Listen:   ":7070",
		Adapters: []config.AdapterSpec{{Namespace: "vault", Kind: "filesystem"}},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsRDFWithBothSources(t *testing.T) {
	cfg := &config.Config{
		Listen: ":7070",
		Adapters: []config.AdapterSpec{{
			Namespace: "graph",
			Kind:      "rdf",
			RDFFile:   "a.ttl",
			RDFURL:    "http://example.test/a.ttl",
		}},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsRDFWithNeitherSource(t *testing.T) {
	cfg := &config.Config{
		Listen:   ":7070",
		Adapters: []config.AdapterSpec{{Namespace: "graph", Kind: "rdf"}},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsDuplicateNamespace(t *testing.T) {
	cfg := &config.Config{
		Listen: ":7070",
		Adapters: []config.AdapterSpec{
			{Namespace: "vault", Kind: "filesystem", Root: "/a"},
			{Namespace: "vault", Kind: "filesystem", Root: "/b"},
		},
	}
	assert.Error(t, cfg.Validate())
}
