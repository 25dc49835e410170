package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"lifesync/internal/logging"
	"lifesync/internal/orchestrator"
	"lifesync/internal/provider"
)

// LogLevelEnv overrides log.level from the file.
const LogLevelEnv = "LIFESYNC_LOG_LEVEL"

var (
	// ErrNotConfigured is returned when providers.json does not exist.
	ErrNotConfigured = errors.New("no providers configured")

	// ErrInvalidConfig is returned when providers.json is malformed.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)

//go:embed providers.schema.json
var schemaJSON []byte

const schemaURL = "providers.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Providers is the decoded providers.json.
type Providers struct {
	Sync      SyncSettings    `json:"sync"`
	Log       logging.Config  `json:"log"`
	Providers []ProviderEntry `json:"providers"`
}

// SyncSettings tunes the orchestrator. Zero values keep the defaults.
type SyncSettings struct {
	PerCallTimeoutMs      int  `json:"perCallTimeoutMs"`
	MaxConcurrentAdapters int  `json:"maxConcurrentAdapters"`
	RetryBackoffMs        *int `json:"retryBackoffMs"`
	CacheTTLMs            int  `json:"cacheTtlMs"`
}

// Options converts the settings to orchestrator options.
func (s SyncSettings) Options() orchestrator.Options {
	opts := orchestrator.DefaultOptions()
	if s.PerCallTimeoutMs > 0 {
		opts.PerCallTimeout = time.Duration(s.PerCallTimeoutMs) * time.Millisecond
	}
	if s.MaxConcurrentAdapters > 0 {
		opts.MaxConcurrentAdapters = s.MaxConcurrentAdapters
	}
	if s.RetryBackoffMs != nil {
		opts.RetryBackoff = time.Duration(*s.RetryBackoffMs) * time.Millisecond
	}
	if s.CacheTTLMs > 0 {
		opts.CacheTTL = time.Duration(s.CacheTTLMs) * time.Millisecond
	}
	return opts
}

// ProviderEntry is one configured source.
type ProviderEntry struct {
	// Name identifies the source in ids and reports. Empty means Type.
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Token    string            `json:"token"`
	TokenEnv string            `json:"tokenEnv"`
	Domain   string            `json:"domain"`
	BaseURL  string            `json:"baseUrl"`
	Params   map[string]string `json:"params"`
	Disabled bool              `json:"disabled"`
}

// Credential resolves the entry's credential. A token in the file wins
// over tokenEnv.
func (p ProviderEntry) Credential() (provider.Credential, error) {
	token := p.Token
	if token == "" && p.TokenEnv != "" {
		v, ok := os.LookupEnv(p.TokenEnv)
		if !ok || strings.TrimSpace(v) == "" {
			return provider.Credential{}, fmt.Errorf("%w: provider %s: environment variable %s is not set", ErrInvalidConfig, p.Name, p.TokenEnv)
		}
		token = v
	}
	return provider.Credential{
		Token:  strings.TrimSpace(token),
		Domain: strings.TrimSpace(p.Domain),
		Params: p.Params,
	}, nil
}

// LoadProviders reads and validates providers.json.
func (c *Config) LoadProviders() (*Providers, error) {
	return LoadProvidersFile(c.ProvidersPath())
}

// LoadProvidersFile reads, validates and decodes path.
func LoadProvidersFile(path string) (*Providers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNotConfigured, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseProviders(data)
}

// ParseProviders validates data against the embedded schema and decodes it.
func ParseProviders(data []byte) (*Providers, error) {
	sch, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling provider schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := &Providers{Log: logging.DefaultConfig()}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for i := range cfg.Providers {
		e := &cfg.Providers[i]
		e.Type = strings.ToLower(strings.TrimSpace(e.Type))
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			e.Name = e.Type
		}
	}

	if level := os.Getenv(LogLevelEnv); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}
