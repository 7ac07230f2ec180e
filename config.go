package xmlidx

import (
	"os"
	"regexp"
	"strings"
)

// Configuration defaults.
const (
	DefaultCacheSize = 10
	DefaultEngine    = "sqlite"
	DefaultJobs      = 1
)

// Config describes every index built for one build pass.
type Config struct {
	Indexes []IndexConfig `json:"indexes"`

	// WorkDir is the parent directory of transient durable stores.
	// Empty means the OS temporary directory.
	WorkDir string `json:"workDir"`

	// Strict turns configuration errors into hard failures instead of
	// abandoning the offending index.
	Strict bool `json:"strict"`

	// Jobs is the number of files parsed concurrently during ingestion.
	Jobs int `json:"jobs"`
}

// IndexConfig declares one named index.
type IndexConfig struct {
	Name   string       `json:"name"`
	Key    string       `json:"key"`
	Value  string       `json:"value"`
	Cache  int          `json:"cache"`
	Engine string       `json:"engine"`
	Data   []DataConfig `json:"data"`
}

// DataConfig declares one data location feeding an index.
type DataConfig struct {
	Base    string `json:"base"`
	Files   string `json:"files"`
	Recurse bool   `json:"recurse"`

	// System marks data covered by a long-lived store shared across builds.
	System bool `json:"system"`

	// Database is the directory of a pre-built durable store for this
	// location. When the store exists its records are used instead of
	// parsing the files.
	Database string `json:"database"`

	// Transient ingests the location into a durable store that is deleted
	// when the index is closed.
	Transient bool `json:"transient"`

	WarnOverride bool `json:"warnOverride"`
}

// SetDefaults fills zero-valued fields with their defaults.
func (c *Config) SetDefaults() {
	if c.Jobs <= 0 {
		c.Jobs = DefaultJobs
	}
	for i := range c.Indexes {
		c.Indexes[i].SetDefaults()
	}
}

// SetDefaults fills zero-valued fields with their defaults.
func (c *IndexConfig) SetDefaults() {
	if c.Cache == 0 {
		c.Cache = DefaultCacheSize
	}
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
}

// Validate returns an error if the configuration is invalid.
// Index names must be unique, ignoring case.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Indexes))
	for i := range c.Indexes {
		idx := &c.Indexes[i]
		if err := idx.Validate(); err != nil {
			return err
		}
		name := strings.ToLower(idx.Name)
		if seen[name] {
			return Errorf(EINVALID, "duplicate index name %q", idx.Name)
		}
		seen[name] = true
	}
	return nil
}

// Validate returns an error if the index declaration is invalid.
func (c *IndexConfig) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "each index must have a unique name")
	}
	if c.Value == "" {
		return Errorf(EINVALID, "index %q: value rule required", c.Name)
	}
	if c.Key == "" {
		return Errorf(EINVALID, "index %q: key rule required", c.Name)
	}
	if c.Cache < 1 {
		return Errorf(EINVALID, "index %q: cache size must be positive", c.Name)
	}
	for i := range c.Data {
		if err := c.Data[i].Validate(); err != nil {
			return Errorf(EINVALID, "index %q: %s", c.Name, ErrorMessage(err))
		}
	}
	return nil
}

// Validate returns an error if the data declaration is invalid.
func (d *DataConfig) Validate() error {
	if d.Files == "" {
		return Errorf(EINVALID, "data element must have a files pattern")
	}
	if d.System && d.Transient {
		return Errorf(EINVALID, "data element %q cannot be both system and transient", d.Files)
	}
	return nil
}

var percentVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// ExpandEnv replaces $VAR, ${VAR} and %VAR% references with the values of
// the corresponding environment variables. Unset %VAR% references are left
// untouched.
func ExpandEnv(s string) string {
	s = percentVar.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := os.LookupEnv(m[1 : len(m)-1]); ok {
			return v
		}
		return m
	})
	return os.ExpandEnv(s)
}
