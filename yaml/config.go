// Package yaml reads index configuration from YAML.
package yaml

import (
	"errors"
	"io"

	"github.com/fwojciec/xmlidx"
	"gopkg.in/yaml.v3"
)

type config struct {
	WorkDir string        `yaml:"workDir"`
	Strict  bool          `yaml:"strict"`
	Jobs    int           `yaml:"jobs"`
	Indexes []indexConfig `yaml:"indexes"`
}

type indexConfig struct {
	Name   string       `yaml:"name"`
	Key    string       `yaml:"key"`
	Value  string       `yaml:"value"`
	Cache  int          `yaml:"cache"`
	Engine string       `yaml:"engine"`
	Data   []dataConfig `yaml:"data"`
}

type dataConfig struct {
	Base         string `yaml:"base"`
	Files        string `yaml:"files"`
	Recurse      bool   `yaml:"recurse"`
	System       bool   `yaml:"system"`
	Database     string `yaml:"database"`
	Transient    bool   `yaml:"transient"`
	WarnOverride *bool  `yaml:"warnOverride"`
}

// ReadConfig reads a configuration of the form
//
//	workDir: /var/tmp/build
//	indexes:
//	  - name: reflection
//	    key: "@id"
//	    value: /reflection/apis/api
//	    data:
//	      - base: ${DXROOT}/Data/Reflection
//	        files: "*.xml"
//	        recurse: true
//	        system: true
//
// Unknown fields are rejected. Defaults are applied but the result is not
// validated.
func ReadConfig(r io.Reader) (*xmlidx.Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw config
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "parsing configuration: %s", err)
	}

	c := &xmlidx.Config{
		WorkDir: raw.WorkDir,
		Strict:  raw.Strict,
		Jobs:    raw.Jobs,
	}
	for _, ri := range raw.Indexes {
		idx := xmlidx.IndexConfig{
			Name:   ri.Name,
			Key:    ri.Key,
			Value:  ri.Value,
			Cache:  ri.Cache,
			Engine: ri.Engine,
		}
		for _, rd := range ri.Data {
			warn := true
			if rd.WarnOverride != nil {
				warn = *rd.WarnOverride
			}
			idx.Data = append(idx.Data, xmlidx.DataConfig{
				Base:         rd.Base,
				Files:        rd.Files,
				Recurse:      rd.Recurse,
				System:       rd.System,
				Database:     rd.Database,
				Transient:    rd.Transient,
				WarnOverride: warn,
			})
		}
		c.Indexes = append(c.Indexes, idx)
	}

	c.SetDefaults()
	return c, nil
}
