package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/leadboard/internal/leads"
)

// LoadRules reads display rules from a YAML file. An empty path returns
// leads.DefaultRules. Fields left out of the file keep their defaults.
//
// Example file:
//
//	timestamp_keywords: [timestamp, created]
//	industry_header: Industry Type
//	industry_styles:
//	  Healthcare: green
//	  Retail: blue
//	zones:
//	  source_offset_hours: 8
//	  target_offset_hours: 1
func LoadRules(path string) (leads.Rules, error) {
	if path == "" {
		return leads.DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return leads.Rules{}, fmt.Errorf("read display rules %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML display rules over the defaults, so keys left
// out (including a single zone offset) keep their default values. Empty
// strings and lists are then refilled. Unknown keys are rejected so typos
// surface at startup.
func ParseRules(data []byte) (leads.Rules, error) {
	r := leads.DefaultRules()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return leads.Rules{}, fmt.Errorf("parse display rules: %w", err)
	}
	return r.WithDefaults(), nil
}
