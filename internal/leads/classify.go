package leads

import (
	"log/slog"
	"strings"
)

// Kind is the display kind of a classified cell.
type Kind int

const (
	KindPlain Kind = iota
	KindURL
	KindTimestamp
	KindIndustry
	KindPhone
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindTimestamp:
		return "timestamp"
	case KindIndustry:
		return "industry"
	case KindPhone:
		return "phoneNumber"
	default:
		return "plain"
	}
}

// MarshalText encodes the kind by name for JSON responses.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name; unknown names read as plain.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "url":
		*k = KindURL
	case "timestamp":
		*k = KindTimestamp
	case "industry":
		*k = KindIndustry
	case "phoneNumber":
		*k = KindPhone
	default:
		*k = KindPlain
	}
	return nil
}

// Match is the result of one classifier in the chain.
type Match struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
	Style string `json:"style,omitempty"`
}

// Cell is a display-ready cell. Kind, Label, Href and Style come from the
// highest-priority match; Alternates holds the lower-priority matches so a
// renderer that does not draw links can still style the value.
type Cell struct {
	Match
	Title      string  `json:"title"`
	Alternates []Match `json:"alternates,omitempty"`
}

// Alternate returns the lower-priority match of the given kind, if any.
func (c Cell) Alternate(k Kind) (Match, bool) {
	for _, m := range c.Alternates {
		if m.Kind == k {
			return m, true
		}
	}
	return Match{}, false
}

// classifyFunc is one step of the chain. It reports whether it applies to the
// header/value pair and, if so, what it renders.
type classifyFunc func(header, raw string) (Match, bool)

// Classifier runs the ordered chain url > timestamp > industry > phone.
type Classifier struct {
	rules     Rules
	converter *TimestampConverter
	chain     []classifyFunc
}

// NewClassifier builds a classifier for the given rules.
func NewClassifier(rules Rules, logger *slog.Logger) *Classifier {
	rules = rules.WithDefaults()
	c := &Classifier{
		rules:     rules,
		converter: NewTimestampConverter(rules.Zones, logger),
	}
	c.chain = []classifyFunc{
		c.classifyURL,
		c.classifyTimestamp,
		c.classifyIndustry,
		c.classifyPhone,
	}
	return c
}

var defaultClassifier = NewClassifier(DefaultRules(), nil)

// Classify classifies a cell with the default rules.
func Classify(header, raw string) Cell {
	return defaultClassifier.Classify(header, raw)
}

// Classify returns the display form of raw under the given column header.
// Title is always the unmodified value.
func (c *Classifier) Classify(header, raw string) Cell {
	cell := Cell{
		Match: Match{Kind: KindPlain, Label: raw},
		Title: raw,
	}

	primary := true
	for _, step := range c.chain {
		m, ok := step(header, raw)
		if !ok {
			continue
		}
		if primary {
			cell.Match = m
			primary = false
			continue
		}
		cell.Alternates = append(cell.Alternates, m)
	}
	return cell
}

// IsTimestampColumn reports whether header names a timestamp-eligible column.
func (c *Classifier) IsTimestampColumn(header string) bool {
	h := strings.ToLower(header)
	for _, kw := range c.rules.TimestampKeywords {
		if strings.Contains(h, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// IsPhoneColumn reports whether header names a phone column.
func (c *Classifier) IsPhoneColumn(header string) bool {
	return strings.Contains(strings.ToLower(header), strings.ToLower(c.rules.PhoneKeyword))
}

// IsIndustryColumn reports whether header is exactly the industry header.
func (c *Classifier) IsIndustryColumn(header string) bool {
	return header == c.rules.IndustryHeader
}

// IndustryStyle returns the configured style for an industry value.
func (c *Classifier) IndustryStyle(value string) string {
	if s, ok := c.rules.IndustryStyles[value]; ok {
		return s
	}
	return c.rules.DefaultIndustryStyle
}

func (c *Classifier) classifyURL(_, raw string) (Match, bool) {
	u := ExtractURL(raw)
	if u == "" {
		return Match{}, false
	}
	return Match{Kind: KindURL, Label: ShortenURL(u), Href: u}, true
}

func (c *Classifier) classifyTimestamp(header, raw string) (Match, bool) {
	if !c.IsTimestampColumn(header) || !IsTimestamp(raw) {
		return Match{}, false
	}
	return Match{Kind: KindTimestamp, Label: c.converter.Convert(raw)}, true
}

func (c *Classifier) classifyIndustry(header, raw string) (Match, bool) {
	if !c.IsIndustryColumn(header) {
		return Match{}, false
	}
	return Match{Kind: KindIndustry, Label: raw, Style: c.IndustryStyle(raw)}, true
}

func (c *Classifier) classifyPhone(header, raw string) (Match, bool) {
	if !c.IsPhoneColumn(header) {
		return Match{}, false
	}
	return Match{Kind: KindPhone, Label: FormatPhone(raw)}, true
}
