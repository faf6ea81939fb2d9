package leads

// Zones holds the fixed UTC offsets (in hours) used to re-render lead
// timestamps. These are plain numeric offsets, not timezone database names.
type Zones struct {
	SourceOffsetHours int `yaml:"source_offset_hours" json:"sourceOffsetHours"`
	TargetOffsetHours int `yaml:"target_offset_hours" json:"targetOffsetHours"`
}

// Rules is the display configuration for cell classification and querying.
// It is data, not logic: categories are never inferred beyond what is listed.
type Rules struct {
	// TimestampKeywords mark a column as timestamp-eligible when its header
	// contains any of them (case-insensitive).
	TimestampKeywords []string `yaml:"timestamp_keywords" json:"timestampKeywords"`

	// PhoneKeyword marks phone columns (case-insensitive substring).
	PhoneKeyword string `yaml:"phone_keyword" json:"phoneKeyword"`

	// IndustryHeader is the exact, case-sensitive header of the category column.
	IndustryHeader string `yaml:"industry_header" json:"industryHeader"`

	// IndustryStyles maps an industry value to a style name for badge rendering.
	IndustryStyles map[string]string `yaml:"industry_styles" json:"industryStyles,omitempty"`

	// DefaultIndustryStyle is used for industry values missing from IndustryStyles.
	DefaultIndustryStyle string `yaml:"default_industry_style" json:"defaultIndustryStyle"`

	Zones Zones `yaml:"zones" json:"zones"`

	// Locale is the BCP 47 tag used for sort collation.
	Locale string `yaml:"locale" json:"locale"`

	// zonesSet marks Zones as deliberate, so offsets of 0 (UTC) survive
	// WithDefaults. Values built from DefaultRules carry it.
	zonesSet bool
}

// DefaultRules returns the rules used by the dashboard when no rules file is
// configured.
func DefaultRules() Rules {
	return Rules{
		TimestampKeywords:    []string{"timestamp", "time", "date", "created", "updated"},
		PhoneKeyword:         "phone",
		IndustryHeader:       "Industry Type",
		IndustryStyles:       map[string]string{},
		DefaultIndustryStyle: "neutral",
		Zones: Zones{
			SourceOffsetHours: 8, // Philippines
			TargetOffsetHours: 1, // UK
		},
		Locale:   "en",
		zonesSet: true,
	}
}

// WithDefaults fills empty fields of r from DefaultRules. Zones are only
// filled on a zero Rules value; rules derived from DefaultRules keep
// whatever offsets they hold, including 0.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if len(r.TimestampKeywords) == 0 {
		r.TimestampKeywords = d.TimestampKeywords
	}
	if r.PhoneKeyword == "" {
		r.PhoneKeyword = d.PhoneKeyword
	}
	if r.IndustryHeader == "" {
		r.IndustryHeader = d.IndustryHeader
	}
	if r.IndustryStyles == nil {
		r.IndustryStyles = d.IndustryStyles
	}
	if r.DefaultIndustryStyle == "" {
		r.DefaultIndustryStyle = d.DefaultIndustryStyle
	}
	if !r.zonesSet && r.Zones == (Zones{}) {
		r.Zones = d.Zones
	}
	r.zonesSet = true
	if r.Locale == "" {
		r.Locale = d.Locale
	}
	return r
}
