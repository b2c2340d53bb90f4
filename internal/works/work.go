package works

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source provenance tags carried on every Work. Songview tags entries the
// combined ASCAP/BMI view returns without a society attribution.
const (
	SourceMLC      = "mlc"
	SourceASCAP    = "ascap"
	SourceBMI      = "bmi"
	SourceSongview = "songview"
)

// DisplayName renders a source tag for humans. Society acronyms stay
// uppercase; anything else gets title casing.
func DisplayName(source string) string {
	switch source {
	case SourceMLC:
		return "MLC"
	case SourceASCAP:
		return "ASCAP"
	case SourceBMI:
		return "BMI"
	}
	return cases.Title(language.English).String(source)
}

// Work is a registered musical composition as reported by a rights database.
// The Raw payload is carried opaquely for reporting and persistence; match
// evaluation only reads the typed fields.
type Work struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Source     string         `json:"source"`
	ISWC       string         `json:"iswc,omitempty"`
	Writers    []string       `json:"writers,omitempty"`
	Publishers []string       `json:"publishers,omitempty"`
	Raw        map[string]any `json:"raw,omitempty"`
}

// Parser adapts one rights database's payload shape into Work values. Parse
// reports ok=false when the payload is not a work at all; such entries are
// dropped by the caller rather than surfaced as errors. Works without IDs
// still parse, so registration dumps keep every row.
type Parser interface {
	Source() string
	Parse(payload map[string]any) (Work, bool)
}
