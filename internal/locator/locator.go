package locator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultPattern matches dataset names that live in the capture database.
	DefaultPattern = `A[0-9]{3}_`
	// DefaultPatternMarker identifies the read-only capture connection file.
	DefaultPatternMarker = "giscapdb_ReadOnly_PRD.sde"
	// DefaultMarker identifies the publication (external data) connection file.
	DefaultMarker = "gispubdb_extdata_PROD.sde"
)

// Rules describes how dataset names are classified and which marker token
// selects the connection file for each class.
type Rules struct {
	// Pattern is a regular expression searched anywhere in the trimmed
	// dataset name.
	Pattern string
	// PatternMarker must be contained in the path of a candidate used for
	// names matching Pattern.
	PatternMarker string
	// DefaultMarker must be contained in the path of a candidate used for
	// every other name.
	DefaultMarker string
}

// DefaultRules returns the naming convention used by the capture and
// publication databases.
func DefaultRules() Rules {
	return Rules{
		Pattern:       DefaultPattern,
		PatternMarker: DefaultPatternMarker,
		DefaultMarker: DefaultMarker,
	}
}

// Locator resolves dataset names to connection file paths.
type Locator struct {
	pattern       *regexp.Regexp
	patternMarker string
	defaultMarker string
}

// New compiles the rules into a Locator.
func New(rules Rules) (*Locator, error) {
	if rules.PatternMarker == "" || rules.DefaultMarker == "" {
		return nil, fmt.Errorf("locator: both markers must be set")
	}
	re, err := regexp.Compile(rules.Pattern)
	if err != nil {
		return nil, fmt.Errorf("locator: invalid dataset pattern %q: %w", rules.Pattern, err)
	}
	return &Locator{
		pattern:       re,
		patternMarker: rules.PatternMarker,
		defaultMarker: rules.DefaultMarker,
	}, nil
}

// MarkerFor returns the marker token a candidate path must contain to serve
// the given dataset.
func (l *Locator) MarkerFor(datasetName string) string {
	if l.pattern.MatchString(strings.TrimSpace(datasetName)) {
		return l.patternMarker
	}
	return l.defaultMarker
}

// Locate returns the first candidate whose path contains the marker required
// by datasetName. The boolean is false when no candidate qualifies.
func (l *Locator) Locate(datasetName string, candidates []string) (string, bool) {
	marker := l.MarkerFor(datasetName)
	for _, candidate := range candidates {
		if strings.Contains(candidate, marker) {
			return candidate, true
		}
	}
	return "", false
}
