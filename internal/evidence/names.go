// Package evidence scans the four per-genome evidence sources and merges
// them into one record per protein.
package evidence

import (
	"regexp"
	"strings"

	"github.com/ecrawley/defence/profiler/internal/models"
)

// Systems whose names legitimately end in "_1". For anything else a trailing
// "_1" is the tools' "first/only variant" marker, not a distinct subtype.
// GAO_19 ends in "_19" and is listed only to document the distinction.
var suffixExceptions = map[string]struct{}{
	"DISARM_1":  {},
	"PD-T7-5_1": {},
	"GAO_19":    {},
}

// NormalizeSystemName strips the trailing "_1" variant marker unless the
// name is a known exception.
func NormalizeSystemName(name string) string {
	if _, ok := suffixExceptions[name]; ok {
		return name
	}
	if strings.HasSuffix(name, "_1") {
		return name[:len(name)-2]
	}
	return name
}

// SystemFromHitID extracts the system name from a directional-search
// identifier of the form "locus#systemname[_1]". Identifiers without the
// separator are treated as a bare system name.
func SystemFromHitID(hitID string) string {
	if i := strings.IndexByte(hitID, '#'); i >= 0 {
		return NormalizeSystemName(hitID[i+1:])
	}
	return NormalizeSystemName(hitID)
}

var summaryNamePattern = regexp.MustCompile(`^([^(]+)`)

// NameFromSummary strips the parenthesized metrics suffix from a search
// summary, returning just the system name. The No_hit sentinel and the
// empty string both mean "no evidence" and return "".
func NameFromSummary(summary string) string {
	if summary == "" || summary == models.NoHit {
		return ""
	}
	if m := summaryNamePattern.FindStringSubmatch(summary); m != nil {
		return strings.TrimSpace(m[1])
	}
	return summary
}
