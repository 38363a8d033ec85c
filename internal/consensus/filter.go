// Package consensus decides one final system call per protein from the
// aggregated evidence, and resolves that call to a type and outcome.
package consensus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Admissibility window shared by both ratio checks.
const (
	ratioMin = 0.8
	ratioMax = 1.25
)

// ForwardMetrics are the numeric alignment fields parsed back out of a
// forward-search summary string.
type ForwardMetrics struct {
	Name       string
	Identity   float64
	EValue     float64
	Length     int
	QueryLen   int
	SubjectLen int
}

// Summary layout: "name(pident%, E=evalue, L=length, Q=qlen, S=slen)".
var forwardSummaryPattern = regexp.MustCompile(
	`^([^(]+)\(([0-9.]+)%, E=([0-9.e+-]+), L=([0-9]+), Q=([0-9]+), S=([0-9]+)\)`)

// ParseForwardMetrics extracts metrics from a forward summary. It returns
// false for summaries that do not match the layout, including the reverse
// summary's shorter form.
func ParseForwardMetrics(summary string) (ForwardMetrics, bool) {
	m := forwardSummaryPattern.FindStringSubmatch(summary)
	if m == nil {
		return ForwardMetrics{}, false
	}

	identity, err1 := strconv.ParseFloat(m[2], 64)
	evalue, err2 := strconv.ParseFloat(m[3], 64)
	length, err3 := strconv.Atoi(m[4])
	qlen, err4 := strconv.Atoi(m[5])
	slen, err5 := strconv.Atoi(m[6])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return ForwardMetrics{}, false
	}

	return ForwardMetrics{
		Name:       strings.TrimSpace(m[1]),
		Identity:   identity,
		EValue:     evalue,
		Length:     length,
		QueryLen:   qlen,
		SubjectLen: slen,
	}, true
}

// CheckAlignment applies the two admissibility checks for BLAST-only calls:
// the query/subject length ratio guards against truncated or fused proteins,
// the alignment coverage guards against partial alignments. Both must fall
// in [0.8, 1.25].
func CheckAlignment(m ForwardMetrics) (bool, string) {
	qsRatio := 0.0
	if m.SubjectLen > 0 {
		qsRatio = float64(m.QueryLen) / float64(m.SubjectLen)
	}
	if qsRatio < ratioMin || qsRatio > ratioMax {
		return false, fmt.Sprintf("Q/S ratio %.3f outside 0.8-1.25", qsRatio)
	}

	coverage := 0.0
	if avg := float64(m.QueryLen+m.SubjectLen) / 2; avg > 0 {
		coverage = float64(m.Length) / avg
	}
	if coverage < ratioMin || coverage > ratioMax {
		return false, fmt.Sprintf("Coverage %.3f outside 0.8-1.25", coverage)
	}

	return true, "Passed filtering"
}
