package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Status classifies the reliability of a consensus decision.
type Status string

const (
	// StatusAgree means both classifiers map to the same canonical subtype.
	StatusAgree Status = "AGREE"
	// StatusResolved means a classifier disagreement was settled by search votes.
	StatusResolved Status = "RESOLVED"
	// StatusConflict means votes tied and both canonical calls are kept side by side.
	StatusConflict Status = "CONFLICT"
	// StatusMapping means a mapping-table entry is missing, not that the tools disagree.
	StatusMapping Status = "MAPPING"
	// StatusSingle means exactly one classifier reported, with a valid mapping.
	StatusSingle Status = "SINGLE"
	// StatusBlast means a call supported only by both search directions.
	StatusBlast Status = "BLAST"
	// StatusFiltered means the evidence did not support any confident call.
	StatusFiltered Status = "FILTERED"
	// StatusError marks evidence states the decision tree does not cover.
	StatusError Status = "ERROR"
)

// AllStatuses lists every consensus outcome in tally order.
var AllStatuses = []Status{
	StatusAgree, StatusResolved, StatusConflict, StatusMapping,
	StatusSingle, StatusBlast, StatusFiltered, StatusError,
}

// Problematic reports whether a status needs manual curation.
func (s Status) Problematic() bool {
	return s == StatusMapping || s == StatusConflict
}

// Dropped reports whether a status excludes the protein from the profile.
func (s Status) Dropped() bool {
	return s == StatusFiltered || s == StatusError
}

// EvidenceSource tags provenance of a per-protein observation.
type EvidenceSource string

const (
	SourcePadloc       EvidenceSource = "padloc"
	SourceFinder       EvidenceSource = "defensefinder"
	SourceForwardBlast EvidenceSource = "blast_forward"
	SourceReverseBlast EvidenceSource = "blast_reverse"
)

// Sentinels shared across input and output tables.
const (
	// NoHit marks an absent observation in profile rows and search summaries.
	NoHit = "No_hit"
	// NoMappingSentinel is the master-key value meaning "no mapping for this tool".
	NoMappingSentinel = "/"
	// UnmappedType is reported when a subtype has no type in the master key.
	UnmappedType = "UNMAPPED_TYPE"
	// UnmappedOutcome is reported when a subtype has no outcome in the master key.
	UnmappedOutcome = "UNMAPPED_OUTCOME"
	// UnmappedSide replaces one side of a composite classification that did not resolve.
	UnmappedSide = "UNMAPPED"
)

// StringArray stores a slice of strings in SQLite as JSON. The curation
// pattern table uses it for its example-protein lists.
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan accepts both []byte and string, since the shim driver may report a
// JSON column either way.
func (s *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("failed to scan StringArray")
	}
}
