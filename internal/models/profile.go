package models

import (
	"errors"

	"github.com/uptrace/bun"
)

// ProfileRow is one protein's line in a genome's defence profile. Rows are
// written once per genome and never mutated; the same shape backs the CSV
// profile and the optional SQLite store.
type ProfileRow struct {
	bun.BaseModel `bun:"table:profile_rows,alias:pr"`

	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	ProteinID      string `bun:"protein_id,notnull" json:"protein_id"`
	PadlocOriginal string `bun:"padloc_original,notnull" json:"padloc_original"`
	PadlocFinal    string `bun:"padloc_final,notnull" json:"padloc_final"`
	FinderOriginal string `bun:"deffind_original,notnull" json:"deffind_original"`
	FinderFinal    string `bun:"deffind_final,notnull" json:"deffind_final"`
	ForwardBlast   string `bun:"fwd_blast,notnull" json:"fwd_blast"`
	ReverseBlast   string `bun:"rev_blast,notnull" json:"rev_blast"`
	Status         Status `bun:"status,notnull" json:"status"`
	FinalConsensus string `bun:"final_consensus,notnull" json:"final_consensus"`
	Explanation    string `bun:"explanation,notnull" json:"explanation"`
	SystemType     string `bun:"final_system_type,notnull" json:"final_system_type"`
	SystemSubtype  string `bun:"final_system_subtype,notnull" json:"final_system_subtype"`
	SystemOutcome  string `bun:"final_system_outcome,notnull" json:"final_system_outcome"`
}

// ProfileColumns is the profile CSV header, in contract order.
var ProfileColumns = []string{
	"protein_id", "padloc_original", "padloc_final",
	"deffind_original", "deffind_final",
	"fwd_blast", "rev_blast",
	"status", "final_consensus", "explanation",
	"final_system_type", "final_system_subtype", "final_system_outcome",
}

// Fields returns the row values in ProfileColumns order.
func (r *ProfileRow) Fields() []string {
	return []string{
		r.ProteinID, r.PadlocOriginal, r.PadlocFinal,
		r.FinderOriginal, r.FinderFinal,
		r.ForwardBlast, r.ReverseBlast,
		string(r.Status), r.FinalConsensus, r.Explanation,
		r.SystemType, r.SystemSubtype, r.SystemOutcome,
	}
}

// Validate checks that required profile fields are present.
func (r *ProfileRow) Validate() error {
	if r.ProteinID == "" {
		return errors.New("protein id is required")
	}
	if r.Status == "" {
		return errors.New("status is required")
	}
	if r.FinalConsensus == "" {
		return errors.New("final consensus is required")
	}
	return nil
}

// GenomeID derives the genome identifier from the protein's
// "genome@locus" naming convention. Identifiers without the separator are
// returned whole.
func (r *ProfileRow) GenomeID() string {
	for i, c := range r.ProteinID {
		if c == '@' {
			return r.ProteinID[:i]
		}
	}
	return r.ProteinID
}
