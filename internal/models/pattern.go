package models

import "github.com/uptrace/bun"

// PatternKey is the raw-evidence 4-tuple that identifies a curation group:
// both classifiers' original calls plus both search names, metrics stripped.
type PatternKey struct {
	Padloc      string
	Finder      string
	ForwardName string
	ReverseName string
}

// UnresolvedPattern groups MAPPING/CONFLICT profile rows sharing one raw
// evidence pattern across all genomes. Built fresh on every extraction run.
type UnresolvedPattern struct {
	bun.BaseModel `bun:"table:unresolved_patterns,alias:up"`

	ID          int64       `bun:"id,pk,autoincrement" json:"id"`
	Padloc      string      `bun:"padloc,notnull" json:"padloc"`
	Finder      string      `bun:"defensefinder,notnull" json:"defensefinder"`
	ForwardName string      `bun:"blast_fwd,notnull" json:"blast_fwd"`
	ReverseName string      `bun:"blast_rev,notnull" json:"blast_rev"`
	Count       int         `bun:"protein_count,notnull" json:"protein_count"`
	ProteinIDs  StringArray `bun:"protein_ids,type:json,notnull" json:"protein_ids"`
}

// Key returns the grouping tuple for this pattern.
func (p *UnresolvedPattern) Key() PatternKey {
	return PatternKey{
		Padloc:      p.Padloc,
		Finder:      p.Finder,
		ForwardName: p.ForwardName,
		ReverseName: p.ReverseName,
	}
}

// CurationColumns is the curation CSV header. The last three columns stay
// blank for the human curator.
var CurationColumns = []string{
	"PADLOC", "DefenseFinder", "BLAST_fwd", "BLAST_rev",
	"protein_count", "example_proteins",
	"TYPE", "SUBTYPE", "OUTCOME",
}
