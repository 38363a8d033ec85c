package models

// MappedCall carries a canonical subtype lookup result. Found distinguishes
// "mapped to this name" from "no mapping-table entry", which the empty
// string cannot.
type MappedCall struct {
	Name  string
	Found bool
}

// Valid reports whether the lookup produced a usable canonical name. A
// master-key row may name a tool call without supplying a canonical subtype;
// such a hit still counts as unmapped.
func (m MappedCall) Valid() bool { return m.Found && m.Name != "" }

// ProteinEvidence accumulates every observation for one protein within a
// genome. Fields stay empty until the owning source reports; each of the
// four sources owns exactly one original/summary pair and never touches the
// others.
type ProteinEvidence struct {
	ProteinID string

	// Classifier calls, suffix-normalized, plus their canonical mappings.
	PadlocOriginal string
	PadlocMapped   MappedCall
	FinderOriginal string
	FinderMapped   MappedCall

	// Directional-search summaries, e.g. "CBASS_IIs(95.0%, E=1.0e-50, L=300, Q=300, S=305)".
	ForwardHit string
	ReverseHit string
}

// HasPadloc reports whether the first classifier called this protein.
func (e *ProteinEvidence) HasPadloc() bool { return e.PadlocOriginal != "" }

// HasFinder reports whether the second classifier called this protein.
func (e *ProteinEvidence) HasFinder() bool { return e.FinderOriginal != "" }

// HasForward reports whether the forward search hit this protein.
func (e *ProteinEvidence) HasForward() bool { return e.ForwardHit != "" }

// HasReverse reports whether the reverse search hit this protein.
func (e *ProteinEvidence) HasReverse() bool { return e.ReverseHit != "" }

// ConsensusResult is the consensus engine's verdict for one protein.
// FinalName is empty exactly when the status drops the protein from the
// profile (FILTERED or ERROR).
type ConsensusResult struct {
	FinalName   string
	Status      Status
	Explanation string
}
