package consensus

import (
	"fmt"
	"strings"

	"github.com/ecrawley/defence/profiler/internal/evidence"
	"github.com/ecrawley/defence/profiler/internal/models"
)

// Decide applies the voting logic to one protein's evidence and returns the
// final call, its status and a human-auditable explanation. FILTERED and
// ERROR results carry no final name and drop the protein from the profile.
//
// The order of the branches is part of the contract: BLAST-only evidence is
// judged first, then single-classifier evidence, then two-classifier
// agreement and search-vote resolution.
func Decide(ev *models.ProteinEvidence) models.ConsensusResult {
	forwardName := evidence.NameFromSummary(ev.ForwardHit)
	reverseName := evidence.NameFromSummary(ev.ReverseHit)

	hasPadloc := ev.HasPadloc()
	hasFinder := ev.HasFinder()
	hasForward := forwardName != ""
	hasReverse := reverseName != ""

	padlocMapping := ev.PadlocMapped.Valid()
	finderMapping := ev.FinderMapped.Valid()

	switch {
	// No classifier evidence: only an agreeing, admissible bidirectional
	// search hit can carry a call on its own.
	case !hasPadloc && !hasFinder:
		if !hasForward || !hasReverse {
			return filtered("Insufficient BLAST evidence (need both forward and reverse)")
		}
		if forwardName != reverseName {
			return filtered(fmt.Sprintf("BLAST names disagree: %s vs %s", forwardName, reverseName))
		}
		metrics, ok := ParseForwardMetrics(ev.ForwardHit)
		if !ok {
			return filtered("Could not parse forward BLAST metrics")
		}
		passed, reason := CheckAlignment(metrics)
		if !passed {
			return filtered("BLAST-only hit failed filtering: " + reason)
		}
		return models.ConsensusResult{
			FinalName:   forwardName,
			Status:      models.StatusBlast,
			Explanation: "BLAST-only hit passed filtering: " + reason,
		}

	case hasPadloc && !hasFinder:
		if padlocMapping {
			return models.ConsensusResult{
				FinalName:   ev.PadlocMapped.Name,
				Status:      models.StatusSingle,
				Explanation: "PADLOC only with mapping",
			}
		}
		return models.ConsensusResult{
			FinalName:   models.CompositeName{Padloc: ev.PadlocOriginal}.Format(),
			Status:      models.StatusMapping,
			Explanation: "PADLOC only without mapping",
		}

	case !hasPadloc && hasFinder:
		if finderMapping {
			return models.ConsensusResult{
				FinalName:   ev.FinderMapped.Name,
				Status:      models.StatusSingle,
				Explanation: "DefenseFinder only with mapping",
			}
		}
		return models.ConsensusResult{
			FinalName:   models.CompositeName{Finder: ev.FinderOriginal}.Format(),
			Status:      models.StatusMapping,
			Explanation: "DefenseFinder only without mapping",
		}

	case hasPadloc && hasFinder:
		if !padlocMapping && !finderMapping {
			return models.ConsensusResult{
				FinalName:   models.CompositeName{Padloc: ev.PadlocOriginal, Finder: ev.FinderOriginal}.Format(),
				Status:      models.StatusMapping,
				Explanation: "Both tools without mapping",
			}
		}

		if padlocMapping && finderMapping && ev.PadlocMapped.Name == ev.FinderMapped.Name {
			return models.ConsensusResult{
				FinalName:   ev.PadlocMapped.Name,
				Status:      models.StatusAgree,
				Explanation: "Both tools agree on consensus",
			}
		}

		return resolveByVoting(ev, forwardName, reverseName, hasForward, hasReverse)
	}

	return models.ConsensusResult{
		Status:      models.StatusError,
		Explanation: "Unexpected case in consensus logic",
	}
}

// resolveByVoting scores both classifiers against the search evidence. Each
// classifier starts with one self-vote; a search direction whose name
// exactly matches a classifier's canonical call adds one vote for it.
func resolveByVoting(ev *models.ProteinEvidence, forwardName, reverseName string, hasForward, hasReverse bool) models.ConsensusResult {
	padlocConsensus := ""
	if ev.PadlocMapped.Valid() {
		padlocConsensus = ev.PadlocMapped.Name
	}
	finderConsensus := ""
	if ev.FinderMapped.Valid() {
		finderConsensus = ev.FinderMapped.Name
	}

	padlocVotes, finderVotes := 1, 1
	var support []string

	score := func(direction, name string) {
		switch {
		case padlocConsensus != "" && name == padlocConsensus:
			padlocVotes++
			support = append(support, fmt.Sprintf("%s supports PADLOC (%s)", direction, name))
		case finderConsensus != "" && name == finderConsensus:
			finderVotes++
			support = append(support, fmt.Sprintf("%s supports DefenseFinder (%s)", direction, name))
		default:
			support = append(support, fmt.Sprintf("%s supports neither (%s)", direction, name))
		}
	}

	if hasForward {
		score("Forward", forwardName)
	}
	if hasReverse {
		score("Reverse", reverseName)
	}

	tally := strings.Join(support, "; ")
	originals := models.CompositeName{Padloc: ev.PadlocOriginal, Finder: ev.FinderOriginal}

	switch {
	case padlocVotes > finderVotes:
		if padlocConsensus != "" {
			return models.ConsensusResult{
				FinalName:   padlocConsensus,
				Status:      models.StatusResolved,
				Explanation: fmt.Sprintf("PADLOC wins voting %dvs%d: %s", padlocVotes, finderVotes, tally),
			}
		}
		return models.ConsensusResult{
			FinalName:   originals.Format(),
			Status:      models.StatusMapping,
			Explanation: "PADLOC wins voting but no mapping: " + tally,
		}

	case finderVotes > padlocVotes:
		if finderConsensus != "" {
			return models.ConsensusResult{
				FinalName:   finderConsensus,
				Status:      models.StatusResolved,
				Explanation: fmt.Sprintf("DefenseFinder wins voting %dvs%d: %s", finderVotes, padlocVotes, tally),
			}
		}
		return models.ConsensusResult{
			FinalName:   originals.Format(),
			Status:      models.StatusMapping,
			Explanation: "DefenseFinder wins voting but no mapping: " + tally,
		}

	default:
		// Ties deliberately fall back to the original calls whenever either
		// side lacks a mapping, even though the other side's canonical call
		// is known. The curation table relies on seeing the raw pair.
		if padlocConsensus != "" && finderConsensus != "" {
			return models.ConsensusResult{
				FinalName:   models.CompositeName{Padloc: padlocConsensus, Finder: finderConsensus}.Format(),
				Status:      models.StatusConflict,
				Explanation: fmt.Sprintf("Tied votes %dvs%d: %s", padlocVotes, finderVotes, tally),
			}
		}
		return models.ConsensusResult{
			FinalName:   originals.Format(),
			Status:      models.StatusMapping,
			Explanation: "Tied votes with mapping issues: " + tally,
		}
	}
}

func filtered(reason string) models.ConsensusResult {
	return models.ConsensusResult{Status: models.StatusFiltered, Explanation: reason}
}
