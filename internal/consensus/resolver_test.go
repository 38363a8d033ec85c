package consensus

import (
	"strings"
	"testing"

	"github.com/ecrawley/defence/profiler/internal/mapping"
	"github.com/ecrawley/defence/profiler/internal/models"
)

const resolverMasterKey = "PADLOC_systems\tDefenseFinder_subtypes\tNovel_subtypes\tNovel_types\tDefense_outcome\n" +
	"cbass_type_IIs\tCBASS_IIs\tCBASS_IIs\tCBASS\tAbi\n" +
	"/\tGabija\tGabija\tGabija\tUnknown\n" +
	"orphan_sys\tOrphan\tOrphan_sub\t\t\n"

func resolverTable(t *testing.T) *mapping.Table {
	t.Helper()
	table, err := mapping.Load(strings.NewReader(resolverMasterKey))
	if err != nil {
		t.Fatalf("load master key: %v", err)
	}
	return table
}

func TestResolvePlainName(t *testing.T) {
	table := resolverTable(t)

	systemType, outcome := ResolveClassification("CBASS_IIs", table)
	if systemType != "CBASS" || outcome != "Abi" {
		t.Fatalf("unexpected classification: %s / %s", systemType, outcome)
	}
}

func TestResolveUnknownPlainName(t *testing.T) {
	table := resolverTable(t)

	systemType, outcome := ResolveClassification("NeverSeen", table)
	if systemType != models.UnmappedType || outcome != models.UnmappedOutcome {
		t.Fatalf("unexpected classification: %s / %s", systemType, outcome)
	}
}

func TestResolveComposite(t *testing.T) {
	table := resolverTable(t)

	systemType, outcome := ResolveClassification("(p::CBASS_IIs|d::Gabija)", table)
	if systemType != "(p::CBASS|d::Gabija)" {
		t.Fatalf("unexpected composite type: %s", systemType)
	}
	if outcome != "(p::Abi|d::Unknown)" {
		t.Fatalf("unexpected composite outcome: %s", outcome)
	}
}

func TestResolveCompositeWithUnknownSide(t *testing.T) {
	table := resolverTable(t)

	// One side resolves, the other collapses to UNMAPPED on its own; the
	// whole entry never becomes a bare unmapped pair.
	systemType, outcome := ResolveClassification("(p::NeverSeen|d::Gabija)", table)
	if systemType != "(p::UNMAPPED|d::Gabija)" {
		t.Fatalf("unexpected composite type: %s", systemType)
	}
	if outcome != "(p::UNMAPPED|d::Unknown)" {
		t.Fatalf("unexpected composite outcome: %s", outcome)
	}

	systemType, outcome = ResolveClassification("(p::|d::)", table)
	if systemType != "(p::UNMAPPED|d::UNMAPPED)" || outcome != "(p::UNMAPPED|d::UNMAPPED)" {
		t.Fatalf("unexpected empty composite: %s / %s", systemType, outcome)
	}
}

func TestResolveCompositeWithSentinelValues(t *testing.T) {
	table := resolverTable(t)

	// A known subtype without type/outcome keeps its stored sentinels, which
	// is distinct from an unknown side's UNMAPPED.
	systemType, outcome := ResolveClassification("(p::Orphan_sub|d::Gabija)", table)
	if systemType != "(p::UNMAPPED_TYPE|d::Gabija)" {
		t.Fatalf("unexpected composite type: %s", systemType)
	}
	if outcome != "(p::UNMAPPED_OUTCOME|d::Unknown)" {
		t.Fatalf("unexpected composite outcome: %s", outcome)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	table := resolverTable(t)

	for _, name := range []string{"CBASS_IIs", "NeverSeen", "(p::CBASS_IIs|d::Gabija)", "(p::|d::NovelSys)"} {
		type1, outcome1 := ResolveClassification(name, table)
		type2, outcome2 := ResolveClassification(name, table)
		if type1 != type2 || outcome1 != outcome2 {
			t.Fatalf("resolution of %s not idempotent", name)
		}
	}
}

func TestEngineCompositesRoundTripThroughResolver(t *testing.T) {
	table := resolverTable(t)

	ev := &models.ProteinEvidence{
		ProteinID:      "g@locus_001",
		PadlocOriginal: "MysteryA",
		FinderOriginal: "MysteryB",
	}
	result := Decide(ev)
	if !models.IsComposite(result.FinalName) {
		t.Fatalf("expected composite final name, got %s", result.FinalName)
	}

	systemType, outcome := ResolveClassification(result.FinalName, table)
	if systemType != "(p::UNMAPPED|d::UNMAPPED)" || outcome != "(p::UNMAPPED|d::UNMAPPED)" {
		t.Fatalf("composite did not round trip: %s / %s", systemType, outcome)
	}
}
