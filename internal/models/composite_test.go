package models

import "testing"

func TestCompositeFormat(t *testing.T) {
	c := CompositeName{Padloc: "CBASS_other", Finder: "CBASS_IIs"}
	if got := c.Format(); got != "(p::CBASS_other|d::CBASS_IIs)" {
		t.Fatalf("unexpected format: %s", got)
	}

	oneSided := CompositeName{Padloc: "Thoeris"}
	if got := oneSided.Format(); got != "(p::Thoeris|d::)" {
		t.Fatalf("unexpected one-sided format: %s", got)
	}
}

func TestCompositeRoundTrip(t *testing.T) {
	cases := []CompositeName{
		{Padloc: "CBASS_other", Finder: "CBASS_IIs"},
		{Padloc: "Thoeris"},
		{Finder: "Gabija"},
		{},
	}

	for _, c := range cases {
		parsed, ok := ParseComposite(c.Format())
		if !ok {
			t.Fatalf("failed to parse %s", c.Format())
		}
		if parsed != c {
			t.Fatalf("round trip mismatch: %+v != %+v", parsed, c)
		}
	}
}

func TestParseCompositeRejectsPlainNames(t *testing.T) {
	for _, name := range []string{"CBASS_IIs", "", "No_hit", "(p::broken"} {
		if _, ok := ParseComposite(name); ok {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestIsComposite(t *testing.T) {
	if !IsComposite("(p::A|d::B)") {
		t.Fatalf("expected composite")
	}
	if IsComposite("CBASS_IIs") {
		t.Fatalf("plain name detected as composite")
	}
}

func TestStatusHelpers(t *testing.T) {
	if !StatusMapping.Problematic() || !StatusConflict.Problematic() {
		t.Fatalf("MAPPING and CONFLICT must be problematic")
	}
	if StatusAgree.Problematic() {
		t.Fatalf("AGREE must not be problematic")
	}
	if !StatusFiltered.Dropped() || !StatusError.Dropped() {
		t.Fatalf("FILTERED and ERROR must be dropped")
	}
	if StatusBlast.Dropped() {
		t.Fatalf("BLAST must not be dropped")
	}
}

func TestProfileRowGenomeID(t *testing.T) {
	row := &ProfileRow{ProteinID: "1004153.3@locus_00042"}
	if got := row.GenomeID(); got != "1004153.3" {
		t.Fatalf("unexpected genome id: %s", got)
	}

	plain := &ProfileRow{ProteinID: "locus_00042"}
	if got := plain.GenomeID(); got != "locus_00042" {
		t.Fatalf("unexpected fallback genome id: %s", got)
	}
}
