package consensus

import (
	"github.com/ecrawley/defence/profiler/internal/mapping"
	"github.com/ecrawley/defence/profiler/internal/models"
)

// ResolveClassification looks up the system type and outcome for a final
// consensus name. Plain names resolve directly against the master key;
// composite placeholders resolve each side independently and re-compose, so
// one mappable side is never collapsed into a bare unmapped result.
func ResolveClassification(finalName string, table *mapping.Table) (systemType, systemOutcome string) {
	if models.IsComposite(finalName) {
		composite, ok := models.ParseComposite(finalName)
		if !ok {
			return models.UnmappedType, models.UnmappedOutcome
		}

		padlocType, padlocOutcome := sideClassification(composite.Padloc, table)
		finderType, finderOutcome := sideClassification(composite.Finder, table)

		compositeType := models.CompositeName{Padloc: padlocType, Finder: finderType}.Format()
		compositeOutcome := models.CompositeName{Padloc: padlocOutcome, Finder: finderOutcome}.Format()
		return compositeType, compositeOutcome
	}

	if table.Known(finalName) {
		cls := table.Classify(finalName)
		return cls.Type, cls.Outcome
	}
	return models.UnmappedType, models.UnmappedOutcome
}

// sideClassification resolves one composite side. Empty or unknown sides
// collapse to the per-side UNMAPPED sentinel only.
func sideClassification(name string, table *mapping.Table) (string, string) {
	if name == "" || !table.Known(name) {
		return models.UnmappedSide, models.UnmappedSide
	}
	cls := table.Classify(name)
	return cls.Type, cls.Outcome
}
