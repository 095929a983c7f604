package constants

// StrategyID identifies the extraction strategy that produced a row.
type StrategyID string

const (
	StrategyColumn     StrategyID = "column-anchored"
	StrategyLabelValue StrategyID = "label-value"
	StrategyGeneric    StrategyID = "generic"
)

// Well-known vendor identifiers used by built-in fingerprints.
const (
	VendorLabCorp = "labcorp"
	VendorQuest   = "quest"
	VendorGeneric = "generic"
)

// DuplicateKind says what a duplicate annotation points at.
type DuplicateKind string

const (
	DuplicateOfCandidate DuplicateKind = "CANDIDATE" // earlier candidate in the same batch
	DuplicateOfStored    DuplicateKind = "STORED"    // existing result in storage
)
