package constants

// SessionStatus is the canonical status for an import session.
type SessionStatus string

// Stable values (store these exact strings in DB).
const (
	SessionOpen      SessionStatus = "OPEN"      // candidates staged, awaiting selection
	SessionCommitted SessionStatus = "COMMITTED" // selected candidates persisted
	SessionDiscarded SessionStatus = "DISCARDED" // terminal, nothing persisted
)

// CandidateStatus tracks per-candidate selection state within an open session.
type CandidateStatus string

const (
	CandidatePending  CandidateStatus = "PENDING"
	CandidateSelected CandidateStatus = "SELECTED"
	CandidateRejected CandidateStatus = "REJECTED"
)
