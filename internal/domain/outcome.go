package domain

type OutcomeKind string

const (
	OutcomeNoToken            OutcomeKind = "no_token"
	OutcomeAccepted           OutcomeKind = "accepted"
	OutcomeDuplicateConfirmed OutcomeKind = "duplicate_confirmed"
	OutcomeConflict           OutcomeKind = "conflict"
)

func (k OutcomeKind) String() string { return string(k) }

// Outcome is the result of evaluating one request against the record store.
// Token and Digest are empty for OutcomeNoToken.
type Outcome struct {
	Kind   OutcomeKind
	Token  string
	Digest Digest
}

// Success reports whether the transport should answer with a 2xx status.
func (o Outcome) Success() bool { return o.Kind != OutcomeConflict }
