package game

// ClaimOutcome is the tagged outcome of a claim attempt
type ClaimOutcome int

const (
	ClaimInvalidFormat ClaimOutcome = iota
	ClaimAdded
	ClaimAlreadyClaimed
)

func (o ClaimOutcome) String() string {
	switch o {
	case ClaimAdded:
		return "added"
	case ClaimAlreadyClaimed:
		return "already_claimed"
	default:
		return "invalid_format"
	}
}

// ClaimResult reports what a claim did. Remaining is meaningful unless the
// outcome is ClaimInvalidFormat.
type ClaimResult struct {
	Outcome   ClaimOutcome
	Key       string
	Remaining int
}

// WasAdded reports whether the claim inserted a new slot
func (r ClaimResult) WasAdded() bool {
	return r.Outcome == ClaimAdded
}

// ReleaseOutcome is the tagged outcome of a release attempt
type ReleaseOutcome int

const (
	ReleaseInvalidFormat ReleaseOutcome = iota
	Released
	ReleaseNotFound
	ReleaseForbidden
)

func (o ReleaseOutcome) String() string {
	switch o {
	case Released:
		return "released"
	case ReleaseNotFound:
		return "not_found"
	case ReleaseForbidden:
		return "forbidden"
	default:
		return "invalid_format"
	}
}

// ReleaseResult reports what a release did. Remaining is only set when the
// slot was removed.
type ReleaseResult struct {
	Outcome   ReleaseOutcome
	Key       string
	Remaining int
}

// WasRemoved reports whether the release deleted the slot
func (r ReleaseResult) WasRemoved() bool {
	return r.Outcome == Released
}
