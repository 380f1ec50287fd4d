package protocol

// Outcome classifies a single-line response.
type Outcome int

const (
	// OutcomeUnrecognized is any line outside the known status set.
	OutcomeUnrecognized Outcome = iota
	OutcomeDone
	OutcomeSpaceMissing
	OutcomeObjectMissing
	OutcomeNotAssociated
)

// ParseOutcome maps a response line to its Outcome. Matching is exact:
// the server emits these phrases verbatim.
func ParseOutcome(line string) Outcome {
	switch line {
	case StatusDone:
		return OutcomeDone
	case StatusSpaceMissing:
		return OutcomeSpaceMissing
	case StatusObjectMissing:
		return OutcomeObjectMissing
	case StatusNotAssociated:
		return OutcomeNotAssociated
	default:
		return OutcomeUnrecognized
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "Done"
	case OutcomeSpaceMissing:
		return "SpaceMissing"
	case OutcomeObjectMissing:
		return "ObjectMissing"
	case OutcomeNotAssociated:
		return "NotAssociated"
	default:
		return "Unrecognized"
	}
}
