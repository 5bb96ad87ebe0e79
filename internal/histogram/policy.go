package histogram

import "fmt"

// CheckPolicy selects how the Aggregator's Observe decisions drive the
// Runner's check-policy state machine (spec.md §4.R).
type CheckPolicy int

const (
	// PolicyDisable skips invoking check entirely; the state is still
	// snapshotted and recorded with a placeholder Unknown outcome.
	PolicyDisable CheckPolicy = iota
	// PolicyReport records every observation and never stops the run.
	PolicyReport
	PolicyExitOnPass
	PolicyExitOnFail
	PolicyExitOnUnknown
)

// ParseCheckPolicy parses the --check CLI value.
func ParseCheckPolicy(s string) (CheckPolicy, error) {
	switch s {
	case "disable":
		return PolicyDisable, nil
	case "report":
		return PolicyReport, nil
	case "exit-on-pass":
		return PolicyExitOnPass, nil
	case "exit-on-fail":
		return PolicyExitOnFail, nil
	case "exit-on-unknown":
		return PolicyExitOnUnknown, nil
	default:
		return 0, fmt.Errorf("%w: --check=%q", ErrInvalidCheckPolicy, s)
	}
}

func (p CheckPolicy) String() string {
	switch p {
	case PolicyDisable:
		return "disable"
	case PolicyReport:
		return "report"
	case PolicyExitOnPass:
		return "exit-on-pass"
	case PolicyExitOnFail:
		return "exit-on-fail"
	case PolicyExitOnUnknown:
		return "exit-on-unknown"
	default:
		return "unknown"
	}
}

// Decision is what the Runner should do after one Observe call.
type Decision int

const (
	Continue Decision = iota
	StopAccepted
	StopRejected
	StopUnknown
)
