package chaos

import "fmt"

// Outcome tags for the host-facing tagged result.
const (
	TagSuccess = "success"
	TagError   = "error"
)

// KillRecord is one entry per pod successfully acted upon.
type KillRecord struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Container string `json:"container"`
}

// Outcome is the tagged result of one orchestrator run. Exactly one of the
// two variants, Success or Failure, is produced per invocation. The sealed
// interface forces exhaustive handling at the reporting boundary.
type Outcome interface {
	outcome()
}

// Success carries one KillRecord per pod acted upon, keyed by a
// strictly-increasing nanosecond token. Token order is execution order.
type Success struct {
	Records map[int64]KillRecord
	// DryRun marks records that describe kills that were planned and
	// verified but not executed.
	DryRun bool
}

func (*Success) outcome() {}

// Failure carries the diagnostic message for a failed run. Killed is the
// number of containers killed before the failure; those kills stand.
type Failure struct {
	Message string
	Killed  int
}

func (*Failure) outcome() {}

func (f *Failure) Error() string {
	return f.Message
}

// SuccessPayload is the wire shape of a successful outcome.
type SuccessPayload struct {
	Containers map[int64]KillRecord `json:"containers"`
	DryRun     bool                 `json:"dryRun,omitempty"`
}

// FailurePayload is the wire shape of a failed outcome. Killed distinguishes
// "no pods were touched" from "some pods were touched before failure".
type FailurePayload struct {
	Error  string `json:"error"`
	Killed int    `json:"killed"`
}

// Report assembles the (tag, payload) pair consumed by the host. The type
// switch is exhaustive over the sealed Outcome variants.
func Report(o Outcome) (string, interface{}) {
	switch v := o.(type) {
	case *Success:
		return TagSuccess, SuccessPayload{Containers: v.Records, DryRun: v.DryRun}
	case *Failure:
		return TagError, FailurePayload{Error: v.Message, Killed: v.Killed}
	default:
		// Unreachable while Outcome stays sealed.
		return TagError, FailurePayload{Error: fmt.Sprintf("unknown outcome type %T", o)}
	}
}
