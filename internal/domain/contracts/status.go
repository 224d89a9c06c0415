package contracts

type ProcessingStatus string

const (
	StatusUploaded   ProcessingStatus = "uploaded"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// transitions is the only source of truth for document status moves.
// completed and failed have no outgoing edges.
var transitions = map[ProcessingStatus][]ProcessingStatus{
	StatusUploaded:   {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

func ParseProcessingStatus(s string) (ProcessingStatus, bool) {
	st := ProcessingStatus(normalizeToken(s))
	return st, st.Valid()
}

func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s ProcessingStatus) CanTransitionTo(next ProcessingStatus) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// PredecessorsOf lists the statuses allowed to move into next. Used as the
// compare-and-set guard for status updates.
func PredecessorsOf(next ProcessingStatus) []ProcessingStatus {
	var out []ProcessingStatus
	for _, from := range []ProcessingStatus{StatusUploaded, StatusProcessing, StatusCompleted, StatusFailed} {
		if from.CanTransitionTo(next) {
			out = append(out, from)
		}
	}
	return out
}
