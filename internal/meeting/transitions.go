package meeting

type statusTransition struct {
	from Status
	to   Status
}

// allowedTransitions is the full forward graph plus the single rollback edge
// used when transcription fails before producing a usable artifact. Content
// edits never change status and are not transitions.
var allowedTransitions = []statusTransition{
	{from: StatusRecording, to: StatusProcessing},
	{from: StatusProcessing, to: StatusReview},
	{from: StatusProcessing, to: StatusRecording},
	{from: StatusReview, to: StatusSent},
}

// CanTransition reports whether moving a meeting from one status to another
// is legal. Same-status "transitions" are allowed so plain content updates
// can re-persist the current value.
func CanTransition(from, to Status) bool {
	if from == to {
		_, known := statusSet[from]
		return known
	}
	for _, t := range allowedTransitions {
		if t.from == from && t.to == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no outbound transition exists for a status.
// Correcting a sent meeting requires a new meeting, not a transition back.
func IsTerminal(status Status) bool {
	for _, t := range allowedTransitions {
		if t.from == status {
			return false
		}
	}
	_, known := statusSet[status]
	return known
}
