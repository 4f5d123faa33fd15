package types

// DecisionKind is the outcome of evaluating one snippet.
type DecisionKind string

const (
	DecisionSilent   DecisionKind = "silent"
	DecisionVocalize DecisionKind = "vocalize"
)

// Decision is the narrator's answer for one ingested snippet. LatencyMs is
// diagnostic only and never influences the outcome.
type Decision struct {
	Kind      DecisionKind `json:"kind"`
	Utterance string       `json:"utterance,omitempty"`
	LatencyMs int64        `json:"latency_ms"`
}

// Silent builds a silent decision.
func Silent(latencyMs int64) Decision {
	return Decision{Kind: DecisionSilent, LatencyMs: latencyMs}
}

// Vocalize builds a speaking decision.
func Vocalize(utterance string, latencyMs int64) Decision {
	return Decision{Kind: DecisionVocalize, Utterance: utterance, LatencyMs: latencyMs}
}

// IsVocalize reports whether the decision carries speech.
func (d Decision) IsVocalize() bool { return d.Kind == DecisionVocalize }
