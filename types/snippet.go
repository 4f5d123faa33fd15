package types

// Source identifies where a snippet originated inside the agent runtime.
type Source string

const (
	SourceTool      Source = "tool"
	SourceSubagent  Source = "subagent"
	SourceMainAgent Source = "main_agent"
)

// SnippetType classifies what kind of activity a snippet describes.
// Cooldown suppression is keyed by this type alone.
type SnippetType string

const (
	TypeProgress   SnippetType = "progress"
	TypeFinding    SnippetType = "finding"
	TypeDecision   SnippetType = "decision"
	TypeError      SnippetType = "error"
	TypeCompletion SnippetType = "completion"
)

// Priority ranks how interesting a snippet is to the listening user.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Snippet is one immutable unit of agent activity fed into the narrator.
// Timestamp is Unix milliseconds, stamped at ingestion when zero.
type Snippet struct {
	ID        string      `json:"id,omitempty"`
	Source    Source      `json:"source"`
	Type      SnippetType `json:"type"`
	Content   string      `json:"content"`
	Priority  Priority    `json:"priority"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// Valid reports whether the priority is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Valid reports whether the snippet type is one of the known kinds.
func (t SnippetType) Valid() bool {
	switch t {
	case TypeProgress, TypeFinding, TypeDecision, TypeError, TypeCompletion:
		return true
	}
	return false
}
