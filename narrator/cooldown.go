package narrator

import "github.com/BaSui01/voiceflow/types"

// CooldownTracker records the last successful vocalization per snippet
// type. Lanes are keyed by type only, so vocalizing a finding never
// suppresses a subsequent error. Entries are overwritten, never deleted;
// staleness is checked against the cooldown window on read.
type CooldownTracker struct {
	lastVocalized map[types.SnippetType]int64
}

// NewCooldownTracker creates an empty tracker.
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{lastVocalized: make(map[types.SnippetType]int64)}
}

// IsOnCooldown reports whether a vocalization for this type happened less
// than cooldownMs ago. cooldownMs <= 0 disables suppression.
func (t *CooldownTracker) IsOnCooldown(st types.SnippetType, nowMs, cooldownMs int64) bool {
	if cooldownMs <= 0 {
		return false
	}
	last, ok := t.lastVocalized[st]
	return ok && nowMs-last < cooldownMs
}

// MarkVocalized records a successful vocalization for the type.
func (t *CooldownTracker) MarkVocalized(st types.SnippetType, nowMs int64) {
	t.lastVocalized[st] = nowMs
}

// Reset clears all cooldown state.
func (t *CooldownTracker) Reset() {
	t.lastVocalized = make(map[types.SnippetType]int64)
}
