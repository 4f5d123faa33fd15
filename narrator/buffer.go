package narrator

import "github.com/BaSui01/voiceflow/types"

// ContextBuffer is the time-windowed, chronologically ordered snippet
// history. It is bounded by age, never by count, and retains every ingested
// snippet regardless of decision outcome so summaries reflect true recent
// history rather than just the spoken highlights.
type ContextBuffer struct {
	windowMs int64
	entries  []types.Snippet
}

// NewContextBuffer creates a buffer with the given retention window in
// milliseconds. A window <= 0 is valid and retains nothing.
func NewContextBuffer(windowMs int64) *ContextBuffer {
	return &ContextBuffer{windowMs: windowMs}
}

// Add appends the snippet, then prunes every entry whose timestamp is at or
// before now-window.
func (b *ContextBuffer) Add(s types.Snippet, nowMs int64) {
	b.entries = append(b.entries, s)
	b.prune(nowMs)
}

func (b *ContextBuffer) prune(nowMs int64) {
	cutoff := nowMs - b.windowMs
	i := 0
	for i < len(b.entries) && b.entries[i].Timestamp <= cutoff {
		i++
	}
	if i > 0 {
		b.entries = append(b.entries[:0], b.entries[i:]...)
	}
}

// Size returns the number of retained snippets.
func (b *ContextBuffer) Size() int { return len(b.entries) }

// Snapshot returns a read-only copy of the retained snippets in
// chronological insertion order.
func (b *ContextBuffer) Snapshot() []types.Snippet {
	out := make([]types.Snippet, len(b.entries))
	copy(out, b.entries)
	return out
}

// Clear drops all retained snippets.
func (b *ContextBuffer) Clear() { b.entries = b.entries[:0] }

// SetWindow updates the retention window; it takes effect on the next Add.
func (b *ContextBuffer) SetWindow(windowMs int64) { b.windowMs = windowMs }
