package narrator

import "github.com/BaSui01/voiceflow/types"

// ShouldVocalize is the pure pre-filter deciding whether a snippet is even
// worth sending to the completion backend. Unknown verbosity values reject
// everything; silence is strictly better than a crash on the live path.
//
//	silent   never
//	minimal  critical, or high findings/errors
//	normal   anything above low
//	verbose  always
func ShouldVocalize(p types.Priority, st types.SnippetType, v types.Verbosity) bool {
	switch v {
	case types.VerbositySilent:
		return false
	case types.VerbosityMinimal:
		if p == types.PriorityCritical {
			return true
		}
		return p == types.PriorityHigh && (st == types.TypeFinding || st == types.TypeError)
	case types.VerbosityNormal:
		return p != types.PriorityLow
	case types.VerbosityVerbose:
		return true
	default:
		return false
	}
}
