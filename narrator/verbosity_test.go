package narrator

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/BaSui01/voiceflow/types"
)

// ---------------------------------------------------------------------------
// ShouldVocalize decision table
// ---------------------------------------------------------------------------

func TestShouldVocalize(t *testing.T) {
	tests := []struct {
		name      string
		priority  types.Priority
		stype     types.SnippetType
		verbosity types.Verbosity
		want      bool
	}{
		// silent rejects everything
		{"silent rejects critical error", types.PriorityCritical, types.TypeError, types.VerbositySilent, false},
		{"silent rejects low progress", types.PriorityLow, types.TypeProgress, types.VerbositySilent, false},

		// minimal: critical always, high only for findings and errors
		{"minimal passes critical progress", types.PriorityCritical, types.TypeProgress, types.VerbosityMinimal, true},
		{"minimal passes critical completion", types.PriorityCritical, types.TypeCompletion, types.VerbosityMinimal, true},
		{"minimal passes high finding", types.PriorityHigh, types.TypeFinding, types.VerbosityMinimal, true},
		{"minimal passes high error", types.PriorityHigh, types.TypeError, types.VerbosityMinimal, true},
		{"minimal rejects high progress", types.PriorityHigh, types.TypeProgress, types.VerbosityMinimal, false},
		{"minimal rejects high decision", types.PriorityHigh, types.TypeDecision, types.VerbosityMinimal, false},
		{"minimal rejects high completion", types.PriorityHigh, types.TypeCompletion, types.VerbosityMinimal, false},
		{"minimal rejects medium error", types.PriorityMedium, types.TypeError, types.VerbosityMinimal, false},
		{"minimal rejects low finding", types.PriorityLow, types.TypeFinding, types.VerbosityMinimal, false},

		// normal: everything above low
		{"normal passes medium progress", types.PriorityMedium, types.TypeProgress, types.VerbosityNormal, true},
		{"normal passes high decision", types.PriorityHigh, types.TypeDecision, types.VerbosityNormal, true},
		{"normal passes critical error", types.PriorityCritical, types.TypeError, types.VerbosityNormal, true},
		{"normal rejects low finding", types.PriorityLow, types.TypeFinding, types.VerbosityNormal, false},
		{"normal rejects low error", types.PriorityLow, types.TypeError, types.VerbosityNormal, false},

		// verbose passes everything
		{"verbose passes low progress", types.PriorityLow, types.TypeProgress, types.VerbosityVerbose, true},
		{"verbose passes critical error", types.PriorityCritical, types.TypeError, types.VerbosityVerbose, true},

		// unknown verbosity rejects everything
		{"unknown verbosity rejects critical", types.PriorityCritical, types.TypeError, types.Verbosity("chatty"), false},
		{"empty verbosity rejects", types.PriorityHigh, types.TypeFinding, types.Verbosity(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldVocalize(tt.priority, tt.stype, tt.verbosity)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// Monotonicity: raising verbosity never rejects something a stricter level
// accepted.
// ---------------------------------------------------------------------------

func TestProperty_VerbosityMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	priorities := gen.OneConstOf(
		types.PriorityLow, types.PriorityMedium, types.PriorityHigh, types.PriorityCritical,
	)
	snippetTypes := gen.OneConstOf(
		types.TypeProgress, types.TypeFinding, types.TypeDecision, types.TypeError, types.TypeCompletion,
	)

	// Ordered strictest to loosest.
	levels := []types.Verbosity{
		types.VerbositySilent,
		types.VerbosityMinimal,
		types.VerbosityNormal,
		types.VerbosityVerbose,
	}

	properties := gopter.NewProperties(parameters)

	properties.Property("accepted at a level implies accepted at every looser level", prop.ForAll(
		func(p types.Priority, st types.SnippetType) bool {
			accepted := false
			for _, v := range levels {
				got := ShouldVocalize(p, st, v)
				if accepted && !got {
					return false
				}
				accepted = got
			}
			return true
		},
		priorities,
		snippetTypes,
	))

	properties.Property("silent rejects and verbose accepts every combination", prop.ForAll(
		func(p types.Priority, st types.SnippetType) bool {
			return !ShouldVocalize(p, st, types.VerbositySilent) &&
				ShouldVocalize(p, st, types.VerbosityVerbose)
		},
		priorities,
		snippetTypes,
	))

	properties.TestingRun(t)
}
