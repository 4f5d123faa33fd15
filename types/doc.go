// Package types defines the shared data model of voiceflow: snippets,
// decisions, and narrator configuration. It has no dependencies on other
// voiceflow packages so that every layer can import it freely.
package types
