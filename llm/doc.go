// Package llm defines the text-completion capability consumed by the
// narrator core, a typed error taxonomy aligned with degradation policy,
// and provider-composition utilities. Concrete backends live under
// llm/providers; llm/factory maps configuration to constructors.
package llm
