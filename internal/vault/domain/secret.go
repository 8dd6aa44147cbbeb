package domain

// SecretDefinition declares one named secret and where its value comes from.
// Definitions are immutable after vault construction.
type SecretDefinition struct {
	// Name is the secret's identity, unique within a vault.
	Name string

	// Source is the kind of backing store ("env" today).
	Source SourceKind

	// SourceRef is the source-specific reference, e.g. an environment
	// variable name.
	SourceRef string
}
