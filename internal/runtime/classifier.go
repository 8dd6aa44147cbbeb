// Package runtime sequences the upstream text classifier, the capability
// validator, and the vault client into a single guard pipeline. It holds no
// policy logic of its own and short-circuits on the first block.
package runtime

import "context"

// Classification is the advisory verdict of an upstream text classifier.
type Classification struct {
	Blocked bool
	Reason  string
}

// Classifier is the upstream text pre-filter contract. Implementations live
// outside this module; the verdict is advisory in warn mode and enforced in
// block mode.
type Classifier interface {
	Classify(ctx context.Context, text string) *Classification
}

// noopClassifier never blocks. It is the default when no classifier is wired.
type noopClassifier struct{}

func (noopClassifier) Classify(_ context.Context, _ string) *Classification {
	return &Classification{Blocked: false}
}

// NewNoopClassifier creates a classifier that never blocks.
func NewNoopClassifier() Classifier {
	return noopClassifier{}
}
