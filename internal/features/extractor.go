// Package features derives the classifier input vector from a login
// submission and the address's recent attempt history.
package features

import (
	"context"
	"fmt"
	"time"

	"github.com/sentra-ids/sentra/internal/models"
)

// AttemptCounter is the slice of the attempt store the extractor needs.
type AttemptCounter interface {
	CountByAddress(ctx context.Context, address string, since time.Time) (int, error)
}

// Extractor builds the ordered feature vector
// [credential_length, recent_attempt_count]. The vector's arity is a
// contract shared with the training pipeline; it is fixed here, not derived
// at request time.
type Extractor struct {
	store  AttemptCounter
	window time.Duration
}

// Arity is the length of the vector Extract produces.
const Arity = 2

func New(store AttemptCounter, window time.Duration) *Extractor {
	return &Extractor{store: store, window: window}
}

// Extract queries the trailing history window and returns the feature
// vector. A failed history query surfaces as ErrStoreUnavailable: a count
// of "zero recent attempts" must mean the store said so, never that the
// store was down.
func (e *Extractor) Extract(ctx context.Context, address string, credentialLength int, now time.Time) ([]float64, error) {
	if credentialLength < 0 {
		return nil, fmt.Errorf("%w: negative credential length", models.ErrBadRequest)
	}

	count, err := e.store.CountByAddress(ctx, address, now.Add(-e.window))
	if err != nil {
		return nil, fmt.Errorf("%w: history query failed: %v", models.ErrStoreUnavailable, err)
	}

	return []float64{float64(credentialLength), float64(count)}, nil
}
