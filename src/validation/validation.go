// Package validation implements the pluggable rule set used to accept
// reservations and payments. Each rule is an independent strategy; the
// composite runs every strategy and reports the full list of violations,
// never just the first one, so callers can surface everything in a single
// round trip.
package validation

import (
	"context"
	"sync"
)

type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Candidate is a loose field bag. Rules must distinguish a missing field
// from one carrying the wrong type, so candidates stay untyped and the
// typed request bodies are flattened into one before validation.
type Candidate map[string]any

type Strategy interface {
	Name() string
	Validate(ctx context.Context, c Candidate) Result
}

type Composite struct {
	strategies []Strategy
}

func NewComposite(strategies ...Strategy) *Composite {
	return &Composite{strategies: strategies}
}

// Validate fans out to every member strategy. Strategies are independent of
// one another, so they run concurrently and the aggregate is
// order-insensitive.
func (cv *Composite) Validate(ctx context.Context, c Candidate) Result {
	results := make([]Result, len(cv.strategies))
	var wg sync.WaitGroup
	for i, s := range cv.strategies {
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			results[i] = s.Validate(ctx, c)
		}(i, s)
	}
	wg.Wait()

	merged := Result{Valid: true, Errors: []string{}}
	for _, r := range results {
		if !r.Valid {
			merged.Valid = false
		}
		merged.Errors = append(merged.Errors, r.Errors...)
	}
	return merged
}

func ok() Result {
	return Result{Valid: true, Errors: []string{}}
}

func fail(messages ...string) Result {
	return Result{Valid: false, Errors: messages}
}

// numberField reads a numeric candidate field regardless of how it was
// decoded. JSON gives float64; merged model fields arrive as Go ints.
func numberField(c Candidate, key string) (float64, bool) {
	v, exists := c[key]
	if !exists || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringField(c Candidate, key string) (string, bool) {
	v, exists := c[key]
	if !exists || v == nil {
		return "", false
	}
	s, isString := v.(string)
	return s, isString
}
