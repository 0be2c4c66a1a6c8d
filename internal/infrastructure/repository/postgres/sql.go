package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
	"github.com/riskibarqy/league-history/internal/usecase"
)

var payloadJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const upsertBatchSize = 500

// guard runs fn through the breaker and maps an open circuit onto the
// usecase error callers check for.
func guard(ctx context.Context, breaker *resilience.CircuitBreaker, fn func(context.Context) error) error {
	err := breaker.Execute(ctx, fn)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func execAll(ctx context.Context, tx *sqlx.Tx, statements []statement) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}
	return nil
}

type statement struct {
	name  string
	query string
	args  []any
}

func batches[T any](items []T, size int) [][]T {
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
