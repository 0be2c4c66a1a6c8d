package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
	qb "github.com/riskibarqy/league-history/internal/platform/querybuilder"
)

const seasonUpsertSuffix = `ON CONFLICT (year)
DO UPDATE SET
    champion = EXCLUDED.champion,
    runner_up = EXCLUDED.runner_up,
    league_size = EXCLUDED.league_size,
    payload = EXCLUDED.payload,
    updated_at = NOW()`

type SeasonRepository struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func NewSeasonRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker) *SeasonRepository {
	return &SeasonRepository{db: db, breaker: breaker}
}

func (r *SeasonRepository) ListSeasons(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From(seasonsTable).OrderBy("year").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	err = guard(ctx, r.breaker, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		var item season.Season
		if err := payloadJSON.Unmarshal(row.Payload, &item); err != nil {
			return nil, fmt.Errorf("decode season %d payload: %w", row.Year, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// ReplaceSeasons upserts every season and removes years no longer present,
// in one transaction.
func (r *SeasonRepository) ReplaceSeasons(ctx context.Context, seasons []season.Season) error {
	statements, err := seasonReplaceStatements(seasons)
	if err != nil {
		return err
	}

	return guard(ctx, r.breaker, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx replace seasons: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if err := execAll(ctx, tx, statements); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit replace seasons tx: %w", err)
		}
		return nil
	})
}

func seasonReplaceStatements(seasons []season.Season) ([]statement, error) {
	rows := make([]seasonUpsertModel, 0, len(seasons))
	years := make([]any, 0, len(seasons))
	seen := make(map[int]int, len(seasons))
	for _, item := range seasons {
		payload, err := payloadJSON.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode season %d payload: %w", item.Year, err)
		}
		row := seasonUpsertModel{
			Year:       item.Year,
			Champion:   item.Champion(),
			RunnerUp:   item.RunnerUp,
			LeagueSize: item.LeagueSize,
			Payload:    string(payload),
		}
		// ON CONFLICT cannot touch the same row twice in one statement.
		if idx, dup := seen[item.Year]; dup {
			rows[idx] = row
			continue
		}
		seen[item.Year] = len(rows)
		rows = append(rows, row)
		years = append(years, item.Year)
	}

	statements := make([]statement, 0, 2)
	for _, batch := range batches(rows, upsertBatchSize) {
		query, args, err := qb.InsertModels(seasonsTable, batch, seasonUpsertSuffix)
		if err != nil {
			return nil, fmt.Errorf("build upsert seasons query: %w", err)
		}
		statements = append(statements, statement{name: "upsert seasons", query: query, args: args})
	}

	query, args, err := qb.DeleteFrom(seasonsTable).Where(qb.NotIn("year", years)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build prune seasons query: %w", err)
	}
	statements = append(statements, statement{name: "prune seasons", query: query, args: args})
	return statements, nil
}
