package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
	qb "github.com/riskibarqy/league-history/internal/platform/querybuilder"
)

const ownerUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    position = EXCLUDED.position,
    name = EXCLUDED.name,
    total_seasons = EXCLUDED.total_seasons,
    championship_count = EXCLUDED.championship_count,
    payload = EXCLUDED.payload,
    updated_at = NOW()`

type OwnerRepository struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func NewOwnerRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker) *OwnerRepository {
	return &OwnerRepository{db: db, breaker: breaker}
}

// ListOwners returns owners in the order they were last written.
func (r *OwnerRepository) ListOwners(ctx context.Context) ([]owner.Owner, error) {
	query, args, err := qb.Select("*").From(ownersTable).OrderBy("position", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list owners query: %w", err)
	}

	var rows []ownerTableModel
	err = guard(ctx, r.breaker, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	out := make([]owner.Owner, 0, len(rows))
	for _, row := range rows {
		var item owner.Owner
		if err := payloadJSON.Unmarshal(row.Payload, &item); err != nil {
			return nil, fmt.Errorf("decode owner %s payload: %w", row.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *OwnerRepository) ReplaceOwners(ctx context.Context, owners []owner.Owner) error {
	statements, err := ownerReplaceStatements(owners)
	if err != nil {
		return err
	}

	return guard(ctx, r.breaker, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx replace owners: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if err := execAll(ctx, tx, statements); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit replace owners tx: %w", err)
		}
		return nil
	})
}

func ownerReplaceStatements(owners []owner.Owner) ([]statement, error) {
	rows := make([]ownerUpsertModel, 0, len(owners))
	ids := make([]any, 0, len(owners))
	seen := make(map[string]int, len(owners))
	for i, item := range owners {
		if item.ID == "" {
			return nil, fmt.Errorf("owner %q has no id", item.Name)
		}
		payload, err := payloadJSON.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode owner %s payload: %w", item.ID, err)
		}
		row := ownerUpsertModel{
			ID:                item.ID,
			Position:          i,
			Name:              item.Name,
			TotalSeasons:      item.TotalSeasons,
			ChampionshipCount: item.ChampionshipCount,
			Payload:           string(payload),
		}
		if idx, dup := seen[item.ID]; dup {
			rows[idx] = row
			continue
		}
		seen[item.ID] = len(rows)
		rows = append(rows, row)
		ids = append(ids, item.ID)
	}

	statements := make([]statement, 0, 2)
	for _, batch := range batches(rows, upsertBatchSize) {
		query, args, err := qb.InsertModels(ownersTable, batch, ownerUpsertSuffix)
		if err != nil {
			return nil, fmt.Errorf("build upsert owners query: %w", err)
		}
		statements = append(statements, statement{name: "upsert owners", query: query, args: args})
	}

	query, args, err := qb.DeleteFrom(ownersTable).Where(qb.NotIn("id", ids)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build prune owners query: %w", err)
	}
	statements = append(statements, statement{name: "prune owners", query: query, args: args})
	return statements, nil
}
