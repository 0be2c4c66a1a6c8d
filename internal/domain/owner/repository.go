package owner

import "context"

// Repository persists the derived owner collection. Owners are always replaced
// as a whole because they are recomputed from the season list on every run.
type Repository interface {
	ListOwners(ctx context.Context) ([]Owner, error)
	ReplaceOwners(ctx context.Context, owners []Owner) error
}
