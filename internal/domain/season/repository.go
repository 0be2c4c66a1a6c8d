package season

import "context"

// Repository persists the canonical season collection as one unit.
type Repository interface {
	ListSeasons(ctx context.Context) ([]Season, error)
	ReplaceSeasons(ctx context.Context, seasons []Season) error
}
