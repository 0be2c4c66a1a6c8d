package postgres

import "time"

const (
	seasonsTable = "league_seasons"
	ownersTable  = "league_owners"
)

type seasonTableModel struct {
	Year       int       `db:"year"`
	Champion   string    `db:"champion"`
	RunnerUp   string    `db:"runner_up"`
	LeagueSize int       `db:"league_size"`
	Payload    []byte    `db:"payload"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Payload is bound as text so the driver does not send it as bytea.
type seasonUpsertModel struct {
	Year       int    `db:"year"`
	Champion   string `db:"champion"`
	RunnerUp   string `db:"runner_up"`
	LeagueSize int    `db:"league_size"`
	Payload    string `db:"payload"`
}

type ownerTableModel struct {
	ID                string    `db:"id"`
	Position          int       `db:"position"`
	Name              string    `db:"name"`
	TotalSeasons      int       `db:"total_seasons"`
	ChampionshipCount float64   `db:"championship_count"`
	Payload           []byte    `db:"payload"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type ownerUpsertModel struct {
	ID                string  `db:"id"`
	Position          int     `db:"position"`
	Name              string  `db:"name"`
	TotalSeasons      int     `db:"total_seasons"`
	ChampionshipCount float64 `db:"championship_count"`
	Payload           string  `db:"payload"`
}
