package owner

import "errors"

var ErrCorruptSeason = errors.New("season reached aggregation without standings")

// SeasonSummary is a single season result referenced from career stats.
type SeasonSummary struct {
	Year          int     `json:"year"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties,omitempty"`
	PointsFor     float64 `json:"pointsFor"`
	Rank          int     `json:"rank"`
	WinPercentage float64 `json:"winPercentage"`
}

type PlayoffRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties,omitempty"`
}

// Stats holds career totals. Percentages are always derived from the totals.
type Stats struct {
	TotalWins          int            `json:"totalWins"`
	TotalLosses        int            `json:"totalLosses"`
	TotalTies          int            `json:"totalTies"`
	TotalPointsFor     float64        `json:"totalPointsFor"`
	TotalPointsAgainst float64        `json:"totalPointsAgainst"`
	WinPercentage      float64        `json:"winPercentage"`
	PlayoffPercentage  float64        `json:"playoffPercentage"`
	BestSeason         *SeasonSummary `json:"bestSeason,omitempty"`
	WorstSeason        *SeasonSummary `json:"worstSeason,omitempty"`
	AvgPointsPerSeason float64        `json:"avgPointsPerSeason"`
	AvgWinsPerSeason   float64        `json:"avgWinsPerSeason"`
	LongestTenure      int            `json:"longestTenure"`
	LongestTenureStart int            `json:"longestTenureStart,omitempty"`
}

// Owner is the career aggregate for one canonical identity.
type Owner struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	TeamNames          []string      `json:"teamNames"`
	Seasons            []int         `json:"seasons"`
	Championships      []int         `json:"championships"`
	ChampionshipCount  float64       `json:"championshipCount"`
	RunnerUps          []int         `json:"runnerUps"`
	MostPointsSeasons  []int         `json:"mostPointsSeasons"`
	LastPlaceSeasons   []int         `json:"lastPlaceSeasons"`
	TotalSeasons       int           `json:"totalSeasons"`
	PlayoffAppearances int           `json:"playoffAppearances"`
	PlayoffRecord      PlayoffRecord `json:"playoffRecord"`
	IsActive           bool          `json:"isActive"`
	Stats              Stats         `json:"stats"`
}

func (o Owner) TotalGames() int {
	return o.Stats.TotalWins + o.Stats.TotalLosses + o.Stats.TotalTies
}

// FirstSeason is the earliest year played, zero when none.
func (o Owner) FirstSeason() int {
	if len(o.Seasons) == 0 {
		return 0
	}
	return o.Seasons[0]
}
