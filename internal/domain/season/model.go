package season

import "strings"

const (
	DefaultRegularSeasonWeeks = 14
	DefaultPlayoffWeeks       = 3

	splitChampionSeparator = " & "
)

// Standing is one owner's season-end result row.
type Standing struct {
	Rank          int     `json:"rank"`
	OwnerName     string  `json:"ownerName"`
	TeamName      string  `json:"teamName"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties,omitempty"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
	MadePlayoffs  bool    `json:"madePlayoffs"`
}

// Games is the number of decisions plus ties.
func (s Standing) Games() int {
	return s.Wins + s.Losses + s.Ties
}

// WinRatio is the unrounded share of games won, zero when no games were played.
func (s Standing) WinRatio() float64 {
	games := s.Games()
	if games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(games)
}

type TeamScore struct {
	OwnerName      string   `json:"ownerName"`
	TeamName       string   `json:"teamName"`
	Score          float64  `json:"score"`
	ProjectedScore *float64 `json:"projectedScore,omitempty"`
}

// WeeklyMatchup is one game in one matchup period.
type WeeklyMatchup struct {
	Week           int       `json:"week"`
	Home           TeamScore `json:"home"`
	Away           TeamScore `json:"away"`
	IsPlayoff      bool      `json:"isPlayoff"`
	IsChampionship bool      `json:"isChampionship"`
}

// Margin is the absolute score difference.
func (m WeeklyMatchup) Margin() float64 {
	diff := m.Home.Score - m.Away.Score
	if diff < 0 {
		return -diff
	}
	return diff
}

func (m WeeklyMatchup) Combined() float64 {
	return m.Home.Score + m.Away.Score
}

// Winner returns the winning side and false for a tie.
func (m WeeklyMatchup) Winner() (winner TeamScore, loser TeamScore, decided bool) {
	switch {
	case m.Home.Score > m.Away.Score:
		return m.Home, m.Away, true
	case m.Away.Score > m.Home.Score:
		return m.Away, m.Home, true
	default:
		return m.Home, m.Away, false
	}
}

type OwnerPoints struct {
	OwnerName string  `json:"ownerName"`
	TeamName  string  `json:"teamName,omitempty"`
	Points    float64 `json:"points"`
}

type KeyMoment struct {
	Week        int    `json:"week,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Season is one year's complete record.
type Season struct {
	Year               int             `json:"year"`
	Standings          []Standing      `json:"standings"`
	Matchups           []WeeklyMatchup `json:"matchups,omitempty"`
	Champions          []string        `json:"champions"`
	RunnerUp           string          `json:"runnerUp,omitempty"`
	MostPoints         OwnerPoints     `json:"mostPoints"`
	LastPlace          string          `json:"lastPlace"`
	LeagueSize         int             `json:"leagueSize"`
	RegularSeasonWeeks int             `json:"regularSeasonWeeks"`
	PlayoffWeeks       int             `json:"playoffWeeks"`
	KeyMoments         []KeyMoment     `json:"keyMoments,omitempty"`
}

// Champion renders the title holder, joining co-champions of a split season.
func (s Season) Champion() string {
	return strings.Join(s.Champions, splitChampionSeparator)
}

func (s Season) IsSplit() bool {
	return len(s.Champions) == 2
}

func (s Season) HasMatchups() bool {
	return len(s.Matchups) > 0
}

// MaxWeek is the highest matchup period seen, zero without matchups.
func (s Season) MaxWeek() int {
	maxWeek := 0
	for _, m := range s.Matchups {
		if m.Week > maxWeek {
			maxWeek = m.Week
		}
	}
	return maxWeek
}

// Overrides carries operator corrections for one season's title outcome.
type Overrides struct {
	ChampionOverride string   `json:"championOverride,omitempty"`
	RunnerUpOverride string   `json:"runnerUpOverride,omitempty"`
	SplitChampions   []string `json:"splitChampions,omitempty"`
}

// RawSeason is one season as delivered by an ingestion source, before normalization.
type RawSeason struct {
	Year               int
	Standings          []Standing
	Matchups           []WeeklyMatchup
	Overrides          Overrides
	PlayoffTeamCount   int
	RegularSeasonWeeks int
	KeyMoments         []KeyMoment
}
