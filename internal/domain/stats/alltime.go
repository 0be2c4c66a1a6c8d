package stats

import (
	"math"
	"sort"

	"github.com/riskibarqy/league-history/internal/domain/identity"
	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
)

type GameScore struct {
	OwnerName string  `json:"ownerName"`
	Opponent  string  `json:"opponent"`
	Score     float64 `json:"score"`
	Year      int     `json:"year"`
	Week      int     `json:"week"`
}

type Streak struct {
	OwnerName string `json:"ownerName"`
	Length    int    `json:"length"`
	StartYear int    `json:"startYear"`
	StartWeek int    `json:"startWeek"`
	EndYear   int    `json:"endYear"`
	EndWeek   int    `json:"endWeek"`
}

type AllTimeStats struct {
	TotalSeasons          int        `json:"totalSeasons"`
	TotalGames            int        `json:"totalGames"`
	TotalPoints           float64    `json:"totalPoints"`
	AvgPointsPerGame      float64    `json:"avgPointsPerGame"`
	HighestGame           *GameScore `json:"highestGame,omitempty"`
	LowestGame            *GameScore `json:"lowestGame,omitempty"`
	ChampionshipLeader    string     `json:"championshipLeader,omitempty"`
	ChampionshipLeaderWon float64    `json:"championshipLeaderWon,omitempty"`
	LongestWinStreak      *Streak    `json:"longestWinStreak,omitempty"`
	LongestLosingStreak   *Streak    `json:"longestLosingStreak,omitempty"`
}

// AllTime summarizes the whole league history.
func AllTime(owners []owner.Owner, seasons []season.Season) AllTimeStats {
	ordered := chronological(seasons)
	out := AllTimeStats{TotalSeasons: len(ordered)}

	teamGames := 0
	for _, s := range ordered {
		for _, st := range s.Standings {
			teamGames += st.Games()
			out.TotalPoints += st.PointsFor
		}
	}
	out.TotalGames = teamGames / 2
	out.TotalPoints = math.Round(out.TotalPoints*100) / 100
	if teamGames > 0 {
		out.AvgPointsPerGame = math.Round(out.TotalPoints/float64(teamGames)*100) / 100
	}

	for _, w := range weeklyScores(ordered) {
		game := GameScore{OwnerName: w.score.OwnerName, Opponent: w.opponent, Score: w.score.Score, Year: w.year, Week: w.week}
		if out.HighestGame == nil || game.Score > out.HighestGame.Score {
			highest := game
			out.HighestGame = &highest
		}
		if game.Score > 0 && (out.LowestGame == nil || game.Score < out.LowestGame.Score) {
			lowest := game
			out.LowestGame = &lowest
		}
	}

	for _, o := range owners {
		if o.ChampionshipCount > out.ChampionshipLeaderWon {
			out.ChampionshipLeader = o.Name
			out.ChampionshipLeaderWon = o.ChampionshipCount
		}
	}

	out.LongestWinStreak, out.LongestLosingStreak = longestStreaks(ordered)
	return out
}

type streakState struct {
	win, loss Streak
}

// longestStreaks walks every owner's games in order. A tie ends both streaks.
func longestStreaks(ordered []season.Season) (*Streak, *Streak) {
	states := make(map[string]*streakState)
	var bestWin, bestLoss *Streak

	extend := func(current *Streak, name string, year, week int) {
		if current.Length == 0 {
			current.OwnerName = name
			current.StartYear, current.StartWeek = year, week
		}
		current.Length++
		current.EndYear, current.EndWeek = year, week
	}

	for _, s := range ordered {
		matchups := append([]season.WeeklyMatchup(nil), s.Matchups...)
		sort.SliceStable(matchups, func(i, j int) bool {
			return matchups[i].Week < matchups[j].Week
		})

		for _, m := range matchups {
			if identity.Slugify(m.Home.OwnerName) == identity.Slugify(m.Away.OwnerName) {
				continue
			}
			decided := m.Home.Score != m.Away.Score
			sides := [2]struct {
				name string
				won  bool
			}{
				{m.Home.OwnerName, m.Home.Score > m.Away.Score},
				{m.Away.OwnerName, m.Away.Score > m.Home.Score},
			}

			for _, side := range sides {
				key := identity.Slugify(side.name)
				if key == "" {
					continue
				}
				state, ok := states[key]
				if !ok {
					state = &streakState{}
					states[key] = state
				}

				switch {
				case !decided:
					state.win, state.loss = Streak{}, Streak{}
				case side.won:
					state.loss = Streak{}
					extend(&state.win, side.name, s.Year, m.Week)
					if bestWin == nil || state.win.Length > bestWin.Length {
						w := state.win
						bestWin = &w
					}
				default:
					state.win = Streak{}
					extend(&state.loss, side.name, s.Year, m.Week)
					if bestLoss == nil || state.loss.Length > bestLoss.Length {
						l := state.loss
						bestLoss = &l
					}
				}
			}
		}
	}
	return bestWin, bestLoss
}
