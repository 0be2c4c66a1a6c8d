package stats

import (
	"sort"

	"github.com/riskibarqy/league-history/internal/domain/season"
)

type WeeklyHighCount struct {
	OwnerName string `json:"ownerName"`
	Count     int    `json:"count"`
}

// SeasonHighlights are the single-season game records.
type SeasonHighlights struct {
	Year               int               `json:"year"`
	HighestScore       *GameScore        `json:"highestScore,omitempty"`
	LowestWinningScore *GameScore        `json:"lowestWinningScore,omitempty"`
	BiggestBlowout     *Meeting          `json:"biggestBlowout,omitempty"`
	ClosestGame        *Meeting          `json:"closestGame,omitempty"`
	HighestCombined    *Meeting          `json:"highestCombined,omitempty"`
	WeeklyHighScores   []WeeklyHighCount `json:"weeklyHighScores"`
}

// Highlights computes game records for one season. The first game wins every tie.
// Only decided games are considered for the closest game.
func Highlights(s season.Season) SeasonHighlights {
	out := SeasonHighlights{Year: s.Year, WeeklyHighScores: []WeeklyHighCount{}}

	matchups := append([]season.WeeklyMatchup(nil), s.Matchups...)
	sort.SliceStable(matchups, func(i, j int) bool {
		return matchups[i].Week < matchups[j].Week
	})

	weeklyHigh := make(map[int]season.TeamScore)
	weeks := make([]int, 0)
	for _, m := range matchups {
		for _, pair := range [2][2]season.TeamScore{{m.Home, m.Away}, {m.Away, m.Home}} {
			side, opponent := pair[0], pair[1]
			if out.HighestScore == nil || side.Score > out.HighestScore.Score {
				out.HighestScore = &GameScore{OwnerName: side.OwnerName, Opponent: opponent.OwnerName, Score: side.Score, Year: s.Year, Week: m.Week}
			}
			best, ok := weeklyHigh[m.Week]
			if !ok {
				weeks = append(weeks, m.Week)
			}
			if !ok || side.Score > best.Score {
				weeklyHigh[m.Week] = side
			}
		}

		winner, loser, decided := m.Winner()
		meeting := Meeting{
			Year:           s.Year,
			Week:           m.Week,
			Winner:         winner.OwnerName,
			Loser:          loser.OwnerName,
			WinnerScore:    winner.Score,
			LoserScore:     loser.Score,
			Margin:         m.Margin(),
			Tie:            !decided,
			IsPlayoff:      m.IsPlayoff,
			IsChampionship: m.IsChampionship,
		}
		if out.HighestCombined == nil || m.Combined() > out.HighestCombined.WinnerScore+out.HighestCombined.LoserScore {
			combined := meeting
			out.HighestCombined = &combined
		}
		if !decided {
			continue
		}
		if out.LowestWinningScore == nil || winner.Score < out.LowestWinningScore.Score {
			out.LowestWinningScore = &GameScore{OwnerName: winner.OwnerName, Opponent: loser.OwnerName, Score: winner.Score, Year: s.Year, Week: m.Week}
		}
		if out.BiggestBlowout == nil || meeting.Margin > out.BiggestBlowout.Margin {
			blowout := meeting
			out.BiggestBlowout = &blowout
		}
		if out.ClosestGame == nil || meeting.Margin < out.ClosestGame.Margin {
			closest := meeting
			out.ClosestGame = &closest
		}
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, week := range weeks {
		name := weeklyHigh[week].OwnerName
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}
	for _, name := range order {
		out.WeeklyHighScores = append(out.WeeklyHighScores, WeeklyHighCount{OwnerName: name, Count: counts[name]})
	}
	sort.SliceStable(out.WeeklyHighScores, func(i, j int) bool {
		return out.WeeklyHighScores[i].Count > out.WeeklyHighScores[j].Count
	})
	return out
}
