package stats

import (
	"fmt"

	"github.com/riskibarqy/league-history/internal/domain/owner"
)

// LeaderboardRow exposes every comparable career field for one owner.
// Ordering is left to the caller.
type LeaderboardRow struct {
	OwnerID            string               `json:"ownerId"`
	OwnerName          string               `json:"ownerName"`
	IsActive           bool                 `json:"isActive"`
	Seasons            int                  `json:"seasons"`
	Championships      float64              `json:"championships"`
	ChampionshipYears  []int                `json:"championshipYears"`
	RunnerUps          int                  `json:"runnerUps"`
	MostPointsTitles   int                  `json:"mostPointsTitles"`
	LastPlaceFinishes  int                  `json:"lastPlaceFinishes"`
	PlayoffAppearances int                  `json:"playoffAppearances"`
	PlayoffPercentage  float64              `json:"playoffPercentage"`
	PlayoffRecord      string               `json:"playoffRecord"`
	Wins               int                  `json:"wins"`
	Losses             int                  `json:"losses"`
	Ties               int                  `json:"ties"`
	Record             string               `json:"record"`
	WinPercentage      float64              `json:"winPercentage"`
	PointsFor          float64              `json:"pointsFor"`
	PointsAgainst      float64              `json:"pointsAgainst"`
	AvgPointsPerSeason float64              `json:"avgPointsPerSeason"`
	AvgWinsPerSeason   float64              `json:"avgWinsPerSeason"`
	BestSeason         *owner.SeasonSummary `json:"bestSeason,omitempty"`
	WorstSeason        *owner.SeasonSummary `json:"worstSeason,omitempty"`
}

func Leaderboard(owners []owner.Owner) []LeaderboardRow {
	out := make([]LeaderboardRow, 0, len(owners))
	for _, o := range owners {
		out = append(out, LeaderboardRow{
			OwnerID:            o.ID,
			OwnerName:          o.Name,
			IsActive:           o.IsActive,
			Seasons:            o.TotalSeasons,
			Championships:      o.ChampionshipCount,
			ChampionshipYears:  append([]int{}, o.Championships...),
			RunnerUps:          len(o.RunnerUps),
			MostPointsTitles:   len(o.MostPointsSeasons),
			LastPlaceFinishes:  len(o.LastPlaceSeasons),
			PlayoffAppearances: o.PlayoffAppearances,
			PlayoffPercentage:  o.Stats.PlayoffPercentage,
			PlayoffRecord:      FormatRecord(o.PlayoffRecord.Wins, o.PlayoffRecord.Losses, o.PlayoffRecord.Ties),
			Wins:               o.Stats.TotalWins,
			Losses:             o.Stats.TotalLosses,
			Ties:               o.Stats.TotalTies,
			Record:             FormatRecord(o.Stats.TotalWins, o.Stats.TotalLosses, o.Stats.TotalTies),
			WinPercentage:      o.Stats.WinPercentage,
			PointsFor:          o.Stats.TotalPointsFor,
			PointsAgainst:      o.Stats.TotalPointsAgainst,
			AvgPointsPerSeason: o.Stats.AvgPointsPerSeason,
			AvgWinsPerSeason:   o.Stats.AvgWinsPerSeason,
			BestSeason:         copySummary(o.Stats.BestSeason),
			WorstSeason:        copySummary(o.Stats.WorstSeason),
		})
	}
	return out
}

// FormatRecord renders "W-L", or "W-L-T" when ties exist.
func FormatRecord(wins, losses, ties int) string {
	if ties > 0 {
		return fmt.Sprintf("%d-%d-%d", wins, losses, ties)
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}

func copySummary(s *owner.SeasonSummary) *owner.SeasonSummary {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
