package stats

import (
	"sort"

	"github.com/riskibarqy/league-history/internal/domain/identity"
	"github.com/riskibarqy/league-history/internal/domain/owner"
)

type HallOfFameCriteria struct {
	MinChampionships     float64
	MinMostPointsTitles  int
	IronManSeasons       int
	WinningMinSeasons    int
	WinningMinPercentage float64
}

func DefaultHallOfFameCriteria() HallOfFameCriteria {
	return HallOfFameCriteria{
		MinChampionships:     2,
		MinMostPointsTitles:  5,
		IronManSeasons:       15,
		WinningMinSeasons:    5,
		WinningMinPercentage: 55,
	}
}

type HallOfFame struct {
	Inductees     []LeaderboardRow `json:"inductees"`
	IronMen       []LeaderboardRow `json:"ironMen"`
	WinningOwners []LeaderboardRow `json:"winningOwners"`
}

// HallOfFameFor selects the inductees and honor rolls for the given criteria.
// Zero-valued criteria fields fall back to the defaults.
func HallOfFameFor(owners []owner.Owner, criteria HallOfFameCriteria) HallOfFame {
	criteria = normalizeCriteria(criteria)
	rows := Leaderboard(owners)

	out := HallOfFame{
		Inductees:     []LeaderboardRow{},
		IronMen:       []LeaderboardRow{},
		WinningOwners: []LeaderboardRow{},
	}
	for _, row := range rows {
		if row.Championships >= criteria.MinChampionships || row.MostPointsTitles >= criteria.MinMostPointsTitles {
			out.Inductees = append(out.Inductees, row)
		}
		if row.Seasons >= criteria.IronManSeasons {
			out.IronMen = append(out.IronMen, row)
		}
		if row.Seasons >= criteria.WinningMinSeasons && row.WinPercentage >= criteria.WinningMinPercentage {
			out.WinningOwners = append(out.WinningOwners, row)
		}
	}

	sort.SliceStable(out.Inductees, func(i, j int) bool {
		if out.Inductees[i].Championships != out.Inductees[j].Championships {
			return out.Inductees[i].Championships > out.Inductees[j].Championships
		}
		return identity.FoldKey(out.Inductees[i].OwnerName) < identity.FoldKey(out.Inductees[j].OwnerName)
	})
	sort.SliceStable(out.IronMen, func(i, j int) bool {
		return out.IronMen[i].Seasons > out.IronMen[j].Seasons
	})
	sort.SliceStable(out.WinningOwners, func(i, j int) bool {
		return out.WinningOwners[i].WinPercentage > out.WinningOwners[j].WinPercentage
	})
	return out
}

func normalizeCriteria(c HallOfFameCriteria) HallOfFameCriteria {
	defaults := DefaultHallOfFameCriteria()
	if c.MinChampionships <= 0 {
		c.MinChampionships = defaults.MinChampionships
	}
	if c.MinMostPointsTitles <= 0 {
		c.MinMostPointsTitles = defaults.MinMostPointsTitles
	}
	if c.IronManSeasons <= 0 {
		c.IronManSeasons = defaults.IronManSeasons
	}
	if c.WinningMinSeasons <= 0 {
		c.WinningMinSeasons = defaults.WinningMinSeasons
	}
	if c.WinningMinPercentage <= 0 {
		c.WinningMinPercentage = defaults.WinningMinPercentage
	}
	return c
}
