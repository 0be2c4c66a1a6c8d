package season

import "sort"

// Merge folds overlay seasons onto base seasons. For a shared year the overlay's
// standings and matchups replace the base ones wholesale and every other field
// the overlay sets wins over the base value. Output is sorted by year.
func Merge(base []Season, overlay map[int]Season) []Season {
	byYear := make(map[int]Season, len(base)+len(overlay))
	for _, s := range base {
		if existing, ok := byYear[s.Year]; ok {
			byYear[s.Year] = mergeSeason(existing, s)
			continue
		}
		byYear[s.Year] = cloneSeason(s)
	}
	for year, s := range overlay {
		s.Year = year
		if existing, ok := byYear[year]; ok {
			byYear[year] = mergeSeason(existing, s)
			continue
		}
		byYear[year] = cloneSeason(s)
	}

	out := make([]Season, 0, len(byYear))
	for _, s := range byYear {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}

// IndexByYear keys seasons by year; a later duplicate replaces an earlier one.
func IndexByYear(seasons []Season) map[int]Season {
	out := make(map[int]Season, len(seasons))
	for _, s := range seasons {
		out[s.Year] = s
	}
	return out
}

func mergeSeason(base, overlay Season) Season {
	out := cloneSeason(base)
	out.Standings = append([]Standing(nil), overlay.Standings...)
	out.Matchups = append([]WeeklyMatchup(nil), overlay.Matchups...)

	if len(overlay.Champions) > 0 {
		out.Champions = append([]string(nil), overlay.Champions...)
		out.RunnerUp = overlay.RunnerUp
	} else if overlay.RunnerUp != "" {
		out.RunnerUp = overlay.RunnerUp
	}
	if overlay.MostPoints.OwnerName != "" {
		out.MostPoints = overlay.MostPoints
	}
	if overlay.LastPlace != "" {
		out.LastPlace = overlay.LastPlace
	}
	if overlay.LeagueSize > 0 {
		out.LeagueSize = overlay.LeagueSize
	}
	if overlay.RegularSeasonWeeks > 0 {
		out.RegularSeasonWeeks = overlay.RegularSeasonWeeks
	}
	if overlay.PlayoffWeeks > 0 || overlay.RegularSeasonWeeks > 0 {
		out.PlayoffWeeks = overlay.PlayoffWeeks
	}
	if len(overlay.KeyMoments) > 0 {
		out.KeyMoments = append([]KeyMoment(nil), overlay.KeyMoments...)
	}
	return out
}

func cloneSeason(s Season) Season {
	s.Standings = append([]Standing(nil), s.Standings...)
	s.Matchups = append([]WeeklyMatchup(nil), s.Matchups...)
	s.Champions = append([]string(nil), s.Champions...)
	s.KeyMoments = append([]KeyMoment(nil), s.KeyMoments...)
	return s
}
