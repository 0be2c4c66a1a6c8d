package owner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/league-history/internal/domain/identity"
	"github.com/riskibarqy/league-history/internal/domain/season"
)

const splitCredit = 0.5

// AggregateOptions is operator configuration for the aggregation run.
type AggregateOptions struct {
	// SplitChampionships lists co-champions per year. It only fills years with no
	// season in the list; a season's own Champions decide every year it covers.
	// Entries that do not name exactly two owners are ignored.
	SplitChampionships map[int][]string
	// CurrentOwners, when set, decides activity instead of the current season roster.
	CurrentOwners []string
}

// Aggregator folds the season list into one Owner per canonical identity.
type Aggregator struct {
	resolver season.IdentityResolver
	opts     AggregateOptions
}

func NewAggregator(resolver season.IdentityResolver, opts AggregateOptions) *Aggregator {
	if resolver == nil {
		resolver = identity.NewResolver(nil)
	}
	return &Aggregator{resolver: resolver, opts: opts}
}

type accumulator struct {
	owner      Owner
	teams      map[string]struct{}
	titleYears map[int]struct{}
	bestRatio  float64
	worstRatio float64
}

type aggregation struct {
	resolver season.IdentityResolver
	byID     map[string]*accumulator
}

// Aggregate recomputes every owner from scratch. Seasons may arrive in any order.
func (a *Aggregator) Aggregate(seasons []season.Season, currentYear int) ([]Owner, error) {
	ordered := append([]season.Season(nil), seasons...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Year < ordered[j].Year
	})

	agg := &aggregation{resolver: a.resolver, byID: make(map[string]*accumulator)}

	splits := a.splitYears(ordered)
	splitYears := make([]int, 0, len(splits))
	for year := range splits {
		splitYears = append(splitYears, year)
	}
	sort.Ints(splitYears)
	for _, year := range splitYears {
		credited := make(map[string]struct{}, 2)
		for _, name := range splits[year] {
			acc, err := agg.get(name)
			if err != nil {
				return nil, fmt.Errorf("aggregate split championship %d: %w", year, err)
			}
			if _, ok := credited[acc.owner.ID]; ok {
				continue
			}
			credited[acc.owner.ID] = struct{}{}
			acc.creditTitle(year, splitCredit)
		}
	}

	var currentRoster map[string]struct{}
	for _, s := range ordered {
		if len(s.Standings) == 0 {
			return nil, fmt.Errorf("aggregate season %d: %w", s.Year, ErrCorruptSeason)
		}
		_, isSplit := splits[s.Year]
		roster := make(map[string]struct{}, len(s.Standings))

		for _, st := range s.Standings {
			acc, err := agg.get(st.OwnerName)
			if err != nil {
				return nil, fmt.Errorf("aggregate season %d: %w", s.Year, err)
			}
			roster[acc.owner.ID] = struct{}{}
			acc.addStanding(s, st)

			if !isSplit && agg.matchesAny(acc.owner.ID, s.Champions) {
				acc.creditTitle(s.Year, 1)
			}
			if agg.matches(acc.owner.ID, s.RunnerUp) {
				acc.owner.RunnerUps = append(acc.owner.RunnerUps, s.Year)
			}
			if agg.matches(acc.owner.ID, s.MostPoints.OwnerName) {
				acc.owner.MostPointsSeasons = append(acc.owner.MostPointsSeasons, s.Year)
			}
			if agg.matches(acc.owner.ID, s.LastPlace) {
				acc.owner.LastPlaceSeasons = append(acc.owner.LastPlaceSeasons, s.Year)
			}
		}
		agg.addPlayoffGames(s.Matchups)

		if s.Year == currentYear {
			currentRoster = roster
		}
	}

	if len(a.opts.CurrentOwners) > 0 {
		currentRoster = make(map[string]struct{}, len(a.opts.CurrentOwners))
		for _, name := range a.opts.CurrentOwners {
			if id, err := a.resolver.Resolve(name); err == nil {
				currentRoster[id.ID] = struct{}{}
			}
		}
	}

	out := make([]Owner, 0, len(agg.byID))
	for _, acc := range agg.byID {
		_, active := currentRoster[acc.owner.ID]
		out = append(out, acc.finish(active))
	}
	sort.Slice(out, func(i, j int) bool {
		left, right := identity.FoldKey(out[i].Name), identity.FoldKey(out[j].Name)
		if left != right {
			return left < right
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (a *Aggregator) splitYears(ordered []season.Season) map[int][]string {
	out := make(map[int][]string)
	covered := make(map[int]struct{}, len(ordered))
	for _, s := range ordered {
		covered[s.Year] = struct{}{}
		if s.IsSplit() {
			out[s.Year] = s.Champions
		}
	}
	for year, names := range a.opts.SplitChampionships {
		if _, ok := covered[year]; ok || len(names) != 2 {
			continue
		}
		out[year] = names
	}
	return out
}

func (g *aggregation) get(name string) (*accumulator, error) {
	id, err := g.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	if acc, ok := g.byID[id.ID]; ok {
		return acc, nil
	}

	acc := &accumulator{
		owner: Owner{
			ID:                id.ID,
			Name:              id.Name,
			TeamNames:         []string{},
			Seasons:           []int{},
			Championships:     []int{},
			RunnerUps:         []int{},
			MostPointsSeasons: []int{},
			LastPlaceSeasons:  []int{},
		},
		teams:      make(map[string]struct{}),
		titleYears: make(map[int]struct{}),
	}
	g.byID[id.ID] = acc
	return acc, nil
}

// lookup finds an existing owner without creating one.
func (g *aggregation) lookup(name string) (*accumulator, bool) {
	id, err := g.resolver.Resolve(name)
	if err != nil {
		return nil, false
	}
	acc, ok := g.byID[id.ID]
	return acc, ok
}

func (g *aggregation) matches(ownerID, name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	id, err := g.resolver.Resolve(name)
	return err == nil && id.ID == ownerID
}

func (g *aggregation) matchesAny(ownerID string, names []string) bool {
	for _, name := range names {
		if g.matches(ownerID, name) {
			return true
		}
	}
	return false
}

func (g *aggregation) addPlayoffGames(matchups []season.WeeklyMatchup) {
	for _, m := range matchups {
		if !m.IsPlayoff {
			continue
		}
		home, homeOK := g.lookup(m.Home.OwnerName)
		away, awayOK := g.lookup(m.Away.OwnerName)
		if homeOK && awayOK && home == away {
			continue
		}

		winner, loser, decided := m.Winner()
		if !decided {
			if homeOK {
				home.owner.PlayoffRecord.Ties++
			}
			if awayOK {
				away.owner.PlayoffRecord.Ties++
			}
			continue
		}
		if acc, ok := g.lookup(winner.OwnerName); ok {
			acc.owner.PlayoffRecord.Wins++
		}
		if acc, ok := g.lookup(loser.OwnerName); ok {
			acc.owner.PlayoffRecord.Losses++
		}
	}
}

func (acc *accumulator) creditTitle(year int, credit float64) {
	acc.owner.ChampionshipCount += credit
	if _, ok := acc.titleYears[year]; ok {
		return
	}
	acc.titleYears[year] = struct{}{}
	acc.owner.Championships = append(acc.owner.Championships, year)
}

func (acc *accumulator) addStanding(s season.Season, st season.Standing) {
	team := strings.TrimSpace(st.TeamName)
	if team != "" {
		if _, ok := acc.teams[team]; !ok {
			acc.teams[team] = struct{}{}
			acc.owner.TeamNames = append(acc.owner.TeamNames, team)
		}
	}

	acc.owner.Seasons = append(acc.owner.Seasons, s.Year)
	acc.owner.TotalSeasons++
	if st.MadePlayoffs {
		acc.owner.PlayoffAppearances++
	}

	stats := &acc.owner.Stats
	stats.TotalWins += st.Wins
	stats.TotalLosses += st.Losses
	stats.TotalTies += st.Ties
	stats.TotalPointsFor += st.PointsFor
	stats.TotalPointsAgainst += st.PointsAgainst

	ratio := st.WinRatio()
	summary := SeasonSummary{
		Year:          s.Year,
		Wins:          st.Wins,
		Losses:        st.Losses,
		Ties:          st.Ties,
		PointsFor:     st.PointsFor,
		Rank:          st.Rank,
		WinPercentage: roundTo(ratio*100, 1),
	}
	if stats.BestSeason == nil {
		best, worst := summary, summary
		stats.BestSeason, stats.WorstSeason = &best, &worst
		acc.bestRatio, acc.worstRatio = ratio, ratio
		return
	}
	if ratio > acc.bestRatio {
		best := summary
		stats.BestSeason = &best
		acc.bestRatio = ratio
	}
	if ratio < acc.worstRatio {
		worst := summary
		stats.WorstSeason = &worst
		acc.worstRatio = ratio
	}
}

func (acc *accumulator) finish(active bool) Owner {
	o := acc.owner
	o.IsActive = active

	stats := &o.Stats
	if games := stats.TotalWins + stats.TotalLosses + stats.TotalTies; games > 0 {
		stats.WinPercentage = roundTo(float64(stats.TotalWins)/float64(games)*100, 1)
	}
	if o.TotalSeasons > 0 {
		seasons := float64(o.TotalSeasons)
		stats.PlayoffPercentage = roundTo(float64(o.PlayoffAppearances)/seasons*100, 1)
		stats.AvgPointsPerSeason = roundTo(stats.TotalPointsFor/seasons, 2)
		stats.AvgWinsPerSeason = roundTo(float64(stats.TotalWins)/seasons, 1)
	}
	stats.LongestTenure, stats.LongestTenureStart = longestRun(o.Seasons)

	sort.Ints(o.Seasons)
	sort.Ints(o.Championships)
	sort.Ints(o.RunnerUps)
	sort.Ints(o.MostPointsSeasons)
	sort.Ints(o.LastPlaceSeasons)
	return o
}

// longestRun finds the longest run of consecutive calendar years in an
// ascending year list. A gap year ends the run.
func longestRun(years []int) (int, int) {
	if len(years) == 0 {
		return 0, 0
	}

	best, bestStart := 1, years[0]
	run, runStart := 1, years[0]
	for i := 1; i < len(years); i++ {
		switch years[i] - years[i-1] {
		case 0:
			continue
		case 1:
			run++
		default:
			run, runStart = 1, years[i]
		}
		if run > best {
			best, bestStart = run, runStart
		}
	}
	return best, bestStart
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
