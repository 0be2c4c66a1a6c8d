package season

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/league-history/internal/domain/identity"
)

var (
	ErrEmptyStandings        = errors.New("season has no standings")
	ErrInvalidSplitChampions = errors.New("split championship accepts at most two owners")
	ErrDuplicateOwner        = errors.New("owner appears more than once in standings")
)

// IdentityResolver canonicalizes owner display names.
type IdentityResolver interface {
	Resolve(displayName string) (identity.Identity, error)
}

// Normalizer turns raw per-source season data into canonical seasons.
type Normalizer struct {
	resolver IdentityResolver
}

func NewNormalizer(resolver IdentityResolver) *Normalizer {
	if resolver == nil {
		resolver = identity.NewResolver(nil)
	}
	return &Normalizer{resolver: resolver}
}

// Normalize builds the canonical season for raw. The input slices are not modified.
func (n *Normalizer) Normalize(raw RawSeason) (Season, error) {
	if len(raw.Standings) == 0 {
		return Season{}, fmt.Errorf("normalize season %d: %w", raw.Year, ErrEmptyStandings)
	}

	split, err := n.canonicalNames(raw.Overrides.SplitChampions)
	if err != nil {
		return Season{}, fmt.Errorf("normalize season %d split champions: %w", raw.Year, err)
	}
	if len(split) > 2 {
		return Season{}, fmt.Errorf("normalize season %d: %w (got %d)", raw.Year, ErrInvalidSplitChampions, len(split))
	}

	standings, err := n.canonicalStandings(raw.Standings)
	if err != nil {
		return Season{}, fmt.Errorf("normalize season %d: %w", raw.Year, err)
	}
	if raw.PlayoffTeamCount > 0 {
		for i := range standings {
			standings[i].MadePlayoffs = standings[i].Rank <= raw.PlayoffTeamCount
		}
	}

	matchups, err := n.canonicalMatchups(raw.Matchups)
	if err != nil {
		return Season{}, fmt.Errorf("normalize season %d: %w", raw.Year, err)
	}

	out := Season{
		Year:       raw.Year,
		Standings:  standings,
		Matchups:   matchups,
		LastPlace:  standings[len(standings)-1].OwnerName,
		LeagueSize: len(standings),
		MostPoints: mostPoints(standings),
		KeyMoments: append([]KeyMoment(nil), raw.KeyMoments...),
	}
	out.RegularSeasonWeeks, out.PlayoffWeeks = weekCounts(matchups, raw.RegularSeasonWeeks)
	if len(matchups) > 0 {
		for i := range out.Matchups {
			out.Matchups[i].IsPlayoff = out.Matchups[i].Week > out.RegularSeasonWeeks
		}
	}

	championOverride := n.canonicalName(raw.Overrides.ChampionOverride)
	runnerUpOverride := n.canonicalName(raw.Overrides.RunnerUpOverride)
	if len(split) == 2 && sameOwner(split[0], split[1]) {
		split = split[:1]
	}
	if len(split) == 1 && championOverride == "" {
		championOverride = split[0]
	}

	switch {
	case len(split) == 2:
		out.Champions = []string{split[0], split[1]}
	case championOverride != "":
		out.Champions = []string{championOverride}
		out.RunnerUp = runnerUpOverride
		if out.RunnerUp == "" {
			out.RunnerUp = runnerUpBehind(standings, championOverride)
		}
	default:
		out.Champions = []string{standings[0].OwnerName}
		out.RunnerUp = runnerUpOverride
		if out.RunnerUp == "" && len(standings) > 1 {
			out.RunnerUp = standings[1].OwnerName
		}
	}
	if out.RunnerUp != "" && sameOwner(out.RunnerUp, out.Champions[0]) {
		out.RunnerUp = ""
	}

	markChampionship(out.Matchups, out.titlePair())
	return out, nil
}

func (n *Normalizer) canonicalName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	id, err := n.resolver.Resolve(raw)
	if err != nil {
		return ""
	}
	return id.Name
}

func (n *Normalizer) canonicalNames(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id, err := n.resolver.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, id.Name)
	}
	return out, nil
}

func (n *Normalizer) canonicalStandings(raw []Standing) ([]Standing, error) {
	out := make([]Standing, len(raw))
	seen := make(map[string]int, len(raw))
	for i, st := range raw {
		id, err := n.resolver.Resolve(st.OwnerName)
		if err != nil {
			return nil, fmt.Errorf("standing rank %d: %w", st.Rank, err)
		}
		if rank, ok := seen[id.ID]; ok {
			return nil, fmt.Errorf("standing rank %d: %w: %s already at rank %d", st.Rank, ErrDuplicateOwner, id.Name, rank)
		}
		seen[id.ID] = st.Rank
		st.OwnerName = id.Name
		st.TeamName = strings.TrimSpace(st.TeamName)
		out[i] = st
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	return out, nil
}

func (n *Normalizer) canonicalMatchups(raw []WeeklyMatchup) ([]WeeklyMatchup, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]WeeklyMatchup, len(raw))
	for i, m := range raw {
		home, err := n.resolver.Resolve(m.Home.OwnerName)
		if err != nil {
			return nil, fmt.Errorf("matchup week %d home: %w", m.Week, err)
		}
		away, err := n.resolver.Resolve(m.Away.OwnerName)
		if err != nil {
			return nil, fmt.Errorf("matchup week %d away: %w", m.Week, err)
		}
		m.Home.OwnerName = home.Name
		m.Away.OwnerName = away.Name
		m.IsChampionship = false
		out[i] = m
	}
	return out, nil
}

// titlePair names the two owners expected in the title game, or nil when unknown.
func (s Season) titlePair() []string {
	if s.IsSplit() {
		return s.Champions
	}
	if len(s.Champions) == 1 && s.RunnerUp != "" {
		return []string{s.Champions[0], s.RunnerUp}
	}
	return nil
}

// markChampionship flags the first final-period game between the title pair.
func markChampionship(matchups []WeeklyMatchup, pair []string) {
	if len(pair) != 2 || len(matchups) == 0 {
		return
	}

	finalWeek := 0
	for _, m := range matchups {
		if m.Week > finalWeek {
			finalWeek = m.Week
		}
	}

	for i := range matchups {
		m := &matchups[i]
		if m.Week != finalWeek {
			continue
		}
		straight := sameOwner(m.Home.OwnerName, pair[0]) && sameOwner(m.Away.OwnerName, pair[1])
		swapped := sameOwner(m.Home.OwnerName, pair[1]) && sameOwner(m.Away.OwnerName, pair[0])
		if straight || swapped {
			m.IsChampionship = true
			m.IsPlayoff = true
			return
		}
	}
}

func weekCounts(matchups []WeeklyMatchup, regular int) (int, int) {
	if len(matchups) == 0 {
		if regular <= 0 {
			regular = DefaultRegularSeasonWeeks
		}
		return regular, DefaultPlayoffWeeks
	}

	maxWeek := 0
	firstPlayoff := 0
	for _, m := range matchups {
		if m.Week > maxWeek {
			maxWeek = m.Week
		}
		if m.IsPlayoff && (firstPlayoff == 0 || m.Week < firstPlayoff) {
			firstPlayoff = m.Week
		}
	}

	switch {
	case regular > 0:
		if regular > maxWeek {
			regular = maxWeek
		}
	case firstPlayoff > 0:
		regular = firstPlayoff - 1
	default:
		regular = maxWeek
	}
	return regular, maxWeek - regular
}

func mostPoints(sorted []Standing) OwnerPoints {
	best := sorted[0]
	for _, st := range sorted[1:] {
		if st.PointsFor > best.PointsFor {
			best = st
		}
	}
	return OwnerPoints{OwnerName: best.OwnerName, TeamName: best.TeamName, Points: best.PointsFor}
}

// runnerUpBehind prefers the rank-2 owner and falls back to rank 1 when
// the overridden champion is the rank-2 owner.
func runnerUpBehind(sorted []Standing, champion string) string {
	if len(sorted) > 1 && !sameOwner(sorted[1].OwnerName, champion) {
		return sorted[1].OwnerName
	}
	if !sameOwner(sorted[0].OwnerName, champion) {
		return sorted[0].OwnerName
	}
	return ""
}

func sameOwner(a, b string) bool {
	left := identity.Slugify(a)
	return left != "" && left == identity.Slugify(b)
}
