package identity

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var ErrInvalidIdentity = errors.New("invalid owner identity")

var (
	slugStripRegex    = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	slugCollapseRegex = regexp.MustCompile(`[\s_-]+`)
)

// Identity is the canonical person behind every name variant seen in the data.
type Identity struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	TeamNames []string `json:"teamNames,omitempty"`
}

// Resolver maps free-text display names to canonical identities.
// It holds no state besides the alias table handed to it at construction.
type Resolver struct {
	overrides map[string]string
}

func NewResolver(overrides map[string]string) *Resolver {
	table := make(map[string]string, len(overrides))
	for alias, canonical := range overrides {
		key := FoldKey(alias)
		if key == "" {
			continue
		}
		table[key] = strings.TrimSpace(canonical)
	}

	return &Resolver{overrides: flattenOverrides(table)}
}

// flattenOverrides follows alias chains so every entry points at a terminal
// canonical name. Entries that end up in a cycle are dropped.
func flattenOverrides(table map[string]string) map[string]string {
	out := make(map[string]string, len(table))
	for key, target := range table {
		seen := map[string]struct{}{key: {}}
		cyclic := false
		for {
			nextKey := FoldKey(target)
			next, alias := table[nextKey]
			if !alias || nextKey == FoldKey(next) {
				break
			}
			if _, ok := seen[nextKey]; ok {
				cyclic = true
				break
			}
			seen[nextKey] = struct{}{}
			target = next
		}
		if cyclic {
			continue
		}
		out[key] = target
	}
	return out
}

// Resolve trims the name, applies the alias table and derives the identifier.
func (r *Resolver) Resolve(displayName string) (Identity, error) {
	name := r.CanonicalName(displayName)
	if name == "" {
		return Identity{}, ErrInvalidIdentity
	}

	id := Slugify(name)
	if id == "" {
		return Identity{}, ErrInvalidIdentity
	}

	return Identity{ID: id, Name: name}, nil
}

// CanonicalName returns the display name after alias substitution, or "" for blank input.
func (r *Resolver) CanonicalName(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return ""
	}
	if r == nil || len(r.overrides) == 0 {
		return name
	}
	if canonical, ok := r.overrides[FoldKey(name)]; ok {
		return canonical
	}
	return name
}

// Same reports whether both names resolve to one identity. Blank names never match.
func (r *Resolver) Same(a, b string) bool {
	left, err := r.Resolve(a)
	if err != nil {
		return false
	}
	right, err := r.Resolve(b)
	if err != nil {
		return false
	}
	return left.ID == right.ID
}

// Slugify lowercases s, strips punctuation and joins the remaining words with hyphens.
func Slugify(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = slugStripRegex.ReplaceAllString(out, "")
	out = slugCollapseRegex.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// FoldKey is the case-insensitive comparison key for a name.
// A Caser keeps state, so one is built per call.
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
