package identity

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "Alice Smith", want: "alice-smith"},
		{in: "  Bob   O'Neil ", want: "bob-oneil"},
		{in: "Mary_Jane--Watson", want: "mary-jane-watson"},
		{in: "-- Team #1 --", want: "team-1"},
		{in: "José Núñez", want: "josé-núñez"},
		{in: "!!!", want: ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolver_Resolve_RejectsBlankNames(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(map[string]string{"ghost": "  "})
	for _, name := range []string{"", "   ", "\t", "ghost", "???"} {
		if _, err := resolver.Resolve(name); !errors.Is(err, ErrInvalidIdentity) {
			t.Fatalf("Resolve(%q) err=%v want ErrInvalidIdentity", name, err)
		}
	}
}

func TestResolver_Resolve_AppliesOverridesCaseInsensitively(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(map[string]string{
		"Bobby T": "Bob Thompson",
		"rob t":   "Bobby T",
	})

	for _, name := range []string{"bobby t", "BOBBY T", " Rob T ", "Bob Thompson"} {
		id, err := resolver.Resolve(name)
		if err != nil {
			t.Fatalf("resolve %q: %v", name, err)
		}
		if id.Name != "Bob Thompson" || id.ID != "bob-thompson" {
			t.Fatalf("resolve %q: got %+v", name, id)
		}
	}
}

func TestResolver_Resolve_IsIdempotent(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(map[string]string{
		"AJ":    "Andrew Jones",
		"loopA": "loopB",
		"loopB": "loopA",
	})

	inputs := []string{"AJ", "aj", "Andrew Jones", "  carl  ", "Dana-Lee", "loopA", "loopB", "x_y z"}
	for _, in := range inputs {
		first, err := resolver.Resolve(in)
		if err != nil {
			t.Fatalf("resolve %q: %v", in, err)
		}
		second, err := resolver.Resolve(first.Name)
		if err != nil {
			t.Fatalf("resolve canonical %q: %v", first.Name, err)
		}
		if first.ID != second.ID {
			t.Fatalf("identity not idempotent for %q: %q != %q", in, first.ID, second.ID)
		}
	}
}

func TestResolver_Same(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil)
	if !resolver.Same("Alice Smith", "alice   smith") {
		t.Fatalf("expected names with equal slugs to match")
	}
	if resolver.Same("Alice", "Alicia") {
		t.Fatalf("expected distinct names not to match")
	}
	if resolver.Same("", "") {
		t.Fatalf("expected blank names never to match")
	}
}
