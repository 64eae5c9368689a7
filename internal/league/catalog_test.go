package league

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveNameBeforeSynonym(t *testing.T) {
	c, err := New([]League{
		{Name: "alpha", BuyIn: 5, Units: "chips", Synonyms: []string{"a1"}},
		{Name: "beta", BuyIn: 7, Units: "beers", Synonyms: []string{"b1", "bb"}},
	}, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		token string
		want  string
		err   error
	}{
		{"alpha", "alpha", nil},
		{"beta", "beta", nil},
		{"bb", "beta", nil},
		{" a1 ", "alpha", nil},
		{"Alpha", "", ErrNotFound},
		{"", "", ErrNotFound},
		{"gamma", "", ErrNotFound},
	}
	for _, tt := range tests {
		got, err := c.Resolve(tt.token)
		if !errors.Is(err, tt.err) {
			t.Fatalf("Resolve(%q) err = %v, want %v", tt.token, err, tt.err)
		}
		if got.Name != tt.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tt.token, got.Name, tt.want)
		}
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	c := Default(Options{CaseInsensitive: true})
	got, err := c.Resolve("HoldEm")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Name != "nlhe" || got.BuyIn != 10 {
		t.Fatalf("unexpected league: %+v", got)
	}
}

func TestNewRejectsSharedSynonym(t *testing.T) {
	_, err := New([]League{
		{Name: "alpha", BuyIn: 5, Synonyms: []string{"shared"}},
		{Name: "beta", BuyIn: 5, Synonyms: []string{"shared"}},
	}, Options{})
	if !errors.Is(err, ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}
}

func TestNewRejectsSynonymMatchingOtherName(t *testing.T) {
	_, err := New([]League{
		{Name: "alpha", BuyIn: 5},
		{Name: "beta", BuyIn: 5, Synonyms: []string{"ALPHA"}},
	}, Options{CaseInsensitive: true})
	if !errors.Is(err, ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}
}

func TestNewRejectsNonPositiveBuyIn(t *testing.T) {
	_, err := New([]League{{Name: "free", BuyIn: 0}}, Options{})
	if !errors.Is(err, ErrInvalidLeague) {
		t.Fatalf("expected ErrInvalidLeague, got %v", err)
	}
}

func TestResolveReturnsCopy(t *testing.T) {
	c := Default(Options{})
	got, _ := c.Resolve("nlhe")
	got.Synonyms[0] = "mutated"
	again, _ := c.Resolve("holdem")
	if again.Name != "nlhe" {
		t.Fatalf("catalog mutated through returned league: %+v", again)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leagues.yaml")
	raw := "leagues:\n  - name: friday\n    buyin: 25\n    units: dollars\n    synonyms: [fri]\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	got, err := c.Resolve("fri")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Name != "friday" || got.BuyIn != 25 || got.Units != "dollars" {
		t.Fatalf("unexpected league: %+v", got)
	}
	if names := c.Names(); len(names) != 1 || names[0] != "friday" {
		t.Fatalf("Names() = %v", names)
	}
}

func TestParseRejectsEmptyCatalog(t *testing.T) {
	if _, err := Parse([]byte("leagues: []\n"), Options{}); !errors.Is(err, ErrInvalidLeague) {
		t.Fatalf("expected ErrInvalidLeague, got %v", err)
	}
}
