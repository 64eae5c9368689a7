// Package league holds the static table of poker leagues a game can be opened in.
package league

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound       = errors.New("league_not_found")
	ErrDuplicateToken = errors.New("duplicate_league_token")
	ErrInvalidLeague  = errors.New("invalid_league")
)

type League struct {
	Name     string   `yaml:"name" json:"name"`
	BuyIn    int64    `yaml:"buyin" json:"buy_in"`
	Units    string   `yaml:"units" json:"units"`
	Synonyms []string `yaml:"synonyms" json:"synonyms"`
}

type Options struct {
	CaseInsensitive bool
}

// Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	leagues         []League
	caseInsensitive bool
}

func New(leagues []League, opts Options) (*Catalog, error) {
	c := &Catalog{caseInsensitive: opts.CaseInsensitive}
	seen := map[string]string{}
	for _, l := range leagues {
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidLeague)
		}
		if l.BuyIn <= 0 {
			return nil, fmt.Errorf("%w: %s buy-in must be positive", ErrInvalidLeague, l.Name)
		}
		syns := make([]string, 0, len(l.Synonyms))
		for _, tok := range append([]string{l.Name}, l.Synonyms...) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			key := c.fold(tok)
			if owner, ok := seen[key]; ok {
				if owner == l.Name {
					continue
				}
				return nil, fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateToken, tok, owner, l.Name)
			}
			seen[key] = l.Name
			if tok != l.Name {
				syns = append(syns, tok)
			}
		}
		l.Synonyms = syns
		c.leagues = append(c.leagues, l)
	}
	return c, nil
}

// Resolve checks every league name before any synonym; the first match in
// catalog order wins.
func (c *Catalog) Resolve(token string) (League, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return League{}, ErrNotFound
	}
	key := c.fold(token)
	for _, l := range c.leagues {
		if c.fold(l.Name) == key {
			return l.clone(), nil
		}
	}
	for _, l := range c.leagues {
		for _, s := range l.Synonyms {
			if c.fold(s) == key {
				return l.clone(), nil
			}
		}
	}
	return League{}, ErrNotFound
}

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.leagues))
	for _, l := range c.leagues {
		out = append(out, l.Name)
	}
	return out
}

func (c *Catalog) All() []League {
	out := make([]League, 0, len(c.leagues))
	for _, l := range c.leagues {
		out = append(out, l.clone())
	}
	return out
}

func (c *Catalog) fold(s string) string {
	if !c.caseInsensitive {
		return s
	}
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(s)
}

func (l League) clone() League {
	l.Synonyms = append([]string(nil), l.Synonyms...)
	return l
}

type fileFormat struct {
	Leagues []League `yaml:"leagues"`
}

func Parse(raw []byte, opts Options) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse league catalog: %w", err)
	}
	if len(f.Leagues) == 0 {
		return nil, fmt.Errorf("%w: catalog has no leagues", ErrInvalidLeague)
	}
	return New(f.Leagues, opts)
}

func LoadFile(path string, opts Options) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read league catalog %q: %w", path, err)
	}
	return Parse(raw, opts)
}

// Default is used when no catalog file is configured.
func Default(opts Options) *Catalog {
	c, err := New([]League{
		{Name: "nlhe", BuyIn: 10, Units: "chips", Synonyms: []string{"holdem", "texas"}},
		{Name: "plo", BuyIn: 20, Units: "chips", Synonyms: []string{"omaha"}},
		{Name: "beer", BuyIn: 1, Units: "beers", Synonyms: []string{"pint"}},
	}, opts)
	if err != nil {
		panic(err)
	}
	return c
}
