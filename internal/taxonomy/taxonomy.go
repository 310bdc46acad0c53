// Package taxonomy loads the category taxonomy from Firebase Remote Config.
// The taxonomy only drives selection UI and breakdown labels; a missing or
// malformed document degrades to an empty taxonomy with a warning, never an
// error the caller must handle.
package taxonomy

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Category is one selectable category with its ordered subcategories.
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Taxonomy is the remote config document: one category list per transaction
// type.
type Taxonomy struct {
	Expenses []Category `json:"expenses"`
	Incomes  []Category `json:"incomes"`
}

// Empty reports whether the taxonomy offers no categories at all.
func (t Taxonomy) Empty() bool {
	return len(t.Expenses) == 0 && len(t.Incomes) == 0
}

// Evaluator fetches the raw taxonomy JSON from the remote config service.
type Evaluator interface {
	CategoriesJSON(ctx context.Context) (string, error)
}

// Loader fetches and parses the taxonomy once per session and caches the
// result. Failures fall back to an empty taxonomy and are not cached, so a
// later call can recover.
type Loader struct {
	ev  Evaluator
	log zerolog.Logger

	mu     sync.Mutex
	cached *Taxonomy
}

func NewLoader(ev Evaluator, log zerolog.Logger) *Loader {
	return &Loader{ev: ev, log: log}
}

// Load returns the taxonomy, fetching it on first use.
func (l *Loader) Load(ctx context.Context) Taxonomy {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return *l.cached
	}

	raw, err := l.ev.CategoriesJSON(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("taxonomy fetch failed, using empty taxonomy")
		return Taxonomy{}
	}

	parsed, err := Parse(raw)
	if err != nil {
		l.log.Warn().Err(err).Msg("taxonomy unparsable, using empty taxonomy")
		return Taxonomy{}
	}
	if parsed.Empty() {
		l.log.Warn().Msg("taxonomy document is empty; category entry degrades to free text")
	}

	l.cached = &parsed
	return parsed
}

// Parse decodes the taxonomy JSON document.
func Parse(raw string) (Taxonomy, error) {
	var t Taxonomy
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Taxonomy{}, err
	}
	return t, nil
}
