package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/mcoot/circle-go/internal/model"
)

//go:embed data/problems.json
var embeddedProblems []byte

// file is the on-disk catalog layout
type file struct {
	Problems []model.Question `json:"problems"`
}

// Service holds the problem catalog contests are drawn from
type Service struct {
	logger *slog.Logger

	mu       sync.RWMutex
	problems []model.Question
	loaded   bool
}

// New creates a new catalog Service
func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// LoadEmbedded loads the catalog bundled with the binary
func (s *Service) LoadEmbedded() error {
	return s.loadJSON(embeddedProblems, "embedded")
}

// LoadFromFile loads a catalog file in the same layout as the bundled one
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.loadJSON(data, path)
}

// LoadProblems directly loads problems (useful for testing)
func (s *Service) LoadProblems(problems []model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems = append([]model.Question(nil), problems...)
	s.loaded = true
}

func (s *Service) loadJSON(data []byte, source string) error {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", source, err)
	}
	s.LoadProblems(f.Problems)

	s.logger.Info("problem catalog loaded",
		slog.String("source", source),
		slog.Int("problem_count", len(f.Problems)),
	)
	return nil
}

// IsLoaded returns whether a catalog has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Count returns the number of problems in the catalog
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.problems)
}

// InRange returns problems with minRating <= internal_rating <= maxRating,
// in catalog order
func (s *Service) InRange(minRating, maxRating int) ([]model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, model.ErrCatalogNotLoaded
	}

	var out []model.Question
	for _, p := range s.problems {
		if p.InternalRating >= minRating && p.InternalRating <= maxRating {
			out = append(out, p)
		}
	}
	return out, nil
}

// Tags returns every tag used in the catalog, sorted
func (s *Service) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, p := range s.problems {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
