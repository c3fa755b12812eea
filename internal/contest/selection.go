package contest

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mcoot/circle-go/internal/apiclient"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/route"
)

// SelectionAPI is the slice of the service API the selection screen needs
type SelectionAPI interface {
	ActiveContest(ctx context.Context) (*model.Contest, error)
	GenerateContest(ctx context.Context) (*model.Contest, error)
	History(ctx context.Context) (*model.History, error)
}

// IdentitySource refreshes and reads the shared identity
type IdentitySource interface {
	IdentityRefresher
	Identity() *model.Identity
}

// SelectionConfig holds the selection screen's collaborators
type SelectionConfig struct {
	API       SelectionAPI
	Identity  IdentitySource
	Navigator route.Navigator
	Notifier  Notifier
	Logger    *slog.Logger
}

// Selection drives the contest selection screen
type Selection struct {
	api      SelectionAPI
	identity IdentitySource
	nav      route.Navigator
	notifier Notifier
	logger   *slog.Logger

	generating *semaphore.Weighted
}

// NewSelection creates a Selection
func NewSelection(cfg SelectionConfig) *Selection {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Selection{
		api:        cfg.API,
		identity:   cfg.Identity,
		nav:        cfg.Navigator,
		notifier:   cfg.Notifier,
		logger:     logger,
		generating: semaphore.NewWeighted(1),
	}
}

// GenerateOrResume enters the user's contest. An existing active contest is
// resumed without generating; only when there is none is a new one generated,
// followed by an identity refresh. Checking first keeps a stale selection
// screen from creating a second contest.
func (s *Selection) GenerateOrResume(ctx context.Context) error {
	if !s.generating.TryAcquire(1) {
		return model.ErrBusy
	}
	defer s.generating.Release(1)

	active, err := s.api.ActiveContest(ctx)
	if err == nil && active != nil && active.InProgress() {
		s.logger.Info("resuming active contest", slog.Int64("contest_id", int64(active.ID)))
		s.nav.Navigate(route.Fight, nil)
		return nil
	}

	generated, err := s.api.GenerateContest(ctx)
	if err != nil {
		s.logger.Warn("generate contest failed", slog.String("error", err.Error()))
		s.notifier.Notify(apiclient.Detail(err, GenerateFailed))
		return err
	}

	s.identity.Refresh(ctx)

	s.logger.Info("contest generated",
		slog.Int64("contest_id", int64(generated.ID)),
		slog.Int("question_count", len(generated.Questions)),
	)
	s.nav.Navigate(route.Fight, nil)
	return nil
}

// Dashboard is what the selection screen shows
type Dashboard struct {
	Identity  *model.Identity `json:"identity"`
	History   []model.Contest `json:"history"`
	Contests  int             `json:"contests"`
	Victories int             `json:"victories"`
	Solved    int             `json:"solved"`
	Traits    int             `json:"traits"`
}

// Dashboard refreshes the identity and loads history concurrently. A history
// failure is logged and shown as an empty history.
func (s *Selection) Dashboard(ctx context.Context) (*Dashboard, error) {
	var history *model.History

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.identity.Refresh(gctx)
		return nil
	})
	g.Go(func() error {
		h, err := s.api.History(gctx)
		if err != nil {
			s.logger.Warn("failed to load history", slog.String("error", err.Error()))
			return nil
		}
		history = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{Identity: s.identity.Identity()}
	if history != nil {
		d.History = history.Contests
		d.Contests = len(history.Contests)
		d.Victories = history.Victories()
	}
	if d.Identity != nil {
		d.Solved = d.Identity.TotalQuestionsSolved
		d.Traits = len(d.Identity.Traits)
	}
	return d, nil
}
