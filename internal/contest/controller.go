// Package contest owns the lifecycle of the user's single active contest.
package contest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/mcoot/circle-go/internal/apiclient"
	"github.com/mcoot/circle-go/internal/dependencies/clock"
	"github.com/mcoot/circle-go/internal/elapsed"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/route"
)

// API is the slice of the service API the contest view needs
type API interface {
	ActiveContest(ctx context.Context) (*model.Contest, error)
	MarkSolved(ctx context.Context, questionID string) (*model.MarkSolvedResult, error)
	CompleteContest(ctx context.Context) (*model.Result, error)
	AbandonContest(ctx context.Context) error
}

// Config holds the controller's collaborators
type Config struct {
	API       API
	Identity  IdentityRefresher
	Navigator route.Navigator
	Notifier  Notifier
	Clock     clock.Clock
	Logger    *slog.Logger
}

// View is a consistent snapshot for rendering
type View struct {
	State State
	// Contest is a copy; nil unless the state holds a contest
	Contest *model.Contest
	// MarkingID is the question whose mark-solved request is in flight
	MarkingID string
	Elapsed   int
}

// Controller drives one contest view: load, mark solved, complete, abandon.
// The server is authoritative; local state only changes after it answers.
type Controller struct {
	api      API
	identity IdentityRefresher
	nav      route.Navigator
	notifier Notifier
	logger   *slog.Logger
	tracker  *elapsed.Tracker

	// Weight-1 lock shared by every mark-solved call, whatever the question.
	markLock *semaphore.Weighted

	viewCtx    context.Context
	cancelView context.CancelFunc

	mu        sync.Mutex
	state     State
	contest   *model.Contest
	markingID string
	closed    bool
}

// NewController creates a controller for a freshly mounted contest view
func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	viewCtx, cancel := context.WithCancel(context.Background())

	return &Controller{
		api:        cfg.API,
		identity:   cfg.Identity,
		nav:        cfg.Navigator,
		notifier:   cfg.Notifier,
		logger:     logger,
		tracker:    elapsed.New(clk),
		markLock:   semaphore.NewWeighted(1),
		viewCtx:    viewCtx,
		cancelView: cancel,
		state:      StateAbsent,
	}
}

// Load fetches the active contest. When there is none, or the fetch fails
// for any reason, the controller holds nothing and navigates to the
// selection screen; ErrNoActiveContest is returned in that case.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrClosed
	}
	if c.state.HoldsContest() || c.state == StateLoading {
		c.mu.Unlock()
		return nil
	}
	c.state = StateLoading
	c.mu.Unlock()

	ctx, done := c.scoped(ctx)
	defer done()

	contest, err := c.api.ActiveContest(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrClosed
	}
	if err != nil || contest == nil || !contest.InProgress() {
		c.state = StateAbsent
		c.contest = nil
		c.mu.Unlock()

		if err != nil && !errors.Is(err, model.ErrNoActiveContest) {
			c.logger.Warn("failed to load active contest",
				slog.String("error", err.Error()),
			)
		}
		c.nav.Navigate(route.Levels, nil)
		return model.ErrNoActiveContest
	}

	held := contest.Clone()
	if held.QuestionStates == nil {
		held.QuestionStates = make(map[string]int)
	}
	c.contest = held
	c.state = StateActive
	c.tracker.Start()
	c.mu.Unlock()

	c.logger.Info("contest loaded",
		slog.Int64("contest_id", int64(held.ID)),
		slog.Int("question_count", len(held.Questions)),
		slog.Int("solved_count", held.SolvedCount),
	)
	return nil
}

// MarkSolved asks the server to mark a question solved. Only one mark-solved
// request may be in flight; overlapping calls return ErrMarkInFlight without
// sending anything. On success the question is flagged solved and the solved
// count becomes the server's count. On failure nothing changes.
func (c *Controller) MarkSolved(ctx context.Context, questionID string) error {
	if !c.markLock.TryAcquire(1) {
		return model.ErrMarkInFlight
	}
	defer c.markLock.Release(1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrClosed
	}
	if c.state != StateActive {
		c.mu.Unlock()
		return model.ErrNotActive
	}
	c.markingID = questionID
	c.mu.Unlock()

	ctx, done := c.scoped(ctx)
	defer done()

	res, err := c.api.MarkSolved(ctx, questionID)

	c.mu.Lock()
	c.markingID = ""
	if c.closed {
		c.mu.Unlock()
		return model.ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("mark solved failed",
			slog.String("question_id", questionID),
			slog.String("error", err.Error()),
		)
		c.notifier.Notify(apiclient.Detail(err, MarkSolvedFailed))
		return err
	}
	if c.contest != nil {
		c.contest.QuestionStates[questionID] = model.Solved
		c.contest.SolvedCount = res.SolvedCount
	}
	c.mu.Unlock()

	c.logger.Info("question solved",
		slog.String("question_id", questionID),
		slog.Int("solved_count", res.SolvedCount),
	)
	return nil
}

// Complete finishes the contest. On success the identity is refreshed and
// the view navigates to the result screen with the Result as payload; the
// controller keeps no copy. On failure the contest stays active.
func (c *Controller) Complete(ctx context.Context) error {
	if err := c.begin(StateCompleting); err != nil {
		return err
	}

	ctx, done := c.scoped(ctx)
	defer done()

	res, err := c.api.CompleteContest(ctx)
	if c.isClosed() {
		return model.ErrClosed
	}
	if err != nil {
		c.revert()
		c.logger.Warn("complete contest failed", slog.String("error", err.Error()))
		c.notifier.Notify(apiclient.Detail(err, CompleteFailed))
		return err
	}

	c.identity.Refresh(ctx)
	id := c.finish()

	c.logger.Info("contest completed",
		slog.Int64("contest_id", int64(id)),
		slog.Int("solved_count", res.SolvedCount),
		slog.Int("total_questions", res.TotalQuestions),
	)
	c.nav.Navigate(route.Result, *res)
	return nil
}

// Abandon gives up the contest after confirm approves AbandonPrompt. Without
// approval nothing is sent and ErrNotConfirmed is returned. On success the
// identity is refreshed and the view returns to the selection screen.
func (c *Controller) Abandon(ctx context.Context, confirm ConfirmFunc) error {
	if st := c.State(); st != StateActive {
		return model.ErrNotActive
	}
	if confirm == nil || !confirm(AbandonPrompt) {
		return model.ErrNotConfirmed
	}
	if err := c.begin(StateAbandoning); err != nil {
		return err
	}

	ctx, done := c.scoped(ctx)
	defer done()

	err := c.api.AbandonContest(ctx)
	if c.isClosed() {
		return model.ErrClosed
	}
	if err != nil {
		c.revert()
		c.logger.Warn("abandon contest failed", slog.String("error", err.Error()))
		c.notifier.Notify(apiclient.Detail(err, AbandonFailed))
		return err
	}

	c.identity.Refresh(ctx)
	id := c.finish()

	c.logger.Info("contest abandoned", slog.Int64("contest_id", int64(id)))
	c.nav.Navigate(route.Levels, nil)
	return nil
}

// Close tears the view down: the tracker stops and results of in-flight
// requests are ignored. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancelView()
	c.tracker.Stop()
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Contest returns a copy of the held contest, or nil
func (c *Controller) Contest() *model.Contest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contest.Clone()
}

// MarkingID returns the question with a mark-solved request in flight, or ""
func (c *Controller) MarkingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markingID
}

// Elapsed returns the seconds counted since the contest became active
func (c *Controller) Elapsed() int {
	return c.tracker.Elapsed()
}

// Tracker exposes the elapsed-time tracker so views can observe ticks
func (c *Controller) Tracker() *elapsed.Tracker {
	return c.tracker
}

// Snapshot returns everything a view renders, read together
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		State:     c.state,
		Contest:   c.contest.Clone(),
		MarkingID: c.markingID,
		Elapsed:   c.tracker.Elapsed(),
	}
}

// begin moves active → next, rejecting the call from any other state
func (c *Controller) begin(next State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return model.ErrClosed
	}
	switch c.state {
	case StateActive:
		c.state = next
		return nil
	case StateCompleting, StateAbandoning:
		return model.ErrBusy
	default:
		return model.ErrNotActive
	}
}

// revert returns to active after a failed terminal action
func (c *Controller) revert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.HoldsContest() {
		c.state = StateActive
	}
}

// finish moves to terminal and releases the contest
func (c *Controller) finish() model.ContestID {
	c.tracker.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	var id model.ContestID
	if c.contest != nil {
		id = c.contest.ID
	}
	c.state = StateTerminal
	c.contest = nil
	return id
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// scoped derives a request context that is also cancelled when the view closes
func (c *Controller) scoped(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.viewCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
