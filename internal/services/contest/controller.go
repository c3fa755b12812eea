package contest

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/circle-go/internal/dependencies/clock"
	"github.com/mcoot/circle-go/internal/dependencies/random"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/services/catalog"
	"github.com/mcoot/circle-go/internal/services/progression"
	"github.com/mcoot/circle-go/internal/storage"
)

// Problem selection window above the user's rating, and how far it widens
// when too few problems fall inside it
const (
	RatingWindow = 10
	RatingWiden  = 5
)

// fallbackTopic is credited when a solved question carries no topic or tags
const fallbackTopic = "general"

// Controller runs the server side of a user's contests: generation,
// mark-solved, completion scoring, abandon and history. Every operation on a
// user's data runs under that user's lock.
type Controller struct {
	storage     storage.Storage
	catalog     *catalog.Service
	progression *progression.Service
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	locks sync.Map // int64 -> *sync.Mutex
}

// NewController creates a new contest Controller
func NewController(
	storage storage.Storage,
	catalog *catalog.Service,
	progression *progression.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		catalog:     catalog,
		progression: progression,
		clock:       clock,
		random:      random,
		logger:      logger,
	}
}

// Generate creates a contest matched to the user's rating. A user may only
// hold one active contest.
func (c *Controller) Generate(ctx context.Context, userID int64) (*model.Contest, error) {
	defer c.lock(userID)()

	user, err := c.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := c.activeFor(ctx, user); err == nil {
		return nil, model.ErrContestAlreadyActive
	} else if !errors.Is(err, model.ErrNoActiveContest) {
		return nil, err
	}

	questions, err := c.selectQuestions(user.Rating)
	if err != nil {
		return nil, err
	}

	id, err := c.storage.NextContestID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	states := make(map[string]int, len(questions))
	for _, q := range questions {
		states[q.ID] = model.Unsolved
	}

	contest := &model.Contest{
		ID:             id,
		UserID:         user.ID,
		Title:          c.progression.ContestTitle(),
		Status:         model.ContestStatusActive,
		Questions:      questions,
		QuestionStates: states,
		TotalQuestions: len(questions),
		RatingBefore:   user.Rating,
		CreatedAt:      &now,
	}

	if err := c.storage.SaveContest(ctx, contest); err != nil {
		c.logger.Error("failed to save contest",
			slog.Int64("contest_id", int64(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	user.ActiveContestID = &id
	user.UpdatedAt = now
	if err := c.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	c.logger.Info("contest generated",
		slog.Int64("contest_id", int64(id)),
		slog.Int64("user_id", user.ID),
		slog.Int("rating", user.Rating),
		slog.Int("question_count", len(questions)),
	)

	return contest, nil
}

// Active returns the user's in-progress contest
func (c *Controller) Active(ctx context.Context, userID int64) (*model.Contest, error) {
	user, err := c.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.activeFor(ctx, user)
}

// MarkSolved flags a question of the active contest as solved and recounts
// the contest's solved total
func (c *Controller) MarkSolved(ctx context.Context, userID int64, questionID string) (*model.MarkSolvedResult, error) {
	defer c.lock(userID)()

	user, err := c.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	contest, err := c.activeFor(ctx, user)
	if err != nil {
		return nil, err
	}

	q := contest.Question(questionID)
	if q == nil {
		return nil, model.ErrQuestionNotFound
	}
	if contest.IsSolved(questionID) {
		return nil, model.ErrAlreadySolved
	}

	contest.QuestionStates[questionID] = model.Solved
	contest.SolvedCount = contest.CountSolved()

	topic := questionTopic(q)
	if user.TopicSolves == nil {
		user.TopicSolves = make(map[string]int)
	}
	user.TopicSolves[topic]++
	user.TotalQuestionsSolved++
	user.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveContest(ctx, contest); err != nil {
		return nil, err
	}
	if err := c.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	c.logger.Info("question solved",
		slog.Int64("contest_id", int64(contest.ID)),
		slog.String("question_id", questionID),
		slog.Int("solved_count", contest.SolvedCount),
	)

	return &model.MarkSolvedResult{
		QuestionID:     questionID,
		Solved:         true,
		SolvedCount:    contest.SolvedCount,
		TotalQuestions: contest.TotalQuestions,
		TagsUpdated:    []string{topic},
	}, nil
}

// Complete scores the active contest, updates the user's rating and reports
// the outcome, including any cosmetic awards for a full solve
func (c *Controller) Complete(ctx context.Context, userID int64) (*model.Result, error) {
	defer c.lock(userID)()

	user, err := c.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	contest, err := c.activeFor(ctx, user)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	levelBefore := c.progression.Level(user.Rating)
	solved, total := contest.SolvedCount, contest.TotalQuestions
	change := c.progression.RatingChange(solved, total)
	ratingAfter := contest.RatingBefore + change
	levelAfter := c.progression.Level(ratingAfter)

	contest.Status = model.ContestStatusCompleted
	contest.RatingAfter = &ratingAfter
	contest.CompletedAt = &now

	user.Rating = ratingAfter
	user.ActiveContestID = nil
	user.UpdatedAt = now

	if err := c.storage.SaveContest(ctx, contest); err != nil {
		return nil, err
	}
	if err := c.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	traits, title := c.progression.VictoryAwards(levelAfter, solved, total)

	c.logger.Info("contest completed",
		slog.Int64("contest_id", int64(contest.ID)),
		slog.Int64("user_id", user.ID),
		slog.Int("solved_count", solved),
		slog.Int("total_questions", total),
		slog.Int("rating_change", change),
	)

	after := ratingAfter
	return &model.Result{
		ContestID:      contest.ID,
		Status:         contest.Status,
		SolvedCount:    solved,
		TotalQuestions: total,
		RatingBefore:   contest.RatingBefore,
		RatingAfter:    &after,
		RatingChange:   change,
		LevelBefore:    levelBefore,
		LevelAfter:     levelAfter,
		NewTitle:       title,
		NewTraits:      traits,
	}, nil
}

// Abandon gives up the active contest without a rating change
func (c *Controller) Abandon(ctx context.Context, userID int64) (model.ContestID, error) {
	defer c.lock(userID)()

	user, err := c.storage.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	contest, err := c.activeFor(ctx, user)
	if err != nil {
		return 0, err
	}

	now := c.clock.Now()
	unchanged := contest.RatingBefore
	contest.Status = model.ContestStatusAbandoned
	contest.RatingAfter = &unchanged
	contest.CompletedAt = &now

	user.ActiveContestID = nil
	user.UpdatedAt = now

	if err := c.storage.SaveContest(ctx, contest); err != nil {
		return 0, err
	}
	if err := c.storage.SaveUser(ctx, user); err != nil {
		return 0, err
	}

	c.logger.Info("contest abandoned",
		slog.Int64("contest_id", int64(contest.ID)),
		slog.Int64("user_id", user.ID),
	)

	return contest.ID, nil
}

// History lists the user's finished contests, newest first
func (c *Controller) History(ctx context.Context, userID int64) (*model.History, error) {
	contests, err := c.storage.GetContestsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	h := &model.History{Contests: []model.Contest{}}
	for _, ct := range contests {
		if ct.Status != model.ContestStatusCompleted && ct.Status != model.ContestStatusAbandoned {
			continue
		}
		h.Contests = append(h.Contests, *ct)
		h.TotalSolved += ct.SolvedCount
		if ct.IsVictory() {
			h.SuccessfulContests++
		}
	}
	h.Total = len(h.Contests)
	return h, nil
}

// List returns all of the user's contests, newest first, the active one
// included
func (c *Controller) List(ctx context.Context, userID int64) (*model.ContestList, error) {
	contests, err := c.storage.GetContestsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &model.ContestList{Contests: make([]model.Contest, 0, len(contests))}
	for _, ct := range contests {
		list.Contests = append(list.Contests, *ct)
	}
	list.Total = len(list.Contests)
	return list, nil
}

// Get returns one of the user's contests. Other users' contests are reported
// as not found.
func (c *Controller) Get(ctx context.Context, userID int64, id model.ContestID) (*model.Contest, error) {
	contest, err := c.storage.GetContest(ctx, id)
	if err != nil {
		return nil, err
	}
	if contest.UserID != userID {
		return nil, model.ErrContestNotFound
	}
	return contest, nil
}

// Profile derives the user's Identity: level, title, topic stats and totals
func (c *Controller) Profile(ctx context.Context, userID int64) (*model.Identity, error) {
	user, err := c.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	contests, err := c.storage.GetContestsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	successful := 0
	for _, ct := range contests {
		if ct.IsVictory() {
			successful++
		}
	}

	stats := make(map[string]int, len(user.TopicSolves))
	for k, v := range user.TopicSolves {
		stats[k] = v
	}

	var active *model.ContestID
	if contest, err := c.activeFor(ctx, user); err == nil {
		id := contest.ID
		active = &id
	}

	level := c.progression.Level(user.Rating)
	return &model.Identity{
		UserID:               user.ID,
		Username:             user.Username,
		Rating:               user.Rating,
		Level:                level,
		Title:                c.progression.Title(level),
		Stats:                stats,
		Traits:               c.progression.ProfileTraits(user.TopicSolves),
		TotalQuestionsSolved: user.TotalQuestionsSolved,
		TotalContests:        len(contests),
		SuccessfulContests:   successful,
		ActiveContestID:      active,
	}, nil
}

// activeFor loads the contest the user points at, if it is still in progress
func (c *Controller) activeFor(ctx context.Context, user *model.User) (*model.Contest, error) {
	if user.ActiveContestID == nil {
		return nil, model.ErrNoActiveContest
	}
	contest, err := c.storage.GetContest(ctx, *user.ActiveContestID)
	if err != nil {
		if errors.Is(err, model.ErrContestNotFound) {
			return nil, model.ErrNoActiveContest
		}
		return nil, err
	}
	if !contest.InProgress() {
		return nil, model.ErrNoActiveContest
	}
	return contest, nil
}

// selectQuestions draws up to DefaultQuestionCount problems rated within
// [rating, rating+RatingWindow], widening by RatingWiden on both sides when
// the window is too sparse
func (c *Controller) selectQuestions(rating int) ([]model.Question, error) {
	eligible, err := c.catalog.InRange(rating, rating+RatingWindow)
	if err != nil {
		return nil, err
	}
	if len(eligible) < model.DefaultQuestionCount {
		eligible, err = c.catalog.InRange(max(1, rating-RatingWiden), rating+RatingWindow+RatingWiden)
		if err != nil {
			return nil, err
		}
	}
	if len(eligible) == 0 {
		return nil, model.ErrNoEligibleProblems
	}

	picked := c.random.Sample(len(eligible), model.DefaultQuestionCount)
	questions := make([]model.Question, 0, len(picked))
	for _, i := range picked {
		q := eligible[i]
		q.Tags = append([]string(nil), q.Tags...)
		questions = append(questions, q)
	}
	return questions, nil
}

func (c *Controller) lock(userID int64) func() {
	v, _ := c.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func questionTopic(q *model.Question) string {
	if q.Topic != "" {
		return q.Topic
	}
	if len(q.Tags) > 0 {
		return q.Tags[0]
	}
	return fallbackTopic
}
