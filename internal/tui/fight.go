package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcoot/circle-go/internal/contest"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/result"
	"github.com/mcoot/circle-go/internal/route"
	"github.com/mcoot/circle-go/internal/session"
)

// Messages delivered to the fight model
type (
	tickMsg     struct{ count int }
	notifyMsg   struct{ message string }
	navigateMsg struct {
		to      route.Route
		payload any
	}
	identityMsg struct{ identity *model.Identity }
	loadedMsg   struct{ err error }
	actionMsg   struct {
		action string
		err    error
	}
)

// Bridge carries controller callbacks into the bubbletea event loop. It is
// the Navigator and Notifier handed to the contest controller.
type Bridge struct {
	events chan tea.Msg
}

// NewBridge creates a Bridge
func NewBridge() *Bridge {
	return &Bridge{events: make(chan tea.Msg, 32)}
}

// Navigate implements route.Navigator
func (b *Bridge) Navigate(to route.Route, payload any) {
	b.send(navigateMsg{to: to, payload: payload})
}

// Notify implements contest.Notifier
func (b *Bridge) Notify(message string) {
	b.send(notifyMsg{message: message})
}

// Tick forwards an elapsed-time tick so the view re-renders
func (b *Bridge) Tick(count int) {
	b.send(tickMsg{count: count})
}

// Identity forwards an identity change from the session store
func (b *Bridge) Identity(identity *model.Identity) {
	b.send(identityMsg{identity: identity})
}

// IdentitySource is the session state the fight screen shows in its header
type IdentitySource interface {
	Identity() *model.Identity
	Subscribe(fn session.Listener) func()
}

// Watch feeds the current identity and every later change into the screen.
// The returned function stops watching.
func (b *Bridge) Watch(src IdentitySource) func() {
	b.Identity(src.Identity())
	return src.Subscribe(b.Identity)
}

// send never blocks: a closed-down program must not wedge the controller
func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.events <- msg:
	default:
	}
}

func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		return <-b.events
	}
}

// Outcome is how the fight screen was left
type Outcome struct {
	// Route is where the controller navigated, or "" if the user quit
	Route route.Route
	// Summary is set when the contest was completed
	Summary *result.Summary
}

// FightModel is the interactive contest screen
type FightModel struct {
	ctx    context.Context
	ctrl   *contest.Controller
	bridge *Bridge

	identity   *model.Identity
	cursor     int
	pendingID  string
	notice     string
	confirming bool

	outcome  Outcome
	quitting bool
}

// NewFightModel creates the fight screen for a controller that reports to
// bridge
func NewFightModel(ctx context.Context, ctrl *contest.Controller, bridge *Bridge) FightModel {
	ctrl.Tracker().OnTick(bridge.Tick)
	return FightModel{
		ctx:    ctx,
		ctrl:   ctrl,
		bridge: bridge,
	}
}

// Init loads the active contest and starts listening for controller events
func (m FightModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.bridge.wait())
}

// Update handles keys and controller events
func (m FightModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, m.bridge.wait()

	case identityMsg:
		m.identity = msg.identity
		return m, m.bridge.wait()

	case notifyMsg:
		m.notice = msg.message
		return m, m.bridge.wait()

	case navigateMsg:
		return m.handleNavigate(msg)

	case loadedMsg:
		return m, nil

	case actionMsg:
		if msg.action == "mark" {
			m.pendingID = ""
		}
		return m, nil
	}

	return m, nil
}

func (m FightModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// The error modal blocks everything until dismissed
	if m.notice != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.notice = ""
		}
		return m, nil
	}

	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			m.confirming = false
			return m, m.abandon()
		case "n", "N", "esc":
			m.confirming = false
		}
		return m, nil
	}

	if m.outcome.Summary != nil {
		return m.quit()
	}

	questions := m.questions()

	switch msg.String() {
	case "q", "esc":
		return m.quit()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(questions)-1 {
			m.cursor++
		}

	case "enter", " ":
		if m.cursor < len(questions) {
			return m.markSolved(questions[m.cursor].ID)
		}

	case "c":
		return m, m.complete()

	case "x":
		if m.ctrl.State() == contest.StateActive {
			m.confirming = true
		}
	}

	return m, nil
}

func (m FightModel) handleNavigate(msg navigateMsg) (tea.Model, tea.Cmd) {
	switch msg.to {
	case route.Result:
		res, ok := result.FromPayload(msg.payload)
		if !ok {
			m.outcome.Route = route.Levels
			return m.quit()
		}
		summary := result.Project(res)
		m.outcome.Route = route.Result
		m.outcome.Summary = &summary
		return m, m.bridge.wait()
	case route.Fight:
		return m, m.bridge.wait()
	default:
		m.outcome.Route = msg.to
		return m.quit()
	}
}

func (m FightModel) markSolved(questionID string) (tea.Model, tea.Cmd) {
	c := m.ctrl.Contest()
	if c == nil || c.IsSolved(questionID) {
		return m, nil
	}
	if m.ctrl.MarkingID() == "" {
		m.pendingID = questionID
	}
	ctrl, ctx := m.ctrl, m.ctx
	return m, func() tea.Msg {
		return actionMsg{action: "mark", err: ctrl.MarkSolved(ctx, questionID)}
	}
}

func (m FightModel) complete() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return actionMsg{action: "complete", err: ctrl.Complete(ctx)}
	}
}

// abandon runs after the user accepted the in-screen confirmation
func (m FightModel) abandon() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return actionMsg{action: "abandon", err: ctrl.Abandon(ctx, contest.Confirmed)}
	}
}

func (m FightModel) load() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func (m FightModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctrl.Close()
	return m, tea.Quit
}

func (m FightModel) questions() []model.Question {
	if c := m.ctrl.Contest(); c != nil {
		return c.Questions
	}
	return nil
}

// View renders the screen
func (m FightModel) View() string {
	if m.quitting {
		return ""
	}

	if m.outcome.Summary != nil {
		return m.header() + RenderResult(*m.outcome.Summary) + "\n\n" + subtleStyle.Render("press any key to exit") + "\n"
	}

	v := m.ctrl.Snapshot()
	if v.State == contest.StateLoading || (v.State == contest.StateAbsent && v.Contest == nil) {
		return subtleStyle.Render("Loading contest...") + "\n"
	}
	if v.MarkingID == "" {
		v.MarkingID = m.pendingID
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString(RenderContest(v, m.cursor))
	b.WriteString("\n")

	switch {
	case m.notice != "":
		b.WriteString(modalStyle.Render(m.notice + "\n\n" + subtleStyle.Render("enter to dismiss")))
	case m.confirming:
		b.WriteString(confirmStyle.Render(contest.AbandonPrompt + "\n\n" + subtleStyle.Render("y / n")))
	case v.State == contest.StateCompleting:
		b.WriteString(pendingStyle.Render("Completing contest..."))
	case v.State == contest.StateAbandoning:
		b.WriteString(pendingStyle.Render("Abandoning contest..."))
	default:
		b.WriteString(renderHelp())
	}
	b.WriteString("\n")

	return b.String()
}

// header is the signed-in user's standing, or nothing before the first
// identity arrives
func (m FightModel) header() string {
	if m.identity == nil {
		return ""
	}
	return RenderIdentityLine(m.identity) + "\n\n"
}

// Outcome reports how the screen was left
func (m FightModel) Outcome() Outcome {
	return m.outcome
}

// RunFight runs the fight screen until the user leaves it
func RunFight(ctx context.Context, ctrl *contest.Controller, bridge *Bridge, opts ...tea.ProgramOption) (Outcome, error) {
	final, err := tea.NewProgram(NewFightModel(ctx, ctrl, bridge), opts...).Run()
	ctrl.Close()
	if err != nil {
		return Outcome{}, err
	}
	if fm, ok := final.(FightModel); ok {
		return fm.Outcome(), nil
	}
	return Outcome{}, nil
}
