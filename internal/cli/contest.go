package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/circle-go/internal/contest"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/result"
	"github.com/mcoot/circle-go/internal/route"
	"github.com/mcoot/circle-go/internal/tui"
)

// errNoContest is shown when a contest command finds nothing to act on
var errNoContest = errors.New("no active contest; run `circle fight` to start one")

func (a *app) newController(nav route.Navigator, notifier contest.Notifier) *contest.Controller {
	return contest.NewController(contest.Config{
		API:       a.client,
		Identity:  a.store,
		Navigator: nav,
		Notifier:  notifier,
		Logger:    a.logger,
	})
}

func (a *app) newSelection(nav route.Navigator, notifier contest.Notifier) *contest.Selection {
	return contest.NewSelection(contest.SelectionConfig{
		API:       a.client,
		Identity:  a.store,
		Navigator: nav,
		Notifier:  notifier,
		Logger:    a.logger,
	})
}

// loadContest mounts a controller on the active contest
func (a *app) loadContest(cmd *cobra.Command, nav *route.Recorder, notices *noticeBox) (*contest.Controller, error) {
	ctrl := a.newController(nav, notices)
	if err := ctrl.Load(cmd.Context()); err != nil {
		ctrl.Close()
		if errors.Is(err, model.ErrNoActiveContest) {
			return nil, errNoContest
		}
		return nil, err
	}
	return ctrl, nil
}

func newLevelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "levels",
		Short:       "Show your level, stats and contest history",
		Annotations: onScreen(route.Levels),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := a.newSelection(&route.Recorder{}, &noticeBox{})
			dash, err := sel.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			a.out.Print(dash)
			return nil
		},
	}
}

func newFightCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "fight",
		Short:       "Resume the active contest or generate a new one",
		Annotations: onScreen(route.Fight),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := &route.Recorder{}
			notices := &noticeBox{}

			if err := a.newSelection(nav, notices).GenerateOrResume(cmd.Context()); err != nil {
				return notices.err(err)
			}

			ctrl, err := a.loadContest(cmd, nav, notices)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			a.out.Print(ctrl.Contest())
			return nil
		},
	}
}

func newContestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contest",
		Short: "Act on the active contest",
	}

	cmd.AddCommand(newContestShowCmd(a))
	cmd.AddCommand(newContestGetCmd(a))
	cmd.AddCommand(newContestListCmd(a))
	cmd.AddCommand(newContestSolveCmd(a))
	cmd.AddCommand(newContestCompleteCmd(a))
	cmd.AddCommand(newContestAbandonCmd(a))

	return cmd
}

func newContestShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the active contest",
		Annotations: onScreen(route.Fight),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.loadContest(cmd, &route.Recorder{}, &noticeBox{})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			a.out.Print(ctrl.Contest())
			return nil
		},
	}
}

func newContestGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "get <id>",
		Short:       "Show any of your contests by ID",
		Args:        cobra.ExactArgs(1),
		Annotations: onScreen(route.Fight),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid contest ID %q", args[0])
			}

			c, err := a.client.Contest(cmd.Context(), model.ContestID(id))
			if err != nil {
				return err
			}

			a.out.Print(c)
			return nil
		},
	}
}

func newContestListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List all of your contests, active one included",
		Annotations: onScreen(route.Levels),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.client.Contests(cmd.Context())
			if err != nil {
				return err
			}

			a.out.Print(list)
			return nil
		},
	}
}

// resolveQuestion accepts a problem label (A, B, ...) or a question ID
func resolveQuestion(c *model.Contest, arg string) (string, error) {
	if q := c.Question(arg); q != nil {
		return q.ID, nil
	}
	if len(arg) == 1 {
		idx := int(strings.ToUpper(arg)[0] - 'A')
		if idx >= 0 && idx < len(c.Questions) {
			return c.Questions[idx].ID, nil
		}
	}
	return "", fmt.Errorf("unknown problem %q", arg)
}

func newContestSolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "solve <problem>",
		Short:       "Mark a problem solved by label (A-D) or question ID",
		Args:        cobra.ExactArgs(1),
		Annotations: onScreen(route.Fight),
		RunE: func(cmd *cobra.Command, args []string) error {
			notices := &noticeBox{}
			ctrl, err := a.loadContest(cmd, &route.Recorder{}, notices)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			questionID, err := resolveQuestion(ctrl.Contest(), args[0])
			if err != nil {
				return err
			}

			if err := ctrl.MarkSolved(cmd.Context(), questionID); err != nil {
				return notices.err(err)
			}

			a.out.Print(ctrl.Contest())
			return nil
		},
	}
}

func newContestCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "complete",
		Short:       "Finish the active contest and collect the result",
		Annotations: onScreen(route.Fight),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := &route.Recorder{}
			notices := &noticeBox{}
			ctrl, err := a.loadContest(cmd, nav, notices)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := ctrl.Complete(cmd.Context()); err != nil {
				return notices.err(err)
			}

			visit, _ := nav.Last()
			res, ok := result.FromPayload(visit.Payload)
			if visit.To != route.Result || !ok {
				return errors.New("contest completed but no result was returned")
			}

			a.out.Print(CompleteResult{Result: res, Summary: result.Project(res)})
			return nil
		},
	}
}

func newContestAbandonCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "abandon",
		Short:       "Give up the active contest",
		Annotations: onScreen(route.Fight),
		RunE: func(cmd *cobra.Command, args []string) error {
			notices := &noticeBox{}
			ctrl, err := a.loadContest(cmd, &route.Recorder{}, notices)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			confirm := contest.Confirmed
			var promptErr error
			if !yes {
				confirm = confirmFunc(a.confirm, &promptErr)
			}

			err = ctrl.Abandon(cmd.Context(), confirm)
			switch {
			case promptErr != nil:
				return promptErr
			case errors.Is(err, model.ErrNotConfirmed):
				a.out.PrintMessage("Abandon cancelled")
				return nil
			case err != nil:
				return notices.err(err)
			}

			a.out.PrintMessage("Contest abandoned")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "play",
		Short:       "Open the interactive contest view",
		Annotations: onScreen(route.Fight),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge := tui.NewBridge()
			ctrl := a.newController(bridge, bridge)
			unwatch := bridge.Watch(a.store)
			defer unwatch()

			outcome, err := tui.RunFight(cmd.Context(), ctrl, bridge)
			if err != nil {
				return err
			}

			if outcome.Route == route.Levels && ctrl.State() == contest.StateAbsent {
				a.out.PrintMessage("No contest in progress. Run `circle fight` to start one.")
			}
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "history",
		Short:       "List your finished contests",
		Annotations: onScreen(route.Levels),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := a.client.History(cmd.Context())
			if err != nil {
				return err
			}

			a.out.Print(history)
			return nil
		},
	}
}
