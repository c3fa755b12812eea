package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/circle-go/internal/contest"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/result"
	"github.com/mcoot/circle-go/internal/tui"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// JSON reports whether output is machine-readable
func (o *Output) JSON() bool {
	return o.format == "json"
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.JSON() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.JSON() {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	} else {
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.JSON() {
		data, _ := json.Marshal(MessageResult{Message: msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Identity:
		o.printIdentity(v)
	case *model.Contest:
		o.printContest(v)
	case *model.History:
		o.printHistory(v.Contests)
	case *model.ContestList:
		o.printContestList(v.Contests)
	case *contest.Dashboard:
		o.printDashboard(v)
	case CompleteResult:
		fmt.Fprintln(o.w, tui.RenderResult(v.Summary))
	case MessageResult:
		fmt.Fprintln(o.w, v.Message)
	case LandingResult:
		fmt.Fprintf(o.w, "%s\n\n", v.Message)
		o.printDashboard(v.Dashboard)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s (%s)\n", v.Status, v.Server)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CompleteResult is printed after a contest is completed
type CompleteResult struct {
	Result  model.Result   `json:"result"`
	Summary result.Summary `json:"-"`
}

// MessageResult is a plain acknowledgement
type MessageResult struct {
	Message string `json:"message"`
}

// LandingResult is printed when a signed-in user asks to sign in again
type LandingResult struct {
	Message   string             `json:"message"`
	Dashboard *contest.Dashboard `json:"dashboard"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Server string `json:"server"`
}

func (o *Output) printIdentity(i *model.Identity) {
	if i == nil {
		fmt.Fprintln(o.w, "Not logged in")
		return
	}
	fmt.Fprintf(o.w, "User: %s\n", i.Username)
	fmt.Fprintf(o.w, "Level: %d (%s)\n", i.Level, i.Title)
	fmt.Fprintf(o.w, "Rating: %d\n", i.Rating)
	fmt.Fprintf(o.w, "Solved: %d\n", i.TotalQuestionsSolved)
	if len(i.Traits) > 0 {
		fmt.Fprintf(o.w, "Traits: %s\n", strings.Join(i.Traits, ", "))
	}
	if i.ActiveContestID != nil {
		fmt.Fprintf(o.w, "Active contest: #%d\n", *i.ActiveContestID)
	}
}

func (o *Output) printContest(c *model.Contest) {
	fmt.Fprintf(o.w, "Contest #%d: %s\n", c.ID, c.Title)
	fmt.Fprintf(o.w, "Status: %s\n", c.Status)
	fmt.Fprintf(o.w, "Progress: %d/%d (%.0f%%)\n", c.SolvedCount, c.Total(), c.Progress())
	if c.RatingAfter != nil {
		fmt.Fprintf(o.w, "Rating: %d -> %d\n", c.RatingBefore, *c.RatingAfter)
	} else {
		fmt.Fprintf(o.w, "Rating: %d\n", c.RatingBefore)
	}

	fmt.Fprintln(o.w, "\nProblems:")
	for i, q := range c.Questions {
		mark := " "
		if c.IsSolved(q.ID) {
			mark = "x"
		}
		fmt.Fprintf(o.w, "  %s [%s] %s (%s, rating %d)\n", model.QuestionLabel(i), mark, q.Name, q.ID, q.InternalRating)
		if q.URL != "" {
			fmt.Fprintf(o.w, "        %s\n", q.URL)
		}
	}
}

func (o *Output) printContestList(contests []model.Contest) {
	if len(contests) == 0 {
		fmt.Fprintln(o.w, "No contests yet")
		return
	}
	for _, c := range contests {
		fmt.Fprintf(o.w, "  #%-4d %-32s %-9s %d/%d\n",
			c.ID, c.Title, c.Status, c.SolvedCount, c.Total())
	}
}

func (o *Output) printHistory(contests []model.Contest) {
	if len(contests) == 0 {
		fmt.Fprintln(o.w, "No finished contests yet")
		return
	}
	for _, c := range contests {
		verdict := c.Status
		if c.IsVictory() {
			verdict = "victory"
		}
		delta := 0
		if c.RatingAfter != nil {
			delta = *c.RatingAfter - c.RatingBefore
		}
		fmt.Fprintf(o.w, "  #%-4d %-32s %-9s %d/%d  %+d\n",
			c.ID, c.Title, verdict, c.SolvedCount, c.Total(), delta)
	}
}

func (o *Output) printDashboard(d *contest.Dashboard) {
	o.printIdentity(d.Identity)
	fmt.Fprintf(o.w, "\nContests: %d  Victories: %d  Solved: %d  Traits: %d\n",
		d.Contests, d.Victories, d.Solved, d.Traits)
	if len(d.History) > 0 {
		fmt.Fprintln(o.w, "\nHistory:")
		o.printHistory(d.History)
	}
}
