// Package tui renders the contest screens in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/mcoot/circle-go/internal/contest"
	"github.com/mcoot/circle-go/internal/elapsed"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/result"
)

// RenderResult draws the result screen for a completed contest
func RenderResult(s result.Summary) string {
	var b strings.Builder

	headline := defeatStyle.Render(s.Headline())
	if s.Victory {
		headline = victoryStyle.Render(s.Headline())
	}
	b.WriteString(headline)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Solved:  %d/%d\n", s.SolvedCount, s.TotalQuestions)
	fmt.Fprintf(&b, "Rating:  %d -> %d (%s)\n", s.RatingBefore, s.RatingAfter, signed(s.RatingDelta))
	fmt.Fprintf(&b, "Level:   %d -> %d", s.LevelBefore, s.LevelAfter)
	if s.LeveledUp() {
		b.WriteString(" " + gainStyle.Render("LEVEL UP"))
	}
	b.WriteString("\n")

	if s.TitleChanged {
		fmt.Fprintf(&b, "Title:   %s\n", titleStyle.Render(s.NewTitle))
	}
	if s.TraitsChanged {
		fmt.Fprintf(&b, "Traits:  %s\n", strings.Join(s.NewTraits, ", "))
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderIdentityLine is the one-line standing shown above the contest
func RenderIdentityLine(i *model.Identity) string {
	return titleStyle.Render(i.Username) + subtleStyle.Render(
		fmt.Sprintf("  %s  |  Level %d  |  Rating %d", i.Title, i.Level, i.Rating))
}

func signed(n int) string {
	switch {
	case n > 0:
		return gainStyle.Render(fmt.Sprintf("+%d", n))
	case n < 0:
		return lossStyle.Render(fmt.Sprintf("%d", n))
	default:
		return subtleStyle.Render("±0")
	}
}

// RenderContest draws the active contest with the cursor on one question
func RenderContest(v contest.View, cursor int) string {
	c := v.Contest
	if c == nil {
		return subtleStyle.Render("No contest loaded")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title))
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("#%d  %s", c.ID, v.State)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Progress %d/%d (%.0f%%)   Elapsed %s\n\n",
		c.SolvedCount, c.Total(), c.Progress(), elapsed.Format(v.Elapsed))

	for i, q := range c.Questions {
		pointer := "  "
		if i == cursor {
			pointer = cursorStyle.Render("> ")
		}
		b.WriteString(pointer)
		b.WriteString(questionMarker(c, q.ID, v.MarkingID))
		fmt.Fprintf(&b, " Problem %s  %s", model.QuestionLabel(i), q.Name)
		b.WriteString(subtleStyle.Render(fmt.Sprintf("  [%d] %s", q.InternalRating, strings.Join(q.Tags, ", "))))
		b.WriteString("\n")
		if i == cursor && q.URL != "" {
			b.WriteString("     " + subtleStyle.Render(q.URL) + "\n")
		}
	}

	return b.String()
}

// questionMarker shows solved, marking-in-progress or unsolved
func questionMarker(c *model.Contest, questionID, markingID string) string {
	switch {
	case c.IsSolved(questionID):
		return solvedStyle.Render("[x]")
	case questionID == markingID:
		return pendingStyle.Render("[~]")
	default:
		return "[ ]"
	}
}

func renderHelp() string {
	keys := []struct{ key, desc string }{
		{"↑/↓", "select"},
		{"enter", "mark solved"},
		{"c", "complete"},
		{"x", "abandon"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+helpDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}
