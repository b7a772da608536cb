package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizterm/internal/ui/theme"
)

// TimerBar displays the remaining fraction of the countdown as a
// horizontal bar that drains left to right.
type TimerBar struct {
	Remaining int
	Total     int
	Width     int
}

// NewTimerBar creates a timer bar.
func NewTimerBar(remaining, total, width int) TimerBar {
	return TimerBar{Remaining: remaining, Total: total, Width: width}
}

// View renders the bar. The fill turns amber under a minute remaining.
func (t TimerBar) View() string {
	barWidth := t.Width
	if barWidth < 4 {
		barWidth = 4
	}

	frac := 0.0
	if t.Total > 0 {
		frac = float64(t.Remaining) / float64(t.Total)
	}

	filled := int(float64(barWidth) * frac)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	fillColor := theme.Secondary
	if t.Remaining <= 60 {
		fillColor = theme.Accent
	}

	filledStr := lipgloss.NewStyle().
		Background(fillColor).
		Render(strings.Repeat(" ", filled))
	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	return filledStr + emptyStr
}
