package completed

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizterm/internal/screen"
	"github.com/abhisek/quizterm/internal/session"
	"github.com/abhisek/quizterm/internal/ui/layout"
	"github.com/abhisek/quizterm/internal/ui/theme"
)

// CompletedScreen is the terminal view: the server's score, or a
// notice when the submission outcome is unknown after a resume.
type CompletedScreen struct {
	machine *session.Machine
}

var _ screen.Screen = (*CompletedScreen)(nil)
var _ screen.KeyHintProvider = (*CompletedScreen)(nil)

// New creates the completed screen.
func New(machine *session.Machine) *CompletedScreen {
	return &CompletedScreen{machine: machine}
}

func (s *CompletedScreen) Title() string {
	return "Finished"
}

func (s *CompletedScreen) Init() tea.Cmd {
	return nil
}

func (s *CompletedScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+L", Description: "Log out"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *CompletedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == "ctrl+l" {
			// Clears every persisted key; the app swaps back to login.
			s.machine.Logout()
		}
	}
	return s, nil
}

// scoreLine formats the score against total marks. The percentage is
// omitted when total marks is zero rather than dividing by it.
func scoreLine(score, totalMarks int) string {
	if totalMarks <= 0 {
		return fmt.Sprintf("Your score: %d (—)", score)
	}
	pct := float64(score) / float64(totalMarks) * 100
	return fmt.Sprintf("Your score: %d / %d (%.0f%%)", score, totalMarks, pct)
}

func (s *CompletedScreen) View(width, height int) string {
	p := s.machine.Principal()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz Submitted"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Thank you, %s.", p.DisplayName)))
	b.WriteString("\n\n")

	switch {
	case s.machine.OutcomeUnknown():
		b.WriteString(theme.Warning.Render("A submission was already started for this session."))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("Its outcome could not be confirmed; contact your proctor."))
	case p.Score != nil:
		b.WriteString(theme.Selected.Render(scoreLine(*p.Score, s.machine.TotalMarks())))
	default:
		b.WriteString(theme.Hint.Render("Score pending."))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Run `quizterm report` for a detailed breakdown once available."))

	card := theme.Card.Width(60).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
