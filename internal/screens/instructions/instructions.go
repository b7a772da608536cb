package instructions

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

// InstructionsScreen shows the quiz terms before the countdown starts.
type InstructionsScreen struct {
	machine *session.Machine
}

var _ screen.Screen = (*InstructionsScreen)(nil)
var _ screen.KeyHintProvider = (*InstructionsScreen)(nil)

// New creates the instructions screen.
func New(machine *session.Machine) *InstructionsScreen {
	return &InstructionsScreen{machine: machine}
}

func (s *InstructionsScreen) Title() string {
	return "Instructions"
}

func (s *InstructionsScreen) Init() tea.Cmd {
	return nil
}

func (s *InstructionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start quiz"},
		{Key: "Ctrl+L", Description: "Log out"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *InstructionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			// Phase moves to quiz; the app swaps the view and
			// activates the countdown and integrity monitor.
			s.machine.StartQuiz()
		case "ctrl+l":
			s.machine.Logout()
		}
	}
	return s, nil
}

func (s *InstructionsScreen) View(width, height int) string {
	p := s.machine.Principal()
	qs := s.machine.Questions()

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Welcome, %s", p.DisplayName)))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Render(fmt.Sprintf("Quiz:       %s", p.QuizID)) + "\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Questions:  %d", len(qs))) + "\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Total marks: %d", s.machine.TotalMarks())) + "\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Time limit: %s", layout.FormatClock(s.machine.Remaining()))) + "\n\n")

	rules := []string{
		"• The countdown starts the moment you press Enter.",
		"• When it reaches zero your answers are submitted automatically.",
		"• Multiple-answer questions are marked; select every option that applies.",
		"• You may move between questions freely; submit from the last one.",
		"• This session is proctored: switching away from the terminal is recorded.",
	}
	for _, r := range rules {
		b.WriteString(theme.Body.Render(r) + "\n")
	}

	b.WriteString("\n" + theme.Hint.Render("Press Enter when you are ready."))

	card := theme.Card.Width(64).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
