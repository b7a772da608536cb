package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizterm/internal/api"
	"github.com/abhisek/quizterm/internal/screen"
	"github.com/abhisek/quizterm/internal/session"
	"github.com/abhisek/quizterm/internal/ui/components"
	"github.com/abhisek/quizterm/internal/ui/layout"
	"github.com/abhisek/quizterm/internal/ui/theme"
)

// authResultMsg carries the outcome of the two-step authentication:
// identity verification followed by question retrieval. Both must
// succeed before the session leaves the login phase.
type authResultMsg struct {
	credential string
	identity   *api.Identity
	set        *api.QuestionSet
	err        error
}

// LoginScreen is the access-code entry view.
type LoginScreen struct {
	machine   *session.Machine
	client    *api.Client
	input     components.TextInput
	verifying bool
	errMsg    string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen.
func New(machine *session.Machine, client *api.Client) *LoginScreen {
	return &LoginScreen{
		machine: machine,
		client:  client,
		input:   components.NewTextInput("Enter your access code...", true, 64),
	}
}

func (s *LoginScreen) Title() string {
	return "Sign In"
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Verify"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		return s.handleAuthResult(msg)

	case tea.KeyMsg:
		if s.verifying {
			return s, nil
		}
		if msg.String() == "enter" {
			credential := strings.TrimSpace(s.input.Value())
			if credential == "" {
				return s, nil
			}
			s.verifying = true
			s.errMsg = ""
			return s, s.authenticate(credential)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// authenticate runs both remote calls in sequence. A failure at either
// step yields an error result and commits nothing.
func (s *LoginScreen) authenticate(credential string) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		ctx := context.Background()

		identity, err := client.Authenticate(ctx, credential)
		if err != nil {
			return authResultMsg{err: err}
		}

		set, err := client.Questions(ctx, identity.QuizID, credential)
		if err != nil {
			return authResultMsg{err: err}
		}

		return authResultMsg{credential: credential, identity: identity, set: set}
	}
}

func (s *LoginScreen) handleAuthResult(msg authResultMsg) (screen.Screen, tea.Cmd) {
	s.verifying = false
	if msg.err != nil {
		s.errMsg = msg.err.Error()
		s.input = s.input.Reset()
		return s, nil
	}

	// Phase moves to instructions; the app swaps the view.
	s.machine.CompleteAuth(
		msg.credential,
		msg.identity.Username,
		msg.identity.QuizID,
		msg.set.Questions,
		msg.set.DurationSeconds,
	)
	return s, nil
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Proctored Assessment"))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Enter the access code you were issued to begin."))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")

	if s.verifying {
		b.WriteString("\n" + theme.Hint.Render("Verifying..."))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.Danger.Render(s.errMsg))
	}

	card := theme.Card.Width(56).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
