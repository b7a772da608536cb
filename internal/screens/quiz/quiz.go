package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizterm/internal/api"
	"github.com/abhisek/quizterm/internal/screen"
	"github.com/abhisek/quizterm/internal/session"
	"github.com/abhisek/quizterm/internal/ui/components"
	"github.com/abhisek/quizterm/internal/ui/layout"
	"github.com/abhisek/quizterm/internal/ui/theme"
)

// tickMsg drives the one-second countdown while the quiz is active.
type tickMsg time.Time

// submitResultMsg carries the scoring service's verdict.
type submitResultMsg struct {
	score int
	err   error
}

// QuizScreen is the question-answering view. It owns the tick loop and
// the submission flow; every answer mutation goes through the machine,
// which persists on each change.
type QuizScreen struct {
	machine *session.Machine
	client  *api.Client

	list       components.OptionList
	listFor    int // question id the list was built for
	totalSecs  int
	confirming bool
	submitting bool
	forced     bool
	errMsg     string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen.
func New(machine *session.Machine, client *api.Client) *QuizScreen {
	s := &QuizScreen{
		machine:   machine,
		client:    client,
		totalSecs: machine.Remaining(),
		listFor:   -1,
	}
	s.syncList()
	return s
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Init() tea.Cmd {
	s.machine.ResumeQuiz()
	return tickCmd()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep answering"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Question"},
		{Key: "↑↓", Description: "Option"},
		{Key: "Enter", Description: "Select"},
	}
	if s.machine.OnLastQuestion() {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Submit"})
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	return hints
}

// syncList rebuilds the option list for the question under the
// cursor, preserving the movement cursor when the question is the
// same one.
func (s *QuizScreen) syncList() {
	q := s.machine.CurrentQuestion()
	if q == nil {
		return
	}

	cursor := 0
	if q.ID == s.listFor {
		cursor = s.list.Cursor
	}

	list := components.NewOptionList(q.Prompt, q.Options, q.MultipleChoice)
	list.Cursor = cursor

	if ans, ok := s.machine.Ledger()[q.ID]; ok {
		if ans.IsMulti() {
			for _, i := range ans.Indices() {
				list.Chosen[i] = true
			}
		} else {
			list.Chosen[ans.Single()] = true
		}
	}

	s.list = list
	s.listFor = q.ID
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick()

	case submitResultMsg:
		return s.handleSubmitResult(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *QuizScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.machine.Phase() != session.PhaseQuiz {
		return s, nil
	}

	_, expired := s.machine.Tick()
	if expired {
		// Deadline forces submission even with unanswered questions.
		s.forced = true
		s.confirming = false
		if cmd := s.beginSubmit(); cmd != nil {
			return s, tea.Batch(cmd, tickCmd())
		}
	}
	return s, tickCmd()
}

// beginSubmit latches the attempt and fires the network call. Returns
// nil when an attempt is already latched, so a manual submit after
// deadline expiry never produces a second network submission.
func (s *QuizScreen) beginSubmit() tea.Cmd {
	answers, ok := s.machine.BeginSubmit()
	if !ok {
		return nil
	}

	s.submitting = true
	s.errMsg = ""

	client := s.client
	credential := s.machine.Principal().Credential
	return func() tea.Msg {
		score, err := client.Submit(context.Background(), credential, answers)
		return submitResultMsg{score: score, err: err}
	}
}

func (s *QuizScreen) handleSubmitResult(msg submitResultMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.err != nil {
		// The latch is released: the quiz stays answerable and the
		// candidate may retry.
		s.machine.FailSubmit(msg.err)
		s.errMsg = msg.err.Error()
		return s, nil
	}

	// Phase moves to completed; the app swaps the view.
	s.machine.ConfirmSubmit(msg.score)
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}

	key := msg.String()

	if s.confirming {
		switch key {
		case "y", "Y", "enter":
			s.confirming = false
			return s, s.beginSubmit()
		case "n", "N", "esc":
			s.confirming = false
		}
		return s, nil
	}

	q := s.machine.CurrentQuestion()
	if q == nil {
		return s, nil
	}

	switch key {
	case "left", "h", "p":
		s.machine.Navigate(s.machine.Cursor() - 1)
		s.syncList()
		return s, nil

	case "right", "l", "n":
		s.machine.Navigate(s.machine.Cursor() + 1)
		s.syncList()
		return s, nil

	case "enter", "space", " ":
		s.machine.SelectAnswer(q.ID, s.list.Cursor)
		s.syncList()
		return s, nil

	case "s", "S":
		if s.machine.OnLastQuestion() {
			s.confirming = true
		}
		return s, nil

	case "ctrl+l":
		s.machine.Logout()
		return s, nil
	}

	// Digits select the option directly (labels are 1-based).
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		idx := int(key[0] - '1')
		if idx < len(q.Options) {
			s.machine.SelectAnswer(q.ID, idx)
			s.list.Cursor = idx
			s.syncList()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// navigator renders one dot per question: filled when answered, the
// current position bracketed.
func (s *QuizScreen) navigator() string {
	qs := s.machine.Questions()
	ledger := s.machine.Ledger()
	cursor := s.machine.Cursor()

	parts := make([]string, 0, len(qs))
	for i, q := range qs {
		dot := "○"
		style := theme.Unselected
		if ledger.Answered(q.ID) {
			dot = "●"
			style = theme.Answered
		}
		if i == cursor {
			parts = append(parts, theme.Selected.Render("["+dot+"]"))
			continue
		}
		parts = append(parts, style.Render(" "+dot+" "))
	}
	return strings.Join(parts, "")
}

func (s *QuizScreen) View(width, height int) string {
	q := s.machine.CurrentQuestion()
	if q == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No questions loaded."))
	}

	var b strings.Builder

	qs := s.machine.Questions()
	pos := theme.Subtitle.Render(fmt.Sprintf(
		"Question %d of %d  ·  %d mark(s)  ·  answered %d/%d",
		s.machine.Cursor()+1, len(qs), q.Marks, s.machine.AnsweredCount(), len(qs),
	))
	b.WriteString(pos + "\n\n")

	if q.MultipleChoice {
		b.WriteString(theme.Hint.Render("Select all that apply.") + "\n\n")
	}

	b.WriteString(s.list.View())
	b.WriteString("\n")

	bar := components.NewTimerBar(s.machine.Remaining(), s.totalSecs, 56)
	b.WriteString(bar.View() + "  " + layout.FormatClock(s.machine.Remaining()) + "\n\n")

	b.WriteString(s.navigator() + "\n")

	switch {
	case s.submitting && s.forced:
		b.WriteString("\n" + theme.Warning.Render("Time is up — submitting your answers..."))
	case s.submitting:
		b.WriteString("\n" + theme.Hint.Render("Submitting..."))
	case s.confirming:
		unanswered := len(qs) - s.machine.AnsweredCount()
		prompt := "Submit your answers now? (y/n)"
		if unanswered > 0 {
			prompt = fmt.Sprintf("%d question(s) unanswered. Submit anyway? (y/n)", unanswered)
		}
		b.WriteString("\n" + theme.Warning.Render(prompt))
	}

	if s.errMsg != "" {
		b.WriteString("\n" + theme.Danger.Render(s.errMsg))
	}

	card := theme.Card.Width(64).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
