package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizterm/internal/api"
	"github.com/abhisek/quizterm/internal/router"
	"github.com/abhisek/quizterm/internal/screen"
	"github.com/abhisek/quizterm/internal/screens/completed"
	"github.com/abhisek/quizterm/internal/screens/instructions"
	"github.com/abhisek/quizterm/internal/screens/login"
	"github.com/abhisek/quizterm/internal/screens/quiz"
	"github.com/abhisek/quizterm/internal/session"
	"github.com/abhisek/quizterm/internal/ui/layout"
)

// Options carries the wired dependencies into the root model.
type Options struct {
	Machine *session.Machine
	Client  *api.Client
	Monitor *session.Monitor
	Log     zerolog.Logger
}

// AppModel is the root Bubble Tea model. It renders whichever view the
// state machine's phase calls for and owns the two phase-scoped
// effects: the integrity monitor and terminal focus tracking.
type AppModel struct {
	opts   Options
	router *router.Router
	phase  session.Phase
	width  int
	height int
}

// newAppModel builds the root model starting at the machine's current
// phase: login for a fresh session, or wherever a resumed snapshot
// left off.
func newAppModel(opts Options) AppModel {
	phase := opts.Machine.Phase()
	m := AppModel{
		opts:  opts,
		phase: phase,
	}
	m.router = router.New(m.screenFor(phase))
	if phase == session.PhaseQuiz {
		opts.Monitor.Acquire(opts.Machine.Principal().Credential)
	}
	return m
}

// screenFor maps a phase to its view.
func (m AppModel) screenFor(p session.Phase) screen.Screen {
	switch p {
	case session.PhaseInstructions:
		return instructions.New(m.opts.Machine)
	case session.PhaseQuiz:
		return quiz.New(m.opts.Machine, m.opts.Client)
	case session.PhaseCompleted:
		return completed.New(m.opts.Machine)
	default:
		return login.New(m.opts.Machine, m.opts.Client)
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

// reportCmd delivers one integrity event off the update loop.
// Failures are swallowed inside the monitor.
func (m AppModel) reportCmd(reason string) tea.Cmd {
	monitor := m.opts.Monitor
	return func() tea.Msg {
		monitor.Trigger(context.Background(), reason)
		return nil
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.BlurMsg:
		// The terminal lost focus: the proctoring analog of the
		// browser window being unfocused.
		if m.phase == session.PhaseQuiz {
			cmds = append(cmds, m.reportCmd(session.ReasonUnfocused))
		}

	case tea.ResumeMsg:
		// The process was backgrounded and came back: the screen was
		// hidden for the whole gap.
		if m.phase == session.PhaseQuiz {
			cmds = append(cmds, m.reportCmd(session.ReasonSuspended))
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+z":
			return m, tea.Suspend
		}
	}

	cmds = append(cmds, m.router.Update(msg))

	// The machine's phase is the single source of truth for which view
	// is live; swap the screen whenever a transition happened.
	if newPhase := m.opts.Machine.Phase(); newPhase != m.phase {
		m.switchEffects(m.phase, newPhase)
		m.phase = newPhase
		cmds = append(cmds, m.router.Replace(m.screenFor(newPhase)))
	}

	return m, tea.Batch(cmds...)
}

// switchEffects acquires and releases the phase-scoped integrity
// capability. Leaving the quiz phase must deterministically detach it.
func (m AppModel) switchEffects(from, to session.Phase) {
	if from == session.PhaseQuiz && to != session.PhaseQuiz {
		m.opts.Monitor.Release()
	}
	if to == session.PhaseQuiz && from != session.PhaseQuiz {
		m.opts.Monitor.Acquire(m.opts.Machine.Principal().Credential)
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.ReportFocus = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	candidate := ""
	if m.phase != session.PhaseLogin {
		candidate = m.opts.Machine.Principal().DisplayName
	}
	showClock := m.phase == session.PhaseQuiz

	header := layout.RenderHeader(title, candidate, m.opts.Machine.Remaining(), showClock, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program with terminal focus reporting
// enabled so blur events reach the integrity monitor.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
