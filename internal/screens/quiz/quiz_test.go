package quiz

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizterm/internal/session"
)

type memRepo struct {
	snap *session.Snapshot
}

func (r *memRepo) Save(snap *session.Snapshot) error { r.snap = snap; return nil }
func (r *memRepo) Load() (*session.Snapshot, error)  { return r.snap, nil }
func (r *memRepo) Clear() error                      { r.snap = nil; return nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func quizMachine(t *testing.T) *session.Machine {
	t.Helper()
	m := session.Restore(&memRepo{}, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", []session.Question{
		{ID: 1, Prompt: "first", Options: []string{"a", "b", "c"}, Marks: 1},
		{ID: 2, Prompt: "second", Options: []string{"a", "b"}, MultipleChoice: true, Marks: 2},
		{ID: 3, Prompt: "third", Options: []string{"a", "b", "c", "d"}, Marks: 1},
	}, 120)
	m.StartQuiz()
	return m
}

func TestQuizScreen_Title(t *testing.T) {
	s := New(quizMachine(t), nil)
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz")
	}
}

func TestQuizScreen_InitStartsTick(t *testing.T) {
	s := New(quizMachine(t), nil)
	if s.Init() == nil {
		t.Error("expected a tick command from Init")
	}
}

func TestQuizScreen_Display(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)
	view := s.View(100, 30)
	if view == "" {
		t.Fatal("expected non-empty view")
	}
	if !strings.Contains(view, "Question 1 of 3") {
		t.Errorf("view missing position line:\n%s", view)
	}
	if !strings.Contains(view, m.CurrentQuestion().Prompt) {
		t.Error("view missing the question prompt")
	}
}

func TestQuizScreen_NavigationSyncsWithMachine(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)

	s.Update(keyPress('l'))
	if m.Cursor() != 1 {
		t.Errorf("cursor = %d after right, want 1", m.Cursor())
	}

	s.Update(keyPress('h'))
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d after left, want 0", m.Cursor())
	}

	// Left at the first question stays put.
	s.Update(keyPress('h'))
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want clamp at 0", m.Cursor())
	}
}

func TestQuizScreen_EnterRecordsAnswer(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	q := m.Questions()[0]
	if got := m.Ledger()[q.ID]; got.Single() != 0 {
		t.Errorf("ledger[%d] = %+v, want single 0", q.ID, got)
	}
}

func TestQuizScreen_DigitSelectsOption(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)

	s.Update(keyPress('2'))
	q := m.Questions()[0]
	if got := m.Ledger()[q.ID]; got.Single() != 1 {
		t.Errorf("ledger[%d] = %+v, want single 1", q.ID, got)
	}

	// Digit past the option count is ignored.
	s.Update(keyPress('9'))
	if got := m.Ledger()[q.ID]; got.Single() != 1 {
		t.Errorf("ledger[%d] = %+v after out-of-range digit, want unchanged", q.ID, got)
	}
}

func TestQuizScreen_SubmitOnlyOnLastQuestion(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)

	s.Update(keyPress('s'))
	if s.confirming {
		t.Fatal("submit prompt must not open before the last question")
	}

	m.Navigate(2)
	s.syncList()
	s.Update(keyPress('s'))
	if !s.confirming {
		t.Fatal("submit prompt should open on the last question")
	}

	// Declining keeps the quiz going with no attempt latched.
	s.Update(keyPress('n'))
	if s.confirming {
		t.Error("expected prompt dismissed")
	}
	if m.SubmitState() != session.SubmitNotAttempted {
		t.Errorf("submit state = %q, want not_attempted", m.SubmitState())
	}
}

func TestQuizScreen_ConfirmLatchesSubmission(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)
	m.Navigate(2)
	s.syncList()

	s.Update(keyPress('s'))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a submit command on confirmation")
	}
	if m.SubmitState() != session.SubmitInFlight {
		t.Errorf("submit state = %q, want in_flight", m.SubmitState())
	}
	if !s.submitting {
		t.Error("screen should show the submitting state")
	}
}

func TestQuizScreen_ExpiryForcesSubmission(t *testing.T) {
	m := session.Restore(&memRepo{}, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", []session.Question{
		{ID: 1, Prompt: "first", Options: []string{"a", "b"}, Marks: 1},
	}, 1)
	m.StartQuiz()
	s := New(m, nil)

	_, cmd := s.handleTick()
	if cmd == nil {
		t.Fatal("expected commands from the expiring tick")
	}
	if !s.forced {
		t.Error("expected forced-submission state")
	}
	if m.SubmitState() != session.SubmitInFlight {
		t.Errorf("submit state = %q, want in_flight", m.SubmitState())
	}

	// Further ticks must not latch a second attempt.
	before := s.forced
	s.handleTick()
	if s.forced != before || m.SubmitState() != session.SubmitInFlight {
		t.Error("a second tick must not restart the submission")
	}
}

func TestQuizScreen_FailedSubmitReturnsToQuiz(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)
	m.Navigate(2)
	s.syncList()

	s.Update(keyPress('s'))
	s.Update(keyPress('y'))
	s.Update(submitResultMsg{err: errTest})

	if s.submitting {
		t.Error("submitting state should clear")
	}
	if m.Phase() != session.PhaseQuiz {
		t.Errorf("phase = %q, want quiz (answerable after failure)", m.Phase())
	}
	if m.SubmitState() != session.SubmitNotAttempted {
		t.Errorf("submit state = %q, want released latch", m.SubmitState())
	}
	if s.errMsg == "" {
		t.Error("expected an error message for the candidate")
	}
}

func TestQuizScreen_ConfirmedSubmitCompletes(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)
	m.Navigate(2)
	s.syncList()

	s.Update(keyPress('s'))
	s.Update(keyPress('y'))
	s.Update(submitResultMsg{score: 3})

	if m.Phase() != session.PhaseCompleted {
		t.Errorf("phase = %q, want completed", m.Phase())
	}
	if m.Principal().Score == nil || *m.Principal().Score != 3 {
		t.Errorf("score = %v, want 3", m.Principal().Score)
	}
}

func TestQuizScreen_KeysIgnoredWhileSubmitting(t *testing.T) {
	m := quizMachine(t)
	s := New(m, nil)
	s.submitting = true

	s.Update(keyPress('l'))
	if m.Cursor() != 0 {
		t.Error("navigation must be ignored while submitting")
	}
}

var errTest = errValue("submit rejected")

type errValue string

func (e errValue) Error() string { return string(e) }
