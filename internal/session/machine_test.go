package session

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// fakeRepo simulates the durable store: every save serializes the full
// snapshot, the way the SQLite row does, so a restore only ever sees
// what actually round-trips through JSON.
type fakeRepo struct {
	stored  []byte
	saves   int
	clears  int
	loadErr error
	saveErr error
}

func (r *fakeRepo) Save(snap *Snapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	r.stored = data
	r.saves++
	return nil
}

func (r *fakeRepo) Load() (*Snapshot, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.stored == nil {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(r.stored, &snap); err != nil {
		return nil, nil
	}
	return &snap, nil
}

func (r *fakeRepo) Clear() error {
	r.stored = nil
	r.clears++
	return nil
}

func testQuestions() []Question {
	return []Question{
		{ID: 1, Prompt: "first", Options: []string{"a", "b", "c"}, Marks: 1},
		{ID: 2, Prompt: "second", Options: []string{"a", "b", "c", "d"}, Marks: 1},
		{ID: 3, Prompt: "third", Options: []string{"a", "b"}, MultipleChoice: true, Marks: 2},
	}
}

func authedMachine(repo SnapshotRepo) *Machine {
	m := Restore(repo, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", testQuestions(), 120)
	return m
}

func TestFreshMachineStartsAtLogin(t *testing.T) {
	m := Restore(&fakeRepo{}, zerolog.Nop())
	if m.Phase() != PhaseLogin {
		t.Errorf("phase = %q, want login", m.Phase())
	}
}

func TestCompleteAuthMovesToInstructions(t *testing.T) {
	repo := &fakeRepo{}
	m := authedMachine(repo)

	if m.Phase() != PhaseInstructions {
		t.Fatalf("phase = %q, want instructions", m.Phase())
	}
	p := m.Principal()
	if p.Credential != "abc123" || p.DisplayName != "Sameer" || p.QuizID != "q1" {
		t.Errorf("principal = %+v", p)
	}
	if m.Remaining() != 120 {
		t.Errorf("remaining = %d, want server-declared 120", m.Remaining())
	}
	if repo.saves == 0 {
		t.Error("authentication must persist the session")
	}
}

func TestCompleteAuthDefaultsDuration(t *testing.T) {
	m := Restore(&fakeRepo{}, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", testQuestions(), 0)
	if m.Remaining() != DefaultDurationSeconds {
		t.Errorf("remaining = %d, want default %d", m.Remaining(), DefaultDurationSeconds)
	}
}

func TestCompleteAuthPreservesQuestionSet(t *testing.T) {
	m := authedMachine(&fakeRepo{})

	ids := make(map[int]bool)
	for _, q := range m.Questions() {
		ids[q.ID] = true
	}
	for _, want := range []int{1, 2, 3} {
		if !ids[want] {
			t.Errorf("id %d missing after shuffle", want)
		}
	}
	if len(m.Questions()) != 3 {
		t.Errorf("%d questions after shuffle, want 3", len(m.Questions()))
	}
}

func TestNavigateClamps(t *testing.T) {
	m := authedMachine(&fakeRepo{})
	m.StartQuiz()

	m.Navigate(99)
	if m.Cursor() != 2 {
		t.Errorf("cursor = %d, want clamp to 2", m.Cursor())
	}
	m.Navigate(-5)
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want clamp to 0", m.Cursor())
	}
}

func TestSelectAnswerPersists(t *testing.T) {
	repo := &fakeRepo{}
	m := authedMachine(repo)
	m.StartQuiz()

	saves := repo.saves
	m.SelectAnswer(2, 1)
	if repo.saves != saves+1 {
		t.Error("selection must persist synchronously")
	}
	if got := m.Ledger()[2]; got.Single() != 1 {
		t.Errorf("ledger[2] = %+v, want single index 1", got)
	}
}

func TestSelectAnswerUnknownQuestionIgnored(t *testing.T) {
	m := authedMachine(&fakeRepo{})
	m.StartQuiz()

	m.SelectAnswer(42, 0)
	if m.AnsweredCount() != 0 {
		t.Error("selection for an unknown question must not mutate the ledger")
	}
}

func TestTickExpiresOnceAndPersists(t *testing.T) {
	repo := &fakeRepo{}
	m := Restore(repo, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", testQuestions(), 2)
	m.StartQuiz()

	if _, expired := m.Tick(); expired {
		t.Fatal("expired too early")
	}
	if _, expired := m.Tick(); !expired {
		t.Fatal("expected expiry at zero")
	}
	for i := 0; i < 3; i++ {
		if _, expired := m.Tick(); expired {
			t.Fatal("expiry fired twice")
		}
	}
	if m.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", m.Remaining())
	}
}

func TestSubmitProtocol(t *testing.T) {
	repo := &fakeRepo{}
	m := authedMachine(repo)
	m.StartQuiz()
	m.SelectAnswer(2, 1)

	m.Navigate(2)
	answers, ok := m.BeginSubmit()
	if !ok {
		t.Fatal("first submit attempt should latch")
	}
	if _, present := answers["q2"]; !present {
		t.Errorf("payload %v missing q2", answers)
	}

	// The latch must already be durable before any network traffic.
	snap, _ := repo.Load()
	if snap.Submit != SubmitInFlight {
		t.Fatalf("persisted latch = %q, want in_flight", snap.Submit)
	}

	if _, ok := m.BeginSubmit(); ok {
		t.Fatal("second attempt while in flight must be rejected")
	}

	m.ConfirmSubmit(2)
	if m.Phase() != PhaseCompleted {
		t.Errorf("phase = %q, want completed", m.Phase())
	}
	if m.Principal().Score == nil || *m.Principal().Score != 2 {
		t.Errorf("score = %v, want 2", m.Principal().Score)
	}

	if _, ok := m.BeginSubmit(); ok {
		t.Error("submit after confirmation must be rejected")
	}
}

func TestFailSubmitReleasesLatch(t *testing.T) {
	repo := &fakeRepo{}
	m := authedMachine(repo)
	m.StartQuiz()
	m.Navigate(2)

	if _, ok := m.BeginSubmit(); !ok {
		t.Fatal("first attempt should latch")
	}
	m.FailSubmit(errors.New("server rejected"))

	if m.Phase() != PhaseQuiz {
		t.Errorf("phase = %q, want quiz (still answerable)", m.Phase())
	}
	snap, _ := repo.Load()
	if snap.Submit != SubmitNotAttempted {
		t.Errorf("persisted latch = %q, want release to not_attempted", snap.Submit)
	}
	if _, ok := m.BeginSubmit(); !ok {
		t.Error("retry after a failed attempt must be allowed")
	}
}

func TestManualSubmitAfterExpiryRejected(t *testing.T) {
	m := Restore(&fakeRepo{}, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", testQuestions(), 1)
	m.StartQuiz()

	_, expired := m.Tick()
	if !expired {
		t.Fatal("expected expiry")
	}
	if _, ok := m.BeginSubmit(); !ok {
		t.Fatal("expiry-triggered submission should latch")
	}
	if _, ok := m.BeginSubmit(); ok {
		t.Error("manual submit after deadline submission must not produce a second attempt")
	}
}

func TestResumeReconstructsSession(t *testing.T) {
	repo := &fakeRepo{}
	m := authedMachine(repo)
	m.StartQuiz()
	m.Navigate(1)
	m.SelectAnswer(2, 1)
	m.SelectAnswer(3, 0)
	m.SelectAnswer(3, 1)
	m.Tick()
	m.Tick()

	order := make([]int, 0, 3)
	for _, q := range m.Questions() {
		order = append(order, q.ID)
	}

	// Process restart.
	m2 := Restore(repo, zerolog.Nop())

	if m2.Phase() != PhaseQuiz {
		t.Fatalf("resumed phase = %q, want quiz", m2.Phase())
	}
	if m2.Cursor() != 1 {
		t.Errorf("resumed cursor = %d, want 1", m2.Cursor())
	}
	if m2.Remaining() != 118 {
		t.Errorf("resumed remaining = %d, want 118", m2.Remaining())
	}

	order2 := make([]int, 0, 3)
	for _, q := range m2.Questions() {
		order2 = append(order2, q.ID)
	}
	for i := range order {
		if order[i] != order2[i] {
			t.Fatalf("shuffled order changed across reload: %v -> %v", order, order2)
		}
	}

	if got := m2.Ledger()[2]; got.Single() != 1 {
		t.Errorf("resumed ledger[2] = %+v", got)
	}
	got := m2.Ledger()[3].Indices()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("resumed ledger[3] = %v, want [0 1]", got)
	}
}

func TestResumeWithInFlightLatchBlocksResubmission(t *testing.T) {
	repo := &fakeRepo{}
	m := authedMachine(repo)
	m.StartQuiz()
	m.Navigate(2)
	m.BeginSubmit()
	// Crash here: the latch is persisted, the outcome never arrived.

	m2 := Restore(repo, zerolog.Nop())
	if m2.Phase() != PhaseCompleted {
		t.Errorf("resumed phase = %q, want completed", m2.Phase())
	}
	if !m2.OutcomeUnknown() {
		t.Error("resume with an in-flight latch must flag the unknown outcome")
	}
	if _, ok := m2.BeginSubmit(); ok {
		t.Error("a second attempt must be blocked")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	repo := &fakeRepo{}
	m := authedMachine(repo)
	m.StartQuiz()
	m.SelectAnswer(1, 0)

	m.Logout()

	if repo.clears != 1 {
		t.Error("logout must clear the persisted session")
	}
	if m.Phase() != PhaseLogin {
		t.Errorf("phase = %q, want login", m.Phase())
	}
	if m.AnsweredCount() != 0 || len(m.Questions()) != 0 {
		t.Error("in-memory state must be zeroed")
	}

	// A fresh load after logout reconstructs to login with nothing left.
	m2 := Restore(repo, zerolog.Nop())
	if m2.Phase() != PhaseLogin || m2.Cursor() != 0 || m2.AnsweredCount() != 0 {
		t.Error("fresh load after logout should be a clean login session")
	}
}

func TestIncompleteSnapshotDiscarded(t *testing.T) {
	repo := &fakeRepo{}
	repo.stored = []byte(`{"phase":"quiz","cursor":0}`) // no principal, no questions

	m := Restore(repo, zerolog.Nop())
	if m.Phase() != PhaseLogin {
		t.Errorf("phase = %q, want login (partial state must never resurrect)", m.Phase())
	}
}

func TestLoadErrorFallsBackToLogin(t *testing.T) {
	repo := &fakeRepo{loadErr: errors.New("disk gone")}
	m := Restore(repo, zerolog.Nop())
	if m.Phase() != PhaseLogin {
		t.Errorf("phase = %q, want login", m.Phase())
	}
}

func TestSaveFailureDoesNotCrashFlow(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("disk full")}
	m := Restore(repo, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", testQuestions(), 120)
	m.StartQuiz()
	m.SelectAnswer(1, 0)

	if m.Phase() != PhaseQuiz {
		t.Error("the in-memory session must carry on when saves fail")
	}
}

// End-to-end walk of the documented scenario: authenticate, answer a
// single- and a multiple-answer question, run the clock out, and score.
func TestFullScenario(t *testing.T) {
	repo := &fakeRepo{}
	m := Restore(repo, zerolog.Nop())
	m.CompleteAuth("abc123", "Sameer", "q1", testQuestions(), 120)
	m.StartQuiz()

	m.SelectAnswer(2, 1)          // single-answer
	m.SelectAnswer(3, 0)          // multi: {0}
	m.SelectAnswer(3, 1)          // multi: {0,1}
	m.SelectAnswer(3, 0)          // multi: {1}

	for i := 0; i < 119; i++ {
		if _, expired := m.Tick(); expired {
			t.Fatalf("expired early at tick %d", i)
		}
	}
	_, expired := m.Tick()
	if !expired {
		t.Fatal("expected expiry at 120 ticks")
	}

	answers, ok := m.BeginSubmit()
	if !ok {
		t.Fatal("deadline submission should latch")
	}
	if got := answers["q2"]; got.Single() != 1 {
		t.Errorf("q2 = %+v, want 1", got)
	}
	if got := answers["q3"].Indices(); len(got) != 1 || got[0] != 1 {
		t.Errorf("q3 = %v, want [1]", got)
	}

	m.ConfirmSubmit(2)
	if m.Phase() != PhaseCompleted {
		t.Errorf("phase = %q, want completed", m.Phase())
	}
	if *m.Principal().Score != 2 {
		t.Errorf("score = %d, want 2", *m.Principal().Score)
	}
}
