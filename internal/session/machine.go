package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultDurationSeconds applies when the service declares no quiz
// duration.
const DefaultDurationSeconds = 7200

// Machine owns the whole session: the four views, the question
// sequence and cursor, the answer ledger, the countdown, and the
// at-most-once submission protocol. All mutations flow through it and
// every mutation overwrites the persisted snapshot whole.
type Machine struct {
	repo SnapshotRepo
	log  zerolog.Logger

	sessionID string
	phase     Phase
	principal Principal
	questions []Question
	cursor    int
	ledger    Ledger
	countdown Countdown
	submit    SubmitState

	// outcomeUnknown is set when a session resumed with an in-flight
	// submission latch: the attempt may or may not have reached the
	// server, so a second attempt is blocked and no score is shown.
	outcomeUnknown bool
}

// Restore builds a Machine from the persisted snapshot, or a fresh one
// at the login phase when no complete snapshot exists. A partial or
// unreadable snapshot is discarded, never partially resurrected.
func Restore(repo SnapshotRepo, log zerolog.Logger) *Machine {
	m := &Machine{
		repo:   repo,
		log:    log.With().Str("component", "machine").Logger(),
		phase:  PhaseLogin,
		ledger: Ledger{},
		submit: SubmitNotAttempted,
	}

	snap, err := repo.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("snapshot load failed, starting fresh")
		return m
	}
	if !snap.Complete() {
		if snap != nil {
			m.log.Warn().Msg("incomplete snapshot discarded")
		}
		return m
	}

	m.sessionID = snap.SessionID
	m.phase = snap.Phase
	m.principal = snap.Principal
	m.questions = snap.Questions
	m.cursor = snap.Cursor
	m.ledger = snap.Ledger
	if m.ledger == nil {
		m.ledger = Ledger{}
	}
	m.countdown = NewCountdown(snap.Remaining)
	m.submit = snap.Submit

	// A latched-but-unconfirmed submission means the outcome is
	// unknown. Re-submitting silently is not allowed, so the session
	// lands on the completed view without a score.
	if m.submit == SubmitInFlight && m.principal.Score == nil {
		m.outcomeUnknown = true
		m.phase = PhaseCompleted
		m.persist()
	}

	m.log.Info().
		Str("phase", string(m.phase)).
		Int("questions", len(m.questions)).
		Int("remaining", m.countdown.Remaining()).
		Msg("session restored")
	return m
}

// Accessors. The machine hands out copies; screens never mutate state
// except through the operations below.

func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) Principal() Principal { return m.principal }

func (m *Machine) Questions() []Question { return m.questions }

func (m *Machine) Cursor() int { return m.cursor }

func (m *Machine) Ledger() Ledger { return m.ledger.Clone() }

func (m *Machine) Remaining() int { return m.countdown.Remaining() }

func (m *Machine) Expired() bool { return m.countdown.Expired() }

func (m *Machine) SubmitState() SubmitState { return m.submit }

func (m *Machine) OutcomeUnknown() bool { return m.outcomeUnknown }

// CurrentQuestion returns the question under the navigation cursor.
func (m *Machine) CurrentQuestion() *Question {
	if m.cursor < 0 || m.cursor >= len(m.questions) {
		return nil
	}
	return &m.questions[m.cursor]
}

// QuestionByID returns the question with the given id, or nil if it is
// not part of the current sequence.
func (m *Machine) QuestionByID(id int) *Question {
	for i := range m.questions {
		if m.questions[i].ID == id {
			return &m.questions[i]
		}
	}
	return nil
}

// AnsweredCount returns how many questions have a recorded response.
func (m *Machine) AnsweredCount() int { return len(m.ledger) }

// TotalMarks sums the point values of the whole sequence.
func (m *Machine) TotalMarks() int {
	total := 0
	for _, q := range m.questions {
		total += q.Marks
	}
	return total
}

// CompleteAuth commits a successful two-step authentication: the
// verified identity plus the fetched question set. The sequence is
// shuffled once, uniformly at random, and the shuffled order itself is
// persisted so it survives reloads. Leaves login for instructions.
func (m *Machine) CompleteAuth(credential, displayName, quizID string, questions []Question, durationSeconds int) {
	if durationSeconds <= 0 {
		durationSeconds = DefaultDurationSeconds
	}

	qs := make([]Question, len(questions))
	copy(qs, questions)
	ShuffleQuestions(qs)

	m.sessionID = uuid.New().String()
	m.principal = Principal{
		Credential:  credential,
		DisplayName: displayName,
		QuizID:      quizID,
	}
	m.questions = qs
	m.cursor = 0
	m.ledger = Ledger{}
	m.countdown = NewCountdown(durationSeconds)
	m.submit = SubmitNotAttempted
	m.outcomeUnknown = false
	m.phase = PhaseInstructions
	m.persist()

	m.log.Info().
		Str("quiz", quizID).
		Int("questions", len(qs)).
		Int("duration", durationSeconds).
		Msg("authenticated")
}

// StartQuiz moves from instructions to the quiz view and starts the
// countdown. On a resumed session the countdown continues from its
// persisted remaining value.
func (m *Machine) StartQuiz() {
	if m.phase != PhaseInstructions && m.phase != PhaseQuiz {
		return
	}
	m.phase = PhaseQuiz
	m.countdown.Start()
	m.persist()
}

// ResumeQuiz restarts the countdown after a reload into the quiz
// phase. The quiz screen calls it when it takes over.
func (m *Machine) ResumeQuiz() {
	if m.phase != PhaseQuiz {
		return
	}
	m.countdown.Start()
}

// Navigate moves the cursor to index i, clamped into [0, len-1], and
// persists the new position.
func (m *Machine) Navigate(i int) {
	if len(m.questions) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(m.questions) {
		i = len(m.questions) - 1
	}
	if i == m.cursor {
		return
	}
	m.cursor = i
	m.persist()
}

// SelectAnswer applies one selection to the ledger and persists. An id
// outside the current sequence is ignored; the screens only offer ids
// they were handed, so hitting this indicates a programming error.
func (m *Machine) SelectAnswer(questionID, optionIndex int) {
	q := m.QuestionByID(questionID)
	if q == nil {
		m.log.Error().Int("question", questionID).Msg("selection for unknown question")
		return
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return
	}
	m.ledger.Select(*q, optionIndex)
	m.persist()
}

// Tick consumes one countdown second, persists the new remaining
// value, and reports whether the deadline expired on this tick. The
// expiry report happens at most once for the life of the session.
func (m *Machine) Tick() (remaining int, expired bool) {
	remaining, expired = m.countdown.Tick()
	if m.phase == PhaseQuiz {
		m.persist()
	}
	return remaining, expired
}

// OnLastQuestion reports whether the cursor sits on the final question
// of the linear flow, the only place an explicit submit is allowed.
func (m *Machine) OnLastQuestion() bool {
	return len(m.questions) > 0 && m.cursor == len(m.questions)-1
}

// BeginSubmit latches the submission attempt and returns the wire
// payload. The latch is persisted before any network traffic so a
// reload mid-flight cannot produce a second attempt. Returns ok=false
// when a submission was already started or confirmed.
func (m *Machine) BeginSubmit() (answers map[string]Answer, ok bool) {
	if m.phase != PhaseQuiz || m.submit != SubmitNotAttempted {
		return nil, false
	}
	m.submit = SubmitInFlight
	m.countdown.Stop()
	m.persist()
	return m.ledger.WirePayload(), true
}

// ConfirmSubmit records server acceptance: score lands on the
// principal and the session reaches its terminal view.
func (m *Machine) ConfirmSubmit(score int) {
	if m.submit != SubmitInFlight {
		return
	}
	m.submit = SubmitConfirmed
	m.principal.Score = &score
	m.phase = PhaseCompleted
	m.persist()
	m.log.Info().Int("score", score).Msg("submission confirmed")
}

// FailSubmit records a server rejection or transport failure: the
// latch is released so the candidate can retry, and the quiz stays
// answerable. The release is persisted immediately so a reload after a
// failed attempt does not strand the session in the in-flight state.
func (m *Machine) FailSubmit(err error) {
	if m.submit != SubmitInFlight {
		return
	}
	m.submit = SubmitNotAttempted
	if !m.countdown.Expired() {
		m.countdown.Start()
	}
	m.persist()
	m.log.Warn().Err(err).Msg("submission failed")
}

// Logout clears every persisted key and all in-memory state
// unconditionally and returns to the login view.
func (m *Machine) Logout() {
	if err := m.repo.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("snapshot clear failed")
	}
	m.sessionID = ""
	m.phase = PhaseLogin
	m.principal = Principal{}
	m.questions = nil
	m.cursor = 0
	m.ledger = Ledger{}
	m.countdown = Countdown{}
	m.submit = SubmitNotAttempted
	m.outcomeUnknown = false
}

// snapshot assembles the full persisted state.
func (m *Machine) snapshot() *Snapshot {
	return &Snapshot{
		SessionID: m.sessionID,
		Phase:     m.phase,
		Principal: m.principal,
		Questions: m.questions,
		Cursor:    m.cursor,
		Ledger:    m.ledger,
		Remaining: m.countdown.Remaining(),
		Submit:    m.submit,
		SavedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// persist overwrites the stored snapshot whole. A write failure is
// logged and the session carries on in memory; the store read path
// rejects partial state, so a torn session never resurrects.
func (m *Machine) persist() {
	if err := m.repo.Save(m.snapshot()); err != nil {
		m.log.Warn().Err(err).Msg("snapshot save failed")
	}
}
