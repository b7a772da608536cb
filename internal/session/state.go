package session

// Phase represents the current view of the assessment session. Exactly
// one phase is active at a time; it gates which effects (countdown,
// integrity monitor) are live.
type Phase string

const (
	PhaseLogin        Phase = "login"
	PhaseInstructions Phase = "instructions"
	PhaseQuiz         Phase = "quiz"
	PhaseCompleted    Phase = "completed"
)

// validPhase reports whether p is one of the four known phases.
func validPhase(p Phase) bool {
	switch p {
	case PhaseLogin, PhaseInstructions, PhaseQuiz, PhaseCompleted:
		return true
	}
	return false
}

// SubmitState is the submission latch. It is persisted before the
// submit call goes out, so a reload during an in-flight submission can
// never produce a second attempt.
type SubmitState string

const (
	// SubmitNotAttempted means no submission has been started.
	SubmitNotAttempted SubmitState = "not_attempted"
	// SubmitInFlight means a submission was started and its outcome is
	// not yet known. A server rejection moves the latch back to
	// SubmitNotAttempted; a crash leaves it here.
	SubmitInFlight SubmitState = "in_flight"
	// SubmitConfirmed means the server accepted the submission.
	SubmitConfirmed SubmitState = "confirmed"
)

// Principal is the authenticated identity for this session. The
// credential doubles as the idempotency key for every remote call.
type Principal struct {
	Credential  string `json:"credential"`
	DisplayName string `json:"displayName"`
	QuizID      string `json:"quizId"`
	Score       *int   `json:"score,omitempty"`
}

// Question is immutable once loaded. ID is the server-side order
// number, unique within the fetched set.
type Question struct {
	ID             int      `json:"id"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options"`
	MultipleChoice bool     `json:"multipleChoice"`
	Marks          int      `json:"marks"`
}

// Snapshot is the serialized shadow of one session, written whole to
// the store on every change and read only at process start.
type Snapshot struct {
	SessionID string      `json:"sessionId"`
	Phase     Phase       `json:"phase"`
	Principal Principal   `json:"principal"`
	Questions []Question  `json:"questions"`
	Cursor    int         `json:"cursor"`
	Ledger    Ledger      `json:"ledger"`
	Remaining int         `json:"remaining"`
	Submit    SubmitState `json:"submit"`
	SavedAt   string      `json:"savedAt"`
}

// Complete reports whether the snapshot holds a consistent resumable
// session. A partial snapshot must never be resurrected: either every
// core field is present and coherent, or none are trusted.
func (s *Snapshot) Complete() bool {
	if s == nil {
		return false
	}
	if !validPhase(s.Phase) || s.Phase == PhaseLogin {
		return false
	}
	if s.Principal.Credential == "" || s.Principal.QuizID == "" {
		return false
	}
	if len(s.Questions) == 0 {
		return false
	}
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return false
	}
	if s.Remaining < 0 {
		return false
	}
	switch s.Submit {
	case SubmitNotAttempted, SubmitInFlight, SubmitConfirmed:
	default:
		return false
	}
	return true
}

// SnapshotRepo is the durable store for the session snapshot. The
// state machine is the sole writer-of-record; each Save overwrites the
// previous snapshot whole.
type SnapshotRepo interface {
	Save(snap *Snapshot) error
	Load() (*Snapshot, error)
	Clear() error
}
