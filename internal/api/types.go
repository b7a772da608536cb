package api

import "github.com/abhisek/quizterm/internal/session"

// Identity is the authenticate response: the display name and quiz
// assignment bound to an access code.
type Identity struct {
	Username string `json:"username"`
	QuizID   string `json:"quiz_id"`
}

// QuestionSet is the questions response. DurationSeconds may be zero
// when the service declares no duration; callers fall back to the
// default.
type QuestionSet struct {
	Questions       []session.Question
	DurationSeconds int
}

// wireQuestion is the service's question shape. Correct options are
// stripped server-side; the client never sees them.
type wireQuestion struct {
	Order          int      `json:"order"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Marks          int      `json:"marks"`
	MultipleChoice bool     `json:"multiple_choice"`
}

type questionsResponse struct {
	Questions       []wireQuestion `json:"questions"`
	DurationSeconds int            `json:"durationSeconds"`
}

func (q wireQuestion) toSession() session.Question {
	return session.Question{
		ID:             q.Order,
		Prompt:         q.Question,
		Options:        q.Options,
		MultipleChoice: q.MultipleChoice,
		Marks:          q.Marks,
	}
}

// AnalysisReport is the analyze response: a rendered per-question
// report plus the authoritative totals.
type AnalysisReport struct {
	Report      string `json:"report"`
	Username    string `json:"username"`
	QuizID      string `json:"quiz_id"`
	Marks       int    `json:"marks"`
	TotalMarks  int    `json:"total_marks"`
	IsSubmitted bool   `json:"is_submitted"`
}
