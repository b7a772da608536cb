// Package api is the client for the remote assessment service: five
// JSON-over-HTTPS POST endpoints keyed by the candidate's access code.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizterm/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client talks to the assessment service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a Client for the service at baseURL. A zero timeout
// falls back to the default.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "api").Logger(),
	}
}

// post sends body as JSON and returns the response body and status.
func (c *Client) post(ctx context.Context, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("service call")
	return resp.StatusCode, data, nil
}

// serverError extracts the optional human-readable error field.
func serverError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Error
}

// Authenticate verifies the access code and returns the bound
// identity. A non-2xx status means the code is invalid.
func (c *Client) Authenticate(ctx context.Context, credential string) (*Identity, error) {
	status, body, err := c.post(ctx, "/authenticate", map[string]string{"password": credential})
	if err != nil {
		return nil, &AuthError{Message: err.Error()}
	}
	if status < 200 || status >= 300 {
		msg := serverError(body)
		if msg == "" {
			msg = "invalid access code"
		}
		return nil, &AuthError{StatusCode: status, Message: msg}
	}

	var id Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, &AuthError{StatusCode: status, Message: "malformed response"}
	}
	return &id, nil
}

// Questions retrieves the question set for the quiz bound to the
// credential. The payload is schema-validated before decoding.
func (c *Client) Questions(ctx context.Context, quizID, credential string) (*QuestionSet, error) {
	status, body, err := c.post(ctx, "/questions", map[string]string{
		"quiz_id":  quizID,
		"password": credential,
	})
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &FetchError{StatusCode: status}
	}

	if err := validateQuestionsPayload(body); err != nil {
		return nil, &FetchError{StatusCode: status, Err: err}
	}

	var resp questionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{StatusCode: status, Err: err}
	}

	qs := make([]session.Question, 0, len(resp.Questions))
	for _, wq := range resp.Questions {
		qs = append(qs, wq.toSession())
	}
	return &QuestionSet{Questions: qs, DurationSeconds: resp.DurationSeconds}, nil
}

// Submit sends the accumulated answers for server-side scoring and
// returns the score the server computed. The client never computes the
// authoritative score itself.
func (c *Client) Submit(ctx context.Context, credential string, answers map[string]session.Answer) (int, error) {
	status, body, err := c.post(ctx, "/submit", map[string]any{
		"password": credential,
		"answers":  answers,
	})
	if err != nil {
		return 0, &SubmitError{Err: err}
	}
	if status < 200 || status >= 300 {
		return 0, &SubmitError{StatusCode: status, Message: serverError(body)}
	}

	var resp struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &SubmitError{StatusCode: status, Err: err}
	}
	return resp.Score, nil
}

// Report delivers one integrity event. Callers treat the returned
// error as log-only: reporting must never block or fail the quiz flow.
func (c *Client) Report(ctx context.Context, credential, reason string, ts time.Time) error {
	status, body, err := c.post(ctx, "/report", map[string]string{
		"password":  credential,
		"reason":    reason,
		"timestamp": ts.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		if msg := serverError(body); msg != "" {
			return fmt.Errorf("report rejected: %s", msg)
		}
		return fmt.Errorf("report rejected (status %d)", status)
	}
	return nil
}

// Analyze fetches the detailed per-question report for a submitted
// quiz. Not part of the session flow; used by the report command.
func (c *Client) Analyze(ctx context.Context, credential string) (*AnalysisReport, error) {
	status, body, err := c.post(ctx, "/analyze", map[string]string{"password": credential})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if status < 200 || status >= 300 {
		if msg := serverError(body); msg != "" {
			return nil, fmt.Errorf("analyze rejected: %s", msg)
		}
		return nil, fmt.Errorf("analyze rejected (status %d)", status)
	}

	var report AnalysisReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("analyze: malformed response: %w", err)
	}
	return &report, nil
}
