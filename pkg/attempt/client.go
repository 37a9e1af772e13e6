package attempt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Wire types mirror the server's JSON. The package stays importable
// without reaching into the server's internals.

// Question is one question as delivered to a student: no correct answer.
type Question struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// Payload is the redacted test a student receives.
type Payload struct {
	TestID          uuid.UUID  `json:"test_id"`
	ClassID         int        `json:"class_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	QuestionCount   int        `json:"question_count"`
	Questions       []Question `json:"questions"`
}

// Answer is one recorded choice.
type Answer struct {
	QuestionIndex  int    `json:"question_index"`
	SelectedAnswer string `json:"selected_answer"`
}

// Receipt confirms a submission. The score is not in it; fetch the
// result separately.
type Receipt struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Result is the graded outcome with the test attached for review.
type Result struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	TestID         uuid.UUID `json:"test_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Answers        []Answer  `json:"answers"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Test           *Payload  `json:"test"`
}

// APIError is a non-2xx response decoded from the server's envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Client speaks the test endpoints: fetch a payload, submit answers,
// fetch the result. baseURL points at the API root, e.g.
// "http://localhost:8060/api/v1".
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a client authenticating with the given bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchPayload retrieves the redacted test a student may take.
func (cl *Client) FetchPayload(ctx context.Context, testID uuid.UUID) (*Payload, error) {
	var data struct {
		Test Payload `json:"test"`
	}
	if err := cl.do(ctx, http.MethodGet, "/tests/"+testID.String(), nil, &data); err != nil {
		return nil, err
	}
	return &data.Test, nil
}

// Submit delivers the answers and returns the receipt.
func (cl *Client) Submit(ctx context.Context, testID uuid.UUID, answers []Answer) (*Receipt, error) {
	if answers == nil {
		answers = []Answer{}
	}
	reqBody := struct {
		TestID  uuid.UUID `json:"test_id"`
		Answers []Answer  `json:"answers"`
	}{TestID: testID, Answers: answers}

	var data struct {
		Submission Receipt `json:"submission"`
	}
	if err := cl.do(ctx, http.MethodPost, "/tests/submit", reqBody, &data); err != nil {
		return nil, err
	}
	return &data.Submission, nil
}

// Result retrieves the caller's graded result for a test.
func (cl *Client) Result(ctx context.Context, testID uuid.UUID) (*Result, error) {
	var data struct {
		Result Result `json:"result"`
	}
	if err := cl.do(ctx, http.MethodGet, "/tests/"+testID.String()+"/result", nil, &data); err != nil {
		return nil, err
	}
	return &data.Result, nil
}

// Begin fetches the test payload and builds a controller whose Submit
// posts through this client. The countdown does not tick until the
// caller invokes Start.
func (cl *Client) Begin(ctx context.Context, testID uuid.UUID, opts Opts) (*Controller, error) {
	payload, err := cl.FetchPayload(ctx, testID)
	if err != nil {
		return nil, err
	}
	if opts.Submit == nil {
		opts.Submit = func(ctx context.Context, answers []Answer) error {
			_, err := cl.Submit(ctx, testID, answers)
			return err
		}
	}
	return New(payload, opts), nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (cl *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, cl.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := cl.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
