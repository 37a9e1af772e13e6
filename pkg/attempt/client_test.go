package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeServer emulates the test endpoints behind the standard envelope.
type fakeServer struct {
	payload     *Payload
	submits     atomic.Int32
	lastAuth    string
	lastRequest struct {
		TestID  uuid.UUID `json:"test_id"`
		Answers []Answer  `json:"answers"`
	}
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	testPath := "/api/v1/tests/" + f.payload.TestID.String()

	mux.HandleFunc(testPath, func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"test": f.payload}, "", "")
	})
	mux.HandleFunc("/api/v1/tests/submit", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&f.lastRequest); err != nil {
			writeEnvelope(w, http.StatusBadRequest, nil, "PARSE_ERROR", "malformed request body")
			return
		}
		if f.submits.Add(1) > 1 {
			writeEnvelope(w, http.StatusConflict, nil, "ALREADY_SUBMITTED", "this test was already submitted")
			return
		}
		receipt := Receipt{SubmissionID: uuid.New(), SubmittedAt: time.Now().UTC()}
		writeEnvelope(w, http.StatusCreated, map[string]interface{}{"submission": receipt}, "", "")
	})
	mux.HandleFunc(testPath+"/result", func(w http.ResponseWriter, r *http.Request) {
		result := Result{
			SubmissionID:   uuid.New(),
			TestID:         f.payload.TestID,
			Score:          2,
			TotalQuestions: 3,
			Answers:        []Answer{{QuestionIndex: 0, SelectedAnswer: "A"}},
			SubmittedAt:    time.Now().UTC(),
			Test:           f.payload,
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"result": result}, "", "")
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, errCode, errMessage string) {
	body := map[string]interface{}{
		"data": data,
		"metadata": map[string]string{
			"request_id": uuid.New().String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		},
	}
	if errCode != "" {
		body["error"] = map[string]string{"code": errCode, "message": errMessage}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newFakeServer(t *testing.T) (*fakeServer, *Client) {
	t.Helper()
	fake := &fakeServer{payload: testPayload()}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return fake, NewClient(srv.URL+"/api/v1", "test-token")
}

func TestClientFetchPayload(t *testing.T) {
	fake, client := newFakeServer(t)

	payload, err := client.FetchPayload(context.Background(), fake.payload.TestID)
	if err != nil {
		t.Fatalf("FetchPayload: %v", err)
	}
	if payload.TestID != fake.payload.TestID {
		t.Errorf("test ID mismatch: %s vs %s", payload.TestID, fake.payload.TestID)
	}
	if payload.Title != fake.payload.Title {
		t.Errorf("expected title %q, got %q", fake.payload.Title, payload.Title)
	}
	if len(payload.Questions) != len(fake.payload.Questions) {
		t.Errorf("expected %d questions, got %d", len(fake.payload.Questions), len(payload.Questions))
	}
	if fake.lastAuth != "Bearer test-token" {
		t.Errorf("expected bearer token, got %q", fake.lastAuth)
	}
}

func TestClientSubmitAndResult(t *testing.T) {
	fake, client := newFakeServer(t)
	ctx := context.Background()

	answers := []Answer{{QuestionIndex: 0, SelectedAnswer: "A"}, {QuestionIndex: 1, SelectedAnswer: "B"}}
	receipt, err := client.Submit(ctx, fake.payload.TestID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if receipt.SubmissionID == uuid.Nil {
		t.Error("receipt missing submission ID")
	}
	if fake.lastRequest.TestID != fake.payload.TestID {
		t.Errorf("submitted wrong test ID: %s", fake.lastRequest.TestID)
	}
	if len(fake.lastRequest.Answers) != 2 {
		t.Errorf("expected 2 answers on the wire, got %d", len(fake.lastRequest.Answers))
	}

	result, err := client.Result(ctx, fake.payload.TestID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if result.Score != 2 || result.TotalQuestions != 3 {
		t.Errorf("unexpected result: %d/%d", result.Score, result.TotalQuestions)
	}
	if result.Test == nil {
		t.Error("result missing attached test")
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	fake, client := newFakeServer(t)
	ctx := context.Background()

	if _, err := client.Submit(ctx, fake.payload.TestID, nil); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := client.Submit(ctx, fake.payload.TestID, nil)
	if err == nil {
		t.Fatal("expected duplicate submit to fail")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("expected status 409, got %d", apiErr.Status)
	}
	if apiErr.Code != "ALREADY_SUBMITTED" {
		t.Errorf("expected code ALREADY_SUBMITTED, got %q", apiErr.Code)
	}
}

func TestClientBeginWiresSubmit(t *testing.T) {
	fake, client := newFakeServer(t)
	ctx := context.Background()

	c, err := client.Begin(ctx, fake.payload.TestID, Opts{})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.Record(0, "A"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := fake.submits.Load(); got != 1 {
		t.Fatalf("expected 1 submit on the server, got %d", got)
	}

	// The local guard trips before any second request leaves the client.
	if err := c.Submit(ctx); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("expected ErrAlreadySubmitted, got %v", err)
	}
	if got := fake.submits.Load(); got != 1 {
		t.Errorf("server saw %d submits, expected 1", got)
	}
}
