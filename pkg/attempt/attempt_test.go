package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeClock is a manually advanced clock for deterministic countdowns.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func testPayload() *Payload {
	return &Payload{
		TestID:          uuid.New(),
		ClassID:         1,
		Title:           "Algebra Basics",
		DurationMinutes: 30,
		QuestionCount:   3,
		Questions: []Question{
			{QuestionText: "1+1?", Options: []string{"1", "2"}},
			{QuestionText: "2+2?", Options: []string{"3", "4"}},
			{QuestionText: "3+3?", Options: []string{"5", "6"}},
		},
	}
}

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		letter  string
		wantErr error
	}{
		{"valid uppercase", 0, "A", nil},
		{"valid lowercase", 1, "b", nil},
		{"valid padded", 2, "  c ", nil},
		{"empty letter", 0, "", ErrInvalidAnswer},
		{"two letters", 0, "AB", ErrInvalidAnswer},
		{"beyond F", 0, "G", ErrInvalidAnswer},
		{"digit", 0, "1", ErrInvalidAnswer},
		{"negative index", -1, "A", ErrIndexOutOfRange},
		{"index past end", 3, "A", ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(testPayload(), Opts{})
			err := c.Record(tt.index, tt.letter)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Record(%d, %q): expected %v, got %v", tt.index, tt.letter, tt.wantErr, err)
			}
		})
	}
}

func TestRecordLastWins(t *testing.T) {
	c := New(testPayload(), Opts{})
	if err := c.Record(0, "A"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Record(0, "b"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	answers := c.Answers()
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(answers))
	}
	if answers[0].SelectedAnswer != "B" {
		t.Errorf("expected last write B, got %q", answers[0].SelectedAnswer)
	}
}

func TestAnswersOrderedByIndex(t *testing.T) {
	c := New(testPayload(), Opts{})
	for _, rec := range []struct {
		idx    int
		letter string
	}{{2, "C"}, {0, "A"}, {1, "B"}} {
		if err := c.Record(rec.idx, rec.letter); err != nil {
			t.Fatalf("Record(%d): %v", rec.idx, err)
		}
	}

	answers := c.Answers()
	for i, a := range answers {
		if a.QuestionIndex != i {
			t.Errorf("position %d: expected index %d, got %d", i, i, a.QuestionIndex)
		}
	}
}

func TestSubmitExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	c := New(testPayload(), Opts{
		Submit: func(ctx context.Context, answers []Answer) error {
			calls.Add(1)
			return nil
		},
	})

	if err := c.Record(0, "A"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if err := c.Submit(context.Background()); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second Submit: expected ErrAlreadySubmitted, got %v", err)
	}
	if err := c.Record(1, "B"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Record after submit: expected ErrAlreadySubmitted, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 submit call, got %d", got)
	}
	if !c.Submitted() {
		t.Error("Submitted() should be true")
	}
}

func TestSubmitRetryAfterFailure(t *testing.T) {
	var calls atomic.Int32
	c := New(testPayload(), Opts{
		Submit: func(ctx context.Context, answers []Answer) error {
			if calls.Add(1) == 1 {
				return fmt.Errorf("connection refused")
			}
			return nil
		},
	})

	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected first Submit to fail")
	}
	if c.Submitted() {
		t.Fatal("failed submit should reopen the guard")
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 submit calls, got %d", got)
	}
}

func TestSubmitWithoutFunc(t *testing.T) {
	c := New(testPayload(), Opts{})
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !c.Submitted() {
		t.Error("Submitted() should be true")
	}
}

func TestExpiryFiresOnceAndAutoSubmits(t *testing.T) {
	clock := newFakeClock()
	var expires, submits atomic.Int32
	expired := make(chan struct{}, 4)

	c := New(testPayload(), Opts{
		Now:          clock.Now,
		TickInterval: time.Millisecond,
		OnExpire: func() {
			expires.Add(1)
			expired <- struct{}{}
		},
		AutoSubmit: true,
		Submit: func(ctx context.Context, answers []Answer) error {
			submits.Add(1)
			return nil
		},
	})
	if err := c.Record(0, "A"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	clock.Advance(31 * time.Minute)

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
	}
	// Give a hypothetical double fire a chance to happen.
	time.Sleep(20 * time.Millisecond)

	if got := expires.Load(); got != 1 {
		t.Errorf("expected 1 expiry, got %d", got)
	}
	if got := submits.Load(); got != 1 {
		t.Errorf("expected 1 auto-submit, got %d", got)
	}
	if err := c.Submit(ctx); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("manual Submit after expiry: expected ErrAlreadySubmitted, got %v", err)
	}
	if err := c.Record(1, "B"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Record after auto-submit: expected ErrAlreadySubmitted, got %v", err)
	}
	if !c.Expired() {
		t.Error("Expired() should be true")
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	clock := newFakeClock()
	c := New(testPayload(), Opts{Now: clock.Now})

	if got, want := c.Remaining(), 30*time.Minute; got != want {
		t.Errorf("expected %v remaining, got %v", want, got)
	}
	clock.Advance(2 * time.Hour)
	if got := c.Remaining(); got != 0 {
		t.Errorf("expected 0 remaining, got %v", got)
	}
	if !c.Expired() {
		t.Error("Expired() should be true")
	}
}

func TestSnapshotRestorePreservesDeadline(t *testing.T) {
	clock := newFakeClock()
	payload := testPayload()

	c := New(payload, Opts{Now: clock.Now})
	if err := c.Record(0, "A"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Record(2, "C"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	raw, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// Simulate a crash: 10 minutes pass before the client comes back.
	clock.Advance(10 * time.Minute)

	restored, err := Restore(payload, raw, Opts{Now: clock.Now})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.Deadline().Equal(c.Deadline()) {
		t.Errorf("deadline moved: %v vs %v", restored.Deadline(), c.Deadline())
	}
	if got, want := restored.Remaining(), 20*time.Minute; got != want {
		t.Errorf("expected %v remaining after restore, got %v", want, got)
	}

	answers := restored.Answers()
	if len(answers) != 2 {
		t.Fatalf("expected 2 restored answers, got %d", len(answers))
	}
	if answers[0].SelectedAnswer != "A" || answers[1].SelectedAnswer != "C" {
		t.Errorf("answers corrupted: %+v", answers)
	}
}

func TestRestoreExpiredSnapshot(t *testing.T) {
	clock := newFakeClock()
	payload := testPayload()

	c := New(payload, Opts{Now: clock.Now})
	raw, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	clock.Advance(45 * time.Minute)

	restored, err := Restore(payload, raw, Opts{Now: clock.Now})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.Expired() {
		t.Error("a snapshot past its deadline should restore expired")
	}
	if got := restored.Remaining(); got != 0 {
		t.Errorf("expected 0 remaining, got %v", got)
	}
}

func TestRestoreRejectsWrongTest(t *testing.T) {
	c := New(testPayload(), Opts{})
	raw, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	other := testPayload() // Fresh random test ID.
	if _, err := Restore(other, raw, Opts{}); !errors.Is(err, ErrSnapshotMismatch) {
		t.Errorf("expected ErrSnapshotMismatch, got %v", err)
	}
}

func TestRestoreRejectsCorruptAnswers(t *testing.T) {
	payload := testPayload()
	snap := Snapshot{
		TestID:    payload.TestID,
		StartedAt: time.Now(),
		Answers:   []Answer{{QuestionIndex: 0, SelectedAnswer: "Z"}},
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if _, err := Restore(payload, raw, Opts{}); !errors.Is(err, ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer, got %v", err)
	}
}

func TestStopHaltsTicks(t *testing.T) {
	clock := newFakeClock()
	var ticks atomic.Int32

	c := New(testPayload(), Opts{
		Now:          clock.Now,
		TickInterval: time.Millisecond,
		OnTick: func(remaining time.Duration) {
			ticks.Add(1)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	// Let a few ticks land, then stop and make sure the counter settles.
	time.Sleep(20 * time.Millisecond)
	c.Stop()
	time.Sleep(10 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)

	if got := ticks.Load(); got != settled {
		t.Errorf("ticks continued after Stop: %d then %d", settled, got)
	}
	if settled == 0 {
		t.Error("expected at least one tick before Stop")
	}
}
