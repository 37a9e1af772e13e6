// Package attempt implements the client side of taking a test: a local
// countdown seeded from the test's duration, answer recording and a
// submit guard that fires exactly once.
//
// Timing is advisory. The server accepts a submission regardless of how
// long the attempt took; the countdown exists so clients can render a
// timer and auto-submit on expiry, not as a security boundary.
package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadySubmitted is returned by Submit and Record once the
	// attempt's answers have been handed off.
	ErrAlreadySubmitted = errors.New("attempt already submitted")

	// ErrIndexOutOfRange is returned by Record for a question index the
	// test does not have.
	ErrIndexOutOfRange = errors.New("question index out of range")

	// ErrInvalidAnswer is returned by Record for anything but a single
	// letter A-F.
	ErrInvalidAnswer = errors.New("answer must be a single letter A-F")

	// ErrSnapshotMismatch is returned by Restore when the snapshot was
	// taken for a different test.
	ErrSnapshotMismatch = errors.New("snapshot belongs to a different test")
)

// SubmitFunc delivers the recorded answers, usually over HTTP.
type SubmitFunc func(ctx context.Context, answers []Answer) error

// Opts configures a Controller. The zero value is usable: no callbacks,
// no auto-submit, real clock, 1-second ticks.
type Opts struct {
	// OnTick is called once per tick with the remaining time.
	OnTick func(remaining time.Duration)

	// OnExpire is called exactly once when the countdown reaches zero.
	// Requires Start.
	OnExpire func()

	// Submit delivers the answers. When nil, Submit only trips the local
	// guard, which is enough for offline use and tests.
	Submit SubmitFunc

	// AutoSubmit submits the recorded answers when the countdown
	// expires, through the same exactly-once path as a manual Submit.
	AutoSubmit bool

	// OnSubmitError receives the error when an expiry-triggered submit
	// fails. Manual Submit errors are returned directly.
	OnSubmitError func(err error)

	// Now overrides the clock in tests.
	Now func() time.Time

	// TickInterval overrides the 1-second tick in tests.
	TickInterval time.Duration
}

// Controller runs one attempt at a test. All methods are safe for
// concurrent use; the tick loop runs on its own goroutine after Start.
type Controller struct {
	mu        sync.Mutex
	payload   *Payload
	started   time.Time
	deadline  time.Time
	answers   map[int]string
	submitted bool
	expired   bool

	now          func() time.Time
	tickInterval time.Duration
	onTick       func(remaining time.Duration)
	onExpire     func()
	submit       SubmitFunc
	autoSubmit   bool
	onSubmitErr  func(err error)

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a controller for the given test payload. The deadline is
// started + duration; time.Now carries a monotonic reading, so a wall
// clock jump does not move it. The countdown does not tick until Start.
func New(payload *Payload, opts Opts) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return newController(payload, opts, now())
}

func newController(payload *Payload, opts Opts, started time.Time) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Controller{
		payload:      payload,
		started:      started,
		deadline:     started.Add(time.Duration(payload.DurationMinutes) * time.Minute),
		answers:      make(map[int]string),
		now:          now,
		tickInterval: interval,
		onTick:       opts.OnTick,
		onExpire:     opts.OnExpire,
		submit:       opts.Submit,
		autoSubmit:   opts.AutoSubmit,
		onSubmitErr:  opts.OnSubmitError,
		stop:         make(chan struct{}),
	}
}

// Start begins the countdown. Ticks run until the context is cancelled,
// Stop is called or the countdown expires.
func (c *Controller) Start(ctx context.Context) {
	go c.run(ctx)
}

// Stop ends the countdown without submitting. Safe to call more than
// once; use it when the attempt view is torn down.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// Remaining returns the time left on the countdown, never negative.
func (c *Controller) Remaining() time.Duration {
	if r := c.deadline.Sub(c.now()); r > 0 {
		return r
	}
	return 0
}

// Deadline returns the absolute end of the attempt window.
func (c *Controller) Deadline() time.Time {
	return c.deadline
}

// Expired reports whether the countdown has reached zero. Computed from
// the clock, so it is accurate even without Start.
func (c *Controller) Expired() bool {
	return c.Remaining() == 0
}

// Submitted reports whether the answers have been handed off.
func (c *Controller) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// Record upserts the answer for a question; recording the same index
// again overwrites the previous choice. The letter is trimmed and
// upper-cased before validation. Fails once the attempt is submitted.
func (c *Controller) Record(questionIndex int, letter string) error {
	normalized := strings.ToUpper(strings.TrimSpace(letter))
	if len(normalized) != 1 || normalized[0] < 'A' || normalized[0] > 'F' {
		return ErrInvalidAnswer
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return ErrAlreadySubmitted
	}
	if questionIndex < 0 || questionIndex >= len(c.payload.Questions) {
		return ErrIndexOutOfRange
	}
	c.answers[questionIndex] = normalized
	return nil
}

// Answers returns the recorded answers ordered by question index.
func (c *Controller) Answers() []Answer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answersLocked()
}

// Submit hands the recorded answers to the configured SubmitFunc. Only
// one call ever goes through: concurrent and repeat calls get
// ErrAlreadySubmitted. A transport failure reopens the guard so the
// caller can retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	c.submitted = true
	answers := c.answersLocked()
	submit := c.submit
	c.mu.Unlock()

	if submit != nil {
		if err := submit(ctx, answers); err != nil {
			c.mu.Lock()
			c.submitted = false
			c.mu.Unlock()
			return err
		}
	}

	c.Stop()
	return nil
}

// Snapshot serializes {test_id, started_at, answers} so a crashed client
// can resume with the original deadline.
func (c *Controller) Snapshot() ([]byte, error) {
	c.mu.Lock()
	snap := Snapshot{
		TestID:    c.payload.TestID,
		StartedAt: c.started,
		Answers:   c.answersLocked(),
	}
	c.mu.Unlock()
	return json.Marshal(snap)
}

// Restore rebuilds a controller from a Snapshot. The deadline is
// recomputed from the snapshot's started_at, so time spent down still
// counts against the attempt. A snapshot taken past the deadline yields
// a controller that is already expired.
func Restore(payload *Payload, raw []byte, opts Opts) (*Controller, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.TestID != payload.TestID {
		return nil, ErrSnapshotMismatch
	}

	c := newController(payload, opts, snap.StartedAt)
	for _, a := range snap.Answers {
		if err := c.Record(a.QuestionIndex, a.SelectedAnswer); err != nil {
			return nil, fmt.Errorf("restore answer %d: %w", a.QuestionIndex, err)
		}
	}
	return c, nil
}

// Snapshot is the serialized resume state of an attempt.
type Snapshot struct {
	TestID    uuid.UUID `json:"test_id"`
	StartedAt time.Time `json:"started_at"`
	Answers   []Answer  `json:"answers"`
}

func (c *Controller) run(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			remaining := c.Remaining()
			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining > 0 {
				continue
			}
			c.fireExpiry(ctx)
			return
		}
	}
}

// fireExpiry runs the expiry path at most once.
func (c *Controller) fireExpiry(ctx context.Context) {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	c.mu.Unlock()

	if c.onExpire != nil {
		c.onExpire()
	}
	if c.autoSubmit {
		// A manual Submit racing the timer is harmless: whichever loses
		// gets ErrAlreadySubmitted.
		if err := c.Submit(ctx); err != nil && !errors.Is(err, ErrAlreadySubmitted) {
			if c.onSubmitErr != nil {
				c.onSubmitErr(err)
			}
		}
	}
}

// answersLocked flattens the answer map in question order. Callers hold mu.
func (c *Controller) answersLocked() []Answer {
	indexes := make([]int, 0, len(c.answers))
	for i := range c.answers {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]Answer, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, Answer{QuestionIndex: i, SelectedAnswer: c.answers[i]})
	}
	return out
}
