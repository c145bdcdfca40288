package submit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/session"
)

var (
	// ErrInFlight is returned by Submit while an attempt is validating or
	// waiting on the backend.
	ErrInFlight = errors.New("submission already in progress")

	// ErrClosed is returned once the coordinator has been torn down.
	ErrClosed = errors.New("submission coordinator closed")
)

// Status is the coordinator's state.
type Status int

const (
	Idle Status = iota
	Validating
	Submitting
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Transient reports whether the status reverts to Idle on its own.
func (s Status) Transient() bool { return s == Success || s == Failure }

// Outcome is what the user sees. Message is the success text for Success
// and the backend's detail (verbatim) for Failure.
type Outcome struct {
	Status  Status
	Message string
}

// Result is returned by Submit.
type Result struct {
	Outcome Outcome
	// Errors is non-empty when validation stopped the attempt.
	Errors form.Errors
}

// Submission is the work of one attempt.
type Submission struct {
	// Validate checks the snapshot being submitted.
	Validate func() form.Errors
	// Send calls the backend.
	Send func(ctx context.Context) (*api.Response, error)
	// OnSuccess runs after the backend accepted the request. An error
	// turns the attempt into a Failure.
	OnSuccess func(ctx context.Context, resp *api.Response) error
}

// EventKind distinguishes transitions from redirect requests.
type EventKind int

const (
	EventTransition EventKind = iota
	EventRedirect
)

// Event is delivered to the observer for every transition and redirect.
// Seq increases monotonically per coordinator; observers that may receive
// events from several goroutines should drop any event older than the last
// one they applied.
type Event struct {
	Seq      uint64
	Instance uuid.UUID
	Flow     string
	Kind     EventKind
	From     Status
	To       Status
	Outcome  Outcome
	Redirect string
}

// Observer receives coordinator events. It is called without the
// coordinator's lock held, possibly from a timer goroutine.
type Observer func(Event)

const (
	taskRevert   = "revert"
	taskRedirect = "redirect"
)

// Coordinator drives one form instance through
// Idle -> Validating -> Submitting -> Success|Failure -> Idle.
// Only one attempt runs at a time.
type Coordinator struct {
	id       uuid.UUID
	flow     Flow
	sched    *Scheduler
	observer Observer

	mu      sync.Mutex
	outcome Outcome
	seq     uint64
	closed  bool
	cancel  context.CancelFunc
}

// New creates a coordinator for flow. A nil scheduler gets a private one on
// the wall clock; observer may be nil.
func New(flow Flow, sched *Scheduler, observer Observer) *Coordinator {
	if sched == nil {
		sched = NewScheduler(nil)
	}
	return &Coordinator{
		id:       uuid.New(),
		flow:     flow,
		sched:    sched,
		observer: observer,
	}
}

// ID returns the form-instance identity keying this coordinator's tasks.
func (c *Coordinator) ID() uuid.UUID { return c.id }

// Flow returns the flow this coordinator runs.
func (c *Coordinator) Flow() Flow { return c.flow }

// Outcome returns the current outcome.
func (c *Coordinator) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Submit runs one attempt. Validation failures return to Idle with the
// errors in Result and never call Send. Backend rejections and transport
// failures become a Failure outcome, not an error; the returned error is
// reserved for ErrInFlight and ErrClosed.
func (c *Coordinator) Submit(ctx context.Context, sub Submission) (Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{}, ErrClosed
	}
	if s := c.outcome.Status; s == Validating || s == Submitting {
		c.mu.Unlock()
		return Result{Outcome: c.outcome}, ErrInFlight
	}
	c.sched.Cancel(c.key(taskRevert))
	c.sched.Cancel(c.key(taskRedirect))
	ev := c.transition(Outcome{Status: Validating})
	c.mu.Unlock()
	c.emit(ev)

	var errs form.Errors
	if sub.Validate != nil {
		errs = sub.Validate()
	}
	if !errs.Valid() {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return Result{Errors: errs}, ErrClosed
		}
		ev := c.transition(Outcome{Status: Idle})
		c.mu.Unlock()
		c.emit(ev)
		return Result{Outcome: Outcome{Status: Idle}, Errors: errs}, nil
	}

	sendCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{}, ErrClosed
	}
	c.cancel = cancel
	ev = c.transition(Outcome{Status: Submitting})
	c.mu.Unlock()
	c.emit(ev)

	outcome := c.dispatch(sendCtx, sub)

	c.mu.Lock()
	c.cancel = nil
	if c.closed {
		c.mu.Unlock()
		return Result{Outcome: outcome}, ErrClosed
	}
	ev = c.transition(outcome)
	c.sched.Schedule(c.key(taskRevert), c.flow.revertDelay(), c.revert)
	if outcome.Status == Success && c.flow.Redirect != "" {
		c.sched.Schedule(c.key(taskRedirect), c.flow.RedirectAfter, c.redirect)
	}
	c.mu.Unlock()
	c.emit(ev)

	return Result{Outcome: outcome}, nil
}

func (c *Coordinator) dispatch(ctx context.Context, sub Submission) Outcome {
	if sub.Send == nil {
		return Outcome{Status: Failure, Message: GenericFailureMessage}
	}

	resp, err := sub.Send(ctx)
	if err != nil {
		logging.Warn("Submission failed before a response",
			zap.String("flow", c.flow.Name),
			zap.Error(err),
		)
		return Outcome{Status: Failure, Message: failureText(err)}
	}

	if !resp.Accepted(c.flow.Accepted...) {
		msg := resp.Detail()
		if msg == "" {
			msg = GenericFailureMessage
		}
		return Outcome{Status: Failure, Message: msg}
	}

	if sub.OnSuccess != nil {
		if err := sub.OnSuccess(ctx, resp); err != nil {
			logging.Error("Success hook failed",
				zap.String("flow", c.flow.Name),
				zap.Error(err),
			)
			return Outcome{Status: Failure, Message: failureText(err)}
		}
	}
	return Outcome{Status: Success, Message: c.flow.SuccessMessage}
}

func failureText(err error) string {
	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return NotLoggedInMessage
	case api.IsValidationError(err):
		return "Dados inválidos: " + validationMessage(err)
	case api.IsNetworkError(err), api.IsCanceled(err):
		return UnreachableMessage
	default:
		return GenericFailureMessage
	}
}

func validationMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (c *Coordinator) revert() {
	c.mu.Lock()
	if c.closed || !c.outcome.Status.Transient() {
		c.mu.Unlock()
		return
	}
	ev := c.transition(Outcome{Status: Idle})
	c.mu.Unlock()
	c.emit(ev)
}

func (c *Coordinator) redirect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.seq++
	ev := Event{
		Seq:      c.seq,
		Instance: c.id,
		Flow:     c.flow.Name,
		Kind:     EventRedirect,
		From:     c.outcome.Status,
		To:       c.outcome.Status,
		Outcome:  c.outcome,
		Redirect: c.flow.Redirect,
	}
	c.mu.Unlock()
	c.emit(ev)
}

// transition must be called with c.mu held.
func (c *Coordinator) transition(to Outcome) Event {
	from := c.outcome.Status
	c.outcome = to
	c.seq++
	logging.LogTransition(c.id.String(), c.flow.Name, from.String(), to.Status.String())
	return Event{
		Seq:      c.seq,
		Instance: c.id,
		Flow:     c.flow.Name,
		Kind:     EventTransition,
		From:     from,
		To:       to.Status,
		Outcome:  to,
	}
}

func (c *Coordinator) emit(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

func (c *Coordinator) key(task string) Key {
	return Key{Instance: c.id, Task: task}
}

// Close tears the coordinator down: pending timers are cancelled, an
// in-flight request is abandoned, and no further events are delivered.
// Close is idempotent.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	if n := c.sched.CancelInstance(c.id); n > 0 {
		logging.Debug("Cancelled pending tasks on teardown",
			zap.String("instance", c.id.String()),
			zap.Int("tasks", n),
		)
	}
}

// Pending reports whether the revert or redirect timer is armed.
func (c *Coordinator) Pending() (revert, redirect bool) {
	return c.sched.Pending(c.key(taskRevert)), c.sched.Pending(c.key(taskRedirect))
}

func (f Flow) revertDelay() time.Duration {
	if f.RevertAfter > 0 {
		return f.RevertAfter
	}
	return DefaultRevertAfter
}
