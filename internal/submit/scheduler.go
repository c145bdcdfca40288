package submit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Timer is a pending callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock creates timers. The scheduler uses the wall clock unless a test
// supplies its own.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Key identifies a scheduled task: the form instance that owns it and the
// task's name within that instance.
type Key struct {
	Instance uuid.UUID
	Task     string
}

type scheduled struct {
	timer Timer
	gen   uint64
}

// Scheduler runs delayed tasks keyed by form instance. Scheduling a key
// that is already pending replaces the old task. A cancelled task never
// runs, even if its timer has already fired and is waiting on the lock.
type Scheduler struct {
	clock Clock

	mu    sync.Mutex
	tasks map[Key]scheduled
	gen   uint64
}

// NewScheduler creates a scheduler. A nil clock selects the wall clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = wallClock{}
	}
	return &Scheduler{clock: clock, tasks: make(map[Key]scheduled)}
}

// Schedule runs fn after d unless the key is cancelled or rescheduled first.
func (s *Scheduler) Schedule(key Key, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tasks[key]; ok {
		old.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.tasks[key] = scheduled{
		gen: gen,
		timer: s.clock.AfterFunc(d, func() {
			if s.claim(key, gen) {
				fn()
			}
		}),
	}
}

// claim removes the task if it is still the one registered under key.
func (s *Scheduler) claim(key Key, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[key]
	if !ok || t.gen != gen {
		return false
	}
	delete(s.tasks, key)
	return true
}

// Cancel drops the task under key. It reports whether one was pending.
func (s *Scheduler) Cancel(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, key)
	return true
}

// CancelInstance drops every task owned by instance and returns how many
// were pending.
func (s *Scheduler) CancelInstance(instance uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, t := range s.tasks {
		if k.Instance == instance {
			t.timer.Stop()
			delete(s.tasks, k)
			n++
		}
	}
	return n
}

// Pending reports whether a task is waiting under key.
func (s *Scheduler) Pending(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
