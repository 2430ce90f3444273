package game

import "time"

// Scheduler owns the session's timers: at most one phase deadline and one
// periodic broadcast tick are outstanding at any time. Expiry never
// mutates state directly; it re-enters the session loop as an Action, and
// the handler re-validates phase and round on receipt. All methods are
// called from the session goroutine only.
type Scheduler struct {
	actions chan<- Action
	done    <-chan struct{}

	// after is time.After in production; tests inject manual channels.
	after func(time.Duration) <-chan time.Time

	deadlineCancel chan struct{}
	tickCancel     chan struct{}
}

func newScheduler(actions chan<- Action, done <-chan struct{}) *Scheduler {
	return &Scheduler{actions: actions, done: done, after: time.After}
}

// CancelAll stops the outstanding deadline and tick, if any. Every phase
// transition calls this before optionally scheduling new timers.
func (s *Scheduler) CancelAll() {
	s.cancelDeadline()
	s.cancelTick()
}

func (s *Scheduler) cancelDeadline() {
	if s.deadlineCancel != nil {
		close(s.deadlineCancel)
		s.deadlineCancel = nil
	}
}

func (s *Scheduler) cancelTick() {
	if s.tickCancel != nil {
		close(s.tickCancel)
		s.tickCancel = nil
	}
}

// ScheduleDeadline cancels any outstanding deadline and arms a new one
// that sends expire into the session loop after d.
func (s *Scheduler) ScheduleDeadline(d time.Duration, expire Action) {
	s.cancelDeadline()
	cancel := make(chan struct{})
	s.deadlineCancel = cancel
	go func() {
		select {
		case <-s.after(d):
			select {
			case s.actions <- expire:
			case <-s.done:
			}
		case <-cancel:
		case <-s.done:
		}
	}()
}

// StartTick cancels any outstanding tick and starts a new periodic one
// that sends tick into the session loop every interval.
func (s *Scheduler) StartTick(interval time.Duration, tick Action) {
	s.cancelTick()
	cancel := make(chan struct{})
	s.tickCancel = cancel
	go func() {
		for {
			select {
			case <-s.after(interval):
				select {
				case s.actions <- tick:
				case <-cancel:
					return
				case <-s.done:
					return
				}
			case <-cancel:
				return
			case <-s.done:
				return
			}
		}
	}()
}

// ScheduleDelay arms a one-shot action after d, outside the
// deadline/tick pair. Used for bot thinking delays; it is not cancelled
// on phase transitions, and the resulting handlers re-validate phase and
// role before acting.
func (s *Scheduler) ScheduleDelay(d time.Duration, a Action) {
	go func() {
		select {
		case <-s.after(d):
			select {
			case s.actions <- a:
			case <-s.done:
			}
		case <-s.done:
		}
	}()
}
