package game

import (
	"testing"
	"time"
)

func TestSchedulerDeadlineDelivers(t *testing.T) {
	actions := make(chan Action, 4)
	done := make(chan struct{})
	defer close(done)

	sch := newScheduler(actions, done)
	fire := make(chan time.Time, 1)
	sch.after = func(time.Duration) <-chan time.Time { return fire }

	sch.ScheduleDeadline(time.Minute, Action{Type: ActionPhaseTimeout, Phase: PhasePlay, Round: 3})
	fire <- time.Time{}

	select {
	case a := <-actions:
		if a.Type != ActionPhaseTimeout || a.Phase != PhasePlay || a.Round != 3 {
			t.Errorf("unexpected action delivered: %+v", a)
		}
	case <-time.After(time.Second):
		t.Fatal("deadline action never delivered")
	}
}

func TestSchedulerCancelStopsDeadline(t *testing.T) {
	actions := make(chan Action, 4)
	done := make(chan struct{})
	defer close(done)

	sch := newScheduler(actions, done)
	fire := make(chan time.Time, 1)
	sch.after = func(time.Duration) <-chan time.Time { return fire }

	sch.ScheduleDeadline(time.Minute, Action{Type: ActionPhaseTimeout})
	sch.CancelAll()
	time.Sleep(20 * time.Millisecond)
	fire <- time.Time{}

	select {
	case a := <-actions:
		t.Errorf("cancelled deadline still delivered %+v", a)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSchedulerTickRepeats(t *testing.T) {
	actions := make(chan Action, 4)
	done := make(chan struct{})
	defer close(done)

	sch := newScheduler(actions, done)
	fire := make(chan time.Time, 2)
	sch.after = func(time.Duration) <-chan time.Time { return fire }

	sch.StartTick(time.Second, Action{Type: ActionTick})
	fire <- time.Time{}
	fire <- time.Time{}

	for i := 0; i < 2; i++ {
		select {
		case a := <-actions:
			if a.Type != ActionTick {
				t.Errorf("unexpected action: %+v", a)
			}
		case <-time.After(time.Second):
			t.Fatalf("tick %d never delivered", i+1)
		}
	}
	sch.CancelAll()
}

func TestSchedulerDelayDelivers(t *testing.T) {
	actions := make(chan Action, 4)
	done := make(chan struct{})
	defer close(done)

	sch := newScheduler(actions, done)
	fire := make(chan time.Time, 1)
	sch.after = func(time.Duration) <-chan time.Time { return fire }

	sch.ScheduleDelay(time.Second, Action{Type: ActionBotSubmit, Round: 2})
	fire <- time.Time{}

	select {
	case a := <-actions:
		if a.Type != ActionBotSubmit || a.Round != 2 {
			t.Errorf("unexpected action: %+v", a)
		}
	case <-time.After(time.Second):
		t.Fatal("delay action never delivered")
	}
}

func TestSchedulerRearmReplacesDeadline(t *testing.T) {
	actions := make(chan Action, 4)
	done := make(chan struct{})
	defer close(done)

	sch := newScheduler(actions, done)
	fire := make(chan time.Time, 2)
	sch.after = func(time.Duration) <-chan time.Time { return fire }

	sch.ScheduleDeadline(time.Minute, Action{Type: ActionPhaseTimeout, Round: 1})
	sch.ScheduleDeadline(time.Minute, Action{Type: ActionPhaseTimeout, Round: 2})
	time.Sleep(20 * time.Millisecond)
	fire <- time.Time{}
	fire <- time.Time{}

	select {
	case a := <-actions:
		if a.Round != 2 {
			t.Errorf("stale deadline delivered: %+v", a)
		}
	case <-time.After(time.Second):
		t.Fatal("rearmed deadline never delivered")
	}

	select {
	case a := <-actions:
		t.Errorf("replaced deadline also delivered %+v", a)
	case <-time.After(50 * time.Millisecond):
	}
}
