// Package timer is the countdown state machine. The source of truth for a
// running phase is its absolute TargetEndTime; TimeRemaining is recomputed
// from the wall clock on every tick and on load, never decremented, so a
// timer that was not observed (process exited, machine asleep) is exactly as
// far along as the clock says.
//
// All functions take the store and the current time explicitly and mutate
// the store in place. None of them persist; the caller flushes.
package timer

import (
	"time"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/state"
)

type EventKind string

const (
	EventWorkCompleted  EventKind = "work_completed"
	EventBreakCompleted EventKind = "break_completed"
	EventAlert          EventKind = "alert"
)

type Event struct {
	Kind EventKind
	// At is when the phase expired, which can be well before the tick that
	// observed it.
	At time.Time
	// WorkEnd is the expired work phase's TargetEndTime (epoch ms). It
	// identifies the completion.
	WorkEnd      int64
	WorkMinutes  int
	BreakMinutes int
	Alert        Alert
}

// Remaining is the whole seconds left in the current phase at now.
func Remaining(ts *state.TimerState, now time.Time) int {
	if ts == nil {
		return 0
	}
	if ts.Status == state.StatusPaused {
		return max(ts.TimeRemaining, 0)
	}
	ms := ts.TargetEndTime - state.Millis(now)
	if ms <= 0 {
		return 0
	}
	return int((ms + 999) / 1000)
}

// Progress is the completed fraction of the current phase in [0, 1].
func Progress(ts *state.TimerState, now time.Time) float64 {
	if ts == nil || ts.TotalTime <= 0 {
		return 0
	}
	p := 1 - float64(Remaining(ts, now))/float64(ts.TotalTime)
	return min(max(p, 0), 1)
}

// Start begins a work phase from idle.
func Start(s *state.Store, p Preset, now time.Time) error {
	if err := p.validate(); err != nil {
		return err
	}
	if s.TimerState != nil {
		return apperr.InvalidState("cannot start: timer is %s", s.TimerState.Status)
	}
	total := p.Work * 60
	s.TimerState = &state.TimerState{
		Status:        state.StatusWorking,
		TimeRemaining: total,
		TotalTime:     total,
		TargetEndTime: state.Millis(now) + int64(total)*1000,
		WorkDuration:  p.Work,
		BreakDuration: p.Break,
		SavedAt:       state.Millis(now),
	}
	return nil
}

// Pause freezes a working or break phase.
func Pause(s *state.Store, now time.Time) error {
	ts := s.TimerState
	if ts == nil || (ts.Status != state.StatusWorking && ts.Status != state.StatusBreak) {
		return apperr.InvalidState("cannot pause: timer is %s", s.Status())
	}
	prev := ts.Status
	ms := max(ts.TargetEndTime-state.Millis(now), 0)
	ts.TimeRemaining = Remaining(ts, now)
	ts.PausedRemainingMs = ms
	ts.PausedStatus = &prev
	ts.Status = state.StatusPaused
	ts.SavedAt = state.Millis(now)
	return nil
}

// Resume restarts a paused phase with the remaining time it had when paused.
// States saved before PausedRemainingMs existed fall back to whole seconds.
func Resume(s *state.Store, now time.Time) error {
	ts := s.TimerState
	if ts == nil || ts.Status != state.StatusPaused {
		return apperr.InvalidState("cannot resume: timer is %s", s.Status())
	}
	resumeTo := state.StatusWorking
	if ts.PausedStatus != nil {
		resumeTo = *ts.PausedStatus
	}
	left := ts.PausedRemainingMs
	if left <= 0 {
		left = int64(ts.TimeRemaining) * 1000
	}
	ts.Status = resumeTo
	ts.PausedStatus = nil
	ts.PausedRemainingMs = 0
	ts.TargetEndTime = state.Millis(now) + left
	ts.SavedAt = state.Millis(now)
	return nil
}

// Stop abandons the session. Stopping never completes a work phase.
func Stop(s *state.Store, _ time.Time) error {
	if s.TimerState == nil {
		return apperr.InvalidState("cannot stop: timer is idle")
	}
	s.TimerState = nil
	return nil
}

// Skip ends a break early. A break paused mid-way can be skipped too.
func Skip(s *state.Store, _ time.Time) error {
	ts := s.TimerState
	onBreak := ts != nil && (ts.Status == state.StatusBreak ||
		(ts.Status == state.StatusPaused && ts.PausedStatus != nil && *ts.PausedStatus == state.StatusBreak))
	if !onBreak {
		return apperr.InvalidState("cannot skip: timer is %s", s.Status())
	}
	s.TimerState = nil
	return nil
}

// Tick reports alert thresholds crossed since the previous tick, performs
// any transitions whose target time has passed and refreshes TimeRemaining.
// TimeRemaining is the value the last tick saw; only Tick and phase changes
// move it, so commands between ticks cannot swallow an alert.
func Tick(s *state.Store, now time.Time, alerts state.Alerts) []Event {
	ts := s.TimerState
	if ts == nil || ts.Status == state.StatusPaused {
		return nil
	}
	var events []Event
	cur := Remaining(ts, now)
	if cur > 0 {
		for _, a := range crossed(ts, ts.TimeRemaining, cur, alerts) {
			events = append(events, Event{Kind: EventAlert, At: now, Alert: a})
		}
	}
	target := ts.TargetEndTime
	events = append(events, Advance(s, now)...)
	if s.TimerState == ts && ts.TargetEndTime == target {
		ts.TimeRemaining = cur
	}
	return events
}

// Advance performs every transition whose target time is at or before now.
// A break that follows a completed work phase starts at the work phase's
// expiry, so a long unobserved gap can carry a timer from working through
// break to idle in one call.
//
// s.LastCompletedWorkEnd records the TargetEndTime of the last reported work
// completion. Replaying that same expiry transitions the timer but reports
// nothing; any other expiry is a new completion, whether the clock has since
// moved back or the saved mark lies in the future.
func Advance(s *state.Store, now time.Time) []Event {
	var events []Event
	var moved bool
	nowMs := state.Millis(now)
	for s.TimerState != nil {
		ts := s.TimerState
		if ts.Status != state.StatusWorking && ts.Status != state.StatusBreak {
			break
		}
		if ts.TargetEndTime > nowMs {
			if moved {
				ts.TimeRemaining = Remaining(ts, now)
			}
			break
		}
		moved = true

		expiry := ts.TargetEndTime
		switch ts.Status {
		case state.StatusWorking:
			if expiry != s.LastCompletedWorkEnd {
				s.LastCompletedWorkEnd = expiry
				events = append(events, Event{
					Kind:         EventWorkCompleted,
					At:           state.FromMillis(expiry),
					WorkEnd:      expiry,
					WorkMinutes:  ts.WorkDuration,
					BreakMinutes: ts.BreakDuration,
				})
			}
			total := ts.BreakDuration * 60
			ts.Status = state.StatusBreak
			ts.TotalTime = total
			ts.TargetEndTime = expiry + int64(total)*1000
			ts.TimeRemaining = total
			ts.SavedAt = nowMs
		case state.StatusBreak:
			s.TimerState = nil
			events = append(events, Event{
				Kind:         EventBreakCompleted,
				At:           state.FromMillis(expiry),
				WorkMinutes:  ts.WorkDuration,
				BreakMinutes: ts.BreakDuration,
			})
		}
	}
	return events
}
