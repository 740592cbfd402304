package timer

import (
	"time"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/state"
)

// clockSkew is how far in the future a saved timestamp may be before the
// state is considered corrupt.
const clockSkew = time.Minute

// Validate reports whether a persisted timer state is consistent enough to
// resume at now.
func Validate(ts *state.TimerState, now time.Time) error {
	if ts == nil {
		return nil
	}
	switch ts.Status {
	case state.StatusWorking, state.StatusBreak, state.StatusPaused:
	default:
		return apperr.New(apperr.CodeDecode, "timer status %q cannot be resumed", ts.Status)
	}
	if ts.TotalTime <= 0 || ts.WorkDuration < 1 || ts.BreakDuration < 1 {
		return apperr.New(apperr.CodeDecode, "timer durations are not positive")
	}
	if ts.SavedAt > state.Millis(now.Add(clockSkew)) {
		return apperr.New(apperr.CodeDecode, "timer saved in the future")
	}
	if ts.Status == state.StatusPaused {
		if ts.PausedStatus == nil || (*ts.PausedStatus != state.StatusWorking && *ts.PausedStatus != state.StatusBreak) {
			return apperr.New(apperr.CodeDecode, "paused timer has no phase to resume")
		}
		if ts.TimeRemaining < 0 || ts.TimeRemaining > ts.TotalTime {
			return apperr.New(apperr.CodeDecode, "paused timer remaining %ds outside [0, %d]", ts.TimeRemaining, ts.TotalTime)
		}
		if ts.PausedRemainingMs < 0 || ts.PausedRemainingMs > int64(ts.TotalTime)*1000 {
			return apperr.New(apperr.CodeDecode, "paused timer remaining %dms outside the phase", ts.PausedRemainingMs)
		}
		return nil
	}
	if ts.TargetEndTime-ts.SavedAt > int64(ts.TotalTime)*1000+1000 {
		return apperr.New(apperr.CodeDecode, "timer target is more than one phase past its save time")
	}
	return nil
}

// Reconcile brings a freshly loaded store up to now. An inconsistent timer
// state is discarded and reported through the returned error; the store is
// still usable. Otherwise every elapsed transition is applied as Advance
// does, so reconciling twice at the same instant is a no-op the second time.
// Alerts that fell due while nothing was watching are not replayed.
func Reconcile(s *state.Store, now time.Time) ([]Event, error) {
	if err := Validate(s.TimerState, now); err != nil {
		s.TimerState = nil
		return nil, err
	}
	events := Advance(s, now)
	if ts := s.TimerState; ts != nil && ts.Status != state.StatusPaused {
		ts.TimeRemaining = Remaining(ts, now)
	}
	return events, nil
}
