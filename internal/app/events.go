package app

import (
	"time"

	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/timer"
)

type EventKind string

const (
	EventWorkCompleted  EventKind = "work_completed"
	EventBreakCompleted EventKind = "break_completed"
	EventBadgeUnlocked  EventKind = "badge_unlocked"
	EventAlert          EventKind = "alert"
	// EventTimerDiscarded reports a persisted timer that could not be resumed.
	EventTimerDiscarded EventKind = "timer_discarded"
)

// Event is something the presentation layer may want to celebrate or
// announce. Fields not relevant to Kind are zero.
type Event struct {
	Kind       EventKind
	At         time.Time
	ProfileID  string
	Points     int
	FirstOfDay bool
	Badge      catalog.Badge
	Alert      timer.Alert
}
