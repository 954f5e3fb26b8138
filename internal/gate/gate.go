// Package gate implements the availability state machine deciding whether
// inbound requests are processed at all: active, paused until a deadline, or
// outside a weekly schedule window. The state is evaluated on every inbound
// message and never persisted.
package gate

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// State is the gate's answer for a single evaluation.
type State int

const (
	// StateActive means requests are processed
	StateActive State = iota

	// StatePaused means an admin paused the bot until a deadline
	StatePaused

	// StateOutsideWindow means the weekly schedule is enabled and the
	// current time falls outside the active window
	StateOutsideWindow
)

// Pause limits, matching the /pause command contract.
const (
	DefaultPauseHours = 1
	MaxPauseHours     = 24
)

// MinuteOfDay is a wall-clock time as minutes since midnight.
type MinuteOfDay int

// ParseClock parses "HH:MM" into a MinuteOfDay.
func ParseClock(s string) (MinuteOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("gate: invalid clock time %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("gate: invalid clock time %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("gate: invalid clock time %q", s)
	}
	return MinuteOfDay(h*60 + m), nil
}

// String formats the time back as "HH:MM".
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Schedule is a weekly availability window. Both bounds are inclusive. An
// empty Weekdays set means every day is active.
type Schedule struct {
	Enabled  bool
	Start    MinuteOfDay
	End      MinuteOfDay
	Weekdays map[time.Weekday]bool
}

func (s Schedule) contains(now time.Time) bool {
	if len(s.Weekdays) > 0 && !s.Weekdays[now.Weekday()] {
		return false
	}
	cur := MinuteOfDay(now.Hour()*60 + now.Minute())
	return cur >= s.Start && cur <= s.End
}

// Window returns the window as "08:00-23:00".
func (s Schedule) Window() string {
	return s.Start.String() + "-" + s.End.String()
}

// Decision is the result of one gate evaluation.
type Decision struct {
	Allowed bool
	State   State

	// Remaining is set while paused: time until automatic resume.
	Remaining time.Duration

	// Window is set when blocked by the schedule: the active window text.
	Window string
}

// Gate is the availability state machine. The zero value is not usable; use
// New. All methods are safe for concurrent use.
type Gate struct {
	mu          sync.Mutex
	now         func() time.Time
	paused      bool
	pausedUntil time.Time
	schedule    Schedule
}

// New creates a gate in the active state with the schedule disabled.
func New() *Gate {
	return &Gate{now: time.Now}
}

// SetClock replaces the time source, for tests.
func (g *Gate) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Pause suspends processing for the given number of hours, overriding any
// schedule. Hours are clamped to [1, MaxPauseHours]; zero or negative input
// falls back to DefaultPauseHours. Returns the resume deadline.
func (g *Gate) Pause(hours int) time.Time {
	if hours <= 0 {
		hours = DefaultPauseHours
	}
	if hours > MaxPauseHours {
		hours = MaxPauseHours
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = true
	g.pausedUntil = g.now().Add(time.Duration(hours) * time.Hour)
	return g.pausedUntil
}

// Resume forces the gate back to active, clearing any pause.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = false
	g.pausedUntil = time.Time{}
}

// SetSchedule installs or replaces the weekly window.
func (g *Gate) SetSchedule(s Schedule) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.schedule = s
}

// Schedule returns the current schedule.
func (g *Gate) Schedule() Schedule {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.schedule
}

// Evaluate decides whether a request arriving now may proceed. An expired
// pause reverts to active before the decision is taken; the schedule is
// recomputed on every call rather than stored as a blocked state.
func (g *Gate) Evaluate() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	if g.paused {
		if now.Before(g.pausedUntil) {
			return Decision{
				State:     StatePaused,
				Remaining: g.pausedUntil.Sub(now),
			}
		}
		// Pause expired, auto-revert.
		g.paused = false
		g.pausedUntil = time.Time{}
	}

	if g.schedule.Enabled && !g.schedule.contains(now) {
		return Decision{
			State:  StateOutsideWindow,
			Window: g.schedule.Window(),
		}
	}

	return Decision{Allowed: true, State: StateActive}
}

// Describe returns a short state description for the /status report.
func (g *Gate) Describe() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused && g.now().Before(g.pausedUntil) {
		return "paused until " + g.pausedUntil.Format("2006-01-02 15:04")
	}
	if g.schedule.Enabled {
		return "active (window " + g.schedule.Window() + ")"
	}
	return "active"
}
