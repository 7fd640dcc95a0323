package combat

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/battlesim/internal/core"
)

// Event is something observable that happened during a step.
type Event interface {
	battleEvent()
	String() string
}

// MoveEvent is emitted when an agent out of range steps toward its opponent.
type MoveEvent struct {
	Tick  int
	Agent string
	From  core.Vec2
	To    core.Vec2
}

func (MoveEvent) battleEvent() {}

func (e MoveEvent) String() string {
	return fmt.Sprintf("%s moves to %s", e.Agent, e.To)
}

// HitEvent is emitted when an attack total meets the defender's AC.
type HitEvent struct {
	Tick       int
	Attacker   string
	Defender   string
	Ordinal    Ordinal
	Roll       int
	Total      int
	AC         int
	Damage     int
	DefenderHP int
}

func (HitEvent) battleEvent() {}

func (e HitEvent) String() string {
	return fmt.Sprintf("%s hits %s with the %s attack (%d vs AC %d) for %d damage",
		e.Attacker, e.Defender, e.Ordinal, e.Total, e.AC, e.Damage)
}

// MissEvent is emitted when an attack total falls short of the defender's AC.
type MissEvent struct {
	Tick     int
	Attacker string
	Defender string
	Ordinal  Ordinal
	Roll     int
	Total    int
	AC       int
}

func (MissEvent) battleEvent() {}

func (e MissEvent) String() string {
	return fmt.Sprintf("%s misses %s with the %s attack (%d vs AC %d)",
		e.Attacker, e.Defender, e.Ordinal, e.Total, e.AC)
}

// DeathEvent is emitted when the death check removes an agent.
type DeathEvent struct {
	Tick  int
	Agent string
	HP    int
}

func (DeathEvent) battleEvent() {}

func (e DeathEvent) String() string {
	return fmt.Sprintf("%s falls (%d hp)", e.Agent, e.HP)
}

// RoundEndEvent is emitted after survivors reset their attack index.
type RoundEndEvent struct {
	Tick int
}

func (RoundEndEvent) battleEvent() {}

func (e RoundEndEvent) String() string {
	return fmt.Sprintf("round %d ends", e.Tick)
}

// ConcludedEvent is emitted once, when the battle ends.
type ConcludedEvent struct {
	Result Result
}

func (ConcludedEvent) battleEvent() {}

func (e ConcludedEvent) String() string {
	return e.Result.String()
}

// EventSink receives battle events.
type EventSink interface {
	Emit(e Event)
}

// Discard drops every event.
var Discard EventSink = discard{}

type discard struct{}

func (discard) Emit(Event) {}

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

// Emit forwards the event to every sink.
func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// Recorder keeps the most recent events in memory.
// It is safe for concurrent use so a view can read while a battle writes.
type Recorder struct {
	mu     sync.Mutex
	limit  int
	events []Event
}

// NewRecorder creates a recorder holding at most limit events.
// A limit <= 0 keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Emit stores the event, dropping the oldest one when full.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append(r.events[:0], r.events[len(r.events)-r.limit:]...)
	}
}

// Events returns a copy of the stored events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns a copy of the newest n events, oldest first.
// n <= 0 returns none.
func (r *Recorder) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := min(len(r.events), max(0, len(r.events)-n))
	out := make([]Event, len(r.events)-start)
	copy(out, r.events[start:])
	return out
}

// Reset drops all stored events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
