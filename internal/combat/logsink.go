package combat

import (
	"github.com/charmbracelet/log"
)

// LogSink writes events to a structured logger.
// Hits, deaths and the conclusion log at info; misses, moves and round
// boundaries at debug.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink wraps a logger. A nil logger uses the package default.
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

// Emit logs the event.
func (s *LogSink) Emit(e Event) {
	switch ev := e.(type) {
	case HitEvent:
		s.logger.Info("hit",
			"tick", ev.Tick,
			"attacker", ev.Attacker,
			"defender", ev.Defender,
			"attack", ev.Ordinal.String(),
			"roll", ev.Roll,
			"total", ev.Total,
			"ac", ev.AC,
			"damage", ev.Damage,
			"hp", ev.DefenderHP,
		)
	case MissEvent:
		s.logger.Debug("miss",
			"tick", ev.Tick,
			"attacker", ev.Attacker,
			"defender", ev.Defender,
			"attack", ev.Ordinal.String(),
			"roll", ev.Roll,
			"total", ev.Total,
			"ac", ev.AC,
		)
	case MoveEvent:
		s.logger.Debug("move", "tick", ev.Tick, "agent", ev.Agent, "to", ev.To.String())
	case DeathEvent:
		s.logger.Info("death", "tick", ev.Tick, "agent", ev.Agent, "hp", ev.HP)
	case RoundEndEvent:
		s.logger.Debug("round end", "tick", ev.Tick)
	case ConcludedEvent:
		s.logger.Info("battle concluded",
			"reason", ev.Result.Reason.String(),
			"winner", ev.Result.Winner,
			"rounds", ev.Result.Ticks,
		)
	}
}
