package runner

import "time"

// Config holds configuration for the autopilot runner.
type Config struct {
	// Days is the run length passed to StartRun.
	Days int
	// MaxSteps bounds the number of trading days played, guarding against
	// strategies that never manage to travel.
	MaxSteps int
	// TickInterval paces the days. Zero plays as fast as possible.
	TickInterval time.Duration
	// EventBuffer is the size of the events channel.
	EventBuffer int
	// DropEvents determines whether the events channel drops on overflow.
	DropEvents bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Days:        30,
		MaxSteps:    200,
		EventBuffer: 256,
		DropEvents:  true,
	}
}
