package arena

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Command is a mutation of the world run on the loop goroutine between frames.
type Command func(w *World)

// Loop drives a World at a fixed wall-clock interval. External mutations are
// queued with Submit and applied at the start of the next frame, so the world
// is only ever touched by the loop goroutine.
//
// Invariant: commands run in submission order, before the frame they precede.
type Loop struct {
	world    *World
	interval time.Duration
	fixed    bool
	commands chan Command
	frames   atomic.Uint64
	logger   *zap.Logger
}

// commandQueueSize bounds the pending commands before Submit blocks.
const commandQueueSize = 256

// NewLoop returns a loop that ticks w every interval. With fixed set every
// frame advances the world by exactly interval; otherwise by the measured
// time since the previous frame.
//
// Precondition: w must be non-nil; interval must be > 0.
func NewLoop(w *World, interval time.Duration, fixed bool, logger *zap.Logger) *Loop {
	if w == nil {
		panic("arena.NewLoop: world must not be nil")
	}
	if interval <= 0 {
		panic("arena.NewLoop: interval must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		world:    w,
		interval: interval,
		fixed:    fixed,
		commands: make(chan Command, commandQueueSize),
		logger:   logger,
	}
}

// Submit queues cmd for the next frame. It blocks while the queue is full.
//
// Postcondition: Returns nil once queued, or ctx.Err().
func (l *Loop) Submit(ctx context.Context, cmd Command) error {
	select {
	case l.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// Step applies pending commands and advances the world by diff milliseconds.
// Run calls it once per tick; tests call it directly.
func (l *Loop) Step(diff float64) {
drain:
	for {
		select {
		case cmd := <-l.commands:
			cmd(l.world)
		default:
			break drain
		}
	}
	l.world.Tick(diff)
	l.frames.Add(1)
}

// Run ticks the world until ctx is cancelled.
//
// Postcondition: Returns ctx.Err() after the last frame completes.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("simulation loop started",
		zap.Duration("interval", l.interval),
		zap.Bool("fixed_step", l.fixed),
	)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("simulation loop stopped",
				zap.Uint64("frames", l.Frames()),
				zap.Float64("elapsed_ms", l.world.Elapsed()),
			)
			return ctx.Err()
		case now := <-ticker.C:
			diff := float64(l.interval) / float64(time.Millisecond)
			if !l.fixed {
				diff = float64(now.Sub(last)) / float64(time.Millisecond)
			}
			last = now
			l.Step(diff)
		}
	}
}
