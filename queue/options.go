package queue

import (
	"github.com/arloliu/ringq/list"
	"github.com/arloliu/ringq/logger"
)

const (
	// defaultGrowFloor is the smallest capacity a full queue grows to.
	defaultGrowFloor = 4
	// minCapacity is the capacity an empty queue is shrunk to by Reclaim and SetCapacity(0).
	minCapacity = 1
)

type config struct {
	name        string
	growFloor   int
	maxCapacity int
	logger      logger.Logger
}

func newConfig(opts []Option) (config, error) {
	cfg := config{
		growFloor:   defaultGrowFloor,
		maxCapacity: list.MaxCapacity,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(&cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Option represents a functional option for configuring a queue.
type Option interface {
	apply(*config) error
}

type optFunc struct {
	name      string
	applyFunc func(*config) error
}

func (o *optFunc) apply(cfg *config) error { return o.applyFunc(cfg) }

func newOptFunc(name string, f func(*config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

// WithName sets the name reported by Stats and attached to log records.
func WithName(name string) Option {
	return newOptFunc("WithName", func(cfg *config) error {
		cfg.name = name
		return nil
	})
}

// WithLogger sets the logger used for growth and statistics messages.
// A nil logger keeps the package default logger.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *config) error {
		if l != nil {
			cfg.logger = l
		}
		return nil
	})
}

// WithGrowFloor sets the smallest capacity a full queue grows to.
//
// A full queue doubles its capacity, so the floor only matters for queues created with
// a small or zero capacity. It should be >= 1. Defaults to 4.
func WithGrowFloor(n int) Option {
	return newOptFunc("WithGrowFloor", func(cfg *config) error {
		if n < 1 {
			return ErrInvalidGrowFloor
		}
		cfg.growFloor = n
		return nil
	})
}
