package runtime

import (
	"log/slog"

	"github.com/velk-rt/velk/internal/blockpool"
	"github.com/velk-rt/velk/log"
)

// Option configures a Runtime at construction via New. Instance() always
// uses the zero-value configuration; tests and embedders that need custom
// wiring call New directly.
type Option func(*config)

type config struct {
	logger             *slog.Logger
	hiveGrowthSchedule []int
	blockPoolSize      int
}

// WithLogger installs l as the process-wide logger (see log.SetLogger)
// before the Runtime is built, so even self-registration logs (component
// K's RegisterType Debug lines) go through it.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithHiveGrowthSchedule overrides the default {16, 64, 256, 1024, ...}
// page growth schedule used by this Runtime's built-in HiveStore and
// ObjectHive instances (see hive.NewObjectHiveWithSchedule). schedule[N] is
// the Nth page's slot count; capacity doubles past the end of schedule.
func WithHiveGrowthSchedule(schedule []int) Option {
	return func(c *config) { c.hiveGrowthSchedule = schedule }
}

// WithBlockPoolSize prewarms the refcount control-block pool with n
// pre-allocated blocks (see internal/blockpool.Prewarm), absorbing the
// initial allocation burst of a workload that's about to create many
// Shared/Weak references at once. sync.Pool has no true fixed capacity, so
// this seeds rather than bounds the pool.
func WithBlockPoolSize(n int) Option {
	return func(c *config) { c.blockPoolSize = n }
}

// newConfig applies opts over a zero-value config and performs the options'
// process-wide side effects (installing the logger, prewarming the block
// pool) immediately, before the Runtime itself is constructed.
func newConfig(opts ...Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger != nil {
		log.SetLogger(c.logger)
	}
	if c.blockPoolSize > 0 {
		blockpool.Prewarm(c.blockPoolSize)
	}
	return c
}
