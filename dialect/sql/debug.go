package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/wpachlinger/relic/dialect"
)

// StatementStats holds counters over the statements routed through a
// DebugDriver.
type StatementStats struct {
	Queries  atomic.Int64
	Execs    atomic.Int64
	Errors   atomic.Int64
	Slow     atomic.Int64
	Duration atomic.Int64 // nanoseconds
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Queries  int64
	Execs    int64
	Errors   int64
	Slow     int64
	Duration time.Duration
}

// Snapshot returns a copy of the current counters.
func (s *StatementStats) Snapshot() Snapshot {
	return Snapshot{
		Queries:  s.Queries.Load(),
		Execs:    s.Execs.Load(),
		Errors:   s.Errors.Load(),
		Slow:     s.Slow.Load(),
		Duration: time.Duration(s.Duration.Load()),
	}
}

// String returns a human-readable summary of the snapshot.
func (s Snapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d errors=%d slow=%d duration=%s",
		s.Queries, s.Execs, s.Errors, s.Slow, s.Duration)
}

// DebugDriver wraps a Driver with structured statement logging and counter
// collection. Repository operations route through it unchanged.
type DebugDriver struct {
	dialect.Driver
	log   *slog.Logger
	slow  time.Duration
	stats *StatementStats
}

// DebugOption configures a DebugDriver.
type DebugOption func(*DebugDriver)

// WithSlowThreshold sets the duration above which a statement is logged at
// warning level and counted as slow. Default is 100ms.
func WithSlowThreshold(d time.Duration) DebugOption {
	return func(dd *DebugDriver) { dd.slow = d }
}

// Debug wraps drv with statement logging on the given logger.
func Debug(drv dialect.Driver, log *slog.Logger, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log:    log,
		slow:   100 * time.Millisecond,
		stats:  &StatementStats{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns the collected statement counters.
func (d *DebugDriver) Stats() *StatementStats { return d.stats }

// Exec executes a statement, logging text, args and duration.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, "exec", query, args, time.Since(start), err)
	return err
}

// Query executes a query, logging text, args and duration.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, "query", query, args, time.Since(start), err)
	return err
}

// Tx starts a transaction whose statements are logged through the same
// driver.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	d.log.DebugContext(ctx, "begin transaction")
	return &debugTx{Tx: tx, drv: d}, nil
}

func (d *DebugDriver) record(ctx context.Context, kind, query string, args any, took time.Duration, err error) {
	if kind == "query" {
		d.stats.Queries.Add(1)
	} else {
		d.stats.Execs.Add(1)
	}
	d.stats.Duration.Add(int64(took))
	switch {
	case err != nil:
		d.stats.Errors.Add(1)
		d.log.ErrorContext(ctx, "statement failed", "kind", kind, "stmt", query, "args", args, "took", took, "err", err)
	case took > d.slow:
		d.stats.Slow.Add(1)
		d.log.WarnContext(ctx, "slow statement", "kind", kind, "stmt", query, "args", args, "took", took)
	default:
		d.log.DebugContext(ctx, "statement", "kind", kind, "stmt", query, "args", args, "took", took)
	}
}

type debugTx struct {
	dialect.Tx
	drv *DebugDriver
}

func (tx *debugTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.drv.record(ctx, "exec", query, args, time.Since(start), err)
	return err
}

func (tx *debugTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	tx.drv.record(ctx, "query", query, args, time.Since(start), err)
	return err
}

func (tx *debugTx) Commit() error {
	tx.drv.log.Debug("commit transaction")
	return tx.Tx.Commit()
}

func (tx *debugTx) Rollback() error {
	tx.drv.log.Debug("rollback transaction")
	return tx.Tx.Rollback()
}

var (
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*debugTx)(nil)
)
