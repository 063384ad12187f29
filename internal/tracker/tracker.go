// Package tracker implements the daily tracking engine: ownership checks,
// one-log-per-day upserts for habits and goals, best-streak bookkeeping,
// per-day dashboards, history windows, and to-do statistics.
package tracker

import (
	"time"

	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/types"
)

// Defaults applied by NewService when an Option is left zero.
const (
	DefaultHistoryDays = 7
	DefaultPageSize    = 20
	DefaultMaxPageSize = 100
)

// Options configures a Service.
type Options struct {
	// Location resolves the server's current calendar date. Defaults to UTC.
	Location *time.Location

	// DefaultHistoryDays is the lookback used when a history request omits days.
	DefaultHistoryDays int

	// DefaultPageSize and MaxPageSize bound paginated to-do listings.
	DefaultPageSize int
	MaxPageSize     int

	// Now overrides the clock, primarily for tests.
	Now func() time.Time
}

// Service is the tracking engine. It is safe for concurrent use; all state
// lives in the store.
type Service struct {
	store       store.Store
	loc         *time.Location
	historyDays int
	pageSize    int
	maxPageSize int
	clock       func() time.Time
}

// NewService creates a Service backed by s.
func NewService(s store.Store, opts Options) *Service {
	svc := &Service{
		store:       s,
		loc:         opts.Location,
		historyDays: opts.DefaultHistoryDays,
		pageSize:    opts.DefaultPageSize,
		maxPageSize: opts.MaxPageSize,
		clock:       opts.Now,
	}
	if svc.loc == nil {
		svc.loc = time.UTC
	}
	if svc.historyDays <= 0 {
		svc.historyDays = DefaultHistoryDays
	}
	if svc.maxPageSize <= 0 {
		svc.maxPageSize = DefaultMaxPageSize
	}
	if svc.pageSize <= 0 {
		svc.pageSize = DefaultPageSize
	}
	if svc.pageSize > svc.maxPageSize {
		svc.pageSize = svc.maxPageSize
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	return svc
}

// Location returns the location used to resolve calendar dates.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current instant in the service location.
func (s *Service) Now() time.Time {
	return s.clock().In(s.loc)
}

// Today returns the server's current calendar date. Log dates are always
// derived from it, never supplied by callers.
func (s *Service) Today() types.Date {
	return types.DateOf(s.Now())
}
