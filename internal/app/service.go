// Package app provides the core business service that implements the
// dependencies required by the HTTP command API: the periodic eligibility
// sweep, the on-demand assignment report, and the ad-hoc faction commands.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	expirable "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/factionops/scopebot/internal/adapters/notify"
	"github.com/factionops/scopebot/internal/adapters/sheets"
	"github.com/factionops/scopebot/internal/domain/assignment"
	"github.com/factionops/scopebot/internal/domain/eligibility"
	"github.com/factionops/scopebot/internal/domain/model"
	"github.com/factionops/scopebot/pkg/logger"
	"github.com/factionops/scopebot/pkg/metrics"
)

// Defaults applied when no option overrides them.
const (
	defaultPollInterval    = 5 * time.Minute
	defaultReportCharLimit = 1900
	defaultBalanceTTL      = 30 * time.Second
	defaultBalanceSize     = 256

	defaultCPRTab          = "CPR"
	defaultRequirementsTab = "OC Requirements"
	defaultDelinquentsTab  = "Delinquents"
)

// FactionSource supplies live faction state from the game API.
type FactionSource interface {
	FactionSnapshot(ctx context.Context) (*model.FactionSnapshot, error)
	Balances(ctx context.Context) ([]model.MemberBalance, error)
}

// Service wires the data sources, the decision core and the notification
// dispatcher. Snapshots are fetched fresh per invocation and never cached
// across cycles; the only cross-invocation state the service holds is the
// balance cache and its own counters.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	faction    FactionSource
	rows       sheets.RowSource
	cells      sheets.CellWriter
	notifier   notify.Notifier
	dispatcher *notify.Dispatcher

	// Decision core
	evaluator *eligibility.Evaluator
	engine    *assignment.Engine

	// Configuration
	pollInterval    time.Duration
	reportCharLimit int
	cprTab          string
	requirementsTab string
	delinquentsTab  string
	channelID       string
	balanceTTL      time.Duration
	balanceSize     int

	// State
	balances  *expirable.LRU[string, model.MemberBalance]
	started   bool
	cancel    context.CancelFunc
	done      chan struct{}
	now       func() time.Time
	cycles    int64
	notified  int64
	lastSweep time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFactionSource sets the game API source.
func WithFactionSource(src FactionSource) Option {
	return func(s *Service) {
		if src != nil {
			s.faction = src
		}
	}
}

// WithRowSource sets the spreadsheet row source.
func WithRowSource(src sheets.RowSource) Option {
	return func(s *Service) {
		if src != nil {
			s.rows = src
		}
	}
}

// WithCellWriter sets the spreadsheet cell writer.
func WithCellWriter(w sheets.CellWriter) Option {
	return func(s *Service) {
		if w != nil {
			s.cells = w
		}
	}
}

// WithNotifier sets the notification delivery backend.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithEvaluator overrides the eligibility evaluator.
func WithEvaluator(e *eligibility.Evaluator) Option {
	return func(s *Service) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithPollInterval spaces the eligibility sweeps.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithReportCharLimit caps the rendered assignment report.
func WithReportCharLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reportCharLimit = n
		}
	}
}

// WithTabs names the workbook tabs.
func WithTabs(cpr, requirements, delinquents string) Option {
	return func(s *Service) {
		if cpr != "" {
			s.cprTab = cpr
		}
		if requirements != "" {
			s.requirementsTab = requirements
		}
		if delinquents != "" {
			s.delinquentsTab = delinquents
		}
	}
}

// WithChannelID labels the broadcast target.
func WithChannelID(id string) Option {
	return func(s *Service) {
		s.channelID = id
	}
}

// WithBalanceCache bounds the balance cache.
func WithBalanceCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		if size > 0 {
			s.balanceSize = size
		}
		if ttl > 0 {
			s.balanceTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		evaluator:       eligibility.New(),
		engine:          assignment.New(),
		pollInterval:    defaultPollInterval,
		reportCharLimit: defaultReportCharLimit,
		cprTab:          defaultCPRTab,
		requirementsTab: defaultRequirementsTab,
		delinquentsTab:  defaultDelinquentsTab,
		balanceTTL:      defaultBalanceTTL,
		balanceSize:     defaultBalanceSize,
		done:            make(chan struct{}),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the periodic sweep loop. It returns immediately; the loop
// runs until Stop or context cancellation.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.faction == nil || s.rows == nil {
		return fmt.Errorf("%w: faction and row sources are required", ErrNotStarted)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.notifier != nil {
		s.dispatcher = notify.NewDispatcher(s.notifier, s.logger.Named("notify"))
	}
	s.balances = expirable.NewLRU[string, model.MemberBalance](s.balanceSize, nil, s.balanceTTL)

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.sweepLoop(loopCtx)

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Any("poll_interval", s.pollInterval),
		logger.Int("report_char_limit", s.reportCharLimit))
	return nil
}

// Stop halts the sweep loop and waits for the in-flight cycle to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	<-s.done
}

// sweepLoop runs one sweep per tick. A failed cycle is logged and skipped;
// the next tick retries from fresh snapshots.
func (s *Service) sweepLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunSweep(ctx); err != nil {
				s.logger.Warn(ctx, "sweep skipped", logger.Error(err))
			}
		}
	}
}

// RunSweep executes one eligibility cycle: fetch fresh snapshots, evaluate
// every member without an active criminal mission, and dispatch the
// resulting notifications. Data-source failure skips the whole cycle.
func (s *Service) RunSweep(ctx context.Context) error {
	start := s.now()

	snap, err := s.faction.FactionSnapshot(ctx)
	if err != nil {
		metrics.RecordSweepError()
		return fmt.Errorf("faction snapshot: %w", err)
	}
	cprRows, err := s.rows.Rows(ctx, s.cprTab)
	if err != nil {
		metrics.RecordSweepError()
		return fmt.Errorf("cpr table: %w", err)
	}
	profiles := sheets.ParseCPRTable(cprRows)

	var msgs []notify.Message
	eligibleCount := 0
	for _, m := range snap.Members {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if m.HasMission {
			continue
		}
		profile, ok := profiles[m.ID]
		if !ok {
			// Not on the sheet yet: not evaluable this cycle.
			continue
		}
		suggestion, ok := s.evaluator.Evaluate(profile, snap.Scope)
		if !ok {
			s.logger.Debug(ctx, "member below every tier",
				logger.String("member", profile.Name),
				logger.Int("scope", snap.Scope))
			continue
		}
		metrics.RecordEligibleMember()
		eligibleCount++
		msgs = append(msgs, eligibilityMessages(profile, suggestion, s.channelID)...)
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, msgs)
	}

	s.mu.Lock()
	s.cycles++
	s.notified += int64(len(msgs))
	s.lastSweep = s.now()
	s.mu.Unlock()

	metrics.RecordSweep(float64(s.now().Sub(start).Milliseconds()))
	s.logger.Info(ctx, "sweep complete",
		logger.Int("members", len(snap.Members)),
		logger.Int("eligible", eligibleCount),
		logger.Int("scope", snap.Scope))
	return nil
}

// eligibilityMessages builds the member ping and the channel broadcast for
// one positive evaluation.
func eligibilityMessages(profile model.SkillProfile, sug eligibility.Suggestion, channelID string) []notify.Message {
	msgs := []notify.Message{{
		Target: profile.Name,
		Body: fmt.Sprintf("You are eligible for a level %d OC (scope cost %d). Join here: %s",
			sug.Level, sug.ScopeCost, ocPageURL),
	}}
	if channelID != "" {
		msgs = append(msgs, notify.Message{
			Target: channelID,
			Body:   fmt.Sprintf("%s qualifies for a level %d OC.", profile.Name, sug.Level),
		})
	}
	return msgs
}

// GetStats returns service counters for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"sweep_cycles":       s.cycles,
		"notifications_sent": s.notified,
		"poll_interval":      s.pollInterval.String(),
	}
	if !s.lastSweep.IsZero() {
		stats["last_sweep"] = s.lastSweep.UTC().Format(time.RFC3339)
	}
	return stats
}
