// Package engine runs the background evaluation loop that fires automation
// rules and records their outcomes.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postpulse/postpulse/internal/automations/action"
	"github.com/postpulse/postpulse/internal/automations/domain"
	"github.com/postpulse/postpulse/internal/automations/trigger"
	"github.com/postpulse/postpulse/internal/shared/infrastructure/eventbus"
)

// Routing keys for published execution events.
const (
	RoutingKeyExecutionSucceeded = "automation.execution.succeeded"
	RoutingKeyExecutionFailed    = "automation.execution.failed"
)

// Config holds engine loop configuration.
type Config struct {
	// PollInterval is the pause between evaluation ticks.
	PollInterval time.Duration

	// ErrorBackoff is the longer pause after an infrastructure error in the
	// tick itself (as opposed to an individual rule failure).
	ErrorBackoff time.Duration

	// Clock supplies the current time. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: time.Minute,
		ErrorBackoff: 5 * time.Minute,
	}
}

// Engine periodically evaluates every active rule and executes matching
// actions. Evaluation order is single-threaded; action execution for
// independent rules runs concurrently, with at most one in-flight execution
// per rule. The only states are stopped and running.
type Engine struct {
	rules      domain.RuleRepository
	history    domain.ExecutionRepository
	triggers   *trigger.Registry
	actions    *action.Executor
	milestones *trigger.MilestoneTracker
	events     eventbus.Publisher
	config     Config
	logger     *slog.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	inflightMu sync.Mutex
	inflight   map[uuid.UUID]struct{}

	statsMu sync.Mutex
	stats   Stats
}

// Option customizes engine construction.
type Option func(*Engine)

// WithMilestoneTracker attaches the follower-milestone tracker. Without it,
// successful milestone executions are not deduplicated.
func WithMilestoneTracker(t *trigger.MilestoneTracker) Option {
	return func(e *Engine) { e.milestones = t }
}

// WithEventPublisher attaches a publisher for execution events.
func WithEventPublisher(p eventbus.Publisher) Option {
	return func(e *Engine) { e.events = p }
}

// New creates an automation engine in the stopped state.
func New(
	rules domain.RuleRepository,
	history domain.ExecutionRepository,
	triggers *trigger.Registry,
	actions *action.Executor,
	config Config,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = time.Minute
	}
	if config.ErrorBackoff <= 0 {
		config.ErrorBackoff = 5 * time.Minute
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	e := &Engine{
		rules:    rules,
		history:  history,
		triggers: triggers,
		actions:  actions,
		config:   config,
		logger:   logger,
		stopChan: make(chan struct{}),
		inflight: make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start transitions the engine to running and begins the evaluation loop.
// Starting an already running engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.mu.Unlock()

	e.wg.Add(1)
	go e.run(ctx)

	e.logger.Info("automation engine started",
		"poll_interval", e.config.PollInterval,
		"error_backoff", e.config.ErrorBackoff,
	)
}

// Stop transitions the engine to stopped. In-flight action executions are
// allowed to complete before Stop returns (graceful drain).
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopChan)
	e.mu.Unlock()

	e.wg.Wait()
	e.logger.Info("automation engine stopped")
}

// IsRunning reports whether the loop is active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// TickOnce runs a single synchronous evaluation pass and waits for the
// executions it launched. Used by tests and the CLI.
func (e *Engine) TickOnce(ctx context.Context) error {
	err := e.tick(ctx)
	e.wg.Wait()
	return err
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	timer := time.NewTimer(e.config.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopChan:
			return
		case <-timer.C:
			next := e.config.PollInterval
			if err := e.tick(ctx); err != nil {
				e.logger.Error("tick failed, backing off",
					"error", err,
					"backoff", e.config.ErrorBackoff,
				)
				next = e.config.ErrorBackoff
			}
			timer.Reset(next)
		}
	}
}

// tick evaluates every active rule once. A single rule's evaluation or
// execution failure never aborts the rest of the tick; only an
// infrastructure error (the rule set being unreadable) is returned.
func (e *Engine) tick(ctx context.Context) error {
	now := e.config.Clock()

	rules, err := e.rules.ListActive(ctx)
	if err != nil {
		e.recordTickError(err)
		return err
	}

	for _, rule := range rules {
		if e.isInflight(rule.ID) {
			e.logger.Debug("previous execution still in flight, skipping",
				"rule_id", rule.ID,
				"name", rule.Name,
			)
			continue
		}

		fired, err := e.triggers.ShouldFire(ctx, rule, now)
		if err != nil {
			// Treated as "did not fire" for this tick.
			e.logger.Warn("trigger evaluation failed",
				"rule_id", rule.ID,
				"name", rule.Name,
				"trigger_type", rule.TriggerType,
				"error", err,
			)
			continue
		}
		if !fired {
			continue
		}

		e.acquire(rule.ID)
		e.recordFired()
		e.wg.Add(1)
		go func(rule *domain.AutomationRule) {
			defer e.wg.Done()
			defer e.release(rule.ID)
			e.executeRule(ctx, rule, now)
		}(rule)
	}

	e.recordTick(len(rules))
	return nil
}

// executeRule runs the rule's action and records the outcome: an execution
// record is appended, the rule's bookkeeping is updated, and the execution
// event is published.
func (e *Engine) executeRule(ctx context.Context, rule *domain.AutomationRule, now time.Time) {
	e.logger.Info("executing rule",
		"rule_id", rule.ID,
		"name", rule.Name,
		"action_type", rule.ActionType,
	)

	result, err := e.actions.Execute(ctx, rule)

	var execution *domain.AutomationExecution
	if err != nil {
		execution = domain.NewFailedExecution(rule.ID, now, err.Error())
		e.recordFailure()
	} else {
		execution = domain.NewExecution(rule.ID, now, result)
		e.recordSuccess()
	}

	if appendErr := e.history.Append(ctx, execution); appendErr != nil {
		e.logger.Error("failed to append execution",
			"rule_id", rule.ID,
			"execution_id", execution.ID,
			"error", appendErr,
		)
	}

	e.updateBookkeeping(ctx, rule, now, err == nil)

	if rule.TriggerType == domain.TriggerFollowerMilestone && e.milestones != nil {
		e.markMilestones(ctx, rule)
	}

	e.publishExecution(ctx, execution)
}

// updateBookkeeping advances the rule's engine-owned fields. The success
// rate is recomputed from history so it always matches the append-only log.
func (e *Engine) updateBookkeeping(ctx context.Context, rule *domain.AutomationRule, now time.Time, success bool) {
	rule.RecordExecution(now, success)

	total, successes, err := e.history.CountByRule(ctx, rule.ID)
	if err != nil {
		e.logger.Error("failed to count executions",
			"rule_id", rule.ID,
			"error", err,
		)
	} else {
		rule.RecomputeSuccessRate(total, successes)
	}

	if err := e.rules.UpdateBookkeeping(ctx, rule.ID, rule.LastExecutedAt, rule.ExecutionCount, rule.SuccessRate); err != nil {
		e.logger.Error("failed to update rule bookkeeping",
			"rule_id", rule.ID,
			"error", err,
		)
	}
}

// markMilestones records the crossings that triggered this firing so each
// milestone fires at most once, even if the action itself failed.
func (e *Engine) markMilestones(ctx context.Context, rule *domain.AutomationRule) {
	pending, err := e.milestones.Pending(ctx, rule)
	if err != nil {
		e.logger.Warn("failed to read pending milestones",
			"rule_id", rule.ID,
			"error", err,
		)
		return
	}
	if err := e.milestones.MarkFired(ctx, rule, pending); err != nil {
		e.logger.Warn("failed to mark milestones fired",
			"rule_id", rule.ID,
			"error", err,
		)
	}
}

func (e *Engine) publishExecution(ctx context.Context, execution *domain.AutomationExecution) {
	if e.events == nil {
		return
	}

	payload, err := json.Marshal(execution)
	if err != nil {
		e.logger.Error("failed to marshal execution event",
			"execution_id", execution.ID,
			"error", err,
		)
		return
	}

	routingKey := RoutingKeyExecutionSucceeded
	if !execution.Success {
		routingKey = RoutingKeyExecutionFailed
	}

	if err := e.events.Publish(ctx, routingKey, payload); err != nil {
		e.logger.Warn("failed to publish execution event",
			"execution_id", execution.ID,
			"routing_key", routingKey,
			"error", err,
		)
	}
}

// In-flight tracking. Only the tick goroutine acquires, so a rule can never
// gain two concurrent executions.

func (e *Engine) isInflight(id uuid.UUID) bool {
	e.inflightMu.Lock()
	defer e.inflightMu.Unlock()
	_, ok := e.inflight[id]
	return ok
}

func (e *Engine) acquire(id uuid.UUID) {
	e.inflightMu.Lock()
	defer e.inflightMu.Unlock()
	e.inflight[id] = struct{}{}
}

func (e *Engine) release(id uuid.UUID) {
	e.inflightMu.Lock()
	defer e.inflightMu.Unlock()
	delete(e.inflight, id)
}

// Stats is a snapshot of engine counters.
type Stats struct {
	IsRunning      bool
	TicksCompleted uint64
	RulesEvaluated uint64
	RulesFired     uint64
	Succeeded      uint64
	Failed         uint64
	LastTickAt     *time.Time
	LastError      string
	LastErrorAt    *time.Time
}

// GetStats returns current engine statistics.
func (e *Engine) GetStats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	stats := e.stats
	stats.IsRunning = e.IsRunning()
	return stats
}

func (e *Engine) recordTick(evaluated int) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.TicksCompleted++
	e.stats.RulesEvaluated += uint64(evaluated)
	now := time.Now()
	e.stats.LastTickAt = &now
}

func (e *Engine) recordTickError(err error) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	now := time.Now()
	e.stats.LastError = err.Error()
	e.stats.LastErrorAt = &now
}

func (e *Engine) recordFired() {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.RulesFired++
}

func (e *Engine) recordSuccess() {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.Succeeded++
}

func (e *Engine) recordFailure() {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.Failed++
}
