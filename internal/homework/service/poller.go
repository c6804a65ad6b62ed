package service

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"hwbot/internal/homework/model"
	"hwbot/internal/homework/notifier"
	"hwbot/internal/homework/repository"
	"hwbot/pkg/utils/contextkey"
	"hwbot/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultInterval = 600 * time.Second

	alertPrefix = "Бот столкнулся с ошибкой: "

	// Telegram rejects messages longer than 4096 characters.
	maxAlertRunes = 4096
)

// StatusFetcher returns the raw API payload for changes since fromDate.
type StatusFetcher interface {
	GetStatuses(ctx context.Context, fromDate int64) (any, error)
}

// PollerOptions tunes the poll loop.
type PollerOptions struct {
	Interval        time.Duration
	SuppressRepeats int
	Now             func() time.Time
}

// Poller runs the poll, validate, parse, notify, sleep cycle.
type Poller struct {
	client   StatusFetcher
	notifier notifier.Notifier
	cursors  repository.CursorStore
	journal  repository.Journal
	gate     *AlertGate
	interval time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	state model.PollState
}

// NewPoller wires a poller. A nil cursor store or journal falls back to the
// in-memory store and the no-op journal.
func NewPoller(client StatusFetcher, n notifier.Notifier, cursors repository.CursorStore, journal repository.Journal, opts PollerOptions) *Poller {
	if cursors == nil {
		cursors = repository.NewMemoryCursorStore()
	}
	if journal == nil {
		journal = repository.NoopJournal{}
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Poller{
		client:   client,
		notifier: n,
		cursors:  cursors,
		journal:  journal,
		gate:     NewAlertGate(opts.SuppressRepeats),
		interval: interval,
		now:      now,
	}
}

// RestoreCursor sets the starting cursor: the stored value, else fromDate,
// else the current time.
func (p *Poller) RestoreCursor(ctx context.Context, fromDate int64) int64 {
	cursor, found, err := p.cursors.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "load cursor failed, starting fresh", zap.Error(err))
		found = false
	}
	if !found {
		cursor = fromDate
		if cursor == 0 {
			cursor = p.now().Unix()
		}
	}

	p.mu.Lock()
	p.state.Cursor = cursor
	p.mu.Unlock()

	logger.Info(ctx, "poll cursor restored", zap.Int64("cursor", cursor), zap.Bool("stored", found))
	return cursor
}

// State returns a snapshot of the loop state.
func (p *Poller) State() model.PollState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.state
	if s.LastPollAt != nil {
		t := *s.LastPollAt
		s.LastPollAt = &t
	}
	if s.LastSuccessAt != nil {
		t := *s.LastSuccessAt
		s.LastSuccessAt = &t
	}
	return s
}

// Run loops until ctx is cancelled. Cancellation is a normal exit and
// returns nil.
func (p *Poller) Run(ctx context.Context) error {
	logger.Info(ctx, "poll loop started", zap.Duration("interval", p.interval))
	for {
		p.tick(ctx)
		if ctx.Err() != nil {
			break
		}
		if !sleep(ctx, p.interval) {
			break
		}
	}
	logger.Info(ctx, "poll loop stopped", zap.Int64("cursor", p.State().Cursor))
	return nil
}

// tick runs one cycle and alerts the chat if it failed.
func (p *Poller) tick(ctx context.Context) {
	ctx = context.WithValue(ctx, contextkey.CycleID, uuid.NewString())

	err := p.RunCycle(ctx)
	if ctx.Err() != nil {
		return
	}
	if err == nil {
		p.gate.Reset()
		return
	}

	text := truncateRunes(alertPrefix+err.Error(), maxAlertRunes)
	logger.Error(ctx, "poll cycle failed", zap.Error(err))
	if !p.gate.Allow(text) {
		logger.Info(ctx, "repeated alert suppressed")
		return
	}
	if sendErr := p.notifier.Notify(ctx, text); sendErr != nil {
		logger.Error(ctx, "send alert failed", zap.Error(sendErr))
		return
	}
	p.markSent()
	p.record(ctx, model.Delivery{Kind: model.DeliveryAlert, Text: text, Cursor: p.State().Cursor})
}

// RunCycle performs one poll against the API and relays every status change.
// The returned error joins every failure of the cycle.
func (p *Poller) RunCycle(ctx context.Context) error {
	startedAt := p.now()
	p.mu.Lock()
	p.state.Cycles++
	p.state.LastPollAt = &startedAt
	cursor := p.state.Cursor
	p.mu.Unlock()

	err := p.runCycle(ctx, cursor)

	p.mu.Lock()
	if err != nil {
		p.state.Failures++
		p.state.LastError = err.Error()
	} else {
		finishedAt := p.now()
		p.state.LastSuccessAt = &finishedAt
		p.state.LastError = ""
	}
	p.mu.Unlock()
	return err
}

func (p *Poller) runCycle(ctx context.Context, cursor int64) error {
	payload, err := p.client.GetStatuses(ctx, cursor)
	if err != nil {
		return err
	}
	records, currentDate, err := ValidateResponse(payload)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Debug(ctx, "no status changes", zap.Int64("cursor", cursor))
	}

	var (
		errs       []error
		sendFailed bool
	)
	for _, record := range records {
		change, err := ParseStatus(record)
		if err != nil {
			logger.Warn(ctx, "skip homework record", zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if err := p.notifier.Notify(ctx, change.Message); err != nil {
			errs = append(errs, err)
			sendFailed = true
			continue
		}
		p.markSent()
		logger.Info(ctx, "status change sent",
			zap.String("homework_name", change.HomeworkName),
			zap.String("status", change.Status))
		p.record(ctx, model.Delivery{
			Kind:         model.DeliveryStatus,
			HomeworkName: change.HomeworkName,
			Status:       change.Status,
			Text:         change.Message,
			Cursor:       currentDate,
		})
	}

	if !sendFailed {
		p.advance(ctx, currentDate)
	}
	return errors.Join(errs...)
}

func (p *Poller) advance(ctx context.Context, cursor int64) {
	p.mu.Lock()
	p.state.Cursor = cursor
	p.mu.Unlock()

	if err := p.cursors.Save(ctx, cursor); err != nil {
		logger.Warn(ctx, "save cursor failed", zap.Int64("cursor", cursor), zap.Error(err))
	}
}

func (p *Poller) markSent() {
	p.mu.Lock()
	p.state.Sent++
	p.mu.Unlock()
}

func (p *Poller) record(ctx context.Context, d model.Delivery) {
	if d.SentAt.IsZero() {
		d.SentAt = p.now()
	}
	if err := p.journal.Record(ctx, d); err != nil {
		logger.Warn(ctx, "journal delivery failed", zap.String("kind", string(d.Kind)), zap.Error(err))
	}
}

// Recent exposes the journal to the status endpoint.
func (p *Poller) Recent(ctx context.Context, limit int) ([]model.Delivery, error) {
	return p.journal.Recent(ctx, repository.ClampLimit(limit))
}

// truncateRunes cuts s to at most limit runes, marking the cut with an ellipsis.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
