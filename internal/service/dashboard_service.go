package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"inbox-triage/internal/loader"
	"inbox-triage/internal/logger"
	"inbox-triage/internal/metrics"
	"inbox-triage/internal/model"
	"inbox-triage/internal/triage"
)

const RefreshToast = "Dashboard updated."

// ToastMessage returns the confirmation shown after a triage action.
func ToastMessage(action triage.Action) string {
	switch action {
	case triage.ActionDone:
		return "Moved to Done."
	case triage.ActionIgnore:
		return "Moved to Ignored."
	case triage.ActionSnooze:
		return "Moved to Snoozed."
	case triage.ActionRestore:
		return "Restored to inbox."
	default:
		return ""
	}
}

type dashboardService struct {
	loader         loader.ModelLoader
	store          TriageStore
	logger         *logger.Logger
	newWindowHours float64

	mu            sync.RWMutex
	blocks        []model.CategoryBlock
	loaded        bool
	loadErr       error
	latestMs      int64
	lastUpdatedAt string
	state         model.TriageState
	stateLoaded   bool
}

func NewDashboardService(
	modelLoader loader.ModelLoader,
	store TriageStore,
	newWindowHours float64,
	logger *logger.Logger,
) DashboardService {
	if newWindowHours <= 0 {
		newWindowHours = triage.DefaultNewWindowHours
	}
	return &dashboardService{
		loader:         modelLoader,
		store:          store,
		logger:         logger,
		newWindowHours: newWindowHours,
		state:          model.EmptyTriageState(),
	}
}

func (s *dashboardService) Load(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stateErr := s.ensureStateLocked(ctx, now)

	if err := s.fetchLocked(ctx, now); err != nil {
		if !s.loaded {
			s.loadErr = err
		}
		return err
	}
	return stateErr
}

// ensureStateLocked reads the stored triage state once. A failed read leaves
// the stored slot untouched and is retried on the next call.
func (s *dashboardService) ensureStateLocked(ctx context.Context, now time.Time) error {
	if s.stateLoaded {
		return nil
	}

	state, err := s.store.Load(ctx)
	if err != nil {
		metrics.IncrementStoreError("load")
		s.logger.WithError(err).Error("Failed to load triage state")
		return err
	}

	s.state = state
	s.stateLoaded = true
	if s.cleanupLocked(now) > 0 {
		return s.persistLocked(ctx)
	}
	return nil
}

func (s *dashboardService) Refresh(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fetchLocked(ctx, now); err != nil {
		s.logger.WithError(err).Warn("Refresh failed, keeping previous dashboard model")
		return err
	}
	return nil
}

// fetchLocked replaces the model only when the loader succeeds.
func (s *dashboardService) fetchLocked(ctx context.Context, now time.Time) error {
	m, err := s.loader.LoadDashboardModel(ctx)
	if err != nil {
		metrics.IncrementModelLoad("failure")
		s.logger.WithError(err).Error("Failed to load dashboard model")
		return err
	}
	metrics.IncrementModelLoad("success")

	s.blocks = triage.SortBlocks(m.Blocks)
	s.latestMs = triage.LatestReceivedAt(s.blocks)
	s.lastUpdatedAt = model.FormatInstant(now)
	s.loaded = true
	s.loadErr = nil

	s.logger.Infof("Dashboard model ready: %d blocks, latest received %d", len(s.blocks), s.latestMs)
	return nil
}

func (s *dashboardService) notLoadedErr() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %w", ErrModelNotLoaded, s.loadErr)
	}
	return ErrModelNotLoaded
}

func (s *dashboardService) Board(ctx context.Context, viewed model.ViewedSet, now time.Time) (*model.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, s.notLoadedErr()
	}

	// Until the stored state is readable the board shows every email in the inbox.
	if s.ensureStateLocked(ctx, now) == nil && s.cleanupLocked(now) > 0 {
		s.persistLocked(ctx)
	}

	projection := triage.Project(s.blocks, s.state, now)
	counts := triage.CountByCategory(projection.MainBlocks)

	board := &model.Board{
		Panels:           make([]model.Panel, 0, len(model.PanelOrder)),
		Counts:           counts,
		Total:            triage.SumCounts(counts),
		LatestReceivedAt: s.latestMs,
		LastUpdatedAt:    s.lastUpdatedAt,
	}

	for _, category := range model.PanelOrder {
		meta := category.Meta()
		panel := model.Panel{
			Category: category,
			Title:    meta.Title,
			Subtitle: meta.Subtitle,
			Count:    counts[category],
			Items:    []model.BoardItem{},
		}
		if block, ok := triage.BlockFor(projection.MainBlocks, category); ok {
			for _, it := range block.Items {
				panel.Items = append(panel.Items, model.BoardItem{
					EmailItem: it,
					ShowNew:   triage.IsNew(it.ReceivedAt, s.latestMs, s.newWindowHours) && !viewed.Has(it.EmailID),
				})
			}
		}
		board.Panels = append(board.Panels, panel)
	}

	board.Strips = []model.TriageStrip{
		newStrip(model.StripSnoozed, projection.SnoozedItems),
		newStrip(model.StripIgnored, projection.IgnoredItems),
		newStrip(model.StripDone, projection.DoneItems),
	}

	metrics.BoardProjectionsTotal.Inc()
	return board, nil
}

func newStrip(id string, items []model.TriagedItem) model.TriageStrip {
	meta := model.StripMeta(id)
	return model.TriageStrip{
		ID:       id,
		Title:    meta.Title,
		Subtitle: meta.Subtitle,
		Count:    len(items),
		Items:    items,
	}
}

func (s *dashboardService) ApplyAction(ctx context.Context, action triage.Action, emailID string, now time.Time) (model.TriageState, error) {
	if emailID == "" {
		return model.TriageState{}, ErrEmailNotFound
	}

	var mutate func(model.TriageState) model.TriageState
	switch action {
	case triage.ActionDone:
		mutate = func(st model.TriageState) model.TriageState { return triage.MarkDone(st, emailID) }
	case triage.ActionIgnore:
		mutate = func(st model.TriageState) model.TriageState { return triage.MarkIgnored(st, emailID) }
	case triage.ActionRestore:
		mutate = func(st model.TriageState) model.TriageState { return triage.Restore(st, emailID) }
	default:
		return model.TriageState{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	return s.apply(ctx, action, now, mutate)
}

func (s *dashboardService) SnoozeEmail(ctx context.Context, emailID string, preset model.SnoozePreset, now time.Time) (model.TriageState, error) {
	if emailID == "" {
		return model.TriageState{}, ErrEmailNotFound
	}
	return s.apply(ctx, triage.ActionSnooze, now, func(st model.TriageState) model.TriageState {
		return triage.Snooze(st, emailID, preset, now)
	})
}

// apply cleans expired snoozes, mutates and persists. The in-memory state
// keeps the mutation even when the write fails. Nothing is written while the
// stored state is unreadable.
func (s *dashboardService) apply(ctx context.Context, action triage.Action, now time.Time, mutate func(model.TriageState) model.TriageState) (model.TriageState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStateLocked(ctx, now); err != nil {
		return s.state.Clone(), err
	}

	s.cleanupLocked(now)
	s.state = mutate(s.state)
	metrics.IncrementTriageAction(string(action))

	if err := s.persistLocked(ctx); err != nil {
		return s.state.Clone(), err
	}
	return s.state.Clone(), nil
}

func (s *dashboardService) FindEmail(category model.Category, emailID string) (model.EmailItem, model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return model.EmailItem{}, "", s.notLoadedErr()
	}

	if item, ok := triage.FindItem(s.blocks, category, emailID); ok {
		return item, category, nil
	}
	if item, found, ok := triage.FindAny(s.blocks, emailID); ok {
		return item, found, nil
	}
	return model.EmailItem{}, "", ErrEmailNotFound
}

func (s *dashboardService) Triage() model.TriageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *dashboardService) CleanupExpired(ctx context.Context, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stateLoaded {
		return false, nil
	}

	woken := s.cleanupLocked(now)
	if woken == 0 {
		return false, nil
	}

	metrics.SnoozesWokenTotal.Add(float64(woken))
	s.logger.Info("Snoozes expired:", woken)
	return true, s.persistLocked(ctx)
}

// cleanupLocked drops expired snoozes and reports how many were removed.
func (s *dashboardService) cleanupLocked(now time.Time) int {
	expired := triage.ExpiredSnoozes(s.state, now)
	if len(expired) == 0 {
		return 0
	}
	s.state = triage.CleanupExpiredSnoozes(s.state, now)
	return len(expired)
}

func (s *dashboardService) persistLocked(ctx context.Context) error {
	saved, err := s.store.Save(ctx, s.state)
	if err != nil {
		var storeErr *StoreError
		if errors.As(err, &storeErr) {
			metrics.IncrementStoreError(storeErr.Op)
		}
		s.logger.WithError(err).Error("Failed to persist triage state")
		return err
	}
	s.state = saved
	return nil
}
