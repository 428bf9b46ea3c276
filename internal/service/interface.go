package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inbox-triage/internal/model"
	"inbox-triage/internal/triage"
)

var (
	ErrEmailNotFound  = errors.New("email not found")
	ErrUnknownAction  = errors.New("unknown triage action")
	ErrModelNotLoaded = errors.New("dashboard model not loaded")
)

// StoreError is returned when the backing key-value store fails.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("triage store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type TriageStore interface {
	Load(ctx context.Context) (model.TriageState, error)
	Save(ctx context.Context, state model.TriageState) (model.TriageState, error)
}

type DashboardService interface {
	Load(ctx context.Context, now time.Time) error
	Board(ctx context.Context, viewed model.ViewedSet, now time.Time) (*model.Board, error)
	ApplyAction(ctx context.Context, action triage.Action, emailID string, now time.Time) (model.TriageState, error)
	SnoozeEmail(ctx context.Context, emailID string, preset model.SnoozePreset, now time.Time) (model.TriageState, error)
	FindEmail(category model.Category, emailID string) (model.EmailItem, model.Category, error)
	Refresh(ctx context.Context, now time.Time) error
	Triage() model.TriageState
	CleanupExpired(ctx context.Context, now time.Time) (bool, error)
}
