package service

import (
	"context"
	"encoding/json"
	"fmt"

	"inbox-triage/internal/logger"
	"inbox-triage/internal/model"
	"inbox-triage/internal/repository"
	"inbox-triage/internal/triage"
)

const DefaultStorageKey = "inbox_triage_v1"

type triageStore struct {
	kv     repository.KeyValueStore
	key    string
	logger *logger.Logger
}

func NewTriageStore(kv repository.KeyValueStore, key string, logger *logger.Logger) TriageStore {
	if key == "" {
		key = DefaultStorageKey
	}
	return &triageStore{kv: kv, key: key, logger: logger}
}

func (s *triageStore) Load(ctx context.Context) (model.TriageState, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return model.EmptyTriageState(), &StoreError{Op: "get", Key: s.key, Err: err}
	}
	if !ok {
		return model.EmptyTriageState(), nil
	}

	state := triage.Normalize([]byte(raw))
	if !sameJSON(raw, state) {
		s.logger.WithField("key", s.key).Warn("Stored triage state was malformed, normalized to defaults")
	}
	return state, nil
}

func (s *triageStore) Save(ctx context.Context, state model.TriageState) (model.TriageState, error) {
	normalized := triage.NormalizeState(state)

	data, err := json.Marshal(normalized)
	if err != nil {
		return normalized, fmt.Errorf("failed to encode triage state: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return normalized, &StoreError{Op: "set", Key: s.key, Err: err}
	}
	return normalized, nil
}

// sameJSON reports whether raw already is the canonical encoding of state,
// ignoring insignificant whitespace.
func sameJSON(raw string, state model.TriageState) bool {
	var original interface{}
	if err := json.Unmarshal([]byte(raw), &original); err != nil {
		return false
	}
	canonical, err := json.Marshal(state)
	if err != nil {
		return false
	}
	var normalized interface{}
	if err := json.Unmarshal(canonical, &normalized); err != nil {
		return false
	}
	a, _ := json.Marshal(original)
	b, _ := json.Marshal(normalized)
	return string(a) == string(b)
}
