package model

import (
	"context"
	"strconv"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/logger"
)

// Preference keys.
const (
	PreferenceKeyColumns  = "financial-logs-table-columns"
	PreferenceKeyPageSize = "page-size"
	PreferenceKeyCompact  = "table-compact-mode:financial-logs"
)

// ErrPreferenceNotFound is returned by PreferenceStore.Get for unset keys.
var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceStore persists small string values for one profile.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// LoadColumnVisibility reads the stored column map merged over the defaults.
// A corrupt blob is replaced by the defaults in the store.
func LoadColumnVisibility(ctx context.Context, store PreferenceStore) (ColumnVisibility, error) {
	raw, err := store.Get(ctx, PreferenceKeyColumns)
	if err != nil && !errors.Is(err, ErrPreferenceNotFound) {
		return DefaultColumnVisibility(), errors.Wrap(err, "load column visibility")
	}

	merged, ok := MergeColumnVisibility(raw)
	if !ok {
		logger.Logger.Warn("stored column visibility is corrupt, resetting to defaults",
			zap.String("key", PreferenceKeyColumns))
		if err := SaveColumnVisibility(ctx, store, merged); err != nil {
			return merged, err
		}
	}
	return merged, nil
}

// SaveColumnVisibility persists the full map.
func SaveColumnVisibility(ctx context.Context, store PreferenceStore, v ColumnVisibility) error {
	encoded, err := v.Encode()
	if err != nil {
		return errors.Wrap(err, "encode column visibility")
	}
	if err := store.Set(ctx, PreferenceKeyColumns, encoded); err != nil {
		return errors.Wrap(err, "save column visibility")
	}
	return nil
}

// LoadPageSize returns the stored page size, or config.DefaultPageSize when unset or invalid.
func LoadPageSize(ctx context.Context, store PreferenceStore) int {
	raw, err := store.Get(ctx, PreferenceKeyPageSize)
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			logger.Logger.Warn("load page size", zap.Error(err))
		}
		return config.DefaultPageSize
	}
	size, err := strconv.Atoi(raw)
	if err != nil || !config.ValidPageSize(size) {
		return config.DefaultPageSize
	}
	return size
}

// SavePageSize persists the last chosen page size.
func SavePageSize(ctx context.Context, store PreferenceStore, size int) error {
	if err := store.Set(ctx, PreferenceKeyPageSize, strconv.Itoa(size)); err != nil {
		return errors.Wrap(err, "save page size")
	}
	return nil
}

// LoadCompactMode returns the stored compact-mode flag, false when unset.
func LoadCompactMode(ctx context.Context, store PreferenceStore) bool {
	raw, err := store.Get(ctx, PreferenceKeyCompact)
	if err != nil {
		return false
	}
	compact, _ := strconv.ParseBool(raw)
	return compact
}

// SaveCompactMode persists the compact-mode flag.
func SaveCompactMode(ctx context.Context, store PreferenceStore, compact bool) error {
	if err := store.Set(ctx, PreferenceKeyCompact, strconv.FormatBool(compact)); err != nil {
		return errors.Wrap(err, "save compact mode")
	}
	return nil
}

// MemoryPreferenceStore keeps preferences in process memory.
type MemoryPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{values: make(map[string]string)}
}

func (s *MemoryPreferenceStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return v, nil
}

func (s *MemoryPreferenceStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
