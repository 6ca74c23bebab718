package memory

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// ConfigStore keeps one AssignmentConfig per property.
type ConfigStore struct {
	configs *xsync.Map[string, *types.AssignmentConfig]
}

var _ types.ConfigStore = (*ConfigStore)(nil)

// NewConfigStore creates an empty store, optionally seeded with configs.
func NewConfigStore(seed ...*types.AssignmentConfig) *ConfigStore {
	s := &ConfigStore{configs: xsync.NewMap[string, *types.AssignmentConfig]()}
	for _, cfg := range seed {
		s.configs.Store(cfg.PropertyID, cfg.Clone())
	}

	return s
}

// Get returns a copy of the stored config, or the default config when none exists.
func (s *ConfigStore) Get(_ context.Context, propertyID string) (*types.AssignmentConfig, error) {
	if cfg, ok := s.configs.Load(propertyID); ok {
		return cfg.Clone(), nil
	}

	return types.DefaultAssignmentConfig(propertyID), nil
}

// Replace stores a copy of cfg.
func (s *ConfigStore) Replace(_ context.Context, cfg *types.AssignmentConfig) error {
	if cfg == nil || cfg.PropertyID == "" {
		return fmt.Errorf("%w: property ID required", types.ErrInvalidConfig)
	}
	s.configs.Store(cfg.PropertyID, cfg.Clone())

	return nil
}
