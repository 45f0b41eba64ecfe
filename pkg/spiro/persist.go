package spiro

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/richard-senior/spiro/internal/logger"
	"github.com/richard-senior/spiro/pkg/store"
)

// AppKey is the fixed key the settings record lives under
const AppKey = "app"

// Save serializes all six fields of p under key
func Save(st store.Store, key string, p Params) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	if err := st.Set(key, data); err != nil {
		return fmt.Errorf("failed to save params: %w", err)
	}
	logger.Debug("Saved params under", key)
	return nil
}

// Load restores a record verbatim. A missing record returns store.ErrNotFound,
// a record that decodes but is out of range wraps ErrInvalidParams.
func Load(st store.Store, key string) (Params, error) {
	data, err := st.Get(key)
	if err != nil {
		return Params{}, err
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("failed to decode params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Open builds the startup model: the persisted record when there is a
// usable one, otherwise defaults followed by one Randomize. Never fails.
func Open(st store.Store, key string) Params {
	if st != nil {
		p, err := Load(st, key)
		if err == nil {
			logger.Inform("Restored params", p.A, p.B, p.C)
			return p
		}
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("No saved params, starting fresh")
		} else {
			logger.Warn("Ignoring saved params:", err)
		}
	}
	p := Default()
	p.Randomize()
	return p
}
