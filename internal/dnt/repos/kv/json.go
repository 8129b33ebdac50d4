package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetJSON decodes key into out. found is false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes value and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
