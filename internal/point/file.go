// Package point manages touch point definitions and their key bindings.
package point

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LoadFile reads touch points from disk. A missing file yields an
// empty set. Duplicate ids reject the whole file; duplicate key
// bindings keep the first holder and drop later ones.
func LoadFile(path string) ([]TouchPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var points []TouchPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	ids := make(map[int]bool, len(points))
	keys := make(map[uint16]bool, len(points))
	for i := range points {
		if ids[points[i].ID] {
			return nil, fmt.Errorf("parse %s: duplicate point id %d", path, points[i].ID)
		}
		ids[points[i].ID] = true

		if k := points[i].Key; k != 0 {
			if keys[k] {
				points[i].Key = 0
			} else {
				keys[k] = true
			}
		}
	}
	return points, nil
}

// SaveFile writes touch points to disk, creating parent directories
// as needed.
func SaveFile(path string, points []TouchPoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if points == nil {
		points = []TouchPoint{}
	}
	data, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
