package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Persister stores terminal outcomes keyed by promise ID.
type Persister interface {
	Save(ctx context.Context, outcome Outcome) error
	Load(ctx context.Context, promiseID string) (Outcome, error)
}

// JSONPersister is a stdlib-only file-based persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, outcome Outcome) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	fn := filepath.Join(p.dir, outcome.PromiseID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *JSONPersister) Load(ctx context.Context, promiseID string) (Outcome, error) {
	fn := filepath.Join(p.dir, promiseID+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Outcome{}, fmt.Errorf("promise %q: %w", promiseID, os.ErrNotExist)
		}
		return Outcome{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var outcome Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return Outcome{}, fmt.Errorf("json unmarshal: %w", err)
	}
	outcome.PromiseID = promiseID // Ensure ID

	return outcome, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, outcome Outcome) error {
	data, err := yaml.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	fn := filepath.Join(p.dir, outcome.PromiseID+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *YAMLPersister) Load(ctx context.Context, promiseID string) (Outcome, error) {
	fn := filepath.Join(p.dir, promiseID+".yaml")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Outcome{}, fmt.Errorf("promise %q: %w", promiseID, os.ErrNotExist)
		}
		return Outcome{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var outcome Outcome
	if err := yaml.Unmarshal(data, &outcome); err != nil {
		return Outcome{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	outcome.PromiseID = promiseID

	return outcome, nil
}
