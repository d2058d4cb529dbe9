package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tdkit/agentaudit/internal/domain"
)

// FileName is the per-project config file looked up in the audit root.
const FileName = ".agentaudit.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .agentaudit.yaml.
type YAMLLoader struct {
	path string
}

// New creates a YAMLLoader reading FileName from the audit root.
func New() *YAMLLoader { return &YAMLLoader{} }

// NewWithFile creates a YAMLLoader reading an explicit config file. Unlike
// the root lookup, a missing explicit file is an error.
func NewWithFile(path string) *YAMLLoader { return &YAMLLoader{path: path} }

// Load reads the layout config for root, merged over the defaults.
// Returns DefaultAuditConfig if the root file does not exist.
func (l *YAMLLoader) Load(root string) (domain.AuditConfig, error) {
	path, explicit := l.path, l.path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return domain.DefaultAuditConfig(), nil
		}
		return domain.AuditConfig{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	var cfg domain.AuditConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	// Validate before merging, so errors point at the user's raw input.
	if err := cfg.Validate(); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}

	return domain.DefaultAuditConfig().Merge(cfg), nil
}
