package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/adousti/vigil/internal/domain"
)

type targetsFile struct {
	Targets []targetEntry `yaml:"targets"`
}

type targetEntry struct {
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	ExpectedStatus int    `yaml:"expected_status,omitempty"`
	Timeout        string `yaml:"timeout,omitempty"` // e.g. "10s"
	Critical       bool   `yaml:"critical,omitempty"`
}

// LoadTargets reads the YAML target registry. The registry is fixed for the
// process lifetime; edits require a restart.
func LoadTargets(path string) ([]domain.Target, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}

	var f targetsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse targets yaml: %w", err)
	}
	if len(f.Targets) == 0 {
		return nil, errors.New("targets: no targets defined")
	}

	seen := make(map[string]struct{}, len(f.Targets))
	out := make([]domain.Target, 0, len(f.Targets))

	for i, e := range f.Targets {
		e.Name = strings.TrimSpace(e.Name)
		e.URL = strings.TrimSpace(e.URL)

		if e.Name == "" {
			return nil, fmt.Errorf("targets: target[%d] missing name", i)
		}
		if _, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("targets: duplicate target name %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		if e.URL == "" {
			return nil, fmt.Errorf("targets: target %q missing url", e.Name)
		}
		if !strings.HasPrefix(e.URL, "http://") && !strings.HasPrefix(e.URL, "https://") {
			return nil, fmt.Errorf("targets: target %q url must start with http:// or https://", e.Name)
		}

		if e.ExpectedStatus == 0 {
			e.ExpectedStatus = 200
		}
		if e.ExpectedStatus < 100 || e.ExpectedStatus > 599 {
			return nil, fmt.Errorf("targets: target %q expected_status must be 100..599", e.Name)
		}

		if strings.TrimSpace(e.Timeout) == "" {
			e.Timeout = "10s"
		}
		timeout, err := time.ParseDuration(e.Timeout)
		if err != nil {
			return nil, fmt.Errorf("targets: target %q invalid timeout %q: %w", e.Name, e.Timeout, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("targets: target %q timeout must be > 0", e.Name)
		}

		out = append(out, domain.Target{
			Name:           e.Name,
			URL:            e.URL,
			ExpectedStatus: e.ExpectedStatus,
			Timeout:        timeout,
			Critical:       e.Critical,
		})
	}

	return out, nil
}
