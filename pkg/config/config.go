// Package config loads and saves the YAML sheet configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

// File is the on-disk configuration document
type File struct {
	Detents     []model.Detent `yaml:"detents"`
	Current     *model.Detent  `yaml:"current,omitempty"`
	Labels      []string       `yaml:"labels,omitempty"`
	Width       model.Width    `yaml:"width"`
	Alignment   string         `yaml:"alignment,omitempty"`
	BottomInset float64        `yaml:"bottom_inset,omitempty"`
	Drag        DragSection    `yaml:"drag"`
	Log         LogSection     `yaml:"log,omitempty"`
}

// DragSection mirrors model.DragConfig. Pointers distinguish "unset" from zero.
type DragSection struct {
	Enabled                   *bool    `yaml:"enabled,omitempty"`
	AllowsDragFromGatedRegion bool     `yaml:"allows_drag_from_gated_region,omitempty"`
	MinimumDistance           *float64 `yaml:"minimum_distance,omitempty"`
	MinSnapFraction           *float64 `yaml:"min_snap_fraction,omitempty"`
	VelocityThreshold         *float64 `yaml:"velocity_threshold,omitempty"`
	Resistance                *float64 `yaml:"resistance,omitempty"`
}

// LogSection configures the slog handler used by cmd/sheet
type LogSection struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// Default returns the stock configuration: a peek detent, a half-height
// detent and full height
func Default() File {
	d := model.DefaultDragConfig()
	enabled := d.IsEnabled()
	minDistance := d.MinimumDistance()
	minSnap := d.MinSnapFraction()
	velocity := d.VelocityThreshold()
	resistance := d.Resistance()
	return File{
		Detents:   []model.Detent{model.Absolute(120), model.Relative(0.5), model.Relative(1)},
		Labels:    []string{"peek", "half", "full"},
		Width:     model.RelativeWidth(1),
		Alignment: string(model.AlignCenter),
		Drag: DragSection{
			Enabled:           &enabled,
			MinimumDistance:   &minDistance,
			MinSnapFraction:   &minSnap,
			VelocityThreshold: &velocity,
			Resistance:        &resistance,
		},
		Log: LogSection{Level: "info", Format: "text"},
	}
}

// DefaultPath returns ~/.config/bottomsheet/sheet.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "bottomsheet", "sheet.yaml"), nil
}

// Load reads the configuration at path. A missing file yields Default().
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return File{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := LoadBytes(data)
	if err != nil {
		return File{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadBytes parses a YAML document on top of Default(). Keys that are
// present replace the defaults.
func LoadBytes(data []byte) (File, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, err
	}

	// Default labels only describe the default detents.
	var present struct {
		Detents []model.Detent `yaml:"detents"`
		Labels  []string       `yaml:"labels"`
	}
	if err := yaml.Unmarshal(data, &present); err != nil {
		return File{}, err
	}
	if present.Detents != nil && present.Labels == nil {
		cfg.Labels = nil
	}

	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed
func Save(path string, cfg File) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Validate rejects documents that cannot be turned into a behavior.
// Numeric drag values are not checked here; the model clamps them.
func (f File) Validate() error {
	if _, err := model.ParseAlignment(f.Alignment); err != nil {
		return err
	}
	if len(f.Labels) > 0 && len(f.Labels) != len(f.Detents) {
		return fmt.Errorf("labels: got %d labels for %d detents", len(f.Labels), len(f.Detents))
	}
	if f.BottomInset < 0 {
		return fmt.Errorf("bottom_inset must not be negative, got %v", f.BottomInset)
	}
	return nil
}

// DragConfig builds the clamped drag configuration
func (f File) DragConfig() model.DragConfig {
	d := model.DefaultDragConfig()
	pick := func(v *float64, fallback float64) float64 {
		if v == nil {
			return fallback
		}
		return *v
	}
	enabled := d.IsEnabled()
	if f.Drag.Enabled != nil {
		enabled = *f.Drag.Enabled
	}
	return model.NewDragConfig(
		f.Drag.AllowsDragFromGatedRegion,
		enabled,
		pick(f.Drag.MinimumDistance, d.MinimumDistance()),
		pick(f.Drag.MinSnapFraction, d.MinSnapFraction()),
		pick(f.Drag.VelocityThreshold, d.VelocityThreshold()),
		pick(f.Drag.Resistance, d.Resistance()),
	)
}

// Behavior builds the model behavior, ordering detents against reference
func (f File) Behavior(reference float64) model.Behavior {
	align, _ := model.ParseAlignment(f.Alignment)
	return model.Behavior{
		Drag:        f.DragConfig(),
		Width:       f.Width,
		Detents:     model.NewDetentSet(f.Detents, f.Current, reference),
		Alignment:   align,
		BottomInset: f.BottomInset,
	}
}

// LabelFor returns the configured name of d, or its string form
func (f File) LabelFor(d model.Detent) string {
	for i, v := range f.Detents {
		if v.Equal(d) && i < len(f.Labels) && f.Labels[i] != "" {
			return f.Labels[i]
		}
	}
	return d.String()
}

// ParseList splits a comma separated list, dropping empty entries
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseDetentList parses a comma separated list such as "120pt, 50%, 100%"
func ParseDetentList(s string) ([]model.Detent, error) {
	parts := ParseList(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no detents given", model.ErrInvalidDetent)
	}
	out := make([]model.Detent, 0, len(parts))
	for _, p := range parts {
		d, err := model.ParseDetent(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// FormatDetentList is the inverse of ParseDetentList
func FormatDetentList(values []model.Detent) string {
	parts := make([]string, len(values))
	for i, d := range values {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
