package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Dicklesworthstone/bottomsheet/pkg/config"
	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

// configureFields holds the form's string-typed view of a config file
type configureFields struct {
	detents     string
	labels      string
	alignment   string
	bottomInset string
	enabled     bool
	allowGated  bool
	velocity    string
	resistance  string
}

func fieldsFromConfig(cfg config.File) configureFields {
	d := cfg.DragConfig()
	align := cfg.Alignment
	if align == "" {
		align = string(model.AlignCenter)
	}
	return configureFields{
		detents:     config.FormatDetentList(cfg.Detents),
		labels:      strings.Join(cfg.Labels, ", "),
		alignment:   align,
		bottomInset: formatFloat(cfg.BottomInset),
		enabled:     d.IsEnabled(),
		allowGated:  d.AllowsDragFromGatedRegion(),
		velocity:    formatFloat(d.VelocityThreshold()),
		resistance:  formatFloat(d.Resistance()),
	}
}

// apply writes the form values onto cfg
func (f configureFields) apply(cfg config.File) (config.File, error) {
	detents, err := config.ParseDetentList(f.detents)
	if err != nil {
		return cfg, err
	}
	inset, err := parseFloat(f.bottomInset)
	if err != nil {
		return cfg, fmt.Errorf("bottom inset: %w", err)
	}
	velocity, err := parseFloat(f.velocity)
	if err != nil {
		return cfg, fmt.Errorf("velocity threshold: %w", err)
	}
	resistance, err := parseFloat(f.resistance)
	if err != nil {
		return cfg, fmt.Errorf("resistance: %w", err)
	}

	cfg.Detents = detents
	cfg.Labels = config.ParseList(f.labels)
	if cfg.Current != nil && !containsDetent(detents, *cfg.Current) {
		cfg.Current = nil
	}
	cfg.Alignment = f.alignment
	cfg.BottomInset = inset
	enabled := f.enabled
	cfg.Drag.Enabled = &enabled
	cfg.Drag.AllowsDragFromGatedRegion = f.allowGated
	cfg.Drag.VelocityThreshold = &velocity
	cfg.Drag.Resistance = &resistance
	return cfg, cfg.Validate()
}

func runConfigure(path string, cfg config.File) error {
	f := fieldsFromConfig(cfg)
	validNumber := func(s string) error {
		_, err := parseFloat(s)
		return err
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Detents").
				Description("Comma separated, e.g. 120pt, 50%, 100%").
				Value(&f.detents).
				Validate(func(s string) error {
					_, err := config.ParseDetentList(s)
					return err
				}),
			huh.NewInput().
				Title("Labels").
				Description("Optional, one per detent in the same order").
				Value(&f.labels),
			huh.NewSelect[string]().
				Title("Alignment").
				Options(huh.NewOptions(string(model.AlignCenter), string(model.AlignLeading), string(model.AlignTrailing))...).
				Value(&f.alignment),
			huh.NewInput().
				Title("Bottom inset (pt)").
				Value(&f.bottomInset).
				Validate(validNumber),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Dragging enabled?").
				Value(&f.enabled),
			huh.NewConfirm().
				Title("Allow drags that start in the bottom inset?").
				Value(&f.allowGated),
			huh.NewInput().
				Title("Velocity threshold (pt/s)").
				Value(&f.velocity).
				Validate(validNumber),
			huh.NewInput().
				Title("Resistance (0-1)").
				Value(&f.resistance).
				Validate(validNumber),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	updated, err := f.apply(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(path, updated); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

func containsDetent(values []model.Detent, d model.Detent) bool {
	for _, v := range values {
		if v.Equal(d) {
			return true
		}
	}
	return false
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
