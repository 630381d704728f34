package simc

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed sim_options.yaml
var defaultOptionsYAML []byte

// Buff categories recognized by addSimulationOptions
const (
	BuffCategoryOverride = "override"
	BuffCategoryExternal = "external_buffs"
)

// Buff is one toggleable raid or external buff.
type Buff struct {
	// Key is the camelCase identifier; it is converted to snake_case when
	// emitted ("arcaneIntellect" -> "arcane_intellect").
	Key         string `yaml:"key"`
	DisplayName string `yaml:"display_name"`
	Category    string `yaml:"category"`
	Enabled     bool   `yaml:"enabled"`
}

// Options carries the simulation settings appended to emitted profiles.
type Options struct {
	// MaxTime is the fight duration in seconds.
	MaxTime int `yaml:"max_time"`
	// OptimalRaidBuffs lets simc assume every raid buff; when false,
	// optimal_raid=0 plus per-buff overrides are emitted instead.
	OptimalRaidBuffs bool   `yaml:"optimal_raid_buffs"`
	Buffs            []Buff `yaml:"buffs"`
}

// DefaultOptions returns the built-in presets. It panics only if the
// embedded file is broken, which a test covers.
func DefaultOptions() Options {
	opts, err := loadOptions(defaultOptionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sim_options.yaml is invalid: %v", err))
	}
	return opts
}

func loadOptions(data []byte) (Options, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse sim options: %w", err)
	}
	return opts, nil
}

// snakeCase converts a camelCase buff key to the snake_case form simc
// expects.
func snakeCase(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
