package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	WalkSpeed        float64 `yaml:"walk_speed"`
	FlySpeed         float64 `yaml:"fly_speed"`
	Gravity          float64 `yaml:"gravity"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	MaxJumpHeight    float64 `yaml:"max_jump_height"`
	PlayerHeight     int     `yaml:"player_height"`
	Pad              float64 `yaml:"pad"`
	Sensitivity      float64 `yaml:"sensitivity"`

	HitMaxDistance int `yaml:"hit_max_distance"`

	BoundaryR     int `yaml:"boundary_r"`
	MaxHillHeight int `yaml:"max_hill_height"`

	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:         60,
		WalkSpeed:          5,
		FlySpeed:           15,
		Gravity:            20.0,
		TerminalVelocity:   50,
		MaxJumpHeight:      5.0,
		PlayerHeight:       2,
		Pad:                0.25,
		Sensitivity:        0.15,
		HitMaxDistance:     8,
		BoundaryR:          10,
		MaxHillHeight:      4,
		SnapshotEveryTicks: 3600,
	}
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.Pad < 0 || t.Pad >= 0.5 {
		// >= 0.5 lets the player fall through the ground.
		return fmt.Errorf("pad must be in [0, 0.5), got %v", t.Pad)
	}
	if t.TickRateHz < 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", t.TickRateHz)
	}
	if t.PlayerHeight < 0 {
		return fmt.Errorf("player_height must be positive, got %d", t.PlayerHeight)
	}
	return nil
}
