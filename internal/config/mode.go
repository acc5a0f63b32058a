package config

import (
	"fmt"
	"time"

	"github.com/udisondev/bountyhunter/internal/model"
)

// Mode holds every Bounty Hunter tunable.
type Mode struct {
	Name string `yaml:"name"`

	// Scoring
	BaseKillPoints     int `yaml:"base_kill_points"`
	BigBountyThreshold int `yaml:"big_bounty_threshold"`
	MaxBigBounties     int `yaml:"max_big_bounties"`
	TargetPoints       int `yaml:"target_points"` // used when the host starts the mode with 0

	Streaks Streaks `yaml:"streaks"`

	// Presentation
	AwardDuration    time.Duration `yaml:"award_duration"`
	AwardSounds      []string      `yaml:"award_sounds"` // indexed by streaks.award_sounds
	SoundDuration    time.Duration `yaml:"sound_duration"`
	SoundAmplitude   float64       `yaml:"sound_amplitude"`
	FlagMarkerHeight float64       `yaml:"flag_marker_height"`

	// Scavenger drops
	ScavengerPoints   int           `yaml:"scavenger_points"`
	ScavengerLifetime time.Duration `yaml:"scavenger_lifetime"`

	Spawn Spawn `yaml:"spawn"`
}

// Streaks holds the streak-indexed lookup tables. Streaks past the end of a
// table reuse its last entry.
type Streaks struct {
	Multipliers       []int           `yaml:"multipliers"`
	SpottingDurations []time.Duration `yaml:"spotting_durations"`
	SpottingDelays    []time.Duration `yaml:"spotting_delays"`
	FlaggingDelays    []time.Duration `yaml:"flagging_delays"`
	AwardSounds       []int           `yaml:"award_sounds"`
}

// Spawn holds drop-in spawn settings.
type Spawn struct {
	Rectangles           []model.Rect  `yaml:"rectangles"`
	Elevation            float64       `yaml:"elevation"`
	PoolSize             int           `yaml:"pool_size"`
	QueueProcessingDelay time.Duration `yaml:"queue_processing_delay"`
	StartDelay           int           `yaml:"start_delay"` // seconds before a human is queued
	Seed                 uint64        `yaml:"seed"`        // 0 = random
}

// DefaultMode returns Mode config with the stock Bounty Hunter tuning.
func DefaultMode() Mode {
	return Mode{
		Name:               "bounty_hunter",
		BaseKillPoints:     10,
		BigBountyThreshold: 30,
		MaxBigBounties:     3,
		TargetPoints:       500,
		Streaks: Streaks{
			Multipliers: []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6},
			SpottingDurations: []time.Duration{
				0, 0, 0, 3 * time.Second, 3 * time.Second, 4 * time.Second,
				4 * time.Second, 5 * time.Second, 5 * time.Second, 6 * time.Second,
			},
			SpottingDelays: []time.Duration{
				0, 0, 0, 30 * time.Second, 25 * time.Second, 20 * time.Second,
				20 * time.Second, 15 * time.Second, 15 * time.Second, 10 * time.Second,
			},
			FlaggingDelays: []time.Duration{
				0, 0, 0, 0, 10 * time.Second, 8 * time.Second,
				6 * time.Second, 5 * time.Second, 4 * time.Second, 3 * time.Second,
			},
			AwardSounds: []int{0, 0, 1, 1, 2, 2, 3},
		},
		AwardDuration: 3 * time.Second,
		AwardSounds: []string{
			"SFX_Bounty_Award_Small",
			"SFX_Bounty_Award_Medium",
			"SFX_Bounty_Award_Large",
			"SFX_Bounty_Award_Huge",
		},
		SoundDuration:     2 * time.Second,
		SoundAmplitude:    1.0,
		FlagMarkerHeight:  3.0,
		ScavengerPoints:   5,
		ScavengerLifetime: 30 * time.Second,
		Spawn: Spawn{
			Rectangles: []model.Rect{
				{MinX: -200, MinZ: -200, MaxX: 200, MaxZ: 200},
			},
			PoolSize:             32,
			QueueProcessingDelay: time.Second,
			StartDelay:           5,
		},
	}
}

// Validate rejects tunings the engine cannot run with.
func (m Mode) Validate() error {
	if m.BaseKillPoints <= 0 {
		return fmt.Errorf("%w: base_kill_points must be positive", ErrInvalid)
	}
	if m.BigBountyThreshold <= 0 {
		return fmt.Errorf("%w: big_bounty_threshold must be positive", ErrInvalid)
	}
	if m.MaxBigBounties <= 0 {
		return fmt.Errorf("%w: max_big_bounties must be positive", ErrInvalid)
	}
	if m.TargetPoints < 0 {
		return fmt.Errorf("%w: target_points must not be negative", ErrInvalid)
	}
	for name, d := range map[string]time.Duration{
		"award_duration":     m.AwardDuration,
		"sound_duration":     m.SoundDuration,
		"scavenger_lifetime": m.ScavengerLifetime,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, name)
		}
	}
	for name, table := range map[string][]time.Duration{
		"spotting_durations": m.Streaks.SpottingDurations,
		"spotting_delays":    m.Streaks.SpottingDelays,
		"flagging_delays":    m.Streaks.FlaggingDelays,
	} {
		for i, d := range table {
			if d < 0 {
				return fmt.Errorf("%w: streaks.%s[%d]=%s is negative", ErrInvalid, name, i, d)
			}
		}
	}
	if len(m.AwardSounds) == 0 {
		return fmt.Errorf("%w: award_sounds is empty", ErrInvalid)
	}
	for i, idx := range m.Streaks.AwardSounds {
		if idx < 0 || idx >= len(m.AwardSounds) {
			return fmt.Errorf("%w: streaks.award_sounds[%d]=%d has no asset", ErrInvalid, i, idx)
		}
	}
	if m.Spawn.PoolSize <= 0 {
		return fmt.Errorf("%w: spawn.pool_size must be positive", ErrInvalid)
	}
	if len(m.Spawn.Rectangles) == 0 {
		return fmt.Errorf("%w: spawn.rectangles is empty", ErrInvalid)
	}
	for i, r := range m.Spawn.Rectangles {
		if r.Width() < 0 || r.Depth() < 0 {
			return fmt.Errorf("%w: spawn.rectangles[%d] has negative extent", ErrInvalid, i)
		}
	}
	if m.Spawn.QueueProcessingDelay <= 0 {
		return fmt.Errorf("%w: spawn.queue_processing_delay must be positive", ErrInvalid)
	}
	return nil
}

// LoadMode loads mode tuning from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadMode(path string) (Mode, error) {
	cfg := DefaultMode()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
