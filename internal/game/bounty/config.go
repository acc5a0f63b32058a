package bounty

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by New for unusable tuning.
var ErrInvalidConfig = errors.New("invalid bounty config")

// Config holds engine tunables that are not streak-indexed.
type Config struct {
	// BigBountyThreshold is the bounty at which a flagged player enters the
	// big-bounty panel.
	BigBountyThreshold int
	// MaxBigBounties is the number of rows in each viewer's panel.
	MaxBigBounties int

	AwardDuration  time.Duration // how long the award popup stays up
	AwardSounds    []string      // assets indexed by streak.Table.AwardSound
	SoundDuration  time.Duration
	SoundAmplitude float64

	FlagMarkerHeight float64 // marker offset above the flagged player

	ScavengerPoints   int // 0 disables drops
	ScavengerLifetime time.Duration
}

// DefaultConfig returns stock tuning.
func DefaultConfig() Config {
	return Config{
		BigBountyThreshold: 30,
		MaxBigBounties:     3,
		AwardDuration:      3 * time.Second,
		AwardSounds:        []string{"SFX_Bounty_Award"},
		SoundDuration:      2 * time.Second,
		SoundAmplitude:     1,
		FlagMarkerHeight:   3,
		ScavengerPoints:    5,
		ScavengerLifetime:  30 * time.Second,
	}
}

func (c Config) validate() error {
	if c.BigBountyThreshold <= 0 {
		return fmt.Errorf("%w: big bounty threshold %d", ErrInvalidConfig, c.BigBountyThreshold)
	}
	if c.MaxBigBounties <= 0 {
		return fmt.Errorf("%w: max big bounties %d", ErrInvalidConfig, c.MaxBigBounties)
	}
	if len(c.AwardSounds) == 0 {
		return fmt.Errorf("%w: no award sounds", ErrInvalidConfig)
	}
	if c.ScavengerPoints > 0 && c.ScavengerLifetime <= 0 {
		return fmt.Errorf("%w: scavenger lifetime must be positive", ErrInvalidConfig)
	}
	return nil
}
