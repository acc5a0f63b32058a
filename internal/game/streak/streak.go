// Package streak maps a kill streak to bounty and exposure tunables.
package streak

import (
	"errors"
	"fmt"
	"time"
)

// Errors.
var (
	ErrEmptyTable         = errors.New("streak table is empty")
	ErrDecreasingTable    = errors.New("multiplier table decreases")
	ErrNonPositiveBase    = errors.New("base kill points must be positive")
	ErrNegativeMultiplier = errors.New("multiplier must not be negative")
	ErrNegativeDuration   = errors.New("duration must not be negative")
)

// Tables holds the raw lookup tables, each indexed by kill streak.
type Tables struct {
	Multipliers       []int
	SpottingDurations []time.Duration
	SpottingDelays    []time.Duration
	FlaggingDelays    []time.Duration
	AwardSounds       []int
}

// Table is an immutable set of streak lookups. Streaks beyond the end of a
// table saturate to its last entry; negative streaks read entry zero.
type Table struct {
	base   int
	tables Tables
}

// New validates and copies tables.
func New(baseKillPoints int, t Tables) (*Table, error) {
	if baseKillPoints <= 0 {
		return nil, ErrNonPositiveBase
	}

	named := []struct {
		name string
		n    int
	}{
		{"multipliers", len(t.Multipliers)},
		{"spotting durations", len(t.SpottingDurations)},
		{"spotting delays", len(t.SpottingDelays)},
		{"flagging delays", len(t.FlaggingDelays)},
		{"award sounds", len(t.AwardSounds)},
	}
	for _, tbl := range named {
		if tbl.n == 0 {
			return nil, fmt.Errorf("%s: %w", tbl.name, ErrEmptyTable)
		}
	}

	for i, m := range t.Multipliers {
		if m < 0 {
			return nil, fmt.Errorf("multiplier[%d]=%d: %w", i, m, ErrNegativeMultiplier)
		}
		if i > 0 && m < t.Multipliers[i-1] {
			return nil, fmt.Errorf("multiplier[%d]=%d after %d: %w", i, m, t.Multipliers[i-1], ErrDecreasingTable)
		}
	}

	durations := []struct {
		name string
		vals []time.Duration
	}{
		{"spotting durations", t.SpottingDurations},
		{"spotting delays", t.SpottingDelays},
		{"flagging delays", t.FlaggingDelays},
	}
	for _, tbl := range durations {
		for i, d := range tbl.vals {
			if d < 0 {
				return nil, fmt.Errorf("%s[%d]=%s: %w", tbl.name, i, d, ErrNegativeDuration)
			}
		}
	}

	return &Table{
		base: baseKillPoints,
		tables: Tables{
			Multipliers:       append([]int(nil), t.Multipliers...),
			SpottingDurations: append([]time.Duration(nil), t.SpottingDurations...),
			SpottingDelays:    append([]time.Duration(nil), t.SpottingDelays...),
			FlaggingDelays:    append([]time.Duration(nil), t.FlaggingDelays...),
			AwardSounds:       append([]int(nil), t.AwardSounds...),
		},
	}, nil
}

// Lookup returns table[min(streak, len-1)]. table must not be empty.
func Lookup[T any](table []T, streak int) T {
	if streak < 0 {
		streak = 0
	}
	if streak >= len(table) {
		streak = len(table) - 1
	}
	return table[streak]
}

// BaseKillPoints returns the bounty of a streak with multiplier 1.
func (t *Table) BaseKillPoints() int {
	return t.base
}

// Multiplier returns the bounty multiplier for streak.
func (t *Table) Multiplier(streak int) int {
	return Lookup(t.tables.Multipliers, streak)
}

// Bounty returns the points awarded for eliminating a player on streak.
func (t *Table) Bounty(streak int) int {
	return t.base * t.Multiplier(streak)
}

// AssistBounty returns half the bounty, truncated toward zero.
func (t *Table) AssistBounty(streak int) int {
	return t.Bounty(streak) / 2
}

// SpottingDuration returns how long a player on streak stays spotted.
func (t *Table) SpottingDuration(streak int) time.Duration {
	return Lookup(t.tables.SpottingDurations, streak)
}

// SpottingDelay returns the pause between spottings. Zero disables spotting.
func (t *Table) SpottingDelay(streak int) time.Duration {
	return Lookup(t.tables.SpottingDelays, streak)
}

// FlaggingDelay returns the world-marker refresh interval. Zero disables flagging.
func (t *Table) FlaggingDelay(streak int) time.Duration {
	return Lookup(t.tables.FlaggingDelays, streak)
}

// AwardSound returns the award sound index for a victim's streak.
func (t *Table) AwardSound(streak int) int {
	return Lookup(t.tables.AwardSounds, streak)
}
