package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTables() Tables {
	return Tables{
		Multipliers:       []int{1, 1, 2, 2, 3},
		SpottingDurations: []time.Duration{0, 0, 2 * time.Second},
		SpottingDelays:    []time.Duration{0, 0, 10 * time.Second},
		FlaggingDelays:    []time.Duration{0, 0, 0, 5 * time.Second},
		AwardSounds:       []int{0, 1, 2},
	}
}

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(10, testTables())
	require.NoError(t, err)
	return tbl
}

func TestLookup_Saturates(t *testing.T) {
	table := []int{5, 6, 7}

	tests := []struct {
		streak int
		want   int
	}{
		{-3, 5},
		{0, 5},
		{1, 6},
		{2, 7},
		{3, 7},
		{1000, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lookup(table, tt.streak), "streak %d", tt.streak)
	}
}

func TestTable_BountyMatchesBaseTimesClampedMultiplier(t *testing.T) {
	tbl := newTestTable(t)
	mult := testTables().Multipliers

	for s := 0; s < 50; s++ {
		idx := min(s, len(mult)-1)
		assert.Equal(t, 10*mult[idx], tbl.Bounty(s), "streak %d", s)
	}
}

func TestTable_MultiplierNonDecreasing(t *testing.T) {
	tbl := newTestTable(t)
	prev := tbl.Multiplier(0)
	for s := 1; s < 20; s++ {
		cur := tbl.Multiplier(s)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestTable_AssistBountyTruncates(t *testing.T) {
	tbl, err := New(15, testTables())
	require.NoError(t, err)

	assert.Equal(t, 7, tbl.AssistBounty(0))  // 15/2
	assert.Equal(t, 15, tbl.AssistBounty(2)) // 30/2
	assert.Equal(t, 22, tbl.AssistBounty(4)) // 45/2
}

func TestTable_Durations(t *testing.T) {
	tbl := newTestTable(t)

	assert.Equal(t, time.Duration(0), tbl.SpottingDelay(1))
	assert.Equal(t, 10*time.Second, tbl.SpottingDelay(2))
	assert.Equal(t, 10*time.Second, tbl.SpottingDelay(99))
	assert.Equal(t, 2*time.Second, tbl.SpottingDuration(7))
	assert.Equal(t, time.Duration(0), tbl.FlaggingDelay(2))
	assert.Equal(t, 5*time.Second, tbl.FlaggingDelay(3))
	assert.Equal(t, 2, tbl.AwardSound(50))
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		base    int
		mutate  func(*Tables)
		wantErr error
	}{
		{"zero base", 0, func(*Tables) {}, ErrNonPositiveBase},
		{"empty multipliers", 10, func(t *Tables) { t.Multipliers = nil }, ErrEmptyTable},
		{"empty sounds", 10, func(t *Tables) { t.AwardSounds = nil }, ErrEmptyTable},
		{"decreasing", 10, func(t *Tables) { t.Multipliers = []int{2, 1} }, ErrDecreasingTable},
		{"negative", 10, func(t *Tables) { t.Multipliers = []int{-1, 0} }, ErrNegativeMultiplier},
		{"negative spotting duration", 10, func(t *Tables) { t.SpottingDurations = []time.Duration{-20 * time.Second} }, ErrNegativeDuration},
		{"negative spotting delay", 10, func(t *Tables) { t.SpottingDelays = []time.Duration{0, -time.Second} }, ErrNegativeDuration},
		{"negative flagging delay", 10, func(t *Tables) { t.FlaggingDelays = []time.Duration{-time.Millisecond} }, ErrNegativeDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := testTables()
			tt.mutate(&tables)
			_, err := New(tt.base, tables)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	tables := testTables()
	tbl, err := New(10, tables)
	require.NoError(t, err)

	tables.Multipliers[0] = 100
	assert.Equal(t, 10, tbl.Bounty(0))
}
