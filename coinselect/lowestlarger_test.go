package coinselect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// lowestLargerGroups returns twelve groups worth 21880 in total.
func lowestLargerGroups() []OutputGroup {
	return []OutputGroup{
		newGroup(100, 100),
		newGroup(1500, 200),
		newGroup(3400, 300),
		newGroup(2200, 150),
		newGroup(1190, 200),
		newGroup(3300, 100),
		newGroup(1000, 190),
		newGroup(2000, 210),
		newGroup(3000, 300),
		newGroup(2250, 250),
		newGroup(190, 220),
		newGroup(1750, 170),
	}
}

// TestSelectLowestLarger checks the two phases of the sweep.
func TestSelectLowestLarger(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		inputs   []OutputGroup
		target   uint64
		expected []int
	}{
		{
			// Every group is below the target, so the sweep walks
			// them from the largest effective value down and stops
			// before the two dust-like ones.
			name:     "smaller groups only",
			inputs:   lowestLargerGroups(),
			target:   20000,
			expected: []int{5, 2, 8, 9, 3, 7, 11, 1, 4, 6},
		},
		{
			name: "smaller groups suffice",
			inputs: []OutputGroup{
				newGroup(1000, 100),
				newGroup(1200, 100),
				newGroup(5000, 100),
			},
			target:   1000,
			expected: []int{1, 0},
		},
		{
			name: "falls through to the larger groups",
			inputs: []OutputGroup{
				newGroup(300, 100),
				newGroup(9000, 100),
				newGroup(400, 100),
			},
			target:   1000,
			expected: []int{2, 0, 1},
		},
		{
			name: "dust group is never swept in",
			inputs: []OutputGroup{
				newGroup(100, 0),
				newGroup(1, 1000),
				newGroup(2000, 0),
			},
			target:   150,
			expected: []int{0, 2},
		},
		{
			name: "only larger groups",
			inputs: []OutputGroup{
				newGroup(9000, 100),
				newGroup(4000, 100),
			},
			target:   1000,
			expected: []int{1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := testOptions(tc.target)

			selection, err := SelectLowestLarger(tc.inputs, opts)
			require.NoError(t, err)
			require.Equal(t, tc.expected, selection.SelectedInputs)

			value, weight := requireValidSelection(
				t, tc.inputs, selection,
			)
			fee := Fee(weight, opts.TargetFeeRate)
			requireThreshold(t, opts, value, fee)
			require.Equal(t, fee, selection.Fee)
		})
	}
}

// TestSelectLowestLargerInsufficient checks that both phases falling short
// report insufficient funds.
func TestSelectLowestLargerInsufficient(t *testing.T) {
	t.Parallel()

	_, err := SelectLowestLarger(lowestLargerGroups(), testOptions(40000))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = SelectLowestLarger(basicGroups(), testOptions(7000))
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

// TestSelectLowestLargerMonotonic checks that once a target is out of reach,
// every higher target is too, even with groups worth less than their fee.
func TestSelectLowestLargerMonotonic(t *testing.T) {
	t.Parallel()

	inputs := []OutputGroup{
		newGroup(100, 0),
		newGroup(1, 1000),
		newGroup(500, 0),
		newGroup(30, 100),
	}

	opts := testOptions(0)
	opts.MinDrainValue = 0

	var failedAt uint64
	for target := uint64(0); target <= 1000; target += 10 {
		opts.TargetValue = target

		selection, err := SelectLowestLarger(inputs, opts)
		if err == nil {
			require.Zero(t, failedAt,
				"target %d succeeded after %d failed", target,
				failedAt)
			require.NotContains(t, selection.SelectedInputs, 1)

			continue
		}

		require.ErrorIs(t, err, ErrInsufficientFunds)
		if failedAt == 0 {
			failedAt = target
		}
	}

	// 100 and 500 cover any target up to 600.
	require.EqualValues(t, 610, failedAt)
}
