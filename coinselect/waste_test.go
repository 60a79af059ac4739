package coinselect

import (
	"math"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

// TestCalculateWaste checks both terms of the waste metric.
func TestCalculateWaste(t *testing.T) {
	t.Parallel()

	inputs := basicGroups()

	withStrategy := func(target uint64, strategy ExcessStrategy,
		longTerm fn.Option[float64]) Options {

		opts := testOptions(target)
		opts.ExcessStrategy = strategy
		opts.LongTermFeeRate = longTerm

		return opts
	}

	testCases := []struct {
		name      string
		opts      Options
		accValue  uint64
		accWeight uint64
		fee       uint64
		expected  WasteMetric
	}{
		{
			name: "drain charges drain cost only",
			opts: withStrategy(
				5000, ExcessToDrain, fn.None[float64](),
			),
			accValue:  6000,
			accWeight: 600,
			fee:       300,
			expected:  10,
		},
		{
			name: "fee strategy charges the excess",
			opts: withStrategy(
				5000, ExcessToFee, fn.None[float64](),
			),
			accValue:  6000,
			accWeight: 600,
			fee:       100,
			expected:  900,
		},
		{
			name: "recipient strategy charges the excess",
			opts: withStrategy(
				5000, ExcessToRecipient, fn.None[float64](),
			),
			accValue:  5500,
			accWeight: 600,
			fee:       300,
			expected:  200,
		},
		{
			// 10 wu * (0.5 - 0.25) = 2.5, rounded up to 3.
			name: "long-term spread is added",
			opts: withStrategy(
				5000, ExcessToDrain, fn.Some(0.25),
			),
			accValue:  6000,
			accWeight: 10,
			fee:       5,
			expected:  13,
		},
		{
			name: "long-term above target counts as zero",
			opts: withStrategy(
				5000, ExcessToDrain, fn.Some(2.0),
			),
			accValue:  6000,
			accWeight: 600,
			fee:       300,
			expected:  10,
		},
		{
			name: "negative excess saturates at zero",
			opts: withStrategy(
				5000, ExcessToFee, fn.None[float64](),
			),
			accValue:  100,
			accWeight: 100,
			fee:       50,
			expected:  0,
		},
		{
			name: "invalid long-term rate drops the long-term term",
			opts: withStrategy(
				5000, ExcessToDrain, fn.Some(math.NaN()),
			),
			accValue:  6000,
			accWeight: 600,
			fee:       300,
			expected:  10,
		},
		{
			name: "invalid target rate still charges the excess",
			opts: func() Options {
				opts := withStrategy(
					5000, ExcessToFee, fn.Some(0.25),
				)
				opts.TargetFeeRate = -1

				return opts
			}(),
			accValue:  6000,
			accWeight: 600,
			fee:       100,
			expected:  900,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			waste := CalculateWaste(
				inputs, []int{0, 1, 2}, tc.opts, tc.accValue,
				tc.accWeight, tc.fee,
			)
			require.Equal(t, tc.expected, waste)
		})
	}
}
