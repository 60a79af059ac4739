package coinselect

import (
	"math"
	"testing"

	"github.com/btcsuite/coinselect/pkg/btcunit"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

// TestFee checks that fees are rounded up and never overflow.
func TestFee(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		weight   uint64
		feeRate  float64
		expected uint64
	}{
		{
			name:     "exact",
			weight:   10,
			feeRate:  0.5,
			expected: 5,
		},
		{
			name:     "rounds up",
			weight:   11,
			feeRate:  0.5,
			expected: 6,
		},
		{
			name:     "fractional rate",
			weight:   101,
			feeRate:  0.25,
			expected: 26,
		},
		{
			name:     "decimal rate charged at its decimal value",
			weight:   10,
			feeRate:  0.1,
			expected: 1,
		},
		{
			name:     "decimal rate above a round fee",
			weight:   400,
			feeRate:  0.275,
			expected: 110,
		},
		{
			name:     "zero rate",
			weight:   500,
			feeRate:  0,
			expected: 0,
		},
		{
			name:     "zero weight",
			weight:   0,
			feeRate:  12.5,
			expected: 0,
		},
		{
			name:     "saturates",
			weight:   math.MaxUint64,
			feeRate:  1e20,
			expected: math.MaxUint64,
		},
		{
			name:     "invalid rate counts as zero",
			weight:   100,
			feeRate:  math.NaN(),
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fee := Fee(tc.weight, tc.feeRate)
			require.Equal(t, tc.expected, fee)
		})
	}
}

// TestEffectiveValue checks that the effective value floors at zero.
func TestEffectiveValue(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 54750, EffectiveValue(newGroup(55000, 500), 0.5))
	require.EqualValues(t, 0, EffectiveValue(newGroup(100, 500), 0.5))
	require.EqualValues(t, 0, EffectiveValue(newGroup(250, 500), 0.5))
	require.EqualValues(t, 1, EffectiveValue(newGroup(251, 500), 0.5))
}

// TestOptionsValidate checks that broken fee rates and excess strategies are
// rejected.
func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	valid := testOptions(1000)
	require.NoError(t, valid.Validate())

	withLongTerm := valid
	withLongTerm.LongTermFeeRate = fn.Some(0.4)
	require.NoError(t, withLongTerm.Validate())

	badTarget := valid
	badTarget.TargetFeeRate = -1
	require.ErrorIs(t, badTarget.Validate(), btcunit.ErrInvalidFeeRate)

	badLongTerm := valid
	badLongTerm.LongTermFeeRate = fn.Some(math.Inf(1))
	require.ErrorIs(t, badLongTerm.Validate(), btcunit.ErrInvalidFeeRate)

	badStrategy := valid
	badStrategy.ExcessStrategy = ExcessToDrain + 1
	require.ErrorIs(t, badStrategy.Validate(), ErrInvalidExcessStrategy)
}

// TestParseExcessStrategy checks the round trip between names and values.
func TestParseExcessStrategy(t *testing.T) {
	t.Parallel()

	for _, strategy := range []ExcessStrategy{
		ExcessToFee, ExcessToRecipient, ExcessToDrain,
	} {
		parsed, err := ParseExcessStrategy(strategy.String())
		require.NoError(t, err)
		require.Equal(t, strategy, parsed)
	}

	parsed, err := ParseExcessStrategy("Change")
	require.NoError(t, err)
	require.Equal(t, ExcessToDrain, parsed)

	_, err = ParseExcessStrategy("burn")
	require.ErrorIs(t, err, ErrInvalidExcessStrategy)
}
