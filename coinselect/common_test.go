package coinselect

import (
	"math/rand"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

// newGroup returns a single-input, non-segwit output group.
func newGroup(value, weight uint64) OutputGroup {
	return OutputGroup{
		Value:      value,
		Weight:     weight,
		InputCount: 1,
	}
}

// newGroupWithSequence returns a single-input output group with a creation
// sequence.
func newGroupWithSequence(value, weight uint64, seq uint32) OutputGroup {
	group := newGroup(value, weight)
	group.CreationSequence = fn.Some(seq)

	return group
}

// testOptions returns the options shared by most tests: a 0.5 sat/wu fee rate,
// a small base weight and a change output.
func testOptions(target uint64) Options {
	return Options{
		TargetValue:    target,
		TargetFeeRate:  0.5,
		MinAbsoluteFee: 0,
		BaseWeight:     10,
		DrainWeight:    50,
		DrainCost:      10,
		CostPerInput:   20,
		CostPerOutput:  10,
		MinDrainValue:  500,
		ExcessStrategy: ExcessToDrain,
	}
}

// basicGroups returns three groups worth 6000 in total.
func basicGroups() []OutputGroup {
	return []OutputGroup{
		newGroup(1000, 100),
		newGroup(2000, 200),
		newGroup(3000, 300),
	}
}

// testRand returns a deterministic generator for the given seed.
func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// requireValidSelection checks that every selected index is unique and in
// range, and returns the accumulated value and weight of the selection.
func requireValidSelection(t *testing.T, inputs []OutputGroup,
	selection *Selection) (uint64, uint64) {

	t.Helper()

	require.NotNil(t, selection)

	indices := fn.NewSet(selection.SelectedInputs...)
	require.Len(t, indices, len(selection.SelectedInputs),
		"duplicate index in %v", selection.SelectedInputs)

	var value, weight uint64
	for _, idx := range selection.SelectedInputs {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(inputs))

		value += inputs[idx].Value
		weight += inputs[idx].Weight
	}

	return value, weight
}

// requireThreshold checks the threshold reached by a sweeping selector.
func requireThreshold(t *testing.T, opts Options, value, fee uint64) {
	t.Helper()

	threshold := opts.TargetValue + opts.MinDrainValue +
		max(fee, opts.MinAbsoluteFee)
	require.GreaterOrEqual(t, value, threshold)
}
