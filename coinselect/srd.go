package coinselect

import "math/rand"

// SelectSRD performs coin selection via Single Random Draw. The output groups
// are visited in a uniformly random order and added until the accumulated
// value covers TargetValue + MinDrainValue + max(fee, MinAbsoluteFee), where
// the fee covers BaseWeight plus the accumulated weight and is recomputed
// after each addition.
//
// A nil rng makes the call use a private generator. Repeated calls are
// expected to return different subsets; that is the purpose of the algorithm.
// ErrInsufficientFunds is returned if the whole shuffled list falls short.
func SelectSRD(inputs []OutputGroup, opts Options, rng *rand.Rand) (*Selection,
	error) {

	model, err := validatedCostModel(opts)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = newRand()
	}

	order := rng.Perm(len(inputs))

	acc := newAccumulator(
		model, opts, opts.BaseWeight,
		addSat(opts.TargetValue, opts.MinDrainValue), len(inputs),
	)
	for _, idx := range order {
		if acc.add(idx, inputs[idx]) {
			log.Debugf("SRD selected %d of %d inputs",
				len(acc.selected), len(inputs))

			return acc.selection(), nil
		}
	}

	return nil, ErrInsufficientFunds
}
