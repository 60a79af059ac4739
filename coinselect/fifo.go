package coinselect

import "sort"

// SelectFIFO performs coin selection via First-In-First-Out. Output groups are
// spent oldest first, ordered by ascending CreationSequence. Groups without a
// sequence stay eligible but come after every sequenced group, and ties keep
// the caller's order.
//
// Groups are added until the accumulated value covers
// TargetValue + max(fee, MinAbsoluteFee) + MinDrainValue, with the fee
// recomputed from the accumulated weight after each addition. If the whole
// ordered sweep falls short ErrInsufficientFunds is returned.
func SelectFIFO(inputs []OutputGroup, opts Options) (*Selection, error) {
	model, err := validatedCostModel(opts)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		a := inputs[order[i]].CreationSequence
		b := inputs[order[j]].CreationSequence

		switch {
		case a.IsNone():
			return false

		case b.IsNone():
			return true

		default:
			return a.UnwrapOr(0) < b.UnwrapOr(0)
		}
	})

	acc := newAccumulator(
		model, opts, 0, addSat(opts.TargetValue, opts.MinDrainValue),
		len(inputs),
	)
	for _, idx := range order {
		if acc.add(idx, inputs[idx]) {
			log.Debugf("FIFO selected %d of %d inputs",
				len(acc.selected), len(inputs))

			return acc.selection(), nil
		}
	}

	return nil, ErrInsufficientFunds
}
