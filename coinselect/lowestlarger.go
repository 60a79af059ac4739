package coinselect

import "sort"

// SelectLowestLarger performs coin selection via Lowest Larger. Groups whose
// value does not cover their own spending fee are left out. The remaining
// groups are sorted by ascending effective value, ties keeping the caller's
// order, and split at the first group whose value exceeds
// TargetValue + MinDrainValue plus its own spending fee.
//
// The smaller-or-equal part is walked from its largest member down, so the
// selection uses as few inputs as possible. Only when that part cannot reach
// TargetValue + MinDrainValue + max(fee, MinAbsoluteFee) does the walk go on
// through the larger groups in ascending order. The fee is recomputed from the
// accumulated weight after each addition. ErrInsufficientFunds is returned when
// both phases fall short.
func SelectLowestLarger(inputs []OutputGroup, opts Options) (*Selection,
	error) {

	model, err := validatedCostModel(opts)
	if err != nil {
		return nil, err
	}

	effective := make([]uint64, len(inputs))
	order := make([]int, 0, len(inputs))
	for i := range inputs {
		effective[i] = model.effectiveValue(inputs[i])

		// Groups that cannot pay for themselves only lower the
		// reachable total.
		if effective[i] == 0 {
			continue
		}

		order = append(order, i)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return effective[order[i]] < effective[order[j]]
	})

	target := addSat(opts.TargetValue, opts.MinDrainValue)

	// A group is larger than the target when its value still exceeds it
	// after paying for its own weight, which is monotonic in the effective
	// value order.
	boundary := sort.Search(len(order), func(i int) bool {
		group := inputs[order[i]]
		return group.Value > addSat(target, model.fee(group.Weight))
	})

	acc := newAccumulator(model, opts, 0, target, len(order))

	for i := boundary - 1; i >= 0; i-- {
		if acc.add(order[i], inputs[order[i]]) {
			log.Debugf("LowestLarger selected %d smaller inputs",
				len(acc.selected))

			return acc.selection(), nil
		}
	}

	for _, idx := range order[boundary:] {
		if acc.add(idx, inputs[idx]) {
			log.Debugf("LowestLarger selected %d inputs, %d of "+
				"them larger than the target",
				len(acc.selected), len(acc.selected)-boundary)

			return acc.selection(), nil
		}
	}

	return nil, ErrInsufficientFunds
}
