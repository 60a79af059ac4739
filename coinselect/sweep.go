// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

// accumulator tracks the running totals of the sweeping selectors, which add
// candidates one by one until the value covers the target plus the fee.
type accumulator struct {
	model *costModel
	opts  Options

	// baseWeight is charged on top of the selected weight when computing
	// the fee.
	baseWeight uint64

	// target is the value to cover before the fee is added.
	target uint64

	value    uint64
	weight   uint64
	fee      uint64
	selected []int
}

// newAccumulator returns an empty accumulator.
func newAccumulator(model *costModel, opts Options, baseWeight,
	target uint64, capacity int) *accumulator {

	return &accumulator{
		model:      model,
		opts:       opts,
		baseWeight: baseWeight,
		target:     target,
		selected:   make([]int, 0, capacity),
	}
}

// add includes the group at the given caller index, recomputes the fee from
// the accumulated weight and reports whether the threshold is now met.
func (a *accumulator) add(index int, group OutputGroup) bool {
	a.value = addSat(a.value, group.Value)
	a.weight = addSat(a.weight, group.Weight)
	a.selected = append(a.selected, index)
	a.fee = a.model.fee(addSat(a.baseWeight, a.weight))

	return a.reached()
}

// paidFee is the fee the selection pays, never below the absolute minimum.
func (a *accumulator) paidFee() uint64 {
	return max(a.fee, a.opts.MinAbsoluteFee)
}

// reached reports whether the accumulated value covers the target plus the
// fee.
func (a *accumulator) reached() bool {
	if len(a.selected) == 0 {
		return false
	}

	return a.value >= addSat(a.target, a.paidFee())
}

// selection turns the accumulated inputs into a scored Selection.
func (a *accumulator) selection() *Selection {
	fee := a.paidFee()

	return &Selection{
		SelectedInputs: a.selected,
		Waste: a.model.waste(
			a.opts, len(a.selected), a.value, a.weight, fee,
		),
		Fee: fee,
	}
}
