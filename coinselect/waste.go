// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import "github.com/btcsuite/coinselect/pkg/btcunit"

// CalculateWaste scores a finished selection. The score has two parts:
//
//   - a long-term cost term, present only when a long-term fee rate is set:
//     ceil(accWeight * (targetFeeRate - longTermFeeRate)), where a negative
//     spread counts as zero.
//   - an excess term: without a change output (ExcessToFee and
//     ExcessToRecipient) the whole surplus accValue - TargetValue - fee is
//     lost; with ExcessToDrain the fixed DrainCost is charged instead.
//
// The selected indices are not needed by the formula but are accepted so the
// evaluator sees the full selection. Options whose fee rates fail Validate
// produce a score without the long-term term.
func CalculateWaste(_ []OutputGroup, selected []int, opts Options,
	accValue, accWeight, fee uint64) WasteMetric {

	model, err := newCostModel(opts)
	if err != nil {
		model = &costModel{targetRate: btcunit.ZeroSatPerWeight}
	}

	return model.waste(opts, len(selected), accValue, accWeight, fee)
}

// waste implements CalculateWaste on an already parsed cost model.
func (c *costModel) waste(opts Options, numSelected int, accValue, accWeight,
	fee uint64) WasteMetric {

	var waste uint64
	c.spreadRate.WhenSome(func(spread btcunit.SatPerWeight) {
		waste = spread.FeeForWeightRoundUp(
			btcunit.NewWeightUnit(accWeight),
		)
	})

	if opts.ExcessStrategy != ExcessToDrain {
		excess := subSat(subSat(accValue, opts.TargetValue), fee)
		waste = addSat(waste, excess)
	} else {
		waste = addSat(waste, opts.DrainCost)
	}

	log.Tracef("Waste for %d inputs (value=%d, weight=%d, fee=%d): %d",
		numSelected, accValue, accWeight, fee, waste)

	return WasteMetric(waste)
}
