// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/btcsuite/coinselect/pkg/btcunit"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Fee returns the fee for the given weight at the given rate in sat/wu,
// rounded up to the next satoshi. Invalid rates (negative, NaN or infinite)
// are treated as a zero rate; use Options.Validate to reject them up front.
func Fee(weight uint64, feeRate float64) uint64 {
	rate, err := btcunit.NewSatPerWeightFloat(feeRate)
	if err != nil {
		return 0
	}

	return rate.FeeForWeightRoundUp(btcunit.NewWeightUnit(weight))
}

// EffectiveValue returns the value of the group minus the fee for spending
// it, floored at zero.
func EffectiveValue(group OutputGroup, feeRate float64) uint64 {
	return subSat(group.Value, Fee(group.Weight, feeRate))
}

// costModel holds the parsed fee rates of one selection call so the rationals
// are built once per call rather than once per fee.
type costModel struct {
	targetRate btcunit.SatPerWeight

	// spreadRate is the target rate minus the long-term rate, clamped at
	// zero. It is only set when a long-term rate was supplied.
	spreadRate fn.Option[btcunit.SatPerWeight]
}

// newCostModel parses the fee rates carried by the options.
func newCostModel(opts Options) (*costModel, error) {
	targetRate, err := btcunit.NewSatPerWeightFloat(opts.TargetFeeRate)
	if err != nil {
		return nil, fmt.Errorf("target fee rate: %w", err)
	}

	model := &costModel{targetRate: targetRate}

	if opts.LongTermFeeRate.IsSome() {
		longTerm, err := btcunit.NewSatPerWeightFloat(
			opts.LongTermFeeRate.UnwrapOr(0),
		)
		if err != nil {
			return nil, fmt.Errorf("long-term fee rate: %w", err)
		}

		model.spreadRate = fn.Some(targetRate.Spread(longTerm))
	}

	return model, nil
}

// validatedCostModel checks the options and parses their fee rates.
func validatedCostModel(opts Options) (*costModel, error) {
	if opts.ExcessStrategy > ExcessToDrain {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExcessStrategy,
			opts.ExcessStrategy)
	}

	return newCostModel(opts)
}

// fee returns the fee for the given weight at the target rate.
func (c *costModel) fee(weight uint64) uint64 {
	return c.targetRate.FeeForWeightRoundUp(btcunit.NewWeightUnit(weight))
}

// effectiveValue returns the group value minus its spending fee at the target
// rate, floored at zero.
func (c *costModel) effectiveValue(group OutputGroup) uint64 {
	return subSat(group.Value, c.fee(group.Weight))
}

// addSat adds two amounts, saturating at math.MaxUint64.
func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}

	return sum
}

// subSat subtracts b from a, saturating at zero.
func subSat(a, b uint64) uint64 {
	if b > a {
		return 0
	}

	return a - b
}
