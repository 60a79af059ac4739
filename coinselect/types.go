// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coinselect picks a subset of output groups that pays a target
// amount plus fees while keeping the waste metric low. It offers a
// Branch-and-Bound search for change-less matches, three sweeping heuristics
// (FIFO, Single Random Draw, Lowest-Larger), a knapsack approximation and an
// aggregator that runs them all and keeps the cheapest result.
//
// The package performs no I/O and never mutates its inputs. Every call owns
// its working copies, so concurrent calls are safe as long as they do not
// share a random generator.
package coinselect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
)

var (
	// ErrInsufficientFunds is returned by the sweeping selectors when all
	// eligible output groups together cannot reach the required amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoSolutionFound is returned by the Branch-and-Bound selector when
	// the search space or the tries budget is exhausted without landing in
	// the acceptance window.
	ErrNoSolutionFound = errors.New("no solution found")

	// ErrInvalidExcessStrategy is returned when the options carry an
	// excess strategy that is not one of the known values.
	ErrInvalidExcessStrategy = errors.New("invalid excess strategy")

	// ErrUnknownAlgorithm is returned when Select is asked to run an
	// algorithm that does not exist.
	ErrUnknownAlgorithm = errors.New("unknown selection algorithm")
)

// OutputGroup represents an input candidate for coin selection. This can
// either be a single UTXO, or a group of UTXOs that must be spent together.
// The caller is responsible for filling in the value and weight correctly; the
// engine trusts them as given.
type OutputGroup struct {
	// Value is the total value of the UTXO(s) in this group.
	Value uint64

	// Weight is the total weight of including the UTXO(s). It must cover
	// the outpoint, sequence, script sig and witness of every input.
	Weight uint64

	// InputCount is the number of inputs this group stands for.
	InputCount int

	// IsSegwit reports whether the group contains at least one segwit
	// spend.
	IsSegwit bool

	// CreationSequence is the relative age of the group, lower is older.
	// It is only used by FIFO selection. Groups without a sequence are
	// still eligible for FIFO but are spent after every sequenced group.
	CreationSequence fn.Option[uint32]
}

// ExcessStrategy decides what happens to the value left over once the target
// and the fee are paid.
type ExcessStrategy uint8

const (
	// ExcessToFee hands the excess to the miners.
	ExcessToFee ExcessStrategy = iota

	// ExcessToRecipient adds the excess to the payment output.
	ExcessToRecipient

	// ExcessToDrain creates a change output for the excess.
	ExcessToDrain
)

// String returns the name of the excess strategy.
func (e ExcessStrategy) String() string {
	switch e {
	case ExcessToFee:
		return "tofee"

	case ExcessToRecipient:
		return "torecipient"

	case ExcessToDrain:
		return "todrain"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// ParseExcessStrategy maps a case-insensitive strategy name to its value.
func ParseExcessStrategy(s string) (ExcessStrategy, error) {
	switch strings.ToLower(s) {
	case "tofee", "fee":
		return ExcessToFee, nil

	case "torecipient", "recipient":
		return ExcessToRecipient, nil

	case "todrain", "drain", "change":
		return ExcessToDrain, nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidExcessStrategy, s)
	}
}

// Options is the set of parameters that guide a selection attempt. Options are
// passed by value and are never modified by the selectors.
type Options struct {
	// TargetValue is the amount that has to be paid.
	TargetValue uint64

	// TargetFeeRate is the fee rate of the transaction being built, in
	// satoshis per weight unit.
	TargetFeeRate float64

	// LongTermFeeRate is the expected fee rate for spending the inputs at
	// a later time. It only feeds the long-term cost term of the waste
	// metric.
	LongTermFeeRate fn.Option[float64]

	// MinAbsoluteFee is a floor on the fee, e.g. as required by RBF.
	MinAbsoluteFee uint64

	// BaseWeight is the weight of the transaction template, including the
	// fixed fields and the outputs, before any input is added.
	BaseWeight uint64

	// DrainWeight is the additional weight of a change output.
	DrainWeight uint64

	// DrainCost is the cost of creating the change output and spending
	// it in the future.
	DrainCost uint64

	// CostPerInput is the estimated cost of spending an input.
	CostPerInput uint64

	// CostPerOutput is the estimated cost of creating an output.
	CostPerOutput uint64

	// MinDrainValue is the smallest change output worth creating.
	MinDrainValue uint64

	// ExcessStrategy decides where the leftover value goes.
	ExcessStrategy ExcessStrategy
}

// Validate checks that the fee rates are usable and that the excess strategy
// is known.
func (o Options) Validate() error {
	_, err := validatedCostModel(o)

	return err
}

// WasteMetric is the score used to compare selections. Lower is better.
type WasteMetric uint64

// Selection is the result of a successful selection attempt.
type Selection struct {
	// SelectedInputs are indices into the slice of output groups given to
	// the selector. They are unique, but their order carries no meaning.
	SelectedInputs []int

	// Waste is the waste metric of the selection.
	Waste WasteMetric

	// Fee is the fee the selection was scored with. Each algorithm
	// prices its own weight, so FIFO and Lowest-Larger leave the base
	// weight out.
	Fee uint64
}
