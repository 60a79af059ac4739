// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcunit provides a set of types for dealing with bitcoin units.
package btcunit

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
)

const (
	// kilo is a generic multiplier for kilo units.
	kilo = 1000

	// floatStringPrecision is the number of decimal places to use when
	// converting a fee rate to a string. We use 3 decimal places to ensure
	// that low fee rates (e.g., 1 sat/kvb = 0.001 sat/vbyte) are displayed
	// with sufficient precision and not rounded to zero.
	floatStringPrecision = 3
)

var (
	// ErrInvalidFeeRate is returned when a fee rate is built from a
	// floating point value that is negative, NaN or infinite.
	ErrInvalidFeeRate = errors.New("invalid fee rate")

	// ZeroSatPerVByte is a fee rate of 0 sat/vb.
	ZeroSatPerVByte = NewSatPerVByte(0)

	// ZeroSatPerWeight is a fee rate of 0 sat/wu.
	ZeroSatPerWeight = NewSatPerWeight(0)
)

// baseFeeRate stores the canonical representation of a fee rate, which is
// satoshis per kilo-weight-unit (sat/kwu). All other fee rate units are
// derived from this.
type baseFeeRate struct {
	// satsPerKWU is the fee rate in satoshis per kilo-weight-unit. This is
	// the canonical representation for all fee rates within this package,
	// chosen for its direct alignment with Bitcoin's weight unit for fee
	// calculations and to minimize rounding errors.
	satsPerKWU *big.Rat
}

// newBaseFeeRate creates a new baseFeeRate with the given numerator and
// denominator. It handles the zero denominator case by returning a zero fee
// rate.
func newBaseFeeRate(numerator btcutil.Amount, denominator uint64) baseFeeRate {
	if denominator == 0 {
		return baseFeeRate{satsPerKWU: big.NewRat(0, 1)}
	}

	return baseFeeRate{satsPerKWU: new(big.Rat).SetFrac(
		big.NewInt(int64(numerator)),
		new(big.Int).SetUint64(denominator),
	)}
}

// newBaseFeeRateFloat converts a floating point rate expressed in satoshis
// per `unitWU` weight units into the canonical sat/kwu form. The rate is read
// from its shortest decimal representation, so 0.1 is one tenth rather than
// the binary value just above it.
func newBaseFeeRateFloat(rate float64, unitWU uint64) (baseFeeRate, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return baseFeeRate{}, fmt.Errorf("%w: %v", ErrInvalidFeeRate,
			rate)
	}

	satsPerKWU, ok := new(big.Rat).SetString(
		strconv.FormatFloat(rate, 'g', -1, 64),
	)
	if !ok {
		return baseFeeRate{}, fmt.Errorf("%w: %v", ErrInvalidFeeRate,
			rate)
	}

	satsPerKWU.Mul(satsPerKWU, new(big.Rat).SetFrac(
		big.NewInt(kilo), new(big.Int).SetUint64(unitWU),
	))

	return baseFeeRate{satsPerKWU: satsPerKWU}, nil
}

// ToSatPerVByte converts the fee rate to sat/vb.
func (f baseFeeRate) ToSatPerVByte() SatPerVByte {
	return SatPerVByte{f}
}

// ToSatPerWeight converts the fee rate to sat/wu.
func (f baseFeeRate) ToSatPerWeight() SatPerWeight {
	return SatPerWeight{f}
}

// IsZero returns true if the fee rate charges nothing.
func (f baseFeeRate) IsZero() bool {
	return f.satsPerKWU == nil || f.satsPerKWU.Sign() == 0
}

// FeeForWeightRoundUp calculates the fee resulting from this fee rate and the
// given weight in weight units (wu), rounding up to the nearest satoshi. The
// product is carried out on arbitrary precision rationals, so it never
// overflows; a fee that does not fit in an uint64 saturates at
// math.MaxUint64.
func (f baseFeeRate) FeeForWeightRoundUp(weightUnit WeightUnit) uint64 {
	if f.IsZero() || weightUnit.wu == 0 {
		return 0
	}

	// Calculate the fee as a rational number: sat/kwu * wu / 1000.
	feeRational := new(big.Rat).Mul(
		f.satsPerKWU, new(big.Rat).SetFrac(
			new(big.Int).SetUint64(weightUnit.wu),
			big.NewInt(kilo),
		),
	)

	// Get the numerator and denominator of the calculated fee.
	numerator := feeRational.Num()
	denominator := feeRational.Denom()

	// Apply the ceiling division formula:
	// (numerator + denominator - 1) / denominator.
	result := new(big.Int).Add(numerator, denominator)
	result.Sub(result, big.NewInt(1))
	result.Div(result, denominator)

	if result.Sign() < 0 {
		return 0
	}
	if !result.IsUint64() {
		return math.MaxUint64
	}

	return result.Uint64()
}

// FeeForVByteRoundUp calculates the fee resulting from this fee rate and the
// given size in vbytes (vb), rounding up to the nearest satoshi.
func (f baseFeeRate) FeeForVByteRoundUp(vb VByte) uint64 {
	return f.FeeForWeightRoundUp(vb.ToWU())
}

// spread returns the non-negative difference between this fee rate and the
// other one. A rate below the other yields a zero rate.
func (f baseFeeRate) spread(other baseFeeRate) baseFeeRate {
	diff := new(big.Rat).Sub(f.satsPerKWU, other.satsPerKWU)
	if diff.Sign() < 0 {
		diff.SetInt64(0)
	}

	return baseFeeRate{satsPerKWU: diff}
}

// equal returns true if the fee rate is equal to the other fee rate.
func (f baseFeeRate) equal(other baseFeeRate) bool {
	return f.satsPerKWU.Cmp(other.satsPerKWU) == 0
}

// greaterThan returns true if the fee rate is greater than the other fee rate.
func (f baseFeeRate) greaterThan(other baseFeeRate) bool {
	return f.satsPerKWU.Cmp(other.satsPerKWU) > 0
}

// lessThan returns true if the fee rate is less than the other fee rate.
func (f baseFeeRate) lessThan(other baseFeeRate) bool {
	return f.satsPerKWU.Cmp(other.satsPerKWU) < 0
}

// SatPerVByte represents a fee rate in sat/vbyte. Internally, all fee rates
// are stored and operated on as satoshis per kilo-weight-unit (sat/kw).
// Conversions to other units and fee calculations are performed using this
// canonical internal representation. The `String()` method is the only one
// that presents the fee rate in its specific sat/vbyte unit.
type SatPerVByte struct {
	baseFeeRate
}

// NewSatPerVByte creates a new fee rate in sat/vb.
func NewSatPerVByte(rate btcutil.Amount) SatPerVByte {
	return CalcSatPerVByte(rate, NewVByte(1))
}

// NewSatPerVByteFloat creates a new fee rate from a fractional sat/vb value,
// as typically entered by users.
func NewSatPerVByteFloat(rate float64) (SatPerVByte, error) {
	base, err := newBaseFeeRateFloat(rate, blockchain.WitnessScaleFactor)
	if err != nil {
		return SatPerVByte{}, err
	}

	return SatPerVByte{base}, nil
}

// CalcSatPerVByte calculates the fee rate in sat/vb for a given fee and size.
func CalcSatPerVByte(fee btcutil.Amount, vb VByte) SatPerVByte {
	// To convert the rate to the canonical sat/kwu unit, we use the
	// formula: (fee * 1000) / size_in_wu.
	//
	// vb.wu provides the size in weight units (wu), implicitly accounting
	// for the WitnessScaleFactor.
	numerator := fee * kilo
	denominator := vb.wu

	return SatPerVByte{newBaseFeeRate(numerator, denominator)}
}

// String returns a human-readable string of the fee rate.
func (s SatPerVByte) String() string {
	// Calculate the fee rate in sat/vb from the canonical sat/kwu.
	// The WitnessScaleFactor (4) is used to convert weight units to vbytes.
	// The `kilo` constant is used to scale kilo-weight-units.
	kwToVbRate := new(big.Rat).Mul(s.satsPerKWU,
		big.NewRat(blockchain.WitnessScaleFactor, kilo),
	)

	// Format the rational number to a string with the specified precision.
	return kwToVbRate.FloatString(floatStringPrecision) + " sat/vb"
}

// Equal returns true if the fee rate is equal to the other fee rate.
func (s SatPerVByte) Equal(other SatPerVByte) bool {
	return s.equal(other.baseFeeRate)
}

// GreaterThan returns true if the fee rate is greater than the other fee rate.
func (s SatPerVByte) GreaterThan(other SatPerVByte) bool {
	return s.greaterThan(other.baseFeeRate)
}

// LessThan returns true if the fee rate is less than the other fee rate.
func (s SatPerVByte) LessThan(other SatPerVByte) bool {
	return s.lessThan(other.baseFeeRate)
}

// SatPerWeight represents a fee rate in sat/wu. Internally, all fee rates
// are stored and operated on as satoshis per kilo-weight-unit (sat/kw).
// Conversions to other units and fee calculations are performed using this
// canonical internal representation. The `String()` method is the only one
// that presents the fee rate in its specific sat/wu unit.
type SatPerWeight struct {
	baseFeeRate
}

// NewSatPerWeight creates a new fee rate in sat/wu.
func NewSatPerWeight(rate btcutil.Amount) SatPerWeight {
	return CalcSatPerWeight(rate, NewWeightUnit(1))
}

// NewSatPerWeightFloat creates a new fee rate from a fractional sat/wu value.
// Negative, NaN and infinite values are rejected with ErrInvalidFeeRate.
func NewSatPerWeightFloat(rate float64) (SatPerWeight, error) {
	base, err := newBaseFeeRateFloat(rate, 1)
	if err != nil {
		return SatPerWeight{}, err
	}

	return SatPerWeight{base}, nil
}

// CalcSatPerWeight calculates the fee rate in sat/wu for a given fee and size.
func CalcSatPerWeight(fee btcutil.Amount, wu WeightUnit) SatPerWeight {
	// To convert the rate to the canonical sat/kwu unit, we use the
	// formula: (fee * 1000) / size_in_wu.
	numerator := fee * kilo
	denominator := wu.wu

	return SatPerWeight{newBaseFeeRate(numerator, denominator)}
}

// Spread returns how much this fee rate exceeds the other one, clamped at
// zero.
func (s SatPerWeight) Spread(other SatPerWeight) SatPerWeight {
	return SatPerWeight{s.spread(other.baseFeeRate)}
}

// Float64 returns the nearest float64 representation of the rate in sat/wu.
func (s SatPerWeight) Float64() float64 {
	wuRate := new(big.Rat).Mul(s.satsPerKWU, big.NewRat(1, kilo))
	f, _ := wuRate.Float64()

	return f
}

// String returns a human-readable string of the fee rate.
func (s SatPerWeight) String() string {
	// Calculate the fee rate in sat/wu from the canonical sat/kwu.
	// 1 sat/wu = 1000 sat/kwu. So we need to divide by kilo.
	wuRate := new(big.Rat).Mul(s.satsPerKWU, big.NewRat(1, kilo))

	return wuRate.FloatString(floatStringPrecision) + " sat/wu"
}

// Equal returns true if the fee rate is equal to the other fee rate.
func (s SatPerWeight) Equal(other SatPerWeight) bool {
	return s.equal(other.baseFeeRate)
}

// GreaterThan returns true if the fee rate is greater than the other fee rate.
func (s SatPerWeight) GreaterThan(other SatPerWeight) bool {
	return s.greaterThan(other.baseFeeRate)
}

// LessThan returns true if the fee rate is less than the other fee rate.
func (s SatPerWeight) LessThan(other SatPerWeight) bool {
	return s.lessThan(other.baseFeeRate)
}
