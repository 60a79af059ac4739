// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcunit

import (
	"fmt"
	"math"

	"github.com/btcsuite/btcd/blockchain"
)

// size is a transaction size kept in weight units. The exported size types
// only differ in how a size is entered and printed.
type size struct {
	wu uint64
}

// ToWU returns the size in weight units.
func (s size) ToWU() WeightUnit {
	return WeightUnit{s}
}

// ToVB returns the size in virtual bytes.
func (s size) ToVB() VByte {
	return VByte{s}
}

// WeightUnit is a transaction size in weight units as defined by BIP141,
// three times the stripped size plus the total size.
type WeightUnit struct {
	size
}

// NewWeightUnit returns a size of wu weight units.
func NewWeightUnit(wu uint64) WeightUnit {
	return WeightUnit{size{wu: wu}}
}

// Uint64 returns the raw number of weight units.
func (w WeightUnit) Uint64() uint64 {
	return w.wu
}

// String returns the size formatted in weight units.
func (w WeightUnit) String() string {
	return fmt.Sprintf("%d wu", w.wu)
}

// VByte is a transaction size in virtual bytes. A virtual byte is four weight
// units, so a weight that is not a multiple of four covers a fraction of its
// last virtual byte.
type VByte struct {
	size
}

// NewVByte returns a size of vb virtual bytes. Sizes beyond the range of
// weight units saturate.
func NewVByte(vb uint64) VByte {
	if vb > math.MaxUint64/blockchain.WitnessScaleFactor {
		return VByte{size{wu: math.MaxUint64}}
	}

	return VByte{size{wu: vb * blockchain.WitnessScaleFactor}}
}

// Ceil returns the number of whole virtual bytes needed to hold the size.
func (v VByte) Ceil() uint64 {
	vb := v.wu / blockchain.WitnessScaleFactor
	if v.wu%blockchain.WitnessScaleFactor != 0 {
		vb++
	}

	return vb
}

// String returns the size formatted in whole virtual bytes, rounded up.
func (v VByte) String() string {
	return fmt.Sprintf("%d vb", v.Ceil())
}
