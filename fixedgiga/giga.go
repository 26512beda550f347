// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package fixedgiga implements deterministic unsigned fixed-point arithmetic with nine decimal places.
//
// Every operation comes in a _Down and an _Up flavour. For any input the true mathematical result
// lies between the two: Down(x) <= x <= Up(x). Nothing in this package touches floating point.
package fixedgiga

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

// Giga is a non-negative real number scaled by 10^9.
type Giga uint64

const (
	Zero     Giga = 0
	One      Giga = 1000000000
	Two      Giga = 2 * One
	MaxValue Giga = math.MaxUint64
)

var ErrOverflow = errors.New("fixed-point result does not fit in 64 bits")

// FromUint64 converts a whole number to its scaled representation.
func FromUint64(n uint64) (Giga, error) {
	hi, lo := bits.Mul64(n, uint64(One))
	if hi != 0 {
		return 0, ErrOverflow
	}
	return Giga(lo), nil
}

// FromRatio returns numerator/denominator rounded down, useful for writing constants like 0.99.
func FromRatio(numerator, denominator uint64) Giga {
	v, err := CheckedMulDivDown(numerator, uint64(One), denominator)
	if err != nil {
		panic(err)
	}
	return Giga(v)
}

// CheckedMulDivDown returns floor(val*num/denom) using a 128 bit intermediate.
// It fails only when the final quotient does not fit in 64 bits; denom == 0 panics.
func CheckedMulDivDown(val, num, denom uint64) (uint64, error) {
	if denom == 0 {
		panic("fixedgiga: division by zero")
	}
	hi, lo := bits.Mul64(val, num)
	if hi >= denom {
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, denom)
	return quo, nil
}

// CheckedMulDivUp returns ceil(val*num/denom) using a 128 bit intermediate.
func CheckedMulDivUp(val, num, denom uint64) (uint64, error) {
	if denom == 0 {
		panic("fixedgiga: division by zero")
	}
	hi, lo := bits.Mul64(val, num)
	if hi >= denom {
		return 0, ErrOverflow
	}
	quo, rem := bits.Div64(hi, lo, denom)
	if rem == 0 {
		return quo, nil
	}
	if quo == math.MaxUint64 {
		return 0, ErrOverflow
	}
	return quo + 1, nil
}

func MulDown(a, b Giga) (Giga, error) {
	v, err := CheckedMulDivDown(uint64(a), uint64(b), uint64(One))
	return Giga(v), err
}

func MulUp(a, b Giga) (Giga, error) {
	v, err := CheckedMulDivUp(uint64(a), uint64(b), uint64(One))
	return Giga(v), err
}

func DivDown(a, b Giga) (Giga, error) {
	v, err := CheckedMulDivDown(uint64(a), uint64(One), uint64(b))
	return Giga(v), err
}

func DivUp(a, b Giga) (Giga, error) {
	v, err := CheckedMulDivUp(uint64(a), uint64(One), uint64(b))
	return Giga(v), err
}

// Add fails instead of wrapping around.
func Add(a, b Giga) (Giga, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return Giga(sum), nil
}

// SaturatingAdd returns a+b, or MaxValue when the sum does not fit.
func SaturatingAdd(a, b Giga) Giga {
	if sum, err := Add(a, b); err == nil {
		return sum
	}
	return MaxValue
}

// SaturatingSub returns a-b, or zero when b > a.
func SaturatingSub(a, b Giga) Giga {
	if b >= a {
		return 0
	}
	return a - b
}

// Complement returns One-x, saturating at zero.
func Complement(x Giga) Giga {
	return SaturatingSub(One, x)
}

func Min(a, b Giga) Giga {
	if a < b {
		return a
	}
	return b
}

func Max(a, b Giga) Giga {
	if a > b {
		return a
	}
	return b
}

func Clamp(x, low, high Giga) Giga {
	return Min(Max(x, low), high)
}

// Whole truncates the fractional part.
func (g Giga) Whole() uint64 {
	return uint64(g) / uint64(One)
}

func (g Giga) String() string {
	return fmt.Sprintf("%d.%09d", uint64(g)/uint64(One), uint64(g)%uint64(One))
}
