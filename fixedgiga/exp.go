// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fixedgiga

import (
	"math"
	"math/big"
)

// Transcendental functions are evaluated on integers scaled by 10^36 and then bracketed
// into the 10^9 representation. errorMarginDivisor and errorMarginFloor bound the accumulated
// truncation error of the series far more loosely than needed.
var (
	precision          = pow10(36)
	precisionSquared   = new(big.Int).Mul(precision, precision)
	gigaToPrecision    = pow10(27)
	errorMarginDivisor = pow10(20)
	errorMarginFloor   = big.NewInt(1000000)
	maxUint64          = new(big.Int).SetUint64(math.MaxUint64)

	// beyond this exponent the result either overflows or falls below one unit
	maxExponent = new(big.Int).Mul(big.NewInt(50), precision)

	eulerNumber = taylorExp(precision)
	ln2         = atanhTimesTwo(new(big.Int).Quo(precision, big.NewInt(3)))
)

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func toPrecision(x Giga) *big.Int {
	v := new(big.Int).SetUint64(uint64(x))
	return v.Mul(v, gigaToPrecision)
}

// ExpDown returns e^x rounded down.
func ExpDown(x Giga) (Giga, error) {
	if x == 0 {
		return One, nil
	}
	r, err := expOfPositive(toPrecision(x))
	if err != nil {
		return 0, err
	}
	return bracketDown(r)
}

// ExpUp returns e^x rounded up.
func ExpUp(x Giga) (Giga, error) {
	if x == 0 {
		return One, nil
	}
	r, err := expOfPositive(toPrecision(x))
	if err != nil {
		return 0, err
	}
	return bracketUp(r)
}

// NegExpDown returns e^-x rounded down.
func NegExpDown(x Giga) (Giga, error) {
	if x == 0 {
		return One, nil
	}
	r, vanishing := expOfNegative(toPrecision(x))
	if vanishing {
		return 0, nil
	}
	return bracketDown(r)
}

// NegExpUp returns e^-x rounded up.
func NegExpUp(x Giga) (Giga, error) {
	if x == 0 {
		return One, nil
	}
	r, vanishing := expOfNegative(toPrecision(x))
	if vanishing {
		return 1, nil
	}
	return bracketUp(r)
}

// PowDown returns base^exponent rounded down.
func PowDown(base, exponent Giga) (Giga, error) {
	switch exponent {
	case 0:
		return One, nil
	case One:
		return base, nil
	case Two:
		return MulDown(base, base)
	}
	switch base {
	case 0:
		return 0, nil
	case One:
		return One, nil
	}
	r, vanishing, err := pow(base, exponent)
	if err != nil {
		return 0, err
	}
	if vanishing {
		return 0, nil
	}
	return bracketDown(r)
}

// PowUp returns base^exponent rounded up.
func PowUp(base, exponent Giga) (Giga, error) {
	switch exponent {
	case 0:
		return One, nil
	case One:
		return base, nil
	case Two:
		return MulUp(base, base)
	}
	switch base {
	case 0:
		return 0, nil
	case One:
		return One, nil
	}
	r, vanishing, err := pow(base, exponent)
	if err != nil {
		return 0, err
	}
	if vanishing {
		return 1, nil
	}
	return bracketUp(r)
}

func pow(base, exponent Giga) (*big.Int, bool, error) {
	t := lnOfPositive(toPrecision(base))
	t.Mul(t, toPrecision(exponent))
	t.Quo(t, precision)

	if t.Sign() >= 0 {
		r, err := expOfPositive(t)
		return r, false, err
	}

	r, vanishing := expOfNegative(t.Neg(t))
	return r, vanishing, nil
}

func expOfPositive(x *big.Int) (*big.Int, error) {
	if x.Cmp(maxExponent) > 0 {
		return nil, ErrOverflow
	}
	whole := new(big.Int).Quo(x, precision).Int64()
	fraction := new(big.Int).Rem(x, precision)

	result := taylorExp(fraction)
	for i := int64(0); i < whole; i++ {
		result.Mul(result, eulerNumber)
		result.Quo(result, precision)
	}
	return result, nil
}

// expOfNegative reports vanishing when e^-x is certainly below one unit.
func expOfNegative(x *big.Int) (*big.Int, bool) {
	if x.Cmp(maxExponent) > 0 {
		return nil, true
	}
	e, _ := expOfPositive(x)
	return new(big.Int).Quo(precisionSquared, e), false
}

// taylorExp evaluates e^x for 0 <= x <= 1.
func taylorExp(x *big.Int) *big.Int {
	sum := new(big.Int).Set(precision)
	term := new(big.Int).Set(precision)
	for k := int64(1); ; k++ {
		term.Mul(term, x)
		term.Quo(term, precision)
		term.Quo(term, big.NewInt(k))
		if term.Sign() == 0 {
			return sum
		}
		sum.Add(sum, term)
	}
}

// lnOfPositive reduces x to m*2^k with m in [1, 2) and evaluates ln(m) as 2*atanh((m-1)/(m+1)).
func lnOfPositive(x *big.Int) *big.Int {
	k := x.BitLen() - precision.BitLen()
	m := new(big.Int)
	if k >= 0 {
		m.Rsh(x, uint(k))
	} else {
		m.Lsh(x, uint(-k))
	}

	twoPrecision := new(big.Int).Lsh(precision, 1)
	for m.Cmp(precision) < 0 {
		m.Lsh(m, 1)
		k--
	}
	for m.Cmp(twoPrecision) >= 0 {
		m.Rsh(m, 1)
		k++
	}

	numerator := new(big.Int).Sub(m, precision)
	numerator.Mul(numerator, precision)
	y := numerator.Quo(numerator, new(big.Int).Add(m, precision))

	result := atanhTimesTwo(y)
	return result.Add(result, new(big.Int).Mul(big.NewInt(int64(k)), ln2))
}

// atanhTimesTwo converges quickly for 0 <= y <= 1/3.
func atanhTimesTwo(y *big.Int) *big.Int {
	ySquared := new(big.Int).Mul(y, y)
	ySquared.Quo(ySquared, precision)

	sum := new(big.Int).Set(y)
	power := new(big.Int).Set(y)
	for i := int64(3); ; i += 2 {
		power.Mul(power, ySquared)
		power.Quo(power, precision)
		term := new(big.Int).Quo(power, big.NewInt(i))
		if term.Sign() == 0 {
			break
		}
		sum.Add(sum, term)
	}
	return sum.Lsh(sum, 1)
}

func errorMargin(r *big.Int) *big.Int {
	margin := new(big.Int).Quo(r, errorMarginDivisor)
	return margin.Add(margin, errorMarginFloor)
}

func bracketDown(r *big.Int) (Giga, error) {
	low := new(big.Int).Sub(r, errorMargin(r))
	if low.Sign() < 0 {
		return 0, nil
	}
	low.Quo(low, gigaToPrecision)
	if low.Cmp(maxUint64) > 0 {
		return 0, ErrOverflow
	}
	return Giga(low.Uint64()), nil
}

func bracketUp(r *big.Int) (Giga, error) {
	high := new(big.Int).Add(r, errorMargin(r))
	high.Add(high, new(big.Int).Sub(gigaToPrecision, big.NewInt(1)))
	high.Quo(high, gigaToPrecision)
	if high.Cmp(maxUint64) > 0 {
		return 0, ErrOverflow
	}
	return Giga(high.Uint64()), nil
}
