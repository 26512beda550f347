// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fixedgiga

// LogisticScale returns maxValue / (1 + e^(-steepness*(score-midpoint))).
// The branch is chosen by the sign of score-midpoint so the exponent argument is never negative.
func LogisticScale(score, maxValue, steepness, midpoint Giga) (Giga, error) {
	var tail Giga
	switch {
	case score > midpoint:
		exponent, err := MulDown(steepness, score-midpoint)
		if err != nil {
			return 0, err
		}
		if tail, err = NegExpDown(exponent); err != nil {
			return 0, err
		}
	case score < midpoint:
		exponent, err := MulDown(steepness, midpoint-score)
		if err != nil {
			return 0, err
		}
		if tail, err = ExpDown(exponent); err != nil {
			return 0, err
		}
	default:
		return DivDown(maxValue, Two)
	}

	denominator, err := Add(One, tail)
	if err != nil {
		return 0, err
	}
	return DivDown(maxValue, denominator)
}
