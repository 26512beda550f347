// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fixedgiga

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads a non-negative decimal such as "20", "0.99" or "12.5" exactly.
// More than nine fractional digits is an error rather than a silent rounding.
func Parse(s string) (Giga, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty fixed-point value")
	}

	whole, fraction := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		whole, fraction = s[:dot], s[dot+1:]
	}
	if len(fraction) > 9 {
		return 0, errors.Errorf("fixed-point value %s has more than 9 fractional digits", s)
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid fixed-point value %s", s)
	}
	scaled, err := FromUint64(w)
	if err != nil {
		return 0, errors.Wrapf(err, "fixed-point value %s", s)
	}

	if fraction == "" {
		return scaled, nil
	}
	f, err := strconv.ParseUint(fraction+strings.Repeat("0", 9-len(fraction)), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid fixed-point value %s", s)
	}
	return Add(scaled, Giga(f))
}
