// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGauge_IncDec(t *testing.T) {
	g := Gauge{}
	g.Inc()
	g.Inc()
	g.Dec()

	require.EqualValues(t, 1, g.Value(), "gauge value differed from expected")
}

func TestGauge_DecStopsAtZero(t *testing.T) {
	g := Gauge{}
	g.Add(1)
	g.Dec()
	g.Dec()

	require.EqualValues(t, 0, g.Value(), "gauge went below zero")
}

func TestGauge_UpdateOverridesCount(t *testing.T) {
	g := Gauge{}
	g.Add(7)
	g.Update(3)

	require.EqualValues(t, 3, g.Value(), "gauge value differed from expected")
}
