// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package primitives

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampAddSaturatesAtPermanentBan(t *testing.T) {
	require.EqualValues(t, 1060, TimestampSeconds(1000).Add(time.Minute))
	require.Equal(t, PermanentBan, (PermanentBan - 10).Add(time.Hour))
}

func TestTimestampSinceIsZeroForFutureTimestamps(t *testing.T) {
	require.Equal(t, 30*time.Second, TimestampSeconds(1030).Since(1000))
	require.Zero(t, TimestampSeconds(1000).Since(1030))
}

func TestTimestampString(t *testing.T) {
	require.Equal(t, "1600000000", TimestampSeconds(1600000000).String())
	require.Equal(t, "forever", PermanentBan.String())
}

func TestTxStatusValidity(t *testing.T) {
	for _, s := range AllTxStatuses {
		require.True(t, s.IsValid(), "%s should be valid", s)
	}
	require.False(t, TxStatus(NUM_TX_STATUSES).IsValid())
	require.Equal(t, "UNKNOWN", TxStatus(NUM_TX_STATUSES).String())
}
