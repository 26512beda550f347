// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"testing"
	"time"

	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
)

func TestNtpReporter_RecordsDriftInMillis(t *testing.T) {
	registry := NewRegistry()
	r := newNtpReporter(registry, log.DefaultTestingLogger(t), "pool.ntp.org")

	require.True(t, r.recordOffset(-250*time.Millisecond))
	require.EqualValues(t, -250, registry.ExportAll()["Oracle.Clock.Drift.Millis"].(gaugeExport).Value)
}

func TestNtpReporter_FlagsDriftBeyondTimestampResolution(t *testing.T) {
	r := newNtpReporter(NewRegistry(), log.DefaultTestingLogger(t), "pool.ntp.org")

	require.True(t, r.recordOffset(MAX_TOLERATED_CLOCK_DRIFT))
	require.False(t, r.recordOffset(MAX_TOLERATED_CLOCK_DRIFT+time.Millisecond))
	require.False(t, r.recordOffset(-2*time.Second))
}
