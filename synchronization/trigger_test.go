// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/synchronization"
	"github.com/orbs-network/tx-status-oracle/test"
	"github.com/stretchr/testify/require"
)

func TestPeriodicalTrigger_FiresRepeatedly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var x int32
	p := synchronization.NewPeriodicalTrigger(ctx, "test trigger", time.Millisecond, log.DefaultTestingLogger(t), func() { atomic.AddInt32(&x, 1) }, nil)
	require.True(t, test.Eventually(func() bool {
		return atomic.LoadInt32(&x) >= 3
	}), "expected at least three ticks")

	p.Stop()
	require.True(t, p.TimesTriggered() >= 3)
}

func TestPeriodicalTrigger_StopBeforeFirstTick(t *testing.T) {
	var x int32
	p := synchronization.NewPeriodicalTrigger(context.Background(), "test trigger", time.Hour, log.DefaultTestingLogger(t), func() { atomic.AddInt32(&x, 1) }, nil)
	p.Stop()
	require.EqualValues(t, 0, atomic.LoadInt32(&x), "expected no ticks")
}

func TestPeriodicalTrigger_CallsOnStopWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	p := synchronization.NewPeriodicalTrigger(ctx, "test trigger", time.Hour, log.DefaultTestingLogger(t), func() {}, func() { close(stopped) })
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("onStop was not called")
	}
	<-p.Closed
}
