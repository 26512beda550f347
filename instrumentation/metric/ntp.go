// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/synchronization"
)

type ntpMetrics struct {
	drift *Gauge
}

type ntpReporter struct {
	metrics ntpMetrics
	address string
	logger  log.Logger
}

const NTP_QUERY_INTERVAL = 30 * time.Second

// MAX_TOLERATED_CLOCK_DRIFT is the resolution of oracle timestamps.
const MAX_TOLERATED_CLOCK_DRIFT = time.Second

func NewNtpReporter(ctx context.Context, metricFactory Factory, logger log.Logger, ntpServerAddress string) govnr.ShutdownWaiter {
	r := newNtpReporter(metricFactory, logger, ntpServerAddress)
	return synchronization.NewPeriodicalTrigger(ctx, "oracle clock drift reporter", NTP_QUERY_INTERVAL, r.logger, r.query, nil)
}

func newNtpReporter(metricFactory Factory, logger log.Logger, ntpServerAddress string) *ntpReporter {
	return &ntpReporter{
		metrics: ntpMetrics{
			drift: metricFactory.NewGauge("Oracle.Clock.Drift.Millis"),
		},
		address: ntpServerAddress,
		logger:  logger.WithTags(log.String("ntp-server", ntpServerAddress)),
	}
}

func (r *ntpReporter) query() {
	response, err := ntp.Query(r.address)
	if err != nil {
		r.logger.Info("could not query ntp server", log.Error(err))
		return
	}
	r.recordOffset(response.ClockOffset)
}

// recordOffset reports whether the offset is within MAX_TOLERATED_CLOCK_DRIFT.
func (r *ntpReporter) recordOffset(offset time.Duration) bool {
	r.metrics.drift.Update(int64(offset / time.Millisecond))
	if offset < -MAX_TOLERATED_CLOCK_DRIFT || offset > MAX_TOLERATED_CLOCK_DRIFT {
		r.logger.Info("clock drift exceeds timestamp resolution, ban expiry and retention may be off",
			log.Int64("drift-millis", int64(offset/time.Millisecond)))
		return false
	}
	return true
}
