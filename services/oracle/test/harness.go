// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/config"
	"github.com/orbs-network/tx-status-oracle/instrumentation/metric"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/ledger"
	ledgerMemory "github.com/orbs-network/tx-status-oracle/services/ledger/adapter/memory"
	"github.com/orbs-network/tx-status-oracle/services/oracle"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	oracleMemory "github.com/orbs-network/tx-status-oracle/services/oracle/adapter/memory"
	"github.com/orbs-network/tx-status-oracle/synchronization"
	"github.com/stretchr/testify/require"
)

const registrationFee = 1000
const rewardPool = 1000000

var genesis = time.Unix(1600000000, 0)

type harness struct {
	t          testing.TB
	logger     log.Logger
	config     config.MutableOracleConfig
	clock      *synchronization.FakeClock
	ledger     ledger.Ledger
	memLedger  *ledgerMemory.InMemoryLedger
	repository adapter.Repository
	oracle     oracle.Service
	events     *eventRecorder
}

func newHarness(t testing.TB, logger log.Logger) *harness {
	memLedger := ledgerMemory.NewLedger(logger, rewardPool)
	return &harness{
		t:         t,
		logger:    logger,
		config:    config.ForTests(),
		clock:     synchronization.NewFakeClock(genesis),
		ledger:    memLedger,
		memLedger: memLedger,
		events:    &eventRecorder{},
	}
}

func (h *harness) withConfig(f func(cfg config.MutableOracleConfig)) *harness {
	f(h.config)
	return h
}

func (h *harness) withLedger(l ledger.Ledger) *harness {
	h.ledger = l
	h.memLedger = nil
	return h
}

func (h *harness) start(ctx context.Context) *harness {
	h.repository = oracleMemory.NewRepository(h.config, metric.NewRegistry())
	h.oracle = oracle.NewOracle(ctx, h.config, h.repository, h.ledger, h.clock, metric.NewRegistry(), h.logger)
	h.oracle.RegisterEventHandler(h.events)
	return h
}

func (h *harness) now() primitives.TimestampSeconds {
	return primitives.ToTimestampSeconds(h.clock.Now())
}

func (h *harness) register(ctx context.Context, ids ...primitives.ContributorId) {
	for _, id := range ids {
		require.NoError(h.t, h.memLedger.PayRegistrationFee(id, registrationFee))
		_, err := h.oracle.RegisterContributor(ctx, id)
		require.NoError(h.t, err, "failed registering %s", id)
	}
}

func (h *harness) seedContributor(ctx context.Context, c *protocol.Contributor) {
	err := h.repository.Transact(ctx, func(tx adapter.Transaction) error {
		return tx.PutContributor(c)
	})
	require.NoError(h.t, err)
}

func (h *harness) contributor(ctx context.Context, id primitives.ContributorId) *protocol.Contributor {
	c, err := h.oracle.GetContributor(ctx, id)
	require.NoError(h.t, err)
	return c
}

func (h *harness) submissionCount(ctx context.Context, txId primitives.TxId) (count *protocol.SubmissionCount, found bool) {
	err := h.repository.View(ctx, func(tx adapter.ReadTransaction) error {
		var err error
		count, found, err = tx.SubmissionCount(txId)
		return err
	})
	require.NoError(h.t, err)
	return
}

func (h *harness) tempReports(ctx context.Context, txId primitives.TxId) []*protocol.TempReport {
	var reports []*protocol.TempReport
	err := h.repository.View(ctx, func(tx adapter.ReadTransaction) error {
		var err error
		reports, err = tx.TempReports(txId)
		return err
	})
	require.NoError(h.t, err)
	return reports
}

func (h *harness) requireRejected(err error, kind oracle.Kind, reason oracle.RejectionReason) {
	require.Error(h.t, err)
	require.Equal(h.t, kind, oracle.KindOf(err), "unexpected error kind for %s", err)
	actual, ok := oracle.ReasonOf(err)
	require.True(h.t, ok, "error %s is not a rejection", err)
	require.Equal(h.t, reason, actual)
}

func contributorIds(prefix string, n int) []primitives.ContributorId {
	ids := make([]primitives.ContributorId, n)
	for i := range ids {
		ids[i] = primitives.ContributorId(prefix + string(rune('a'+i)))
	}
	return ids
}

type eventRecorder struct {
	sync.Mutex
	consensus    []*protocol.ConsensusResult
	contributors []*protocol.ContributorUpdate
}

func (r *eventRecorder) HandleConsensusReached(result *protocol.ConsensusResult) {
	r.Lock()
	defer r.Unlock()
	r.consensus = append(r.consensus, result)
}

func (r *eventRecorder) HandleContributorUpdated(update *protocol.ContributorUpdate) {
	r.Lock()
	defer r.Unlock()
	r.contributors = append(r.contributors, update)
}

func (r *eventRecorder) consensusReached() []*protocol.ConsensusResult {
	r.Lock()
	defer r.Unlock()
	return append([]*protocol.ConsensusResult(nil), r.consensus...)
}

func (r *eventRecorder) contributorsUpdated() []*protocol.ContributorUpdate {
	r.Lock()
	defer r.Unlock()
	return append([]*protocol.ContributorUpdate(nil), r.contributors...)
}
