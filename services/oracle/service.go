// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/instrumentation/metric"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/ledger"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/orbs-network/tx-status-oracle/services/reputation"
	"github.com/orbs-network/tx-status-oracle/synchronization"
)

var LogTag = log.Service("oracle")

type Config interface {
	reputation.Config
	OracleMinQuorum() uint32
	OracleMaxWait() time.Duration
	OracleDataRetentionPeriod() time.Duration
	OracleSubmissionCountRetentionPeriod() time.Duration
	OracleMaxSubmissionsPerTransaction() uint32
	OracleWeightMultiplier() uint32
	OracleMaxTxIdLength() uint32
	OracleRequireWatchedTransactions() bool
	OracleSweepInterval() time.Duration
	OracleContributorSubmissionRate() uint32
	OracleContributorSubmissionBurst() uint32
	OracleBaseRewardAmount() uint64
}

type Service interface {
	synchronization.GracefulShutdowner

	SubmitReport(ctx context.Context, report *protocol.StatusReport) (*SubmitReportOutput, error)
	RegisterContributor(ctx context.Context, id primitives.ContributorId) (*protocol.Contributor, error)
	RequestReward(ctx context.Context, id primitives.ContributorId) (*RequestRewardOutput, error)
	WatchTransaction(ctx context.Context, txId primitives.TxId) (*protocol.WatchedTransaction, error)
	IsWatched(ctx context.Context, txId primitives.TxId) (bool, error)
	GetContributor(ctx context.Context, id primitives.ContributorId) (*protocol.Contributor, error)
	GetConsensus(ctx context.Context, txId primitives.TxId) (*protocol.AggregatedConsensusData, error)
	ResolveExpired(ctx context.Context) ([]*protocol.ConsensusResult, error)
	RegisterEventHandler(handler EventHandler)
}

// EventHandler callbacks run after the transition that produced them was committed.
type EventHandler interface {
	HandleConsensusReached(result *protocol.ConsensusResult)
	HandleContributorUpdated(update *protocol.ContributorUpdate)
}

type SubmitReportStatus uint8

const (
	SUBMIT_REPORT_STATUS_ACCEPTED SubmitReportStatus = iota
	SUBMIT_REPORT_STATUS_DUPLICATE
	SUBMIT_REPORT_STATUS_RESOLVED
)

func (s SubmitReportStatus) String() string {
	switch s {
	case SUBMIT_REPORT_STATUS_ACCEPTED:
		return "ACCEPTED"
	case SUBMIT_REPORT_STATUS_DUPLICATE:
		return "DUPLICATE"
	case SUBMIT_REPORT_STATUS_RESOLVED:
		return "RESOLVED"
	}
	return "UNKNOWN"
}

type SubmitReportOutput struct {
	Status SubmitReportStatus
	// Consensus is set when the report completed the quorum.
	Consensus *protocol.ConsensusResult
}

type service struct {
	govnr.TreeSupervisor

	config     Config
	logger     log.Logger
	repository adapter.Repository
	ledger     ledger.Ledger
	reputation *reputation.Engine
	clock      synchronization.Clock
	validation *validationContext
	txLocks    *synchronization.KeyedMutex
	limiters   *contributorLimiters
	cancel     context.CancelFunc

	handlers struct {
		sync.RWMutex
		list []EventHandler
	}

	metrics *metrics
}

type metrics struct {
	reportsAccepted    *metric.Rate
	reportsRejected    *metric.Rate
	reportsDuplicate   *metric.Rate
	resolutions        *metric.Rate
	submitTime         *metric.Histogram
	pendingTxs         *metric.Gauge
	rewardsGranted     *metric.Rate
	registeredAccounts *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		reportsAccepted:    m.NewRate("Oracle.Reports.Accepted.PerSecond"),
		reportsRejected:    m.NewRate("Oracle.Reports.Rejected.PerSecond"),
		reportsDuplicate:   m.NewRate("Oracle.Reports.Duplicate.PerSecond"),
		resolutions:        m.NewRate("Oracle.Consensus.Resolutions.PerSecond"),
		submitTime:         m.NewLatency("Oracle.Reports.SubmitTime.Millis", 5*time.Second),
		pendingTxs:         m.NewGauge("Oracle.Consensus.PendingTransactions.Count"),
		rewardsGranted:     m.NewRate("Oracle.Rewards.Granted.PerSecond"),
		registeredAccounts: m.NewGauge("Oracle.Contributors.Registered.Count"),
	}
}

func NewOracle(parentCtx context.Context,
	config Config,
	repository adapter.Repository,
	ledger ledger.Ledger,
	clock synchronization.Clock,
	metricFactory metric.Factory,
	parentLogger log.Logger) Service {

	ctx, cancel := context.WithCancel(parentCtx)
	logger := parentLogger.WithTags(LogTag)
	s := &service{
		config:     config,
		logger:     logger,
		repository: repository,
		ledger:     ledger,
		reputation: reputation.NewEngine(config),
		clock:      clock,
		validation: &validationContext{maxTxIdLength: int(config.OracleMaxTxIdLength())},
		txLocks:    synchronization.NewKeyedMutex(),
		limiters:   newContributorLimiters(config.OracleContributorSubmissionRate(), config.OracleContributorSubmissionBurst()),
		cancel:     cancel,
		metrics:    newMetrics(metricFactory),
	}

	if config.OracleSweepInterval() > 0 {
		s.Supervise(s.startSweeping(ctx))
	}

	return s
}

func (s *service) GracefulShutdown(shutdownContext context.Context) {
	s.logger.Info("shutting down oracle")
	s.cancel()
}

func (s *service) RegisterEventHandler(handler EventHandler) {
	s.handlers.Lock()
	defer s.handlers.Unlock()
	s.handlers.list = append(s.handlers.list, handler)
}

func (s *service) now() primitives.TimestampSeconds {
	return primitives.ToTimestampSeconds(s.clock.Now())
}

// events collects what a transition emits; they are dispatched once it is committed.
type events struct {
	consensus    []*protocol.ConsensusResult
	contributors []*protocol.ContributorUpdate
}

func (s *service) dispatch(e *events) {
	s.handlers.RLock()
	defer s.handlers.RUnlock()

	for _, update := range e.contributors {
		for _, h := range s.handlers.list {
			h.HandleContributorUpdated(update)
		}
	}
	for _, result := range e.consensus {
		for _, h := range s.handlers.list {
			h.HandleConsensusReached(result)
		}
	}
}
