// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"

	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/config"
	"github.com/orbs-network/tx-status-oracle/instrumentation/metric"
	"github.com/orbs-network/tx-status-oracle/services/ledger"
	"github.com/orbs-network/tx-status-oracle/services/oracle"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter/leveldb"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter/memory"
	"github.com/orbs-network/tx-status-oracle/synchronization"
	"github.com/pkg/errors"
)

type Node struct {
	govnr.TreeSupervisor

	logger     log.Logger
	cancel     context.CancelFunc
	repository adapter.Repository
	oracle     oracle.Service
	metrics    metric.Registry
}

// NewNode wires an oracle on top of the repository selected by cfg. A non empty
// OracleRepositoryDir opens a LevelDB repository, otherwise state lives in memory.
func NewNode(cfg config.OracleConfig, l ledger.Ledger, logger log.Logger) (*Node, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	registry := metric.NewRegistry()

	repository, err := newRepository(cfg, registry, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	n := &Node{
		logger:     logger,
		cancel:     cancel,
		repository: repository,
		metrics:    registry,
	}

	n.oracle = oracle.NewOracle(ctx, cfg, repository, l, synchronization.NewSystemClock(), registry, logger)
	n.Supervise(n.oracle)

	if cfg.MetricsReportInterval() > 0 {
		n.Supervise(registry.ReportEvery(ctx, cfg.MetricsReportInterval(), logger))
	}
	if cfg.NTPEndpoint() != "" {
		n.Supervise(metric.NewNtpReporter(ctx, registry, logger, cfg.NTPEndpoint()))
	}
	if cfg.SystemMetricsEnabled() {
		n.Supervise(metric.NewSystemReporter(ctx, registry, logger))
	}

	logger.Info("oracle node started", log.String("repository", repositoryKind(cfg)))
	return n, nil
}

func newRepository(cfg config.OracleConfig, registry metric.Registry, logger log.Logger) (adapter.Repository, error) {
	if cfg.OracleRepositoryDir() == "" {
		return memory.NewRepository(cfg, registry), nil
	}
	repository, err := leveldb.NewRepository(cfg, registry, logger)
	if err != nil {
		return nil, err
	}
	return repository, nil
}

func repositoryKind(cfg config.OracleConfig) string {
	if cfg.OracleRepositoryDir() == "" {
		return "memory"
	}
	return "leveldb"
}

func (n *Node) Oracle() oracle.Service {
	return n.oracle
}

func (n *Node) Metrics() metric.Registry {
	return n.metrics
}

func (n *Node) GracefulShutdown(shutdownContext context.Context) {
	n.logger.Info("shutting down oracle node")
	n.oracle.GracefulShutdown(shutdownContext)
	n.cancel()
}

// WaitUntilShutdown closes the repository once every supervised goroutine has stopped.
func (n *Node) WaitUntilShutdown(shutdownContext context.Context) {
	n.TreeSupervisor.WaitUntilShutdown(shutdownContext)
	if err := n.repository.Close(); err != nil {
		n.logger.Error("failed closing oracle repository", log.Error(err))
	}
}
