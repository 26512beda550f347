// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"context"

	"github.com/google/uuid"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/instrumentation/logfields"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/orbs-network/tx-status-oracle/synchronization"
	"github.com/pkg/errors"
)

// computeConsensus picks the heaviest status and hash prefix. Status ties go to the lowest ordinal,
// hash ties to the lexicographically smallest prefix.
func computeConsensus(data *protocol.AggregatedConsensusData) (primitives.TxStatus, primitives.HashPrefix) {
	status := primitives.AllTxStatuses[0]
	for _, candidate := range primitives.AllTxStatuses[1:] {
		if data.StatusWeights[candidate] > data.StatusWeights[status] {
			status = candidate
		}
	}

	var hashPrefix primitives.HashPrefix
	var heaviest uint64
	for i, hw := range data.HashWeights {
		if i == 0 || hw.Weight > heaviest || (hw.Weight == heaviest && hw.HashPrefix < hashPrefix) {
			hashPrefix = hw.HashPrefix
			heaviest = hw.Weight
		}
	}
	return status, hashPrefix
}

// requiredReports is the larger of the minimum quorum and the number of contributors that are
// both recently active and reliable.
func (s *service) requiredReports(tx adapter.ReadTransaction, now primitives.TimestampSeconds) (uint32, error) {
	contributors, err := tx.Contributors()
	if err != nil {
		return 0, errors.Wrap(err, "failed listing contributors")
	}

	var active uint32
	for _, c := range contributors {
		if s.reputation.IsRecentlyActive(c, now) && c.IsReliable {
			active++
		}
	}
	if quorum := s.config.OracleMinQuorum(); active < quorum {
		return quorum, nil
	}
	return active, nil
}

func (s *service) shouldResolve(tx adapter.ReadTransaction, count *protocol.SubmissionCount, now primitives.TimestampSeconds) (bool, error) {
	if count.Resolved {
		return false, nil
	}

	required, err := s.requiredReports(tx, now)
	if err != nil {
		return false, err
	}
	if count.Count >= required {
		return true, nil
	}

	waitedLongEnough := now.Since(count.LastUpdated) >= s.config.OracleMaxWait()
	return waitedLongEnough && count.Count >= s.config.OracleMinQuorum(), nil
}

func (s *service) resolveIfReady(tx adapter.Transaction, txId primitives.TxId, now primitives.TimestampSeconds, emitted *events) (*protocol.ConsensusResult, error) {
	count, found, err := tx.SubmissionCount(txId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading submission count of %s", txId)
	}
	if !found {
		return nil, nil
	}

	ready, err := s.shouldResolve(tx, count, now)
	if err != nil || !ready {
		return nil, err
	}
	return s.resolve(tx, count, now, emitted)
}

// resolve computes the consensus of a transaction, scores every contributor that reported on it
// and drops the transaction's working data. The submission count stays behind marked resolved.
func (s *service) resolve(tx adapter.Transaction, count *protocol.SubmissionCount, now primitives.TimestampSeconds, emitted *events) (*protocol.ConsensusResult, error) {
	txId := count.TxId
	logger := s.logger.WithTags(logfields.ConsensusFlow, logfields.TxId(txId))

	status, hashPrefix := primitives.TX_STATUS_INVALID, primitives.HashPrefix("")
	data, found, err := tx.Aggregate(txId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading aggregate of %s", txId)
	}
	if found {
		status, hashPrefix = computeConsensus(data)
	}

	reports, err := tx.TempReports(txId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading temp reports of %s", txId)
	}

	scored := make(map[primitives.ContributorId]bool)
	var contributorCount uint32
	for _, report := range reports {
		if scored[report.ContributorId] {
			continue
		}
		scored[report.ContributorId] = true

		contributor, found, err := tx.Contributor(report.ContributorId)
		if err != nil {
			return nil, errors.Wrapf(err, "failed reading contributor %s", report.ContributorId)
		}
		if !found {
			logger.Info("skipping report of a contributor that is no longer registered", logfields.Contributor(report.ContributorId))
			continue
		}
		if contributor.IsBanned(now) {
			logger.Info("skipping report of a banned contributor", logfields.Contributor(contributor.Id), logfields.Timestamp("ban-expiry", contributor.BanExpiry))
			continue
		}

		accurate := report.Status == status && report.HashPrefix == hashPrefix
		updated, err := s.reputation.Update(contributor, accurate, now)
		if err != nil {
			return nil, err
		}
		if err := s.storeScoredContributor(tx, updated); err != nil {
			return nil, err
		}

		contributorCount++
		emitted.contributors = append(emitted.contributors, protocol.NewContributorUpdate(updated, txId, accurate))
	}

	if err := tx.DeleteAggregate(txId); err != nil {
		return nil, errors.Wrapf(err, "failed deleting aggregate of %s", txId)
	}
	if err := tx.DeleteTempReports(txId); err != nil {
		return nil, errors.Wrapf(err, "failed deleting temp reports of %s", txId)
	}
	if err := tx.DeleteWatched(txId); err != nil {
		return nil, errors.Wrapf(err, "failed deleting watched transaction %s", txId)
	}

	resolved := count.Clone()
	resolved.Resolved = true
	resolved.LastUpdated = now
	if err := tx.PutSubmissionCount(resolved); err != nil {
		return nil, errors.Wrapf(err, "failed storing submission count of %s", txId)
	}

	result := &protocol.ConsensusResult{
		ResolutionId:     uuid.New(),
		TxId:             txId,
		Status:           status,
		HashPrefix:       hashPrefix,
		ContributorCount: contributorCount,
		ResolvedAt:       now,
	}
	emitted.consensus = append(emitted.consensus, result)

	logger.Info("consensus reached", logfields.TxStatus(status), logfields.HashPrefix(hashPrefix), log.Uint32("contributors", contributorCount), log.Stringable("resolution-id", result.ResolutionId))
	return result, nil
}

// storeScoredContributor replaces a permanently banned contributor with a tombstone.
func (s *service) storeScoredContributor(tx adapter.Transaction, c *protocol.Contributor) error {
	if !c.IsPermanentlyBanned() {
		return errors.Wrapf(tx.PutContributor(c), "failed storing contributor %s", c.Id)
	}

	s.logger.Info("contributor permanently banned", logfields.ConsensusFlow, log.Stringable("contributor", c))
	if err := tx.DeleteContributor(c.Id); err != nil {
		return errors.Wrapf(err, "failed deleting contributor %s", c.Id)
	}
	if err := tx.Banish(c.Id); err != nil {
		return errors.Wrapf(err, "failed banishing contributor %s", c.Id)
	}
	s.limiters.forget(c.Id)
	return nil
}

func (s *service) GetConsensus(ctx context.Context, txId primitives.TxId) (*protocol.AggregatedConsensusData, error) {
	var data *protocol.AggregatedConsensusData
	err := s.repository.View(ctx, func(tx adapter.ReadTransaction) error {
		var err error
		data, _, err = tx.Aggregate(txId)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading aggregate of %s", txId)
	}
	return data, nil
}

// ResolveExpired resolves every pending transaction whose trigger fires now, each in its own
// transition, and then enforces retention. A failed transaction is logged and skipped unless
// ctx was cancelled, which stops the pass.
func (s *service) ResolveExpired(ctx context.Context) ([]*protocol.ConsensusResult, error) {
	now := s.now()

	var counts []*protocol.SubmissionCount
	err := s.repository.View(ctx, func(tx adapter.ReadTransaction) error {
		var err error
		counts, err = tx.SubmissionCounts()
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed listing submission counts")
	}

	var results []*protocol.ConsensusResult
	for _, count := range counts {
		if count.Resolved {
			continue
		}
		result, err := s.resolvePending(ctx, count.TxId, now)
		if err != nil {
			if ctx.Err() != nil {
				return results, errors.Wrap(ctx.Err(), "consensus sweep interrupted")
			}
			s.logger.Error("failed resolving expired transaction", log.Error(err), logfields.ConsensusFlow, logfields.TxId(count.TxId))
			continue
		}
		if result != nil {
			results = append(results, result)
		}
	}

	s.enforceRetention(ctx, now)
	return results, nil
}

func (s *service) resolvePending(ctx context.Context, txId primitives.TxId, now primitives.TimestampSeconds) (*protocol.ConsensusResult, error) {
	unlock := s.txLocks.Lock(string(txId))
	defer unlock()

	emitted := &events{}
	var result *protocol.ConsensusResult
	err := s.repository.Transact(ctx, func(tx adapter.Transaction) error {
		var err error
		result, err = s.resolveIfReady(tx, txId, now, emitted)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		s.metrics.resolutions.Measure(1)
		s.metrics.pendingTxs.Dec()
		s.dispatch(emitted)
	}
	return result, nil
}

func (s *service) startSweeping(ctx context.Context) govnr.ShutdownWaiter {
	return synchronization.NewPeriodicalTrigger(ctx, "oracle consensus sweep", s.config.OracleSweepInterval(), s.logger, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.ResolveExpired(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("consensus sweep failed", log.Error(err))
		}
	}, nil)
}
