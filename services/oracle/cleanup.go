// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"context"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

type retentionStats struct {
	banished         int
	tempReports      int
	aggregates       int
	watched          int
	submissionCounts int
	pending          int
	contributors     int
}

// enforceRetention prunes expired state. Failures are logged and never reach the caller,
// and a cancelled ctx ends it quietly.
func (s *service) enforceRetention(ctx context.Context, now primitives.TimestampSeconds) {
	var stats *retentionStats
	err := s.repository.Transact(ctx, func(tx adapter.Transaction) error {
		var err error
		stats, err = s.pruneExpired(tx, now)
		return err
	})
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("failed enforcing retention", log.Error(err))
		}
		return
	}

	s.metrics.pendingTxs.Update(int64(stats.pending))
	s.metrics.registeredAccounts.Update(int64(stats.contributors))
	if stats.banished+stats.tempReports+stats.aggregates+stats.watched+stats.submissionCounts > 0 {
		s.logger.Info("pruned expired oracle state",
			log.Int("banished", stats.banished),
			log.Int("temp-reports", stats.tempReports),
			log.Int("aggregates", stats.aggregates),
			log.Int("watched", stats.watched),
			log.Int("submission-counts", stats.submissionCounts))
	}
}

func (s *service) pruneExpired(tx adapter.Transaction, now primitives.TimestampSeconds) (*retentionStats, error) {
	stats := &retentionStats{}
	retention := s.config.OracleDataRetentionPeriod()

	contributors, err := tx.Contributors()
	if err != nil {
		return nil, errors.Wrap(err, "failed listing contributors")
	}
	for _, c := range contributors {
		if !c.IsPermanentlyBanned() {
			stats.contributors++
			continue
		}
		if err := tx.DeleteContributor(c.Id); err != nil {
			return nil, errors.Wrapf(err, "failed deleting contributor %s", c.Id)
		}
		if err := tx.Banish(c.Id); err != nil {
			return nil, errors.Wrapf(err, "failed banishing contributor %s", c.Id)
		}
		s.limiters.forget(c.Id)
		stats.banished++
	}

	txIds, err := tx.TempReportTxIds()
	if err != nil {
		return nil, errors.Wrap(err, "failed listing temp reports")
	}
	for _, txId := range txIds {
		// the temp log of a live aggregate dedupes its contributors and leaves with it
		if _, found, err := tx.Aggregate(txId); err != nil {
			return nil, errors.Wrapf(err, "failed reading aggregate of %s", txId)
		} else if found {
			continue
		}
		reports, err := tx.TempReports(txId)
		if err != nil {
			return nil, errors.Wrapf(err, "failed reading temp reports of %s", txId)
		}
		for _, r := range reports {
			if now.Since(r.ReceivedAt) >= retention {
				if err := tx.DeleteTempReport(r); err != nil {
					return nil, errors.Wrapf(err, "failed deleting temp report of %s", txId)
				}
				stats.tempReports++
			}
		}
	}

	aggregates, err := tx.Aggregates()
	if err != nil {
		return nil, errors.Wrap(err, "failed listing aggregates")
	}
	for _, a := range aggregates {
		if now.Since(a.LastUpdated) < retention {
			continue
		}
		if err := s.abandon(tx, a.TxId); err != nil {
			return nil, err
		}
		stats.aggregates++
	}

	watched, err := tx.WatchedTransactions()
	if err != nil {
		return nil, errors.Wrap(err, "failed listing watched transactions")
	}
	for _, w := range watched {
		if now.Since(w.WatchedSince) >= retention {
			if err := tx.DeleteWatched(w.TxId); err != nil {
				return nil, errors.Wrapf(err, "failed deleting watched transaction %s", w.TxId)
			}
			stats.watched++
		}
	}

	counts, err := tx.SubmissionCounts()
	if err != nil {
		return nil, errors.Wrap(err, "failed listing submission counts")
	}
	for _, c := range counts {
		if now.Since(c.LastUpdated) >= s.config.OracleSubmissionCountRetentionPeriod() {
			if err := tx.DeleteSubmissionCount(c.TxId); err != nil {
				return nil, errors.Wrapf(err, "failed deleting submission count of %s", c.TxId)
			}
			stats.submissionCounts++
			continue
		}
		if !c.Resolved {
			stats.pending++
		}
	}

	return stats, nil
}

// abandon drops an expired aggregate together with the unresolved count it belongs to,
// so a late report starts the transaction afresh.
func (s *service) abandon(tx adapter.Transaction, txId primitives.TxId) error {
	if err := tx.DeleteAggregate(txId); err != nil {
		return errors.Wrapf(err, "failed deleting aggregate of %s", txId)
	}
	if err := tx.DeleteTempReports(txId); err != nil {
		return errors.Wrapf(err, "failed deleting temp reports of %s", txId)
	}
	count, found, err := tx.SubmissionCount(txId)
	if err != nil {
		return errors.Wrapf(err, "failed reading submission count of %s", txId)
	}
	if found && !count.Resolved {
		return errors.Wrapf(tx.DeleteSubmissionCount(txId), "failed deleting submission count of %s", txId)
	}
	return nil
}
