// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"context"
	"time"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/instrumentation/logfields"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

func (s *service) SubmitReport(ctx context.Context, report *protocol.StatusReport) (*SubmitReportOutput, error) {
	start := time.Now()
	defer s.metrics.submitTime.RecordSince(start)

	if err := s.validation.validateReport(report); err != nil {
		return nil, s.onReportRejected(report, err)
	}

	unlock := s.txLocks.Lock(string(report.TxId))
	defer unlock()

	now := s.now()
	out := &SubmitReportOutput{Status: SUBMIT_REPORT_STATUS_ACCEPTED}
	emitted := &events{}
	var newPending bool

	err := s.repository.Transact(ctx, func(tx adapter.Transaction) error {
		contributor, err := s.authorize(tx, report.ContributorId, now)
		if err != nil {
			return err
		}
		if !s.limiters.allow(report.ContributorId, s.clock.Now()) {
			return reject(RateLimited, logfields.Contributor(report.ContributorId))
		}
		if err := s.requireWatched(tx, report.TxId); err != nil {
			return err
		}
		if err := s.checkQuota(tx, report.TxId); err != nil {
			return err
		}

		added, err := s.aggregate(tx, contributor, report, now)
		if err != nil {
			return err
		}
		if !added.accepted {
			out.Status = SUBMIT_REPORT_STATUS_DUPLICATE
			return nil
		}
		newPending = added.newTransaction

		result, err := s.resolveIfReady(tx, report.TxId, now, emitted)
		if err != nil {
			return err
		}
		if result != nil {
			out.Status = SUBMIT_REPORT_STATUS_RESOLVED
			out.Consensus = result
		}
		return nil
	})

	if err != nil {
		if _, isRejection := ReasonOf(err); isRejection {
			return nil, s.onReportRejected(report, err)
		}
		s.logger.Error("failed submitting report", log.Error(err), logfields.TxId(report.TxId), logfields.Contributor(report.ContributorId))
		return nil, err
	}

	switch out.Status {
	case SUBMIT_REPORT_STATUS_DUPLICATE:
		s.metrics.reportsDuplicate.Measure(1)
		s.logger.Info("duplicate report acknowledged", logfields.TxId(report.TxId), logfields.Contributor(report.ContributorId))
		return out, nil
	case SUBMIT_REPORT_STATUS_RESOLVED:
		s.metrics.resolutions.Measure(1)
		if !newPending {
			s.metrics.pendingTxs.Dec()
		}
	default:
		if newPending {
			s.metrics.pendingTxs.Inc()
		}
	}
	s.metrics.reportsAccepted.Measure(1)

	s.dispatch(emitted)
	if out.Consensus != nil {
		s.enforceRetention(ctx, now)
	}
	return out, nil
}

func (s *service) onReportRejected(report *protocol.StatusReport, err error) error {
	s.metrics.reportsRejected.Measure(1)
	s.logger.Info("report rejected", log.Error(err), logfields.TxId(report.TxId), logfields.Contributor(report.ContributorId))
	return err
}

func (s *service) authorize(tx adapter.ReadTransaction, id primitives.ContributorId, now primitives.TimestampSeconds) (*protocol.Contributor, error) {
	contributor, found, err := tx.Contributor(id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading contributor %s", id)
	}
	if !found {
		banished, err := tx.IsBanished(id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed reading banishment of %s", id)
		}
		if banished {
			return nil, reject(ContributorBanished, logfields.Contributor(id))
		}
		return nil, reject(UnknownContributor, logfields.Contributor(id))
	}
	if contributor.IsBanned(now) {
		return nil, reject(ContributorBanned, logfields.Contributor(id), logfields.Timestamp("ban-expiry", contributor.BanExpiry))
	}
	return contributor, nil
}

func (s *service) requireWatched(tx adapter.ReadTransaction, txId primitives.TxId) error {
	if !s.config.OracleRequireWatchedTransactions() {
		return nil
	}
	_, found, err := tx.Watched(txId)
	if err != nil {
		return errors.Wrapf(err, "failed reading watched transaction %s", txId)
	}
	if !found {
		return reject(NotWatched, logfields.TxId(txId))
	}
	return nil
}

func (s *service) checkQuota(tx adapter.ReadTransaction, txId primitives.TxId) error {
	count, found, err := tx.SubmissionCount(txId)
	if err != nil {
		return errors.Wrapf(err, "failed reading submission count of %s", txId)
	}
	if !found {
		return nil
	}
	if count.Resolved {
		return reject(EnoughReportsSubmitted, logfields.TxId(txId))
	}
	if limit := s.config.OracleMaxSubmissionsPerTransaction(); count.Count >= limit {
		return reject(SubmissionLimitReached, logfields.TxId(txId), log.Uint32("count", count.Count), log.Uint32("limit", limit))
	}
	return nil
}
