// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"math/bits"

	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

type aggregation struct {
	accepted       bool
	newTransaction bool
}

// reportWeight is (compliance + reliability) scaled by the weight multiplier.
func (s *service) reportWeight(c *protocol.Contributor) (uint64, error) {
	sum, err := fixedgiga.Add(c.ComplianceScore, c.ReliabilityScore)
	if err != nil {
		return 0, err
	}
	return fixedgiga.CheckedMulDivDown(uint64(sum), uint64(s.config.OracleWeightMultiplier()), 1)
}

// aggregate folds one report into the consensus data of its transaction. A second report of the same
// contributor for the same transaction is not folded in.
func (s *service) aggregate(tx adapter.Transaction, contributor *protocol.Contributor, report *protocol.StatusReport, now primitives.TimestampSeconds) (*aggregation, error) {
	txId := report.TxId

	pending, err := tx.TempReports(txId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading temp reports of %s", txId)
	}
	for _, r := range pending {
		if r.ContributorId == report.ContributorId {
			return &aggregation{accepted: false}, nil
		}
	}

	weight, err := s.reportWeight(contributor)
	if err != nil {
		return nil, errors.Wrapf(err, "failed weighing report of %s", contributor.Id)
	}

	data, found, err := tx.Aggregate(txId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading aggregate of %s", txId)
	}
	if !found {
		data = &protocol.AggregatedConsensusData{TxId: txId}
	}
	if err := addVote(data, report.Status, report.HashPrefix, weight); err != nil {
		return nil, errors.Wrapf(err, "failed aggregating report on %s", txId)
	}
	data.LastUpdated = now

	if err := tx.PutAggregate(data); err != nil {
		return nil, errors.Wrapf(err, "failed storing aggregate of %s", txId)
	}
	if err := tx.AppendTempReport(protocol.NewTempReport(report, now)); err != nil {
		return nil, errors.Wrapf(err, "failed storing temp report on %s", txId)
	}

	count, countFound, err := tx.SubmissionCount(txId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading submission count of %s", txId)
	}
	if !countFound {
		count = &protocol.SubmissionCount{TxId: txId}
	}
	count.Count++
	count.LastUpdated = now
	if err := tx.PutSubmissionCount(count); err != nil {
		return nil, errors.Wrapf(err, "failed storing submission count of %s", txId)
	}

	return &aggregation{accepted: true, newTransaction: !found}, nil
}

func addVote(data *protocol.AggregatedConsensusData, status primitives.TxStatus, hashPrefix primitives.HashPrefix, weight uint64) error {
	statusWeight, err := addWeight(data.StatusWeights[status], weight)
	if err != nil {
		return err
	}

	for i := range data.HashWeights {
		if data.HashWeights[i].HashPrefix == hashPrefix {
			hashWeight, err := addWeight(data.HashWeights[i].Weight, weight)
			if err != nil {
				return err
			}
			data.HashWeights[i].Weight = hashWeight
			data.StatusWeights[status] = statusWeight
			return nil
		}
	}

	data.HashWeights = append(data.HashWeights, protocol.HashWeight{HashPrefix: hashPrefix, Weight: weight})
	data.StatusWeights[status] = statusWeight
	return nil
}

func addWeight(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fixedgiga.ErrOverflow
	}
	return sum, nil
}
