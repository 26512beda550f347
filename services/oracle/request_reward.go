// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"context"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/instrumentation/logfields"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/ledger"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

type RewardStatus uint8

const (
	REWARD_STATUS_GRANTED RewardStatus = iota
	REWARD_STATUS_DENIED
)

func (s RewardStatus) String() string {
	switch s {
	case REWARD_STATUS_GRANTED:
		return "GRANTED"
	case REWARD_STATUS_DENIED:
		return "DENIED"
	}
	return "UNKNOWN"
}

type RewardDenialReason uint8

const (
	REWARD_DENIAL_REASON_NONE RewardDenialReason = iota
	REWARD_DENIAL_REASON_NOT_ELIGIBLE
	REWARD_DENIAL_REASON_INSUFFICIENT_FUNDS
)

func (r RewardDenialReason) String() string {
	switch r {
	case REWARD_DENIAL_REASON_NONE:
		return "NONE"
	case REWARD_DENIAL_REASON_NOT_ELIGIBLE:
		return "NOT_ELIGIBLE"
	case REWARD_DENIAL_REASON_INSUFFICIENT_FUNDS:
		return "INSUFFICIENT_FUNDS"
	}
	return "UNKNOWN"
}

type RequestRewardOutput struct {
	Status       RewardStatus
	DenialReason RewardDenialReason
	Amount       uint64
}

func denied(reason RewardDenialReason) *RequestRewardOutput {
	return &RequestRewardOutput{Status: REWARD_STATUS_DENIED, DenialReason: reason}
}

func (s *service) RequestReward(ctx context.Context, id primitives.ContributorId) (*RequestRewardOutput, error) {
	now := s.now()

	var contributor *protocol.Contributor
	err := s.repository.View(ctx, func(tx adapter.ReadTransaction) error {
		var err error
		contributor, err = s.authorize(tx, id, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !contributor.IsEligibleForRewards {
		s.logger.Info("reward denied, contributor not eligible", logfields.Contributor(id))
		return denied(REWARD_DENIAL_REASON_NOT_ELIGIBLE), nil
	}

	amount := s.config.OracleBaseRewardAmount()
	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed reading reward pool balance")
	}
	if balance < amount {
		s.logger.Info("reward denied, reward pool has insufficient funds", logfields.Contributor(id), log.Uint64("balance", balance), log.Uint64("amount", amount))
		return denied(REWARD_DENIAL_REASON_INSUFFICIENT_FUNDS), nil
	}

	if err := s.ledger.Transfer(ctx, id, amount); err != nil {
		if errors.Cause(err) == ledger.ErrInsufficientFunds {
			return denied(REWARD_DENIAL_REASON_INSUFFICIENT_FUNDS), nil
		}
		s.logger.Error("failed transferring reward", log.Error(err), logfields.Contributor(id), log.Uint64("amount", amount))
		return nil, errors.Wrapf(err, "failed transferring reward to %s", id)
	}

	s.metrics.rewardsGranted.Measure(1)
	s.logger.Info("reward paid", logfields.Contributor(id), log.Uint64("amount", amount))
	return &RequestRewardOutput{Status: REWARD_STATUS_GRANTED, Amount: amount}, nil
}
