// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"context"
	"strings"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/instrumentation/logfields"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

func (s *service) RegisterContributor(ctx context.Context, id primitives.ContributorId) (*protocol.Contributor, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, reject(InvalidContributorId, logfields.Contributor(id))
	}

	paid, err := s.ledger.HasPaidRegistrationFee(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed checking registration fee of %s", id)
	}
	if !paid {
		s.logger.Info("registration refused, fee not paid", logfields.Contributor(id))
		return nil, reject(RegistrationFeeUnpaid, logfields.Contributor(id))
	}

	var contributor *protocol.Contributor
	err = s.repository.Transact(ctx, func(tx adapter.Transaction) error {
		banished, err := tx.IsBanished(id)
		if err != nil {
			return errors.Wrapf(err, "failed reading banishment of %s", id)
		}
		if banished {
			return reject(ContributorBanished, logfields.Contributor(id))
		}

		_, found, err := tx.Contributor(id)
		if err != nil {
			return errors.Wrapf(err, "failed reading contributor %s", id)
		}
		if found {
			return reject(AlreadyRegistered, logfields.Contributor(id))
		}

		contributor = protocol.NewContributor(id, s.now())
		return errors.Wrapf(tx.PutContributor(contributor), "failed storing contributor %s", id)
	})
	if err != nil {
		s.logger.Info("registration failed", log.Error(err), logfields.Contributor(id))
		return nil, err
	}

	s.metrics.registeredAccounts.Inc()
	s.logger.Info("registered new contributor", logfields.Contributor(id), logfields.Timestamp("registered-at", contributor.RegisteredAt))
	return contributor.Clone(), nil
}

func (s *service) GetContributor(ctx context.Context, id primitives.ContributorId) (*protocol.Contributor, error) {
	var contributor *protocol.Contributor
	err := s.repository.View(ctx, func(tx adapter.ReadTransaction) error {
		c, found, err := tx.Contributor(id)
		if err != nil {
			return errors.Wrapf(err, "failed reading contributor %s", id)
		}
		if !found {
			return reject(UnknownContributor, logfields.Contributor(id))
		}
		contributor = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contributor, nil
}
