// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"context"

	"github.com/orbs-network/tx-status-oracle/instrumentation/logfields"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

// WatchTransaction is idempotent: watching an already watched transaction returns the existing entry.
func (s *service) WatchTransaction(ctx context.Context, txId primitives.TxId) (*protocol.WatchedTransaction, error) {
	if err := s.validation.validateTxId(txId); err != nil {
		return nil, err
	}

	var watched *protocol.WatchedTransaction
	err := s.repository.Transact(ctx, func(tx adapter.Transaction) error {
		existing, found, err := tx.Watched(txId)
		if err != nil {
			return errors.Wrapf(err, "failed reading watched transaction %s", txId)
		}
		if found {
			watched = existing
			return nil
		}

		watched = &protocol.WatchedTransaction{TxId: txId, WatchedSince: s.now()}
		return errors.Wrapf(tx.PutWatched(watched), "failed storing watched transaction %s", txId)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("watching transaction", logfields.TxId(txId))
	return watched.Clone(), nil
}

func (s *service) IsWatched(ctx context.Context, txId primitives.TxId) (bool, error) {
	var found bool
	err := s.repository.View(ctx, func(tx adapter.ReadTransaction) error {
		var err error
		_, found, err = tx.Watched(txId)
		return err
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed reading watched transaction %s", txId)
	}
	return found, nil
}
