// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"context"

	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/pkg/errors"
)

var ErrInsufficientFunds = errors.New("reward pool balance is insufficient")

// Ledger is the value-transfer collaborator of the oracle: it knows who paid the registration fee
// and pays rewards out of the reward pool.
type Ledger interface {
	HasPaidRegistrationFee(ctx context.Context, id primitives.ContributorId) (bool, error)
	// Balance of the reward pool.
	Balance(ctx context.Context) (uint64, error)
	Transfer(ctx context.Context, to primitives.ContributorId, amount uint64) error
}
