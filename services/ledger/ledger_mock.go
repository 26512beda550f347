// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"context"

	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/tx-status-oracle/primitives"
)

type MockLedger struct {
	mock.Mock
}

func (l *MockLedger) HasPaidRegistrationFee(ctx context.Context, id primitives.ContributorId) (bool, error) {
	ret := l.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

func (l *MockLedger) Balance(ctx context.Context) (uint64, error) {
	ret := l.Called(ctx)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (l *MockLedger) Transfer(ctx context.Context, to primitives.ContributorId, amount uint64) error {
	ret := l.Called(ctx, to, amount)
	return ret.Error(0)
}
