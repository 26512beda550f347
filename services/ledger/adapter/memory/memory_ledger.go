// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"context"
	"sync"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/instrumentation/logfields"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/services/ledger"
	"github.com/pkg/errors"
)

// InMemoryLedger keeps a reward pool and per-contributor balances in process memory.
type InMemoryLedger struct {
	logger log.Logger

	mutex    sync.Mutex
	pool     uint64
	balances map[primitives.ContributorId]uint64
	paid     map[primitives.ContributorId]bool
}

func NewLedger(logger log.Logger, initialPool uint64) *InMemoryLedger {
	return &InMemoryLedger{
		logger:   logger.WithTags(log.String("adapter", "ledger")),
		pool:     initialPool,
		balances: make(map[primitives.ContributorId]uint64),
		paid:     make(map[primitives.ContributorId]bool),
	}
}

func (l *InMemoryLedger) HasPaidRegistrationFee(ctx context.Context, id primitives.ContributorId) (bool, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.paid[id], nil
}

func (l *InMemoryLedger) Balance(ctx context.Context) (uint64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.pool, nil
}

func (l *InMemoryLedger) Transfer(ctx context.Context, to primitives.ContributorId, amount uint64) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if amount > l.pool {
		return errors.Wrapf(ledger.ErrInsufficientFunds, "pool holds %d, requested %d", l.pool, amount)
	}
	if l.balances[to]+amount < l.balances[to] {
		return errors.Errorf("balance of %s would overflow", to)
	}

	l.pool -= amount
	l.balances[to] += amount
	l.logger.Info("transferred reward", logfields.Contributor(to), log.Uint64("amount", amount), log.Uint64("pool", l.pool))
	return nil
}

// PayRegistrationFee records the fee of id; the fee itself goes into the reward pool.
func (l *InMemoryLedger) PayRegistrationFee(id primitives.ContributorId, fee uint64) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.pool+fee < l.pool {
		return errors.New("reward pool would overflow")
	}
	l.pool += fee
	l.paid[id] = true
	return nil
}

func (l *InMemoryLedger) Fund(amount uint64) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.pool+amount < l.pool {
		return errors.New("reward pool would overflow")
	}
	l.pool += amount
	return nil
}

func (l *InMemoryLedger) BalanceOf(id primitives.ContributorId) uint64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.balances[id]
}
