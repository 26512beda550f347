// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"

	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/pkg/errors"
)

var ErrCapacityExceeded = errors.New("repository capacity exceeded")

type Config interface {
	OracleRepositoryDir() string
	OracleRepositoryMaxContributors() uint32
	OracleRepositoryMaxTransactions() uint32
	OracleRepositoryMaxTempReports() uint32
}

// Repository holds all oracle state. Every state transition runs in a single Transact call:
// either all of its writes become visible or none do.
type Repository interface {
	Transact(ctx context.Context, f func(tx Transaction) error) error
	View(ctx context.Context, f func(tx ReadTransaction) error) error
	Close() error
}

// Getters return found == false and a nil error for missing records. Returned records are copies.
type ReadTransaction interface {
	Contributor(id primitives.ContributorId) (contributor *protocol.Contributor, found bool, err error)
	// Contributors are returned ordered by id.
	Contributors() ([]*protocol.Contributor, error)
	IsBanished(id primitives.ContributorId) (bool, error)

	Aggregate(txId primitives.TxId) (aggregate *protocol.AggregatedConsensusData, found bool, err error)
	Aggregates() ([]*protocol.AggregatedConsensusData, error)

	SubmissionCount(txId primitives.TxId) (count *protocol.SubmissionCount, found bool, err error)
	SubmissionCounts() ([]*protocol.SubmissionCount, error)

	// TempReports are returned in arrival order.
	TempReports(txId primitives.TxId) ([]*protocol.TempReport, error)
	TempReportTxIds() ([]primitives.TxId, error)

	Watched(txId primitives.TxId) (watched *protocol.WatchedTransaction, found bool, err error)
	WatchedTransactions() ([]*protocol.WatchedTransaction, error)
}

// Put methods return ErrCapacityExceeded when a new record would not fit; replacing an existing record always fits.
type Transaction interface {
	ReadTransaction

	PutContributor(contributor *protocol.Contributor) error
	DeleteContributor(id primitives.ContributorId) error
	// Banish records a tombstone so the id can never register again.
	Banish(id primitives.ContributorId) error

	PutAggregate(aggregate *protocol.AggregatedConsensusData) error
	DeleteAggregate(txId primitives.TxId) error

	PutSubmissionCount(count *protocol.SubmissionCount) error
	DeleteSubmissionCount(txId primitives.TxId) error

	// AppendTempReport assigns the report its arrival sequence number.
	AppendTempReport(report *protocol.TempReport) error
	DeleteTempReport(report *protocol.TempReport) error
	DeleteTempReports(txId primitives.TxId) error

	PutWatched(watched *protocol.WatchedTransaction) error
	DeleteWatched(txId primitives.TxId) error
}
