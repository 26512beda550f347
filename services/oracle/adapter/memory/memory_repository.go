// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/orbs-network/tx-status-oracle/instrumentation/metric"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

type metrics struct {
	contributors *metric.Gauge
	transactions *metric.Gauge
	tempReports  *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		contributors: m.NewGauge("Oracle.Repository.Contributors.Count"),
		transactions: m.NewGauge("Oracle.Repository.Transactions.Count"),
		tempReports:  m.NewGauge("Oracle.Repository.TempReports.Count"),
	}
}

type state struct {
	contributors   map[primitives.ContributorId]*protocol.Contributor
	banished       map[primitives.ContributorId]bool
	aggregates     map[primitives.TxId]*protocol.AggregatedConsensusData
	counts         map[primitives.TxId]*protocol.SubmissionCount
	tempReports    map[primitives.TxId][]*protocol.TempReport
	numTempReports int
	watched        map[primitives.TxId]*protocol.WatchedTransaction
	sequence       uint64
}

type InMemoryRepository struct {
	config  adapter.Config
	metrics *metrics

	mutex sync.RWMutex
	state state
}

func NewRepository(config adapter.Config, metricFactory metric.Factory) *InMemoryRepository {
	return &InMemoryRepository{
		config:  config,
		metrics: newMetrics(metricFactory),
		state: state{
			contributors: make(map[primitives.ContributorId]*protocol.Contributor),
			banished:     make(map[primitives.ContributorId]bool),
			aggregates:   make(map[primitives.TxId]*protocol.AggregatedConsensusData),
			counts:       make(map[primitives.TxId]*protocol.SubmissionCount),
			tempReports:  make(map[primitives.TxId][]*protocol.TempReport),
			watched:      make(map[primitives.TxId]*protocol.WatchedTransaction),
		},
	}
}

func (r *InMemoryRepository) Transact(ctx context.Context, f func(tx adapter.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	tx := &transaction{readTransaction{s: &r.state}, r.config, nil}
	if err := f(tx); err != nil {
		tx.rollback()
		return err
	}

	r.reportSize()
	return nil
}

func (r *InMemoryRepository) View(ctx context.Context, f func(tx adapter.ReadTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return f(&readTransaction{s: &r.state})
}

func (r *InMemoryRepository) Close() error {
	return nil
}

func (r *InMemoryRepository) reportSize() {
	r.metrics.contributors.Update(int64(len(r.state.contributors)))
	r.metrics.transactions.Update(int64(len(r.state.aggregates)))
	r.metrics.tempReports.Update(int64(r.state.numTempReports))
}

type readTransaction struct {
	s *state
}

func (t *readTransaction) Contributor(id primitives.ContributorId) (*protocol.Contributor, bool, error) {
	c, found := t.s.contributors[id]
	if !found {
		return nil, false, nil
	}
	return c.Clone(), true, nil
}

func (t *readTransaction) Contributors() ([]*protocol.Contributor, error) {
	result := make([]*protocol.Contributor, 0, len(t.s.contributors))
	for _, c := range t.s.contributors {
		result = append(result, c.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Id < result[j].Id
	})
	return result, nil
}

func (t *readTransaction) IsBanished(id primitives.ContributorId) (bool, error) {
	return t.s.banished[id], nil
}

func (t *readTransaction) Aggregate(txId primitives.TxId) (*protocol.AggregatedConsensusData, bool, error) {
	a, found := t.s.aggregates[txId]
	if !found {
		return nil, false, nil
	}
	return a.Clone(), true, nil
}

func (t *readTransaction) Aggregates() ([]*protocol.AggregatedConsensusData, error) {
	result := make([]*protocol.AggregatedConsensusData, 0, len(t.s.aggregates))
	for _, a := range t.s.aggregates {
		result = append(result, a.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TxId < result[j].TxId
	})
	return result, nil
}

func (t *readTransaction) SubmissionCount(txId primitives.TxId) (*protocol.SubmissionCount, bool, error) {
	c, found := t.s.counts[txId]
	if !found {
		return nil, false, nil
	}
	return c.Clone(), true, nil
}

func (t *readTransaction) SubmissionCounts() ([]*protocol.SubmissionCount, error) {
	result := make([]*protocol.SubmissionCount, 0, len(t.s.counts))
	for _, c := range t.s.counts {
		result = append(result, c.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TxId < result[j].TxId
	})
	return result, nil
}

func (t *readTransaction) TempReports(txId primitives.TxId) ([]*protocol.TempReport, error) {
	reports := t.s.tempReports[txId]
	result := make([]*protocol.TempReport, len(reports))
	for i, r := range reports {
		result[i] = r.Clone()
	}
	return result, nil
}

func (t *readTransaction) TempReportTxIds() ([]primitives.TxId, error) {
	result := make([]primitives.TxId, 0, len(t.s.tempReports))
	for txId := range t.s.tempReports {
		result = append(result, txId)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result, nil
}

func (t *readTransaction) Watched(txId primitives.TxId) (*protocol.WatchedTransaction, bool, error) {
	w, found := t.s.watched[txId]
	if !found {
		return nil, false, nil
	}
	return w.Clone(), true, nil
}

func (t *readTransaction) WatchedTransactions() ([]*protocol.WatchedTransaction, error) {
	result := make([]*protocol.WatchedTransaction, 0, len(t.s.watched))
	for _, w := range t.s.watched {
		result = append(result, w.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TxId < result[j].TxId
	})
	return result, nil
}

// transaction writes straight through to the state and keeps an undo log for rollback.
type transaction struct {
	readTransaction
	config adapter.Config
	undo   []func()
}

func (t *transaction) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func capacityExceeded(kind string, max uint32) error {
	return errors.Wrapf(adapter.ErrCapacityExceeded, "%s limit of %d reached", kind, max)
}

func (t *transaction) PutContributor(contributor *protocol.Contributor) error {
	prev, existed := t.s.contributors[contributor.Id]
	if !existed && uint32(len(t.s.contributors)) >= t.config.OracleRepositoryMaxContributors() {
		return capacityExceeded("contributors", t.config.OracleRepositoryMaxContributors())
	}
	t.s.contributors[contributor.Id] = contributor.Clone()
	t.undo = append(t.undo, func() {
		if existed {
			t.s.contributors[contributor.Id] = prev
		} else {
			delete(t.s.contributors, contributor.Id)
		}
	})
	return nil
}

func (t *transaction) DeleteContributor(id primitives.ContributorId) error {
	prev, existed := t.s.contributors[id]
	if !existed {
		return nil
	}
	delete(t.s.contributors, id)
	t.undo = append(t.undo, func() {
		t.s.contributors[id] = prev
	})
	return nil
}

func (t *transaction) Banish(id primitives.ContributorId) error {
	if t.s.banished[id] {
		return nil
	}
	t.s.banished[id] = true
	t.undo = append(t.undo, func() {
		delete(t.s.banished, id)
	})
	return nil
}

func (t *transaction) PutAggregate(aggregate *protocol.AggregatedConsensusData) error {
	prev, existed := t.s.aggregates[aggregate.TxId]
	if !existed && uint32(len(t.s.aggregates)) >= t.config.OracleRepositoryMaxTransactions() {
		return capacityExceeded("transactions", t.config.OracleRepositoryMaxTransactions())
	}
	t.s.aggregates[aggregate.TxId] = aggregate.Clone()
	t.undo = append(t.undo, func() {
		if existed {
			t.s.aggregates[aggregate.TxId] = prev
		} else {
			delete(t.s.aggregates, aggregate.TxId)
		}
	})
	return nil
}

func (t *transaction) DeleteAggregate(txId primitives.TxId) error {
	prev, existed := t.s.aggregates[txId]
	if !existed {
		return nil
	}
	delete(t.s.aggregates, txId)
	t.undo = append(t.undo, func() {
		t.s.aggregates[txId] = prev
	})
	return nil
}

func (t *transaction) PutSubmissionCount(count *protocol.SubmissionCount) error {
	prev, existed := t.s.counts[count.TxId]
	if !existed && uint32(len(t.s.counts)) >= t.config.OracleRepositoryMaxTransactions() {
		return capacityExceeded("submission counts", t.config.OracleRepositoryMaxTransactions())
	}
	t.s.counts[count.TxId] = count.Clone()
	t.undo = append(t.undo, func() {
		if existed {
			t.s.counts[count.TxId] = prev
		} else {
			delete(t.s.counts, count.TxId)
		}
	})
	return nil
}

func (t *transaction) DeleteSubmissionCount(txId primitives.TxId) error {
	prev, existed := t.s.counts[txId]
	if !existed {
		return nil
	}
	delete(t.s.counts, txId)
	t.undo = append(t.undo, func() {
		t.s.counts[txId] = prev
	})
	return nil
}

func (t *transaction) AppendTempReport(report *protocol.TempReport) error {
	if uint32(t.s.numTempReports) >= t.config.OracleRepositoryMaxTempReports() {
		return capacityExceeded("temp reports", t.config.OracleRepositoryMaxTempReports())
	}

	prevSequence := t.s.sequence
	prevReports, existed := t.s.tempReports[report.TxId]

	t.s.sequence++
	report.Sequence = t.s.sequence
	// a fresh slice so that the undo closure keeps the old one intact
	reports := make([]*protocol.TempReport, len(prevReports), len(prevReports)+1)
	copy(reports, prevReports)
	t.s.tempReports[report.TxId] = append(reports, report.Clone())
	t.s.numTempReports++

	t.undo = append(t.undo, func() {
		t.s.sequence = prevSequence
		t.s.numTempReports--
		if existed {
			t.s.tempReports[report.TxId] = prevReports
		} else {
			delete(t.s.tempReports, report.TxId)
		}
	})
	return nil
}

func (t *transaction) DeleteTempReport(report *protocol.TempReport) error {
	prevReports, existed := t.s.tempReports[report.TxId]
	if !existed {
		return nil
	}

	remaining := make([]*protocol.TempReport, 0, len(prevReports))
	for _, r := range prevReports {
		if r.Sequence != report.Sequence {
			remaining = append(remaining, r)
		}
	}
	if len(remaining) == len(prevReports) {
		return nil
	}

	t.setTempReports(report.TxId, prevReports, remaining)
	return nil
}

func (t *transaction) DeleteTempReports(txId primitives.TxId) error {
	prevReports, existed := t.s.tempReports[txId]
	if !existed {
		return nil
	}
	t.setTempReports(txId, prevReports, nil)
	return nil
}

func (t *transaction) setTempReports(txId primitives.TxId, prevReports []*protocol.TempReport, reports []*protocol.TempReport) {
	removed := len(prevReports) - len(reports)
	if len(reports) == 0 {
		delete(t.s.tempReports, txId)
	} else {
		t.s.tempReports[txId] = reports
	}
	t.s.numTempReports -= removed

	t.undo = append(t.undo, func() {
		t.s.tempReports[txId] = prevReports
		t.s.numTempReports += removed
	})
}

func (t *transaction) PutWatched(watched *protocol.WatchedTransaction) error {
	prev, existed := t.s.watched[watched.TxId]
	if !existed && uint32(len(t.s.watched)) >= t.config.OracleRepositoryMaxTransactions() {
		return capacityExceeded("watched transactions", t.config.OracleRepositoryMaxTransactions())
	}
	t.s.watched[watched.TxId] = watched.Clone()
	t.undo = append(t.undo, func() {
		if existed {
			t.s.watched[watched.TxId] = prev
		} else {
			delete(t.s.watched, watched.TxId)
		}
	})
	return nil
}

func (t *transaction) DeleteWatched(txId primitives.TxId) error {
	prev, existed := t.s.watched[txId]
	if !existed {
		return nil
	}
	delete(t.s.watched, txId)
	t.undo = append(t.undo, func() {
		t.s.watched[txId] = prev
	})
	return nil
}
