// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package leveldb

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/instrumentation/metric"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	contributorPrefix     = []byte("c/")
	banishedPrefix        = []byte("b/")
	aggregatePrefix       = []byte("a/")
	submissionCountPrefix = []byte("s/")
	watchedPrefix         = []byte("w/")
	tempReportPrefix      = []byte("t/")

	sequenceKey         = []byte("m/seq")
	contributorCountKey = []byte("m/count/c")
	aggregateCountKey   = []byte("m/count/a")
	submissionCountKey  = []byte("m/count/s")
	watchedCountKey     = []byte("m/count/w")
	tempReportsCountKey = []byte("m/count/t")
)

type metrics struct {
	contributors *metric.Gauge
	transactions *metric.Gauge
	tempReports  *metric.Gauge
	commitTime   *metric.Histogram
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		contributors: m.NewGauge("Oracle.Repository.Contributors.Count"),
		transactions: m.NewGauge("Oracle.Repository.Transactions.Count"),
		tempReports:  m.NewGauge("Oracle.Repository.TempReports.Count"),
		commitTime:   m.NewLatency("Oracle.Repository.Commit.Duration", 5*time.Second),
	}
}

type LevelDbRepository struct {
	db      *leveldb.DB
	config  adapter.Config
	metrics *metrics
	logger  log.Logger
}

// NewRepository opens (or creates) the database under config.OracleRepositoryDir().
func NewRepository(config adapter.Config, metricFactory metric.Factory, logger log.Logger) (*LevelDbRepository, error) {
	db, err := leveldb.OpenFile(config.OracleRepositoryDir(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening repository at %s", config.OracleRepositoryDir())
	}
	logger.Info("opened oracle repository", log.String("dir", config.OracleRepositoryDir()))
	return newRepository(db, config, metricFactory, logger)
}

// NewRepositoryWithStorage is used by tests to run on top of storage.NewMemStorage().
func NewRepositoryWithStorage(stor storage.Storage, config adapter.Config, metricFactory metric.Factory, logger log.Logger) (*LevelDbRepository, error) {
	db, err := leveldb.Open(stor, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening repository")
	}
	return newRepository(db, config, metricFactory, logger)
}

func newRepository(db *leveldb.DB, config adapter.Config, metricFactory metric.Factory, logger log.Logger) (*LevelDbRepository, error) {
	r := &LevelDbRepository{
		db:      db,
		config:  config,
		metrics: newMetrics(metricFactory),
		logger:  logger,
	}
	if err := r.reportSize(db); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *LevelDbRepository) Transact(ctx context.Context, f func(tx adapter.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tr, err := r.db.OpenTransaction()
	if err != nil {
		return errors.Wrap(err, "failed opening repository transaction")
	}

	if err := f(&transaction{readTransaction{tr}, tr, r.config}); err != nil {
		tr.Discard()
		return err
	}

	start := time.Now()
	if err := tr.Commit(); err != nil {
		return errors.Wrap(err, "failed committing repository transaction")
	}
	r.metrics.commitTime.RecordSince(start)

	if err := r.reportSize(r.db); err != nil {
		r.logger.Error("failed reading repository size", log.Error(err))
	}
	return nil
}

func (r *LevelDbRepository) View(ctx context.Context, f func(tx adapter.ReadTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot, err := r.db.GetSnapshot()
	if err != nil {
		return errors.Wrap(err, "failed taking repository snapshot")
	}
	defer snapshot.Release()

	return f(&readTransaction{snapshot})
}

func (r *LevelDbRepository) Close() error {
	return r.db.Close()
}

func (r *LevelDbRepository) reportSize(rd reader) error {
	contributors, err := getCounter(rd, contributorCountKey)
	if err != nil {
		return err
	}
	aggregates, err := getCounter(rd, aggregateCountKey)
	if err != nil {
		return err
	}
	tempReports, err := getCounter(rd, tempReportsCountKey)
	if err != nil {
		return err
	}
	r.metrics.contributors.Update(int64(contributors))
	r.metrics.transactions.Update(int64(aggregates))
	r.metrics.tempReports.Update(int64(tempReports))
	return nil
}

// reader is satisfied by *leveldb.DB, *leveldb.Transaction and *leveldb.Snapshot
type reader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	Has(key []byte, ro *opt.ReadOptions) (bool, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

func key(prefix []byte, id string) []byte {
	k := make([]byte, 0, len(prefix)+len(id))
	k = append(k, prefix...)
	return append(k, id...)
}

// temp report keys sort by tx id and then by arrival: t/ | len(txId) | txId | sequence
func tempReportTxPrefix(txId primitives.TxId) ([]byte, error) {
	if len(txId) > math.MaxUint16 {
		return nil, errors.Errorf("tx id of %d bytes is too long to store", len(txId))
	}
	k := make([]byte, 0, len(tempReportPrefix)+2+len(txId)+8)
	k = append(k, tempReportPrefix...)
	k = append(k, 0, 0)
	binary.BigEndian.PutUint16(k[len(tempReportPrefix):], uint16(len(txId)))
	return append(k, txId...), nil
}

func tempReportKey(txId primitives.TxId, sequence uint64) ([]byte, error) {
	k, err := tempReportTxPrefix(txId)
	if err != nil {
		return nil, err
	}
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], sequence)
	return append(k, seq[:]...), nil
}

func txIdOfTempReportKey(k []byte) (primitives.TxId, error) {
	rest := k[len(tempReportPrefix):]
	if len(rest) < 2 {
		return "", errors.Errorf("malformed temp report key %x", k)
	}
	n := int(binary.BigEndian.Uint16(rest))
	if len(rest) < 2+n+8 {
		return "", errors.Errorf("malformed temp report key %x", k)
	}
	return primitives.TxId(rest[2 : 2+n]), nil
}

func getCounter(rd reader, k []byte) (uint64, error) {
	value, err := rd.Get(k, nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed reading %s", k)
	}
	if len(value) != 8 {
		return 0, errors.Errorf("malformed counter %s", k)
	}
	return binary.BigEndian.Uint64(value), nil
}

func getRecord(rd reader, k []byte) ([]byte, bool, error) {
	value, err := rd.Get(k, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed reading %s", k)
	}
	return value, true, nil
}

func scan(rd reader, prefix []byte, f func(k []byte, value []byte) error) error {
	iter := rd.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		if err := f(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

type readTransaction struct {
	rd reader
}

func (t *readTransaction) Contributor(id primitives.ContributorId) (*protocol.Contributor, bool, error) {
	value, found, err := getRecord(t.rd, key(contributorPrefix, string(id)))
	if err != nil || !found {
		return nil, false, err
	}
	c, err := decodeContributor(value)
	return c, err == nil, err
}

func (t *readTransaction) Contributors() ([]*protocol.Contributor, error) {
	var result []*protocol.Contributor
	err := scan(t.rd, contributorPrefix, func(_ []byte, value []byte) error {
		c, err := decodeContributor(value)
		if err != nil {
			return err
		}
		result = append(result, c)
		return nil
	})
	return result, err
}

func (t *readTransaction) IsBanished(id primitives.ContributorId) (bool, error) {
	return t.rd.Has(key(banishedPrefix, string(id)), nil)
}

func (t *readTransaction) Aggregate(txId primitives.TxId) (*protocol.AggregatedConsensusData, bool, error) {
	value, found, err := getRecord(t.rd, key(aggregatePrefix, string(txId)))
	if err != nil || !found {
		return nil, false, err
	}
	a, err := decodeAggregate(value)
	return a, err == nil, err
}

func (t *readTransaction) Aggregates() ([]*protocol.AggregatedConsensusData, error) {
	var result []*protocol.AggregatedConsensusData
	err := scan(t.rd, aggregatePrefix, func(_ []byte, value []byte) error {
		a, err := decodeAggregate(value)
		if err != nil {
			return err
		}
		result = append(result, a)
		return nil
	})
	return result, err
}

func (t *readTransaction) SubmissionCount(txId primitives.TxId) (*protocol.SubmissionCount, bool, error) {
	value, found, err := getRecord(t.rd, key(submissionCountPrefix, string(txId)))
	if err != nil || !found {
		return nil, false, err
	}
	c, err := decodeSubmissionCount(value)
	return c, err == nil, err
}

func (t *readTransaction) SubmissionCounts() ([]*protocol.SubmissionCount, error) {
	var result []*protocol.SubmissionCount
	err := scan(t.rd, submissionCountPrefix, func(_ []byte, value []byte) error {
		c, err := decodeSubmissionCount(value)
		if err != nil {
			return err
		}
		result = append(result, c)
		return nil
	})
	return result, err
}

func (t *readTransaction) TempReports(txId primitives.TxId) ([]*protocol.TempReport, error) {
	prefix, err := tempReportTxPrefix(txId)
	if err != nil {
		return nil, err
	}
	var result []*protocol.TempReport
	err = scan(t.rd, prefix, func(_ []byte, value []byte) error {
		r, err := decodeTempReport(value)
		if err != nil {
			return err
		}
		result = append(result, r)
		return nil
	})
	return result, err
}

func (t *readTransaction) TempReportTxIds() ([]primitives.TxId, error) {
	var result []primitives.TxId
	err := scan(t.rd, tempReportPrefix, func(k []byte, _ []byte) error {
		txId, err := txIdOfTempReportKey(k)
		if err != nil {
			return err
		}
		if len(result) == 0 || result[len(result)-1] != txId {
			result = append(result, txId)
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result, err
}

func (t *readTransaction) Watched(txId primitives.TxId) (*protocol.WatchedTransaction, bool, error) {
	value, found, err := getRecord(t.rd, key(watchedPrefix, string(txId)))
	if err != nil || !found {
		return nil, false, err
	}
	w, err := decodeWatched(value)
	return w, err == nil, err
}

func (t *readTransaction) WatchedTransactions() ([]*protocol.WatchedTransaction, error) {
	var result []*protocol.WatchedTransaction
	err := scan(t.rd, watchedPrefix, func(_ []byte, value []byte) error {
		w, err := decodeWatched(value)
		if err != nil {
			return err
		}
		result = append(result, w)
		return nil
	})
	return result, err
}

type transaction struct {
	readTransaction
	tr     *leveldb.Transaction
	config adapter.Config
}

func (t *transaction) setCounter(k []byte, value uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	return t.tr.Put(k, buf[:], nil)
}

// addCounter moves a record counter by delta, refusing to grow it past max
func (t *transaction) addCounter(k []byte, delta int64, max uint32, kind string) error {
	current, err := getCounter(t.tr, k)
	if err != nil {
		return err
	}
	if delta > 0 && current+uint64(delta) > uint64(max) {
		return errors.Wrapf(adapter.ErrCapacityExceeded, "%s limit of %d reached", kind, max)
	}
	if delta < 0 && uint64(-delta) > current {
		return errors.Errorf("%s counter underflow", kind)
	}
	return t.setCounter(k, uint64(int64(current)+delta))
}

func (t *transaction) put(k []byte, value []byte, counterKey []byte, max uint32, kind string) error {
	existed, err := t.tr.Has(k, nil)
	if err != nil {
		return errors.Wrapf(err, "failed reading %s", k)
	}
	if !existed {
		if err := t.addCounter(counterKey, 1, max, kind); err != nil {
			return err
		}
	}
	return errors.Wrapf(t.tr.Put(k, value, nil), "failed writing %s", k)
}

func (t *transaction) delete(k []byte, counterKey []byte, kind string) error {
	existed, err := t.tr.Has(k, nil)
	if err != nil {
		return errors.Wrapf(err, "failed reading %s", k)
	}
	if !existed {
		return nil
	}
	if err := t.addCounter(counterKey, -1, 0, kind); err != nil {
		return err
	}
	return errors.Wrapf(t.tr.Delete(k, nil), "failed deleting %s", k)
}

func (t *transaction) PutContributor(contributor *protocol.Contributor) error {
	value, err := encodeContributor(contributor)
	if err != nil {
		return err
	}
	return t.put(key(contributorPrefix, string(contributor.Id)), value, contributorCountKey, t.config.OracleRepositoryMaxContributors(), "contributors")
}

func (t *transaction) DeleteContributor(id primitives.ContributorId) error {
	return t.delete(key(contributorPrefix, string(id)), contributorCountKey, "contributors")
}

func (t *transaction) Banish(id primitives.ContributorId) error {
	return errors.Wrap(t.tr.Put(key(banishedPrefix, string(id)), []byte{1}, nil), "failed writing tombstone")
}

func (t *transaction) PutAggregate(aggregate *protocol.AggregatedConsensusData) error {
	value, err := encodeAggregate(aggregate)
	if err != nil {
		return err
	}
	return t.put(key(aggregatePrefix, string(aggregate.TxId)), value, aggregateCountKey, t.config.OracleRepositoryMaxTransactions(), "transactions")
}

func (t *transaction) DeleteAggregate(txId primitives.TxId) error {
	return t.delete(key(aggregatePrefix, string(txId)), aggregateCountKey, "transactions")
}

func (t *transaction) PutSubmissionCount(count *protocol.SubmissionCount) error {
	value, err := encodeSubmissionCount(count)
	if err != nil {
		return err
	}
	return t.put(key(submissionCountPrefix, string(count.TxId)), value, submissionCountKey, t.config.OracleRepositoryMaxTransactions(), "submission counts")
}

func (t *transaction) DeleteSubmissionCount(txId primitives.TxId) error {
	return t.delete(key(submissionCountPrefix, string(txId)), submissionCountKey, "submission counts")
}

func (t *transaction) AppendTempReport(report *protocol.TempReport) error {
	sequence, err := getCounter(t.tr, sequenceKey)
	if err != nil {
		return err
	}
	sequence++

	k, err := tempReportKey(report.TxId, sequence)
	if err != nil {
		return err
	}
	stored := report.Clone()
	stored.Sequence = sequence
	value, err := encodeTempReport(stored)
	if err != nil {
		return err
	}
	if err := t.put(k, value, tempReportsCountKey, t.config.OracleRepositoryMaxTempReports(), "temp reports"); err != nil {
		return err
	}
	if err := t.setCounter(sequenceKey, sequence); err != nil {
		return err
	}
	report.Sequence = sequence
	return nil
}

func (t *transaction) DeleteTempReport(report *protocol.TempReport) error {
	k, err := tempReportKey(report.TxId, report.Sequence)
	if err != nil {
		return err
	}
	return t.delete(k, tempReportsCountKey, "temp reports")
}

func (t *transaction) DeleteTempReports(txId primitives.TxId) error {
	reports, err := t.TempReports(txId)
	if err != nil {
		return err
	}
	for _, r := range reports {
		if err := t.DeleteTempReport(r); err != nil {
			return err
		}
	}
	return nil
}

func (t *transaction) PutWatched(watched *protocol.WatchedTransaction) error {
	value, err := encodeWatched(watched)
	if err != nil {
		return err
	}
	return t.put(key(watchedPrefix, string(watched.TxId)), value, watchedCountKey, t.config.OracleRepositoryMaxTransactions(), "watched transactions")
}

func (t *transaction) DeleteWatched(txId primitives.TxId) error {
	return t.delete(key(watchedPrefix, string(txId)), watchedCountKey, "watched transactions")
}
