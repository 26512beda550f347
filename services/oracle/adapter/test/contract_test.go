// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/orbs-network/tx-status-oracle/config"
	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/instrumentation/metric"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter/leveldb"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter/memory"
	"github.com/orbs-network/tx-status-oracle/test"
	"github.com/orbs-network/tx-status-oracle/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func smallRepositoryConfig() config.MutableOracleConfig {
	return config.ForTests().
		SetUint32(config.ORACLE_REPOSITORY_MAX_CONTRIBUTORS, 3).
		SetUint32(config.ORACLE_REPOSITORY_MAX_TRANSACTIONS, 3).
		SetUint32(config.ORACLE_REPOSITORY_MAX_TEMP_REPORTS, 5)
}

func withEachRepository(t *testing.T, testFunc func(t *testing.T, repo adapter.Repository)) {
	t.Run("In-Memory Repository", func(t *testing.T) {
		testFunc(t, memory.NewRepository(smallRepositoryConfig(), metric.NewRegistry()))
	})

	t.Run("LevelDB Repository On Memory Storage", func(t *testing.T) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			repo, err := leveldb.NewRepositoryWithStorage(storage.NewMemStorage(), smallRepositoryConfig(), metric.NewRegistry(), harness.Logger)
			require.NoError(t, err)
			defer repo.Close()
			testFunc(t, repo)
		})
	})

	t.Run("LevelDB Repository On Disk", func(t *testing.T) {
		if testing.Short() {
			t.Skip("Skipping disk backed repository in short mode")
		}
		with.Logging(t, func(harness *with.LoggingHarness) {
			dir, err := ioutil.TempDir("", "oracle_repository_contract")
			require.NoError(t, err)
			defer os.RemoveAll(dir)

			repo, err := leveldb.NewRepository(smallRepositoryConfig().SetString(config.ORACLE_REPOSITORY_DIR, dir), metric.NewRegistry(), harness.Logger)
			require.NoError(t, err)
			defer repo.Close()
			testFunc(t, repo)
		})
	})
}

func aContributor(id string) *protocol.Contributor {
	c := protocol.NewContributor(primitives.ContributorId(id), 1000)
	c.ComplianceScore = 42 * fixedgiga.One
	c.IsReliable = true
	return c
}

func anAggregate(txId string) *protocol.AggregatedConsensusData {
	return &protocol.AggregatedConsensusData{
		TxId:          primitives.TxId(txId),
		StatusWeights: [primitives.NUM_TX_STATUSES]uint64{0, 10, 0, 200},
		HashWeights: []protocol.HashWeight{
			{HashPrefix: "abcdef", Weight: 200},
			{HashPrefix: "012345", Weight: 10},
		},
		LastUpdated: 1000,
	}
}

func aTempReport(txId string, contributorId string) *protocol.TempReport {
	return &protocol.TempReport{
		TxId:          primitives.TxId(txId),
		ContributorId: primitives.ContributorId(contributorId),
		Status:        primitives.TX_STATUS_MINED_ACTIVATED,
		HashPrefix:    "abcdef",
		Timestamp:     990,
		ReceivedAt:    1000,
	}
}

func TestRepositoryContract_WritesAndReadsRecords(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		contributor := aContributor("alice")
		aggregate := anAggregate("tx1")
		count := &protocol.SubmissionCount{TxId: "tx1", Count: 2, LastUpdated: 1000, Resolved: true}
		watched := &protocol.WatchedTransaction{TxId: "tx1", WatchedSince: 900}

		err := repo.Transact(ctx, func(tx adapter.Transaction) error {
			require.NoError(t, tx.PutContributor(contributor))
			require.NoError(t, tx.PutAggregate(aggregate))
			require.NoError(t, tx.PutSubmissionCount(count))
			require.NoError(t, tx.PutWatched(watched))
			return nil
		})
		require.NoError(t, err)

		err = repo.View(ctx, func(tx adapter.ReadTransaction) error {
			c, found, err := tx.Contributor("alice")
			require.NoError(t, err)
			require.True(t, found)
			test.RequireCmpEqual(t, contributor, c)

			a, found, err := tx.Aggregate("tx1")
			require.NoError(t, err)
			require.True(t, found)
			test.RequireCmpEqual(t, aggregate, a)

			s, found, err := tx.SubmissionCount("tx1")
			require.NoError(t, err)
			require.True(t, found)
			test.RequireCmpEqual(t, count, s)

			w, found, err := tx.Watched("tx1")
			require.NoError(t, err)
			require.True(t, found)
			test.RequireCmpEqual(t, watched, w)

			_, found, err = tx.Contributor("bob")
			require.NoError(t, err)
			require.False(t, found)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestRepositoryContract_ReturnedRecordsAreCopies(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			return tx.PutAggregate(anAggregate("tx1"))
		}))

		require.NoError(t, repo.View(ctx, func(tx adapter.ReadTransaction) error {
			a, _, err := tx.Aggregate("tx1")
			a.StatusWeights[0] = 999
			a.HashWeights[0].Weight = 999
			return err
		}))

		require.NoError(t, repo.View(ctx, func(tx adapter.ReadTransaction) error {
			a, _, err := tx.Aggregate("tx1")
			require.EqualValues(t, 0, a.StatusWeights[0])
			require.EqualValues(t, 200, a.HashWeights[0].Weight)
			return err
		}))
	})
}

func TestRepositoryContract_FailedTransactionLeavesNoTrace(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			return tx.PutContributor(aContributor("alice"))
		}))

		failure := errors.New("abort")
		err := repo.Transact(ctx, func(tx adapter.Transaction) error {
			updated := aContributor("alice")
			updated.TotalReportsSubmitted = 7
			require.NoError(t, tx.PutContributor(updated))
			require.NoError(t, tx.PutContributor(aContributor("bob")))
			require.NoError(t, tx.AppendTempReport(aTempReport("tx1", "bob")))
			require.NoError(t, tx.Banish("carol"))

			c, _, err := tx.Contributor("alice")
			require.NoError(t, err)
			require.EqualValues(t, 7, c.TotalReportsSubmitted, "a transaction sees its own writes")
			return failure
		})
		require.Equal(t, failure, err)

		require.NoError(t, repo.View(ctx, func(tx adapter.ReadTransaction) error {
			c, _, err := tx.Contributor("alice")
			require.NoError(t, err)
			require.EqualValues(t, 0, c.TotalReportsSubmitted)

			_, found, err := tx.Contributor("bob")
			require.NoError(t, err)
			require.False(t, found)

			reports, err := tx.TempReports("tx1")
			require.NoError(t, err)
			require.Empty(t, reports)

			banished, err := tx.IsBanished("carol")
			require.NoError(t, err)
			require.False(t, banished)
			return nil
		}))
	})
}

func TestRepositoryContract_TempReportsKeepArrivalOrder(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			for _, id := range []string{"carol", "alice", "bob"} {
				if err := tx.AppendTempReport(aTempReport("tx1", id)); err != nil {
					return err
				}
			}
			return tx.AppendTempReport(aTempReport("tx2", "alice"))
		}))

		require.NoError(t, repo.View(ctx, func(tx adapter.ReadTransaction) error {
			reports, err := tx.TempReports("tx1")
			require.NoError(t, err)
			require.Len(t, reports, 3)
			require.EqualValues(t, "carol", reports[0].ContributorId)
			require.EqualValues(t, "alice", reports[1].ContributorId)
			require.EqualValues(t, "bob", reports[2].ContributorId)
			require.True(t, reports[0].Sequence < reports[1].Sequence && reports[1].Sequence < reports[2].Sequence)

			txIds, err := tx.TempReportTxIds()
			require.NoError(t, err)
			require.Equal(t, []primitives.TxId{"tx1", "tx2"}, txIds)
			return nil
		}))
	})
}

func TestRepositoryContract_DeletesTempReports(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		first := aTempReport("tx1", "alice")
		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			require.NoError(t, tx.AppendTempReport(first))
			require.NoError(t, tx.AppendTempReport(aTempReport("tx1", "bob")))
			return tx.AppendTempReport(aTempReport("tx2", "bob"))
		}))

		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			require.NoError(t, tx.DeleteTempReport(first))
			return tx.DeleteTempReports("tx2")
		}))

		require.NoError(t, repo.View(ctx, func(tx adapter.ReadTransaction) error {
			reports, err := tx.TempReports("tx1")
			require.NoError(t, err)
			require.Len(t, reports, 1)
			require.EqualValues(t, "bob", reports[0].ContributorId)

			txIds, err := tx.TempReportTxIds()
			require.NoError(t, err)
			require.Equal(t, []primitives.TxId{"tx1"}, txIds)
			return nil
		}))
	})
}

func TestRepositoryContract_EnforcesCapacity(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			for _, id := range []string{"a", "b", "c"} {
				if err := tx.PutContributor(aContributor(id)); err != nil {
					return err
				}
			}
			return nil
		}))

		err := repo.Transact(ctx, func(tx adapter.Transaction) error {
			return tx.PutContributor(aContributor("d"))
		})
		require.Equal(t, adapter.ErrCapacityExceeded, errors.Cause(err))

		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			return tx.PutContributor(aContributor("a"))
		}), "replacing an existing record must fit")

		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			require.NoError(t, tx.DeleteContributor("a"))
			return tx.PutContributor(aContributor("d"))
		}), "a deleted record frees its slot")

		err = repo.Transact(ctx, func(tx adapter.Transaction) error {
			for i := 0; i < 6; i++ {
				if err := tx.AppendTempReport(aTempReport("tx1", "a")); err != nil {
					return err
				}
			}
			return nil
		})
		require.Equal(t, adapter.ErrCapacityExceeded, errors.Cause(err))
	})
}

func TestRepositoryContract_BanishedSurvivesContributorDeletion(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			require.NoError(t, tx.PutContributor(aContributor("mallory")))
			require.NoError(t, tx.DeleteContributor("mallory"))
			return tx.Banish("mallory")
		}))

		require.NoError(t, repo.View(ctx, func(tx adapter.ReadTransaction) error {
			banished, err := tx.IsBanished("mallory")
			require.NoError(t, err)
			require.True(t, banished)

			contributors, err := tx.Contributors()
			require.NoError(t, err)
			require.Empty(t, contributors)
			return nil
		}))
	})
}

func TestRepositoryContract_ListsAreOrdered(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Transact(ctx, func(tx adapter.Transaction) error {
			for _, id := range []string{"c", "a", "b"} {
				require.NoError(t, tx.PutContributor(aContributor(id)))
				require.NoError(t, tx.PutAggregate(anAggregate("tx-"+id)))
				require.NoError(t, tx.PutSubmissionCount(&protocol.SubmissionCount{TxId: primitives.TxId("tx-" + id), Count: 1}))
				require.NoError(t, tx.PutWatched(&protocol.WatchedTransaction{TxId: primitives.TxId("tx-" + id)}))
			}
			return nil
		}))

		require.NoError(t, repo.View(ctx, func(tx adapter.ReadTransaction) error {
			contributors, err := tx.Contributors()
			require.NoError(t, err)
			require.Len(t, contributors, 3)
			require.EqualValues(t, "a", contributors[0].Id)
			require.EqualValues(t, "c", contributors[2].Id)

			aggregates, err := tx.Aggregates()
			require.NoError(t, err)
			require.Len(t, aggregates, 3)
			require.EqualValues(t, "tx-a", aggregates[0].TxId)

			counts, err := tx.SubmissionCounts()
			require.NoError(t, err)
			require.Len(t, counts, 3)
			require.EqualValues(t, "tx-b", counts[1].TxId)

			watched, err := tx.WatchedTransactions()
			require.NoError(t, err)
			require.Len(t, watched, 3)
			require.EqualValues(t, "tx-c", watched[2].TxId)
			return nil
		}))
	})
}

func TestRepositoryContract_RejectsCancelledContext(t *testing.T) {
	withEachRepository(t, func(t *testing.T, repo adapter.Repository) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := repo.Transact(ctx, func(tx adapter.Transaction) error {
			called = true
			return nil
		})
		require.Error(t, err)
		require.False(t, called)
	})
}
