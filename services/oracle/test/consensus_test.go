// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/orbs-network/tx-status-oracle/config"
	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/oracle"
	"github.com/orbs-network/tx-status-oracle/test"
	"github.com/orbs-network/tx-status-oracle/test/builders"
	"github.com/orbs-network/tx-status-oracle/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestConsensus_InaccurateReportTriggersTemporaryBan(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).start(ctx)
			honest := contributorIds("honest-", 7)
			h.register(ctx, honest...)
			h.register(ctx, "bob")

			bob := h.contributor(ctx, "bob")
			bob.TotalReportsSubmitted = 49
			bob.AccurateReportsCount = 45
			bob.ConsensusFailures = 4
			h.seedContributor(ctx, bob)

			for _, id := range honest {
				_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().WithTxId("T").WithHashPrefix("abc123").From(id).Build())
				require.NoError(t, err)
			}
			out, err := h.oracle.SubmitReport(ctx, builders.StatusReport().WithTxId("T").WithHashPrefix("def456").From("bob").Build())
			require.NoError(t, err)
			require.Equal(t, oracle.SUBMIT_REPORT_STATUS_RESOLVED, out.Status)
			require.Equal(t, primitives.HashPrefix("abc123"), out.Consensus.HashPrefix)

			bob = h.contributor(ctx, "bob")
			require.EqualValues(t, 50, bob.TotalReportsSubmitted)
			require.EqualValues(t, 5, bob.ConsensusFailures)
			require.Equal(t, h.now().Add(24*time.Hour), bob.BanExpiry)

			_, err = h.oracle.SubmitReport(ctx, builders.StatusReport().WithTxId("T2").From("bob").Build())
			h.requireRejected(err, oracle.AuthorizationError, oracle.ContributorBanned)

			h.clock.Advance(24*time.Hour - time.Second)
			_, err = h.oracle.SubmitReport(ctx, builders.StatusReport().WithTxId("T2").From("bob").Build())
			h.requireRejected(err, oracle.AuthorizationError, oracle.ContributorBanned)

			h.clock.Advance(time.Second)
			_, err = h.oracle.SubmitReport(ctx, builders.StatusReport().WithTxId("T2").From("bob").Build())
			require.NoError(t, err, "report rejected once the ban expired")
		})
	})
}

func TestConsensus_HeavierContributorsOutweighTheMajority(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
				cfg.SetUint32(config.ORACLE_MIN_QUORUM, 5)
			}).start(ctx)
			heavy := contributorIds("heavy-", 2)
			light := contributorIds("light-", 3)
			h.register(ctx, heavy...)
			h.register(ctx, light...)

			for _, id := range heavy {
				c := h.contributor(ctx, id)
				c.ComplianceScore = 90 * fixedgiga.One
				c.ReliabilityScore = 90 * fixedgiga.One
				h.seedContributor(ctx, c)
			}

			var out *oracle.SubmitReportOutput
			var err error
			for _, id := range light {
				out, err = h.oracle.SubmitReport(ctx, builders.StatusReport().WithStatus(primitives.TX_STATUS_PENDING_MINING).WithHashPrefix("aaaaaa").From(id).Build())
				require.NoError(t, err)
			}
			for _, id := range heavy {
				out, err = h.oracle.SubmitReport(ctx, builders.StatusReport().WithStatus(primitives.TX_STATUS_MINED_ACTIVATED).WithHashPrefix("bbbbbb").From(id).Build())
				require.NoError(t, err)
			}

			require.Equal(t, oracle.SUBMIT_REPORT_STATUS_RESOLVED, out.Status)
			require.Equal(t, primitives.TX_STATUS_MINED_ACTIVATED, out.Consensus.Status)
			require.Equal(t, primitives.HashPrefix("bbbbbb"), out.Consensus.HashPrefix)

			for _, id := range light {
				require.EqualValues(t, 1, h.contributor(ctx, id).ConsensusFailures, "%s should have been scored inaccurate", id)
			}
			for _, id := range heavy {
				require.EqualValues(t, 1, h.contributor(ctx, id).CurrentStreak, "%s should have been scored accurate", id)
			}
		})
	})
}

func TestConsensus_AccuracyRequiresMatchingStatusAndHash(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
				cfg.SetUint32(config.ORACLE_MIN_QUORUM, 4)
			}).start(ctx)
			h.register(ctx, "alice", "bob", "carol", "dave")

			submit := func(id primitives.ContributorId, status primitives.TxStatus, hash primitives.HashPrefix) {
				_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().WithStatus(status).WithHashPrefix(hash).From(id).Build())
				require.NoError(t, err)
			}
			submit("alice", primitives.TX_STATUS_MINED_ACTIVATED, "abc123")
			submit("bob", primitives.TX_STATUS_MINED_ACTIVATED, "abc123")
			submit("carol", primitives.TX_STATUS_PENDING_MINING, "abc123")
			submit("dave", primitives.TX_STATUS_MINED_ACTIVATED, "fff000")

			updates := make(map[primitives.ContributorId]bool)
			for _, u := range h.events.contributorsUpdated() {
				updates[u.Id] = u.Accurate
			}
			require.Equal(t, map[primitives.ContributorId]bool{"alice": true, "bob": true, "carol": false, "dave": false}, updates)
		})
	})
}

func TestConsensus_QuorumGrowsWithReliableActiveContributors(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
				cfg.SetUint32(config.ORACLE_MIN_QUORUM, 2)
			}).start(ctx)
			ids := contributorIds("oracle-", 3)
			h.register(ctx, ids...)
			for _, id := range ids {
				c := h.contributor(ctx, id)
				c.IsReliable = true
				h.seedContributor(ctx, c)
			}

			for i, id := range ids {
				out, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From(id).Build())
				require.NoError(t, err)
				if i < 2 {
					require.Equal(t, oracle.SUBMIT_REPORT_STATUS_ACCEPTED, out.Status, "resolved below the number of reliable contributors")
				} else {
					require.Equal(t, oracle.SUBMIT_REPORT_STATUS_RESOLVED, out.Status)
				}
			}
		})
	})
}

func TestConsensus_ResolveExpiredFallsBackToMinimumQuorumAfterMaxWait(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
				cfg.SetUint32(config.ORACLE_MIN_QUORUM, 2)
			}).start(ctx)
			ids := contributorIds("oracle-", 4)
			h.register(ctx, ids...)
			for _, id := range ids {
				c := h.contributor(ctx, id)
				c.IsReliable = true
				h.seedContributor(ctx, c)
			}

			for _, id := range ids[:2] {
				_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From(id).Build())
				require.NoError(t, err)
			}

			results, err := h.oracle.ResolveExpired(ctx)
			require.NoError(t, err)
			require.Empty(t, results, "resolved before max wait elapsed")

			h.clock.Advance(h.config.OracleMaxWait())
			results, err = h.oracle.ResolveExpired(ctx)
			require.NoError(t, err)
			require.Len(t, results, 1)
			require.EqualValues(t, 2, results[0].ContributorCount)
			require.Len(t, h.events.consensusReached(), 1)

			results, err = h.oracle.ResolveExpired(ctx)
			require.NoError(t, err)
			require.Empty(t, results, "a transaction was resolved twice")
		})
	})
}

func TestConsensus_BelowMinimumQuorumNeverResolves(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).start(ctx)
			h.register(ctx, "alice")

			_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From("alice").Build())
			require.NoError(t, err)

			h.clock.Advance(2 * h.config.OracleMaxWait())
			results, err := h.oracle.ResolveExpired(ctx)
			require.NoError(t, err)
			require.Empty(t, results)
		})
	})
}

func TestConsensus_SweeperResolvesInTheBackground(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
			cfg.SetUint32(config.ORACLE_MIN_QUORUM, 1)
			cfg.SetDuration(config.ORACLE_SWEEP_INTERVAL, 5*time.Millisecond)
		}).start(context.Background())

		test.WithContextAndShutdown(h.oracle, func(ctx context.Context) {
			h.register(ctx, "alice", "bob")
			for _, id := range []primitives.ContributorId{"alice", "bob"} {
				c := h.contributor(ctx, id)
				c.IsReliable = true
				h.seedContributor(ctx, c)
			}

			out, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From("alice").Build())
			require.NoError(t, err)
			require.Equal(t, oracle.SUBMIT_REPORT_STATUS_ACCEPTED, out.Status)

			h.clock.Advance(h.config.OracleMaxWait())
			require.True(t, test.Eventually(func() bool {
				return len(h.events.consensusReached()) == 1
			}), "sweeper did not resolve the expired transaction")
		})
	})
}

func TestConsensus_SweeperStopsQuietlyOnShutdown(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
			cfg.SetDuration(config.ORACLE_SWEEP_INTERVAL, time.Millisecond)
		}).start(context.Background())

		test.WithContextAndShutdown(h.oracle, func(ctx context.Context) {
			h.register(ctx, "alice")
			for i := 0; i < 20; i++ {
				_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From("alice").WithTxId(primitives.TxId(fmt.Sprintf("T%d", i))).Build())
				require.NoError(t, err)
			}
			h.clock.Advance(h.config.OracleDataRetentionPeriod())
			time.Sleep(10 * time.Millisecond)
		})
	})
}

func TestConsensus_CancelledResolutionPassReturnsWithoutLoggingErrors(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).start(ctx)
			h.register(ctx, "alice")
			_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From("alice").Build())
			require.NoError(t, err)
			h.clock.Advance(h.config.OracleDataRetentionPeriod())

			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err = h.oracle.ResolveExpired(cancelled)
			require.Error(t, err)
			require.Equal(t, context.Canceled, errors.Cause(err))
		})
	})
}

func TestConsensus_SkipsContributorsBannedBeforeResolution(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
				cfg.SetUint32(config.ORACLE_MIN_QUORUM, 3)
			}).start(ctx)
			h.register(ctx, "alice", "bob", "carol")

			for _, id := range []primitives.ContributorId{"alice", "bob"} {
				_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From(id).Build())
				require.NoError(t, err)
			}
			bob := h.contributor(ctx, "bob")
			bob.BanExpiry = h.now().Add(time.Hour)
			h.seedContributor(ctx, bob)

			out, err := h.oracle.SubmitReport(ctx, builders.StatusReport().From("carol").Build())
			require.NoError(t, err)
			require.Equal(t, oracle.SUBMIT_REPORT_STATUS_RESOLVED, out.Status)
			require.EqualValues(t, 2, out.Consensus.ContributorCount)

			test.RequireCmpEqual(t, bob, h.contributor(ctx, "bob"), "banned contributor was scored")
		})
	})
}

func TestConsensus_PermanentlyBannedContributorIsBanished(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
				cfg.SetUint32(config.ORACLE_MIN_QUORUM, 3)
			}).start(ctx)
			h.register(ctx, "alice", "bob", "mallory")

			mallory := h.contributor(ctx, "mallory")
			mallory.TotalReportsSubmitted = 249
			mallory.AccurateReportsCount = 150
			mallory.ConsensusFailures = 99
			h.seedContributor(ctx, mallory)

			for _, id := range []primitives.ContributorId{"alice", "bob"} {
				_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().WithContent("the real file").From(id).Build())
				require.NoError(t, err)
			}
			_, err := h.oracle.SubmitReport(ctx, builders.StatusReport().WithContent("a forged file").From("mallory").Build())
			require.NoError(t, err)

			_, err = h.oracle.GetContributor(ctx, "mallory")
			h.requireRejected(err, oracle.AuthorizationError, oracle.UnknownContributor)

			_, err = h.oracle.SubmitReport(ctx, builders.StatusReport().WithTxId("T2").From("mallory").Build())
			h.requireRejected(err, oracle.AuthorizationError, oracle.ContributorBanished)

			_, err = h.oracle.RegisterContributor(ctx, "mallory")
			h.requireRejected(err, oracle.AuthorizationError, oracle.ContributorBanished)

			var banned *protocol.ContributorUpdate
			for _, u := range h.events.contributorsUpdated() {
				if u.Id == "mallory" {
					banned = u
				}
			}
			require.NotNil(t, banned)
			require.Equal(t, primitives.PermanentBan, banned.BanExpiry)
		})
	})
}
