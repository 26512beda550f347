// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"testing"

	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/tx-status-oracle/config"
	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/orbs-network/tx-status-oracle/services/ledger"
	"github.com/orbs-network/tx-status-oracle/services/oracle"
	"github.com/orbs-network/tx-status-oracle/test"
	"github.com/orbs-network/tx-status-oracle/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRegisterContributor_SeedsAFreshContributor(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).start(ctx)
			require.NoError(t, h.memLedger.PayRegistrationFee("alice", registrationFee))

			c, err := h.oracle.RegisterContributor(ctx, "alice")
			require.NoError(t, err)

			test.RequireCmpEqual(t, &protocol.Contributor{
				Id:                  "alice",
				ComplianceScore:     fixedgiga.One,
				ReliabilityScore:    fixedgiga.One,
				LastActiveTimestamp: h.now(),
				RegisteredAt:        h.now(),
			}, c)
			test.RequireCmpEqual(t, c, h.contributor(ctx, "alice"))
		})
	})
}

func TestRegisterContributor_RequiresPaidFee(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).start(ctx)

			_, err := h.oracle.RegisterContributor(ctx, "alice")
			h.requireRejected(err, oracle.AuthorizationError, oracle.RegistrationFeeUnpaid)

			_, err = h.oracle.GetContributor(ctx, "alice")
			h.requireRejected(err, oracle.AuthorizationError, oracle.UnknownContributor)
		})
	})
}

func TestRegisterContributor_RejectsSecondRegistration(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).start(ctx)
			h.register(ctx, "alice")

			_, err := h.oracle.RegisterContributor(ctx, "alice")
			h.requireRejected(err, oracle.StateError, oracle.AlreadyRegistered)
		})
	})
}

func TestRegisterContributor_RejectsEmptyId(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			l := &ledger.MockLedger{}
			l.Never("HasPaidRegistrationFee", mock.Any, mock.Any)
			h := newHarness(t, parent.Logger).withLedger(l).start(ctx)

			_, err := h.oracle.RegisterContributor(ctx, " ")
			h.requireRejected(err, oracle.ValidationError, oracle.InvalidContributorId)

			_, err = l.Verify()
			require.NoError(t, err)
		})
	})
}

func TestRegisterContributor_LedgerFailureIsInternal(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			l := &ledger.MockLedger{}
			l.When("HasPaidRegistrationFee", mock.Any, mock.Any).Return(false, errors.New("ledger unreachable")).Times(1)
			h := newHarness(t, parent.Logger).withLedger(l).start(ctx)

			_, err := h.oracle.RegisterContributor(ctx, "alice")
			require.Error(t, err)
			require.Equal(t, oracle.InternalError, oracle.KindOf(err))
		})
	})
}

func TestRegisterContributor_CapacityExceeded(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, parent.Logger).withConfig(func(cfg config.MutableOracleConfig) {
				cfg.SetUint32(config.ORACLE_REPOSITORY_MAX_CONTRIBUTORS, 1)
			}).start(ctx)
			h.register(ctx, "alice")
			require.NoError(t, h.memLedger.PayRegistrationFee("bob", registrationFee))

			_, err := h.oracle.RegisterContributor(ctx, "bob")
			require.Error(t, err)
			require.Equal(t, oracle.ResourceError, oracle.KindOf(err))
		})
	})
}
