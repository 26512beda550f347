// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"testing"
	"time"

	"github.com/orbs-network/tx-status-oracle/test/with"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	require.NoError(t, Validate(defaultProductionConfig()))
	require.NoError(t, Validate(ForTests()))
}

func TestValidateConfig_RejectsRetentionShorterThanMaxWait(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetDuration(ORACLE_DATA_RETENTION_PERIOD, time.Minute)

	require.Error(t, Validate(cfg))
}

func TestValidateConfig_RejectsZeroQuorum(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint32(ORACLE_MIN_QUORUM, 0)

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "OracleMinQuorum")
}

func TestValidateConfig_SweepIntervalMustBeBelowMaxWait(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetDuration(ORACLE_SWEEP_INTERVAL, cfg.OracleMaxWait())
	require.Error(t, Validate(cfg))

	cfg.SetDuration(ORACLE_SWEEP_INTERVAL, 0)
	require.NoError(t, Validate(cfg))
}

func TestValidator_PanicsOnInvalidValue(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint32(REPUTATION_TEMPORARY_BAN_FAILURE_MODULUS, 0)

	with.Logging(t, func(harness *with.LoggingHarness) {
		harness.AllowErrorsMatching("invalid configuration")
		require.Panics(t, func() {
			NewValidator(harness.Logger).Validate(cfg)
		})
	})
}
