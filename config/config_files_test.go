// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/stretchr/testify/require"
)

func TestConfig_OverrideConfig(t *testing.T) {
	cfg := emptyConfig()
	err := modifyFromJson(cfg, `
{
	"oracle-min-quorum": 3,
	"oracle-max-wait": "2m",
	"oracle-base-reward-amount": 50000000000,
	"oracle-require-watched-transactions": true,
	"reputation-decay-rate": 0.95,
	"reputation-max-score": "100",
	"ntp-endpoint": "pool.ntp.org"
}`)
	require.NoError(t, err)

	require.EqualValues(t, 3, cfg.OracleMinQuorum())
	require.EqualValues(t, 2*time.Minute, cfg.OracleMaxWait())
	require.EqualValues(t, 50000000000, cfg.OracleBaseRewardAmount())
	require.True(t, cfg.OracleRequireWatchedTransactions())
	require.Equal(t, fixedgiga.FromRatio(95, 100), cfg.ReputationDecayRate())
	require.Equal(t, 100*fixedgiga.One, cfg.ReputationMaxScore())
	require.Equal(t, "pool.ntp.org", cfg.NTPEndpoint())
}

func TestConfig_OverrideFromYaml(t *testing.T) {
	cfg := ForProduction("")
	err := modifyFromYaml(cfg, `
oracle-min-quorum: 5
oracle-sweep-interval: 15s
reputation-logistic-steepness: 0.2
system-metrics-enabled: false
`)
	require.NoError(t, err)

	require.EqualValues(t, 5, cfg.OracleMinQuorum())
	require.EqualValues(t, 15*time.Second, cfg.OracleSweepInterval())
	require.Equal(t, fixedgiga.FromRatio(2, 10), cfg.ReputationLogisticSteepness())
	require.False(t, cfg.SystemMetricsEnabled())
	require.EqualValues(t, 10*time.Minute, cfg.OracleMaxWait(), "keys absent from the overlay keep their preset value")
}

func TestConfig_ParsesZeroValues(t *testing.T) {
	cfg := ForProduction("")
	err := modifyFromJson(cfg, `
{
	"oracle-sweep-interval": "0s",
	"oracle-contributor-submission-rate": 0,
	"logger-full-log": false,
	"ntp-endpoint": ""
}`)
	require.NoError(t, err)

	require.EqualValues(t, 0, cfg.OracleSweepInterval())
	require.EqualValues(t, 0, cfg.OracleContributorSubmissionRate())
	require.False(t, cfg.LoggerFullLog())
	require.Equal(t, "", cfg.NTPEndpoint())
}

func TestConfig_RejectsInvalidValues(t *testing.T) {
	require.Error(t, modifyFromJson(emptyConfig(), `{"oracle-min-quorum": -1}`))
	require.Error(t, modifyFromJson(emptyConfig(), `{"oracle-min-quorum": 5000000000}`))
	require.Error(t, modifyFromJson(emptyConfig(), `{"reputation-decay-rate": "0.1234567891"}`))
	require.Error(t, modifyFromJson(emptyConfig(), `{"oracle-min-quorum": [1]}`))
	require.Error(t, modifyFromJson(emptyConfig(), `not json`))
}

func TestConvertKeyName(t *testing.T) {
	require.Equal(t, ORACLE_MIN_QUORUM, convertKeyName("oracle-min-quorum"))
	require.Equal(t, REPUTATION_DECAY_RATE, convertKeyName("Reputation-Decay-Rate"))
}

func TestGetOracleConfigFromFiles_OverlaysInOrder(t *testing.T) {
	dir, err := ioutil.TempDir("", "oracle-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	first := filepath.Join(dir, "base.json")
	second := filepath.Join(dir, "override.yaml")
	require.NoError(t, ioutil.WriteFile(first, []byte(`{"oracle-min-quorum": 4, "oracle-max-wait": "5m"}`), 0644))
	require.NoError(t, ioutil.WriteFile(second, []byte("oracle-min-quorum: 6\n"), 0644))

	cfg, err := GetOracleConfigFromFiles(FilesPaths{first, second}, "/tmp/oracle")
	require.NoError(t, err)

	require.EqualValues(t, 6, cfg.OracleMinQuorum())
	require.EqualValues(t, 5*time.Minute, cfg.OracleMaxWait())
	require.Equal(t, "/tmp/oracle", cfg.OracleRepositoryDir())
}

func TestGetOracleConfigFromFiles_MissingFile(t *testing.T) {
	_, err := GetOracleConfigFromFiles(FilesPaths{"/does/not/exist.json"}, "")
	require.Error(t, err)
}

func TestFilesPaths_CollectsRepeatedFlags(t *testing.T) {
	var paths FilesPaths
	require.NoError(t, paths.Set("a.json"))
	require.NoError(t, paths.Set("b.yaml"))
	require.Equal(t, "a.json,b.yaml", paths.String())
}
