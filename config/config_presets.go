// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"

	"github.com/orbs-network/tx-status-oracle/fixedgiga"
)

// all other configs are variations from the production one
func defaultProductionConfig() MutableOracleConfig {
	cfg := emptyConfig()

	cfg.SetUint32(ORACLE_MIN_QUORUM, 8)
	cfg.SetDuration(ORACLE_MAX_WAIT, 10*time.Minute)
	cfg.SetDuration(ORACLE_DATA_RETENTION_PERIOD, 24*time.Hour)
	cfg.SetDuration(ORACLE_SUBMISSION_COUNT_RETENTION_PERIOD, 24*time.Hour)
	cfg.SetUint32(ORACLE_MAX_SUBMISSIONS_PER_TRANSACTION, 32)
	// vote weights keep two extra decimal digits of the scores
	cfg.SetUint32(ORACLE_WEIGHT_MULTIPLIER, 100)
	cfg.SetUint32(ORACLE_MAX_TX_ID_LENGTH, 64)
	cfg.SetBool(ORACLE_REQUIRE_WATCHED_TRANSACTIONS, false)
	// must stay well below ORACLE_MAX_WAIT or timed out transactions linger
	cfg.SetDuration(ORACLE_SWEEP_INTERVAL, 30*time.Second)
	cfg.SetUint32(ORACLE_CONTRIBUTOR_SUBMISSION_RATE, 10)
	cfg.SetUint32(ORACLE_CONTRIBUTOR_SUBMISSION_BURST, 20)
	cfg.SetUint64(ORACLE_BASE_REWARD_AMOUNT, 100000)

	cfg.SetString(ORACLE_REPOSITORY_DIR, "")
	cfg.SetUint32(ORACLE_REPOSITORY_MAX_CONTRIBUTORS, 100000)
	cfg.SetUint32(ORACLE_REPOSITORY_MAX_TRANSACTIONS, 100000)
	cfg.SetUint32(ORACLE_REPOSITORY_MAX_TEMP_REPORTS, 1000000)

	cfg.SetGiga(REPUTATION_BASE_SCORE_INCREMENT, 20*fixedgiga.One)
	cfg.SetGiga(REPUTATION_STREAK_STEP, fixedgiga.FromRatio(1, 10))
	cfg.SetGiga(REPUTATION_MAX_ACCURACY_SCALING, 2*fixedgiga.One)
	cfg.SetGiga(REPUTATION_MAX_STREAK_BONUS, 3*fixedgiga.One)
	cfg.SetGiga(REPUTATION_FAILURE_STEP, fixedgiga.FromRatio(1, 2))
	cfg.SetGiga(REPUTATION_MAX_DECREMENT_FACTOR, 3*fixedgiga.One)
	cfg.SetDuration(REPUTATION_TIME_WEIGHT_HORIZON, 480*time.Hour)
	cfg.SetGiga(REPUTATION_DECAY_RATE, fixedgiga.FromRatio(99, 100))
	cfg.SetDuration(REPUTATION_DECAY_PERIOD, 24*time.Hour)
	cfg.SetGiga(REPUTATION_MAX_SCORE, 100*fixedgiga.One)
	cfg.SetGiga(REPUTATION_LOGISTIC_STEEPNESS, fixedgiga.FromRatio(1, 10))
	cfg.SetGiga(REPUTATION_LOGISTIC_MIDPOINT, 50*fixedgiga.One)
	cfg.SetGiga(REPUTATION_RELIABILITY_THRESHOLD, fixedgiga.FromRatio(8, 10))
	cfg.SetDuration(REPUTATION_RECENT_ACTIVITY_WINDOW, 24*time.Hour)
	cfg.SetUint32(REPUTATION_TEMPORARY_BAN_CONTRIBUTIONS_CAP, 50)
	cfg.SetUint32(REPUTATION_TEMPORARY_BAN_FAILURE_MODULUS, 5)
	cfg.SetDuration(REPUTATION_TEMPORARY_BAN_DURATION, 24*time.Hour)
	cfg.SetUint32(REPUTATION_PERMANENT_BAN_CONTRIBUTIONS_FLOOR, 250)
	cfg.SetUint32(REPUTATION_PERMANENT_BAN_FAILURE_FLOOR, 100)
	cfg.SetUint32(REPUTATION_MIN_REPORTS_FOR_REWARD, 10)
	cfg.SetGiga(REPUTATION_MIN_RELIABILITY_FOR_REWARD, 80*fixedgiga.One)
	cfg.SetGiga(REPUTATION_MIN_COMPLIANCE_FOR_REWARD, 65*fixedgiga.One)

	cfg.SetBool(LOGGER_FULL_LOG, false)
	cfg.SetDuration(LOGGER_FILE_TRUNCATION_INTERVAL, 24*time.Hour)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)
	cfg.SetString(NTP_ENDPOINT, "")
	cfg.SetBool(SYSTEM_METRICS_ENABLED, true)
	cfg.SetDuration(SHUTDOWN_GRACE_PERIOD, 5*time.Second)

	return cfg
}

func ForProduction(repositoryDir string) MutableOracleConfig {
	cfg := defaultProductionConfig()
	if repositoryDir != "" {
		cfg.SetString(ORACLE_REPOSITORY_DIR, repositoryDir)
	}
	return cfg
}

// ForTests keeps every production scoring constant and removes the background noise:
// no rate limit, no sweeper ticks during a test and no system metrics.
func ForTests() MutableOracleConfig {
	cfg := defaultProductionConfig()

	cfg.SetUint32(ORACLE_CONTRIBUTOR_SUBMISSION_RATE, 0)
	cfg.SetDuration(ORACLE_SWEEP_INTERVAL, 0)
	cfg.SetUint32(ORACLE_REPOSITORY_MAX_CONTRIBUTORS, 1000)
	cfg.SetUint32(ORACLE_REPOSITORY_MAX_TRANSACTIONS, 1000)
	cfg.SetUint32(ORACLE_REPOSITORY_MAX_TEMP_REPORTS, 10000)
	cfg.SetBool(LOGGER_FULL_LOG, true)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 0)
	cfg.SetBool(SYSTEM_METRICS_ENABLED, false)

	return cfg
}
