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

type OracleConfig interface {
	OracleMinQuorum() uint32
	OracleMaxWait() time.Duration
	OracleDataRetentionPeriod() time.Duration
	OracleSubmissionCountRetentionPeriod() time.Duration
	OracleMaxSubmissionsPerTransaction() uint32
	OracleWeightMultiplier() uint32
	OracleMaxTxIdLength() uint32
	OracleRequireWatchedTransactions() bool
	OracleSweepInterval() time.Duration
	OracleContributorSubmissionRate() uint32
	OracleContributorSubmissionBurst() uint32
	OracleBaseRewardAmount() uint64

	OracleRepositoryDir() string
	OracleRepositoryMaxContributors() uint32
	OracleRepositoryMaxTransactions() uint32
	OracleRepositoryMaxTempReports() uint32

	ReputationBaseScoreIncrement() fixedgiga.Giga
	ReputationStreakStep() fixedgiga.Giga
	ReputationMaxAccuracyScaling() fixedgiga.Giga
	ReputationMaxStreakBonus() fixedgiga.Giga
	ReputationFailureStep() fixedgiga.Giga
	ReputationMaxDecrementFactor() fixedgiga.Giga
	ReputationTimeWeightHorizon() time.Duration
	ReputationDecayRate() fixedgiga.Giga
	ReputationDecayPeriod() time.Duration
	ReputationMaxScore() fixedgiga.Giga
	ReputationLogisticSteepness() fixedgiga.Giga
	ReputationLogisticMidpoint() fixedgiga.Giga
	ReputationReliabilityThreshold() fixedgiga.Giga
	ReputationRecentActivityWindow() time.Duration
	ReputationTemporaryBanContributionsCap() uint32
	ReputationTemporaryBanFailureModulus() uint32
	ReputationTemporaryBanDuration() time.Duration
	ReputationPermanentBanContributionsFloor() uint32
	ReputationPermanentBanFailureFloor() uint32
	ReputationMinReportsForReward() uint32
	ReputationMinReliabilityForReward() fixedgiga.Giga
	ReputationMinComplianceForReward() fixedgiga.Giga

	LoggerFullLog() bool
	LoggerFileTruncationInterval() time.Duration
	MetricsReportInterval() time.Duration
	NTPEndpoint() string
	SystemMetricsEnabled() bool
	ShutdownGracePeriod() time.Duration
}

type MutableOracleConfig interface {
	OracleConfig
	Set(key string, value NodeConfigValue) MutableOracleConfig
	SetDuration(key string, value time.Duration) MutableOracleConfig
	SetUint32(key string, value uint32) MutableOracleConfig
	SetUint64(key string, value uint64) MutableOracleConfig
	SetGiga(key string, value fixedgiga.Giga) MutableOracleConfig
	SetString(key string, value string) MutableOracleConfig
	SetBool(key string, value bool) MutableOracleConfig
	Modify(newValues ...NodeConfigKeyValue) MutableOracleConfig
}

type NodeConfigKeyValue struct {
	Key   string
	Value NodeConfigValue
}

type NodeConfigValue struct {
	Uint32Value   uint32
	Uint64Value   uint64
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
	GigaValue     fixedgiga.Giga
}

type config struct {
	kv map[string]NodeConfigValue
}

const (
	ORACLE_MIN_QUORUM                        = "ORACLE_MIN_QUORUM"
	ORACLE_MAX_WAIT                          = "ORACLE_MAX_WAIT"
	ORACLE_DATA_RETENTION_PERIOD             = "ORACLE_DATA_RETENTION_PERIOD"
	ORACLE_SUBMISSION_COUNT_RETENTION_PERIOD = "ORACLE_SUBMISSION_COUNT_RETENTION_PERIOD"
	ORACLE_MAX_SUBMISSIONS_PER_TRANSACTION   = "ORACLE_MAX_SUBMISSIONS_PER_TRANSACTION"
	ORACLE_WEIGHT_MULTIPLIER                 = "ORACLE_WEIGHT_MULTIPLIER"
	ORACLE_MAX_TX_ID_LENGTH                  = "ORACLE_MAX_TX_ID_LENGTH"
	ORACLE_REQUIRE_WATCHED_TRANSACTIONS      = "ORACLE_REQUIRE_WATCHED_TRANSACTIONS"
	ORACLE_SWEEP_INTERVAL                    = "ORACLE_SWEEP_INTERVAL"
	ORACLE_CONTRIBUTOR_SUBMISSION_RATE       = "ORACLE_CONTRIBUTOR_SUBMISSION_RATE"
	ORACLE_CONTRIBUTOR_SUBMISSION_BURST      = "ORACLE_CONTRIBUTOR_SUBMISSION_BURST"
	ORACLE_BASE_REWARD_AMOUNT                = "ORACLE_BASE_REWARD_AMOUNT"

	ORACLE_REPOSITORY_DIR              = "ORACLE_REPOSITORY_DIR"
	ORACLE_REPOSITORY_MAX_CONTRIBUTORS = "ORACLE_REPOSITORY_MAX_CONTRIBUTORS"
	ORACLE_REPOSITORY_MAX_TRANSACTIONS = "ORACLE_REPOSITORY_MAX_TRANSACTIONS"
	ORACLE_REPOSITORY_MAX_TEMP_REPORTS = "ORACLE_REPOSITORY_MAX_TEMP_REPORTS"

	REPUTATION_BASE_SCORE_INCREMENT              = "REPUTATION_BASE_SCORE_INCREMENT"
	REPUTATION_STREAK_STEP                       = "REPUTATION_STREAK_STEP"
	REPUTATION_MAX_ACCURACY_SCALING              = "REPUTATION_MAX_ACCURACY_SCALING"
	REPUTATION_MAX_STREAK_BONUS                  = "REPUTATION_MAX_STREAK_BONUS"
	REPUTATION_FAILURE_STEP                      = "REPUTATION_FAILURE_STEP"
	REPUTATION_MAX_DECREMENT_FACTOR              = "REPUTATION_MAX_DECREMENT_FACTOR"
	REPUTATION_TIME_WEIGHT_HORIZON               = "REPUTATION_TIME_WEIGHT_HORIZON"
	REPUTATION_DECAY_RATE                        = "REPUTATION_DECAY_RATE"
	REPUTATION_DECAY_PERIOD                      = "REPUTATION_DECAY_PERIOD"
	REPUTATION_MAX_SCORE                         = "REPUTATION_MAX_SCORE"
	REPUTATION_LOGISTIC_STEEPNESS                = "REPUTATION_LOGISTIC_STEEPNESS"
	REPUTATION_LOGISTIC_MIDPOINT                 = "REPUTATION_LOGISTIC_MIDPOINT"
	REPUTATION_RELIABILITY_THRESHOLD             = "REPUTATION_RELIABILITY_THRESHOLD"
	REPUTATION_RECENT_ACTIVITY_WINDOW            = "REPUTATION_RECENT_ACTIVITY_WINDOW"
	REPUTATION_TEMPORARY_BAN_CONTRIBUTIONS_CAP   = "REPUTATION_TEMPORARY_BAN_CONTRIBUTIONS_CAP"
	REPUTATION_TEMPORARY_BAN_FAILURE_MODULUS     = "REPUTATION_TEMPORARY_BAN_FAILURE_MODULUS"
	REPUTATION_TEMPORARY_BAN_DURATION            = "REPUTATION_TEMPORARY_BAN_DURATION"
	REPUTATION_PERMANENT_BAN_CONTRIBUTIONS_FLOOR = "REPUTATION_PERMANENT_BAN_CONTRIBUTIONS_FLOOR"
	REPUTATION_PERMANENT_BAN_FAILURE_FLOOR       = "REPUTATION_PERMANENT_BAN_FAILURE_FLOOR"
	REPUTATION_MIN_REPORTS_FOR_REWARD            = "REPUTATION_MIN_REPORTS_FOR_REWARD"
	REPUTATION_MIN_RELIABILITY_FOR_REWARD        = "REPUTATION_MIN_RELIABILITY_FOR_REWARD"
	REPUTATION_MIN_COMPLIANCE_FOR_REWARD         = "REPUTATION_MIN_COMPLIANCE_FOR_REWARD"

	LOGGER_FULL_LOG                 = "LOGGER_FULL_LOG"
	LOGGER_FILE_TRUNCATION_INTERVAL = "LOGGER_FILE_TRUNCATION_INTERVAL"
	METRICS_REPORT_INTERVAL         = "METRICS_REPORT_INTERVAL"
	NTP_ENDPOINT                    = "NTP_ENDPOINT"
	SYSTEM_METRICS_ENABLED          = "SYSTEM_METRICS_ENABLED"
	SHUTDOWN_GRACE_PERIOD           = "SHUTDOWN_GRACE_PERIOD"
)

// gigaKeys hold fixed-point values; config files spell them as decimals.
var gigaKeys = map[string]bool{
	REPUTATION_BASE_SCORE_INCREMENT:       true,
	REPUTATION_STREAK_STEP:                true,
	REPUTATION_MAX_ACCURACY_SCALING:       true,
	REPUTATION_MAX_STREAK_BONUS:           true,
	REPUTATION_FAILURE_STEP:               true,
	REPUTATION_MAX_DECREMENT_FACTOR:       true,
	REPUTATION_DECAY_RATE:                 true,
	REPUTATION_MAX_SCORE:                  true,
	REPUTATION_LOGISTIC_STEEPNESS:         true,
	REPUTATION_LOGISTIC_MIDPOINT:          true,
	REPUTATION_RELIABILITY_THRESHOLD:      true,
	REPUTATION_MIN_RELIABILITY_FOR_REWARD: true,
	REPUTATION_MIN_COMPLIANCE_FOR_REWARD:  true,
}

var uint64Keys = map[string]bool{
	ORACLE_BASE_REWARD_AMOUNT: true,
}

func emptyConfig() MutableOracleConfig {
	return &config{
		kv: make(map[string]NodeConfigValue),
	}
}

func (c *config) Set(key string, value NodeConfigValue) MutableOracleConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetDuration(key string, value time.Duration) MutableOracleConfig {
	c.kv[key] = NodeConfigValue{DurationValue: value}
	return c
}

func (c *config) SetUint32(key string, value uint32) MutableOracleConfig {
	c.kv[key] = NodeConfigValue{Uint32Value: value}
	return c
}

func (c *config) SetUint64(key string, value uint64) MutableOracleConfig {
	c.kv[key] = NodeConfigValue{Uint64Value: value}
	return c
}

func (c *config) SetGiga(key string, value fixedgiga.Giga) MutableOracleConfig {
	c.kv[key] = NodeConfigValue{GigaValue: value}
	return c
}

func (c *config) SetString(key string, value string) MutableOracleConfig {
	c.kv[key] = NodeConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) MutableOracleConfig {
	c.kv[key] = NodeConfigValue{BoolValue: value}
	return c
}

func (c *config) Modify(newValues ...NodeConfigKeyValue) MutableOracleConfig {
	for _, kv := range newValues {
		c.kv[kv.Key] = kv.Value
	}
	return c
}

func (c *config) OracleMinQuorum() uint32 {
	return c.kv[ORACLE_MIN_QUORUM].Uint32Value
}

func (c *config) OracleMaxWait() time.Duration {
	return c.kv[ORACLE_MAX_WAIT].DurationValue
}

func (c *config) OracleDataRetentionPeriod() time.Duration {
	return c.kv[ORACLE_DATA_RETENTION_PERIOD].DurationValue
}

func (c *config) OracleSubmissionCountRetentionPeriod() time.Duration {
	return c.kv[ORACLE_SUBMISSION_COUNT_RETENTION_PERIOD].DurationValue
}

func (c *config) OracleMaxSubmissionsPerTransaction() uint32 {
	return c.kv[ORACLE_MAX_SUBMISSIONS_PER_TRANSACTION].Uint32Value
}

func (c *config) OracleWeightMultiplier() uint32 {
	return c.kv[ORACLE_WEIGHT_MULTIPLIER].Uint32Value
}

func (c *config) OracleMaxTxIdLength() uint32 {
	return c.kv[ORACLE_MAX_TX_ID_LENGTH].Uint32Value
}

func (c *config) OracleRequireWatchedTransactions() bool {
	return c.kv[ORACLE_REQUIRE_WATCHED_TRANSACTIONS].BoolValue
}

func (c *config) OracleSweepInterval() time.Duration {
	return c.kv[ORACLE_SWEEP_INTERVAL].DurationValue
}

func (c *config) OracleContributorSubmissionRate() uint32 {
	return c.kv[ORACLE_CONTRIBUTOR_SUBMISSION_RATE].Uint32Value
}

func (c *config) OracleContributorSubmissionBurst() uint32 {
	return c.kv[ORACLE_CONTRIBUTOR_SUBMISSION_BURST].Uint32Value
}

func (c *config) OracleBaseRewardAmount() uint64 {
	return c.kv[ORACLE_BASE_REWARD_AMOUNT].Uint64Value
}

func (c *config) OracleRepositoryDir() string {
	return c.kv[ORACLE_REPOSITORY_DIR].StringValue
}

func (c *config) OracleRepositoryMaxContributors() uint32 {
	return c.kv[ORACLE_REPOSITORY_MAX_CONTRIBUTORS].Uint32Value
}

func (c *config) OracleRepositoryMaxTransactions() uint32 {
	return c.kv[ORACLE_REPOSITORY_MAX_TRANSACTIONS].Uint32Value
}

func (c *config) OracleRepositoryMaxTempReports() uint32 {
	return c.kv[ORACLE_REPOSITORY_MAX_TEMP_REPORTS].Uint32Value
}

func (c *config) ReputationBaseScoreIncrement() fixedgiga.Giga {
	return c.kv[REPUTATION_BASE_SCORE_INCREMENT].GigaValue
}

func (c *config) ReputationStreakStep() fixedgiga.Giga {
	return c.kv[REPUTATION_STREAK_STEP].GigaValue
}

func (c *config) ReputationMaxAccuracyScaling() fixedgiga.Giga {
	return c.kv[REPUTATION_MAX_ACCURACY_SCALING].GigaValue
}

func (c *config) ReputationMaxStreakBonus() fixedgiga.Giga {
	return c.kv[REPUTATION_MAX_STREAK_BONUS].GigaValue
}

func (c *config) ReputationFailureStep() fixedgiga.Giga {
	return c.kv[REPUTATION_FAILURE_STEP].GigaValue
}

func (c *config) ReputationMaxDecrementFactor() fixedgiga.Giga {
	return c.kv[REPUTATION_MAX_DECREMENT_FACTOR].GigaValue
}

func (c *config) ReputationTimeWeightHorizon() time.Duration {
	return c.kv[REPUTATION_TIME_WEIGHT_HORIZON].DurationValue
}

func (c *config) ReputationDecayRate() fixedgiga.Giga {
	return c.kv[REPUTATION_DECAY_RATE].GigaValue
}

func (c *config) ReputationDecayPeriod() time.Duration {
	return c.kv[REPUTATION_DECAY_PERIOD].DurationValue
}

func (c *config) ReputationMaxScore() fixedgiga.Giga {
	return c.kv[REPUTATION_MAX_SCORE].GigaValue
}

func (c *config) ReputationLogisticSteepness() fixedgiga.Giga {
	return c.kv[REPUTATION_LOGISTIC_STEEPNESS].GigaValue
}

func (c *config) ReputationLogisticMidpoint() fixedgiga.Giga {
	return c.kv[REPUTATION_LOGISTIC_MIDPOINT].GigaValue
}

func (c *config) ReputationReliabilityThreshold() fixedgiga.Giga {
	return c.kv[REPUTATION_RELIABILITY_THRESHOLD].GigaValue
}

func (c *config) ReputationRecentActivityWindow() time.Duration {
	return c.kv[REPUTATION_RECENT_ACTIVITY_WINDOW].DurationValue
}

func (c *config) ReputationTemporaryBanContributionsCap() uint32 {
	return c.kv[REPUTATION_TEMPORARY_BAN_CONTRIBUTIONS_CAP].Uint32Value
}

func (c *config) ReputationTemporaryBanFailureModulus() uint32 {
	return c.kv[REPUTATION_TEMPORARY_BAN_FAILURE_MODULUS].Uint32Value
}

func (c *config) ReputationTemporaryBanDuration() time.Duration {
	return c.kv[REPUTATION_TEMPORARY_BAN_DURATION].DurationValue
}

func (c *config) ReputationPermanentBanContributionsFloor() uint32 {
	return c.kv[REPUTATION_PERMANENT_BAN_CONTRIBUTIONS_FLOOR].Uint32Value
}

func (c *config) ReputationPermanentBanFailureFloor() uint32 {
	return c.kv[REPUTATION_PERMANENT_BAN_FAILURE_FLOOR].Uint32Value
}

func (c *config) ReputationMinReportsForReward() uint32 {
	return c.kv[REPUTATION_MIN_REPORTS_FOR_REWARD].Uint32Value
}

func (c *config) ReputationMinReliabilityForReward() fixedgiga.Giga {
	return c.kv[REPUTATION_MIN_RELIABILITY_FOR_REWARD].GigaValue
}

func (c *config) ReputationMinComplianceForReward() fixedgiga.Giga {
	return c.kv[REPUTATION_MIN_COMPLIANCE_FOR_REWARD].GigaValue
}

func (c *config) LoggerFullLog() bool {
	return c.kv[LOGGER_FULL_LOG].BoolValue
}

func (c *config) LoggerFileTruncationInterval() time.Duration {
	return c.kv[LOGGER_FILE_TRUNCATION_INTERVAL].DurationValue
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}

func (c *config) NTPEndpoint() string {
	return c.kv[NTP_ENDPOINT].StringValue
}

func (c *config) SystemMetricsEnabled() bool {
	return c.kv[SYSTEM_METRICS_ENABLED].BoolValue
}

func (c *config) ShutdownGracePeriod() time.Duration {
	return c.kv[SHUTDOWN_GRACE_PERIOD].DurationValue
}
