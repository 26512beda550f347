// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

type validator struct {
	logger log.Logger
}

func NewValidator(logger log.Logger) *validator {
	return &validator{logger: logger}
}

// Validate logs and panics on the first violated constraint; a node must not start with such a config.
func (v *validator) Validate(cfg OracleConfig) {
	if err := Validate(cfg); err != nil {
		v.logger.Error("invalid configuration", log.Error(err))
		panic(err.Error())
	}
}

func Validate(cfg OracleConfig) error {
	checks := []error{
		requirePositive(cfg.OracleMinQuorum, "quorum below one would resolve transactions without reports"),
		requirePositive(cfg.OracleMaxSubmissionsPerTransaction, "at least one submission per transaction is required"),
		requirePositive(cfg.OracleWeightMultiplier, "weight multiplier must be positive"),
		requirePositive(cfg.OracleMaxTxIdLength, "tx id length limit must be positive"),
		requirePositive(cfg.ReputationTemporaryBanFailureModulus, "temporary ban failure modulus must be positive"),
		requireDurationPositive(cfg.OracleMaxWait, "max wait must be positive"),
		requireDurationPositive(cfg.ReputationDecayPeriod, "decay period must be positive"),
		requireDurationPositive(cfg.ReputationTimeWeightHorizon, "time weight horizon must be positive"),
		requireGT(cfg.OracleDataRetentionPeriod, cfg.OracleMaxWait, "data retention must not be shorter than max wait"),
		requireGT(cfg.OracleSubmissionCountRetentionPeriod, cfg.OracleMaxWait, "submission count retention must not be shorter than max wait"),
		requireSweepBelowMaxWait(cfg),
		requireBurstWhenRateLimited(cfg),
	}

	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func requirePositive(f func() uint32, msg string) error {
	if f() == 0 {
		return errors.Errorf("%s: %s is 0", msg, funcName(f))
	}
	return nil
}

func requireDurationPositive(f func() time.Duration, msg string) error {
	if f() <= 0 {
		return errors.Errorf("%s: %s is %s", msg, funcName(f), f())
	}
	return nil
}

func requireGT(d1 func() time.Duration, d2 func() time.Duration, msg string) error {
	if d1() < d2() {
		return errors.Errorf("%s: %s=%s, %s=%s", msg, funcName(d1), d1(), funcName(d2), d2())
	}
	return nil
}

// a zero interval disables the sweeper
func requireSweepBelowMaxWait(cfg OracleConfig) error {
	if cfg.OracleSweepInterval() > 0 && cfg.OracleSweepInterval() >= cfg.OracleMaxWait() {
		return errors.Errorf("sweep interval %s must be shorter than max wait %s", cfg.OracleSweepInterval(), cfg.OracleMaxWait())
	}
	return nil
}

func requireBurstWhenRateLimited(cfg OracleConfig) error {
	if cfg.OracleContributorSubmissionRate() > 0 && cfg.OracleContributorSubmissionBurst() == 0 {
		return errors.New("submission burst must be positive when a submission rate is set")
	}
	return nil
}

func funcName(i interface{}) string {
	fullName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	lastDot := strings.LastIndex(fullName, ".")
	return strings.TrimSuffix(fullName[lastDot+1:], "-fm")
}
