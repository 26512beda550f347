// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package reputation

import (
	"time"

	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/pkg/errors"
)

const secondsPerHour = 3600

type Config interface {
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
}

// Engine scores contributors after each consensus resolution. All arithmetic is fixed-point,
// so two engines with the same config produce bit-identical contributors.
type Engine struct {
	config Config
}

func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// IsRecentlyActive reports whether c was scored within the recent activity window before now.
func (e *Engine) IsRecentlyActive(c *protocol.Contributor, now primitives.TimestampSeconds) bool {
	return now.Since(c.LastActiveTimestamp) < e.config.ReputationRecentActivityWindow()
}

// Update returns the contributor after one verdict. The given contributor is left untouched;
// an arithmetic overflow fails the whole update.
func (e *Engine) Update(c *protocol.Contributor, accurate bool, now primitives.TimestampSeconds) (*protocol.Contributor, error) {
	updated := c.Clone()
	if err := e.score(updated, accurate, now); err != nil {
		return nil, errors.Wrapf(err, "failed scoring contributor %s", c.Id)
	}
	return updated, nil
}

func (e *Engine) score(c *protocol.Contributor, accurate bool, now primitives.TimestampSeconds) error {
	cfg := e.config

	hoursInactive, err := hoursBetween(c.LastActiveTimestamp, now)
	if err != nil {
		return err
	}
	timeWeight, err := e.timeWeight(hoursInactive)
	if err != nil {
		return err
	}
	decayFactor, err := e.decayFactor(hoursInactive)
	if err != nil {
		return err
	}
	wasRecentlyActive := e.IsRecentlyActive(c, now)

	compliance := c.ComplianceScore
	if accurate {
		accuracyScaling, err := fixedgiga.Add(fixedgiga.One, cappedProduct(c.CurrentStreak, cfg.ReputationStreakStep(), cfg.ReputationMaxAccuracyScaling()))
		if err != nil {
			return err
		}
		accuracyScaling = fixedgiga.Min(accuracyScaling, cfg.ReputationMaxAccuracyScaling())

		increment, err := fixedgiga.MulDown(cfg.ReputationBaseScoreIncrement(), accuracyScaling)
		if err != nil {
			return err
		}
		if increment, err = fixedgiga.MulDown(increment, timeWeight); err != nil {
			return err
		}
		streakBonus := cappedProduct(c.CurrentStreak, cfg.ReputationStreakStep(), cfg.ReputationMaxStreakBonus())

		if compliance, err = fixedgiga.Add(compliance, increment); err != nil {
			return err
		}
		if compliance, err = fixedgiga.Add(compliance, streakBonus); err != nil {
			return err
		}
		c.CurrentStreak++
		c.AccurateReportsCount++
	} else {
		decrementFactor, err := fixedgiga.Add(fixedgiga.One, cappedProduct(c.ConsensusFailures, cfg.ReputationFailureStep(), cfg.ReputationMaxDecrementFactor()))
		if err != nil {
			return err
		}
		decrementFactor = fixedgiga.Min(decrementFactor, cfg.ReputationMaxDecrementFactor())

		decrement, err := fixedgiga.MulUp(cfg.ReputationBaseScoreIncrement(), decrementFactor)
		if err != nil {
			return err
		}
		compliance = fixedgiga.SaturatingSub(compliance, decrement)
		c.CurrentStreak = 0
		c.ConsensusFailures++
	}
	c.TotalReportsSubmitted++

	if compliance, err = fixedgiga.MulUp(compliance, decayFactor); err != nil {
		return err
	}

	reliabilityFactor, err := ratio(c.AccurateReportsCount, c.TotalReportsSubmitted)
	if err != nil {
		return err
	}
	if compliance, err = fixedgiga.MulDown(compliance, reliabilityFactor); err != nil {
		return err
	}
	compliance = fixedgiga.Min(compliance, cfg.ReputationMaxScore())

	if compliance, err = fixedgiga.LogisticScale(compliance, cfg.ReputationMaxScore(), cfg.ReputationLogisticSteepness(), cfg.ReputationLogisticMidpoint()); err != nil {
		return err
	}
	c.ComplianceScore = compliance
	// reliabilityFactor <= One, so scaling by 100 always fits
	c.ReliabilityScore = reliabilityFactor * 100

	if !accurate {
		e.evaluateBan(c, now)
	}

	c.IsRecentlyActive = wasRecentlyActive
	c.IsReliable = reliabilityFactor >= cfg.ReputationReliabilityThreshold()
	c.IsEligibleForRewards = c.TotalReportsSubmitted >= uint64(cfg.ReputationMinReportsForReward()) &&
		c.ReliabilityScore >= cfg.ReputationMinReliabilityForReward() &&
		c.ComplianceScore >= cfg.ReputationMinComplianceForReward()
	c.LastActiveTimestamp = now

	return nil
}

func (e *Engine) evaluateBan(c *protocol.Contributor, now primitives.TimestampSeconds) {
	cfg := e.config
	if c.TotalReportsSubmitted <= uint64(cfg.ReputationTemporaryBanContributionsCap()) &&
		c.ConsensusFailures%uint64(cfg.ReputationTemporaryBanFailureModulus()) == 0 {
		c.BanExpiry = now.Add(cfg.ReputationTemporaryBanDuration())
	} else if c.TotalReportsSubmitted >= uint64(cfg.ReputationPermanentBanContributionsFloor()) &&
		c.ConsensusFailures >= uint64(cfg.ReputationPermanentBanFailureFloor()) {
		c.BanExpiry = primitives.PermanentBan
	}
}

// time_weight = 1 / (1 + hours/horizon)
func (e *Engine) timeWeight(hours fixedgiga.Giga) (fixedgiga.Giga, error) {
	horizon, err := durationInHours(e.config.ReputationTimeWeightHorizon())
	if err != nil {
		return 0, err
	}
	elapsed, err := fixedgiga.DivUp(hours, horizon)
	if err != nil {
		return 0, err
	}
	denominator, err := fixedgiga.Add(fixedgiga.One, elapsed)
	if err != nil {
		return 0, err
	}
	return fixedgiga.DivUp(fixedgiga.One, denominator)
}

// decay_factor = rate ^ (hours/period)
func (e *Engine) decayFactor(hours fixedgiga.Giga) (fixedgiga.Giga, error) {
	period, err := durationInHours(e.config.ReputationDecayPeriod())
	if err != nil {
		return 0, err
	}
	periods, err := fixedgiga.DivUp(hours, period)
	if err != nil {
		return 0, err
	}
	return fixedgiga.PowUp(e.config.ReputationDecayRate(), periods)
}

func hoursBetween(from primitives.TimestampSeconds, to primitives.TimestampSeconds) (fixedgiga.Giga, error) {
	seconds := uint64(to.Since(from) / time.Second)
	hours, err := fixedgiga.CheckedMulDivUp(seconds, uint64(fixedgiga.One), secondsPerHour)
	return fixedgiga.Giga(hours), err
}

func durationInHours(d time.Duration) (fixedgiga.Giga, error) {
	if d <= 0 {
		return 0, errors.Errorf("duration %s must be positive", d)
	}
	hours, err := fixedgiga.CheckedMulDivDown(uint64(d/time.Second), uint64(fixedgiga.One), secondsPerHour)
	if err == nil && hours == 0 {
		return 0, errors.Errorf("duration %s is shorter than the scoring resolution", d)
	}
	return fixedgiga.Giga(hours), err
}

// cappedProduct returns min(count*step, cap) without overflowing on huge counts
func cappedProduct(count uint64, step fixedgiga.Giga, cap fixedgiga.Giga) fixedgiga.Giga {
	product, err := fixedgiga.CheckedMulDivDown(count, uint64(step), 1)
	if err != nil {
		return cap
	}
	return fixedgiga.Min(fixedgiga.Giga(product), cap)
}

// ratio returns clamp(numerator/denominator, 0, 1) rounded down
func ratio(numerator uint64, denominator uint64) (fixedgiga.Giga, error) {
	if denominator == 0 {
		return 0, nil
	}
	r, err := fixedgiga.CheckedMulDivDown(numerator, uint64(fixedgiga.One), denominator)
	if err != nil {
		return 0, err
	}
	return fixedgiga.Clamp(fixedgiga.Giga(r), 0, fixedgiga.One), nil
}
