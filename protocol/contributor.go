// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package protocol

import (
	"fmt"

	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/primitives"
)

type Contributor struct {
	Id                    primitives.ContributorId
	ComplianceScore       fixedgiga.Giga
	ReliabilityScore      fixedgiga.Giga
	LastActiveTimestamp   primitives.TimestampSeconds
	TotalReportsSubmitted uint64
	AccurateReportsCount  uint64
	CurrentStreak         uint64
	ConsensusFailures     uint64
	BanExpiry             primitives.TimestampSeconds
	// IsRecentlyActive records activity before the latest verdict. Quorum selection
	// recomputes activity from LastActiveTimestamp instead.
	IsRecentlyActive     bool
	IsReliable           bool
	IsEligibleForRewards bool
	RegisteredAt         primitives.TimestampSeconds
}

// NewContributor seeds neutral unit scores and zeroed counters.
func NewContributor(id primitives.ContributorId, now primitives.TimestampSeconds) *Contributor {
	return &Contributor{
		Id:                  id,
		ComplianceScore:     fixedgiga.One,
		ReliabilityScore:    fixedgiga.One,
		LastActiveTimestamp: now,
		RegisteredAt:        now,
	}
}

// IsBanned is true strictly before the ban expiry.
func (c *Contributor) IsBanned(now primitives.TimestampSeconds) bool {
	return now < c.BanExpiry
}

func (c *Contributor) IsPermanentlyBanned() bool {
	return c.BanExpiry == primitives.PermanentBan
}

func (c *Contributor) Clone() *Contributor {
	clone := *c
	return &clone
}

func (c *Contributor) String() string {
	return fmt.Sprintf("{id:%s,compliance:%s,reliability:%s,total:%d,accurate:%d,streak:%d,failures:%d,banExpiry:%s}",
		c.Id, c.ComplianceScore, c.ReliabilityScore, c.TotalReportsSubmitted, c.AccurateReportsCount, c.CurrentStreak, c.ConsensusFailures, c.BanExpiry)
}
