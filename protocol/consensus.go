// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package protocol

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/primitives"
)

type HashWeight struct {
	HashPrefix primitives.HashPrefix
	Weight     uint64
}

// AggregatedConsensusData holds the weighted tallies of one unresolved transaction.
// HashWeights keeps first-seen order.
type AggregatedConsensusData struct {
	TxId          primitives.TxId
	StatusWeights [primitives.NUM_TX_STATUSES]uint64
	HashWeights   []HashWeight
	LastUpdated   primitives.TimestampSeconds
}

func (a *AggregatedConsensusData) Clone() *AggregatedConsensusData {
	clone := *a
	clone.HashWeights = append([]HashWeight(nil), a.HashWeights...)
	return &clone
}

type SubmissionCount struct {
	TxId        primitives.TxId
	Count       uint32
	LastUpdated primitives.TimestampSeconds
	Resolved    bool
}

func (s *SubmissionCount) Clone() *SubmissionCount {
	clone := *s
	return &clone
}

// ConsensusResult is published once per resolved transaction.
type ConsensusResult struct {
	ResolutionId     uuid.UUID
	TxId             primitives.TxId
	Status           primitives.TxStatus
	HashPrefix       primitives.HashPrefix
	ContributorCount uint32
	ResolvedAt       primitives.TimestampSeconds
}

func (r *ConsensusResult) String() string {
	return fmt.Sprintf("{resolution:%s,txId:%s,status:%s,hash:%s,contributors:%d}", r.ResolutionId, r.TxId, r.Status, r.HashPrefix, r.ContributorCount)
}

// ContributorUpdate is published for every contributor scored by a resolution.
type ContributorUpdate struct {
	Id                   primitives.ContributorId
	TxId                 primitives.TxId
	Accurate             bool
	ComplianceScore      fixedgiga.Giga
	ReliabilityScore     fixedgiga.Giga
	CurrentStreak        uint64
	BanExpiry            primitives.TimestampSeconds
	IsRecentlyActive     bool
	IsReliable           bool
	IsEligibleForRewards bool
}

func NewContributorUpdate(c *Contributor, txId primitives.TxId, accurate bool) *ContributorUpdate {
	return &ContributorUpdate{
		Id:                   c.Id,
		TxId:                 txId,
		Accurate:             accurate,
		ComplianceScore:      c.ComplianceScore,
		ReliabilityScore:     c.ReliabilityScore,
		CurrentStreak:        c.CurrentStreak,
		BanExpiry:            c.BanExpiry,
		IsRecentlyActive:     c.IsRecentlyActive,
		IsReliable:           c.IsReliable,
		IsEligibleForRewards: c.IsEligibleForRewards,
	}
}
