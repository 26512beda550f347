// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package leveldb

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
	"github.com/pkg/errors"
)

// rlp has no booleans; flags are packed into a bitfield
const (
	flagRecentlyActive uint64 = 1 << iota
	flagReliable
	flagEligibleForRewards
)

const flagResolved uint64 = 1

type contributorRecord struct {
	Id                    string
	ComplianceScore       uint64
	ReliabilityScore      uint64
	LastActiveTimestamp   uint64
	TotalReportsSubmitted uint64
	AccurateReportsCount  uint64
	CurrentStreak         uint64
	ConsensusFailures     uint64
	BanExpiry             uint64
	Flags                 uint64
	RegisteredAt          uint64
}

type hashWeightRecord struct {
	HashPrefix string
	Weight     uint64
}

type aggregateRecord struct {
	TxId          string
	StatusWeights []uint64
	HashWeights   []hashWeightRecord
	LastUpdated   uint64
}

type submissionCountRecord struct {
	TxId        string
	Count       uint64
	LastUpdated uint64
	Flags       uint64
}

type tempReportRecord struct {
	TxId          string
	ContributorId string
	Status        uint64
	HashPrefix    string
	Timestamp     uint64
	ReceivedAt    uint64
	Sequence      uint64
}

type watchedRecord struct {
	TxId         string
	WatchedSince uint64
}

func setFlag(flags uint64, flag uint64, on bool) uint64 {
	if on {
		return flags | flag
	}
	return flags
}

func encodeContributor(c *protocol.Contributor) ([]byte, error) {
	var flags uint64
	flags = setFlag(flags, flagRecentlyActive, c.IsRecentlyActive)
	flags = setFlag(flags, flagReliable, c.IsReliable)
	flags = setFlag(flags, flagEligibleForRewards, c.IsEligibleForRewards)

	return rlp.EncodeToBytes(&contributorRecord{
		Id:                    string(c.Id),
		ComplianceScore:       uint64(c.ComplianceScore),
		ReliabilityScore:      uint64(c.ReliabilityScore),
		LastActiveTimestamp:   uint64(c.LastActiveTimestamp),
		TotalReportsSubmitted: c.TotalReportsSubmitted,
		AccurateReportsCount:  c.AccurateReportsCount,
		CurrentStreak:         c.CurrentStreak,
		ConsensusFailures:     c.ConsensusFailures,
		BanExpiry:             uint64(c.BanExpiry),
		Flags:                 flags,
		RegisteredAt:          uint64(c.RegisteredAt),
	})
}

func decodeContributor(data []byte) (*protocol.Contributor, error) {
	var r contributorRecord
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed decoding contributor")
	}
	return &protocol.Contributor{
		Id:                    primitives.ContributorId(r.Id),
		ComplianceScore:       fixedgiga.Giga(r.ComplianceScore),
		ReliabilityScore:      fixedgiga.Giga(r.ReliabilityScore),
		LastActiveTimestamp:   primitives.TimestampSeconds(r.LastActiveTimestamp),
		TotalReportsSubmitted: r.TotalReportsSubmitted,
		AccurateReportsCount:  r.AccurateReportsCount,
		CurrentStreak:         r.CurrentStreak,
		ConsensusFailures:     r.ConsensusFailures,
		BanExpiry:             primitives.TimestampSeconds(r.BanExpiry),
		IsRecentlyActive:      r.Flags&flagRecentlyActive != 0,
		IsReliable:            r.Flags&flagReliable != 0,
		IsEligibleForRewards:  r.Flags&flagEligibleForRewards != 0,
		RegisteredAt:          primitives.TimestampSeconds(r.RegisteredAt),
	}, nil
}

func encodeAggregate(a *protocol.AggregatedConsensusData) ([]byte, error) {
	r := &aggregateRecord{
		TxId:          string(a.TxId),
		StatusWeights: a.StatusWeights[:],
		HashWeights:   make([]hashWeightRecord, len(a.HashWeights)),
		LastUpdated:   uint64(a.LastUpdated),
	}
	for i, hw := range a.HashWeights {
		r.HashWeights[i] = hashWeightRecord{HashPrefix: string(hw.HashPrefix), Weight: hw.Weight}
	}
	return rlp.EncodeToBytes(r)
}

func decodeAggregate(data []byte) (*protocol.AggregatedConsensusData, error) {
	var r aggregateRecord
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed decoding aggregate")
	}
	if len(r.StatusWeights) != primitives.NUM_TX_STATUSES {
		return nil, errors.Errorf("aggregate of %s holds %d status weights", r.TxId, len(r.StatusWeights))
	}

	a := &protocol.AggregatedConsensusData{
		TxId:        primitives.TxId(r.TxId),
		LastUpdated: primitives.TimestampSeconds(r.LastUpdated),
	}
	copy(a.StatusWeights[:], r.StatusWeights)
	for _, hw := range r.HashWeights {
		a.HashWeights = append(a.HashWeights, protocol.HashWeight{HashPrefix: primitives.HashPrefix(hw.HashPrefix), Weight: hw.Weight})
	}
	return a, nil
}

func encodeSubmissionCount(c *protocol.SubmissionCount) ([]byte, error) {
	return rlp.EncodeToBytes(&submissionCountRecord{
		TxId:        string(c.TxId),
		Count:       uint64(c.Count),
		LastUpdated: uint64(c.LastUpdated),
		Flags:       setFlag(0, flagResolved, c.Resolved),
	})
}

func decodeSubmissionCount(data []byte) (*protocol.SubmissionCount, error) {
	var r submissionCountRecord
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed decoding submission count")
	}
	return &protocol.SubmissionCount{
		TxId:        primitives.TxId(r.TxId),
		Count:       uint32(r.Count),
		LastUpdated: primitives.TimestampSeconds(r.LastUpdated),
		Resolved:    r.Flags&flagResolved != 0,
	}, nil
}

func encodeTempReport(t *protocol.TempReport) ([]byte, error) {
	return rlp.EncodeToBytes(&tempReportRecord{
		TxId:          string(t.TxId),
		ContributorId: string(t.ContributorId),
		Status:        uint64(t.Status),
		HashPrefix:    string(t.HashPrefix),
		Timestamp:     uint64(t.Timestamp),
		ReceivedAt:    uint64(t.ReceivedAt),
		Sequence:      t.Sequence,
	})
}

func decodeTempReport(data []byte) (*protocol.TempReport, error) {
	var r tempReportRecord
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed decoding temp report")
	}
	return &protocol.TempReport{
		TxId:          primitives.TxId(r.TxId),
		ContributorId: primitives.ContributorId(r.ContributorId),
		Status:        primitives.TxStatus(r.Status),
		HashPrefix:    primitives.HashPrefix(r.HashPrefix),
		Timestamp:     primitives.TimestampSeconds(r.Timestamp),
		ReceivedAt:    primitives.TimestampSeconds(r.ReceivedAt),
		Sequence:      r.Sequence,
	}, nil
}

func encodeWatched(w *protocol.WatchedTransaction) ([]byte, error) {
	return rlp.EncodeToBytes(&watchedRecord{
		TxId:         string(w.TxId),
		WatchedSince: uint64(w.WatchedSince),
	})
}

func decodeWatched(data []byte) (*protocol.WatchedTransaction, error) {
	var r watchedRecord
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed decoding watched transaction")
	}
	return &protocol.WatchedTransaction{
		TxId:         primitives.TxId(r.TxId),
		WatchedSince: primitives.TimestampSeconds(r.WatchedSince),
	}, nil
}
