// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package protocol

import (
	"fmt"

	"github.com/orbs-network/tx-status-oracle/primitives"
)

// StatusReport is what a single contributor observed about a transaction.
type StatusReport struct {
	TxId          primitives.TxId
	Status        primitives.TxStatus
	TicketType    string
	HashPrefix    primitives.HashPrefix
	Timestamp     primitives.TimestampSeconds
	ContributorId primitives.ContributorId
}

func (r *StatusReport) String() string {
	return fmt.Sprintf("{txId:%s,status:%s,ticketType:%s,hash:%s,timestamp:%s,contributor:%s}",
		r.TxId, r.Status, r.TicketType, r.HashPrefix, r.Timestamp, r.ContributorId)
}

// TempReport is an accepted report kept until its transaction resolves.
type TempReport struct {
	TxId          primitives.TxId
	ContributorId primitives.ContributorId
	Status        primitives.TxStatus
	HashPrefix    primitives.HashPrefix
	Timestamp     primitives.TimestampSeconds
	ReceivedAt    primitives.TimestampSeconds
	Sequence      uint64
}

func NewTempReport(report *StatusReport, receivedAt primitives.TimestampSeconds) *TempReport {
	return &TempReport{
		TxId:          report.TxId,
		ContributorId: report.ContributorId,
		Status:        report.Status,
		HashPrefix:    report.HashPrefix,
		Timestamp:     report.Timestamp,
		ReceivedAt:    receivedAt,
	}
}

func (r *TempReport) Clone() *TempReport {
	c := *r
	return &c
}

type WatchedTransaction struct {
	TxId         primitives.TxId
	WatchedSince primitives.TimestampSeconds
}

func (w *WatchedTransaction) Clone() *WatchedTransaction {
	c := *w
	return &c
}
