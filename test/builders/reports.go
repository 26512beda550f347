// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package builders

import (
	"github.com/orbs-network/tx-status-oracle/crypto/hash"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
)

// protocol.StatusReport

type ReportBuilder struct {
	report *protocol.StatusReport
}

func StatusReport() *ReportBuilder {
	return &ReportBuilder{
		report: &protocol.StatusReport{
			TxId:          "f5a2c3e4b1d09876",
			Status:        primitives.TX_STATUS_MINED_ACTIVATED,
			TicketType:    "sense",
			HashPrefix:    hash.CalcHashPrefix([]byte("file contents")),
			Timestamp:     1600000000,
			ContributorId: "alice",
		},
	}
}

func (r *ReportBuilder) Build() *protocol.StatusReport {
	built := *r.report
	return &built
}

func (r *ReportBuilder) WithTxId(txId primitives.TxId) *ReportBuilder {
	r.report.TxId = txId
	return r
}

func (r *ReportBuilder) WithStatus(status primitives.TxStatus) *ReportBuilder {
	r.report.Status = status
	return r
}

func (r *ReportBuilder) WithTicketType(ticketType string) *ReportBuilder {
	r.report.TicketType = ticketType
	return r
}

func (r *ReportBuilder) WithHashPrefix(prefix primitives.HashPrefix) *ReportBuilder {
	r.report.HashPrefix = prefix
	return r
}

// WithContent sets the hash prefix to the one of the given file contents.
func (r *ReportBuilder) WithContent(content string) *ReportBuilder {
	r.report.HashPrefix = hash.CalcHashPrefix([]byte(content))
	return r
}

func (r *ReportBuilder) WithTimestamp(timestamp primitives.TimestampSeconds) *ReportBuilder {
	r.report.Timestamp = timestamp
	return r
}

func (r *ReportBuilder) From(id primitives.ContributorId) *ReportBuilder {
	r.report.ContributorId = id
	return r
}
