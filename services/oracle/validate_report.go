// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"strings"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/crypto/hash"
	"github.com/orbs-network/tx-status-oracle/instrumentation/logfields"
	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/protocol"
)

const DefaultMaxTxIdLength = 64

type validationContext struct {
	maxTxIdLength int
}

// ValidateReport checks the shape of a report using the default txid length limit.
func ValidateReport(report *protocol.StatusReport) *ErrReportRejected {
	return (&validationContext{maxTxIdLength: DefaultMaxTxIdLength}).validateReport(report)
}

func (c *validationContext) validateReport(report *protocol.StatusReport) *ErrReportRejected {
	if err := c.validateTxId(report.TxId); err != nil {
		return err
	}
	if err := c.validateTxStatus(report); err != nil {
		return err
	}
	if err := c.validateTicketType(report); err != nil {
		return err
	}
	if err := c.validateHashPrefix(report); err != nil {
		return err
	}
	return nil
}

func (c *validationContext) validateTxId(txId primitives.TxId) *ErrReportRejected {
	if strings.TrimSpace(string(txId)) == "" {
		return reject(InvalidTxId, logfields.TxId(txId))
	}
	if len(txId) > c.maxTxIdLength {
		return reject(TxIdTooLong, log.Int("length", len(txId)), log.Int("max-length", c.maxTxIdLength))
	}
	return nil
}

func (c *validationContext) validateTxStatus(report *protocol.StatusReport) *ErrReportRejected {
	if !report.Status.IsValid() {
		return reject(InvalidTxStatus, logfields.TxId(report.TxId), log.Uint64("tx-status", uint64(report.Status)))
	}
	return nil
}

func (c *validationContext) validateTicketType(report *protocol.StatusReport) *ErrReportRejected {
	if report.TicketType == "" {
		return reject(MissingTicketType, logfields.TxId(report.TxId))
	}
	return nil
}

func (c *validationContext) validateHashPrefix(report *protocol.StatusReport) *ErrReportRejected {
	if report.HashPrefix == "" {
		return reject(MissingHash, logfields.TxId(report.TxId))
	}
	if len(report.HashPrefix) != hash.HASH_PREFIX_LENGTH || !isHex(string(report.HashPrefix)) {
		return reject(InvalidHashLength, logfields.TxId(report.TxId), logfields.HashPrefix(report.HashPrefix))
	}
	return nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
