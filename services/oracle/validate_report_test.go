// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"strings"
	"testing"

	"github.com/orbs-network/tx-status-oracle/primitives"
	"github.com/orbs-network/tx-status-oracle/test/builders"
	"github.com/stretchr/testify/require"
)

func TestValidateReport_AcceptsWellFormedReport(t *testing.T) {
	require.Nil(t, ValidateReport(builders.StatusReport().Build()))
}

func TestValidateReport_AcceptsUppercaseHashPrefix(t *testing.T) {
	report := builders.StatusReport().Build()
	report.HashPrefix = primitives.HashPrefix(strings.ToUpper(string(report.HashPrefix)))
	require.Nil(t, ValidateReport(report))
}

func TestValidateReport_RejectsMalformedReports(t *testing.T) {
	validPrefix := builders.StatusReport().Build().HashPrefix

	tests := []struct {
		name     string
		report   *builders.ReportBuilder
		expected RejectionReason
	}{
		{"empty tx id", builders.StatusReport().WithTxId(""), InvalidTxId},
		{"blank tx id", builders.StatusReport().WithTxId(" \t"), InvalidTxId},
		{"tx id too long", builders.StatusReport().WithTxId(primitives.TxId(strings.Repeat("a", DefaultMaxTxIdLength+1))), TxIdTooLong},
		{"unknown status", builders.StatusReport().WithStatus(primitives.NUM_TX_STATUSES), InvalidTxStatus},
		{"missing ticket type", builders.StatusReport().WithTicketType(""), MissingTicketType},
		{"missing hash", builders.StatusReport().WithHashPrefix(""), MissingHash},
		{"short hash", builders.StatusReport().WithHashPrefix(validPrefix[1:]), InvalidHashLength},
		{"long hash", builders.StatusReport().WithHashPrefix(validPrefix + "0"), InvalidHashLength},
		{"non hex hash", builders.StatusReport().WithHashPrefix("z" + validPrefix[1:]), InvalidHashLength},
	}
	for i := range tests {
		cTest := tests[i]
		t.Run(cTest.name, func(t *testing.T) {
			err := ValidateReport(cTest.report.Build())
			require.NotNil(t, err)
			require.Equal(t, cTest.expected, err.Reason)
			require.Equal(t, ValidationError, err.Kind())
		})
	}
}

func TestValidateReport_TxIdAtLengthLimitIsAccepted(t *testing.T) {
	report := builders.StatusReport().WithTxId(primitives.TxId(strings.Repeat("a", DefaultMaxTxIdLength))).Build()
	require.Nil(t, ValidateReport(report))
}
