// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package primitives

// TxStatus ordinals define the tie break order of consensus: lower wins.
type TxStatus uint8

const (
	TX_STATUS_INVALID TxStatus = iota
	TX_STATUS_PENDING_MINING
	TX_STATUS_MINED_PENDING_ACTIVATION
	TX_STATUS_MINED_ACTIVATED
)

const NUM_TX_STATUSES = 4

var AllTxStatuses = [NUM_TX_STATUSES]TxStatus{
	TX_STATUS_INVALID,
	TX_STATUS_PENDING_MINING,
	TX_STATUS_MINED_PENDING_ACTIVATION,
	TX_STATUS_MINED_ACTIVATED,
}

func (s TxStatus) IsValid() bool {
	return s < NUM_TX_STATUSES
}

func (s TxStatus) String() string {
	switch s {
	case TX_STATUS_INVALID:
		return "INVALID"
	case TX_STATUS_PENDING_MINING:
		return "PENDING_MINING"
	case TX_STATUS_MINED_PENDING_ACTIVATION:
		return "MINED_PENDING_ACTIVATION"
	case TX_STATUS_MINED_ACTIVATED:
		return "MINED_ACTIVATED"
	}
	return "UNKNOWN"
}
