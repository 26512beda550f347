// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package hash

import (
	"encoding/hex"

	"github.com/orbs-network/tx-status-oracle/primitives"
	"golang.org/x/crypto/sha3"
)

const (
	SHA3_256_HASH_SIZE_BYTES = 32
	HASH_PREFIX_LENGTH       = 6
)

type Sha3_256 []byte

func (h Sha3_256) String() string {
	return hex.EncodeToString(h)
}

func CalcSha3_256(data ...[]byte) Sha3_256 {
	hasher := sha3.New256()
	for _, chunk := range data {
		hasher.Write(chunk)
	}
	return hasher.Sum(nil)
}

// Prefix returns the leading hex characters that contributors report for a transaction's content.
func (h Sha3_256) Prefix() primitives.HashPrefix {
	return primitives.HashPrefix(h.String()[:HASH_PREFIX_LENGTH])
}

func CalcHashPrefix(data ...[]byte) primitives.HashPrefix {
	return CalcSha3_256(data...).Prefix()
}
