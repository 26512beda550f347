// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package logfields

import (
	"context"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/orbs-network/tx-status-oracle/primitives"
)

// ConsensusFlow tags the log lines of consensus resolution; they stay visible when only errors are logged.
var ConsensusFlow = log.String("flow", "consensus")

func TxId(txId primitives.TxId) *log.Field {
	return log.String("tx-id", string(txId))
}

func Contributor(id primitives.ContributorId) *log.Field {
	return log.String("contributor", string(id))
}

func TxStatus(status primitives.TxStatus) *log.Field {
	return log.Stringable("tx-status", status)
}

func HashPrefix(hash primitives.HashPrefix) *log.Field {
	return log.String("hash-prefix", string(hash))
}

func Timestamp(key string, value primitives.TimestampSeconds) *log.Field {
	return log.Uint64(key, uint64(value))
}

func Giga(key string, value fixedgiga.Giga) *log.Field {
	return log.Stringable(key, value)
}

func ContextStringValue(ctx context.Context, key string) *log.Field {
	val := "not-found-in-context"
	if v := ctx.Value(key); v != nil {
		if vString, ok := v.(string); ok {
			val = vString
		} else {
			val = "found-in-context-but-not-string"
		}
	}
	return log.String(key, val)
}
