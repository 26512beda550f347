// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package primitives

import (
	"fmt"
	"math"
	"time"
)

type TxId string

func (x TxId) String() string {
	return string(x)
}

type ContributorId string

func (x ContributorId) String() string {
	return string(x)
}

// HashPrefix holds the first six hex characters of a transaction content hash.
type HashPrefix string

func (x HashPrefix) String() string {
	return string(x)
}

type TimestampSeconds uint64

// PermanentBan is the ban expiry of a contributor that will never be scored again.
const PermanentBan = TimestampSeconds(math.MaxUint64)

func ToTimestampSeconds(t time.Time) TimestampSeconds {
	return TimestampSeconds(t.Unix())
}

func (x TimestampSeconds) Add(d time.Duration) TimestampSeconds {
	sum := x + TimestampSeconds(d/time.Second)
	if sum < x {
		return PermanentBan
	}
	return sum
}

// Since returns zero when other lies in the future of x.
func (x TimestampSeconds) Since(other TimestampSeconds) time.Duration {
	if other >= x {
		return 0
	}
	return time.Duration(x-other) * time.Second
}

func (x TimestampSeconds) String() string {
	if x == PermanentBan {
		return "forever"
	}
	return fmt.Sprintf("%d", uint64(x))
}
