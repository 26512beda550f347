// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"time"
)

const EVENTUALLY_TIMEOUT = time.Second
const pollInterval = 5 * time.Millisecond

// Eventually polls f until it holds or EVENTUALLY_TIMEOUT passes.
func Eventually(f func() bool) bool {
	return EventuallyWithin(EVENTUALLY_TIMEOUT, f)
}

func EventuallyWithin(timeout time.Duration, f func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if f() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}
