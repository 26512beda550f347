// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"sync"
	"time"

	"github.com/orbs-network/tx-status-oracle/primitives"
	"golang.org/x/time/rate"
)

// contributorLimiters grants each contributor its own token bucket. A zero rate disables limiting.
type contributorLimiters struct {
	sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[primitives.ContributorId]*rate.Limiter
}

func newContributorLimiters(perSecond uint32, burst uint32) *contributorLimiters {
	return &contributorLimiters{
		limit:    rate.Limit(perSecond),
		burst:    int(burst),
		limiters: make(map[primitives.ContributorId]*rate.Limiter),
	}
}

func (l *contributorLimiters) allow(id primitives.ContributorId, now time.Time) bool {
	if l.limit == 0 {
		return true
	}

	l.Lock()
	limiter, ok := l.limiters[id]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[id] = limiter
	}
	l.Unlock()

	return limiter.AllowN(now, 1)
}

func (l *contributorLimiters) forget(id primitives.ContributorId) {
	l.Lock()
	defer l.Unlock()
	delete(l.limiters, id)
}
