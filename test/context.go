// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"time"

	"github.com/orbs-network/govnr"
)

const shutdownTimeout = 5 * time.Second

type gracefulShutdowner interface {
	govnr.ShutdownWaiter
	GracefulShutdown(shutdownContext context.Context)
}

func WithContext(f func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f(ctx)
}

// WithContextAndShutdown shuts s down and waits for its supervised goroutines once f returns.
func WithContextAndShutdown(s gracefulShutdowner, f func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	defer shutdown(s)
	defer cancel()
	f(ctx)
}

func shutdown(s gracefulShutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.GracefulShutdown(ctx)
	s.WaitUntilShutdown(ctx)
}
