// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"flag"
	"os"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/bootstrap"
	"github.com/orbs-network/tx-status-oracle/config"
	"github.com/orbs-network/tx-status-oracle/instrumentation"
	"github.com/orbs-network/tx-status-oracle/services/ledger/adapter/memory"
	"github.com/orbs-network/tx-status-oracle/synchronization"
	"github.com/pkg/errors"
)

func main() {
	logger := instrumentation.GetBootstrapCrashLogger()
	var node *bootstrap.Node
	func() { // context of bootstrap crash logging
		defer func() {
			if r := recover(); r != nil {
				logger.Error("unexpected error during bootstrap", log.Error(errors.Errorf("unknown error: %v", r)))
				os.Exit(8)
			}
		}()
		repositoryDir := flag.String("repository", "", "path/to/oracle/db, in memory when empty")
		silentLog := flag.Bool("silent", false, "disable output to stdout")
		pathToLog := flag.String("log", "", "path/to/oracle.log")
		rewardPool := flag.Uint64("reward-pool", 0, "initial balance of the in memory reward pool")

		var configFiles config.FilesPaths
		flag.Var(&configFiles, "config", "path/to/config.json or path/to/config.yaml")

		flag.Parse()

		cfg, err := config.GetOracleConfigFromFiles(configFiles, *repositoryDir)
		if err != nil {
			logger.Error("error reading configuration", log.Error(err))
			os.Exit(1)
		}

		logger = instrumentation.GetLogger(*pathToLog, *silentLog, cfg)

		node, err = bootstrap.NewNode(cfg, memory.NewLedger(logger, *rewardPool), logger)
		if err != nil {
			logger.Error("failed starting oracle node", log.Error(err))
			os.Exit(1)
		}

		synchronization.NewShutdownListener(logger, node, cfg.ShutdownGracePeriod()).ListenToOSShutdownSignal()
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected error in main goroutine", log.Error(errors.Errorf("unknown error: %v", r)))
			os.Exit(2)
		}
	}()
	node.WaitUntilShutdown(context.Background())
}
