// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/purpledex/purpledex/cmd/purpledex/cmd"
	"github.com/purpledex/purpledex/utils"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.NewRootCmd(cmd.DefaultOptions()).ExecuteContext(ctx)
	cancel()
	if err != nil {
		utils.Outf("{{red}}purpledex exited with error:{{/}} %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
