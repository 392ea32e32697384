// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/utils"
)

var ErrNestedShell = errors.New("already in a shell")

func newShellCmd(h *handler) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively against the same endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			utils.Outf("{{yellow}}connected to %s, type exit to leave{{/}}\n", h.opts.Endpoint)
			line := promptui.Prompt{Label: consts.Name}
			for {
				input, err := line.Run()
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return nil
				}
				if err != nil {
					return err
				}
				exit, err := runShellLine(cmd.Context(), h.opts, input)
				if exit {
					return nil
				}
				if err != nil {
					utils.Outf("{{red}}error:{{/}} %s\n", err)
				}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}
}

// runShellLine executes one line of shell input with a fresh command tree.
func runShellLine(ctx context.Context, opts Options, input string) (bool, error) {
	input = strings.TrimSpace(input)
	switch input {
	case "":
		return false, nil
	case "exit", "quit":
		return true, nil
	}
	args, err := shellwords.Parse(input)
	if err != nil {
		return false, err
	}
	if args[0] == "shell" {
		return false, ErrNestedShell
	}
	root := NewRootCmd(opts)
	root.SetArgs(args)
	return false, root.ExecuteContext(ctx)
}
