// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"crypto/rand"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/utils"
)

var addressTypes = map[string]uint8{
	"account": consts.AccountID,
	"asset":   consts.AssetID,
}

func newAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Create and inspect addresses",
	}
	cmd.AddCommand(newAddressNewCmd(), newAddressInspectCmd())
	return cmd
}

func newAddressNewCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a random account or asset address",
		RunE: func(*cobra.Command, []string) error {
			typeID, ok := addressTypes[kind]
			if !ok {
				return fmt.Errorf("unknown address type %q", kind)
			}
			var id ids.ID
			if _, err := rand.Read(id[:]); err != nil {
				return err
			}
			return printAddress(codec.CreateAddress(typeID, id))
		},
	}
	cmd.Flags().StringVar(&kind, "type", "account", "account or asset")
	return cmd
}

func newAddressInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [address]",
		Short: "Print both encodings of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			addr, err := codec.StringToAddress(args[0])
			if err != nil {
				return err
			}
			return printAddress(addr)
		},
	}
}

func printAddress(addr codec.Address) error {
	bech, err := addr.Bech32()
	if err != nil {
		return err
	}
	utils.Outf("{{cyan}}type:{{/}} %d\n", addr.TypeID())
	utils.Outf("{{cyan}}hex:{{/}} %s\n", addr)
	utils.Outf("{{cyan}}bech32:{{/}} %s\n", bech)
	return nil
}
