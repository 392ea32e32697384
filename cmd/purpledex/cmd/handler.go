// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/purpledex/purpledex/cli/prompt"
	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/rpc"
	"github.com/purpledex/purpledex/utils"
)

var (
	accountType = consts.AccountID
	assetType   = consts.AssetID
	poolType    = consts.PoolID

	ErrMissingValue = errors.New("missing value")
	ErrNotPoolAsset = errors.New("asset is not traded by the pool")
)

const (
	swapDirections   = 2
	directionChoices = "0 sells token A, 1 sells token B"
)

type handler struct {
	opts Options
}

func (h *handler) client() *rpc.JSONRPCClient {
	return rpc.NewJSONRPCClient(h.opts.Endpoint)
}

// address resolves value, prompting for it when empty and prompting is on.
func (h *handler) address(value string, label string, typeID *uint8) (codec.Address, error) {
	if value != "" {
		return prompt.ParseAddress(value, typeID)
	}
	if !h.opts.Prompt {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrMissingValue, label)
	}
	return prompt.Address(label, typeID)
}

func (h *handler) caller() (codec.Address, error) {
	return h.address(h.opts.Caller, "caller", &accountType)
}

func (h *handler) amount(value string, label string) (uint64, error) {
	return h.bounded(value, label, consts.MaxUint64)
}

func (h *handler) bounded(value string, label string, maxValue uint64) (uint64, error) {
	if value != "" {
		return prompt.ParseUint64(value, maxValue)
	}
	if !h.opts.Prompt {
		return 0, fmt.Errorf("%w: %s", ErrMissingValue, label)
	}
	return prompt.Uint64(label, maxValue)
}

// confirm asks before a privileged change. Without prompting it always
// proceeds.
func (h *handler) confirm(label string) (bool, error) {
	if !h.opts.Prompt {
		return true, nil
	}
	return prompt.Bool(label)
}

// direction resolves the assets sold and bought in pool addr. Explicit
// assets win, a lone source or destination implies the other side, and
// otherwise the direction is taken by index or prompted for.
func (h *handler) direction(ctx context.Context, addr codec.Address, f *swapFlags) (codec.Address, codec.Address, error) {
	if f.source != "" && f.destination != "" {
		source, err := prompt.ParseAddress(f.source, &assetType)
		if err != nil {
			return codec.EmptyAddress, codec.EmptyAddress, err
		}
		destination, err := prompt.ParseAddress(f.destination, &assetType)
		return source, destination, err
	}

	p, err := h.client().Pool(ctx, addr)
	if err != nil {
		return codec.EmptyAddress, codec.EmptyAddress, err
	}
	sides := [][2]codec.Address{{p.TokenA, p.TokenB}, {p.TokenB, p.TokenA}}
	if f.source != "" || f.destination != "" {
		given, which := f.source, 0
		if given == "" {
			given, which = f.destination, 1
		}
		asset, err := prompt.ParseAddress(given, &assetType)
		if err != nil {
			return codec.EmptyAddress, codec.EmptyAddress, err
		}
		for _, side := range sides {
			if side[which] == asset {
				return side[0], side[1], nil
			}
		}
		return codec.EmptyAddress, codec.EmptyAddress, fmt.Errorf("%w: %s", ErrNotPoolAsset, asset)
	}

	var choice int
	switch {
	case f.direction != "":
		choice, err = prompt.ParseChoice(f.direction, swapDirections)
	case !h.opts.Prompt:
		return codec.EmptyAddress, codec.EmptyAddress, fmt.Errorf("%w: direction", ErrMissingValue)
	default:
		for i, side := range sides {
			utils.Outf("%d) {{cyan}}%s{{/}} -> {{cyan}}%s{{/}}\n", i, side[0], side[1])
		}
		choice, err = prompt.Choice("direction", swapDirections)
	}
	if err != nil {
		return codec.EmptyAddress, codec.EmptyAddress, err
	}
	return sides[choice][0], sides[choice][1], nil
}

func printPool(p *exchange.PoolInfo) {
	utils.Outf("{{yellow}}pool:{{/}} %s\n", p.Address)
	utils.Outf("  {{cyan}}index:{{/}} %d\n", p.Index)
	utils.Outf("  {{cyan}}token A:{{/}} %s {{cyan}}reserve:{{/}} %s\n", p.TokenA, utils.FormatAmount(p.ReserveA))
	utils.Outf("  {{cyan}}token B:{{/}} %s {{cyan}}reserve:{{/}} %s\n", p.TokenB, utils.FormatAmount(p.ReserveB))
	utils.Outf("  {{cyan}}lp asset:{{/}} %s {{cyan}}total liquidity:{{/}} %s\n", p.LPAsset, utils.FormatAmount(p.TotalLiquidity))
	utils.Outf("  {{cyan}}fee:{{/}} %d/%d {{cyan}}protocol share:{{/}} %d%%\n", p.FeeNumerator, p.FeeDenominator, p.ProtocolFeePercentage)
	utils.Outf(
		"  {{cyan}}accrued protocol fees:{{/}} %s A, %s B\n",
		utils.FormatAmount(p.ProtocolFeesTokenA),
		utils.FormatAmount(p.ProtocolFeesTokenB),
	)
}
