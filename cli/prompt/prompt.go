// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/utils"
)

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrIndexOutOfRange = errors.New("index out-of-range")
	ErrWrongType       = errors.New("address has the wrong type")
)

// ParseAddress parses a hex or bech32 address and, when typeID is not nil,
// checks that it was derived for that type.
func ParseAddress(input string, typeID *uint8) (codec.Address, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return codec.EmptyAddress, ErrInputEmpty
	}
	addr, err := codec.StringToAddress(input)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if typeID != nil && addr.TypeID() != *typeID {
		return codec.EmptyAddress, fmt.Errorf("%w: got %d, want %d", ErrWrongType, addr.TypeID(), *typeID)
	}
	return addr, nil
}

func Address(label string, typeID *uint8) (codec.Address, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseAddress(input, typeID)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return ParseAddress(raw, typeID)
}

// ParseUint64 parses an amount no greater than maxValue.
func ParseUint64(input string, maxValue uint64) (uint64, error) {
	if len(strings.TrimSpace(input)) == 0 {
		return 0, ErrInputEmpty
	}
	amount, err := utils.ParseAmount(input)
	if err != nil {
		return 0, err
	}
	if amount > maxValue {
		return 0, fmt.Errorf("%d must be <= %d", amount, maxValue)
	}
	return amount, nil
}

func Uint64(label string, maxValue uint64) (uint64, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseUint64(input, maxValue)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return ParseUint64(raw, maxValue)
}

// ParseChoice parses an index in [0, maxChoice).
func ParseChoice(input string, maxChoice int) (int, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return -1, ErrInputEmpty
	}
	index, err := strconv.Atoi(input)
	if err != nil {
		return -1, err
	}
	if index >= maxChoice || index < 0 {
		return -1, ErrIndexOutOfRange
	}
	return index, nil
}

func Choice(label string, maxChoice int) (int, error) {
	if maxChoice == 1 {
		utils.Outf("{{yellow}}%s:{{/}} 0 [auto-selected]\n", label)
		return 0, nil
	}
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseChoice(input, maxChoice)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return -1, err
	}
	return ParseChoice(raw, maxChoice)
}

// ParseBool accepts y or n in any case.
func ParseBool(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return false, ErrInputEmpty
	case "y":
		return true, nil
	case "n":
		return false, nil
	default:
		return false, ErrInvalidChoice
	}
}

func Bool(label string) (bool, error) {
	promptText := promptui.Prompt{
		Label: label + " (y/n)",
		Validate: func(input string) error {
			_, err := ParseBool(input)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return ParseBool(raw)
}

func Continue() (bool, error) {
	cont, err := Bool("continue")
	if err != nil {
		return false, err
	}
	if !cont {
		utils.Outf("{{red}}exiting...{{/}}\n")
	}
	return cont, nil
}
