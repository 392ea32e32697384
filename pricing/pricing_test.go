// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/purpledex/purpledex/consts"
)

var defaultFees = FeeSchedule{Numerator: 3, Denominator: 1000, ProtocolPercentage: 20}

func TestFeeScheduleValidate(t *testing.T) {
	tests := []struct {
		name   string
		fees   FeeSchedule
		expect error
	}{
		{name: "valid", fees: defaultFees},
		{name: "full protocol share", fees: FeeSchedule{1, 2, 100}},
		{name: "zero numerator", fees: FeeSchedule{0, 1000, 10}, expect: ErrInvalidFeeFraction},
		{name: "numerator equals denominator", fees: FeeSchedule{1000, 1000, 10}, expect: ErrInvalidFeeFraction},
		{name: "numerator above denominator", fees: FeeSchedule{1001, 1000, 10}, expect: ErrInvalidFeeFraction},
		{name: "protocol above 100", fees: FeeSchedule{3, 1000, 101}, expect: ErrInvalidProtocolFee},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fees.Validate()
			if tt.expect == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.expect)
			require.ErrorIs(t, err, consts.ErrConfiguration)
		})
	}
}

func TestFeeScheduleValidateProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := FeeSchedule{
			Numerator:          rapid.Uint64().Draw(t, "numerator"),
			Denominator:        rapid.Uint64().Draw(t, "denominator"),
			ProtocolPercentage: rapid.Uint8().Draw(t, "protocol"),
		}
		valid := f.Numerator > 0 && f.Numerator < f.Denominator && f.ProtocolPercentage <= 100
		err := f.Validate()
		if valid && err != nil {
			t.Fatalf("expected %+v to be valid: %v", f, err)
		}
		if !valid && err == nil {
			t.Fatalf("expected %+v to be rejected", f)
		}
	})
}

func TestBreakdown(t *testing.T) {
	r := require.New(t)

	total, protocol, err := defaultFees.Breakdown(1000)
	r.NoError(err)
	r.Equal(uint64(3), total)
	r.Equal(uint64(0), protocol)

	total, protocol, err = defaultFees.Breakdown(100_000)
	r.NoError(err)
	r.Equal(uint64(300), total)
	r.Equal(uint64(60), protocol)

	// Widened intermediate avoids overflow on large inputs.
	total, _, err = defaultFees.Breakdown(math.MaxUint64)
	r.NoError(err)
	r.Equal(uint64(math.MaxUint64/1000*3+3*(math.MaxUint64%1000)/1000), total)
}

func TestSqrt(t *testing.T) {
	r := require.New(t)
	for v, expected := range map[uint64]uint64{
		0: 0, 1: 1, 2: 1, 3: 1, 4: 2, 15: 3, 16: 4, 40_000: 200, math.MaxUint64: math.MaxUint32,
	} {
		r.Equal(expected, Sqrt(uint256.NewInt(v)).Uint64(), "sqrt(%d)", v)
	}

	root := Sqrt(new(uint256.Int).SetAllOne())
	r.Equal(new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), 128), 1), root)
}

func TestSqrtProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint64().Draw(t, "a")
		b := rapid.Uint64().Draw(t, "b")
		v := Product(a, b)
		root := Sqrt(v)
		sq := new(uint256.Int).Mul(root, root)
		if sq.Gt(v) {
			t.Fatalf("root %s too large for %s", root, v)
		}
		next := new(uint256.Int).AddUint64(root, 1)
		if next.Mul(next, next).Cmp(v) <= 0 {
			t.Fatalf("root %s too small for %s", root, v)
		}
	})
}

func TestInitialLiquidity(t *testing.T) {
	r := require.New(t)

	minted, err := InitialLiquidity(100, 400)
	r.NoError(err)
	r.Equal(uint64(200), minted)

	minted, err = InitialLiquidity(math.MaxUint64, math.MaxUint64)
	r.NoError(err)
	r.Equal(uint64(math.MaxUint64), minted)

	_, err = InitialLiquidity(0, 400)
	r.ErrorIs(err, ErrInsufficientMinted)
	r.ErrorIs(err, consts.ErrLiquidity)
}

func TestProportionalLiquidity(t *testing.T) {
	r := require.New(t)

	minted, err := ProportionalLiquidity(100, 200, 1000, 2000, 500)
	r.NoError(err)
	r.Equal(uint64(50), minted)

	// Imbalanced deposits are credited on the smaller side.
	minted, err = ProportionalLiquidity(100, 1000, 1000, 2000, 500)
	r.NoError(err)
	r.Equal(uint64(50), minted)

	_, err = ProportionalLiquidity(1, 1, 1000, 2000, 500)
	r.ErrorIs(err, ErrInsufficientMinted)

	_, err = ProportionalLiquidity(1, 1, 0, 2000, 500)
	r.ErrorIs(err, ErrDivisionByZero)
	r.ErrorIs(err, consts.ErrLiquidity)
}

func TestWithdrawalAmounts(t *testing.T) {
	r := require.New(t)

	a, b, err := WithdrawalAmounts(50, 1000, 2000, 500)
	r.NoError(err)
	r.Equal(uint64(100), a)
	r.Equal(uint64(200), b)

	// Shares round down at 10^18 precision.
	a, b, err = WithdrawalAmounts(50, 1100, 2200, 550)
	r.NoError(err)
	r.Equal(uint64(99), a)
	r.Equal(uint64(199), b)

	a, b, err = WithdrawalAmounts(550, 1100, 2200, 550)
	r.NoError(err)
	r.Equal(uint64(1100), a)
	r.Equal(uint64(2200), b)

	_, _, err = WithdrawalAmounts(551, 1100, 2200, 550)
	r.ErrorIs(err, ErrExceedsTotalLiquidity)

	_, _, err = WithdrawalAmounts(1, 1, 1_000_000, 1_000_000)
	r.ErrorIs(err, ErrDustWithdrawal)

	_, _, err = WithdrawalAmounts(1, 1, 1, 0)
	r.ErrorIs(err, ErrDivisionByZero)
}

func TestOutputAmount(t *testing.T) {
	r := require.New(t)

	out, err := OutputAmount(997, 100_000, 100_000)
	r.NoError(err)
	r.Equal(uint64(987), out)

	_, err = OutputAmount(1, 100_000, 100_000)
	r.ErrorIs(err, ErrZeroOutput)

	_, err = OutputAmount(1, 0, 100_000)
	r.ErrorIs(err, ErrReservesZero)
}

func TestSwap(t *testing.T) {
	r := require.New(t)
	fees := FeeSchedule{Numerator: 3, Denominator: 1000, ProtocolPercentage: 20}

	m := NewConstantProduct(100_000, 100_000, 100_000, fees)
	_, err := m.Swap(1000, 988, true)
	r.ErrorIs(err, ErrSlippageExceeded)
	r.ErrorIs(err, consts.ErrSlippage)

	ra, rb, total := m.GetState()
	r.Equal(uint64(100_000), ra)
	r.Equal(uint64(100_000), rb)
	r.Equal(uint64(100_000), total)

	res, err := m.Swap(1000, 987, true)
	r.NoError(err)
	r.Equal(SwapResult{Input: 1000, InputNet: 997, TotalFee: 3, ProtocolFee: 0, Output: 987}, *res)

	ra, rb, _ = m.GetState()
	r.Equal(uint64(101_000), ra)
	r.Equal(uint64(99_013), rb)

	res, err = m.Swap(500, 0, false)
	r.NoError(err)
	r.Equal(uint64(1), res.TotalFee)
	ra2, rb2, _ := m.GetState()
	r.Equal(ra-res.Output, ra2)
	r.Equal(rb+500, rb2)

	_, err = m.Swap(0, 0, true)
	r.ErrorIs(err, ErrZeroInput)

	empty := NewConstantProduct(0, 0, 0, fees)
	_, err = empty.Swap(1000, 0, true)
	r.ErrorIs(err, ErrReservesZero)
}

func TestQuote(t *testing.T) {
	r := require.New(t)

	m := NewConstantProduct(100_000, 100_000, 100_000, defaultFees)
	q, err := m.Quote(1000, true)
	r.NoError(err)
	r.Equal(uint64(987), q.Output)
	// (1000*100000 - 987*100000) * 10000 / (1000*100000)
	r.Equal(uint64(130), q.PriceImpactBps)

	ra, rb, _ := m.GetState()
	r.Equal(uint64(100_000), ra)
	r.Equal(uint64(100_000), rb)
}

func TestSwapProductNeverDecreases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ra := rapid.Uint64Range(1_000, 1<<40).Draw(t, "reserveA")
		rb := rapid.Uint64Range(1_000, 1<<40).Draw(t, "reserveB")
		in := rapid.Uint64Range(1_000, 1<<40).Draw(t, "input")
		aToB := rapid.Bool().Draw(t, "aToB")

		m := NewConstantProduct(ra, rb, 1, defaultFees)
		before := Product(ra, rb)
		res, err := m.Swap(in, 0, aToB)
		if err != nil {
			return
		}
		if res.TotalFee == 0 {
			t.Fatalf("expected a nonzero fee for input %d", in)
		}
		ra, rb, _ = m.GetState()
		after := Product(ra, rb)
		if after.Lt(before) {
			t.Fatalf("product decreased from %s to %s", before, after)
		}
	})
}

func TestRoundTripNeverProfits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ra := rapid.Uint64Range(1, 1<<40).Draw(t, "reserveA")
		rb := rapid.Uint64Range(1, 1<<40).Draw(t, "reserveB")
		m := NewConstantProduct(0, 0, 0, defaultFees)
		if _, err := m.AddLiquidity(ra, rb); err != nil {
			t.Fatalf("seed deposit failed: %v", err)
		}

		a := rapid.Uint64Range(1, 1<<40).Draw(t, "depositA")
		b := rapid.Uint64Range(1, 1<<40).Draw(t, "depositB")
		_, _, totalBefore := m.GetState()
		minted, err := m.AddLiquidity(a, b)
		if err != nil {
			return
		}
		_, _, totalMid := m.GetState()
		if totalMid != totalBefore+minted {
			t.Fatalf("total liquidity %d, expected %d", totalMid, totalBefore+minted)
		}
		outA, outB, err := m.RemoveLiquidity(minted)
		if err != nil {
			return
		}
		if outA > a || outB > b {
			t.Fatalf("withdrew (%d, %d) after depositing (%d, %d)", outA, outB, a, b)
		}
		_, _, totalAfter := m.GetState()
		if totalAfter != totalBefore {
			t.Fatalf("total liquidity %d, expected %d", totalAfter, totalBefore)
		}
	})
}

func TestNewModel(t *testing.T) {
	r := require.New(t)

	m, err := New(ConstantProductID, 1, 2, 3, defaultFees)
	r.NoError(err)
	ra, rb, total := m.GetState()
	r.Equal([]uint64{1, 2, 3}, []uint64{ra, rb, total})

	_, err = New(InvalidModelID, 0, 0, 0, defaultFees)
	r.ErrorIs(err, ErrUnknownModel)
	r.ErrorIs(err, consts.ErrConfiguration)
}
