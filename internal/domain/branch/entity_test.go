//go:build unit

package branch_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/branch"
	"tablebook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBranch(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		actual, err := builder.NewBranchBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, "Downtown Kitchen", actual.Name())
		assert.True(t, actual.IsActive())
		assert.Equal(t, time.UTC, actual.Timezone())

		monday := actual.ScheduleFor(time.Monday)
		assert.True(t, monday.IsOpen)
		assert.Equal(t, 10*60, monday.OpenMin)
		assert.Equal(t, 23*60, monday.CloseMin)
	})

	cases := []struct {
		name   string
		mutate func(*builder.BranchBuilder)
		errIs  error
	}{
		{
			name:   "名前空NG",
			mutate: func(b *builder.BranchBuilder) { b.WithName("   ") },
			errIs:  branch.ErrEmptyBranchName,
		},
		{
			name:   "不明タイムゾーンNG",
			mutate: func(b *builder.BranchBuilder) { b.WithTimezone("Mars/Olympus") },
			errIs:  branch.ErrInvalidTimezone,
		},
		{
			name: "営業時間逆転NG",
			mutate: func(b *builder.BranchBuilder) {
				b.WithDayWindow(time.Tuesday, 23*60, 10*60)
			},
			errIs: branch.ErrInvalidDaySchedule,
		},
		{
			name: "24時を超える閉店NG",
			mutate: func(b *builder.BranchBuilder) {
				b.WithDayWindow(time.Friday, 20*60, 25*60)
			},
			errIs: branch.ErrInvalidDaySchedule,
		},
		{
			name: "深夜0時閉店はOK",
			mutate: func(b *builder.BranchBuilder) {
				b.WithDayWindow(time.Friday, 18*60, 24*60)
			},
		},
		{
			name:   "キャンセル料負NG",
			mutate: func(b *builder.BranchBuilder) { b.WithPolicy(24, -1) },
			errIs:  branch.ErrNegativeCancelFee,
		},
		{
			name:   "予約ルール負NG",
			mutate: func(b *builder.BranchBuilder) { b.WithRules(-1, 30) },
			errIs:  branch.ErrInvalidBookingRules,
		},
		{
			name:   "上限人数ゼロNG",
			mutate: func(b *builder.BranchBuilder) { b.WithMaxPartySize(0) },
			errIs:  branch.ErrInvalidPartySizeLimit,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := builder.NewBranchBuilder().With(c.mutate).BuildDomain()
			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestNewTable(t *testing.T) {
	branchID := uuid.New()

	t.Run("基本成功ケース", func(t *testing.T) {
		actual, err := builder.NewTableBuilder(branchID).BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, branchID, actual.BranchID())
		assert.Equal(t, 4, actual.Seats())
		assert.Equal(t, branch.ThemeFamily, actual.Theme())
		assert.True(t, actual.Bookable())
	})

	cases := []struct {
		name   string
		mutate func(*builder.TableBuilder)
		errIs  error
	}{
		{
			name:   "席数ゼロNG",
			mutate: func(b *builder.TableBuilder) { b.WithSeats(0) },
			errIs:  branch.ErrInvalidSeatCount,
		},
		{
			name:   "卓番号ゼロNG",
			mutate: func(b *builder.TableBuilder) { b.WithNumber(0) },
			errIs:  branch.ErrInvalidTableNumber,
		},
		{
			name:   "不明テーマNG",
			mutate: func(b *builder.TableBuilder) { b.WithTheme("rooftop") },
			errIs:  branch.ErrInvalidTheme,
		},
		{
			name:   "倍率下限未満NG",
			mutate: func(b *builder.TableBuilder) { b.WithPriceMultiplier(0.4) },
			errIs:  branch.ErrInvalidPriceMultiplier,
		},
		{
			name:   "倍率上限超過NG",
			mutate: func(b *builder.TableBuilder) { b.WithPriceMultiplier(3.1) },
			errIs:  branch.ErrInvalidPriceMultiplier,
		},
		{
			name:   "境界値0.5と3.0はOK",
			mutate: func(b *builder.TableBuilder) { b.WithPriceMultiplier(0.5) },
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := builder.NewTableBuilder(branchID).With(c.mutate).BuildDomain()
			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestTable_EffectiveRules(t *testing.T) {
	br, err := builder.NewBranchBuilder().WithRules(60, 30).BuildDomain()
	require.NoError(t, err)

	t.Run("上書きなしは店舗ルール", func(t *testing.T) {
		tbl, err := builder.NewTableBuilder(br.ID()).BuildDomain()
		require.NoError(t, err)

		rules := tbl.EffectiveRules(br)
		assert.Equal(t, 60, rules.MinAdvanceMin)
		assert.Equal(t, 30, rules.MaxAdvanceDays)
	})

	t.Run("テーブル側の上書きが優先", func(t *testing.T) {
		minAdvance := 120
		maxDays := 7
		tbl, err := builder.NewTableBuilder(br.ID()).
			WithAdvanceOverride(&minAdvance, &maxDays).
			BuildDomain()
		require.NoError(t, err)

		rules := tbl.EffectiveRules(br)
		assert.Equal(t, 120, rules.MinAdvanceMin)
		assert.Equal(t, 7, rules.MaxAdvanceDays)
	})

	t.Run("片側だけの上書き", func(t *testing.T) {
		maxDays := 14
		tbl, err := builder.NewTableBuilder(br.ID()).
			WithAdvanceOverride(nil, &maxDays).
			BuildDomain()
		require.NoError(t, err)

		rules := tbl.EffectiveRules(br)
		assert.Equal(t, 60, rules.MinAdvanceMin)
		assert.Equal(t, 14, rules.MaxAdvanceDays)
	})
}
