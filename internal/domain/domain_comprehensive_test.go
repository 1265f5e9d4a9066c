package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionList_AddAssignsIncreasingIDs(t *testing.T) {
	list := NewTransactionList()

	first := list.Add(ShortTerm, decimal.NewFromInt(1000), BucketAfterCutoff)
	second := list.Add(LongTerm, decimal.NewFromInt(2000), BucketBeforeCutoff)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 2, list.Len())
}

func TestTransactionList_RemoveNeverReusesIDs(t *testing.T) {
	list := NewTransactionList()
	a := list.Add(ShortTerm, decimal.NewFromInt(1), BucketAfterCutoff)
	list.Add(ShortTerm, decimal.NewFromInt(2), BucketAfterCutoff)

	assert.True(t, list.Remove(a.ID))
	assert.False(t, list.Remove(a.ID), "second removal should find nothing")

	c := list.Add(ShortTerm, decimal.NewFromInt(3), BucketAfterCutoff)
	assert.Equal(t, 3, c.ID)

	items := list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].ID)
	assert.Equal(t, 3, items[1].ID)
}

func TestTransactionList_ZeroValueUsable(t *testing.T) {
	var list TransactionList
	tx := list.Add(LongTerm, decimal.NewFromInt(10), BucketAfterCutoff)
	assert.Equal(t, 1, tx.ID)
}

func TestTransactionList_UpdateKeepsID(t *testing.T) {
	list := NewTransactionList()
	tx := list.Add(ShortTerm, decimal.NewFromInt(100), BucketAfterCutoff)

	ok := list.Update(tx.ID, func(t *Transaction) {
		t.Amount = decimal.NewFromInt(250)
		t.Bucket = BucketBeforeCutoff
		t.ID = 99
	})
	require.True(t, ok)

	got, found := list.Get(tx.ID)
	require.True(t, found)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, BucketBeforeCutoff, got.Bucket)

	assert.False(t, list.Update(42, func(*Transaction) {}))
}

func TestTransactionList_ItemsIsACopy(t *testing.T) {
	list := NewTransactionList()
	list.Add(ShortTerm, decimal.NewFromInt(100), BucketAfterCutoff)

	items := list.Items()
	items[0].Amount = decimal.NewFromInt(1)

	got, _ := list.Get(1)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
}

func TestTransactionList_CapitalGainsSplitsByTerm(t *testing.T) {
	list := NewTransactionList()
	list.Add(ShortTerm, decimal.NewFromInt(100), BucketAfterCutoff)
	list.Add(LongTerm, decimal.NewFromInt(200), BucketAfterCutoff)
	list.Add(ShortTerm, decimal.NewFromInt(300), BucketBeforeCutoff)

	cg := list.CapitalGains()
	require.Len(t, cg.STCG, 2)
	require.Len(t, cg.LTCG, 1)
	assert.Equal(t, 3, cg.STCG[1].ID)
}

func TestCapitalGains_AllForcesTermFromList(t *testing.T) {
	cg := CapitalGains{
		STCG: []Transaction{{ID: 1, Amount: decimal.NewFromInt(5), Term: LongTerm}},
		LTCG: []Transaction{{ID: 2, Amount: decimal.NewFromInt(7)}},
	}

	all := cg.All()
	require.Len(t, all, 2)
	assert.Equal(t, ShortTerm, all[0].Term)
	assert.Equal(t, LongTerm, all[1].Term)
	assert.True(t, cg.HasPositive())
	assert.False(t, CapitalGains{}.HasPositive())
}

func TestParseAgeBand(t *testing.T) {
	tests := []struct {
		input   string
		want    AgeBand
		wantErr bool
	}{
		{"below60", AgeBelow60, false},
		{" 60to80 ", Age60To80, false},
		{"80+", AgeAbove80, false},
		{"Above80", AgeAbove80, false},
		{"teen", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAgeBand(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownAgeBand))
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateBucket(t *testing.T) {
	b, err := ParseDateBucket("")
	require.NoError(t, err)
	assert.Equal(t, BucketAfterCutoff, b, "empty bucket defaults to post-cutoff")

	b, err = ParseDateBucket("before23July2024")
	require.NoError(t, err)
	assert.Equal(t, BucketBeforeCutoff, b)

	_, err = ParseDateBucket("2019")
	assert.True(t, errors.Is(err, ErrUnknownDateBucket))
}

func TestParseTermAndRegime(t *testing.T) {
	term, err := ParseTerm("LTCG")
	require.NoError(t, err)
	assert.Equal(t, LongTerm, term)

	_, err = ParseTerm("medium")
	assert.True(t, errors.Is(err, ErrUnknownTerm))

	regime, err := ParseRegime("NEW")
	require.NoError(t, err)
	assert.Equal(t, RegimeNew, regime)

	regime, err = ParseRegime("")
	require.NoError(t, err)
	assert.Equal(t, Regime(""), regime)

	_, err = ParseRegime("flat")
	assert.True(t, errors.Is(err, ErrUnknownRegime))
}

func TestParseResidencyStatus(t *testing.T) {
	s, err := ParseResidencyStatus("rnor")
	require.NoError(t, err)
	assert.Equal(t, ResidentNotOrdinary, s)
	assert.False(t, s.IsNonResident())

	s, err = ParseResidencyStatus("NRI")
	require.NoError(t, err)
	assert.True(t, s.IsNonResident())

	_, err = ParseResidencyStatus("citizen")
	assert.Error(t, err)
}

func TestConfigError_Message(t *testing.T) {
	err := NewConfigError("fiscal_year", "2030-31", ErrUnknownFiscalYear)
	assert.Equal(t, `fiscal_year "2030-31": unknown fiscal year`, err.Error())
	assert.True(t, errors.Is(err, ErrUnknownFiscalYear))
}

func TestRuleTable_Lookups(t *testing.T) {
	upto := decimal.NewFromInt(250000)
	rt := &RuleTable{
		OldSlabs: map[AgeBand]SlabTable{
			AgeBelow60: {{UpTo: &upto, Rate: decimal.Zero}, {Rate: decimal.NewFromFloat(0.3)}},
		},
		NewSlabs: SlabTable{{Rate: decimal.NewFromFloat(0.1)}},
		CapitalGains: map[DateBucket]CapitalGainsRateSet{
			BucketAfterCutoff: {ShortTermRate: decimal.NewFromFloat(0.2)},
		},
	}

	slabs, err := rt.SlabsFor(RegimeOld, AgeBelow60)
	require.NoError(t, err)
	assert.Len(t, slabs, 2)

	slabs, err = rt.SlabsFor(RegimeNew, "anything")
	require.NoError(t, err)
	assert.Len(t, slabs, 1, "new regime slabs ignore the age band")

	_, err = rt.SlabsFor(RegimeOld, AgeAbove80)
	assert.True(t, errors.Is(err, ErrUnknownAgeBand))

	_, err = rt.CapitalGainsRates(BucketBeforeCutoff)
	assert.True(t, errors.Is(err, ErrUnknownDateBucket))
}

func TestSlabLine_UpperLabel(t *testing.T) {
	upper := decimal.NewFromInt(700000)
	assert.Equal(t, "700000", SlabLine{Upper: &upper}.UpperLabel())
	assert.Equal(t, "above", SlabLine{}.UpperLabel())
}

func TestAgeBand_IsSenior(t *testing.T) {
	assert.False(t, AgeBelow60.IsSenior())
	assert.True(t, Age60To80.IsSenior())
	assert.True(t, AgeAbove80.IsSenior())
	assert.False(t, AgeBand("x").Valid())
}
