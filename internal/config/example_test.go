package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExampleConfiguration(t *testing.T) {
	config := CreateExampleConfiguration()
	in := config.Taxpayer

	assert.Equal(t, "modelo", config.AFP)
	assert.True(t, decimal.NewFromFloat(0.58).Equal(in.AFPCommissionPct))
	assert.True(t, decimal.NewFromInt(12000000).Equal(in.GrossFeeIncome))
	assert.Equal(t, domain.PartialCoverage, in.CoverageMode)
	assert.True(t, decimal.NewFromInt(67).Equal(in.PartialCoverageFactorPct))
	assert.True(t, in.FullWithholding)
	assert.False(t, in.IncomeTaxCredit.IsManual())
	assert.False(t, in.FeeWithholding.IsManual())

	assert.NoError(t, NewInputParser().ValidateConfiguration(config))
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	original := CreateExampleConfiguration()
	original.Taxpayer.IncomeTaxCredit = domain.ManualCredit(decimal.NewFromInt(250000))

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, SaveConfiguration(original, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fee_withholding: auto")
	assert.Contains(t, string(data), "income_tax_credit: 250000")

	loaded, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	in := loaded.Taxpayer
	assert.True(t, original.Taxpayer.GrossFeeIncome.Equal(in.GrossFeeIncome))
	assert.True(t, original.Taxpayer.WithholdingRatePct.Equal(in.WithholdingRatePct))
	assert.True(t, original.Taxpayer.AFPCommissionPct.Equal(in.AFPCommissionPct))
	assert.Equal(t, original.Taxpayer.CoverageMode, in.CoverageMode)

	amount, ok := in.IncomeTaxCredit.ManualAmount()
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(250000).Equal(amount))
	assert.False(t, in.FeeWithholding.IsManual())
}

func TestSaveConfiguration_BadPath(t *testing.T) {
	err := SaveConfiguration(CreateExampleConfiguration(), filepath.Join(t.TempDir(), "missing", "x.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")
}
