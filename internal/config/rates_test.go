package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRatesHolder_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	rates := "vatBuckets: [0, 14, 25.5]\ntripAllowanceFullCents: 5500\ntripAllowanceHalfCents: 2500\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rates.yml"), []byte(rates), 0o644))

	holder, err := NewRatesHolder(Config{RatesPath: dir}, zap.NewNop())
	require.NoError(t, err)

	current := holder.Current()
	assert.Equal(t, []float64{0, 14, 25.5}, current.VATBuckets)
	assert.Equal(t, int64(5500), current.TripAllowanceFullCents)
	assert.Equal(t, int64(2500), current.TripAllowanceHalfCents)
}

func TestNewRatesHolder_MissingFileUsesDefaults(t *testing.T) {
	holder, err := NewRatesHolder(Config{RatesPath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultRatesConfig(), holder.Current())
}
