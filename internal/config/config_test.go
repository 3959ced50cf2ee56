package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ontinet-com/contract/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 24*time.Hour, cfg.Contract.GenerationInterval)
	assert.Equal(t, 1, cfg.Contract.BatchConcurrency)
	assert.Equal(t, types.RenewalPolicyExtendPeriod, cfg.Contract.RenewalPolicy)
	assert.ElementsMatch(t, []types.OrderKind{types.OrderKindSale, types.OrderKindPurchase}, cfg.Contract.GenerationKinds)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Configuration)
	}{
		{
			name:   "unknown renewal policy",
			mutate: func(c *Configuration) { c.Contract.RenewalPolicy = "forever" },
		},
		{
			name:   "zero batch concurrency",
			mutate: func(c *Configuration) { c.Contract.BatchConcurrency = 0 },
		},
		{
			name:   "unknown generation kind",
			mutate: func(c *Configuration) { c.Contract.GenerationKinds = []types.OrderKind{"rental"} },
		},
		{
			name:   "sentry enabled without dsn",
			mutate: func(c *Configuration) { c.Sentry.Enabled = true },
		},
		{
			name:   "missing server address",
			mutate: func(c *Configuration) { c.Server.Address = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewConfig_ReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
contract:
  generation_interval: 1h
  renewal_policy: recompute
  batch_concurrency: 4
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("CONTRACT_POSTGRES_HOST", "db.internal")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Contract.GenerationInterval)
	assert.Equal(t, types.RenewalPolicyRecompute, cfg.Contract.RenewalPolicy)
	assert.Equal(t, 4, cfg.Contract.BatchConcurrency)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	// untouched keys keep their defaults
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Len(t, cfg.Contract.GenerationKinds, 2)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := GetDefaultConfig().Postgres
	assert.Equal(t, "user=contract password=contract dbname=contract host=localhost port=5432 sslmode=disable", cfg.GetDSN())
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime())
}
