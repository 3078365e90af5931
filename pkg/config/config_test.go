package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendPostgres, cfg.Sequence.Backend)
	assert.Equal(t, StrategyUpsert, cfg.Sequence.Strategy)
	assert.Equal(t, 5, cfg.Sequence.MaxAttempts)
	assert.Equal(t, "PRJ", cfg.Project.CodePrefix)
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("SEQUENCE_BACKEND", "Redis")
	t.Setenv("SEQUENCE_STRATEGY", "cas")
	t.Setenv("SEQUENCE_MAX_ATTEMPTS", "8")
	t.Setenv("ALLOCATION_TIMEOUT", "2s")
	t.Setenv("TX_ISOLATION", "serializable")

	cfg := New()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendRedis, cfg.Sequence.Backend)
	assert.Equal(t, StrategyCAS, cfg.Sequence.Strategy)
	assert.Equal(t, 8, cfg.Sequence.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Sequence.Timeout)
	assert.Equal(t, IsolationSerializable, cfg.Postgres.Isolation)
}

func TestNew_BadNumberFallsBack(t *testing.T) {
	t.Setenv("SEQUENCE_MAX_ATTEMPTS", "много")
	t.Setenv("SEQUENCE_BASE_DELAY", "чуть-чуть")
	cfg := New()
	assert.Equal(t, 5, cfg.Sequence.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Sequence.BaseDelay)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"backend":   func(c *Config) { c.Sequence.Backend = "etcd" },
		"strategy":  func(c *Config) { c.Sequence.Strategy = "lock" },
		"isolation": func(c *Config) { c.Postgres.Isolation = "dirty" },
		"attempts":  func(c *Config) { c.Sequence.MaxAttempts = 0 },
		"delays":    func(c *Config) { c.Sequence.MaxDelay = time.Millisecond },
		"timeout":   func(c *Config) { c.Sequence.Timeout = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
