package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "spaced", in: " a:1 , b:2 ,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("FF_TEST_STR", "value")
	t.Setenv("FF_TEST_DUR", "90s")
	t.Setenv("FF_TEST_BAD_DUR", "ninety")

	assert.Equal(t, "value", EnvDefault("FF_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("FF_TEST_UNSET", "fallback"))

	assert.Equal(t, 90*time.Second, EnvDurationDefault("FF_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("FF_TEST_BAD_DUR", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("FF_TEST_UNSET", time.Minute))

	t.Setenv("FF_TEST_INT", "42")
	t.Setenv("FF_TEST_BAD_INT", "forty-two")

	assert.Equal(t, 42, EnvIntDefault("FF_TEST_INT", 8080))
	assert.Equal(t, 8080, EnvIntDefault("FF_TEST_BAD_INT", 8080))
	assert.Equal(t, 8080, EnvIntDefault("FF_TEST_UNSET", 8080))
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 60*time.Second, cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "cookie", cfg.TokenTransport)
	assert.Equal(t, 20, cfg.DBMaxOpenConns)
	assert.Equal(t, 10, cfg.DBMaxIdleConns)
	assert.False(t, cfg.Production())
}
