package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"weather-widget/datasource"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, configFile string, args ...string) *viper.Viper {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flags)
	require.NoError(t, flags.Parse(args))

	v := viper.New()
	require.NoError(t, v.BindPFlags(flags))
	require.NoError(t, Setup(v, configFile))
	return v
}

func clearEnv(t *testing.T) {
	for _, name := range append(apiKeyEnv, "WEATHER_WIDGET_API_KEY", "WEATHER_WIDGET_PORT") {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := New(newViper(t, ""))

	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, datasource.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.True(t, cfg.RateLimit)
	assert.Equal(t, 0.4, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)

	assert.Error(t, cfg.Validate())
}

func TestNew_APIKeyEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "plain", env: map[string]string{"WEATHER_API_KEY": "k1"}, want: "k1"},
		{name: "vite", env: map[string]string{"VITE_WEATHER_API_KEY": "k2"}, want: "k2"},
		{name: "plain wins", env: map[string]string{"WEATHER_API_KEY": "k1", "VITE_WEATHER_API_KEY": "k2"}, want: "k1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := New(newViper(t, ""))
			assert.Equal(t, tt.want, cfg.APIKey)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestNew_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHER_WIDGET_PORT", "9090")

	cfg := New(newViper(t, ""))
	assert.Equal(t, 9090, cfg.Port)

	cfg = New(newViper(t, "", "--port", "7070", "--api-key", "flag-key"))
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "flag-key", cfg.APIKey)
}

func TestSetup_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "widget.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api-key: file-key\nrate-limit: false\nsession-ttl: 2h\n"), 0o600))

	cfg := New(newViper(t, path))
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.False(t, cfg.RateLimit)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)

	_, limited := cfg.ForecastSource().(*datasource.RateLimitedForecastSource)
	assert.False(t, limited)
}

func TestSetup_MissingExplicitConfigFile(t *testing.T) {
	v := viper.New()
	err := Setup(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{APIKey: "k", RateLimit: true, RateLimitRPS: 1, RateLimitBurst: 1, SessionTTL: time.Hour}
	assert.NoError(t, valid.Validate())

	badRate := valid
	badRate.RateLimitRPS = 0
	assert.Error(t, badRate.Validate())

	noLimit := badRate
	noLimit.RateLimit = false
	assert.NoError(t, noLimit.Validate())

	badTTL := valid
	badTTL.SessionTTL = 0
	assert.Error(t, badTTL.Validate())
}

func TestConfig_ForecastSource(t *testing.T) {
	cfg := Config{APIKey: "k", RateLimit: true, RateLimitRPS: 1, RateLimitBurst: 1}
	source := cfg.ForecastSource()
	assert.Equal(t, "WeatherAPI [Rate Limited]", source.Name())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEATHER_API_KEY=from-dotenv\n"), 0o600))
	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("WEATHER_API_KEY") })

	assert.Equal(t, "from-dotenv", os.Getenv("WEATHER_API_KEY"))
}
