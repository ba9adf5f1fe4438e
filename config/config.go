package config

import (
	"os"
	"strings"
	"time"

	"weather-widget/datasource"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read through viper
const EnvPrefix = "WEATHER_WIDGET"

// apiKeyEnv lists the environment variables that may carry the provider key, in priority order
var apiKeyEnv = []string{"WEATHER_API_KEY", "VITE_WEATHER_API_KEY"}

// Config represents the application configuration
type Config struct {
	APIKey         string
	BaseURL        string
	Port           int
	StaticDir      string
	RateLimit      bool
	RateLimitRPS   float64
	RateLimitBurst int
	SessionTTL     time.Duration
}

// AddFlags registers the provider and server flags
func AddFlags(flags *pflag.FlagSet) {
	flags.String("api-key", "", "WeatherAPI.com API key (env WEATHER_API_KEY)")
	flags.String("base-url", datasource.DefaultBaseURL, "WeatherAPI.com base URL")
	flags.Int("port", 8080, "Port to run the server on")
	flags.String("static-dir", "static", "Directory holding images/ and the stylesheet")
	// WeatherAPI free tier allows ~23 calls/minute = 0.4 calls per second
	flags.Bool("rate-limit", true, "Enable API rate limiting")
	flags.Float64("rate-limit-rps", 0.4, "Provider requests per second")
	flags.Int("rate-limit-burst", 3, "Provider request burst size")
	flags.Duration("session-ttl", 24*time.Hour, "Idle time after which a session is forgotten")
}

// Setup wires environment variables and an optional config file into v.
// A missing config file is not an error.
func Setup(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(append([]string{"api-key"}, apiKeyEnv...)...); err != nil {
		return errors.Wrap(err, "failed to bind api key environment")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("weather-widget")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.weather-widget")
		if xdgConfigPath, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(xdgConfigPath + "/weather-widget")
		}
	}

	err := v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// LoadDotEnv loads a .env file when one exists
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}

// New reads the configuration out of v
func New(v *viper.Viper) *Config {
	return &Config{
		APIKey:         strings.TrimSpace(v.GetString("api-key")),
		BaseURL:        v.GetString("base-url"),
		Port:           v.GetInt("port"),
		StaticDir:      v.GetString("static-dir"),
		RateLimit:      v.GetBool("rate-limit"),
		RateLimitRPS:   v.GetFloat64("rate-limit-rps"),
		RateLimitBurst: v.GetInt("rate-limit-burst"),
		SessionTTL:     v.GetDuration("session-ttl"),
	}
}

// Validate checks the settings needed to reach the provider
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("no API key provided (set WEATHER_API_KEY or --api-key)")
	}
	if c.RateLimit && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		return errors.Errorf("invalid rate limit %v rps / burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.SessionTTL <= 0 {
		return errors.Errorf("invalid session ttl %s", c.SessionTTL)
	}
	return nil
}

// ForecastSource builds the provider described by the configuration
func (c *Config) ForecastSource() datasource.ForecastSource {
	provider := datasource.NewWeatherAPIProvider(c.APIKey, c.BaseURL)
	if !c.RateLimit {
		return provider
	}
	return datasource.NewRateLimitedForecastSource(provider, c.RateLimitRPS, c.RateLimitBurst)
}
