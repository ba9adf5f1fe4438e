package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weather-widget/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the weatherapi.com v1 endpoint root
	DefaultBaseURL = "https://api.weatherapi.com/v1"

	// ForecastDays is the number of days requested per lookup
	ForecastDays = 3

	// Language is the response language requested from the provider
	Language = "ja"
)

// WeatherAPIProvider fetches forecasts from WeatherAPI.com
type WeatherAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ ForecastSource = (*WeatherAPIProvider)(nil)

// NewWeatherAPIProvider creates a new WeatherAPI provider.
// An empty baseURL selects DefaultBaseURL.
func NewWeatherAPIProvider(apiKey, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &WeatherAPIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithHTTPClient replaces the HTTP client used for requests
func (p *WeatherAPIProvider) WithHTTPClient(client *http.Client) *WeatherAPIProvider {
	p.httpClient = client
	return p
}

// Name returns the provider name
func (p *WeatherAPIProvider) Name() string {
	return "WeatherAPI"
}

// forecastResponse is the subset of forecast.json the widget reads
type forecastResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC  float64          `json:"avgtemp_c"`
				Condition models.Condition `json:"condition"`
			} `json:"day"`
			Hour []struct {
				Time      string           `json:"time"`
				TempC     float64          `json:"temp_c"`
				Condition models.Condition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// errorResponse is the provider's error payload
type errorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchForecast fetches the 3-day forecast for a city
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, city string) (models.Forecast, error) {
	// Build URL
	endpoint := fmt.Sprintf("%s/forecast.json", p.baseURL)
	params := url.Values{}
	params.Add("key", p.apiKey)
	params.Add("q", city)
	params.Add("days", strconv.Itoa(ForecastDays))
	params.Add("lang", Language)

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to create request")
	}

	log.Debug().Str("provider", p.Name()).Str("city", city).Msg("Requesting forecast")

	// Execute request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key, keep it out of the message
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return models.Forecast{}, errors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Forecast{}, parseProviderError(resp.StatusCode, body)
	}

	// Parse response
	var response forecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to parse response")
	}
	if len(response.Forecast.ForecastDay) == 0 {
		return models.Forecast{}, errors.New("forecast response contained no days")
	}

	// Convert to our model
	forecast := models.Forecast{
		Location: formatLocation(response.Location.Name, response.Location.Country, city),
		Days:     make([]models.Day, 0, len(response.Forecast.ForecastDay)),
	}

	for _, fd := range response.Forecast.ForecastDay {
		day := models.Day{
			Date:      fd.Date,
			AvgTempC:  fd.Day.AvgTempC,
			Condition: fd.Day.Condition,
			Hours:     make([]models.Hour, 0, len(fd.Hour)),
		}
		for _, h := range fd.Hour {
			day.Hours = append(day.Hours, models.Hour{
				Time:      h.Time,
				TempC:     h.TempC,
				Condition: h.Condition,
			})
		}
		forecast.Days = append(forecast.Days, day)
	}

	return forecast, nil
}

// parseProviderError turns a non-success response into a ProviderError.
// Bodies without an error message fall back to FallbackErrorMessage.
func parseProviderError(status int, body []byte) *ProviderError {
	perr := &ProviderError{StatusCode: status, Message: FallbackErrorMessage}

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return perr
	}
	if payload.Error != nil {
		perr.Code = payload.Error.Code
		if payload.Error.Message != "" {
			perr.Message = payload.Error.Message
		}
	}
	return perr
}

func formatLocation(name, country, fallback string) string {
	switch {
	case name != "" && country != "":
		return fmt.Sprintf("%s,%s", name, country)
	case name != "":
		return name
	default:
		return fallback
	}
}
