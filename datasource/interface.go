package datasource

import (
	"context"

	"weather-widget/models"
)

// ForecastSource defines the interface for anything that can look up a city forecast
type ForecastSource interface {
	Name() string
	FetchForecast(ctx context.Context, city string) (models.Forecast, error)
}
