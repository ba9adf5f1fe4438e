// Command rate_limit_test drives the provider rate limiter with a mock
// forecast source and reports the throughput it observed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"weather-widget/datasource"
	"weather-widget/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// mockForecastSource simulates provider latency and counts lookups
type mockForecastSource struct {
	mutex     sync.Mutex
	callCount int
	latency   time.Duration
}

func (m *mockForecastSource) Name() string {
	return "MockForecast"
}

func (m *mockForecastSource) FetchForecast(ctx context.Context, city string) (models.Forecast, error) {
	m.mutex.Lock()
	m.callCount++
	n := m.callCount
	m.mutex.Unlock()

	log.Debug().Int("request", n).Str("city", city).Msg("Processing lookup")

	select {
	case <-time.After(m.latency):
	case <-ctx.Done():
		return models.Forecast{}, ctx.Err()
	}

	return models.Forecast{
		Location: city,
		Days:     make([]models.Day, datasource.ForecastDays),
	}, nil
}

func (m *mockForecastSource) calls() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.callCount
}

// validateFlags rejects settings the worker split and rate summary cannot use
func validateFlags(rps float64, burst, total, workers int) error {
	switch {
	case rps <= 0:
		return errors.Errorf("rps must be positive, got %v", rps)
	case burst < 1:
		return errors.Errorf("burst must be at least 1, got %d", burst)
	case total < 1:
		return errors.Errorf("requests must be at least 1, got %d", total)
	case workers < 1:
		return errors.Errorf("concurrent must be at least 1, got %d", workers)
	}
	return nil
}

func main() {
	rps := flag.Float64("rps", 0.4, "Rate limit in requests per second")
	burst := flag.Int("burst", 3, "Maximum burst size")
	total := flag.Int("requests", 6, "Total number of lookups")
	workers := flag.Int("concurrent", 3, "Number of concurrent visitors")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := validateFlags(*rps, *burst, *total, *workers); err != nil {
		log.Fatal().Err(err).Msg("Invalid flags")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mock := &mockForecastSource{latency: 200 * time.Millisecond}
	source := datasource.NewRateLimitedForecastSource(mock, *rps, *burst)

	log.Info().
		Float64("rps", *rps).
		Int("burst", *burst).
		Int("requests", *total).
		Int("workers", *workers).
		Msg("Starting rate limit check")

	start := time.Now()
	var wg sync.WaitGroup

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			n := *total / *workers
			if worker < *total%*workers {
				n++
			}
			for j := 0; j < n; j++ {
				city := fmt.Sprintf("City-%d-%d", worker, j)
				before := time.Now()
				if _, err := source.FetchForecast(ctx, city); err != nil {
					log.Error().Err(err).Int("worker", worker).Int("request", j).Msg("Lookup failed")
					continue
				}
				log.Info().Int("worker", worker).Int("request", j).Dur("elapsed", time.Since(before)).Msg("Lookup completed")
			}
		}(w)
	}

	wg.Wait()

	elapsed := time.Since(start)
	actualRPS := float64(*total) / elapsed.Seconds()
	expectedMin := float64(*total-*burst) / *rps
	if expectedMin < 0 {
		expectedMin = 0
	}

	fmt.Printf("Total time: %.2fs (theoretical minimum %.2fs)\n", elapsed.Seconds(), expectedMin)
	fmt.Printf("Lookups processed: %d, actual rate %.2f/s\n", mock.calls(), actualRPS)

	if actualRPS > *rps*1.5 && *total > *burst {
		fmt.Println("WARNING: observed rate is well above the configured limit")
		os.Exit(1)
	}
	fmt.Println("Rate limiting is working")
}
