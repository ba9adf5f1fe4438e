// Command api_client_example queries a running widget server's JSON API
// and prints the forecast it returns.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"weather-widget/models"
	"weather-widget/render"
)

type forecastResponse struct {
	City       string            `json:"city"`
	Location   string            `json:"location"`
	Days       []models.Day      `json:"days"`
	Background render.Background `json:"background"`
	Error      string            `json:"error"`
}

func main() {
	baseURL := flag.String("server", "http://localhost:8080", "Widget server base URL")
	city := flag.String("city", "Tokyo", "City to look up")
	flag.Parse()

	client := &http.Client{Timeout: 15 * time.Second}

	fmt.Printf("Fetching forecast for %s...\n", *city)
	resp, err := client.Get(fmt.Sprintf("%s/api/forecast?city=%s", *baseURL, url.QueryEscape(*city)))
	if err != nil {
		fmt.Printf("Error fetching forecast: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("エラー: %s (status %d)\n", body.Error, resp.StatusCode)
		os.Exit(1)
	}

	fmt.Printf("\n%s (background: %s)\n", body.Location, body.Background.Category)
	for i, day := range body.Days {
		fmt.Printf("[%d] %s  平均気温：%s°C  天気：%s\n", i, day.Date, render.FormatTemp(day.AvgTempC), day.Condition.Text)
		for _, h := range day.Hours {
			fmt.Printf("      %s  %s°C  %s\n", render.HourOfDay(h.Time), render.FormatTemp(h.TempC), h.Condition.Text)
		}
	}
}
