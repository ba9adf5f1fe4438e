package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"weather-widget/api"
	"weather-widget/config"
	"weather-widget/datasource"
	"weather-widget/models"
	"weather-widget/render"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type lookupSettings struct {
	Day    int
	JSON   bool
	Text   bool
	Output io.Writer
}

func newLookupCommand() *cobra.Command {
	settings := &lookupSettings{}

	cmd := &cobra.Command{
		Use:   "lookup <city>",
		Short: "Fetch a forecast once and print the rendered day",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New(viper.GetViper())
			if err := cfg.Validate(); err != nil {
				return err
			}
			settings.Output = cmd.OutOrStdout()
			return lookup(cmd, cfg.ForecastSource(), strings.Join(args, " "), settings)
		},
	}

	cmd.Flags().IntVar(&settings.Day, "day", 0, "Day to render (0: today, 1: tomorrow, 2: the day after)")
	cmd.Flags().BoolVar(&settings.JSON, "json", false, "Print the selected day as JSON")
	cmd.Flags().BoolVar(&settings.Text, "text", false, "Print the rendered day as plain text")

	return cmd
}

func lookup(cmd *cobra.Command, source datasource.ForecastSource, city string, s *lookupSettings) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errors.New(api.EmptyCityNotice)
	}

	forecast, err := source.FetchForecast(cmd.Context(), city)
	if err != nil {
		fmt.Fprintln(s.Output, api.DisplayError(err))
		return errors.Wrapf(err, "lookup for %s failed", city)
	}
	if !forecast.ValidDay(s.Day) {
		return errors.Errorf("day %d outside forecast of %d days", s.Day, len(forecast.Days))
	}

	day := forecast.Days[s.Day]
	background := render.SelectBackground(day.Condition.Text)
	log.Info().
		Str("location", forecast.Location).
		Str("date", day.Date).
		Str("background", string(background.Category)).
		Msg("Fetched forecast")

	if s.JSON {
		enc := json.NewEncoder(s.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Location   string            `json:"location"`
			Day        models.Day        `json:"day"`
			Background render.Background `json:"background"`
		}{forecast.Location, day, background})
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := renderer.Day(&buf, day); err != nil {
		return errors.Wrap(err, "failed to render day")
	}

	if !s.Text {
		_, err := s.Output.Write(buf.Bytes())
		return err
	}
	return writeText(s.Output, &buf)
}

// writeText prints the heading, summary lines and one line per hourly card
func writeText(w io.Writer, r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return errors.Wrap(err, "failed to parse rendered day")
	}

	fmt.Fprintln(w, doc.Find("h2").Text())
	doc.Find("body > p").Each(func(_ int, p *goquery.Selection) {
		fmt.Fprintln(w, p.Text())
	})
	fmt.Fprintln(w, doc.Find("h3").Text())
	doc.Find(".hour-card").Each(func(_ int, card *goquery.Selection) {
		alt, _ := card.Find("img").Attr("alt")
		fmt.Fprintf(w, "  %s  %s  %s\n", card.Find("p.hour").Text(), card.Find("p").Last().Text(), alt)
	})
	return nil
}
