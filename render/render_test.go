package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"weather-widget/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDay(date, condition string, avg float64) models.Day {
	day := models.Day{
		Date:      date,
		AvgTempC:  avg,
		Condition: models.Condition{Text: condition, Icon: "//cdn.weatherapi.com/weather/64x64/day/113.png"},
	}
	for h := 0; h < 24; h++ {
		day.Hours = append(day.Hours, models.Hour{
			Time:      fmt.Sprintf("%s %02d:00", date, h),
			TempC:     float64(h) + 0.5,
			Condition: models.Condition{Text: "曇り", Icon: "//cdn.weatherapi.com/weather/64x64/day/119.png"},
		})
	}
	return day
}

func testDays() []models.Day {
	return []models.Day{
		testDay("2024-05-01", "晴れ", 21.3),
		testDay("2024-05-02", "曇り", 18),
		testDay("2024-05-03", "小雨", 15.5),
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderer_Day(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Day(&buf, testDays()[0]))
	doc := parse(t, buf.String())

	assert.Equal(t, "2024-05-01 の天気", doc.Find("h2").Text())
	assert.Equal(t, "時間ごとの天気", doc.Find("h3").Text())

	paragraphs := doc.Find("p").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Contains(t, paragraphs, "平均気温：21.3°C")
	assert.Contains(t, paragraphs, "天気：晴れ")

	icon, _ := doc.Find(`img[alt="天気アイコン"]`).Attr("src")
	assert.Equal(t, "//cdn.weatherapi.com/weather/64x64/day/113.png", icon)

	cards := doc.Find(".hourly-scroll .hour-card")
	require.Equal(t, 24, cards.Length())

	card := cards.Eq(14)
	assert.Equal(t, "14:00", card.Find("p.hour").Text())
	assert.Equal(t, "14.5°C", card.Find("p").Last().Text())
	alt, _ := card.Find("img").Attr("alt")
	assert.Equal(t, "曇り", alt)
}

func TestRenderer_DayEscapesProviderText(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	day := testDay("2024-05-01", `<script>alert("x")</script>`, 10)
	var buf bytes.Buffer
	require.NoError(t, r.Day(&buf, day))

	assert.NotContains(t, buf.String(), "<script>")
	doc := parse(t, buf.String())
	assert.Equal(t, 0, doc.Find("script").Length())
}

func TestRenderer_PageDefaultsToSelectedDay(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, View{City: "Tokyo", Days: testDays(), Selected: 0}))
	doc := parse(t, buf.String())

	tabs := doc.Find(".tab")
	require.Equal(t, 3, tabs.Length())
	assert.Equal(t, 1, doc.Find(".tab.active").Length())
	active, _ := doc.Find(".tab.active").Attr("data-day")
	assert.Equal(t, "0", active)
	assert.Equal(t, "今日", tabs.Eq(0).Text())
	assert.Equal(t, "明後日", tabs.Eq(2).Text())

	assert.Equal(t, "2024-05-01 の天気", doc.Find("#info h2").Text())

	style, _ := doc.Find("body").Attr("style")
	assert.Contains(t, style, `url("/images/sunny.jpg")`)

	value, _ := doc.Find("#cityInput").Attr("value")
	assert.Equal(t, "Tokyo", value)
}

func TestRenderer_PageSelectedDay(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, View{Days: testDays(), Selected: 2}))
	doc := parse(t, buf.String())

	active, _ := doc.Find(".tab.active").Attr("data-day")
	assert.Equal(t, "2", active)
	assert.Equal(t, "2024-05-03 の天気", doc.Find("#info h2").Text())

	style, _ := doc.Find("body").Attr("style")
	assert.Contains(t, style, `url("/images/rainy.jpg")`)
}

func TestRenderer_PageMessage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, View{Message: "エラー: city not found"}))
	doc := parse(t, buf.String())

	assert.Equal(t, "エラー: city not found", strings.TrimSpace(doc.Find("#info").Text()))
	assert.Equal(t, 0, doc.Find(".tab").Length())
}

func TestRenderer_PageNotice(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, View{Notice: "都市を入力してください"}))
	doc := parse(t, buf.String())

	assert.Equal(t, "都市を入力してください", doc.Find(`[role="alert"]`).Text())
	assert.Empty(t, strings.TrimSpace(doc.Find("#info").Text()))
}

func TestRenderer_PageOutOfRangeSelection(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, View{Days: testDays(), Selected: 7}))
	doc := parse(t, buf.String())

	assert.Equal(t, 3, doc.Find(".tab").Length())
	assert.Equal(t, 0, doc.Find(".tab.active").Length())
	assert.Equal(t, 0, doc.Find("#info h2").Length())
}

func TestHourOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2024-05-01 14:00", want: "14:00"},
		{in: "2024-05-01 00:00", want: "00:00"},
		{in: "14:00", want: "14:00"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HourOfDay(tt.in), "HourOfDay(%q)", tt.in)
	}
}

func TestFormatTemp(t *testing.T) {
	assert.Equal(t, "20", FormatTemp(20))
	assert.Equal(t, "20.5", FormatTemp(20.5))
	assert.Equal(t, "-3.2", FormatTemp(-3.2))
	assert.Equal(t, "0", FormatTemp(0))
}
