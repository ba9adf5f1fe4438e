package render

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"

	"weather-widget/models"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Title is the page heading
const Title = "3日間の天気予報"

// tabLabels name the day tabs by their offset from today
var tabLabels = []string{"今日", "明日", "明後日"}

// View is everything the page needs to draw one visitor's widget
type View struct {
	City     string
	Days     []models.Day
	Selected int
	Message  string // replaces the display area content when set
	Notice   string // blocking notice shown above the display area
}

// Tab is a single day selector
type Tab struct {
	Index  int
	Label  string
	Date   string
	Active bool
}

type pageData struct {
	Title     string
	City      string
	Notice    string
	Message   string
	Tabs      []Tab
	Day       *models.Day
	BodyStyle template.CSS
}

// Renderer executes the widget templates
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.New("widget").
		Funcs(sprig.FuncMap()).
		Funcs(template.FuncMap{
			"temp":      FormatTemp,
			"hourOfDay": HourOfDay,
		}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}
	return &Renderer{templates: tmpl}, nil
}

// Day renders the display area content for a single day
func (r *Renderer) Day(w io.Writer, day models.Day) error {
	return r.templates.ExecuteTemplate(w, "day", day)
}

// Page renders the full widget page. The background follows the selected
// day's condition; without a valid selection no day is drawn and the body
// keeps the default background.
func (r *Renderer) Page(w io.Writer, v View) error {
	data := pageData{
		Title:   Title,
		City:    v.City,
		Notice:  v.Notice,
		Message: v.Message,
		Tabs:    Tabs(v.Days, v.Selected),
	}

	forecast := models.Forecast{Days: v.Days}
	if forecast.ValidDay(v.Selected) {
		day := v.Days[v.Selected]
		data.Day = &day
		data.BodyStyle = SelectBackground(day.Condition.Text).Style()
	}

	return r.templates.ExecuteTemplate(w, "page", data)
}

// Tabs builds one selector per day with exactly the selected one active
func Tabs(days []models.Day, selected int) []Tab {
	tabs := make([]Tab, 0, len(days))
	for i, day := range days {
		tab := Tab{Index: i, Date: day.Date, Active: i == selected}
		if i < len(tabLabels) {
			tab.Label = tabLabels[i]
		}
		tabs = append(tabs, tab)
	}
	return tabs
}

// HourOfDay drops the date part of an hourly timestamp ("2024-05-01 14:00" -> "14:00")
func HourOfDay(timestamp string) string {
	if _, clock, ok := strings.Cut(timestamp, " "); ok {
		return clock
	}
	return timestamp
}

// FormatTemp prints a temperature in its shortest form (20, 20.5)
func FormatTemp(celsius float64) string {
	return strconv.FormatFloat(celsius, 'f', -1, 64)
}
