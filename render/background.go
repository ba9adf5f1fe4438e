package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Category is one of the known condition categories a background exists for
type Category string

const (
	CategorySunny  Category = "sunny"
	CategoryCloudy Category = "cloudy"
	CategoryRainy  Category = "rainy"
	CategorySnow   Category = "snow"
	CategoryNone   Category = ""
)

// FallbackColor is used when no category matches
const FallbackColor = "#f5f6fa"

// categoryRule ties a glyph found in the localized condition text to a category.
type categoryRule struct {
	glyph    string
	category Category
	image    string
}

// order matters: the first matching rule wins
var categoryRules = []categoryRule{
	{glyph: "晴", category: CategorySunny, image: "/images/sunny.jpg"},
	{glyph: "曇", category: CategoryCloudy, image: "/images/cloudy.jpg"},
	{glyph: "雨", category: CategoryRainy, image: "/images/rainy.jpg"},
	{glyph: "雪", category: CategorySnow, image: "/images/snow.jpg"},
}

// Background describes the page background for a condition
type Background struct {
	Category Category `json:"category,omitempty"`
	Image    string   `json:"image,omitempty"`
	Color    string   `json:"color,omitempty"`
}

// SelectBackground classifies a condition description into a background.
// Unknown conditions get the flat fallback color and no image.
func SelectBackground(condition string) Background {
	for _, rule := range categoryRules {
		if strings.Contains(condition, rule.glyph) {
			return Background{Category: rule.category, Image: rule.image}
		}
	}
	return Background{Category: CategoryNone, Color: FallbackColor}
}

// Style renders the background as inline CSS for the body element
func (b Background) Style() template.CSS {
	if b.Image == "" {
		return template.CSS(fmt.Sprintf("background-color: %s", b.Color))
	}
	return template.CSS(fmt.Sprintf(
		"background-image: url(%q); background-size: cover; background-position: center; background-repeat: no-repeat",
		b.Image,
	))
}
