package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBackground(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		category  Category
		image     string
	}{
		{name: "sunny", condition: "晴れ", category: CategorySunny, image: "/images/sunny.jpg"},
		{name: "cloudy", condition: "曇り", category: CategoryCloudy, image: "/images/cloudy.jpg"},
		{name: "rainy", condition: "小雨", category: CategoryRainy, image: "/images/rainy.jpg"},
		{name: "snow", condition: "雪", category: CategorySnow, image: "/images/snow.jpg"},
		{name: "sunny before cloudy", condition: "晴れ時々曇り", category: CategorySunny, image: "/images/sunny.jpg"},
		{name: "cloudy before rainy", condition: "曇り一時雨", category: CategoryCloudy, image: "/images/cloudy.jpg"},
		{name: "rainy before snow", condition: "雨または雪", category: CategoryRainy, image: "/images/rainy.jpg"},
		{name: "rainy wins wherever it appears", condition: "雪のち雨", category: CategoryRainy, image: "/images/rainy.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg := SelectBackground(tt.condition)
			assert.Equal(t, tt.category, bg.Category)
			assert.Equal(t, tt.image, bg.Image)
			assert.Empty(t, bg.Color)
		})
	}
}

func TestSelectBackground_Fallback(t *testing.T) {
	for _, condition := range []string{"", "霧", "Sunny", "雷"} {
		bg := SelectBackground(condition)
		assert.Equal(t, CategoryNone, bg.Category, condition)
		assert.Empty(t, bg.Image, condition)
		assert.Equal(t, FallbackColor, bg.Color, condition)
	}
}

func TestBackground_Style(t *testing.T) {
	assert.Equal(t,
		`background-image: url("/images/snow.jpg"); background-size: cover; background-position: center; background-repeat: no-repeat`,
		string(SelectBackground("大雪").Style()),
	)
	assert.Equal(t, "background-color: #f5f6fa", string(SelectBackground("霧").Style()))
}
