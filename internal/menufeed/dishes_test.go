package menufeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nypl-labs/menufeed/internal/model"
)

func TestParseDishes_JoinsByID(t *testing.T) {
	dishes := ParseDishes("1###Soup@@2###Salad", "2###4.5@@1###3", "", true)
	require.Len(t, dishes, 2)
	assert.Equal(t, model.Dish{ID: "1", Name: "Soup", Price: "3.00"}, dishes[0])
	assert.Equal(t, model.Dish{ID: "2", Name: "Salad", Price: "4.50"}, dishes[1])
}

func TestParseDishes_MissingPrice(t *testing.T) {
	dishes := ParseDishes("1###Soup", "", "$", true)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Soup", dishes[0].Name)
	assert.Empty(t, dishes[0].Price)

	dishes = ParseDishes("1###Soup@@2###Salad", "2###1.25", "$", true)
	require.Len(t, dishes, 2)
	assert.Empty(t, dishes[0].Price, "no price entry for dish 1")
	assert.Equal(t, "$1.25", dishes[1].Price)
}

func TestParseDishes_EmptyDishField(t *testing.T) {
	assert.Nil(t, ParseDishes("", "", "$", true))
	assert.Nil(t, ParseDishes("", "1###3.00@@2###4", "$", true))
}

func TestParseDishes_CurrencyPlacement(t *testing.T) {
	before := ParseDishes("1###Soup", "1###3", "$", true)
	require.Len(t, before, 1)
	assert.Equal(t, "$3.00", before[0].Price)

	after := ParseDishes("1###Soup", "1###3", "$", false)
	require.Len(t, after, 1)
	assert.Equal(t, "3.00$", after[0].Price)
}

func TestParseDishes_Tolerance(t *testing.T) {
	tests := []struct {
		name   string
		dishes string
		prices string
		want   []model.Dish
	}{
		{
			name:   "malformed dish token skipped",
			dishes: "1###Soup@@garbage@@2###Salad",
			prices: "",
			want:   []model.Dish{{ID: "1", Name: "Soup"}, {ID: "2", Name: "Salad"}},
		},
		{
			name:   "non numeric price ignored",
			dishes: "1###Soup",
			prices: "1###n/a",
			want:   []model.Dish{{ID: "1", Name: "Soup"}},
		},
		{
			name:   "truncated price column",
			dishes: "1###Soup@@2###Salad",
			prices: "1###0.5@@2##",
			want:   []model.Dish{{ID: "1", Name: "Soup", Price: "0.50"}, {ID: "2", Name: "Salad"}},
		},
		{
			name:   "names keep markup characters",
			dishes: "7###Eggs <b>& Ham</b>",
			prices: "7###12",
			want:   []model.Dish{{ID: "7", Name: "Eggs <b>& Ham</b>", Price: "12.00"}},
		},
		{
			name:   "thousands grouping",
			dishes: "9###Banquet",
			prices: "9###1234.5",
			want:   []model.Dish{{ID: "9", Name: "Banquet", Price: "1,234.50"}},
		},
		{
			name:   "repeated dish keeps both entries",
			dishes: "3###Tea@@3###Tea",
			prices: "3###0.1",
			want:   []model.Dish{{ID: "3", Name: "Tea", Price: "0.10"}, {ID: "3", Name: "Tea", Price: "0.10"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDishes(tt.dishes, tt.prices, "", true))
		})
	}
}

func TestParseDishes_RoundsHalvesAwayFromZero(t *testing.T) {
	tests := map[string]string{
		"0.125":   "0.13",
		"2.675":   "2.68",
		"1.005":   "1.01",
		"0.124":   "0.12",
		"3":       "3.00",
		"1e-2":    "0.01",
		"999.995": "1,000.00",
	}
	for raw, want := range tests {
		dishes := ParseDishes("1###Soup", "1###"+raw, "$", true)
		require.Len(t, dishes, 1)
		assert.Equal(t, "$"+want, dishes[0].Price, "raw %q", raw)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$3.00", FormatPrice("3.00", "$", true))
	assert.Equal(t, "3.00$", FormatPrice("3.00", "$", false))
	assert.Equal(t, "3.00", FormatPrice("3.00", "", false))
}
