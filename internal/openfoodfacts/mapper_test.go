package openfoodfacts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBrazilCandidate(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want bool
	}{
		{"brazil tag", Record{CountriesTags: []string{"en:brazil"}}, true},
		{"brasil tag", Record{CountriesTags: []string{"en:brasil"}}, true},
		{"free-form countries", Record{Countries: "França, Brasil"}, true},
		{"case insensitive", Record{Countries: "BRAZIL"}, true},
		{"gs1 789 prefix", Record{Code: "7891000100103"}, true},
		{"other country", Record{Countries: "France", Code: "3017620422003"}, false},
		{"empty", Record{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsBrazilCandidate(tc.rec))
		})
	}
}

func TestMapRejectsUnusableRecords(t *testing.T) {
	_, ok := Map(Record{Code: "7891000100103"})
	assert.False(t, ok, "record without any name is unusable")

	_, ok = Map(Record{ProductName: "Leite Moça"})
	assert.False(t, ok, "record without a barcode is unusable")

	_, ok = Map(Record{Code: "  ", ProductName: "Leite Moça"})
	assert.False(t, ok)
}

func TestMapNamePreference(t *testing.T) {
	out, ok := Map(Record{
		Code:          "7891000100103",
		ProductName:   "Condensed Milk",
		ProductNamePT: "Leite Condensado",
		ProductNameEN: "Sweetened Condensed Milk",
	})
	require.True(t, ok)
	assert.Equal(t, "Leite Condensado", out.Name, "portuguese name wins")

	out, ok = Map(Record{Code: "7891000100103", ProductNameEN: "Condensed Milk"})
	require.True(t, ok)
	assert.Equal(t, "Condensed Milk", out.Name)
}

func TestMapCanonicalizesQuantity(t *testing.T) {
	q := 1.5
	out, ok := Map(Record{
		Code:                "7891000100103",
		ProductName:         "Arroz",
		ProductQuantity:     &q,
		ProductQuantityUnit: "kg",
	})
	require.True(t, ok)
	require.NotNil(t, out.NetWeight)
	assert.Equal(t, 1500.0, *out.NetWeight)
	require.NotNil(t, out.NetWeightUnit)
	assert.Equal(t, "g", *out.NetWeightUnit)

	v := 2.0
	out, ok = Map(Record{
		Code:                "7891000100103",
		ProductName:         "Suco",
		ProductQuantity:     &v,
		ProductQuantityUnit: "L",
	})
	require.True(t, ok)
	require.NotNil(t, out.Volume)
	assert.Equal(t, 2000.0, *out.Volume)
	require.NotNil(t, out.VolumeUnit)
	assert.Equal(t, "ml", *out.VolumeUnit)
}

func TestMapDietaryFlags(t *testing.T) {
	out, ok := Map(Record{
		Code:                    "7891000100103",
		ProductName:             "Granola",
		IngredientsAnalysisTags: []string{"en:vegan", "en:vegetarian"},
		AllergensTags:           []string{"en:nuts"},
	})
	require.True(t, ok)
	require.NotNil(t, out.IsVegan)
	assert.True(t, *out.IsVegan)
	require.NotNil(t, out.IsVegetarian)
	assert.True(t, *out.IsVegetarian)
	require.NotNil(t, out.IsGlutenFree)
	assert.True(t, *out.IsGlutenFree, "no gluten allergen tag present")

	out, ok = Map(Record{
		Code:          "7891000100103",
		ProductName:   "Pão",
		AllergensTags: []string{"en:gluten"},
	})
	require.True(t, ok)
	require.NotNil(t, out.IsGlutenFree)
	assert.False(t, *out.IsGlutenFree)
	require.NotNil(t, out.IsVegan)
	assert.False(t, *out.IsVegan)
}

func TestMapBrandAndTags(t *testing.T) {
	out, ok := Map(Record{
		Code:           "7891000100103",
		ProductName:    "Leite Moça",
		Brands:         "Nestlé, Moça",
		Categories:     "Laticínios, Doces",
		CategoriesTags: []string{"en:dairies"},
		LabelsTags:     []string{"en:organic"},
		ImageFrontURL:  "https://images.openfoodfacts.org/front.jpg",
		ImageURL:       "https://images.openfoodfacts.org/plain.jpg",
	})
	require.True(t, ok)

	require.NotNil(t, out.Brand)
	assert.Equal(t, "Nestlé", *out.Brand, "only the first brand token is kept")
	require.NotNil(t, out.Category)
	assert.Equal(t, "Laticínios", *out.Category)

	require.NotNil(t, out.ImageURL)
	assert.Equal(t, "https://images.openfoodfacts.org/front.jpg", *out.ImageURL, "front image preferred")

	var tags []string
	require.NoError(t, json.Unmarshal(out.Tags, &tags))
	assert.Equal(t, []string{"en:dairies", "en:organic"}, tags)

	require.NotNil(t, out.ExternalURL)
	assert.Equal(t, "https://world.openfoodfacts.org/product/7891000100103", *out.ExternalURL)
	require.NotNil(t, out.OriginCountry)
	assert.Equal(t, "BR", *out.OriginCountry)
	assert.Equal(t, SourceName, out.Source)
}
