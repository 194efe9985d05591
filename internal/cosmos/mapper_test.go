package cosmos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestMapProductFull(t *testing.T) {
	picture := "https://cdn.example/brand.png"
	parent := int64(10)
	created := "2023-01-15T10:30:00"
	release := "2022-07-01"
	qty := 395.0

	p := Product{
		Description: "Leite Condensado Moça 395g",
		GTIN:        "7891000100103",
		Origin:      strptr("BR"),
		Price:       strptr("R$ 6,99"),
		AvgPrice:    float64ptr(6.5),
		CreatedAt:   &created,
		ReleaseDate: &release,
		Brand:       &Brand{Name: "Nestlé", Picture: &picture},
		GPC:         &GPC{Code: "50131702", Description: "Leite condensado"},
		NCM:         &NCM{Code: "0402.99.00", Description: "Leite e creme de leite"},
		CEST:        &CEST{ID: 1, Code: "17.012.00", Description: "Leite condensado"},
		Category:    &Category{ID: 42, Description: "Laticínios", ParentID: &parent},
		GTINs: []GTINEntry{
			{GTIN: "7891000100103", CommercialUnit: &CommercialUnit{TypePackaging: strptr("LATA"), QuantityPackaging: &qty}},
		},
	}

	out := MapProduct(p, "7891000100103", "50131702", ImageSet{ProductURL: "http://assets.local/p.jpg"}, PageMeta{
		GPCEnglishDescription: strptr("Milk Products"),
	})

	assert.Equal(t, "7891000100103", out.Barcode)
	assert.Equal(t, "Leite Condensado Moça 395g", out.Name)
	assert.Equal(t, SourceName, out.Source)
	assert.True(t, out.IsActive)

	require.NotNil(t, out.Brand)
	assert.Equal(t, "Nestlé", *out.Brand)
	require.NotNil(t, out.GPCCode)
	assert.Equal(t, "50131702", *out.GPCCode)
	require.NotNil(t, out.NCMCode)
	assert.Equal(t, "0402.99.00", *out.NCMCode)
	require.NotNil(t, out.CESTCode)
	assert.Equal(t, "17.012.00", *out.CESTCode)
	require.NotNil(t, out.ExternalCategoryID)
	assert.EqualValues(t, 42, *out.ExternalCategoryID)
	require.NotNil(t, out.ExternalCategoryParentID)
	assert.EqualValues(t, 10, *out.ExternalCategoryParentID)

	require.NotNil(t, out.PackageUnit)
	assert.Equal(t, "LATA", *out.PackageUnit)
	require.NotNil(t, out.PackageQuantity)
	assert.Equal(t, 395.0, *out.PackageQuantity)

	require.NotNil(t, out.ImageURL)
	assert.Equal(t, "http://assets.local/p.jpg", *out.ImageURL)
	assert.Nil(t, out.BrandImageURL, "unresolved image must stay null")

	require.NotNil(t, out.SourceCreatedAt)
	assert.Equal(t, time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC), *out.SourceCreatedAt)
	require.NotNil(t, out.ReleaseDate)
	assert.Equal(t, time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC), *out.ReleaseDate)

	require.NotEmpty(t, out.GTINDetails)
	require.NotEmpty(t, out.SourceRaw)
	var raw Product
	require.NoError(t, json.Unmarshal(out.SourceRaw, &raw))
	assert.Equal(t, p.Description, raw.Description)
}

func TestMapProductMinimal(t *testing.T) {
	out := MapProduct(Product{GTIN: "7891000100103"}, "7891000100103", "50131702", ImageSet{}, PageMeta{})

	assert.Equal(t, "7891000100103", out.Name, "name falls back to the gtin")
	assert.Nil(t, out.Description)
	assert.Nil(t, out.Brand)
	assert.Nil(t, out.ImageURL)
	assert.Nil(t, out.ReleaseDate)
	require.NotNil(t, out.GPCCode)
	assert.Equal(t, "50131702", *out.GPCCode)
	assert.Empty(t, out.GTINDetails)
}

func TestMapProductProductGPCBeatsPageCode(t *testing.T) {
	out := MapProduct(Product{GPC: &GPC{Code: "50131800"}}, "1", "50131702", ImageSet{}, PageMeta{})
	require.NotNil(t, out.GPCCode)
	assert.Equal(t, "50131800", *out.GPCCode)
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want *time.Time
	}{
		{"2023-01-15T10:30:00Z", timeptr(time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC))},
		{"2023-01-15T10:30:00", timeptr(time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC))},
		{"2023-01-15", timeptr(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))},
		{"not a date", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := parseDate(&tc.in)
		if tc.want == nil {
			assert.Nil(t, got, tc.in)
			continue
		}
		require.NotNil(t, got, tc.in)
		assert.Equal(t, *tc.want, *got, tc.in)
	}
}

func TestGTINUnmarshalNumberAndString(t *testing.T) {
	var e GTINEntry
	require.NoError(t, json.Unmarshal([]byte(`{"gtin":7891000100103}`), &e))
	assert.Equal(t, "7891000100103", e.GTIN.Normalize())

	require.NoError(t, json.Unmarshal([]byte(`{"gtin":"  7891000100103 "}`), &e))
	assert.Equal(t, "7891000100103", e.GTIN.Normalize())
}

func float64ptr(f float64) *float64 { return &f }

func timeptr(t time.Time) *time.Time { return &t }
