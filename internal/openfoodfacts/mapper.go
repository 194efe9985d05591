package openfoodfacts

import (
	"encoding/json"
	"strings"

	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"gorm.io/datatypes"
)

// IsBrazilCandidate reports whether the record plausibly belongs to the
// Brazilian market: a brazil country tag, a brazil mention in the free-form
// countries field, or a barcode in the 789 GS1 prefix range.
func IsBrazilCandidate(r Record) bool {
	for _, tag := range r.CountriesTags {
		lower := strings.ToLower(tag)
		if strings.Contains(lower, "brazil") || strings.Contains(lower, "brasil") {
			return true
		}
	}
	lower := strings.ToLower(r.Countries)
	if strings.Contains(lower, "brazil") || strings.Contains(lower, "brasil") {
		return true
	}
	return strings.HasPrefix(r.Code, "789")
}

// Map normalizes a raw record into the canonical product shape. A record
// lacking both a usable display name and a barcode is rejected (ok=false);
// rejection is not an error.
//
// The gluten-free flag is inferred from the absence of any allergen tag
// containing "gluten". The source does not distinguish confirmed gluten-free
// from missing allergen data, so this is a heuristic, not a certification.
func Map(r Record) (productdomain.Product, bool) {
	name := firstNonEmpty(r.ProductNamePT, r.ProductName, r.ProductNameEN)
	barcode := strings.TrimSpace(r.Code)
	if name == "" || barcode == "" {
		return productdomain.Product{}, false
	}

	out := productdomain.Product{
		Barcode:  barcode,
		Name:     name,
		Source:   SourceName,
		IsActive: true,
	}

	if brand := firstCommaToken(r.Brands); brand != "" {
		out.Brand = &brand
	}
	if desc := firstNonEmpty(r.GenericNamePT, r.GenericName); desc != "" {
		out.Description = &desc
	}
	if category := categoryOf(r); category != "" {
		out.Category = &category
	}
	origin := "BR"
	out.OriginCountry = &origin

	if r.Quantity != "" {
		q := r.Quantity
		out.QuantityLabel = &q
	}
	applyQuantity(&out, r)

	if r.IngredientsText != "" {
		v := r.IngredientsText
		out.Ingredients = &v
	}
	if r.Allergens != "" {
		v := r.Allergens
		out.Allergens = &v
	}

	vegan := containsTag(r.IngredientsAnalysisTags, "en:vegan")
	vegetarian := containsTag(r.IngredientsAnalysisTags, "en:vegetarian")
	glutenFree := !anyTagContains(r.AllergensTags, "gluten")
	out.IsVegan = &vegan
	out.IsVegetarian = &vegetarian
	out.IsGlutenFree = &glutenFree

	tags := make([]string, 0, len(r.CategoriesTags)+len(r.LabelsTags)+len(r.IngredientsAnalysisTags))
	tags = append(tags, r.CategoriesTags...)
	tags = append(tags, r.LabelsTags...)
	tags = append(tags, r.IngredientsAnalysisTags...)
	if len(tags) > 0 {
		if raw, err := json.Marshal(tags); err == nil {
			out.Tags = datatypes.JSON(raw)
		}
	}

	if img := firstNonEmpty(r.ImageFrontURL, r.ImageURL); img != "" {
		out.ImageURL = &img
	}

	externalID := firstNonEmpty(r.ID, r.Code)
	if externalID != "" {
		out.ExternalID = &externalID
	}
	externalURL := "https://world.openfoodfacts.org/product/" + barcode
	out.ExternalURL = &externalURL

	return out, true
}

// applyQuantity canonicalizes product_quantity on the smaller unit:
// kilograms become grams, liters become milliliters.
func applyQuantity(out *productdomain.Product, r Record) {
	if r.ProductQuantity == nil || r.ProductQuantityUnit == "" {
		return
	}
	value := *r.ProductQuantity
	switch strings.ToLower(r.ProductQuantityUnit) {
	case "g":
		unit := "g"
		out.NetWeight = &value
		out.NetWeightUnit = &unit
	case "kg":
		unit := "g"
		grams := value * 1000
		out.NetWeight = &grams
		out.NetWeightUnit = &unit
	case "ml":
		unit := "ml"
		out.Volume = &value
		out.VolumeUnit = &unit
	case "l":
		unit := "ml"
		ml := value * 1000
		out.Volume = &ml
		out.VolumeUnit = &unit
	}
}

func categoryOf(r Record) string {
	if r.Categories != "" {
		if first := firstCommaToken(r.Categories); first != "" {
			return first
		}
	}
	if len(r.CategoriesTags) > 0 {
		tag := r.CategoriesTags[0]
		if idx := strings.LastIndex(tag, ":"); idx >= 0 {
			return tag[idx+1:]
		}
		return tag
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstCommaToken(list string) string {
	first, _, _ := strings.Cut(list, ",")
	return strings.TrimSpace(first)
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func anyTagContains(tags []string, substr string) bool {
	for _, t := range tags {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}
