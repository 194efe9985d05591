package cosmos

import (
	"encoding/json"
	"time"

	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"gorm.io/datatypes"
)

// SourceName identifies records ingested from the Cosmos catalog.
const SourceName = "cosmos"

// ImageSet holds the resolved image URLs for one product. Empty string means
// unresolved.
type ImageSet struct {
	ProductURL string
	BrandURL   string
	BarcodeURL string
}

// PageMeta carries the category-level descriptions shared by every product
// on a page.
type PageMeta struct {
	GPCEnglishDescription    *string
	GPCPortugueseDescription *string
}

// MapProduct converts a raw Cosmos product into the canonical shape. Missing
// optional fields stay nil rather than becoming zero values. The caller has
// already normalized gtin to a non-empty string.
func MapProduct(p Product, gtin, gpcCode string, images ImageSet, meta PageMeta) productdomain.Product {
	name := p.Description
	if name == "" {
		name = gtin
	}

	out := productdomain.Product{
		Barcode:       gtin,
		Name:          name,
		Description:   optionalString(p.Description),
		OriginCountry: p.Origin,

		Width:       p.Width,
		Height:      p.Height,
		Length:      p.Length,
		NetWeight:   p.NetWeight,
		GrossWeight: p.GrossWeight,

		PriceText: p.Price,
		PriceMin:  p.MinPrice,
		PriceMax:  p.MaxPrice,
		PriceAvg:  p.AvgPrice,

		ImageURL:        optionalString(images.ProductURL),
		BrandImageURL:   optionalString(images.BrandURL),
		BarcodeImageURL: optionalString(images.BarcodeURL),

		GPCEnglishDescription:    meta.GPCEnglishDescription,
		GPCPortugueseDescription: meta.GPCPortugueseDescription,

		ReleaseDate:     parseDate(p.ReleaseDate),
		SourceCreatedAt: parseDate(p.CreatedAt),
		SourceUpdatedAt: parseDate(p.UpdatedAt),

		Source:     SourceName,
		ExternalID: optionalString(gtin),
		IsActive:   true,
	}

	gpc := gpcCode
	if p.GPC != nil {
		if p.GPC.Code != "" {
			gpc = p.GPC.Code
		}
		out.GPCDescription = optionalString(p.GPC.Description)
	}
	out.GPCCode = optionalString(gpc)

	if p.Brand != nil {
		out.Brand = optionalString(p.Brand.Name)
		out.Manufacturer = optionalString(p.Brand.Name)
	}

	if p.NCM != nil {
		out.NCMCode = optionalString(p.NCM.Code)
		out.NCMDescription = optionalString(p.NCM.Description)
		out.NCMFullDescription = p.NCM.FullDescription
		out.NCMEx = p.NCM.Ex
	}

	if p.CEST != nil {
		out.CESTCode = optionalString(p.CEST.Code)
		out.CESTDescription = optionalString(p.CEST.Description)
	}

	if p.Category != nil {
		out.Category = optionalString(p.Category.Description)
		out.ExternalCategoryName = optionalString(p.Category.Description)
		id := p.Category.ID
		out.ExternalCategoryID = &id
		out.ExternalCategoryParentID = p.Category.ParentID
	}

	if len(p.GTINs) > 0 {
		if cu := p.GTINs[0].CommercialUnit; cu != nil {
			out.QuantityLabel = cu.TypePackaging
			out.PackageQuantity = cu.QuantityPackaging
			out.PackageUnit = cu.TypePackaging
		}
		if raw, err := json.Marshal(p.GTINs); err == nil {
			out.GTINDetails = datatypes.JSON(raw)
		}
	}

	// Raw payload retained verbatim for audit.
	if raw, err := json.Marshal(p); err == nil {
		out.SourceRaw = datatypes.JSON(raw)
	}

	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDate accepts the upstream timestamp formats and returns nil for
// anything unparseable.
func parseDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, *value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
