package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Product is the canonical catalog record. Barcode (GTIN) is the only
// externally meaningful identity: two records sharing a barcode refer to the
// same product and are merged, never duplicated.
type Product struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	Barcode string `json:"barcode" gorm:"type:text;not null;uniqueIndex:ux_products_barcode"`

	Name        string  `json:"name" gorm:"type:text;not null"`
	Brand       *string `json:"brand,omitempty" gorm:"type:text"`
	Description *string `json:"description,omitempty" gorm:"type:text"`

	Category    *string `json:"category,omitempty" gorm:"type:text"`
	Subcategory *string `json:"subcategory,omitempty" gorm:"type:text"`

	Manufacturer  *string `json:"manufacturer,omitempty" gorm:"type:text"`
	OriginCountry *string `json:"origin_country,omitempty" gorm:"type:text"`

	// GPC / NCM / CEST tax and category taxonomy.
	GPCCode                  *string `json:"gpc_code,omitempty" gorm:"column:gpc_code;type:text;index"`
	GPCDescription           *string `json:"gpc_description,omitempty" gorm:"column:gpc_description;type:text"`
	GPCEnglishDescription    *string `json:"gpc_english_description,omitempty" gorm:"column:gpc_english_description;type:text"`
	GPCPortugueseDescription *string `json:"gpc_portuguese_description,omitempty" gorm:"column:gpc_portuguese_description;type:text"`
	NCMCode                  *string `json:"ncm_code,omitempty" gorm:"column:ncm_code;type:text"`
	NCMDescription           *string `json:"ncm_description,omitempty" gorm:"column:ncm_description;type:text"`
	NCMFullDescription       *string `json:"ncm_full_description,omitempty" gorm:"column:ncm_full_description;type:text"`
	NCMEx                    *string `json:"ncm_ex,omitempty" gorm:"column:ncm_ex;type:text"`
	CESTCode                 *string `json:"cest_code,omitempty" gorm:"column:cest_code;type:text"`
	CESTDescription          *string `json:"cest_description,omitempty" gorm:"column:cest_description;type:text"`

	ExternalCategoryID       *int64  `json:"external_category_id,omitempty"`
	ExternalCategoryParentID *int64  `json:"external_category_parent_id,omitempty"`
	ExternalCategoryName     *string `json:"external_category_name,omitempty" gorm:"type:text"`

	// Physical attributes, canonicalized on grams and milliliters.
	QuantityLabel   *string  `json:"quantity_label,omitempty" gorm:"type:text"`
	PackageQuantity *float64 `json:"package_quantity,omitempty"`
	PackageUnit     *string  `json:"package_unit,omitempty" gorm:"type:text"`
	NetWeight       *float64 `json:"net_weight,omitempty"`
	NetWeightUnit   *string  `json:"net_weight_unit,omitempty" gorm:"type:text"`
	GrossWeight     *float64 `json:"gross_weight,omitempty"`
	Volume          *float64 `json:"volume,omitempty"`
	VolumeUnit      *string  `json:"volume_unit,omitempty" gorm:"type:text"`
	Width           *float64 `json:"width,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	Length          *float64 `json:"length,omitempty"`

	// Commercial fields.
	PriceText *string  `json:"price_text,omitempty" gorm:"type:text"`
	PriceMin  *float64 `json:"price_min,omitempty"`
	PriceMax  *float64 `json:"price_max,omitempty"`
	PriceAvg  *float64 `json:"price_avg,omitempty"`

	// Resolved image URLs. A non-null value is never overwritten by null.
	ImageURL        *string `json:"image_url,omitempty" gorm:"type:text"`
	BrandImageURL   *string `json:"brand_image_url,omitempty" gorm:"type:text"`
	BarcodeImageURL *string `json:"barcode_image_url,omitempty" gorm:"type:text"`

	Ingredients *string        `json:"ingredients,omitempty" gorm:"type:text"`
	Allergens   *string        `json:"allergens,omitempty" gorm:"type:text"`
	Tags        datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"`

	// Food attribute flags. Unknown unless the source asserts them.
	// IsGlutenFree is an absence-based inference over allergen tags, not a
	// certification.
	IsVegan      *bool `json:"is_vegan,omitempty"`
	IsVegetarian *bool `json:"is_vegetarian,omitempty"`
	IsGlutenFree *bool `json:"is_gluten_free,omitempty"`

	ReleaseDate *time.Time `json:"release_date,omitempty"`

	// Provenance.
	Source      string         `json:"source" gorm:"type:text;not null;index"`
	ExternalID  *string        `json:"external_id,omitempty" gorm:"type:text"`
	ExternalURL *string        `json:"external_url,omitempty" gorm:"type:text"`
	GTINDetails datatypes.JSON `json:"gtin_details,omitempty" gorm:"column:gtin_details;type:jsonb"`
	SourceRaw   datatypes.JSON `json:"source_raw,omitempty" gorm:"type:jsonb"`

	SourceCreatedAt *time.Time `json:"source_created_at,omitempty"`
	SourceUpdatedAt *time.Time `json:"source_updated_at,omitempty"`

	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
