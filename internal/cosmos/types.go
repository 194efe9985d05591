package cosmos

import (
	"encoding/json"
	"strconv"
	"strings"
)

// GTIN appears in upstream payloads both as a string and as a bare number.
type GTIN string

func (g *GTIN) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*g = GTIN(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*g = GTIN(n.String())
	return nil
}

// Normalize trims the GTIN and returns "" when it carries no identity.
func (g GTIN) Normalize() string {
	return strings.TrimSpace(string(g))
}

type Brand struct {
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

type GPC struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type NCM struct {
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	FullDescription *string `json:"full_description"`
	Ex              *string `json:"ex"`
}

type CEST struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
}

type Category struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
}

type CommercialUnit struct {
	TypePackaging     *string  `json:"type_packaging"`
	QuantityPackaging *float64 `json:"quantity_packaging"`
	Ballast           *int     `json:"ballast"`
	Layer             *int     `json:"layer"`
}

type GTINEntry struct {
	GTIN           GTIN            `json:"gtin"`
	CommercialUnit *CommercialUnit `json:"commercial_unit"`
}

type Product struct {
	Description  string      `json:"description"`
	GTIN         GTIN        `json:"gtin"`
	Thumbnail    *string     `json:"thumbnail"`
	Width        *float64    `json:"width"`
	Height       *float64    `json:"height"`
	Length       *float64    `json:"length"`
	NetWeight    *float64    `json:"net_weight"`
	GrossWeight  *float64    `json:"gross_weight"`
	CreatedAt    *string     `json:"created_at"`
	UpdatedAt    *string     `json:"updated_at"`
	ReleaseDate  *string     `json:"release_date"`
	Price        *string     `json:"price"`
	AvgPrice     *float64    `json:"avg_price"`
	MaxPrice     *float64    `json:"max_price"`
	MinPrice     *float64    `json:"min_price"`
	GTINs        []GTINEntry `json:"gtins"`
	Origin       *string     `json:"origin"`
	BarcodeImage *string     `json:"barcode_image"`
	Brand        *Brand      `json:"brand"`
	GPC          *GPC        `json:"gpc"`
	NCM          *NCM        `json:"ncm"`
	CEST         *CEST       `json:"cest"`
	Category     *Category   `json:"category"`
}

// GPCPage is one page of a GPC category listing.
type GPCPage struct {
	Code               string    `json:"code"`
	EnglishDescription *string   `json:"english_description"`
	Portuguese         *string   `json:"portuguese"`
	CurrentPage        *int      `json:"current_page"`
	NextPage           *string   `json:"next_page"`
	TotalPages         *int      `json:"total_pages"`
	TotalCount         *int      `json:"total_count"`
	Products           []Product `json:"products"`
}

// ResolveCurrentPage picks the page the response actually represents,
// preferring the upstream value over the requested one, defaulting to 1.
func (p *GPCPage) ResolveCurrentPage(requested string) int {
	if p.CurrentPage != nil && *p.CurrentPage > 0 {
		return *p.CurrentPage
	}
	if n, err := strconv.Atoi(strings.TrimSpace(requested)); err == nil && n > 0 {
		return n
	}
	return 1
}
