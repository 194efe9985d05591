package openfoodfacts

// SourceName identifies records ingested from the Open Food Facts dump.
const SourceName = "openfoodfacts"

// Record is the subset of an Open Food Facts JSONL line the mapper consumes.
// Everything is optional; the normalizer decides what is usable.
type Record struct {
	ID                      string   `json:"_id"`
	Code                    string   `json:"code"`
	ProductName             string   `json:"product_name"`
	ProductNamePT           string   `json:"product_name_pt"`
	ProductNameEN           string   `json:"product_name_en"`
	GenericName             string   `json:"generic_name"`
	GenericNamePT           string   `json:"generic_name_pt"`
	Brands                  string   `json:"brands"`
	Countries               string   `json:"countries"`
	CountriesTags           []string `json:"countries_tags"`
	Categories              string   `json:"categories"`
	CategoriesTags          []string `json:"categories_tags"`
	Quantity                string   `json:"quantity"`
	ProductQuantity         *float64 `json:"product_quantity"`
	ProductQuantityUnit     string   `json:"product_quantity_unit"`
	ImageURL                string   `json:"image_url"`
	ImageFrontURL           string   `json:"image_front_url"`
	IngredientsText         string   `json:"ingredients_text"`
	Allergens               string   `json:"allergens"`
	AllergensTags           []string `json:"allergens_tags"`
	IngredientsAnalysisTags []string `json:"ingredients_analysis_tags"`
	LabelsTags              []string `json:"labels_tags"`
}
