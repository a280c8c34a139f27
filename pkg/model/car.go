package model

import "time"

const (
	CategorySUV      = "SUV"
	CategorySedan    = "Sedan"
	CategoryLuxury   = "Luxury"
	CategoryElectric = "Electric"
)

const (
	TransmissionAutomatic = "Automatic"
	TransmissionManual    = "Manual"
)

const (
	FuelPetrol   = "Petrol"
	FuelDiesel   = "Diesel"
	FuelElectric = "Electric"
	FuelHybrid   = "Hybrid"
)

type Car struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title"`
	Brand        string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Category     string    `json:"category" bson:"category"`
	PricePerDay  float64   `json:"price_per_day" bson:"price_per_day"`
	Transmission string    `json:"transmission" bson:"transmission"`
	FuelType     string    `json:"fuel_type" bson:"fuel_type"`
	Seats        int       `json:"seats" bson:"seats"`
	Rating       float64   `json:"rating" bson:"rating"`
	ReviewsCount int       `json:"reviews_count" bson:"reviews_count"`
	ImageURL     string    `json:"image_url" bson:"image_url"`
	IsFeatured   bool      `json:"is_featured" bson:"is_featured"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedBy    string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// CarRequest is the admin car creation payload.
type CarRequest struct {
	Title        string  `json:"title" validate:"required,min=2,max=120"`
	Brand        string  `json:"brand" validate:"omitempty,max=60"`
	Category     string  `json:"category" validate:"required,oneof=SUV Sedan Luxury Electric"`
	PricePerDay  float64 `json:"price_per_day" validate:"required,gt=0"`
	Transmission string  `json:"transmission" validate:"required,oneof=Automatic Manual"`
	FuelType     string  `json:"fuel_type" validate:"required,oneof=Petrol Diesel Electric Hybrid"`
	Seats        int     `json:"seats" validate:"required,min=1,max=12"`
	ImageURL     string  `json:"image_url" validate:"omitempty,url"`
	IsFeatured   bool    `json:"is_featured"`
}

// Catalog sort orders. An empty or unknown value falls back to
// featured-first.
const (
	SortFeatured  = "featured"
	SortRating    = "rating"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// CarQuery carries the public catalog listing filters.
type CarQuery struct {
	Category  string
	MinRating float64
	SortBy    string
}

// CarUpdate carries the optional fields of a partial car update.
type CarUpdate struct {
	Title        *string  `json:"title,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	Category     *string  `json:"category,omitempty"`
	PricePerDay  *float64 `json:"price_per_day,omitempty"`
	Transmission *string  `json:"transmission,omitempty"`
	FuelType     *string  `json:"fuel_type,omitempty"`
	Seats        *int     `json:"seats,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewsCount *int     `json:"reviews_count,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	IsFeatured   *bool    `json:"is_featured,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}
