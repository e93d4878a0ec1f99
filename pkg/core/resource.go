package core

import (
	"fmt"
	"time"
)

// DefaultID is the sentinel identifier given to seed records.
const DefaultID int64 = 1

// Seed payloads used by the default constructors.
const (
	DefaultLatitude     = 37.421998
	DefaultLongitude    = -122.084
	DefaultPriceTitle   = "Price"
	DefaultPriceContent = "0.00"
)

// Resource is implemented by every record a store can seed and persist.
type Resource interface {
	// Kind names the record type. Persisters use it as the default file stem.
	Kind() string
	Validate() error
}

// LocationResource is a position fix captured at Time (Unix milliseconds).
type LocationResource struct {
	ID        int64   `json:"id" yaml:"id"`
	Time      int64   `json:"time" yaml:"time"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// DefaultLocationResource returns the seed location record.
// Only Time depends on the call; every other field is fixed.
func DefaultLocationResource() LocationResource {
	return LocationResource{
		ID:        DefaultID,
		Time:      time.Now().UnixMilli(),
		Latitude:  DefaultLatitude,
		Longitude: DefaultLongitude,
	}
}

// Kind implements Resource.
func (LocationResource) Kind() string { return "location" }

// Validate implements Resource.
func (l LocationResource) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("location %d: %w", l.ID, ErrInvalidID)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %v: %w", l.Latitude, ErrInvalidCoordinate)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %v: %w", l.Longitude, ErrInvalidCoordinate)
	}
	return nil
}

// Timestamp returns Time as a time.Time.
func (l LocationResource) Timestamp() time.Time {
	return time.UnixMilli(l.Time)
}

// Moved returns a replacement record for the same ID at a new position.
func (l LocationResource) Moved(lat, lon float64, at time.Time) LocationResource {
	return LocationResource{
		ID:        l.ID,
		Time:      at.UnixMilli(),
		Latitude:  lat,
		Longitude: lon,
	}
}

// PriceResource is a titled price entry created at DateCreated (Unix milliseconds).
type PriceResource struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	DateCreated int64  `json:"dateCreated" yaml:"dateCreated"`
	Content     string `json:"content" yaml:"content"`
}

// DefaultPriceResource returns the seed price record.
// Only DateCreated depends on the call; every other field is fixed.
func DefaultPriceResource() PriceResource {
	return PriceResource{
		ID:          DefaultID,
		Title:       DefaultPriceTitle,
		DateCreated: time.Now().UnixMilli(),
		Content:     DefaultPriceContent,
	}
}

// Kind implements Resource.
func (PriceResource) Kind() string { return "price" }

// Validate implements Resource.
func (p PriceResource) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("price %d: %w", p.ID, ErrInvalidID)
	}
	return nil
}

// Timestamp returns DateCreated as a time.Time.
func (p PriceResource) Timestamp() time.Time {
	return time.UnixMilli(p.DateCreated)
}

// Revised returns a replacement record carrying new content.
func (p PriceResource) Revised(content string, at time.Time) PriceResource {
	return PriceResource{
		ID:          p.ID,
		Title:       p.Title,
		DateCreated: at.UnixMilli(),
		Content:     content,
	}
}

var (
	_ Resource = LocationResource{}
	_ Resource = PriceResource{}
)
