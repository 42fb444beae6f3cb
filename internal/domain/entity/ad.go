package entity

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryVehicles    Category = "vehicles"
	CategoryRealEstate  Category = "real-estate"
	CategoryServices    Category = "services"
)

// Categories is the closed set of ad categories, in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryVehicles,
	CategoryRealEstate,
	CategoryServices,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryVehicles, CategoryRealEstate, CategoryServices:
		return true
	}
	return false
}

type AdStatus string

const (
	StatusActive  AdStatus = "active"
	StatusPending AdStatus = "pending"
)

func (s AdStatus) Valid() bool {
	return s == StatusActive || s == StatusPending
}

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewComment(text, author string, now time.Time) Comment {
	return Comment{
		ID:        uuid.NewString(),
		Text:      text,
		Author:    author,
		CreatedAt: now.UTC(),
	}
}

type Ad struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Status      AdStatus  `json:"status"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewAd returns an active ad with a fresh id and no comments.
func NewAd(title, description string, category Category, price float64, location string, now time.Time) Ad {
	return Ad{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Category:    category,
		Price:       price,
		Location:    location,
		Status:      StatusActive,
		Comments:    make([]Comment, 0),
		CreatedAt:   now.UTC(),
	}
}

// AddComment appends c; comments are kept in insertion order.
func (a *Ad) AddComment(c Comment) {
	a.Comments = append(a.Comments, c)
}

func (a *Ad) LastComment() (Comment, bool) {
	if len(a.Comments) == 0 {
		return Comment{}, false
	}
	return a.Comments[len(a.Comments)-1], true
}

// Clone returns a deep copy; the comment slice is never shared.
func (a Ad) Clone() Ad {
	out := a
	out.Comments = make([]Comment, len(a.Comments))
	copy(out.Comments, a.Comments)
	return out
}

func CloneAds(ads []Ad) []Ad {
	out := make([]Ad, len(ads))
	for i := range ads {
		out[i] = ads[i].Clone()
	}
	return out
}
