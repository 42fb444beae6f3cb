package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidFilter = errors.New("invalid filter parameters")

// FilterAll disables the category or status clause.
const FilterAll = "all"

// Filter is the active query over the ad collection. Empty strings and nil
// bounds never constrain.
type Filter struct {
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Location string   `json:"location"`
	Search   string   `json:"search"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
}

func DefaultFilter() Filter {
	return Filter{
		Category: FilterAll,
		Status:   FilterAll,
	}
}

func (f Filter) Validate() error {
	if f.Category != "" && f.Category != FilterAll && !Category(f.Category).Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, f.Category)
	}
	if f.Status != "" && f.Status != FilterAll && !AdStatus(f.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: negative minPrice", ErrInvalidFilter)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("%w: negative maxPrice", ErrInvalidFilter)
	}
	return nil
}

// Clone copies the price bounds so the result shares no pointers with f.
func (f Filter) Clone() Filter {
	out := f
	if f.MinPrice != nil {
		v := *f.MinPrice
		out.MinPrice = &v
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		out.MaxPrice = &v
	}
	return out
}

// FilterPatch is a partial Filter. Nil fields are left untouched; the Clear
// flags unset a price bound and win over a value given in the same patch.
type FilterPatch struct {
	Category      *string
	Status        *string
	Location      *string
	Search        *string
	MinPrice      *float64
	MaxPrice      *float64
	ClearMinPrice bool
	ClearMaxPrice bool
}

func (p FilterPatch) Empty() bool {
	return p.Category == nil && p.Status == nil && p.Location == nil && p.Search == nil &&
		p.MinPrice == nil && p.MaxPrice == nil && !p.ClearMinPrice && !p.ClearMaxPrice
}

// Apply returns f with the patch merged in; f itself is not modified.
func (p FilterPatch) Apply(f Filter) Filter {
	out := f.Clone()
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Search != nil {
		out.Search = *p.Search
	}
	if p.MinPrice != nil {
		v := *p.MinPrice
		out.MinPrice = &v
	}
	if p.MaxPrice != nil {
		v := *p.MaxPrice
		out.MaxPrice = &v
	}
	if p.ClearMinPrice {
		out.MinPrice = nil
	}
	if p.ClearMaxPrice {
		out.MaxPrice = nil
	}
	return out
}

func StringPtr(s string) *string {
	return &s
}

func Float64Ptr(v float64) *float64 {
	return &v
}
