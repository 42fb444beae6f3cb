package service

import (
	"strings"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
)

// DeriveFilteredAds returns the ads matching every active clause of f, in
// collection order. The result is a new slice of shallow copies.
func DeriveFilteredAds(ads []entity.Ad, f entity.Filter) []entity.Ad {
	search := strings.ToLower(f.Search)
	location := strings.ToLower(f.Location)

	out := make([]entity.Ad, 0, len(ads))
	for _, ad := range ads {
		if search != "" &&
			!strings.Contains(strings.ToLower(ad.Title), search) &&
			!strings.Contains(strings.ToLower(ad.Description), search) {
			continue
		}
		if f.Category != "" && f.Category != entity.FilterAll && string(ad.Category) != f.Category {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(ad.Location), location) {
			continue
		}
		if f.MinPrice != nil && ad.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && ad.Price > *f.MaxPrice {
			continue
		}
		if f.Status != "" && f.Status != entity.FilterAll && string(ad.Status) != f.Status {
			continue
		}
		out = append(out, ad)
	}
	return out
}
