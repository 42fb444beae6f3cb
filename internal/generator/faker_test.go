package generator

import (
	"math"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaker_Generate(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	f := NewFaker(42).WithClock(func() time.Time { return now })

	ads := f.Generate(50)
	require.Len(t, ads, 50)

	seen := make(map[string]struct{}, len(ads))
	for _, ad := range ads {
		_, dup := seen[ad.ID]
		assert.False(t, dup, "duplicate id %s", ad.ID)
		seen[ad.ID] = struct{}{}

		assert.NotEmpty(t, ad.Title)
		assert.NotEmpty(t, ad.Description)
		assert.NotEmpty(t, ad.Location)
		assert.True(t, ad.Category.Valid(), "category %q", ad.Category)
		assert.Equal(t, entity.StatusActive, ad.Status)
		assert.NotNil(t, ad.Comments)
		assert.Empty(t, ad.Comments)
		assert.Equal(t, now, ad.CreatedAt)

		assert.GreaterOrEqual(t, ad.Price, 0.0)
		assert.LessOrEqual(t, ad.Price, float64(maxPrice))
		assert.InDelta(t, ad.Price, math.Round(ad.Price*100)/100, 1e-9)
	}
}

func TestFaker_GenerateNonPositive(t *testing.T) {
	f := NewFaker(1)
	assert.Empty(t, f.Generate(0))
	assert.Empty(t, f.Generate(-3))
}

func TestFaker_SameSeedSameContent(t *testing.T) {
	a := NewFaker(7).Generate(3)
	b := NewFaker(7).Generate(3)
	for i := range a {
		assert.Equal(t, a[i].Title, b[i].Title)
		assert.Equal(t, a[i].Price, b[i].Price)
		assert.NotEqual(t, a[i].ID, b[i].ID)
	}
}
