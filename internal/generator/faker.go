package generator

import (
	"math"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
	"github.com/brianvoe/gofakeit/v7"
)

const (
	minPrice = 1
	maxPrice = 1000
)

// Faker produces commerce-flavoured ads. A zero seed draws a random one.
type Faker struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

func NewFaker(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// WithClock overrides the creation timestamp source.
func (f *Faker) WithClock(now func() time.Time) *Faker {
	f.now = now
	return f
}

func (f *Faker) Generate(count int) []entity.Ad {
	if count <= 0 {
		return []entity.Ad{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ads := make([]entity.Ad, 0, count)
	for i := 0; i < count; i++ {
		category := entity.Categories[f.faker.Number(0, len(entity.Categories)-1)]
		ads = append(ads, entity.NewAd(
			f.faker.ProductName(),
			f.faker.ProductDescription(),
			category,
			roundCents(f.faker.Price(minPrice, maxPrice)),
			f.faker.City(),
			f.now(),
		))
	}
	return ads
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
