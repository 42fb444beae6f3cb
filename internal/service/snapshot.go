package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
)

const (
	keyAds     = "ads"
	keyFilters = "filters"
)

// Persisted shape of the backing store keys. Timestamps travel as ISO-8601
// strings and are parsed back on every load.
type commentRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type adRecord struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       float64         `json:"price"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	Comments    []commentRecord `json:"comments"`
	CreatedAt   string          `json:"createdAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func encodeAds(ads []entity.Ad) (string, error) {
	records := make([]adRecord, len(ads))
	for i, ad := range ads {
		comments := make([]commentRecord, len(ad.Comments))
		for j, c := range ad.Comments {
			comments[j] = commentRecord{
				ID:        c.ID,
				Text:      c.Text,
				Author:    c.Author,
				CreatedAt: formatTime(c.CreatedAt),
			}
		}
		records[i] = adRecord{
			ID:          ad.ID,
			Title:       ad.Title,
			Description: ad.Description,
			Category:    string(ad.Category),
			Price:       ad.Price,
			Location:    ad.Location,
			Status:      string(ad.Status),
			Comments:    comments,
			CreatedAt:   formatTime(ad.CreatedAt),
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeAds rebuilds the collection. Any malformed record fails the whole
// snapshot; a repeated id keeps its first occurrence and is reported in dupes.
func decodeAds(raw string) (ads []entity.Ad, dupes []string, err error) {
	var records []adRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, nil, err
	}

	ads = make([]entity.Ad, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		ad, err := r.toEntity()
		if err != nil {
			return nil, nil, fmt.Errorf("ad %d: %w", i, err)
		}
		if _, ok := seen[ad.ID]; ok {
			dupes = append(dupes, ad.ID)
			continue
		}
		seen[ad.ID] = struct{}{}
		ads = append(ads, ad)
	}
	return ads, dupes, nil
}

func (r adRecord) toEntity() (entity.Ad, error) {
	if r.ID == "" {
		return entity.Ad{}, errors.New("missing id")
	}
	if !entity.Category(r.Category).Valid() {
		return entity.Ad{}, fmt.Errorf("unknown category %q", r.Category)
	}
	if !entity.AdStatus(r.Status).Valid() {
		return entity.Ad{}, fmt.Errorf("unknown status %q", r.Status)
	}
	if r.Price < 0 {
		return entity.Ad{}, fmt.Errorf("negative price %v", r.Price)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return entity.Ad{}, fmt.Errorf("createdAt: %w", err)
	}

	comments := make([]entity.Comment, 0, len(r.Comments))
	for j, c := range r.Comments {
		ts, err := parseTime(c.CreatedAt)
		if err != nil {
			return entity.Ad{}, fmt.Errorf("comment %d createdAt: %w", j, err)
		}
		comments = append(comments, entity.Comment{
			ID:        c.ID,
			Text:      c.Text,
			Author:    c.Author,
			CreatedAt: ts,
		})
	}

	return entity.Ad{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    entity.Category(r.Category),
		Price:       r.Price,
		Location:    r.Location,
		Status:      entity.AdStatus(r.Status),
		Comments:    comments,
		CreatedAt:   createdAt,
	}, nil
}

func encodeFilter(f entity.Filter) (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeFilter merges the stored fields over the default filter.
func decodeFilter(raw string) (entity.Filter, error) {
	f := entity.DefaultFilter()
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return entity.Filter{}, err
	}
	if err := f.Validate(); err != nil {
		return entity.Filter{}, err
	}
	return f, nil
}
