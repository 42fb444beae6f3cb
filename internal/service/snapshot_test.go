package service

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAds_RoundTrip(t *testing.T) {
	ads := fixtureAds()
	ads[0].AddComment(entity.NewComment("first", "ann", time.Date(2024, 3, 2, 8, 0, 0, 123456789, time.UTC)))
	ads[0].AddComment(entity.NewComment("second", "bob", time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)))

	raw, err := encodeAds(ads)
	require.NoError(t, err)
	assert.Contains(t, raw, `"createdAt":"2024-03-02T08:00:00.123456789Z"`)

	got, dupes, err := decodeAds(raw)
	require.NoError(t, err)
	assert.Empty(t, dupes)
	assert.Equal(t, ads, got)
	assert.Equal(t, "second", got[0].Comments[1].Text)
}

func TestDecodeAds_BrowserSnapshot(t *testing.T) {
	raw := `[{"id":"a1","title":"Bike","description":"Road bike","category":"vehicles","price":250.5,
		"location":"Riga","status":"active","comments":[{"id":"c1","text":"nice","author":"bob",
		"createdAt":"2024-01-05T10:15:30.250Z"}],"createdAt":"2024-01-01T00:00:00.000Z"}]`

	ads, _, err := decodeAds(raw)
	require.NoError(t, err)
	require.Len(t, ads, 1)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ads[0].CreatedAt)
	require.Len(t, ads[0].Comments, 1)
	assert.Equal(t, time.Date(2024, 1, 5, 10, 15, 30, 250000000, time.UTC), ads[0].Comments[0].CreatedAt)
}

func TestDecodeAds_Rejects(t *testing.T) {
	testCases := map[string]string{
		"not json":          `{"ads":`,
		"object not array":  `{"id":"a"}`,
		"missing id":        `[{"category":"vehicles","status":"active","createdAt":"2024-01-01T00:00:00Z"}]`,
		"bad category":      `[{"id":"a","category":"toys","status":"active","createdAt":"2024-01-01T00:00:00Z"}]`,
		"bad status":        `[{"id":"a","category":"vehicles","status":"sold","createdAt":"2024-01-01T00:00:00Z"}]`,
		"negative price":    `[{"id":"a","category":"vehicles","status":"active","price":-1,"createdAt":"2024-01-01T00:00:00Z"}]`,
		"bad ad time":       `[{"id":"a","category":"vehicles","status":"active","createdAt":"yesterday"}]`,
		"missing ad time":   `[{"id":"a","category":"vehicles","status":"active"}]`,
		"bad comment time":  `[{"id":"a","category":"vehicles","status":"active","createdAt":"2024-01-01T00:00:00Z","comments":[{"id":"c","createdAt":"1704067200"}]}]`,
		"wrong price type":  `[{"id":"a","category":"vehicles","status":"active","price":"12","createdAt":"2024-01-01T00:00:00Z"}]`,
		"wrong comment box": `[{"id":"a","category":"vehicles","status":"active","createdAt":"2024-01-01T00:00:00Z","comments":{}}]`,
	}

	for name, raw := range testCases {
		t.Run(name, func(t *testing.T) {
			_, _, err := decodeAds(raw)
			assert.Error(t, err)
		})
	}
}

func TestDecodeAds_DuplicateIDsKeepFirst(t *testing.T) {
	raw := `[
		{"id":"a","title":"first","category":"vehicles","status":"active","createdAt":"2024-01-01T00:00:00Z"},
		{"id":"b","title":"other","category":"services","status":"pending","createdAt":"2024-01-01T00:00:00Z"},
		{"id":"a","title":"second","category":"vehicles","status":"active","createdAt":"2024-01-01T00:00:00Z"}
	]`

	ads, dupes, err := decodeAds(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "other"}, titles(ads))
	assert.Equal(t, []string{"a"}, dupes)
	assert.NotNil(t, ads[0].Comments)
}

func TestDecodeFilter(t *testing.T) {
	f, err := decodeFilter(`{"search":"bike","maxPrice":0}`)
	require.NoError(t, err)
	assert.Equal(t, entity.FilterAll, f.Category)
	assert.Equal(t, entity.FilterAll, f.Status)
	assert.Equal(t, "bike", f.Search)
	assert.Nil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 0.0, *f.MaxPrice)

	_, err = decodeFilter(`{"category":"toys"}`)
	assert.ErrorIs(t, err, entity.ErrInvalidFilter)

	_, err = decodeFilter(`[]`)
	assert.Error(t, err)
}

func TestEncodeFilter_OmitsUnsetBounds(t *testing.T) {
	raw, err := encodeFilter(entity.DefaultFilter())
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"all","status":"all","location":"","search":""}`, raw)
}
