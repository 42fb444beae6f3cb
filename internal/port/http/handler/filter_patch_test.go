package handler

import (
	"encoding/json"
	"testing"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawPatch(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestParseFilterPatch(t *testing.T) {
	p, err := parseFilterPatch(rawPatch(t, `{"search":"chair","minPrice":0,"maxPrice":null,"category":null}`))
	require.NoError(t, err)

	require.NotNil(t, p.Search)
	assert.Equal(t, "chair", *p.Search)
	require.NotNil(t, p.MinPrice)
	assert.Equal(t, 0.0, *p.MinPrice)
	assert.False(t, p.ClearMinPrice)
	assert.Nil(t, p.MaxPrice)
	assert.True(t, p.ClearMaxPrice)
	require.NotNil(t, p.Category)
	assert.Equal(t, entity.FilterAll, *p.Category)
	assert.Nil(t, p.Status)
	assert.Nil(t, p.Location)
}

func TestParseFilterPatch_Empty(t *testing.T) {
	p, err := parseFilterPatch(nil)
	require.NoError(t, err)
	assert.True(t, p.Empty())

	p, err = parseFilterPatch(rawPatch(t, `{"unknown":1}`))
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestParseFilterPatch_TypeErrors(t *testing.T) {
	for _, body := range []string{
		`{"minPrice":"10"}`,
		`{"maxPrice":true}`,
		`{"search":5}`,
		`{"status":["active"]}`,
	} {
		_, err := parseFilterPatch(rawPatch(t, body))
		assert.Error(t, err, body)
	}
}
