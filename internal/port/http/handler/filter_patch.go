package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
)

var jsonNull = []byte("null")

// parseFilterPatch maps a partial filter object onto a patch. Absent keys are
// untouched; null resets a text field to its default and clears a price bound.
func parseFilterPatch(raw map[string]json.RawMessage) (entity.FilterPatch, error) {
	var p entity.FilterPatch

	text := func(key, def string) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			return entity.StringPtr(def), nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("%s must be a string", key)
		}
		return &s, nil
	}

	bound := func(key string) (*float64, bool, error) {
		v, ok := raw[key]
		if !ok {
			return nil, false, nil
		}
		if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			return nil, true, nil
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return nil, false, fmt.Errorf("%s must be a number or null", key)
		}
		return &f, false, nil
	}

	var err error
	if p.Category, err = text("category", entity.FilterAll); err != nil {
		return p, err
	}
	if p.Status, err = text("status", entity.FilterAll); err != nil {
		return p, err
	}
	if p.Location, err = text("location", ""); err != nil {
		return p, err
	}
	if p.Search, err = text("search", ""); err != nil {
		return p, err
	}
	if p.MinPrice, p.ClearMinPrice, err = bound("minPrice"); err != nil {
		return p, err
	}
	if p.MaxPrice, p.ClearMaxPrice, err = bound("maxPrice"); err != nil {
		return p, err
	}
	return p, nil
}
