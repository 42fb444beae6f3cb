package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/memory"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/connectivity"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/generator"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http/handler"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http/middleware"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fixture struct {
	mux    *chi.Mux
	store  *service.AdsStore
	signal *connectivity.Manual
}

func newFixture(t *testing.T, jwtSecret string) *fixture {
	t.Helper()
	log := logger.NewNopLogger()
	signal := connectivity.NewManual(true)
	store := service.NewAdsStore(context.Background(), memory.NewKVStore(), generator.NewFaker(3), signal, nil, nil, log, 0)
	observer := connectivity.NewObserver(signal, store, log)
	observer.Activate(context.Background())
	t.Cleanup(observer.Deactivate)

	h := handler.NewAdsHandler(store, observer, log)
	return &fixture{mux: New(h, jwtSecret, log), store: store, signal: signal}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, secret string, claims middleware.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_SeededOnActivation(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(t, http.MethodGet, "/api/ads", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ads := decode[[]entity.Ad](t, rec)
	assert.Len(t, ads, 20)

	rec = f.do(t, http.MethodGet, "/api/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"offline":false,"storeOffline":false,"ads":20}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_GenerateAndLoad(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(t, http.MethodPost, "/api/ads/generate", `{"count":3}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, decode[[]entity.Ad](t, rec), 3)

	rec = f.do(t, http.MethodPost, "/api/ads/generate", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, decode[[]entity.Ad](t, rec), service.DefaultGenerateCount)

	rec = f.do(t, http.MethodPost, "/api/ads/generate", `{"count":-1}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/ads/load", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 33, f.store.Len())

	rec = f.do(t, http.MethodGet, "/api/ads/all", "", "")
	assert.Len(t, decode[[]entity.Ad](t, rec), 33)
}

func TestRouter_UpdateStatus(t *testing.T) {
	f := newFixture(t, "")
	id := f.store.Ads()[0].ID

	rec := f.do(t, http.MethodPatch, "/api/ads/"+id+"/status", `{"status":"pending"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StatusPending, decode[entity.Ad](t, rec).Status)

	rec = f.do(t, http.MethodPatch, "/api/ads/x/status", `{"status":"pending"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/ads/"+id+"/status", `{"status":"sold"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/ads/"+id+"/status", `{"status":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AddComment(t *testing.T) {
	f := newFixture(t, "")
	id := f.store.Ads()[0].ID

	rec := f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"nice","author":"bob"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decode[entity.Comment](t, rec)
	assert.Equal(t, "nice", c.Text)
	assert.Equal(t, "bob", c.Author)

	rec = f.do(t, http.MethodGet, "/api/ads/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ad := decode[entity.Ad](t, rec)
	require.Len(t, ad.Comments, 1)
	assert.Equal(t, c.ID, ad.Comments[0].ID)

	rec = f.do(t, http.MethodPost, "/api/ads/missing/comments", `{"text":"nice","author":"bob"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"   ","author":"bob"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/ads/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Filters(t *testing.T) {
	f := newFixture(t, "")
	target := f.store.Ads()[4]

	rec := f.do(t, http.MethodPatch, "/api/filters", `{"search":"`+strings.ToUpper(target.Title)+`","minPrice":0}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[entity.Filter](t, rec)
	assert.Equal(t, entity.FilterAll, got.Category)
	require.NotNil(t, got.MinPrice)

	rec = f.do(t, http.MethodGet, "/api/ads", "", "")
	filtered := decode[[]entity.Ad](t, rec)
	require.NotEmpty(t, filtered)
	for _, ad := range filtered {
		assert.True(t,
			strings.Contains(strings.ToLower(ad.Title), strings.ToLower(target.Title)) ||
				strings.Contains(strings.ToLower(ad.Description), strings.ToLower(target.Title)))
	}

	rec = f.do(t, http.MethodPatch, "/api/filters", `{"minPrice":null,"search":null}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[entity.Filter](t, rec).MinPrice)
	assert.Len(t, decode[[]entity.Ad](t, f.do(t, http.MethodGet, "/api/ads", "", "")), 20)

	rec = f.do(t, http.MethodPatch, "/api/filters", `{"category":"toys"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/filters", `{"maxPrice":"cheap"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/filters", "", "")
	assert.JSONEq(t, `{"category":"all","status":"all","location":"","search":""}`, rec.Body.String())
}

func TestRouter_OfflineStatus(t *testing.T) {
	f := newFixture(t, "")
	f.signal.SetOnline(false)

	rec := f.do(t, http.MethodGet, "/api/status", "", "")
	assert.JSONEq(t, `{"offline":true,"storeOffline":true,"ads":20}`, rec.Body.String())
}

func TestRouter_JWT(t *testing.T) {
	f := newFixture(t, testSecret)
	id := f.store.Ads()[0].ID

	rec := f.do(t, http.MethodGet, "/api/ads", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"hi"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bad := signToken(t, "other-secret", middleware.Claims{UserID: "u1"})
	rec = f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"hi"}`, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired := signToken(t, testSecret, middleware.Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	rec = f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"hi"}`, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	noUser := signToken(t, testSecret, middleware.Claims{Username: "ghost"})
	rec = f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"hi"}`, noUser)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	good := signToken(t, testSecret, middleware.Claims{UserID: "u1", Username: "alice"})
	rec = f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"hi"}`, good)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "alice", decode[entity.Comment](t, rec).Author)

	idOnly := signToken(t, testSecret, middleware.Claims{UserID: "u2"})
	rec = f.do(t, http.MethodPost, "/api/ads/"+id+"/comments", `{"text":"hey","author":"carol"}`, idOnly)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "carol", decode[entity.Comment](t, rec).Author)
}
