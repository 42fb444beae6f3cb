package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/memory"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/connectivity"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "adbrowser-service/ads-store"

const (
	DefaultGenerateCount = 10
	DefaultSeedCount     = 20
)

var (
	ErrHydration     = errors.New("failed to restore persisted state")
	ErrPersist       = errors.New("failed to persist state")
	ErrInvalidStatus = errors.New("invalid ad status")
)

type Generator interface {
	Generate(count int) []entity.Ad
}

// Recorder receives store metrics. The prometheus manager implements it.
type Recorder interface {
	AdsGenerated(n int)
	StatusUpdated()
	CommentAdded()
	FiltersChanged()
	PersistFailed(key string)
	HydrationFailed(key string)
	AdsStored(n int)
	ConnectivityChecked(offline bool)
}

type nopRecorder struct{}

func (nopRecorder) AdsGenerated(int)         {}
func (nopRecorder) StatusUpdated()           {}
func (nopRecorder) CommentAdded()            {}
func (nopRecorder) FiltersChanged()          {}
func (nopRecorder) PersistFailed(string)     {}
func (nopRecorder) HydrationFailed(string)   {}
func (nopRecorder) AdsStored(int)            {}
func (nopRecorder) ConnectivityChecked(bool) {}

type adsGeneratedEvent struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

type statusUpdatedEvent struct {
	AdID   string          `json:"adId"`
	Status entity.AdStatus `json:"status"`
}

type commentAddedEvent struct {
	AdID    string         `json:"adId"`
	Comment entity.Comment `json:"comment"`
}

// AdsStore owns the ad collection and the active filter for one session.
// Every mutation is mirrored to the backing store before it returns.
type AdsStore struct {
	storage   repository.KeyValueStore
	generator Generator
	signal    connectivity.Signal
	publisher nats.MessagePublisher
	metrics   Recorder
	log       logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
	seedCount int

	mu      sync.Mutex
	ads     []entity.Ad
	filter  entity.Filter
	offline bool

	version     uint64
	memo        []entity.Ad
	memoVersion uint64
	memoValid   bool
}

// NewAdsStore hydrates from storage. A nil storage disables persistence, a
// nil signal is always online, and nil publisher or metrics are skipped.
func NewAdsStore(
	ctx context.Context,
	storage repository.KeyValueStore,
	generator Generator,
	signal connectivity.Signal,
	publisher nats.MessagePublisher,
	metrics Recorder,
	log logger.Logger,
	seedCount int,
) *AdsStore {
	if storage == nil {
		storage = memory.Noop{}
	}
	if signal == nil {
		signal = connectivity.NewManual(true)
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if seedCount <= 0 {
		seedCount = DefaultSeedCount
	}

	s := &AdsStore{
		storage:   storage,
		generator: generator,
		signal:    signal,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		seedCount: seedCount,
		ads:       make([]entity.Ad, 0),
		filter:    entity.DefaultFilter(),
	}
	s.hydrate(ctx)
	s.metrics.AdsStored(len(s.ads))
	return s
}

// WithClock overrides the comment timestamp source.
func (s *AdsStore) WithClock(now func() time.Time) *AdsStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// WithTracerProvider replaces the global tracer provider for store spans.
func (s *AdsStore) WithTracerProvider(tp trace.TracerProvider) *AdsStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracer = tp.Tracer(tracerName)
	return s
}

func (s *AdsStore) hydrate(ctx context.Context) {
	if raw, ok := s.read(ctx, keyAds); ok {
		ads, dupes, err := decodeAds(raw)
		if err != nil {
			s.hydrationFailed(keyAds, err)
		} else {
			if len(dupes) > 0 {
				s.log.Warnf("Persisted ads contained %d duplicate id(s), kept first occurrence: %v", len(dupes), dupes)
			}
			s.ads = ads
			s.log.Infof("Restored %d ads from storage", len(ads))
		}
	}

	if raw, ok := s.read(ctx, keyFilters); ok {
		f, err := decodeFilter(raw)
		if err != nil {
			s.hydrationFailed(keyFilters, err)
		} else {
			s.filter = f
		}
	}
}

func (s *AdsStore) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.hydrationFailed(key, err)
		}
		return "", false
	}
	return raw, true
}

func (s *AdsStore) hydrationFailed(key string, err error) {
	s.log.Warnf("%v: key %s, starting from defaults: %v", ErrHydration, key, err)
	s.metrics.HydrationFailed(key)
}

func (s *AdsStore) persistAdsLocked(ctx context.Context) {
	s.version++
	s.metrics.AdsStored(len(s.ads))

	raw, err := encodeAds(s.ads)
	if err == nil {
		err = s.storage.Set(ctx, keyAds, raw)
	}
	if err != nil {
		s.persistFailed(ctx, keyAds, err)
	}
}

func (s *AdsStore) persistFilterLocked(ctx context.Context) {
	s.version++

	raw, err := encodeFilter(s.filter)
	if err == nil {
		err = s.storage.Set(ctx, keyFilters, raw)
	}
	if err != nil {
		s.persistFailed(ctx, keyFilters, err)
	}
}

func (s *AdsStore) persistFailed(ctx context.Context, key string, err error) {
	s.log.Warnf("%v: key %s: %v", ErrPersist, key, err)
	s.metrics.PersistFailed(key)
	trace.SpanFromContext(ctx).RecordError(fmt.Errorf("%w: key %s: %v", ErrPersist, key, err))
}

func (s *AdsStore) publish(ctx context.Context, subject string, message interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, message); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}

func (s *AdsStore) indexOf(id string) int {
	for i := range s.ads {
		if s.ads[i].ID == id {
			return i
		}
	}
	return -1
}

// GenerateAds appends count synthetic ads; a non-positive count means
// DefaultGenerateCount. It returns copies of the new ads.
func (s *AdsStore) GenerateAds(ctx context.Context, count int) []entity.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "AdsStore.GenerateAds")
	defer span.End()

	added := s.generateAdsLocked(ctx, count)
	span.SetAttributes(attribute.Int("requested_count", count), attribute.Int("generated_count", len(added)))
	return added
}

func (s *AdsStore) generateAdsLocked(ctx context.Context, count int) []entity.Ad {
	if count <= 0 {
		count = DefaultGenerateCount
	}

	generated := s.generator.Generate(count)
	added := make([]entity.Ad, 0, len(generated))
	ids := make([]string, 0, len(generated))
	for _, ad := range generated {
		if s.indexOf(ad.ID) >= 0 {
			s.log.Warnf("Generator returned existing id %s, skipping", ad.ID)
			continue
		}
		if ad.Comments == nil {
			ad.Comments = make([]entity.Comment, 0)
		}
		s.ads = append(s.ads, ad)
		added = append(added, ad.Clone())
		ids = append(ids, ad.ID)
	}

	s.persistAdsLocked(ctx)
	s.metrics.AdsGenerated(len(added))
	s.log.Infof("Generated %d ads, collection size %d", len(added), len(s.ads))
	s.publish(ctx, nats.SubjectAdsGenerated, adsGeneratedEvent{Count: len(ids), IDs: ids})
	return added
}

// UpdateStatus reports whether an ad with id exists. An unknown id is not an
// error.
func (s *AdsStore) UpdateStatus(ctx context.Context, id string, status entity.AdStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "AdsStore.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.String("ad_id", id), attribute.String("status", string(status)))

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debugf("UpdateStatus: ad %s not found", id)
		span.SetAttributes(attribute.Bool("found", false))
		return false, nil
	}
	span.SetAttributes(attribute.Bool("found", true))
	if s.ads[i].Status == status {
		return true, nil
	}

	s.ads[i].Status = status
	s.persistAdsLocked(ctx)
	s.metrics.StatusUpdated()
	s.publish(ctx, nats.SubjectAdStatusUpdated, statusUpdatedEvent{AdID: id, Status: status})
	return true, nil
}

// AddComment appends a comment to the ad with id. The comment timestamp never
// precedes the ad's previous last comment.
func (s *AdsStore) AddComment(ctx context.Context, id, text, author string) (entity.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "AdsStore.AddComment")
	defer span.End()
	span.SetAttributes(attribute.String("ad_id", id))

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debugf("AddComment: ad %s not found", id)
		span.SetAttributes(attribute.Bool("found", false))
		return entity.Comment{}, false
	}
	span.SetAttributes(attribute.Bool("found", true))

	now := s.now().UTC()
	if last, ok := s.ads[i].LastComment(); ok && now.Before(last.CreatedAt) {
		now = last.CreatedAt
	}
	c := entity.NewComment(text, author, now)

	s.ads[i].AddComment(c)
	s.persistAdsLocked(ctx)
	s.metrics.CommentAdded()
	s.publish(ctx, nats.SubjectAdCommentAdded, commentAddedEvent{AdID: id, Comment: c})
	return c, true
}

// SetFilters merges patch into the filter. An invalid result is rejected with
// entity.ErrInvalidFilter and leaves the filter unchanged.
func (s *AdsStore) SetFilters(ctx context.Context, patch entity.FilterPatch) (entity.Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Empty() {
		return s.filter.Clone(), nil
	}

	ctx, span := s.tracer.Start(ctx, "AdsStore.SetFilters")
	defer span.End()

	next := patch.Apply(s.filter)
	if err := next.Validate(); err != nil {
		span.RecordError(err)
		return s.filter.Clone(), err
	}

	s.filter = next
	s.persistFilterLocked(ctx)
	s.metrics.FiltersChanged()
	s.publish(ctx, nats.SubjectAdFiltersChanged, s.filter)
	return s.filter.Clone(), nil
}

// LoadAds seeds the collection when it is empty and does nothing otherwise.
func (s *AdsStore) LoadAds(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "AdsStore.LoadAds")
	defer span.End()
	s.loadAdsLocked(ctx)
}

func (s *AdsStore) loadAdsLocked(ctx context.Context) {
	if len(s.ads) > 0 {
		return
	}
	s.generateAdsLocked(ctx, s.seedCount)
}

// CheckOnline reads the signal into the offline flag and seeds an empty
// collection once online.
func (s *AdsStore) CheckOnline(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "AdsStore.CheckOnline")
	defer span.End()

	online := s.signal.Online()
	s.offline = !online
	s.metrics.ConnectivityChecked(s.offline)
	span.SetAttributes(attribute.Bool("offline", s.offline))

	if online && len(s.ads) == 0 {
		s.loadAdsLocked(ctx)
	}
}

// FilteredAds is recomputed only after the collection or filter changed.
func (s *AdsStore) FilteredAds() []entity.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.memoValid || s.memoVersion != s.version {
		s.memo = DeriveFilteredAds(s.ads, s.filter)
		s.memoVersion = s.version
		s.memoValid = true
	}
	return entity.CloneAds(s.memo)
}

func (s *AdsStore) Ads() []entity.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.CloneAds(s.ads)
}

func (s *AdsStore) Get(id string) (entity.Ad, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return entity.Ad{}, false
	}
	return s.ads[i].Clone(), true
}

func (s *AdsStore) Filters() entity.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Clone()
}

func (s *AdsStore) IsOffline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

func (s *AdsStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ads)
}
