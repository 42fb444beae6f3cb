package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Recorder(t *testing.T) {
	m := NewManager()

	m.AdsGenerated(20)
	m.AdsGenerated(10)
	m.StatusUpdated()
	m.CommentAdded()
	m.CommentAdded()
	m.FiltersChanged()
	m.PersistFailed("ads")
	m.HydrationFailed("filters")
	m.AdsStored(30)
	m.ConnectivityChecked(true)
	m.ConnectivityChecked(false)

	assert.Equal(t, 30.0, testutil.ToFloat64(m.AdsGeneratedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusUpdatesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommentsAddedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilterChangesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("ads")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HydrationFailures.WithLabelValues("filters")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.AdsStoredGauge))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectivityChecks.WithLabelValues("offline")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.OfflineGauge))
}

func TestNewServer(t *testing.T) {
	m := NewManager()
	assert.Nil(t, NewServer("", m.Registry))

	srv := NewServer("9100", m.Registry)
	require.NotNil(t, srv)
	assert.Equal(t, ":9100", srv.Addr)

	m.AdsStored(3)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "adbrowser_ads_stored 3"))
}

func TestConnectivityChecksCountEveryCheck(t *testing.T) {
	m := NewManager()

	m.ConnectivityChecked(false)
	m.ConnectivityChecked(false)
	m.ConnectivityChecked(true)

	n, err := testutil.GatherAndCount(m.Registry, "adbrowser_connectivity_checks_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConnectivityChecks.WithLabelValues("online")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectivityChecks.WithLabelValues("offline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OfflineGauge))
}
