package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepMetrics(t *testing.T) {
	// Use a fresh registry for each test to avoid "duplicate registration" panic
	reg := prometheus.NewRegistry()
	m, err := NewSweepMetrics(reg)
	require.NoError(t, err)

	m.ObserveSweep(true, 3, 2*time.Second)
	m.ObserveSweep(false, 0, time.Second)
	m.MediaDeleted()
	m.MediaDeleted()
	m.MediaDeleteFailed()
	m.MediaURLInvalid()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.sweeps.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sweeps.WithLabelValues("failure")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.postsDeleted))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.mediaDeleted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mediaDeleteFailed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mediaURLParseError))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewSweepMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewSweepMetrics(reg)
	require.NoError(t, err)

	m, err := NewSweepMetrics(reg)
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestSweepMetrics_NilIsNoop(t *testing.T) {
	var m *SweepMetrics

	assert.NotPanics(t, func() {
		m.ObserveSweep(true, 1, time.Second)
		m.MediaDeleted()
		m.MediaDeleteFailed()
		m.MediaURLInvalid()
	})
}

func TestPusher(t *testing.T) {
	t.Run("disabled without url", func(t *testing.T) {
		p := NewPusher("", "postsweeper", prometheus.NewRegistry())
		assert.Nil(t, p)
		assert.NoError(t, p.Push())
	})

	t.Run("pushes to gateway", func(t *testing.T) {
		var gotMethod, gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		reg := prometheus.NewRegistry()
		m, err := NewSweepMetrics(reg)
		require.NoError(t, err)
		m.ObserveSweep(true, 1, time.Second)

		p := NewPusher(srv.URL, "postsweeper", reg)
		require.NoError(t, p.Push())

		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/metrics/job/postsweeper", gotPath)
	})

	t.Run("gateway error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		p := NewPusher(srv.URL, "postsweeper", prometheus.NewRegistry())
		err := p.Push()
		assert.ErrorContains(t, err, "push metrics")
	})
}
