package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goacm/pkg/command"
	"github.com/itohio/goacm/pkg/device"
	"github.com/itohio/goacm/pkg/sampler"
	"github.com/itohio/goacm/pkg/stats"
)

func TestSampled(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Sampled(device.SourceCalibration, sampler.Result{Calibrated: true}, -4)
	assert.Equal(t, float64(-4), testutil.ToFloat64(m.Offset))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DriftGuard))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Current))

	m.Sampled(device.SourceOnline, sampler.Result{Milliamps: 2325}, -4)
	m.Sampled(device.SourceBucket, sampler.Result{Milliamps: 1200}, -4)

	assert.Equal(t, float64(1200), testutil.ToFloat64(m.Current))
	assert.Equal(t, float64(2325), testutil.ToFloat64(m.MaxCurrent))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Acquisitions.WithLabelValues("online")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Acquisitions.WithLabelValues("bucket")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Acquisitions.WithLabelValues("calibration")))
}

func TestRecorded(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Recorded(stats.Minute)
	m.Recorded(stats.Minute)
	m.Recorded(stats.Hour)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Buckets.WithLabelValues("minute")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Buckets.WithLabelValues("hour")))
}

func TestExecuted(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("%q: %w", "x", command.ErrUnknown), "unknown"},
		{command.ErrOnlineInterval, "bad_interval"},
		{device.ErrNotOnline, "wrong_mode"},
		{io.ErrUnexpectedEOF, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m := New(prometheus.NewRegistry())
			m.Executed("token", tt.err)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.Commands.WithLabelValues(tt.want)))
		})
	}
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Sampled(device.SourceBucket, sampler.Result{Milliamps: 777}, 0)

	srv := httptest.NewServer(NewRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "acm_current_milliamps 777")

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Post(srv.URL+"/healthz", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenError(t *testing.T) {
	srv := NewServer("256.0.0.1:bad", prometheus.NewRegistry())

	err := srv.Run(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
}
