package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubble-exchange/web3-onboard/internal/state"
)

func TestRecorder_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg, func() int { return 2 })
	require.NoError(t, err)

	r.ObserveSync(state.SyncEvent{Slice: "network", Source: state.SourcePoll, Outcome: state.OutcomeApplied, Duration: 3 * time.Millisecond})
	r.ObserveSync(state.SyncEvent{Slice: "network", Source: state.SourcePoll, Outcome: state.OutcomeApplied})
	r.ObserveSync(state.SyncEvent{Slice: "network", Source: state.SourcePoll, Outcome: state.OutcomeFailed})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.syncs.WithLabelValues("network", "poll", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.syncs.WithLabelValues("network", "poll", "failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.handles))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg, nil)
	require.NoError(t, err)
	r.ObserveSync(state.SyncEvent{Slice: "address", Source: state.SourcePush, Outcome: state.OutcomeSuppressed})

	srv := httptest.NewServer(Handler(reg))
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body),
		`walletsync_slice_syncs_total{outcome="suppressed",slice="address",source="push"} 1`))
}

func TestNewRecorder_SharesExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg, nil)
	require.NoError(t, err)
	second, err := NewRecorder(reg, nil)
	require.NoError(t, err)

	second.ObserveSync(state.SyncEvent{Slice: "balance", Source: state.SourcePoll, Outcome: state.OutcomeDiscarded})
	assert.Equal(t, 1.0, testutil.ToFloat64(first.syncs.WithLabelValues("balance", "poll", "discarded")))
}
