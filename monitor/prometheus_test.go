package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(fetchTotal.WithLabelValues("offset", "success"))
	RecordFetch("offset", true, 20, 30*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(fetchTotal.WithLabelValues("offset", "success")))

	beforeErr := testutil.ToFloat64(fetchTotal.WithLabelValues("cursor", "error"))
	RecordFetch("cursor", false, 0, time.Millisecond)
	require.Equal(t, beforeErr+1, testutil.ToFloat64(fetchTotal.WithLabelValues("cursor", "error")))
}

func TestRecordExportAndProgress(t *testing.T) {
	before := testutil.ToFloat64(exportTotal.WithLabelValues("no_data"))
	RecordExport("no_data", 0)
	require.Equal(t, before+1, testutil.ToFloat64(exportTotal.WithLabelValues("no_data")))

	SetExportProgress(2, 3)
	require.Equal(t, 2.0, testutil.ToFloat64(exportBatchProgress.WithLabelValues("current")))
	require.Equal(t, 3.0, testutil.ToFloat64(exportBatchProgress.WithLabelValues("total")))
}

func TestGauges(t *testing.T) {
	SetActiveViews(4)
	require.Equal(t, 4.0, testutil.ToFloat64(activeViews))

	require.NoError(t, InitPrometheusMonitoring("v1", "now", "go", time.Unix(100, 0)))
	require.Equal(t, 100.0, testutil.ToFloat64(startTimeSeconds))
	require.Equal(t, 1.0, testutil.ToFloat64(buildInfo.WithLabelValues("v1", "now", "go")))

	before := testutil.ToFloat64(staleResponses)
	RecordStaleResponse()
	require.Equal(t, before+1, testutil.ToFloat64(staleResponses))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(apiRequestTotal.WithLabelValues("/api/status", "GET", "200"))
	RecordAPIRequest("/api/status", "GET", 200, time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(apiRequestTotal.WithLabelValues("/api/status", "GET", "200")))
}
