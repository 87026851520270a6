package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOrderOperation(t *testing.T) {
	before := testutil.ToFloat64(orderOperations.WithLabelValues(OpCancel, "error"))
	RecordOrderOperation(OpCancel, false)
	assert.Equal(t, before+1, testutil.ToFloat64(orderOperations.WithLabelValues(OpCancel, "error")))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/orders", "200"))
	ObserveHTTPRequest("GET", "/api/v1/orders", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/orders", "200")))
}
