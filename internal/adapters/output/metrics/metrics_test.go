package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"roborock-cleaning-panel/internal/domain/model"
)

func TestRunCollector_CountsRuns(t *testing.T) {
	c := NewRunCollector()
	run := model.RunEvent{ID: "r1", Kind: model.RunKindSegments, Segments: []int{16}, Cycles: 1}

	c.RunStarted(run)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runInProgress))

	c.CommandDispatched(run, "set_suction_mode", nil)
	c.CommandDispatched(run, "set_mop_mode", errors.New("HA API error: 500"))
	run.Duration = 300 * time.Millisecond
	c.RunFinished(run, errors.New("set_mop_mode: HA API error: 500"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsStarted.WithLabelValues("segments")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsFinished.WithLabelValues("segments", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.runsFinished.WithLabelValues("segments", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("set_suction_mode", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("set_mop_mode", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.runInProgress))
	assert.Equal(t, 1, testutil.CollectAndCount(c.runDuration))
}

func TestRunCollector_Handler(t *testing.T) {
	c := NewRunCollector()
	c.RunStarted(model.RunEvent{Kind: model.RunKindAll})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `roborock_panel_runs_started_total{kind="all"} 1`)
}
