package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/circle-go/internal/testutil"
)

type MiddlewareSuite struct {
	suite.Suite
	logs    *testutil.LogBuffer
	metrics *Metrics
	router  *mux.Router
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	logger, logs := testutil.BufferLogger()
	s.logs = logs
	s.metrics = NewMetrics("test")

	s.router = mux.NewRouter()
	s.router.Use(Recovery(RecoveryConfig{Logger: logger, Metrics: s.metrics}))
	s.router.Use(Logging(logger))
	s.router.Use(s.metrics.Middleware)

	s.router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("made"))
	})
	s.router.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	s.router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})
}

func (s *MiddlewareSuite) serve(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *MiddlewareSuite) scrape() string {
	rec := httptest.NewRecorder()
	s.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func (s *MiddlewareSuite) TestLogsRouteTemplate() {
	rec := s.serve("/items/42")
	s.Equal(http.StatusCreated, rec.Code)

	records := s.logs.Records()
	s.Require().Len(records, 1)
	s.Equal("http request", records[0]["msg"])
	s.Equal("INFO", records[0]["level"])
	s.Equal("/items/42", records[0]["path"])
	s.Equal("/items/{id}", records[0]["route"])
	s.EqualValues(http.StatusCreated, records[0]["status"])
	s.EqualValues(4, records[0]["size"])
}

func (s *MiddlewareSuite) TestClientErrorsLogAtWarn() {
	s.serve("/missing")

	records := s.logs.Records()
	s.Require().Len(records, 1)
	s.Equal("WARN", records[0]["level"])
}

func (s *MiddlewareSuite) TestPanicBecomes500() {
	rec := s.serve("/boom")
	s.Equal(http.StatusInternalServerError, rec.Code)

	var panicLogged bool
	for _, r := range s.logs.Records() {
		if r["msg"] == "panic recovered" {
			panicLogged = true
			s.Equal("kaboom", r["error"])
			s.Equal("/boom", r["route"])
		}
	}
	s.True(panicLogged)
	s.Contains(s.scrape(), "test_http_panics_total 1")
}

func (s *MiddlewareSuite) TestMetricsCountPerRoute() {
	s.serve("/items/1")
	s.serve("/items/2")
	s.serve("/missing")

	body := s.scrape()
	s.Contains(body, `test_http_requests_total{method="GET",route="/items/{id}",status="201"} 2`)
	s.Contains(body, `test_http_requests_total{method="GET",route="/missing",status="404"} 1`)
	s.True(strings.Contains(body, "test_http_request_duration_seconds_bucket"))
}

func (s *MiddlewareSuite) TestContestEventsAndNilSafety() {
	s.metrics.ContestEvent("generated")
	s.Contains(s.scrape(), `test_contests_events_total{event="generated"} 1`)

	var none *Metrics
	s.NotPanics(func() {
		none.ContestEvent("generated")
		none.Panic()
	})
}

func (s *MiddlewareSuite) TestResponseWriterKeepsFirstStatus() {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)
	s.Same(rw, NewResponseWriter(rw))

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)
	s.Equal(http.StatusTeapot, rw.Status())
}
