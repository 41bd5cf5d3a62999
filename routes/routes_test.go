package routes

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hakimbdev/NutriSnap/config"
	"github.com/hakimbdev/NutriSnap/controllers"
	"github.com/hakimbdev/NutriSnap/metrics"
	"github.com/hakimbdev/NutriSnap/nutrition"
	"github.com/hakimbdev/NutriSnap/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRecognizer struct {
	out nutrition.RecognitionOutput
	err error
}

func (s *stubRecognizer) Recognize(context.Context, []byte) (nutrition.RecognitionOutput, error) {
	return s.out, s.err
}

type stubMailer struct{ to string }

func (m *stubMailer) Send(_ context.Context, to, _, _ string) error {
	m.to = to
	return nil
}

type testServer struct {
	router *gin.Engine
	rec    *stubRecognizer
	mailer *stubMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	db, err := config.OpenDB(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, log)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := metrics.NewAnalysisMetrics(reg)
	require.NoError(t, err)

	table := nutrition.DefaultTable()
	rec := &stubRecognizer{out: nutrition.RecognitionOutput{Labels: []nutrition.Label{
		{Name: "chicken breast", Confidence: 1},
		{Name: "rice", Confidence: 0.5},
	}}}
	mailer := &stubMailer{}

	hub := services.NewRealtimeHub(log)
	profiles := services.NewProfileService(db, time.Minute, log)
	alerts := services.NewAlertBus(db, hub, nil, log)
	analyses := services.NewAnalysisService(services.AnalysisDeps{
		DB:                db,
		Analyzer:          nutrition.NewAnalyzer(table),
		Recognizer:        rec,
		Targets:           profiles,
		Alerts:            alerts,
		Realtime:          hub,
		Metrics:           m,
		LowScoreThreshold: 50,
	}, log)
	trends := services.NewTrendService(analyses, profiles, mailer, 7, log)
	push := services.NewPushService(db, nil, "", log)

	r := SetupRouter(Handlers{
		Analyses: controllers.NewAnalysisController(analyses),
		Profiles: controllers.NewProfileController(profiles),
		Trends:   controllers.NewTrendController(trends),
		Alerts:   controllers.NewAlertController(alerts),
		Devices:  controllers.NewDeviceController(push),
		Realtime: controllers.NewRealtimeController(hub),
		Foods:    controllers.NewFoodController(table),
	}, reg, log)

	return &testServer{router: r, rec: rec, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func imageBody() map[string]string {
	return map[string]string{
		"image_base64": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png")),
		"meal_type":    "lunch",
	}
}

func TestAPI_AnalysisFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users/7/analyses", imageBody())
	assert.Equal(t, http.StatusNotFound, w.Code, "a profile is required first")

	w = s.do(t, http.MethodPut, "/users/7/profile", map[string]any{"sex": "male", "lifestyle": "sedentary", "email": "u@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/users/7/targets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var targets nutrition.DailyTargets
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &targets))
	assert.Equal(t, 313.0, targets.Carbs)

	w = s.do(t, http.MethodPost, "/users/7/analyses", imageBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"portion_label":"150g"`)
	var created nutrition.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 346.0, created.Calories)
	assert.Len(t, created.Suggestions, len(created.Deficiencies))

	w = s.do(t, http.MethodGet, "/users/7/analyses/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"portion_label":"150g"`)

	w = s.do(t, http.MethodGet, "/users/7/analyses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []nutrition.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = s.do(t, http.MethodGet, "/users/7/alerts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)

	w = s.do(t, http.MethodGet, "/users/7/trends?window=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report nutrition.TrendReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Len(t, report.Days, 3)

	w = s.do(t, http.MethodGet, "/users/7/progress", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/users/7/trends/email", nil)
	assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, "u@example.com", s.mailer.to)

	w = s.do(t, http.MethodDelete, "/users/7/analyses/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/users/7/analyses/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/users/7/profile", map[string]any{"sex": "female", "lifestyle": "pregnant"})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		setup  func()
		code   int
	}{
		{"bad user id", http.MethodGet, "/users/abc/targets", nil, nil, http.StatusBadRequest},
		{"invalid profile", http.MethodPut, "/users/7/profile", map[string]any{"sex": "x", "lifestyle": "sedentary"}, nil, http.StatusBadRequest},
		{"missing body fields", http.MethodPut, "/users/7/profile", map[string]any{}, nil, http.StatusBadRequest},
		{"invalid image", http.MethodPost, "/users/7/analyses", map[string]string{"image_base64": "garbage"}, nil, http.StatusBadRequest},
		{"recognition failure", http.MethodPost, "/users/7/analyses", imageBody(), func() {
			s.rec.err = errors.New("provider down")
		}, http.StatusBadGateway},
		{"bad window", http.MethodGet, "/users/7/trends?window=abc", nil, nil, http.StatusBadRequest},
		{"window too large", http.MethodGet, "/users/7/trends?window=365", nil, nil, http.StatusBadRequest},
		{"bad date", http.MethodGet, "/users/7/analyses?from=yesterday", nil, nil, http.StatusBadRequest},
		{"unknown analysis", http.MethodGet, "/users/7/analyses/nope", nil, nil, http.StatusNotFound},
		{"unknown profile", http.MethodGet, "/users/8/profile", nil, nil, http.StatusNotFound},
		{"no email on file", http.MethodPost, "/users/7/trends/email", nil, nil, http.StatusBadRequest},
		{"unknown platform", http.MethodPost, "/users/7/devices", map[string]string{"platform": "palm", "token": "t"}, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			w := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			if w.Code >= 400 {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}

func TestAPI_RecognizedAndFoods(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/users/3/profile", map[string]any{"sex": "male", "lifestyle": "very_active"})

	w := s.do(t, http.MethodPost, "/users/3/analyses/recognized", map[string]any{
		"labels":    []map[string]any{{"name": "Salmon", "confidence": 0.9}},
		"image_url": "https://img/salmon.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res nutrition.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "salmon", res.Items[0].Name)
	assert.Equal(t, "https://img/salmon.jpg", res.ImageURL)

	w = s.do(t, http.MethodGet, "/foods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var foods []nutrition.Food
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &foods))
	assert.Equal(t, nutrition.DefaultTable().Len(), len(foods))
	assert.Equal(t, "chicken breast", foods[0].Name)

	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `nutrisnap_analyses_total{source="recognized"} 1`))
}
