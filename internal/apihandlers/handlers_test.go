package apihandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsclassifier/internal/metrics"
	"newsclassifier/internal/models"
	"newsclassifier/internal/textproc"
	"newsclassifier/pkg/classifier"
)

const (
	enBody = `{"source":"BBC Technology","url":"http://news.bbc.co.uk/go/click/rss/0.91/public/-/2/hi/business/4144939.stm","title":"System gremlins resolved at HSBC","description":"Computer glitches which led to chaos for HSBC customers on Monday are fixed, the High Street bank confirms."}`
	esBody = `{"source":"BBC Technology","url":"http://news.bbc.co.uk/go/click/rss/0.91/public/-/2/hi/business/4144939.stm","title":"System gremlins resolved at HSBC","description":"Los fallos informáticos que provocaron el caos para los clientes de HSBC el lunes se han solucionado, confirma el banco High Street."}`
	jaBody = `{"source":"BBC Technology","url":"http://news.bbc.co.uk/go/click/rss/0.91/public/-/2/hi/business/4144939.stm","title":"System gremlins resolved at HSBC","description":"日本人 中國的 ~=[]()%+{}@;’#!$_&- éè ;∞¥₤€"}`
)

func init() {
	gin.SetMode(gin.TestMode)
}

func linearClassifier(t *testing.T) classifier.Classifier {
	t.Helper()
	tok, err := textproc.NewTokenizer(textproc.Options{JapaneseSegmentation: true})
	require.NoError(t, err)
	m, err := classifier.LoadModel("")
	require.NoError(t, err)
	c, err := classifier.NewLinearClassifier(classifier.MustLabelSet(classifier.DefaultLabels), m, tok)
	require.NoError(t, err)
	return c
}

func newTestRouter(h *APIHandler, timeout time.Duration) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(RequestID(), Metrics(h.Metrics))
	r.GET("/", h.RootHandler)
	r.POST("/predict", Timeout(timeout), h.PredictHandler)
	r.NoRoute(NotFound)
	r.NoMethod(MethodNotAllowed)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) models.ClassificationResult {
	t.Helper()
	var res models.ClassificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestRootHandler(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Hello":"World"}`, w.Body.String())
}

func TestPredictHandler_Fixtures(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	en := do(r, http.MethodPost, "/predict", enBody)
	require.Equal(t, http.StatusOK, en.Code, en.Body.String())
	enRes := decodeResult(t, en)
	assert.Equal(t, "Business", enRes.Label)
	assert.InDelta(t, 0.455, enRes.Scores["Business"], 0.03)
	assert.Len(t, enRes.Scores, len(classifier.DefaultLabels))

	es := do(r, http.MethodPost, "/predict", esBody)
	require.Equal(t, http.StatusOK, es.Code)
	esRes := decodeResult(t, es)
	assert.Equal(t, "Business", esRes.Label)
	assert.InDelta(t, 0.724, esRes.Scores["Business"], 0.03)
	assert.Greater(t, esRes.Scores["Business"], enRes.Scores["Business"])

	ja := do(r, http.MethodPost, "/predict", jaBody)
	require.Equal(t, http.StatusOK, ja.Code)
	assert.Equal(t, "Entertainment", decodeResult(t, ja).Label)
}

func TestPredictHandler_ScoresAreADistribution(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	res := decodeResult(t, do(r, http.MethodPost, "/predict", enBody))
	var sum float64
	for _, label := range classifier.DefaultLabels {
		v, ok := res.Scores[label]
		require.True(t, ok, "missing %q", label)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, res.Scores[res.Label])
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestPredictHandler_Idempotent(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	first := do(r, http.MethodPost, "/predict", esBody)
	second := do(r, http.MethodPost, "/predict", esBody)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestPredictHandler_ExtraFieldsIgnored(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	withExtra := `{"source":"s","url":"u","title":"t","description":"bank","category":"Sports"}`
	w := do(r, http.MethodPost, "/predict", withExtra)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Business", decodeResult(t, w).Label)
}

func TestPredictHandler_Validation(t *testing.T) {
	missing := func(fields ...string) string {
		var entries []string
		for _, f := range fields {
			entries = append(entries, fmt.Sprintf(`{"loc":["body",%q],"msg":"field required","type":"value_error.missing"}`, f))
		}
		out := `{"detail":[`
		for i, e := range entries {
			if i > 0 {
				out += ","
			}
			out += e
		}
		return out + `]}`
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{"source":"s","url":"u","description":"d"}`, missing("title")},
		{"empty object", `{}`, missing("source", "url", "title", "description")},
		{"empty body", ``, missing("source", "url", "title", "description")},
		{"only url", `{"url":"u"}`, missing("source", "title", "description")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			r := newTestRouter(NewAPIHandler(linearClassifier(t), m), time.Second)

			w := do(r, http.MethodPost, "/predict", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures))
		})
	}
}

func TestPredictHandler_MalformedJSON(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	w := do(r, http.MethodPost, "/predict", `{"source":`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body models.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"body"}, body.Detail[0].Loc)
}

func TestPredictHandler_ClassifierErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"busy", fmt.Errorf("%w: %w", models.ErrBusy, context.DeadlineExceeded), http.StatusServiceUnavailable, "service_unavailable"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"internal", errors.New("model exploded"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := classifier.Func(func(ctx context.Context, a models.ArticleRequest) (models.ClassificationResult, error) {
				return models.ClassificationResult{}, tt.err
			})
			m := metrics.New()
			r := newTestRouter(NewAPIHandler(c, m), time.Second)

			w := do(r, http.MethodPost, "/predict", enBody)
			assert.Equal(t, tt.wantCode, w.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body.Error.Code)
			assert.Equal(t, 0.0, testutil.ToFloat64(m.ValidationFailures))
		})
	}
}

func TestPredictHandler_RequestTimeout(t *testing.T) {
	slow := classifier.Func(func(ctx context.Context, a models.ArticleRequest) (models.ClassificationResult, error) {
		<-ctx.Done()
		return models.ClassificationResult{}, ctx.Err()
	})
	r := newTestRouter(NewAPIHandler(slow, nil), 20*time.Millisecond)

	w := do(r, http.MethodPost, "/predict", enBody)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRouting_NotFoundAndMethodNotAllowed(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	w := do(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, w.Body.String())

	w = do(r, http.MethodGet, "/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(NewAPIHandler(linearClassifier(t), nil), time.Second)

	w := do(r, http.MethodGet, "/", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := newTestRouter(NewAPIHandler(linearClassifier(t), m), time.Second)

	do(r, http.MethodPost, "/predict", enBody)
	do(r, http.MethodPost, "/predict", `{}`)
	do(r, http.MethodGet, "/missing", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/predict", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/predict", "422")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("Business")))
}
