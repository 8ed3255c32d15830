package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"newsclassifier/internal/metrics"
	"newsclassifier/internal/models"
	"newsclassifier/internal/validator"
	"newsclassifier/pkg/classifier"
)

// maxBodyBytes caps /predict bodies; articles are a few KB at most.
const maxBodyBytes = 1 << 20

type APIHandler struct {
	Classifier classifier.Classifier
	Metrics    *metrics.Metrics
}

func NewAPIHandler(c classifier.Classifier, m *metrics.Metrics) *APIHandler {
	if m == nil {
		m = metrics.New()
	}
	return &APIHandler{Classifier: c, Metrics: m}
}

// RootHandler answers the liveness probe on "/".
func (h *APIHandler) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Hello": "World"})
}

// PredictHandler validates an article and returns its classification.
func (h *APIHandler) PredictHandler(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(c, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	article, err := validator.DecodeArticle(body)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			h.Metrics.ValidationFailures.Inc()
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, vErr)
			return
		}
		Internal(c, fmt.Sprintf("PredictHandler: decode failed: %v", err))
		return
	}

	start := time.Now()
	result, err := h.Classifier.Classify(c.Request.Context(), article)
	if err != nil {
		h.respondClassifierError(c, err)
		return
	}
	h.Metrics.RecordPrediction(result.Label, time.Since(start).Seconds())

	c.JSON(http.StatusOK, result)
}

// respondClassifierError maps a classifier failure to a 5xx response.
func (h *APIHandler) respondClassifierError(c *gin.Context, err error) {
	entry := log.WithError(err).WithField("request_id", c.GetString(RequestIDKey))

	switch {
	case errors.Is(err, models.ErrBusy):
		h.Metrics.RecordClassifierError("busy")
		entry.Warn("Classifier busy, rejecting request")
		ServiceUnavailable(c, "classifier is busy, retry later")
	case errors.Is(err, context.DeadlineExceeded):
		h.Metrics.RecordClassifierError("timeout")
		entry.Warn("Classification timed out")
		GatewayTimeout(c, "classification timed out")
	case errors.Is(err, context.Canceled):
		h.Metrics.RecordClassifierError("canceled")
		entry.Debug("Client went away during classification")
		ServiceUnavailable(c, "request canceled")
	default:
		h.Metrics.RecordClassifierError("internal")
		entry.Error("Classification failed")
		Internal(c, fmt.Sprintf("PredictHandler: classification failed: %v", err))
	}
}
