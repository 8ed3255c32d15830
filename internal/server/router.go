package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"newsclassifier/internal/apihandlers"
	"newsclassifier/internal/metrics"
)

// NewRouter wires the public routes onto a fresh gin engine.
func NewRouter(h *apihandlers.APIHandler, m *metrics.Metrics, requestTimeout time.Duration) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		apihandlers.RequestID(),
		apihandlers.Logger(),
		apihandlers.Metrics(m),
		apihandlers.Recovery(),
	)

	router.GET("/", h.RootHandler)
	router.POST("/predict", apihandlers.Timeout(requestTimeout), h.PredictHandler)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.NoRoute(apihandlers.NotFound)
	router.NoMethod(apihandlers.MethodNotAllowed)

	return router
}
