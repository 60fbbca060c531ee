package utils

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewO11yGin builds a gin.Engine with the observability middleware stack:
// otelgin tracing, ginzap structured request logging, and Prometheus
// request metrics. Pass a shared Prometheus instance when several routers
// should report into the same registry; nil creates a fresh one.
func NewO11yGin(routerName string, prom *ginprometheus.Prometheus) *gin.Engine {
	// Setup Gin router
	router := gin.New()
	router.Use(otelgin.Middleware(routerName))
	// Setup ginzap to log everything correctly to zap
	router.Use(ginzap.GinzapWithConfig(otelzap.L(), &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context: func(c *gin.Context) []zapcore.Field {
			var fields []zapcore.Field
			// log request ID
			if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
				fields = append(fields, zap.String("request_id", requestID))
			}

			// log trace and span ID
			if trace.SpanFromContext(c.Request.Context()).SpanContext().IsValid() {
				fields = append(fields, zap.String("trace_id", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()))
				fields = append(fields, zap.String("span_id", trace.SpanFromContext(c.Request.Context()).SpanContext().SpanID().String()))
			}
			return fields
		},
	}))

	// Expose prometheus metrics for this router
	if prom == nil {
		prom = ginprometheus.NewPrometheus(routerName)
	}
	prom.Use(router)

	return router
}
