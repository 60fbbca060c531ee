package api

import (
	"net/http"

	// gin
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	// Misc
	"github.com/sierrasoftworks/humane-errors-go"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"

	// o11y
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/quansight/conda-store-operator/internal/utils"
	client "github.com/quansight/conda-store-operator/pkg/client/k8s"
	mw "github.com/quansight/conda-store-operator/pkg/middleware"
	"github.com/quansight/conda-store-operator/pkg/models"
)

// API route constants define the URL paths for the conda-store REST API.
const (
	// ApiRouteV1Alpha1 is the base path for the v1alpha1 API version.
	ApiRouteV1Alpha1 = "/api/v1alpha1"
	// OutputsApiRoute is the path for retrieving the full outputs of a share.
	OutputsApiRoute = "/outputs"
	// EndpointApiRoute is the path for retrieving the NFS endpoint address.
	EndpointApiRoute = "/endpoint"
	// TokenApiRoute is the path for retrieving a single service token.
	TokenApiRoute = "/token"
	// RotateApiRoute is the path for requesting a token rotation.
	RotateApiRoute = "/token/rotate"
)

// CondaStoreServer is the HTTP API fronting a provisioned conda-store
// share. It publishes the share's outputs (endpoint, cluster IP, and
// per-service tokens) to authenticated services.
//
// The server consists of the following components:
// - Gin HTTP router with OpenTelemetry observability middlewares (ginzap, otelgin, prometheus)
// - Gin authentication middleware resolving bearer tokens to services
// - A k8s.CondaStoreClient for the business logic
// - Swagger documentation endpoint
//
// 1. Create server with NewCondaStoreServer() constructor
// 2. Load routes with LoadApiRoutes()
// 3. Serve the Engine() with an HTTP server
type CondaStoreServer struct {
	// API
	router           *gin.Engine
	tracer           trace.Tracer
	sharedPrometheus *ginprometheus.Prometheus

	// Business logic
	client         client.CondaStoreClient
	authMiddleware mw.Middleware

	// API behavior
	retryAfterSeconds int
}

// NewCondaStoreServer creates a new CondaStoreServer instance with the
// provided options.
//
// The constructor automatically:
//   - Sets up Gin router with observability middleware (tracing, logging, metrics)
//   - Establishes the Swagger documentation endpoint
//   - Applies all provided options
//
// Note: You must call LoadApiRoutes() before serving.
func NewCondaStoreServer(opts ...Option) *CondaStoreServer {
	srv := &CondaStoreServer{
		router:            nil,
		tracer:            otel.Tracer("conda_store_server"),
		client:            nil,
		authMiddleware:    nil,
		retryAfterSeconds: 1,
		sharedPrometheus:  nil,
	}

	// Apply Options
	for _, opt := range opts {
		opt(srv)
	}

	if srv.sharedPrometheus == nil {
		srv.sharedPrometheus = ginprometheus.NewPrometheus("conda_store_server")
	}

	srv.router = utils.NewO11yGin("conda_store_server", srv.sharedPrometheus)

	srv.loadStaticRoutes()
	return srv
}

// loadStaticRoutes registers static endpoints and the Swagger UI.
func (t *CondaStoreServer) loadStaticRoutes() {
	// Serve the Swagger UI at /swagger/index.html
	t.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	t.router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}

// LoadApiRoutes registers the outputs API endpoints with the server.
// It must be called before serving. It returns an error if the provided
// client implementation (svc) is nil.
//
// The following endpoints are registered:
//   - GET  /api/v1alpha1/outputs      - Retrieve the full outputs of the share
//   - GET  /api/v1alpha1/endpoint     - Retrieve the NFS endpoint address
//   - GET  /api/v1alpha1/token        - Retrieve the calling service's token
//   - POST /api/v1alpha1/token/rotate - Request a token rotation
func (t *CondaStoreServer) LoadApiRoutes(svc client.CondaStoreClient) humane.Error {
	if svc == nil {
		return humane.New("share client not configured", "Provide a k8s.CondaStoreClient")
	}
	t.client = svc

	v1alpha1Group := t.router.Group(ApiRouteV1Alpha1)

	// Install auth middleware only on the API route group
	if t.authMiddleware != nil {
		t.authMiddleware.UseGroup(v1alpha1Group, t.tracer)
	}

	v1alpha1Group.GET(OutputsApiRoute, t.getOutputs)
	v1alpha1Group.GET(EndpointApiRoute, t.getEndpoint)
	v1alpha1Group.GET(TokenApiRoute, t.getToken)
	v1alpha1Group.POST(RotateApiRoute, t.rotateToken)

	return nil
}

// Engine returns the underlying gin.Engine for advanced integration scenarios.
// This method is primarily intended for testing and embedding use cases
// where direct access to the Gin router is required.
func (t *CondaStoreServer) Engine() *gin.Engine { return t.router }

// writeHumaneError renders a humane.Error as JSON. Kubernetes NotFound
// causes map to notFoundStatus, everything else is a 500.
func writeHumaneError(ct *gin.Context, err humane.Error, notFoundStatus int) {
	status := http.StatusInternalServerError
	if cause := err.Cause(); cause != nil && k8serrors.IsNotFound(cause) {
		status = notFoundStatus
	}
	ct.JSON(status, models.FromHumaneError(err))
}

// acceptsYAML determines if the client accepts a YAML response based on the Accept header.
// It checks for "application/yaml", "text/yaml", and "application/x-yaml".
func acceptsYAML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return accept == "application/yaml" || accept == "text/yaml" || accept == "application/x-yaml"
}
