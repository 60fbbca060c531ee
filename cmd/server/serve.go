package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	"github.com/quansight/conda-store-operator/pkg/lnhttp"
	authMw "github.com/quansight/conda-store-operator/pkg/middleware/auth"
	koperator "github.com/quansight/conda-store-operator/pkg/operator"
	"github.com/quansight/conda-store-operator/pkg/service/api"
	"github.com/quansight/conda-store-operator/pkg/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve [--port|-p <int>] [--health-port <int>] [--token-length <int>]",
	Short: "Run the conda-store outputs API and Kubernetes operator services",
	Long: `Start the outputs HTTP API and the Kubernetes operator.

This command:

- Runs the Kubernetes operator that provisions the NFS share, its Service, and the service tokens Secret
- Serves the outputs HTTP API with bearer-token authentication
- Starts a local HTTP server for metrics and health checks

Configuration is provided via flags and environment variables (see --help).`,
	Example: `# Start the server with defaults from config and environment
conda-store-operator serve

# Override the API port and health port
conda-store-operator serve --port 9000 --health-port 9090

# Provision shares in a different namespace
conda-store-operator serve --namespace conda-store-prod`,
	Args:      cobra.ExactArgs(0),
	ValidArgs: []string{},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runE(cmd, args); err != nil {
			otelzap.L().WithError(err).Fatal("Exiting")
		}

		otelzap.L().Info("Exiting")
	},
}

func configureGinMode(debug bool) {
	if debug {
		configFileName := viper.GetViper().ConfigFileUsed()
		if file, err := os.ReadFile(configFileName); err == nil && len(file) > 0 {
			otelzap.L().Sugar().With(
				"config_file", configFileName,
				string(file), "config", string(file),
			).Debug("Config file used")
		}
		gin.SetMode(gin.DebugMode)
		return
	}

	configFileName := viper.GetViper().ConfigFileUsed()
	otelzap.L().Sugar().With("config_file", configFileName).Debug("Config file used")
	gin.SetMode(gin.ReleaseMode)
}

func getClientOptions() k8s.ClientOptions {
	return k8s.ClientOptions{
		Namespace:   viper.GetString("operator.namespace"),
		ShareName:   viper.GetString("operator.shareName"),
		ServiceName: viper.GetString("operator.serviceName"),
		TokenLength: viper.GetInt("operator.tokenLength"),
	}
}

func getHealthPort() int {
	localPort := viper.GetInt("health.port")
	if localPort == 0 {
		localPort = 8080
	}
	return localPort
}

func runE(cmd *cobra.Command, _ []string) humane.Error {
	debug := viper.GetBool("debug")
	configureGinMode(debug)

	ctx, cancelFn := context.WithCancelCause(cmd.Context())
	utils.InterruptHandler(ctx, cancelFn)

	clientOpts := getClientOptions()

	k8sOperator, err := koperator.NewK8sOperator(clientOpts)
	if err != nil {
		cancelFn(err)
		return err
	}

	// Create shared Prometheus instance for all servers
	sharedPrometheus := ginprometheus.NewPrometheus("conda_store")

	srv, apiServer, err := newApiServer(sharedPrometheus, k8sOperator.GetClient())
	if err != nil {
		cancelFn(err)
		return err
	}

	// Create local metrics server
	healthSrv := newHealthServer(k8sOperator.GetClient())
	healthSrv.Addr = fmt.Sprintf(":%d", getHealthPort())

	// Start outputs API server
	go func() {
		otelzap.L().InfoContext(ctx, "Starting outputs API server", zap.String("addr", srv.Addr))

		if err := srv.Serve(ctx, apiServer.Engine()); err != nil {
			cancelFn(err)
			otelzap.L().WithError(err).FatalContext(ctx, "Failed to serve outputs API")
		}
	}()

	// Start metrics server (Local)
	go func() {
		otelzap.L().InfoContext(ctx, "Starting local metrics server", zap.String("addr", healthSrv.Addr))

		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cancelFn(fmt.Errorf("local metrics server failed: %w", err))
			otelzap.L().WithError(err).FatalContext(ctx, "Failed to start local metrics server")
		}
	}()

	// Start Kubernetes operator
	go func() {
		if err := k8sOperator.Start(ctx); err != nil {
			if err.Cause() != nil {
				cancelFn(err.Cause())
			} else {
				cancelFn(err)
			}
			otelzap.L().WithError(err).FatalContext(ctx, "Failed to start k8s operator")
		}
	}()

	// Wait for context done
	<-ctx.Done()
	// No more logging to ctx from here onwards

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	otelzap.L().Info("Shutting down servers...")

	// Shutdown local metrics server first
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		otelzap.L().WithError(err).Error("Failed to shutdown local metrics server gracefully")
		// Continue with the API server shutdown even if this one failed
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		otelzap.L().WithError(err).Error("Failed to shutdown outputs API server gracefully")
		return humane.Wrap(err, "failed to shutdown outputs API server")
	}

	otelzap.L().Info("Servers shut down successfully")

	// Check termination cause
	cause := context.Cause(ctx)
	if cause != nil && !errors.Is(cause, context.Canceled) {
		return humane.Wrap(cause, "server terminated due to error")
	}

	return nil
}

func newApiServer(prom *ginprometheus.Prometheus, k8sClient k8s.CondaStoreClient) (*lnhttp.Server, *api.CondaStoreServer, humane.Error) {
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt("api.port")),
		ReadTimeout:       viper.GetDuration("server.readTimeout"),
		ReadHeaderTimeout: viper.GetDuration("server.readHeaderTimeout"),
		WriteTimeout:      viper.GetDuration("server.writeTimeout"),
		IdleTimeout:       viper.GetDuration("server.idleTimeout"),
	}
	srv := lnhttp.NewServer(httpSrv, &lnhttp.TCPProvider{})

	authMiddleware := authMw.NewGinAuthMiddleware(k8sClient)

	apiServer := api.NewCondaStoreServer(
		api.WithRetryAfterSeconds(viper.GetInt("api.retryAfterSeconds")),
		api.WithPrometheusMiddleware(prom),
		api.WithAuthMiddleware(authMiddleware),
	)

	if err := apiServer.LoadApiRoutes(k8sClient); err != nil {
		return nil, nil, err
	}

	return srv, apiServer, nil
}

func newHealthServer(k8sClient k8s.CondaStoreClient) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginzap.GinzapWithConfig(otelzap.L(), &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
	}))

	// Metrics endpoint - expose all Prometheus metrics
	// Since we're using a shared Prometheus instance, all metrics will be available via the default handler
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Controller metrics endpoint - expose controller-runtime metrics for backwards compatibility
	router.GET("/metrics/controller", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Ready endpoint - ready once the share has finished provisioning
	router.GET("/ready", func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK
		reason := "conda-store share is provisioned"

		if _, err := k8sClient.GetEndpoint(c.Request.Context()); err != nil {
			status = "not ready"
			httpStatus = http.StatusServiceUnavailable
			reason = err.Display()
		}

		c.JSON(httpStatus, gin.H{
			"status": status,
			"reason": reason,
		})
	})

	return &http.Server{
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
