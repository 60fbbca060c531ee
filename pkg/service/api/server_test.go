package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/stretchr/testify/require"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	"github.com/quansight/conda-store-operator/pkg/client/k8s/mock"
	mwMock "github.com/quansight/conda-store-operator/pkg/middleware/auth/mock"
	"github.com/quansight/conda-store-operator/pkg/models"
	"github.com/quansight/conda-store-operator/pkg/outputs"
	"github.com/quansight/conda-store-operator/pkg/service/api"
)

var sharedPrometheus = ginprometheus.NewPrometheus("conda_store")

func newTestServer(t *testing.T, svc k8s.CondaStoreClient, caller string) (*api.CondaStoreServer, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authMwMock := &mwMock.AuthMiddleware{Service: caller}

	srv := api.NewCondaStoreServer(
		api.WithAuthMiddleware(authMwMock),
		api.WithPrometheusMiddleware(sharedPrometheus),
		api.WithRetryAfterSeconds(7),
	)

	if err := srv.LoadApiRoutes(svc); err != nil {
		t.Fatalf("failed to load api routes: %v", err)
	}

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doReq(t *testing.T, ts *httptest.Server, method, path string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, ts.URL+path, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func requireErrorMessage(t *testing.T, body []byte, want string) {
	t.Helper()
	var er models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er), string(body))
	require.Equal(t, want, er.Message)
}

var missingShareError = humane.Wrap(k8serrors.NewNotFound(schema.GroupResource{Group: "condastore.quansight.dev", Resource: "condastores"}, "conda-store"), "share not declared", "create the CondaStore resource")

func TestNewCondaStoreServer_RoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authMwMock := &mwMock.AuthMiddleware{Service: "jupyterhub"}
	s := api.NewCondaStoreServer(
		api.WithAuthMiddleware(authMwMock),
		api.WithPrometheusMiddleware(sharedPrometheus),
	)
	require.NotNil(t, s)
	require.NotNil(t, s.Engine())

	svc := mock.NewMockCondaStoreClient()

	require.Error(t, s.LoadApiRoutes(nil))
	require.NoError(t, s.LoadApiRoutes(svc))

	expected := map[string]bool{
		http.MethodGet + " " + api.ApiRouteV1Alpha1 + api.OutputsApiRoute:   false,
		http.MethodGet + " " + api.ApiRouteV1Alpha1 + api.EndpointApiRoute:  false,
		http.MethodGet + " " + api.ApiRouteV1Alpha1 + api.TokenApiRoute:     false,
		http.MethodPost + " " + api.ApiRouteV1Alpha1 + api.RotateApiRoute:   false,
		http.MethodGet + " /swagger":                                        false,
	}

	for _, r := range s.Engine().Routes() {
		key := r.Method + " " + r.Path
		if _, ok := expected[key]; ok {
			expected[key] = true
		}
	}

	for route, seen := range expected {
		if !seen {
			t.Errorf("missing route %s", route)
		}
	}
}

func TestGetOutputs(t *testing.T) {
	t.Run("returns outputs as json", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			OutputsFn: func() (*outputs.Outputs, humane.Error) {
				return &outputs.Outputs{
					Endpoint:   "conda-store-nfs.dev.svc.cluster.local",
					EndpointIP: "10.96.0.42",
					ServiceTokens: map[string]string{
						"jupyterhub": "c2VjcmV0QQ==",
					},
				}, nil
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, body := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.OutputsApiRoute, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out outputs.Outputs
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "conda-store-nfs.dev.svc.cluster.local", out.Endpoint)
		require.Equal(t, "10.96.0.42", out.EndpointIP)
		require.Equal(t, "c2VjcmV0QQ==", out.ServiceTokens["jupyterhub"])
	})

	t.Run("returns outputs as yaml when requested", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			OutputsFn: func() (*outputs.Outputs, humane.Error) {
				return &outputs.Outputs{
					Endpoint:      "conda-store-nfs.dev.svc.cluster.local",
					EndpointIP:    "10.96.0.42",
					ServiceTokens: map[string]string{},
				}, nil
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, body := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.OutputsApiRoute, map[string]string{
			"Accept": "application/yaml",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
		require.Contains(t, string(body), "endpoint: conda-store-nfs.dev.svc.cluster.local")
	})

	t.Run("returns 202 with retry-after while provisioning", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			OutputsFn: func() (*outputs.Outputs, humane.Error) {
				return nil, k8s.NotReadyYetError
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, _ := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.OutputsApiRoute, nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		require.Equal(t, "7", resp.Header.Get("Retry-After"))
	})

	t.Run("maps missing share to 404", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			OutputsFn: func() (*outputs.Outputs, humane.Error) {
				return nil, missingShareError
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, body := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.OutputsApiRoute, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		requireErrorMessage(t, body, "share not declared")
	})

	t.Run("maps token bookkeeping errors to 500", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			OutputsFn: func() (*outputs.Outputs, humane.Error) {
				return nil, humane.New("no token minted for service(s): dask-gateway")
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, body := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.OutputsApiRoute, nil)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		requireErrorMessage(t, body, "no token minted for service(s): dask-gateway")
	})
}

func TestGetEndpoint(t *testing.T) {
	svc := &mock.MockCondaStoreClient{
		EndpointFn: func() (*k8s.EndpointInfo, humane.Error) {
			return &k8s.EndpointInfo{
				Endpoint:   "conda-store-nfs.dev.svc.cluster.local",
				EndpointIP: "10.96.0.42",
			}, nil
		},
	}
	_, ts := newTestServer(t, svc, "jupyterhub")

	resp, body := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.EndpointApiRoute, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ep models.EndpointResponse
	require.NoError(t, json.Unmarshal(body, &ep))
	require.Equal(t, "conda-store-nfs.dev.svc.cluster.local", ep.Endpoint)
	require.Equal(t, "10.96.0.42", ep.EndpointIP)
}

func TestGetToken(t *testing.T) {
	t.Run("defaults to the calling service", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			ServiceTokenFn: func(service string) (string, humane.Error) {
				require.Equal(t, "jupyterhub", service)
				return "c2VjcmV0QQ==", nil
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, body := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.TokenApiRoute, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var tok models.TokenResponse
		require.NoError(t, json.Unmarshal(body, &tok))
		require.Equal(t, "jupyterhub", tok.Service)
		require.Equal(t, "c2VjcmV0QQ==", tok.Token)
	})

	t.Run("honors explicit service parameter", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			ServiceTokenFn: func(service string) (string, humane.Error) {
				require.Equal(t, "dask-gateway", service)
				return "c2VjcmV0Qg==", nil
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, _ := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.TokenApiRoute+"?service=dask-gateway", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("undeclared service fails", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			ServiceTokenFn: func(service string) (string, humane.Error) {
				return "", humane.New("service \"ghost\" is not declared on this share")
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, _ := doReq(t, ts, http.MethodGet, api.ApiRouteV1Alpha1+api.TokenApiRoute+"?service=ghost", nil)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestRotateToken(t *testing.T) {
	t.Run("schedules rotation and returns 202", func(t *testing.T) {
		rotated := ""
		svc := &mock.MockCondaStoreClient{
			RotateFn: func(service string) humane.Error {
				rotated = service
				return nil
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, _ := doReq(t, ts, http.MethodPost, api.ApiRouteV1Alpha1+api.RotateApiRoute, nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		require.Equal(t, "7", resp.Header.Get("Retry-After"))
		require.Equal(t, "jupyterhub", rotated)
	})

	t.Run("returns 202 with Retry-After while tokens are not minted yet", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			RotateFn: func(service string) humane.Error {
				return k8s.NotReadyYetError
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, _ := doReq(t, ts, http.MethodPost, api.ApiRouteV1Alpha1+api.RotateApiRoute, nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		require.Equal(t, "7", resp.Header.Get("Retry-After"))
	})

	t.Run("rotation failure is reported", func(t *testing.T) {
		svc := &mock.MockCondaStoreClient{
			RotateFn: func(service string) humane.Error {
				return humane.New("failed to invalidate old token")
			},
		}
		_, ts := newTestServer(t, svc, "jupyterhub")

		resp, body := doReq(t, ts, http.MethodPost, api.ApiRouteV1Alpha1+api.RotateApiRoute, nil)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		requireErrorMessage(t, body, "failed to invalidate old token")
	})
}
