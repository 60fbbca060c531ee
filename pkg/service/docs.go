package service

// @title Conda Store Provisioning API
// @version 1.0
// @description API for reading and rotating the outputs of a provisioned conda-store share.
// @contact.name Quansight
// @contact.url quansight.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1alpha1
// @securityDefinitions.apikey ServiceToken
// @in header
// @name Authorization
// @description Present the base64-encoded token minted for your service as a bearer token.

import (
	"github.com/quansight/conda-store-operator/pkg/models"
)

// This file ensures all models are included in Swag documentation
var (
	_ = models.ErrorResponse{}
	_ = models.EndpointResponse{}
	_ = models.TokenResponse{}
)
