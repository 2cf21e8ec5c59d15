/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jerry-enebeli/paydocs/internal/apierror"
	"github.com/jerry-enebeli/paydocs/internal/docgen"
	"github.com/jerry-enebeli/paydocs/ledger"
	"github.com/jerry-enebeli/paydocs/model"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIError(t *testing.T) {
	details := "Some internal error details"
	apiErr := apierror.NewAPIError(apierror.ErrInternalServer, "Something went wrong", details)

	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "INTERNAL_SERVER_ERROR: Something went wrong", apiErr.Error())
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "NotFound Error",
			err:      apierror.NewAPIError(apierror.ErrNotFound, "Resource not found", nil),
			expected: http.StatusNotFound,
		},
		{
			name:     "Conflict Error",
			err:      apierror.NewAPIError(apierror.ErrConflict, "Conflict occurred", nil),
			expected: http.StatusConflict,
		},
		{
			name:     "InvalidInput Error",
			err:      apierror.NewAPIError(apierror.ErrInvalidInput, "Invalid input", nil),
			expected: http.StatusBadRequest,
		},
		{
			name:     "Upstream Error",
			err:      apierror.NewAPIError(apierror.ErrUpstream, "Document service failed", nil),
			expected: http.StatusBadGateway,
		},
		{
			name:     "Wrapped Error",
			err:      fmt.Errorf("draft: %w", apierror.NewAPIError(apierror.ErrNotFound, "Draft not found", nil)),
			expected: http.StatusNotFound,
		},
		{
			name:     "Unknown Error",
			err:      errors.New("Unknown error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusCode := apierror.MapErrorToHTTPStatus(tt.err)
			assert.Equal(t, tt.expected, statusCode)
		})
	}
}

func TestFromError(t *testing.T) {
	apiErr := apierror.FromError(model.MissingField("description"))
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
	assert.Equal(t, apierror.ValidationDetails{Kind: model.KindMissingField, Field: "description"}, apiErr.Details)

	apiErr = apierror.FromError(model.NotFound("TXN1"))
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)

	apiErr = apierror.FromError(&ledger.RowError{Index: 3, Err: model.ErrAmbiguousAmount})
	details, ok := apiErr.Details.(apierror.ValidationDetails)
	require.True(t, ok)
	require.NotNil(t, details.Row)
	assert.Equal(t, 3, *details.Row)
	assert.Equal(t, model.KindAmbiguousAmount, details.Kind)

	original := apierror.NewAPIError(apierror.ErrUpstream, "down", nil)
	assert.Equal(t, original, apierror.FromError(original))

	upstream := fmt.Errorf("render: %w", &docgen.UpstreamError{StatusCode: 422, Message: "bad payload"})
	apiErr = apierror.FromError(upstream)
	assert.Equal(t, apierror.ErrUpstream, apiErr.Code)
	assert.Equal(t, "bad payload", apiErr.Message)
	assert.Equal(t, http.StatusBadGateway, apierror.MapErrorToHTTPStatus(apiErr))

	exhausted := pkgerrors.Wrap(&docgen.UpstreamError{StatusCode: 503, Message: "maintenance"}, "failed to render statement")
	apiErr = apierror.FromError(exhausted)
	assert.Equal(t, apierror.ErrUpstream, apiErr.Code)
	assert.Equal(t, http.StatusBadGateway, apierror.MapErrorToHTTPStatus(apiErr))

	assert.Equal(t, apierror.ErrInternalServer, apierror.FromError(errors.New("boom")).Code)
}
