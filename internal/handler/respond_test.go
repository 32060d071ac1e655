package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/service"
)

func TestListResponseEnvelope(t *testing.T) {
	ads := []*model.AdWithOwner{{Ad: model.Ad{ID: 1}}}

	w := httptest.NewRecorder()
	respondJSON(w, 200, newListResponse(ads, 41, 2, 20))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Contains(t, body, "items")
	assert.JSONEq(t, "41", string(body["total"]))
	assert.JSONEq(t, "2", string(body["page"]))
	assert.JSONEq(t, "20", string(body["limit"]))
	assert.JSONEq(t, "3", string(body["totalPages"]))
}

func TestListResponseTotalPagesRounding(t *testing.T) {
	assert.Equal(t, 0, newListResponse(nil, 0, 1, 20).TotalPages)
	assert.Equal(t, 1, newListResponse(nil, 20, 1, 20).TotalPages)
	assert.Equal(t, 2, newListResponse(nil, 21, 1, 20).TotalPages)
	assert.Equal(t, 0, newListResponse(nil, 5, 1, 0).TotalPages)
}

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidCredentials, 401},
		{service.ErrAdNotOwner, 403},
		{repository.ErrAdNotFound, 404},
		{repository.ErrVerificationNotFound, 404},
		{service.ErrCategoryMismatch, 409},
		{service.ErrCannotApprove, 409},
		{service.ErrStatusUnchanged, 409},
		{service.ErrAlreadyVerified, 409},
		{service.ErrRejectionRequired, 400},
		{assert.AnError, 500},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		respondServiceError(w, tc.err)
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}
}
