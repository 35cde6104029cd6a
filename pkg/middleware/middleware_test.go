package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bazaarhub/pkg/errors"
	jwtutil "bazaarhub/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	manager := jwtutil.NewJWTManager("secret", time.Hour)
	token, err := manager.GenerateToken("u-1", "a@b.c", "Alex")
	require.NoError(t, err)

	var gotUserID string
	handler := JWTAuthMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", gotUserID)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	manager := jwtutil.NewJWTManager("secret", time.Hour)
	handler := JWTAuthMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"bad token", "Bearer not-a-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			errObj := body["error"].(map[string]interface{})
			assert.Equal(t, "UNAUTHENTICATED", errObj["code"])
		})
	}
}

func TestHandleError_MapsCodesToStatus(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{errors.NewInvalidArgument("bad input"), http.StatusBadRequest, errors.CodeInvalidArgument},
		{errors.NewUnauthenticated("who are you"), http.StatusUnauthorized, errors.CodeUnauthenticated},
		{errors.NewPermissionDenied("no"), http.StatusForbidden, errors.CodePermissionDenied},
		{errors.NewNotFound("merchant"), http.StatusNotFound, errors.CodeNotFound},
		{errors.NewFailedPrecondition("status must be pending, was confirmed"), http.StatusConflict, errors.CodeFailedPrecondition},
		{errors.NewConflictError("concurrent write"), http.StatusConflict, errors.CodeConflict},
		{errors.NewInternalError("boom"), http.StatusInternalServerError, errors.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.wantCode, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			rec := httptest.NewRecorder()
			HandleError(rec, req, zap.NewNop(), tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			errObj := body["error"].(map[string]interface{})
			assert.Equal(t, tc.wantCode, errObj["code"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestHandleError_MasksInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	rec := httptest.NewRecorder()
	HandleError(rec, req, zap.NewNop(), errors.NewInternalError("mongo: connection reset"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Internal server error", errObj["message"])
}

func TestRequestIDMiddleware_SetsHeaderAndContext(t *testing.T) {
	var ctxID string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, ctxID)
	assert.Equal(t, ctxID, rec.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware_Returns500(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
