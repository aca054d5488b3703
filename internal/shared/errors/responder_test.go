package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errMapped = errors.New("mapped")

func serveError(t *testing.T, responder *ChainedResponder, err error) (int, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/orders/1", nil)

	responder.RespondError(c, err)

	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec.Code, problem
}

func TestChainedResponder_UsesMapper(t *testing.T) {
	responder := NewChainedResponder("https://errors.example.com", func(err error) (ProblemDetail, bool) {
		if errors.Is(err, errMapped) {
			return ErrNotFound.WithDetail("order 1"), true
		}
		return ProblemDetail{}, false
	})

	status, problem := serveError(t, responder, errMapped)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "https://errors.example.com"+TypeNotFound, problem.Type)
	require.Equal(t, "/v1/orders/1", problem.Instance)
	require.Equal(t, "order 1", problem.Detail)
}

func TestChainedResponder_FallsBackToInternal(t *testing.T) {
	status, problem := serveError(t, NewChainedResponder(""), errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, TypeInternal, problem.Type)
	require.Equal(t, "boom", problem.Detail)
}

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrPartialFailure.WithExtension("outcome", "partial-failure")
	derived := base.WithExtension("archiveId", "a-1")

	require.NotContains(t, base.Extensions, "archiveId")
	require.Equal(t, "a-1", derived.Extensions["archiveId"])
	require.Equal(t, "partial-failure", derived.Extensions["outcome"])
}
