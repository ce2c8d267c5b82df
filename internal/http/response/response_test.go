package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
)

func serve(t *testing.T, err error) (*httptest.ResponseRecorder, APIError) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondError(c, err)
	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespondErrorMapsAPIErrors(t *testing.T) {
	rec, body := serve(t, fmt.Errorf("wrapped: %w", apierr.CouldNotVerify()))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, APIError{Message: "Could not verify", Code: apierr.CodeCouldNotVerify}, body)

	rec, body = serve(t, apierr.NotFound("Attendee does not exist"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Attendee does not exist", body.Message)
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	rec, body := serve(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierr.CodeInternal, body.Code)
	assert.NotContains(t, body.Message, "pq")
}
