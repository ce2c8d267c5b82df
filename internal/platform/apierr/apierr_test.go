package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageFallbacks(t *testing.T) {
	assert.Equal(t, "boom", New(500, CodeInternal, errors.New("boom")).Error())
	assert.Equal(t, CodeConflict, New(409, CodeConflict, nil).Error())
	assert.Equal(t, "api error (418)", New(418, "", nil).Error())
	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("modify attendee: %w", GuardianInfoRequired())
	assert.True(t, HasCode(err, CodeGuardianInfoRequired))
	assert.False(t, HasCode(err, CodeNotFound))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Minors must provide guardian information", apiErr.Error())
}

func TestIsComparesCodes(t *testing.T) {
	assert.ErrorIs(t, MealLimitExceeded(3), MealLimitExceeded(1))
	assert.NotErrorIs(t, BadgeInUse(), AlreadySignedIn())
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, CouldNotVerify().Status)
	assert.Equal(t, http.StatusConflict, Conflict("stale").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated("nope").Status)
}
