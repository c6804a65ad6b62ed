package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	appErr "hwbot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCauseInMessage(t *testing.T) {
	t.Parallel()
	cause := fmt.Errorf("dial tcp: connection refused")
	err := appErr.Wrap(cause, appErr.APIRequestFailed)

	require.NotNil(t, err)
	assert.Equal(t, "Homework API request failed: dial tcp: connection refused", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, appErr.APIRequestFailed, appErr.GetCode(err))
}

func TestWrapNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, appErr.Wrap(nil, appErr.InternalServerError))
	assert.Nil(t, appErr.Wrapf(nil, appErr.InternalServerError, "x"))
}

func TestIsWalksJoinedErrors(t *testing.T) {
	t.Parallel()
	joined := stderrors.Join(
		appErr.New(appErr.HomeworkNameMissing),
		appErr.New(appErr.UnknownHomeworkStatus),
	)
	assert.True(t, appErr.Is(joined, appErr.HomeworkNameMissing))
	assert.True(t, appErr.Is(joined, appErr.UnknownHomeworkStatus))
	assert.False(t, appErr.Is(joined, appErr.NotificationFailed))
}

func TestIsWalksFmtWrapping(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("cycle failed: %w", appErr.New(appErr.HomeworksMissing))
	assert.True(t, appErr.Is(err, appErr.HomeworksMissing))
	assert.Equal(t, appErr.HomeworksMissing, appErr.GetCode(err))
}

func TestGetCodeForeignError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, appErr.Success, appErr.GetCode(nil))
	assert.Equal(t, appErr.InternalServerError, appErr.GetCode(stderrors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()
	cases := map[appErr.ErrorCode]int{
		appErr.Success:             200,
		appErr.InvalidParams:       400,
		appErr.ServiceUnavailable:  503,
		appErr.APIUnexpectedStatus: 502,
		appErr.DatabaseError:       500,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.HTTPStatus(), "code %d", code)
	}
}

func TestFieldErrorDetails(t *testing.T) {
	t.Parallel()
	err := appErr.FieldError(appErr.HomeworksMissing, "homeworks")
	assert.Equal(t, "homeworks", err.Details["field"])
	assert.NotEmpty(t, err.Stack)
}
