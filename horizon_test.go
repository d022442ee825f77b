package horizon_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/horizon"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := horizon.Errorf(horizon.ENOTFOUND, "article %q not found", "https://news.test/a")

	assert.Equal(t, horizon.ENOTFOUND, horizon.ErrorCode(err))
	assert.Equal(t, "article \"https://news.test/a\" not found", horizon.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, horizon.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, horizon.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("reading cache: %w", horizon.Errorf(horizon.ECONFLICT, "duplicate"))

	assert.Equal(t, horizon.ECONFLICT, horizon.ErrorCode(err))
	assert.Equal(t, "duplicate", horizon.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, horizon.EINTERNAL, horizon.ErrorCode(err))
	assert.Equal(t, "Internal error.", horizon.ErrorMessage(err))
}
