package lawharvest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/lawharvest"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := lawharvest.Errorf(lawharvest.ENOTFOUND, "record %q not found", "abc")

	assert.Equal(t, lawharvest.ENOTFOUND, lawharvest.ErrorCode(err))
	assert.Equal(t, "record \"abc\" not found", lawharvest.ErrorMessage(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, lawharvest.ErrorCode(nil))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("fetch: %w", lawharvest.Errorf(lawharvest.ECLIENT, "HTTP 404"))
		assert.Equal(t, lawharvest.ECLIENT, lawharvest.ErrorCode(err))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, lawharvest.EINTERNAL, lawharvest.ErrorCode(errors.New("boom")))
		assert.Equal(t, "Internal error.", lawharvest.ErrorMessage(errors.New("boom")))
	})
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lawharvest.ErrorMessage(nil))
}
