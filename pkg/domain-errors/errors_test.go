package domainerrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct code", func(t *testing.T) {
		err := New(CodeNonexistentToken, "token does not exist")
		assert.True(t, HasCode(err, CodeNonexistentToken))
		assert.False(t, HasCode(err, CodeUnauthorized))
	})

	t.Run("wrapped cause keeps inner code reachable", func(t *testing.T) {
		inner := New(CodeConflict, "duplicate")
		outer := Wrap(inner, CodeInternal, "mint failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeConflict))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeUnauthorized:     http.StatusForbidden,
		CodeNonexistentToken: http.StatusNotFound,
		CodeInvalidRecipient: http.StatusUnprocessableEntity,
		CodeAlreadyMinted:    http.StatusConflict,
		CodeBadRequest:       http.StatusBadRequest,
		CodeInternal:         http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(cause, CodeInternal, "failed to load record")
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to load record")
}
