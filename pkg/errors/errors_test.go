package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"parse", fmt.Errorf("query: %w", ErrParse), http.StatusBadRequest},
		{"validation", fmt.Errorf("distance: %w", ErrValidation), http.StatusBadRequest},
		{"not built", ErrIndexNotBuilt, http.StatusServiceUnavailable},
		{"app error wins", New(ErrInternal, http.StatusTeapot, "brew"), http.StatusTeapot},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrIndexNotBuilt, http.StatusServiceUnavailable, "no snapshot for %s", "searcher")
	assert.ErrorIs(t, err, ErrIndexNotBuilt)
	assert.Equal(t, "index not built: no snapshot for searcher", err.Error())
	assert.False(t, IsClientError(err))
	assert.True(t, IsClientError(fmt.Errorf("wrapped: %w", ErrParse)))
}
