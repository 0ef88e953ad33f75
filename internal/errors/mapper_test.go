package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"canceled", context.Canceled, statusClientClosedRequest},
		{"persistence", Persistence(fmt.Errorf("db down")), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := Map(tc.err)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestMapWrappedPersistenceKeepsSentinels(t *testing.T) {
	// a wrapped not-found still maps to 404, not to the persistence
	// fallback
	status, _ := Map(Persistence(gorm.ErrRecordNotFound))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = Map(Persistence(context.Canceled))
	assert.Equal(t, statusClientClosedRequest, status)
}
