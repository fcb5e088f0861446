package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webshop-go/storefront/pkg/apperr"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"not found", apperr.NotFound("op", "gone"), apperr.KindNotFound},
		{"invalid state", apperr.InvalidState("op", "busy"), apperr.KindInvalidState},
		{"store", apperr.Store("op", errors.New("pg down")), apperr.KindStore},
		{"gateway", apperr.Gatewayf("op", "status %q", "failed"), apperr.KindGateway},
		{"plain error", errors.New("anything"), apperr.KindUnknown},
		{"nil", nil, apperr.KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.KindOf(tc.err))
		})
	}
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	inner := apperr.NotFound("catalog.get", "product not found")
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
}

func TestErrorMessageShapes(t *testing.T) {
	assert.Equal(t, "catalog.get: product not found", apperr.NotFound("catalog.get", "product not found").Error())

	err := apperr.Store("order.create", errors.New("tx aborted"))
	assert.Equal(t, "order.create: tx aborted", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "tx aborted")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", apperr.KindNotFound.String())
	assert.Equal(t, "invalid_state", apperr.KindInvalidState.String())
	assert.Equal(t, "store", apperr.KindStore.String())
	assert.Equal(t, "gateway", apperr.KindGateway.String())
	assert.Equal(t, "unknown", apperr.KindUnknown.String())
}
