package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"whodidit/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_SurvivesWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation field", apperr.Validation("body", "too short"), apperr.KindValidation},
		{"wrapped forbidden", fmt.Errorf("approve claim: %w", apperr.ErrForbidden), apperr.KindForbidden},
		{"invalid transition", fmt.Errorf("x: %w", apperr.ErrInvalidTransition), apperr.KindConflict},
		{"not found", apperr.ErrNotFound, apperr.KindNotFound},
		{"unauthenticated", apperr.ErrUnauthenticated, apperr.KindUnauthenticated},
		{"storage", apperr.Storage("list claims", errors.New("conn reset")), apperr.KindStorage},
		{"plain", errors.New("boom"), apperr.KindInternal},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(tt.err))
		})
	}
}

func TestStorage_KeepsCauseAndExistingKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Storage("find provider", cause)

	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "find provider")

	notFound := fmt.Errorf("claim c1: %w", apperr.ErrNotFound)
	assert.Same(t, notFound, apperr.Storage("get claim", notFound))
	assert.Nil(t, apperr.Storage("noop", nil))
}

func TestFieldError_Message(t *testing.T) {
	err := apperr.Validation("pricing_score", "must be between 1 and 5")

	var fe *apperr.FieldError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, "pricing_score", fe.Field)
	assert.Equal(t, "pricing_score: must be between 1 and 5", err.Error())
}
