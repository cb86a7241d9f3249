package validation_test

import (
	"errors"
	"testing"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  *string  `json:"business_email" validate:"omitempty,email"`
	Score  int      `json:"pricing_score" validate:"min=1,max=5"`
	Photos []string `json:"media_urls" validate:"max=2,dive,http_url"`
}

func strPtr(s string) *string { return &s }

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{"valid", sample{Email: strPtr("owner@ava.example"), Score: 3}, ""},
		{"nil optional email", sample{Score: 1}, ""},
		{"bad email", sample{Email: strPtr("nope"), Score: 3}, "business_email"},
		{"score too low", sample{Score: 0}, "pricing_score"},
		{"score too high", sample{Score: 6}, "pricing_score"},
		{"too many photos", sample{Score: 3, Photos: []string{"https://a", "https://b", "https://c"}}, "media_urls"},
		{"bad photo url", sample{Score: 3, Photos: []string{"ftp//x"}}, "media_urls[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperr.ErrValidation)
			var fe *apperr.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantField, fe.Field)
		})
	}
}
