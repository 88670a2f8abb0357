package validation_test

import (
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/ignicult/dashboard-server/internal/errors"
	"github.com/ignicult/dashboard-server/internal/validation"
)

type mean struct {
	Mean float64 `json:"mean" validate:"finite"`
}

type payload struct {
	Title string  `json:"title" validate:"required"`
	Rate  float64 `json:"completionRate" validate:"finite,gte=0,lte=1"`
	Stats mean    `json:"statistics"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(payload{Title: "Snake", Rate: 0.42, Stats: mean{Mean: 12}})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		in        payload
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing title",
			in:        payload{Rate: 0.5},
			wantField: "title",
			wantMsg:   "is required",
		},
		{
			name:      "rate above one",
			in:        payload{Title: "Snake", Rate: 1.5},
			wantField: "completionRate",
			wantMsg:   "must be less than or equal to 1",
		},
		{
			name:      "nested infinity",
			in:        payload{Title: "Snake", Stats: mean{Mean: math.Inf(1)}},
			wantField: "statistics.mean",
			wantMsg:   "must be a finite number",
		},
		{
			name:      "nan rate",
			in:        payload{Title: "Snake", Rate: math.NaN()},
			wantField: "completionRate",
			wantMsg:   "must be a finite number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("month", 2, "min=1,max=12"))

	err := v.Var("month", 13, "min=1,max=12")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}
