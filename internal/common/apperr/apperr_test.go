package apperr

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("x"), fiber.StatusNotFound},
		{"forbidden", Forbidden("x"), fiber.StatusForbidden},
		{"conflict", Conflict(CodeAlreadyVoted, "x"), fiber.StatusConflict},
		{"validation", Validation("x"), fiber.StatusBadRequest},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(NotFound("x"), KindNotFound))
	assert.False(t, IsKind(NotFound("x"), KindConflict))
	assert.False(t, IsKind(errors.New("boom"), KindNotFound))
}
