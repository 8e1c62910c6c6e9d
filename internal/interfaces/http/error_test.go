package http

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/domain"
)

// errApp arma una app con una ruta que responde el error mapeado.
func errApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/err", func(c *fiber.Ctx) error {
		return mapDomainError(c, err)
	})
	return app
}

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"not found", fmt.Errorf("%w: producto x", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{"insufficient stock", domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"invalid state", domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
		{"conflict", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"unauthorized", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"unexpected", fmt.Errorf("se cayó la base"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doRequest(t, errApp(tc.err), "GET", "/err", "")
			assert.Equal(t, tc.wantStatus, status)
			var er dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &er))
			assert.Equal(t, tc.wantCode, er.Code)
		})
	}
}

// La contención de bloqueos responde un mensaje fijo: nada del detalle de la
// fila o tabla bloqueada debe llegar al cliente.
func TestMapDomainError_ConflictoSinDetalleInterno(t *testing.T) {
	err := fmt.Errorf("%w: venta abc-123 en sales", domain.ErrConflict)

	status, body := doRequest(t, errApp(err), "GET", "/err", "")
	assert.Equal(t, fiber.StatusConflict, status)

	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.Equal(t, "CONFLICT", er.Code)
	assert.Equal(t, "conflicto de concurrencia, intente nuevamente", er.Message)
	assert.NotContains(t, er.Message, "abc-123")
}
