package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/pkg/jwt"
)

const testSecret = "secret-de-prueba-no-usar-en-prod"

// buildTestApp arma una app mínima con una ruta protegida por rol y otra que
// expone los claims extraídos por el middleware.
func buildTestApp() *fiber.App {
	app := fiber.New()
	api := app.Group("/api", AuthMiddleware(testSecret))
	api.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	api.Post("/solo-admin", RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	api.Post("/deposito-o-admin", RequireRole(entity.RoleAdmin, entity.RoleDeposito), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", role, "retail-ops", 60)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()

	status, body := doRequest(t, app, "GET", "/api/whoami", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.Equal(t, "MISSING_TOKEN", er.Code)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp()

	status, body := doRequest(t, app, "GET", "/api/whoami", "esto-no-es-un-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.Equal(t, "INVALID_TOKEN", er.Code)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := buildTestApp()
	token := tokenForRole(t, entity.RoleVendedor)

	status, body := doRequest(t, app, "GET", "/api/whoami", token)
	require.Equal(t, fiber.StatusOK, status)

	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "user-1", got["user_id"])
	assert.Equal(t, entity.RoleVendedor, got["role"])
}

func TestRequireRole_VendedorBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp()
	token := tokenForRole(t, entity.RoleVendedor)

	status, body := doRequest(t, app, "POST", "/api/solo-admin", token)
	assert.Equal(t, fiber.StatusForbidden, status)

	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.Equal(t, "FORBIDDEN", er.Code)
}

func TestRequireRole_AdminPasa(t *testing.T) {
	app := buildTestApp()
	token := tokenForRole(t, entity.RoleAdmin)

	status, _ := doRequest(t, app, "POST", "/api/solo-admin", token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequireRole_MultiplesRoles(t *testing.T) {
	app := buildTestApp()

	status, _ := doRequest(t, app, "POST", "/api/deposito-o-admin", tokenForRole(t, entity.RoleDeposito))
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = doRequest(t, app, "POST", "/api/deposito-o-admin", tokenForRole(t, entity.RoleVendedor))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	app := buildTestApp()
	token, err := jwt.Generate(testSecret, "user-1", "", "retail-ops", 60)
	require.NoError(t, err)

	status, body := doRequest(t, app, "POST", "/api/solo-admin", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.Equal(t, "MISSING_ROLE", er.Code)
}

func TestJWT_GenerateAndParse(t *testing.T) {
	token, err := jwt.Generate(testSecret, "abc-123", entity.RoleDeposito, "retail-ops", 15)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", userID)
	assert.Equal(t, entity.RoleDeposito, role)
}

func TestJWT_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(testSecret, "abc-123", entity.RoleAdmin, "retail-ops", -5)
	require.NoError(t, err)

	_, _, err = jwt.Parse(testSecret, token)
	assert.Error(t, err)
}

func TestJWT_SecretIncorrecto(t *testing.T) {
	token, err := jwt.Generate(testSecret, "abc-123", entity.RoleAdmin, "retail-ops", 15)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)
}
