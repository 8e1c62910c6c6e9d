package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/retail-ops/internal/application/auth"
	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/infrastructure/memory"
)

func newAuthUC() (*auth.UseCase, *memory.UserRepo) {
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	cfg := auth.JWTConfig{Secret: "secret-de-prueba", ExpMinutes: 60, Issuer: "retail-ops"}
	return auth.NewUseCase(users, cfg), users
}

func TestRegisterUser_YLogin(t *testing.T) {
	uc, _ := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "clave-segura-123",
		Name:     "Ana",
		Role:     entity.RoleDeposito,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, entity.RoleDeposito, user.Role)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "clave-segura-123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestRegisterUser_RolPorDefecto(t *testing.T) {
	uc, _ := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{Email: "b@example.com", Password: "otra-clave-larga"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, user.Role)
	assert.Equal(t, "b@example.com", user.Name)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "dup@example.com", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "dup@example.com", Password: "otra-clave-larga"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "c@example.com", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "c@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

var errRepoCaido = errors.New("repo de usuarios caído")

// usuariosCaidos simula un repositorio que falla en toda operación.
type usuariosCaidos struct{}

func (usuariosCaidos) Create(*entity.User) error              { return errRepoCaido }
func (usuariosCaidos) GetByID(string) (*entity.User, error)   { return nil, errRepoCaido }
func (usuariosCaidos) FindByEmail(string) (*entity.User, error) {
	return nil, errRepoCaido
}

// Un fallo en la búsqueda por email no debe tratarse como "email libre":
// el registro propaga el error del repositorio.
func TestRegisterUser_FallaDelRepositorio(t *testing.T) {
	cfg := auth.JWTConfig{Secret: "secret-de-prueba", ExpMinutes: 60, Issuer: "retail-ops"}
	uc := auth.NewUseCase(usuariosCaidos{}, cfg)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "x@example.com", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, errRepoCaido)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, users := newAuthUC()

	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura-123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.Create(&entity.User{
		ID:           "u-off",
		Email:        "off@example.com",
		PasswordHash: string(hash),
		Name:         "Baja",
		Role:         entity.RoleVendedor,
		Active:       false,
	}))

	_, err = uc.Login(dto.LoginRequest{Email: "off@example.com", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
