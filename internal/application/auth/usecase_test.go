package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retail-pos/internal/application/auth"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// fakeUserRepo emula la tabla users con email único global.
type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

var testJWT = auth.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 60, Issuer: "retail-pos"}

func TestRegisterUser_TenantNuevoConRolAdmin(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)

	u, err := uc.RegisterUser(dto.RegisterRequest{Email: "admin@tienda.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.OwnerID, "OwnerID vacío abre un tenant nuevo")
	assert.Equal(t, entity.RoleAdmin, u.Role, "la primera cuenta del tenant es admin")
}

// El email es la credencial de login y el login no trae tenant: registrarlo
// en un segundo tenant debe rechazarse, no crear una fila ambigua que deje
// a una de las dos cuentas sin poder entrar.
func TestRegisterUser_EmailDeOtroTenantEsRechazado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWT)

	primero, err := uc.RegisterUser(dto.RegisterRequest{Email: "cajero@tienda.com", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email:    "cajero@tienda.com",
		Password: "otra-clave-123",
		OwnerID:  "otro-tenant",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// El login sigue resolviendo a la cuenta original, sin ambigüedad.
	resp, err := uc.Login(dto.LoginRequest{Email: "cajero@tienda.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, primero.OwnerID, resp.User.OwnerID)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@tienda.com", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@tienda.com", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailDesconocido(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@tienda.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
