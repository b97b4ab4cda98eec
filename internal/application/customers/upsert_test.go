package customers_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retail-pos/internal/application/customers"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

const ownerID = "owner-1"

// fakeCustomerRepo fake mínimo con comportamiento inyectable para simular
// la carrera de creación concurrente.
type fakeCustomerRepo struct {
	byPhone map[string]*entity.Customer
	// onCreate permite interceptar el Create (nil = inserta normal).
	onCreate func(c *entity.Customer) error
	creates  int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byPhone: make(map[string]*entity.Customer)}
}

func (f *fakeCustomerRepo) Create(c *entity.Customer) error {
	f.creates++
	if f.onCreate != nil {
		if err := f.onCreate(c); err != nil {
			return err
		}
	}
	if _, ok := f.byPhone[c.OwnerID+"|"+c.Phone]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	f.byPhone[c.OwnerID+"|"+c.Phone] = &cp
	return nil
}

func (f *fakeCustomerRepo) GetByOwnerAndID(ownerID, id string) (*entity.Customer, error) {
	for _, c := range f.byPhone {
		if c.OwnerID == ownerID && c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) GetByOwnerAndPhone(ownerID, phone string) (*entity.Customer, error) {
	if c, ok := f.byPhone[ownerID+"|"+phone]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCustomerRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) Update(c *entity.Customer) error { return nil }

func TestUpsert_CreaClienteNuevo(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := customers.NewUpsertUseCase(repo)

	c, err := uc.Upsert(ownerID, "María Gómez", "3001234567")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.ID, "el ID debe generarse")
	assert.Equal(t, ownerID, c.OwnerID)
	assert.Equal(t, "3001234567", c.Phone)
}

func TestUpsert_ReutilizaExistenteSinModificar(t *testing.T) {
	repo := newFakeCustomerRepo()
	existing := &entity.Customer{ID: "cust-1", OwnerID: ownerID, Name: "Nombre Original", Phone: "3001234567"}
	repo.byPhone[ownerID+"|3001234567"] = existing

	uc := customers.NewUpsertUseCase(repo)
	c, err := uc.Upsert(ownerID, "Nombre Distinto", "3001234567")
	require.NoError(t, err)

	assert.Equal(t, "cust-1", c.ID, "debe reutilizar la fila existente")
	assert.Equal(t, "Nombre Original", c.Name, "el upsert no modifica al cliente existente")
	assert.Equal(t, 0, repo.creates, "no debe intentar crear")
}

// Carrera: otro request inserta el mismo teléfono entre el lookup y el
// insert. El constraint único responde duplicado y el upsert reintenta
// como lookup — una sola fila, nunca dos.
func TestUpsert_CarreraSeResuelvePorRelookup(t *testing.T) {
	repo := newFakeCustomerRepo()
	ganador := &entity.Customer{ID: "cust-ganador", OwnerID: ownerID, Name: "Ganador", Phone: "3009998877"}
	repo.onCreate = func(c *entity.Customer) error {
		// Simula al request competidor ganando la inserción justo antes.
		repo.byPhone[ownerID+"|3009998877"] = ganador
		repo.onCreate = nil
		return nil
	}

	uc := customers.NewUpsertUseCase(repo)
	c, err := uc.Upsert(ownerID, "Perdedor", "3009998877")
	require.NoError(t, err)

	assert.Equal(t, "cust-ganador", c.ID, "debe retornar la fila del ganador de la carrera")
	assert.Len(t, repo.byPhone, 1, "solo puede quedar una fila por teléfono")
}

// El duplicado llega como valor (cero filas insertadas, sin error de
// constraint que aborte la transacción de la venta) y puede venir envuelto
// con contexto del repo: el relookup sobre el mismo repo debe resolver al
// ganador igual.
func TestUpsertTx_DuplicadoEnvueltoSeResuelvePorRelookup(t *testing.T) {
	repo := newFakeCustomerRepo()
	ganador := &entity.Customer{ID: "cust-ganador", OwnerID: ownerID, Name: "Ganador", Phone: "3007776655"}
	repo.onCreate = func(c *entity.Customer) error {
		repo.byPhone[ownerID+"|3007776655"] = ganador
		repo.onCreate = nil
		return fmt.Errorf("insert customer: %w", domain.ErrDuplicate)
	}

	uc := customers.NewUpsertUseCase(repo)
	c, err := uc.UpsertTx(repo, ownerID, "Perdedor", "3007776655")
	require.NoError(t, err)

	assert.Equal(t, "cust-ganador", c.ID, "el relookup tras el duplicado resuelve al ganador")
	assert.Len(t, repo.byPhone, 1)
}

func TestUpsert_EntradaInvalida(t *testing.T) {
	uc := customers.NewUpsertUseCase(newFakeCustomerRepo())

	_, err := uc.Upsert(ownerID, "", "300")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upsert(ownerID, "Nombre", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upsert("", "Nombre", "300")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Mismo teléfono en tenants distintos: dos filas independientes.
func TestUpsert_TelefonoDuplicadoEntreTenantsEsValido(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := customers.NewUpsertUseCase(repo)

	c1, err := uc.Upsert("owner-1", "Cliente A", "3001112233")
	require.NoError(t, err)
	c2, err := uc.Upsert("owner-2", "Cliente B", "3001112233")
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID, "cada tenant tiene su propia fila")
}
