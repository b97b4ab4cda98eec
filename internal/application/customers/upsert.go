// Package customers implementa el find-or-create de clientes por teléfono.
package customers

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// UpsertUseCase resuelve un cliente por teléfono: si existe se reutiliza sin
// modificarlo, si no se crea con un ID generado. Dos creaciones concurrentes
// del mismo teléfono se resuelven por el constraint único más reintento como
// lookup — nunca quedan dos filas con el mismo teléfono.
type UpsertUseCase struct {
	repo repository.CustomerRepository
}

// NewUpsertUseCase construye el caso de uso con el repo del pool.
func NewUpsertUseCase(repo repository.CustomerRepository) *UpsertUseCase {
	return &UpsertUseCase{repo: repo}
}

// Upsert resuelve el cliente usando el repo del pool (fuera de una venta).
func (uc *UpsertUseCase) Upsert(ownerID, name, phone string) (*entity.Customer, error) {
	return uc.UpsertTx(uc.repo, ownerID, name, phone)
}

// UpsertTx resuelve el cliente con el repositorio que entrega el caller
// (atado a su transacción cuando se invoca desde el coordinador de ventas:
// si la venta hace rollback, el cliente creado también desaparece).
func (uc *UpsertUseCase) UpsertTx(repo repository.CustomerRepository, ownerID, name, phone string) (*entity.Customer, error) {
	if ownerID == "" || name == "" || phone == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := repo.GetByOwnerAndPhone(ownerID, phone)
	if err != nil {
		return nil, fmt.Errorf("buscar cliente por teléfono: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = repo.Create(customer)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return nil, fmt.Errorf("crear cliente: %w", err)
	}

	// Otro request creó el mismo teléfono entre el lookup y el insert:
	// el constraint único lo detectó, reintentamos como lookup.
	existing, err = repo.GetByOwnerAndPhone(ownerID, phone)
	if err != nil {
		return nil, fmt.Errorf("relookup cliente tras duplicado: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrConflict
	}
	return existing, nil
}
