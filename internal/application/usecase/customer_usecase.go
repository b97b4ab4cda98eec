package usecase

import (
	"github.com/tu-usuario/retail-pos/internal/application/customers"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// CustomerUseCase consultas y alta manual de clientes. El alta delega en el
// mismo upsert por teléfono que usa el POS, así nunca hay dos caminos de
// creación compitiendo por la constraint única.
type CustomerUseCase struct {
	repo   repository.CustomerRepository
	upsert *customers.UpsertUseCase
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, upsert *customers.UpsertUseCase) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, upsert: upsert}
}

// Create alta manual: reutiliza el cliente si el teléfono ya existe.
func (uc *CustomerUseCase) Create(ownerID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.upsert.Upsert(ownerID, in.Name, in.Phone)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente del tenant.
func (uc *CustomerUseCase) GetByID(ownerID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// List retorna los clientes del tenant paginados.
func (uc *CustomerUseCase) List(ownerID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	rows, err := uc.repo.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		LoyaltyPoints:  c.LoyaltyPoints,
		TotalPurchases: c.TotalPurchases,
	}
}
