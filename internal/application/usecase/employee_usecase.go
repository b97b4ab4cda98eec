package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// EmployeeUseCase casos de uso para empleados. No hay Delete: los empleados
// con ventas históricas se desactivan, nunca se eliminan.
type EmployeeUseCase struct {
	repo repository.EmployeeRepository
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo}
}

// Create registra un empleado activo.
func (uc *EmployeeUseCase) Create(ownerID string, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCajero
	}
	switch role {
	case entity.RoleAdmin, entity.RoleCajero, entity.RoleBodeguero:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	employee := &entity.Employee{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Role:      role,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(employee); err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// GetByID obtiene un empleado del tenant.
func (uc *EmployeeUseCase) GetByID(ownerID, id string) (*dto.EmployeeResponse, error) {
	employee, err := uc.repo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrNotFound
	}
	return toEmployeeResponse(employee), nil
}

// List retorna los empleados del tenant paginados.
func (uc *EmployeeUseCase) List(ownerID string, limit, offset int) ([]*dto.EmployeeResponse, error) {
	employees, err := uc.repo.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	return out, nil
}

// SetStatus activa o desactiva un empleado.
func (uc *EmployeeUseCase) SetStatus(ownerID, id, status string) (*dto.EmployeeResponse, error) {
	if status != "active" && status != "inactive" {
		return nil, domain.ErrInvalidInput
	}
	employee, err := uc.repo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrNotFound
	}
	employee.Status = status
	employee.UpdatedAt = time.Now()
	if err := uc.repo.Update(employee); err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:     e.ID,
		Name:   e.Name,
		Role:   e.Role,
		Status: e.Status,
	}
}
