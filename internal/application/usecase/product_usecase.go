package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se toca aquí:
// solo lo mutan las ventas y las recepciones a través del stock ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto con stock 0.
func (uc *ProductUseCase) Create(ownerID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.UnitPrice.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		UnitPrice:  in.UnitPrice,
		Stock:      0,
		MinStock:   in.MinStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(ownerID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List retorna el catálogo del tenant paginado.
func (uc *ProductUseCase) List(ownerID string, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update actualiza nombre, categoría, precio y punto de reorden.
// El stock persistido se conserva tal cual.
func (uc *ProductUseCase) Update(ownerID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.UnitPrice.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Name = in.Name
	product.CategoryID = in.CategoryID
	product.UnitPrice = in.UnitPrice
	product.MinStock = in.MinStock
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto del tenant.
func (uc *ProductUseCase) Delete(ownerID, id string) error {
	product, err := uc.repo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ownerID, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		UnitPrice:  p.UnitPrice,
		Stock:      p.Stock,
		MinStock:   p.MinStock,
		LowStock:   p.Stock < p.MinStock,
	}
}
