package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
)

// CreateFromRequest adapta el request HTTP al caso de uso Create(ctx, CreateTransactionInput).
// Usar desde handlers HTTP que ya resolvieron el ownerID del token.
func (uc *CreateTransactionUseCase) CreateFromRequest(ctx context.Context, ownerID string, in dto.CreateSalesTransactionRequest) (*dto.SalesTransactionResponse, error) {
	var date time.Time
	if in.Date != "" {
		parsed, err := time.Parse(time.RFC3339, in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}
	input := CreateTransactionInput{
		TransactionID: in.TransactionID,
		Date:          date,
		EmployeeID:    in.EmployeeID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		PaymentMethod: in.PaymentMethod,
		PaymentRefNo:  in.PaymentRefNo,
		Items:         make([]LineItemInput, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, LineItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
		})
	}
	return uc.Create(ctx, ownerID, input)
}
