package shipments

import (
	"context"
	"time"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
)

// ReceiveFromRequest adapta el request HTTP al caso de uso Receive.
// Usar desde handlers HTTP que ya resolvieron el ownerID del token.
func (uc *ReceiveShipmentUseCase) ReceiveFromRequest(ctx context.Context, ownerID string, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	var receivedAt time.Time
	if in.ReceivedAt != "" {
		parsed, err := time.Parse(time.RFC3339, in.ReceivedAt)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		receivedAt = parsed
	}
	input := ReceiveInput{
		SupplierID:    in.SupplierID,
		RefNo:         in.RefNo,
		PaymentStatus: in.PaymentStatus,
		ReceivedAt:    receivedAt,
		Items:         make([]ItemInput, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		item := ItemInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			QtyReceived: it.QtyReceived,
			UnitPrice:   it.UnitPrice,
			BatchNo:     it.BatchNo,
		}
		if it.MfgDate != "" {
			parsed, err := time.Parse(batchDateLayout, it.MfgDate)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			item.MfgDate = parsed
		}
		if it.ExpDate != "" {
			parsed, err := time.Parse(batchDateLayout, it.ExpDate)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			item.ExpDate = parsed
		}
		input.Items = append(input.Items, item)
	}
	return uc.Receive(ctx, ownerID, input)
}
