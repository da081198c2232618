package inventory

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RecordMovement.
// El actor viene del token; realizadoPor del body se ignora.
func (uc *LedgerUseCase) RegisterMovementFromRequest(ctx context.Context, actor access.Actor, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	kind, ok := entity.ParseMovementKind(in.Tipo)
	if !ok {
		return nil, domain.Invalid("tipo", "debe ser entrada o salida")
	}
	res, err := uc.RecordMovement(ctx, actor, MovementInput{
		ProductID:            in.Product(),
		Kind:                 kind,
		Quantity:             in.Cantidad,
		BatchID:              in.LoteID,
		AppointmentID:        in.CitaID,
		AppliedToAppointment: in.AsignadoACita,
		Reason:               in.Motivo,
	})
	if err != nil {
		return nil, err
	}
	resp := ToMovementResultResponse(actor, res)
	return &resp, nil
}

// ReceiveBatchFromRequest adapta POST /api/batches.
func (uc *LedgerUseCase) ReceiveBatchFromRequest(ctx context.Context, actor access.Actor, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	received, err := dto.ParseDate("fechaIngreso", in.FechaIngreso)
	if err != nil {
		return nil, err
	}
	expires, err := dto.ParseDate("fechaVencimiento", in.FechaVencimiento)
	if err != nil {
		return nil, err
	}
	bi := BatchInput{
		ProductID: in.ProductoID,
		Quantity:  in.Cantidad,
		ExpiresAt: expires,
		LotNumber: in.NumeroLote,
		Supplier:  in.Proveedor,
		Notes:     in.Notas,
	}
	if received != nil {
		bi.ReceivedAt = *received
	}
	batch, _, err := uc.ReceiveBatch(ctx, actor, bi)
	if err != nil {
		return nil, err
	}
	resp := dto.FromBatch(batch)
	return &resp, nil
}

// ConsumeFromRequest adapta POST /api/appointments/:id/materials.
func (uc *LedgerUseCase) ConsumeFromRequest(ctx context.Context, actor access.Actor, appointmentID string, in dto.ConsumeMaterialsRequest) (*ConsumeResult, error) {
	items := make([]ConsumeItem, 0, len(in.Materiales))
	for _, m := range in.Materiales {
		items = append(items, ConsumeItem{ProductID: m.ProductoID, Quantity: m.Cantidad, BatchID: m.LoteID, Notes: m.Notas})
	}
	return uc.ConsumeMaterialsForAppointment(ctx, actor, appointmentID, items)
}

// ToMovementResultResponse mapea el resultado de un movimiento a su DTO.
func ToMovementResultResponse(actor access.Actor, res *MovementResult) dto.RegisterMovementResponse {
	mr := dto.FromMovement(res.Movement)
	mr.Usuario = actor.Username
	return dto.RegisterMovementResponse{
		MovementResponse: mr,
		NuevoTotal:       res.NewTotal,
		ExcedeStock:      res.ExceedsStock,
	}
}
