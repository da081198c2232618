package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// LedgerUseCase registra movimientos de inventario de forma transaccional: bloquea
// la fila del producto (SELECT FOR UPDATE), inserta el movimiento, ajusta el total
// y, si la salida se asigna a una cita, registra el material usado. Todo o nada.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	apptRepo    repository.AppointmentRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	apptRepo repository.AppointmentRepository,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		apptRepo:    apptRepo,
		log:         log,
		now:         time.Now,
	}
}

// MovementInput entrada de RecordMovement.
type MovementInput struct {
	ProductID            string
	Kind                 entity.MovementKind
	Quantity             decimal.Decimal
	BatchID              string
	AppointmentID        string
	AppliedToAppointment bool
	Reason               string
}

// MovementResult movimiento persistido y total resultante.
// ExceedsStock: la salida era mayor que el total disponible (se permite, solo se informa).
type MovementResult struct {
	Movement     *entity.Movement
	Material     *entity.MaterialUsed
	NewTotal     decimal.Decimal
	ExceedsStock bool
	LowStock     bool
}

// RecordMovement valida y aplica un movimiento. Producto, lote y cita se verifican
// antes de cualquier escritura; un error no deja nada escrito.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, actor access.Actor, in MovementInput) (*MovementResult, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}

	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		materialRepo repository.MaterialUsedRepository,
		apptRepo repository.AppointmentRepository,
	) error {
		var err error
		res, err = uc.apply(ctx, actor, in, productRepo, batchRepo, movRepo, materialRepo, apptRepo)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logResult(actor, res)
	return res, nil
}

func validateMovement(in MovementInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.Invalid("productId", "requerido")
	}
	if in.Kind != entity.MovementEntry && in.Kind != entity.MovementExit {
		return domain.Invalid("tipo", "debe ser entrada o salida")
	}
	if err := inventory.ValidateQuantity(in.Quantity); err != nil {
		return err
	}
	if in.AppliedToAppointment && in.Kind != entity.MovementExit {
		return domain.Invalid("asignadoACita", "solo las salidas se asignan a una cita")
	}
	return nil
}

// apply ejecuta el movimiento con los repos de la transacción en curso.
func (uc *LedgerUseCase) apply(
	ctx context.Context,
	actor access.Actor,
	in MovementInput,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	materialRepo repository.MaterialUsedRepository,
	apptRepo repository.AppointmentRepository,
) (*MovementResult, error) {
	// Bloquea la fila del producto hasta el commit
	product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, domain.Storage("bloquear producto", err)
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}
	if in.BatchID != "" {
		batch, err := batchRepo.GetByID(ctx, in.BatchID)
		if err != nil {
			return nil, domain.Storage("obtener lote", err)
		}
		if batch == nil {
			return nil, domain.NotFound("lote", in.BatchID)
		}
		if batch.ProductID != product.ID {
			return nil, domain.Invalid("loteId", "el lote no pertenece al producto")
		}
	}
	if in.AppointmentID != "" {
		appt, err := apptRepo.GetByID(ctx, in.AppointmentID)
		if err != nil {
			return nil, domain.Storage("obtener cita", err)
		}
		if appt == nil {
			return nil, domain.NotFound("cita", in.AppointmentID)
		}
	}

	now := uc.now()
	mov := &entity.Movement{
		ID:                   uuid.New().String(),
		ProductID:            product.ID,
		Kind:                 in.Kind,
		Quantity:             in.Quantity,
		BatchID:              in.BatchID,
		AppointmentID:        in.AppointmentID,
		AppliedToAppointment: in.AppliedToAppointment,
		Reason:               in.Reason,
		PerformedBy:          actor.UserID,
		CreatedAt:            now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, domain.Storage("crear movimiento", err)
	}
	newTotal, err := productRepo.AddToTotal(ctx, product.ID, inventory.SignedDelta(in.Kind, in.Quantity))
	if err != nil {
		return nil, domain.Storage("actualizar total", err)
	}

	res := &MovementResult{
		Movement:     mov,
		NewTotal:     newTotal,
		ExceedsStock: inventory.ExceedsStock(in.Kind, in.Quantity, product.Total),
		LowStock:     inventory.IsLowStock(newTotal, product.MinimumQuantity),
	}
	if in.AppliedToAppointment && in.AppointmentID != "" {
		mat := &entity.MaterialUsed{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Quantity:      in.Quantity,
			BatchID:       in.BatchID,
			AppointmentID: in.AppointmentID,
			MovementID:    mov.ID,
			UsedAt:        now,
			Notes:         in.Reason,
		}
		if err := materialRepo.Create(ctx, mat); err != nil {
			return nil, domain.Storage("registrar material usado", err)
		}
		res.Material = mat
	}
	return res, nil
}

func (uc *LedgerUseCase) logResult(actor access.Actor, res *MovementResult) {
	m := res.Movement
	ev := uc.log.Info()
	if res.ExceedsStock || res.NewTotal.IsNegative() || (res.LowStock && m.Kind == entity.MovementExit) {
		ev = uc.log.Warn().Bool("exceeds_stock", res.ExceedsStock).Bool("low_stock", res.LowStock)
	}
	ev.Str("movement_id", m.ID).
		Str("product_id", m.ProductID).
		Str("kind", string(m.Kind)).
		Str("quantity", m.Quantity.String()).
		Str("new_total", res.NewTotal.String()).
		Str("user_id", actor.UserID).
		Msg("movimiento registrado")
}

// BatchInput entrada de ReceiveBatch. ReceivedAt cero = ahora.
type BatchInput struct {
	ProductID  string
	Quantity   decimal.Decimal
	ReceivedAt time.Time
	ExpiresAt  *time.Time
	LotNumber  string
	Supplier   string
	Notes      string
}

// ReceiveBatch registra un lote y su movimiento de entrada; el total aumenta en la cantidad del lote.
func (uc *LedgerUseCase) ReceiveBatch(ctx context.Context, actor access.Actor, in BatchInput) (*entity.Batch, *MovementResult, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, nil, domain.Invalid("productoId", "requerido")
	}
	if err := inventory.ValidateQuantity(in.Quantity); err != nil {
		return nil, nil, err
	}
	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = uc.now()
	}
	if in.ExpiresAt != nil && in.ExpiresAt.Before(receivedAt) {
		return nil, nil, domain.Invalid("fechaVencimiento", "anterior a la fecha de ingreso")
	}

	batch := &entity.Batch{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		ReceivedAt: receivedAt,
		ExpiresAt:  in.ExpiresAt,
		LotNumber:  in.LotNumber,
		Supplier:   in.Supplier,
		Notes:      in.Notes,
	}
	reason := "ingreso de lote"
	if in.LotNumber != "" {
		reason += " " + in.LotNumber
	}

	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		materialRepo repository.MaterialUsedRepository,
		apptRepo repository.AppointmentRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return domain.Storage("bloquear producto", err)
		}
		if product == nil {
			return domain.NotFound("producto", in.ProductID)
		}
		if err := batchRepo.Create(ctx, batch); err != nil {
			return domain.Storage("crear lote", err)
		}
		res, err = uc.apply(ctx, actor, MovementInput{
			ProductID: in.ProductID,
			Kind:      entity.MovementEntry,
			Quantity:  in.Quantity,
			BatchID:   batch.ID,
			Reason:    reason,
		}, productRepo, batchRepo, movRepo, materialRepo, apptRepo)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	uc.logResult(actor, res)
	return batch, res, nil
}

// ConsumeItem un material a descontar por una cita.
type ConsumeItem struct {
	ProductID string
	Quantity  decimal.Decimal
	BatchID   string
	Notes     string
}

// ConsumeFailure ítem que no se aplicó.
type ConsumeFailure struct {
	Index     int
	ProductID string
	Err       error
}

// ConsumeResult resultado por ítem.
type ConsumeResult struct {
	Applied []*MovementResult
	Failed  []ConsumeFailure
}

// ConsumeMaterialsForAppointment aplica una salida por ítem, asignada a la cita.
// Cada ítem es atómico por separado: un fallo no revierte los ítems ya aplicados.
// TODO: evaluar envolver todos los ítems en una sola transacción.
func (uc *LedgerUseCase) ConsumeMaterialsForAppointment(ctx context.Context, actor access.Actor, appointmentID string, items []ConsumeItem) (*ConsumeResult, error) {
	if len(items) == 0 {
		return nil, domain.Invalid("materiales", "al menos un material")
	}
	appt, err := uc.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, domain.Storage("obtener cita", err)
	}
	if appt == nil {
		return nil, domain.NotFound("cita", appointmentID)
	}

	out := &ConsumeResult{Applied: []*MovementResult{}, Failed: []ConsumeFailure{}}
	for i, item := range items {
		res, err := uc.RecordMovement(ctx, actor, MovementInput{
			ProductID:            item.ProductID,
			Kind:                 entity.MovementExit,
			Quantity:             item.Quantity,
			BatchID:              item.BatchID,
			AppointmentID:        appt.ID,
			AppliedToAppointment: true,
			Reason:               item.Notes,
		})
		if err != nil {
			out.Failed = append(out.Failed, ConsumeFailure{Index: i, ProductID: item.ProductID, Err: err})
			continue
		}
		out.Applied = append(out.Applied, res)
	}
	if len(out.Failed) > 0 {
		uc.log.Warn().Str("appointment_id", appt.ID).Int("applied", len(out.Applied)).Int("failed", len(out.Failed)).Msg("consumo de materiales incompleto")
	}
	return out, nil
}
