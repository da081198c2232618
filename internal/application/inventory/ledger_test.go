package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/application/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/testutil/memstore"
)

var (
	ctx   = context.Background()
	actor = access.Actor{UserID: "u-1", Username: "ana", Role: access.RoleUser, Permissions: access.Resolve(access.RoleUser, nil)}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	uc    *inventory.LedgerUseCase
	store *memstore.Store
}

// newFixture crea un producto "p-1" con total 10 (vía lote) y una cita "a-1".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	min := d("5")
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", Name: "Gel", Unit: "ml", MinimumQuantity: &min}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-2", Name: "Guantes", Unit: "unidades"}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c-1", DocumentNumber: "V-1", FirstName: "Ana"}))
	require.NoError(t, store.Appointments().Create(ctx, &entity.Appointment{ID: "a-1", ClientID: "c-1", Title: "Limpieza", StartAt: time.Now(), DurationMinutes: 30, Status: entity.StatusScheduled}))

	uc := inventory.NewLedgerUseCase(store, store.Products(), store.Movements(), store.Appointments(), zerolog.Nop())
	_, _, err := uc.ReceiveBatch(ctx, actor, inventory.BatchInput{ProductID: "p-1", Quantity: d("10"), LotNumber: "L-0"})
	require.NoError(t, err)
	return &fixture{uc: uc, store: store}
}

func (f *fixture) total(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Products().GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Total
}

func (f *fixture) assertLedger(t *testing.T, id string) {
	t.Helper()
	check, err := f.uc.VerifyLedger(ctx, id)
	require.NoError(t, err)
	assert.True(t, check.Consistente, "total %s != calculado %s", check.TotalCache, check.TotalCalculo)
}

func TestReceiveBatch_IncrementaTotal(t *testing.T) {
	f := newFixture(t)

	batch, res, err := f.uc.ReceiveBatch(ctx, actor, inventory.BatchInput{ProductID: "p-1", Quantity: d("5"), Supplier: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", batch.ProductID)
	assert.False(t, batch.ReceivedAt.IsZero())
	assert.True(t, d("15").Equal(res.NewTotal))
	assert.True(t, d("15").Equal(f.total(t, "p-1")))
	assert.Equal(t, batch.ID, res.Movement.BatchID)
	assert.Equal(t, entity.MovementEntry, res.Movement.Kind)
	f.assertLedger(t, "p-1")
}

func TestReceiveBatch_Validaciones(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.uc.ReceiveBatch(ctx, actor, inventory.BatchInput{ProductID: "p-1", Quantity: decimal.Zero})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, _, err = f.uc.ReceiveBatch(ctx, actor, inventory.BatchInput{ProductID: "nada", Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	received := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	expires := received.AddDate(0, 0, -1)
	_, _, err = f.uc.ReceiveBatch(ctx, actor, inventory.BatchInput{ProductID: "p-1", Quantity: d("1"), ReceivedAt: received, ExpiresAt: &expires})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.True(t, d("10").Equal(f.total(t, "p-1")))
}

func TestRecordMovement_SalidaAsignadaACita(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{
		ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("3"),
		AppointmentID: "a-1", AppliedToAppointment: true, Reason: "uso en cita",
	})
	require.NoError(t, err)
	assert.True(t, d("7").Equal(res.NewTotal))
	assert.Equal(t, "u-1", res.Movement.PerformedBy)
	assert.False(t, res.ExceedsStock)

	mats := f.store.AllMaterials()
	require.Len(t, mats, 1)
	assert.Equal(t, "a-1", mats[0].AppointmentID)
	assert.Equal(t, res.Movement.ID, mats[0].MovementID)
	assert.True(t, d("3").Equal(mats[0].Quantity))
	assert.True(t, d("7").Equal(f.total(t, "p-1")))
	f.assertLedger(t, "p-1")
}

func TestRecordMovement_SinAsignarNoCreaMaterial(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{
		ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("1"), AppointmentID: "a-1",
	})
	require.NoError(t, err)
	assert.Empty(t, f.store.AllMaterials())
}

func TestRecordMovement_CantidadNoPositivaRechazada(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.AllMovements())

	for _, q := range []string{"0", "-2", "0.0004", "1.2345"} {
		_, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d(q)})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad %s", q)
	}
	assert.True(t, d("10").Equal(f.total(t, "p-1")))
	assert.Len(t, f.store.AllMovements(), before)
}

func TestRecordMovement_ReferenciasInexistentes(t *testing.T) {
	f := newFixture(t)

	cases := []inventory.MovementInput{
		{ProductID: "nada", Kind: entity.MovementExit, Quantity: d("1")},
		{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("1"), AppointmentID: "nada", AppliedToAppointment: true},
		{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("1"), BatchID: "nada"},
	}
	for _, in := range cases {
		_, err := f.uc.RecordMovement(ctx, actor, in)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	}
	assert.True(t, d("10").Equal(f.total(t, "p-1")))
	assert.Empty(t, f.store.AllMaterials())
}

func TestRecordMovement_LoteDeOtroProducto(t *testing.T) {
	f := newFixture(t)
	batch, _, err := f.uc.ReceiveBatch(ctx, actor, inventory.BatchInput{ProductID: "p-2", Quantity: d("4")})
	require.NoError(t, err)

	_, err = f.uc.RecordMovement(ctx, actor, inventory.MovementInput{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("1"), BatchID: batch.ID})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecordMovement_EntradaNoSeAsignaACita(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{ProductID: "p-1", Kind: entity.MovementEntry, Quantity: d("1"), AppointmentID: "a-1", AppliedToAppointment: true})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecordMovement_SalidaMayorQueStockSePermite(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("12.5")})
	require.NoError(t, err)
	assert.True(t, res.ExceedsStock)
	assert.True(t, res.LowStock)
	assert.True(t, d("-2.5").Equal(res.NewTotal))
	f.assertLedger(t, "p-1")
}

func TestRecordMovement_FalloDeAlmacenamientoRevierteTodo(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.AllMovements())
	f.store.Fail["material.create"] = errors.New("disco lleno")

	_, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{
		ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("3"), AppointmentID: "a-1", AppliedToAppointment: true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.True(t, d("10").Equal(f.total(t, "p-1")))
	assert.Len(t, f.store.AllMovements(), before)
	assert.Empty(t, f.store.AllMaterials())
}

func TestConsume_PorItemAtomico(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.ConsumeMaterialsForAppointment(ctx, actor, "a-1", []inventory.ConsumeItem{
		{ProductID: "p-1", Quantity: d("2")},
		{ProductID: "nada", Quantity: d("1")},
		{ProductID: "p-1", Quantity: d("0")},
		{ProductID: "p-1", Quantity: d("1")},
	})
	require.NoError(t, err)
	require.Len(t, res.Applied, 2)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.True(t, errors.Is(res.Failed[0].Err, domain.ErrNotFound))
	assert.Equal(t, 2, res.Failed[1].Index)
	assert.True(t, errors.Is(res.Failed[1].Err, domain.ErrInvalidInput))

	assert.True(t, d("7").Equal(f.total(t, "p-1")))
	assert.Len(t, f.store.AllMaterials(), 2)
	f.assertLedger(t, "p-1")
}

func TestConsume_CitaInexistenteNoEscribe(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.AllMovements())

	_, err := f.uc.ConsumeMaterialsForAppointment(ctx, actor, "nada", []inventory.ConsumeItem{{ProductID: "p-1", Quantity: d("1")}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Len(t, f.store.AllMovements(), before)

	_, err = f.uc.ConsumeMaterialsForAppointment(ctx, actor, "a-1", nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Propiedad: tras cualquier secuencia de operaciones, total == Σentradas − Σsalidas.
func TestLedgerInvariant(t *testing.T) {
	f := newFixture(t)
	ops := []inventory.MovementInput{
		{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("1.25")},
		{ProductID: "p-1", Kind: entity.MovementEntry, Quantity: d("4")},
		{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("0")},
		{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("20")},
		{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("1"), AppointmentID: "a-1", AppliedToAppointment: true},
		{ProductID: "p-2", Kind: entity.MovementEntry, Quantity: d("3")},
	}
	for _, op := range ops {
		_, _ = f.uc.RecordMovement(ctx, actor, op)
	}
	_, _, _ = f.uc.ReceiveBatch(ctx, actor, inventory.BatchInput{ProductID: "p-2", Quantity: d("7")})

	f.assertLedger(t, "p-1")
	f.assertLedger(t, "p-2")
	assert.True(t, d("-8.25").Equal(f.total(t, "p-1")))
	assert.True(t, d("10").Equal(f.total(t, "p-2")))
}

func TestRegisterMovementFromRequest_AliasYActor(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.RegisterMovementFromRequest(ctx, actor, dto.RegisterMovementRequest{
		ProductoID: "p-1", Tipo: "salida", Cantidad: d("2"), CitaID: "a-1", AsignadoACita: true, RealizadoPor: "otro",
	})
	require.NoError(t, err)
	assert.Equal(t, "exit", resp.Tipo)
	assert.Equal(t, "u-1", resp.RealizadoPor, "el actor sale del token")
	assert.True(t, d("8").Equal(resp.NuevoTotal))

	_, err = f.uc.RegisterMovementFromRequest(ctx, actor, dto.RegisterMovementRequest{ProductID: "p-1", Tipo: "ajuste", Cantidad: d("1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReceiveBatchFromRequest_Fechas(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.ReceiveBatchFromRequest(ctx, actor, dto.CreateBatchRequest{ProductoID: "p-1", Cantidad: d("5"), FechaIngreso: "2025-03-01", FechaVencimiento: "2026-03-01", NumeroLote: "L-1"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), resp.FechaIngreso)
	require.NotNil(t, resp.FechaVencimiento)
	assert.True(t, d("15").Equal(f.total(t, "p-1")))

	_, err = f.uc.ReceiveBatchFromRequest(ctx, actor, dto.CreateBatchRequest{ProductoID: "p-1", Cantidad: d("5"), FechaIngreso: "01/03/2025"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestLowStockReport(t *testing.T) {
	f := newFixture(t)
	min := d("10")
	require.NoError(t, f.store.Products().Create(ctx, &entity.Product{ID: "p-3", Name: "Algodón", Unit: "gramos", MinimumQuantity: &min}))

	_, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{ProductID: "p-1", Kind: entity.MovementExit, Quantity: d("6")})
	require.NoError(t, err)

	items, err := f.uc.LowStockReport(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p-3", items[0].ProductoID, "sin stock es lo más urgente")
	assert.Equal(t, 1, items[0].Prioridad)
	assert.True(t, d("15").Equal(items[0].CantidadSugerida))
	assert.Equal(t, "p-1", items[1].ProductoID)
	assert.True(t, d("3.5").Equal(items[1].CantidadSugerida))
}

func TestListMovements_MasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordMovement(ctx, actor, inventory.MovementInput{ProductID: "p-2", Kind: entity.MovementEntry, Quantity: d("1")})
	require.NoError(t, err)

	all, err := f.uc.ListMovements(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, "p-2", all.Items[0].ProductoID)
	assert.Equal(t, "Guantes", all.Items[0].ProductoNombre)
	assert.Equal(t, 50, all.Page.Limit)

	only, err := f.uc.ListMovements(ctx, "p-1", dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, only.Items, 1)
}
