package scheduling_test

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
	"github.com/jhoicas/agenda-citas-api/internal/application/scheduling"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	domsched "github.com/jhoicas/agenda-citas-api/internal/domain/scheduling"
	"github.com/jhoicas/agenda-citas-api/internal/testutil/memstore"
)

var (
	ctx   = context.Background()
	day   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	actor = access.Actor{UserID: "u-1", Username: "ana", Role: access.RoleUser, Permissions: access.Resolve(access.RoleUser, nil)}
)

func at(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func setup(t *testing.T) (*scheduling.SchedulerUseCase, *memstore.Store, string) {
	t.Helper()
	store := memstore.New()
	client := &entity.Client{ID: "c-1", DocumentNumber: "V-1", FirstName: "María", LastName: "Pérez", CreatedAt: day}
	require.NoError(t, store.Clients().Create(ctx, client))
	uc := scheduling.NewSchedulerUseCase(store, store.Appointments(), store.Clients(), zerolog.Nop())
	return uc, store, client.ID
}

func book(t *testing.T, uc *scheduling.SchedulerUseCase, clientID string, start time.Time, dur int) (*dto.AppointmentResponse, error) {
	t.Helper()
	return uc.Create(ctx, actor, dto.CreateAppointmentRequest{ClienteID: clientID, Titulo: "Consulta", Fecha: dto.NewDateTime(start), Duracion: dur})
}

func TestCreate_AgendaYRegistraActor(t *testing.T) {
	uc, _, clientID := setup(t)

	got, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)
	assert.Equal(t, "scheduled", got.Estado)
	assert.Equal(t, "u-1", got.CreadoPor)
	assert.Equal(t, "María Pérez", got.ClienteNombre)
	assert.Equal(t, at(11, 0), got.Fin)
}

func TestCreate_SolapadoRechazado(t *testing.T) {
	uc, store, clientID := setup(t)
	first, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	_, err = book(t, uc, clientID, at(10, 30), 60)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var ce *domsched.ConflictError
	require.True(t, errors.As(err, &ce))
	require.Len(t, ce.Conflicts, 1)
	assert.Equal(t, first.ID, ce.Conflicts[0].ID)

	list, err := store.Appointments().List(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1, "la cita en conflicto no se persiste")
}

func TestCreate_ContiguaPermitida(t *testing.T) {
	uc, _, clientID := setup(t)
	_, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	_, err = book(t, uc, clientID, at(11, 0), 60)
	assert.NoError(t, err)
}

func TestCreate_TrasCancelarLaFranjaQuedaLibre(t *testing.T) {
	uc, _, clientID := setup(t)
	first, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, actor, first.ID)
	require.NoError(t, err)

	_, err = book(t, uc, clientID, at(10, 30), 30)
	assert.NoError(t, err)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _, clientID := setup(t)

	_, err := book(t, uc, clientID, at(10, 0), 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, actor, dto.CreateAppointmentRequest{ClienteID: clientID, Fecha: dto.NewDateTime(at(10, 0)), Duracion: 30})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "título requerido")

	_, err = book(t, uc, "no-existe", at(10, 0), 30)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckConflict(t *testing.T) {
	uc, _, clientID := setup(t)
	first, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	res, err := uc.CheckConflict(ctx, dto.CheckConflictRequest{Fecha: dto.NewDateTime(at(10, 30)), Duracion: 60})
	require.NoError(t, err)
	assert.True(t, res.HasConflict)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, first.ID, res.Conflicts[0].ID)

	res, err = uc.CheckConflict(ctx, dto.CheckConflictRequest{Fecha: dto.NewDateTime(at(10, 30)), Duracion: 60, ExcludeID: first.ID})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
	assert.NotNil(t, res.Conflicts)

	_, err = uc.CheckConflict(ctx, dto.CheckConflictRequest{Fecha: dto.NewDateTime(at(10, 30)), Duracion: -5})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDuracionExcesivaRechazada(t *testing.T) {
	uc, store, clientID := setup(t)
	_, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	_, err = uc.CheckConflict(ctx, dto.CheckConflictRequest{Fecha: dto.NewDateTime(at(9, 0)), Duracion: 200_000_000})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = book(t, uc, clientID, at(9, 0), 200_000_000)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	second, err := book(t, uc, clientID, at(12, 0), 30)
	require.NoError(t, err)
	dur := domsched.MaxDurationMinutes + 1
	_, err = uc.Update(ctx, actor, second.ID, dto.UpdateAppointmentRequest{Duracion: &dur})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	all, err := store.Appointments().List(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, a := range all {
		assert.LessOrEqual(t, a.DurationMinutes, domsched.MaxDurationMinutes)
	}
}

func TestUpdate_ReprogramarVerificaConflictos(t *testing.T) {
	uc, _, clientID := setup(t)
	_, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)
	second, err := book(t, uc, clientID, at(12, 0), 60)
	require.NoError(t, err)

	fecha := dto.NewDateTime(at(10, 45))
	_, err = uc.Update(ctx, actor, second.ID, dto.UpdateAppointmentRequest{Fecha: &fecha})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	got, err := uc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, at(12, 0), got.Fecha, "la cita no se movió")

	dur := 90
	got, err = uc.Update(ctx, actor, second.ID, dto.UpdateAppointmentRequest{Duracion: &dur})
	require.NoError(t, err, "extenderse sobre su propia franja no es conflicto")
	assert.Equal(t, 90, got.Duracion)
}

func TestUpdate_ReactivarCanceladaVerificaConflictos(t *testing.T) {
	uc, _, clientID := setup(t)
	first, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)
	_, err = uc.Cancel(ctx, actor, first.ID)
	require.NoError(t, err)
	_, err = book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	estado := "programada"
	_, err = uc.Update(ctx, actor, first.ID, dto.UpdateAppointmentRequest{Estado: &estado})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUpdate_TransicionesDeEstado(t *testing.T) {
	uc, _, clientID := setup(t)
	a, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	done, err := uc.Complete(ctx, actor, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Estado)

	_, err = uc.Cancel(ctx, actor, a.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "completada es final")

	bad := "borrada"
	_, err = uc.Update(ctx, actor, a.ID, dto.UpdateAppointmentRequest{Estado: &bad})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Cancel(ctx, actor, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_EliminaMaterialesYConservaMovimientos(t *testing.T) {
	uc, store, clientID := setup(t)
	a, err := book(t, uc, clientID, at(10, 0), 60)
	require.NoError(t, err)

	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", Name: "Gel", Unit: "ml"}))
	require.NoError(t, store.Movements().Create(ctx, &entity.Movement{ID: "m-1", ProductID: "p-1", Kind: entity.MovementExit, Quantity: decimal.NewFromInt(1), AppointmentID: a.ID, AppliedToAppointment: true}))
	require.NoError(t, store.Materials().Create(ctx, &entity.MaterialUsed{ProductID: "p-1", Quantity: decimal.NewFromInt(1), AppointmentID: a.ID, MovementID: "m-1"}))

	require.NoError(t, uc.Delete(ctx, actor, a.ID))

	assert.Empty(t, store.AllMaterials())
	movs := store.AllMovements()
	require.Len(t, movs, 1)
	assert.Empty(t, movs[0].AppointmentID)

	_, err = uc.Get(ctx, a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(uc.Delete(ctx, actor, a.ID), domain.ErrNotFound))
}

func TestList_OrdenadasYFiltradas(t *testing.T) {
	uc, _, clientID := setup(t)
	_, err := book(t, uc, clientID, at(15, 0), 30)
	require.NoError(t, err)
	_, err = book(t, uc, clientID, at(9, 0), 30)
	require.NoError(t, err)
	_, err = book(t, uc, clientID, day.Add(48*time.Hour), 30)
	require.NoError(t, err)

	to := day.Add(24 * time.Hour)
	list, err := uc.List(ctx, &day, &to)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, at(9, 0), list[0].Fecha)
	assert.Equal(t, at(15, 0), list[1].Fecha)

	_, err = uc.List(ctx, &to, &day)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Propiedad: ninguna secuencia de reservas deja dos citas activas solapadas.
func TestNoOverlapInvariant(t *testing.T) {
	uc, store, clientID := setup(t)
	starts := []int{0, 20, 45, 60, 75, 90, 100, 130, 150, 180, 185, 200}
	durs := []int{30, 45, 15, 30, 60, 10, 25, 20, 30, 15, 40, 5}
	for i, s := range starts {
		_, _ = book(t, uc, clientID, day.Add(time.Duration(s)*time.Minute), durs[i])
	}

	active, err := store.Appointments().ListActiveBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, active)
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			overlap := a.StartAt.Before(b.EndAt()) && b.StartAt.Before(a.EndAt())
			assert.False(t, overlap, "%s y %s se solapan", a.ID, b.ID)
		}
	}
}
