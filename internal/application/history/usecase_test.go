package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/application/history"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/testutil/memstore"
)

type fakePDF struct {
	got *dto.ClientHistoryResponse
	err error
}

func (f *fakePDF) GenerateClientHistoryPDF(_ context.Context, h *dto.ClientHistoryResponse) ([]byte, error) {
	f.got = h
	return []byte("%PDF-1.3"), f.err
}

var ctx = context.Background()

func seed(t *testing.T) (*memstore.Store, *fakePDF, *history.HistoryUseCase) {
	t.Helper()
	s := memstore.New()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: "c-1", DocumentNumber: "V-12345678", FirstName: "Luis", LastName: "Gómez"}))
	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: "c-2", DocumentNumber: "V-2", FirstName: "Otra"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p-1", Name: "Gel", Unit: "ml"}))
	require.NoError(t, s.Appointments().Create(ctx, &entity.Appointment{ID: "a-old", ClientID: "c-1", Title: "Primera", StartAt: day, DurationMinutes: 30, Status: entity.StatusCompleted}))
	require.NoError(t, s.Appointments().Create(ctx, &entity.Appointment{ID: "a-new", ClientID: "c-1", Title: "Control", StartAt: day.AddDate(0, 1, 0), DurationMinutes: 30, Status: entity.StatusScheduled}))
	require.NoError(t, s.Appointments().Create(ctx, &entity.Appointment{ID: "a-other", ClientID: "c-2", Title: "Ajena", StartAt: day, DurationMinutes: 30, Status: entity.StatusScheduled}))
	require.NoError(t, s.Materials().Create(ctx, &entity.MaterialUsed{ProductID: "p-1", Quantity: decimal.NewFromInt(2), AppointmentID: "a-old", MovementID: "m-1"}))
	require.NoError(t, s.Materials().Create(ctx, &entity.MaterialUsed{ProductID: "p-1", Quantity: decimal.NewFromInt(1), AppointmentID: "a-old", MovementID: "m-2"}))
	require.NoError(t, s.Materials().Create(ctx, &entity.MaterialUsed{ProductID: "p-1", Quantity: decimal.NewFromInt(5), AppointmentID: "a-other", MovementID: "m-3"}))

	gen := &fakePDF{}
	return s, gen, history.NewHistoryUseCase(s.Clients(), s.Appointments(), s.Materials(), gen)
}

func TestClientHistory_AgrupaMaterialesPorCita(t *testing.T) {
	_, _, uc := seed(t)

	h, err := uc.ClientHistory(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "V-12345678", h.Cliente.Cedula)
	require.Len(t, h.Citas, 2)

	assert.Equal(t, "a-new", h.Citas[0].ID, "más reciente primero")
	assert.Empty(t, h.Citas[0].Materiales)
	assert.NotNil(t, h.Citas[0].Materiales)

	assert.Equal(t, "a-old", h.Citas[1].ID)
	require.Len(t, h.Citas[1].Materiales, 2)
	assert.Equal(t, "Gel", h.Citas[1].Materiales[0].ProductoNombre)
	assert.Equal(t, "ml", h.Citas[1].Materiales[0].UnidadMedida)
}

func TestClientHistory_ClienteInexistente(t *testing.T) {
	_, _, uc := seed(t)
	_, err := uc.ClientHistory(ctx, "nadie")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClientHistoryPDF(t *testing.T) {
	_, gen, uc := seed(t)

	b, name, err := uc.ClientHistoryPDF(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "historial-V-12345678.pdf", name)
	assert.Equal(t, []byte("%PDF-1.3"), b)
	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Citas, 2)

	gen.err = errors.New("fuente no encontrada")
	_, _, err = uc.ClientHistoryPDF(ctx, "c-1")
	assert.Error(t, err)
}
