package scheduling_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/scheduling"
)

var base = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func cita(id string, start time.Time, dur int, status entity.AppointmentStatus) entity.Appointment {
	return entity.Appointment{ID: id, StartAt: start, DurationMinutes: dur, Status: status}
}

func TestNewInterval_DuracionInvalida(t *testing.T) {
	for _, d := range []int{0, -15, scheduling.MaxDurationMinutes + 1, 200_000_000} {
		_, err := scheduling.NewInterval(at(10, 0), d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "duración %d debe ser error de validación", d)
	}
}

func TestNewInterval_DuracionMaxima(t *testing.T) {
	iv, err := scheduling.NewInterval(at(0, 0), scheduling.MaxDurationMinutes)
	require.NoError(t, err)
	assert.Equal(t, at(24, 0), iv.End)
	assert.True(t, iv.End.After(iv.Start))
}

func TestFindConflicts_Solapamiento(t *testing.T) {
	existing := []entity.Appointment{cita("a", at(10, 0), 60, entity.StatusScheduled)}
	cand, err := scheduling.NewInterval(at(10, 30), 60)
	require.NoError(t, err)

	conflicts := scheduling.FindConflicts(cand, existing, "")
	require.Len(t, conflicts, 1)
	assert.Equal(t, "a", conflicts[0].ID)
}

func TestFindConflicts_BordesQueSeTocanNoChocan(t *testing.T) {
	existing := []entity.Appointment{cita("a", at(10, 0), 60, entity.StatusScheduled)}

	after, _ := scheduling.NewInterval(at(11, 0), 60)
	assert.Empty(t, scheduling.FindConflicts(after, existing, ""), "termina 11:00 / empieza 11:00 no es conflicto")

	before, _ := scheduling.NewInterval(at(9, 0), 60)
	assert.Empty(t, scheduling.FindConflicts(before, existing, ""))
}

func TestFindConflicts_IgnoraCanceladasYExcluida(t *testing.T) {
	existing := []entity.Appointment{
		cita("cancelada", at(10, 0), 60, entity.StatusCancelled),
		cita("propia", at(10, 0), 60, entity.StatusScheduled),
		cita("completada", at(10, 15), 30, entity.StatusCompleted),
	}
	cand, _ := scheduling.NewInterval(at(10, 30), 30)

	conflicts := scheduling.FindConflicts(cand, existing, "propia")
	require.Len(t, conflicts, 1)
	assert.Equal(t, "completada", conflicts[0].ID, "las completadas siguen ocupando su franja")
}

func TestFindConflicts_Contencion(t *testing.T) {
	existing := []entity.Appointment{cita("larga", at(9, 0), 240, entity.StatusScheduled)}
	cand, _ := scheduling.NewInterval(at(10, 0), 15)
	assert.Len(t, scheduling.FindConflicts(cand, existing, ""), 1)
}

func TestConflictError_EsErrConflict(t *testing.T) {
	var err error = &scheduling.ConflictError{Conflicts: []entity.Appointment{{ID: "x"}}}
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var ce *scheduling.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "x", ce.Conflicts[0].ID)
}

func TestCanTransition(t *testing.T) {
	assert.NoError(t, scheduling.CanTransition(entity.StatusScheduled, entity.StatusCancelled))
	assert.NoError(t, scheduling.CanTransition(entity.StatusScheduled, entity.StatusCompleted))
	assert.NoError(t, scheduling.CanTransition(entity.StatusCancelled, entity.StatusScheduled))
	assert.Error(t, scheduling.CanTransition(entity.StatusCompleted, entity.StatusScheduled))
	assert.Error(t, scheduling.CanTransition(entity.StatusCancelled, entity.StatusCompleted))
}
