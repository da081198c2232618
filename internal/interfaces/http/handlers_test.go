package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-citas-api/internal/application/auth"
	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/application/history"
	"github.com/jhoicas/agenda-citas-api/internal/application/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/application/scheduling"
	"github.com/jhoicas/agenda-citas-api/internal/application/usecase"
	apphttp "github.com/jhoicas/agenda-citas-api/internal/interfaces/http"
	"github.com/jhoicas/agenda-citas-api/internal/testutil/memstore"
)

type fakePDF struct{}

func (fakePDF) GenerateClientHistoryPDF(context.Context, *dto.ClientHistoryResponse) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

type server struct {
	app   *fiber.App
	store *memstore.Store
	admin string
	user  string
}

// newServer arma la API completa sobre el store en memoria, con un admin y un usuario {create, read}.
func newServer(t *testing.T) *server {
	t.Helper()
	store := memstore.New()
	log := zerolog.Nop()

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log)
	require.NoError(t, authUC.EnsureDefaultUsers(context.Background(), auth.DefaultUsers{AdminPassword: "admin123", UserPassword: "usuario123"}))

	ledgerUC := inventory.NewLedgerUseCase(store, store.Products(), store.Movements(), store.Appointments(), log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(store.Users()),
		ClientUC:    usecase.NewClientUseCase(store.Clients()),
		ProductUC:   usecase.NewProductUseCase(store, store.Products(), store.Batches()),
		SchedulerUC: scheduling.NewSchedulerUseCase(store, store.Appointments(), store.Clients(), log),
		LedgerUC:    ledgerUC,
		HistoryUC:   history.NewHistoryUseCase(store.Clients(), store.Appointments(), store.Materials(), fakePDF{}),
		JWTSecret:   testJWTSecret,
		Log:         log,
	})

	s := &server{app: app, store: store}
	s.admin = s.login(t, "admin", "admin123")
	s.user = s.login(t, "usuario", "usuario123")
	return s
}

func (s *server) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return "Bearer " + out.Token
}

func (s *server) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (s *server) createClient(t *testing.T) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/clients", s.user, dto.CreateClientRequest{
		Cedula: "v 12345678", TipoDocumento: "venezolano", Nombre: "maría josé", Apellido: "pérez", Telefono: "0414-1234567",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c dto.ClientResponse
	decode(t, resp, &c)
	return c.ID
}

func (s *server) book(t *testing.T, clientID, fecha string, dur int) *http.Response {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/appointments", s.user, map[string]any{
		"clienteId": clientID, "titulo": "Consulta", "fecha": fecha, "duracion": dur,
	})
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsers_SoloAdminCrea(t *testing.T) {
	s := newServer(t)
	in := dto.CreateUserRequest{Username: "recepcion", Password: "secreto1", Permisos: []string{"read"}}

	resp := s.do(t, http.MethodPost, "/api/users", s.user, in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/users", s.admin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u dto.UserResponse
	decode(t, resp, &u)
	assert.Equal(t, []string{"read"}, u.Permisos)

	resp = s.do(t, http.MethodPost, "/api/users", s.admin, in)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", e.Code)
}

func TestClients_CrearNormalizaYValida(t *testing.T) {
	s := newServer(t)
	id := s.createClient(t)

	resp := s.do(t, http.MethodGet, "/api/clients/document/V12345678", s.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c dto.ClientResponse
	decode(t, resp, &c)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "María José", c.Nombre)

	resp = s.do(t, http.MethodPost, "/api/clients", s.user, dto.CreateClientRequest{Cedula: "1", TipoDocumento: "otro", Nombre: "x", Apellido: "y", Telefono: "1"})
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "tipoDocumento", e.Field)
}

func TestClients_BorrarConCitasDevuelveInUse(t *testing.T) {
	s := newServer(t)
	id := s.createClient(t)
	resp := s.book(t, id, "2025-03-10T10:00:00Z", 60)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// el usuario por defecto no tiene delete
	resp = s.do(t, http.MethodDelete, "/api/clients/"+id, s.user, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/clients/"+id, s.admin, nil)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IN_USE", e.Code)
}

func TestAppointments_ConflictoDevuelve409ConCitas(t *testing.T) {
	s := newServer(t)
	clientID := s.createClient(t)

	resp := s.book(t, clientID, "2025-03-10T10:00:00Z", 60)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first dto.AppointmentResponse
	decode(t, resp, &first)

	resp = s.book(t, clientID, "2025-03-10T10:30:00Z", 60)
	var conflict dto.ScheduleConflictResponse
	decode(t, resp, &conflict)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SCHEDULE_CONFLICT", conflict.Code)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, first.ID, conflict.Conflicts[0].ID)

	// contigua: sin conflicto
	resp = s.book(t, clientID, "2025-03-10T11:00:00Z", 60)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAppointments_CheckConflictYCancelar(t *testing.T) {
	s := newServer(t)
	clientID := s.createClient(t)
	resp := s.book(t, clientID, "2025-03-10T10:00:00Z", 60)
	var first dto.AppointmentResponse
	decode(t, resp, &first)

	check := map[string]any{"fecha": "2025-03-10T10:30:00Z", "duracion": 30}
	resp = s.do(t, http.MethodPost, "/api/appointments/check-conflict", s.user, check)
	var out dto.CheckConflictResponse
	decode(t, resp, &out)
	assert.True(t, out.HasConflict)

	// el usuario por defecto no puede cancelar (update)
	resp = s.do(t, http.MethodPost, "/api/appointments/"+first.ID+"/cancel", s.user, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/appointments/"+first.ID+"/cancel", s.admin, nil)
	var cancelled dto.AppointmentResponse
	decode(t, resp, &cancelled)
	assert.Equal(t, "cancelled", cancelled.Estado)

	resp = s.book(t, clientID, "2025-03-10T10:30:00Z", 30)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAppointments_FechaLocalSinSegundosNiZona(t *testing.T) {
	s := newServer(t)
	clientID := s.createClient(t)

	resp := s.book(t, clientID, "2025-03-10T10:00", 60)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first dto.AppointmentResponse
	decode(t, resp, &first)
	assert.True(t, first.Fecha.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)))

	check := map[string]any{"fecha": "2025-03-10T10:30", "duracion": 30}
	resp = s.do(t, http.MethodPost, "/api/appointments/check-conflict", s.user, check)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CheckConflictResponse
	decode(t, resp, &out)
	assert.True(t, out.HasConflict)

	resp = s.do(t, http.MethodPut, "/api/appointments/"+first.ID, s.admin, map[string]any{"fecha": "2025-03-10T14:15"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var moved dto.AppointmentResponse
	decode(t, resp, &moved)
	assert.True(t, moved.Fecha.Equal(time.Date(2025, 3, 10, 14, 15, 0, 0, time.UTC)))

	resp = s.book(t, clientID, "10/03/2025 10:00", 60)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAppointments_DuracionExcesivaDevuelve400(t *testing.T) {
	s := newServer(t)
	clientID := s.createClient(t)
	resp := s.book(t, clientID, "2025-03-10T10:00", 60)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.book(t, clientID, "2025-03-10T09:00", 200_000_000)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "duracion", e.Field)
}

func TestAppointments_ListFiltraPorRango(t *testing.T) {
	s := newServer(t)
	clientID := s.createClient(t)
	for _, f := range []string{"2025-03-12T09:00:00Z", "2025-03-10T09:00:00Z", "2025-04-01T09:00:00Z"} {
		resp := s.book(t, clientID, f, 30)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := s.do(t, http.MethodGet, "/api/appointments?desde=2025-03-01&hasta=2025-03-31", s.user, nil)
	var list []dto.AppointmentResponse
	decode(t, resp, &list)
	require.Len(t, list, 2)
	assert.True(t, list[0].Fecha.Before(list[1].Fecha))

	resp = s.do(t, http.MethodGet, "/api/appointments?desde=ayer", s.user, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventory_LoteMovimientoYConsumo(t *testing.T) {
	s := newServer(t)
	clientID := s.createClient(t)

	resp := s.do(t, http.MethodPost, "/api/products", s.user, map[string]any{
		"nombre": "Gel conductor", "unidadMedida": "ml", "cantidadInicial": 10, "cantidadMinima": 8,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	assert.Equal(t, "10", p.CantidadTotal.String())

	resp = s.do(t, http.MethodPost, "/api/batches", s.user, map[string]any{
		"productoId": p.ID, "cantidad": 5, "fechaIngreso": "2025-03-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.book(t, clientID, "2025-03-10T10:00:00Z", 60)
	var appt dto.AppointmentResponse
	decode(t, resp, &appt)

	resp = s.do(t, http.MethodPost, "/api/appointments/"+appt.ID+"/materials", s.user, map[string]any{
		"materiales": []map[string]any{
			{"productoId": p.ID, "cantidad": 3},
			{"productoId": p.ID, "cantidad": 0},
		},
	})
	var consumed dto.ConsumeMaterialsResponse
	decode(t, resp, &consumed)
	assert.Equal(t, http.StatusMultiStatus, resp.StatusCode)
	require.Len(t, consumed.Aplicados, 1)
	require.Len(t, consumed.Fallidos, 1)
	assert.Equal(t, "12", consumed.Aplicados[0].NuevoTotal.String())
	assert.Equal(t, 1, consumed.Fallidos[0].Indice)
	assert.Equal(t, "VALIDATION", consumed.Fallidos[0].Code)

	resp = s.do(t, http.MethodGet, "/api/products/"+p.ID+"/ledger", s.user, nil)
	var ledger dto.LedgerCheckResponse
	decode(t, resp, &ledger)
	assert.True(t, ledger.Consistente)
	assert.Equal(t, "12", ledger.TotalCache.String())

	resp = s.do(t, http.MethodGet, "/api/movements?productId="+p.ID, s.user, nil)
	var movs dto.MovementListResponse
	decode(t, resp, &movs)
	assert.Len(t, movs.Items, 3)

	resp = s.do(t, http.MethodGet, "/api/clients/"+clientID+"/history", s.user, nil)
	var hist dto.ClientHistoryResponse
	decode(t, resp, &hist)
	require.Len(t, hist.Citas, 1)
	require.Len(t, hist.Citas[0].Materiales, 1)
}

func TestInventory_SalidaCantidadCeroRechazada(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodPost, "/api/products", s.user, map[string]any{
		"nombre": "Algodón", "unidadMedida": "gramos", "cantidadInicial": 10,
	})
	var p dto.ProductResponse
	decode(t, resp, &p)

	resp = s.do(t, http.MethodPost, "/api/movements", s.user, map[string]any{
		"productId": p.ID, "tipo": "salida", "cantidad": 0,
	})
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)

	resp = s.do(t, http.MethodGet, "/api/products/"+p.ID, s.user, nil)
	decode(t, resp, &p)
	assert.Equal(t, "10", p.CantidadTotal.String())
}

func TestHistory_PDF(t *testing.T) {
	s := newServer(t)
	clientID := s.createClient(t)

	resp := s.do(t, http.MethodGet, "/api/clients/"+clientID+"/history.pdf", s.user, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "historial-V12345678.pdf")
}

func TestNotFound(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/api/clients/nope", "/api/appointments/nope", "/api/products/nope"} {
		resp := s.do(t, http.MethodGet, path, s.user, nil)
		var e dto.ErrorResponse
		decode(t, resp, &e)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", e.Code, path)
	}
}
