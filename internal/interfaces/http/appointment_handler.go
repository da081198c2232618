package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/application/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/application/scheduling"
)

// AppointmentHandler maneja la agenda y el consumo de materiales por cita.
type AppointmentHandler struct {
	uc       *scheduling.SchedulerUseCase
	ledgerUC *inventory.LedgerUseCase
	log      zerolog.Logger
}

// NewAppointmentHandler construye el handler.
func NewAppointmentHandler(uc *scheduling.SchedulerUseCase, ledgerUC *inventory.LedgerUseCase, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, ledgerUC: ledgerUC, log: log}
}

// CheckConflict godoc
// @Summary      Verificar conflicto de horario
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CheckConflictRequest  true  "fecha, duracion, excludeId"
// @Success      200   {object}  dto.CheckConflictResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/appointments/check-conflict [post]
func (h *AppointmentHandler) CheckConflict(c *fiber.Ctx) error {
	var in dto.CheckConflictRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CheckConflict(c.UserContext(), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Agendar cita
// @Description  Rechaza con 409 SCHEDULE_CONFLICT si se solapa con una cita activa.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAppointmentRequest  true  "datos de la cita"
// @Success      201   {object}  dto.AppointmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ScheduleConflictResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actor, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar citas
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        desde  query  string  false  "fecha o RFC3339"
// @Param        hasta  query  string  false  "fecha o RFC3339"
// @Success      200  {array}  dto.AppointmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	var q dto.ListAppointmentsQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	from, err := dto.ParseDate("desde", q.Desde)
	if err != nil {
		return handleError(c, h.log, err)
	}
	to, err := dto.ParseDate("hasta", q.Hasta)
	if err != nil {
		return handleError(c, h.log, err)
	}
	list, err := h.uc.List(c.UserContext(), from, to)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener cita
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la cita"
// @Success      200  {object}  dto.AppointmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reprogramar o editar cita
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                        true  "ID de la cita"
// @Param        body  body  dto.UpdateAppointmentRequest  true  "campos a modificar"
// @Success      200   {object}  dto.AppointmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ScheduleConflictResponse
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar cita
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la cita"
// @Success      200  {object}  dto.AppointmentResponse
// @Router       /api/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Cancel(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar cita
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la cita"
// @Success      200  {object}  dto.AppointmentResponse
// @Router       /api/appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Complete(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cita y sus materiales usados
// @Tags         appointments
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la cita"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return handleError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ConsumeMaterials godoc
// @Summary      Registrar materiales usados en la cita
// @Description  Cada ítem se aplica por separado. 201 si todos se aplicaron, 207 si alguno falló.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID de la cita"
// @Param        body  body  dto.ConsumeMaterialsRequest  true  "materiales"
// @Success      201   {object}  dto.ConsumeMaterialsResponse
// @Success      207   {object}  dto.ConsumeMaterialsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/materials [post]
func (h *AppointmentHandler) ConsumeMaterials(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.ConsumeMaterialsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledgerUC.ConsumeFromRequest(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return handleError(c, h.log, err)
	}

	out := dto.ConsumeMaterialsResponse{
		Aplicados: make([]dto.RegisterMovementResponse, 0, len(res.Applied)),
		Fallidos:  make([]dto.ConsumeFailureResponse, 0, len(res.Failed)),
	}
	for _, a := range res.Applied {
		out.Aplicados = append(out.Aplicados, inventory.ToMovementResultResponse(actor, a))
	}
	for _, f := range res.Failed {
		status, code := errorStatus(f.Err)
		out.Fallidos = append(out.Fallidos, dto.ConsumeFailureResponse{
			Indice:     f.Index,
			ProductoID: f.ProductID,
			Code:       code,
			Message:    errorMessage(status, f.Err),
		})
	}
	status := fiber.StatusCreated
	if len(out.Fallidos) > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(out)
}
