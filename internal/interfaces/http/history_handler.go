package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/jhoicas/agenda-citas-api/internal/application/history"
)

// HistoryHandler historial de citas y materiales de un cliente.
type HistoryHandler struct {
	uc  *history.HistoryUseCase
	log zerolog.Logger
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *history.HistoryUseCase, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{uc: uc, log: log}
}

// ClientHistory godoc
// @Summary      Historial del cliente
// @Description  Citas más recientes primero, cada una con sus materiales usados.
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/history [get]
func (h *HistoryHandler) ClientHistory(c *fiber.Ctx) error {
	out, err := h.uc.ClientHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// ClientHistoryPDF godoc
// @Summary      Historial del cliente en PDF
// @Tags         clients
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/history.pdf [get]
func (h *HistoryHandler) ClientHistoryPDF(c *fiber.Ctx) error {
	b, filename, err := h.uc.ClientHistoryPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(b)
}
