package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// HistoryUseCase historial de citas de un cliente con los materiales consumidos en cada una.
type HistoryUseCase struct {
	clientRepo   repository.ClientRepository
	apptRepo     repository.AppointmentRepository
	materialRepo repository.MaterialUsedRepository
	generator    PDFGenerator
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(
	clientRepo repository.ClientRepository,
	apptRepo repository.AppointmentRepository,
	materialRepo repository.MaterialUsedRepository,
	generator PDFGenerator,
) *HistoryUseCase {
	return &HistoryUseCase{
		clientRepo:   clientRepo,
		apptRepo:     apptRepo,
		materialRepo: materialRepo,
		generator:    generator,
	}
}

// ClientHistory citas del cliente (más reciente primero), cada una con sus materiales.
// Dos lecturas (citas; materiales de esas citas con datos de producto) y agrupación en memoria.
func (uc *HistoryUseCase) ClientHistory(ctx context.Context, clientID string) (*dto.ClientHistoryResponse, error) {
	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, domain.Storage("obtener cliente", err)
	}
	if client == nil {
		return nil, domain.NotFound("cliente", clientID)
	}

	appts, err := uc.apptRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, domain.Storage("listar citas del cliente", err)
	}
	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.ID)
	}

	byAppt := map[string][]dto.MaterialUsedResponse{}
	if len(ids) > 0 {
		materials, err := uc.materialRepo.ListByAppointments(ctx, ids)
		if err != nil {
			return nil, domain.Storage("listar materiales usados", err)
		}
		for _, m := range materials {
			byAppt[m.AppointmentID] = append(byAppt[m.AppointmentID], dto.FromMaterialUsed(m))
		}
	}

	out := &dto.ClientHistoryResponse{
		Cliente: dto.FromClient(client),
		Citas:   make([]dto.AppointmentHistoryItem, 0, len(appts)),
	}
	for _, a := range appts {
		mats := byAppt[a.ID]
		if mats == nil {
			mats = []dto.MaterialUsedResponse{}
		}
		out.Citas = append(out.Citas, dto.AppointmentHistoryItem{
			AppointmentResponse: dto.FromAppointment(*a, client.FullName()),
			Materiales:          mats,
		})
	}
	return out, nil
}

// ClientHistoryPDF genera el historial como PDF. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *HistoryUseCase) ClientHistoryPDF(ctx context.Context, clientID string) ([]byte, string, error) {
	h, err := uc.ClientHistory(ctx, clientID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.generator.GenerateClientHistoryPDF(ctx, h)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar historial: %w", err)
	}
	doc := strings.NewReplacer("/", "-", " ", "").Replace(h.Cliente.Cedula)
	return b, fmt.Sprintf("historial-%s.pdf", doc), nil
}
