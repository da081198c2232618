package history

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
)

// PDFGenerator abstrae la generación del PDF del historial (implementación: Maroto v2).
type PDFGenerator interface {
	GenerateClientHistoryPDF(ctx context.Context, h *dto.ClientHistoryResponse) ([]byte, error)
}
