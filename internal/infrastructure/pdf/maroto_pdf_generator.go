// Package pdf genera el historial de citas de un cliente en PDF (Maroto v2).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Historial de citas  │  Fecha de emisión            │
//	│  CLIENTE: Nombre + cédula + contacto                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Por cita: Fecha | Título | Duración | Estado               │
//	│     Materiales: Cant | Unidad | Producto                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de citas                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/application/history"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorMuted   = &props.Color{Red: 160, Green: 160, Blue: 160}
)

var estadoLabel = map[string]string{
	"scheduled": "Programada",
	"completed": "Completada",
	"cancelled": "Cancelada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ history.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa history.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateClientHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateClientHistoryPDF(_ context.Context, h *dto.ClientHistoryResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de citas", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.now()))
	m.AddRows(clientRow(h.Cliente))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(h.Citas) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("El cliente no tiene citas registradas.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	}
	for _, c := range h.Citas {
		m.AddRows(appointmentRow(c))
		for _, r := range materialRows(c.Materiales) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(2, props.Line{Color: colorMuted, Thickness: 0.2}))
	}

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total de citas: %d", len(h.Citas)), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 3, Color: colorPrimary,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(now time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("HISTORIAL DE CITAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func clientRow(c dto.ClientResponse) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(c.Nombre+" "+c.Apellido, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 1,
			}),
			text.New(fmt.Sprintf("Cédula: %s (%s)   |   Tel: %s   |   Email: %s",
				c.Cedula,
				nonEmpty(c.TipoDocumento, "—"),
				nonEmpty(c.Telefono, "—"),
				nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func appointmentRow(c dto.AppointmentHistoryItem) core.Row {
	estado := estadoLabel[c.Estado]
	if estado == "" {
		estado = c.Estado
	}
	return row.New(8).Add(
		col.New(3).Add(text.New(c.Fecha.Format("02/01/2006 15:04"), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		})),
		col.New(5).Add(text.New(c.Titulo, props.Text{Size: 9, Top: 2})),
		col.New(2).Add(text.New(fmt.Sprintf("%d min", c.Duracion), props.Text{
			Size: 8, Align: align.Right, Top: 2, Color: colorGray,
		})),
		col.New(2).Add(text.New(estado, props.Text{
			Size: 8, Align: align.Right, Top: 2, Color: colorPrimary,
		})),
	)
}

// materialRows: una fila por material usado, sangrada bajo la cita.
func materialRows(mats []dto.MaterialUsedResponse) []core.Row {
	if len(mats) == 0 {
		return []core.Row{row.New(5).Add(col.New(12).Add(
			text.New("Sin materiales registrados", props.Text{Size: 7, Left: 6, Color: colorMuted}),
		))}
	}
	rows := make([]core.Row, 0, len(mats))
	for _, mu := range mats {
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(mu.Cantidad.String(), props.Text{
				Size: 8, Align: align.Right, Right: 2,
			})),
			col.New(2).Add(text.New(mu.UnidadMedida, props.Text{Size: 8, Color: colorGray})),
			col.New(8).Add(text.New(mu.ProductoNombre, props.Text{Size: 8})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
