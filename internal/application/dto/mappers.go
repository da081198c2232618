package dto

import (
	"strings"

	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// FromAppointment mapea una cita; clientName puede ir vacío.
func FromAppointment(a entity.Appointment, clientName string) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		ClienteID:     a.ClientID,
		ClienteNombre: clientName,
		Titulo:        a.Title,
		Descripcion:   a.Description,
		Fecha:         a.StartAt,
		Fin:           a.EndAt(),
		Duracion:      a.DurationMinutes,
		Color:         a.Color,
		Estado:        string(a.Status),
		CreadoPor:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromAppointmentWithClient mapea una cita con el nombre del cliente.
func FromAppointmentWithClient(a *entity.AppointmentWithClient) AppointmentResponse {
	name := strings.TrimSpace(a.ClientFirstName + " " + a.ClientLastName)
	return FromAppointment(a.Appointment, name)
}

// FromAppointments mapea una lista; nunca devuelve nil.
func FromAppointments(list []entity.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromAppointment(a, ""))
	}
	return out
}

// FromMovement mapea un movimiento.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductoID:    m.ProductID,
		Tipo:          string(m.Kind),
		Cantidad:      m.Quantity,
		LoteID:        m.BatchID,
		CitaID:        m.AppointmentID,
		AsignadoACita: m.AppliedToAppointment,
		Motivo:        m.Reason,
		RealizadoPor:  m.PerformedBy,
		Fecha:         m.CreatedAt,
	}
}

// FromBatch mapea un lote.
func FromBatch(b *entity.Batch) BatchResponse {
	return BatchResponse{
		ID:               b.ID,
		ProductoID:       b.ProductID,
		Cantidad:         b.Quantity,
		FechaIngreso:     b.ReceivedAt,
		FechaVencimiento: b.ExpiresAt,
		NumeroLote:       b.LotNumber,
		Proveedor:        b.Supplier,
		Notas:            b.Notes,
	}
}

// FromClient mapea un cliente.
func FromClient(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID,
		Cedula:        c.DocumentNumber,
		TipoDocumento: c.DocumentType,
		Nombre:        c.FirstName,
		Apellido:      c.LastName,
		Telefono:      c.Phone,
		Email:         c.Email,
		Direccion:     c.Address,
		Notas:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FromMaterialUsed mapea un material usado con datos del producto.
func FromMaterialUsed(m *entity.MaterialUsedDetail) MaterialUsedResponse {
	return MaterialUsedResponse{
		ID:             m.ID,
		ProductoID:     m.ProductID,
		ProductoNombre: m.ProductName,
		UnidadMedida:   m.Unit,
		Cantidad:       m.Quantity,
		LoteID:         m.BatchID,
		MovimientoID:   m.MovementID,
		Fecha:          m.UsedAt,
		Notas:          m.Notes,
	}
}

// FromUser mapea un usuario (sin hash) con sus permisos efectivos.
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Permisos:  access.Strings(u.Permissions().List()),
		CreatedAt: u.CreatedAt,
	}
}
