package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// ClientUseCase casos de uso CRUD para clientes. La cédula es única.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create registra un cliente. Devuelve domain.ErrDuplicate si la cédula ya existe.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyClient(client, dto.UpdateClientRequest{
		Cedula: &in.Cedula, TipoDocumento: &in.TipoDocumento, Nombre: &in.Nombre, Apellido: &in.Apellido,
		Telefono: &in.Telefono, Email: &in.Email, Direccion: &in.Direccion, Notas: &in.Notas,
	})
	if err := validateClient(client); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByDocument(ctx, client.DocumentNumber)
	if err != nil {
		return nil, domain.Storage("buscar cliente por cédula", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, wrapRepoErr("crear cliente", err)
	}
	resp := dto.FromClient(client)
	return &resp, nil
}

// GetByID obtiene un cliente.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener cliente", err)
	}
	if c == nil {
		return nil, domain.NotFound("cliente", id)
	}
	resp := dto.FromClient(c)
	return &resp, nil
}

// GetByDocument busca un cliente por cédula.
func (uc *ClientUseCase) GetByDocument(ctx context.Context, document string) (*dto.ClientResponse, error) {
	doc := normalizeDocument(document)
	c, err := uc.repo.GetByDocument(ctx, doc)
	if err != nil {
		return nil, domain.Storage("buscar cliente por cédula", err)
	}
	if c == nil {
		return nil, domain.NotFound("cliente", doc)
	}
	resp := dto.FromClient(c)
	return &resp, nil
}

// List lista clientes, los más recientes primero.
func (uc *ClientUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Storage("listar clientes", err)
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.FromClient(c))
	}
	return out, nil
}

// Update aplica los campos presentes en in.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener cliente", err)
	}
	if c == nil {
		return nil, domain.NotFound("cliente", id)
	}
	applyClient(c, in)
	if err := validateClient(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, wrapRepoErr("actualizar cliente", err)
	}
	resp := dto.FromClient(c)
	return &resp, nil
}

// Delete elimina un cliente. Devuelve domain.ErrInUse si aún tiene citas.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("cliente", id)
		}
		return wrapRepoErr("eliminar cliente", err)
	}
	return nil
}

func applyClient(c *entity.Client, in dto.UpdateClientRequest) {
	if in.Cedula != nil {
		c.DocumentNumber = normalizeDocument(*in.Cedula)
	}
	if in.TipoDocumento != nil {
		c.DocumentType = strings.ToLower(strings.TrimSpace(*in.TipoDocumento))
	}
	if in.Nombre != nil {
		c.FirstName = normalizeName(*in.Nombre)
	}
	if in.Apellido != nil {
		c.LastName = normalizeName(*in.Apellido)
	}
	if in.Telefono != nil {
		c.Phone = strings.TrimSpace(*in.Telefono)
	}
	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Direccion != nil {
		c.Address = strings.TrimSpace(*in.Direccion)
	}
	if in.Notas != nil {
		c.Notes = *in.Notas
	}
}

// normalizeName colapsa espacios y aplica mayúscula inicial por palabra ("maría  pérez" -> "María Pérez").
// cases.Caser guarda estado: uno nuevo por llamada.
func normalizeName(s string) string {
	return cases.Title(language.Spanish).String(strings.Join(strings.Fields(s), " "))
}

func normalizeDocument(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func validateClient(c *entity.Client) error {
	switch {
	case c.DocumentNumber == "":
		return domain.Invalid("cedula", "requerida")
	case c.DocumentType != entity.DocumentTypeNational && c.DocumentType != entity.DocumentTypeForeign:
		return domain.Invalid("tipoDocumento", "debe ser venezolano o extranjero")
	case c.FirstName == "":
		return domain.Invalid("nombre", "requerido")
	case c.LastName == "":
		return domain.Invalid("apellido", "requerido")
	case c.Phone == "":
		return domain.Invalid("telefono", "requerido")
	case c.Email != "" && !strings.Contains(c.Email, "@"):
		return domain.Invalid("email", "formato inválido")
	}
	return nil
}

// wrapRepoErr conserva los errores de dominio del repositorio y envuelve el resto como StorageError.
func wrapRepoErr(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrInUse) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.Storage(op, err)
}
