// Package memstore implementa los puertos de repositorio en memoria para tests
// de casos de uso. Reproduce las reglas que en PostgreSQL dan las constraints
// (unicidad, FK restrict/cascade) y revierte el estado si la transacción falla.
package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

type state struct {
	users     map[string]entity.User
	clients   map[string]entity.Client
	appts     map[string]entity.Appointment
	products  map[string]entity.Product
	batches   map[string]entity.Batch
	movements []entity.Movement
	materials []entity.MaterialUsed
}

func newState() *state {
	return &state{
		users:    map[string]entity.User{},
		clients:  map[string]entity.Client{},
		appts:    map[string]entity.Appointment{},
		products: map[string]entity.Product{},
		batches:  map[string]entity.Batch{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.appts {
		c.appts[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	c.movements = append([]entity.Movement(nil), s.movements...)
	c.materials = append([]entity.MaterialUsed(nil), s.materials...)
	return c
}

// Store base de datos en memoria. Fail permite inyectar errores por operación
// ("movement.create", "material.create", "product.add_total", ...).
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   *state

	Fail map[string]error
	// TxCount cuenta las transacciones confirmadas.
	TxCount int
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), Fail: map[string]error{}}
}

func (s *Store) fail(op string) error {
	if err, ok := s.Fail[op]; ok {
		return err
	}
	return nil
}

func (s *Store) begin() *state {
	s.txMu.Lock()
	s.mu.Lock()
	snap := s.st.clone()
	s.mu.Unlock()
	return snap
}

func (s *Store) finish(snap *state, err error) error {
	s.mu.Lock()
	if err != nil {
		s.st = snap
	} else {
		s.TxCount++
	}
	s.mu.Unlock()
	s.txMu.Unlock()
	return err
}

// Run transacción del ledger.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	materialRepo repository.MaterialUsedRepository,
	apptRepo repository.AppointmentRepository,
) error) error {
	snap := s.begin()
	err := fn(s.Products(), s.Batches(), s.Movements(), s.Materials(), s.Appointments())
	return s.finish(snap, err)
}

// RunScheduling transacción de la agenda (serializada como el lock consultivo).
func (s *Store) RunScheduling(ctx context.Context, fn func(
	apptRepo repository.AppointmentRepository,
	materialRepo repository.MaterialUsedRepository,
) error) error {
	snap := s.begin()
	err := fn(s.Appointments(), s.Materials())
	return s.finish(snap, err)
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// Appointments repositorio de citas.
func (s *Store) Appointments() *AppointmentRepo { return &AppointmentRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Batches repositorio de lotes.
func (s *Store) Batches() *BatchRepo { return &BatchRepo{s: s} }

// Movements repositorio de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Materials repositorio de materiales usados.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{s: s} }

// AllMovements copia de todos los movimientos (aserciones).
func (s *Store) AllMovements() []entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Movement(nil), s.st.movements...)
}

// AllMaterials copia de todos los materiales usados (aserciones).
func (s *Store) AllMaterials() []entity.MaterialUsed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.MaterialUsed(nil), s.st.materials...)
}
