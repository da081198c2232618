package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.ClientRepository       = (*ClientRepo)(nil)
	_ repository.AppointmentRepository  = (*AppointmentRepo)(nil)
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.BatchRepository        = (*BatchRepo)(nil)
	_ repository.MovementRepository     = (*MovementRepo)(nil)
	_ repository.MaterialUsedRepository = (*MaterialRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.users {
		if x.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.st.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(r.s.st.users))
	for _, u := range r.s.st.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// ClientRepo clientes en memoria.
type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.clients {
		if x.DocumentNumber == c.DocumentNumber {
			return domain.ErrDuplicate
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.s.st.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.st.clients[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *ClientRepo) GetByDocument(_ context.Context, doc string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.clients {
		if c.DocumentNumber == doc {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ClientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Client, 0, len(r.s.st.clients))
	for _, c := range r.s.st.clients {
		c := c
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.st.clients {
		if x.ID != c.ID && x.DocumentNumber == c.DocumentNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.st.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[id]; !ok {
		return domain.ErrNotFound
	}
	for _, a := range r.s.st.appts {
		if a.ClientID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.clients, id)
	return nil
}

// AppointmentRepo citas en memoria.
type AppointmentRepo struct{ s *Store }

func (r *AppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	if err := r.s.fail("appointment.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[a.ClientID]; !ok {
		return domain.NotFound("cliente", a.ClientID)
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	r.s.st.appts[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id string) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.st.appts[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *AppointmentRepo) GetWithClient(_ context.Context, id string) (*entity.AppointmentWithClient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.appts[id]
	if !ok {
		return nil, nil
	}
	return r.withClient(a), nil
}

func (r *AppointmentRepo) withClient(a entity.Appointment) *entity.AppointmentWithClient {
	c := r.s.st.clients[a.ClientID]
	return &entity.AppointmentWithClient{Appointment: a, ClientFirstName: c.FirstName, ClientLastName: c.LastName}
}

func (r *AppointmentRepo) Update(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.appts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.appts[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.appts[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range r.s.st.materials {
		if m.AppointmentID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.appts, id)
	for i := range r.s.st.movements {
		if r.s.st.movements[i].AppointmentID == id {
			r.s.st.movements[i].AppointmentID = ""
		}
	}
	return nil
}

// ListActiveBetween devuelve a propósito todas las citas activas (superconjunto).
func (r *AppointmentRepo) ListActiveBetween(_ context.Context, _, _ time.Time) ([]entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Appointment, 0)
	for _, a := range r.s.st.appts {
		if a.Active() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *AppointmentRepo) List(_ context.Context, from, to *time.Time) ([]*entity.AppointmentWithClient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.AppointmentWithClient, 0)
	for _, a := range r.s.st.appts {
		if from != nil && a.StartAt.Before(*from) {
			continue
		}
		if to != nil && a.StartAt.After(*to) {
			continue
		}
		out = append(out, r.withClient(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *AppointmentRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Appointment, 0)
	for _, a := range r.s.st.appts {
		if a.ClientID == clientID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return out, nil
}

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.st.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *p
	next.Total = cur.Total
	r.s.st.products[p.ID] = next
	return nil
}

func (r *ProductRepo) AddToTotal(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := r.s.fail("product.add_total"); err != nil {
		return decimal.Zero, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	p.Total = p.Total.Add(delta)
	r.s.st.products[id] = p
	return p.Total, nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Product, error) {
	all, _ := r.List(ctx)
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if p.MinimumQuantity != nil && p.Total.LessThan(*p.MinimumQuantity) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.products, id)
	for k, b := range r.s.st.batches {
		if b.ProductID == id {
			delete(r.s.st.batches, k)
		}
	}
	movs := r.s.st.movements[:0]
	for _, m := range r.s.st.movements {
		if m.ProductID != id {
			movs = append(movs, m)
		}
	}
	r.s.st.movements = movs
	mats := r.s.st.materials[:0]
	for _, m := range r.s.st.materials {
		if m.ProductID != id {
			mats = append(mats, m)
		}
	}
	r.s.st.materials = mats
	return nil
}

// BatchRepo lotes en memoria.
type BatchRepo struct{ s *Store }

func (r *BatchRepo) Create(_ context.Context, b *entity.Batch) error {
	if err := r.s.fail("batch.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	r.s.st.batches[b.ID] = *b
	return nil
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.st.batches[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *BatchRepo) ListByProducts(_ context.Context, ids []string) ([]*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]*entity.Batch, 0)
	for _, b := range r.s.st.batches {
		if want[b.ProductID] {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

// MovementRepo movimientos en memoria.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	if err := r.s.fail("movement.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.MovementWithDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.MovementWithDetails, 0)
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		m := r.s.st.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		out = append(out, &entity.MovementWithDetails{
			Movement:    m,
			ProductName: r.s.st.products[m.ProductID].Name,
			Username:    r.s.st.users[m.PerformedBy].Username,
		})
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r *MovementRepo) Totals(_ context.Context, productID string) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries, exits := decimal.Zero, decimal.Zero
	for _, m := range r.s.st.movements {
		if m.ProductID != productID {
			continue
		}
		if m.Kind == entity.MovementExit {
			exits = exits.Add(m.Quantity)
		} else {
			entries = entries.Add(m.Quantity)
		}
	}
	return entries, exits, nil
}

// MaterialRepo materiales usados en memoria.
type MaterialRepo struct{ s *Store }

func (r *MaterialRepo) Create(_ context.Context, m *entity.MaterialUsed) error {
	if err := r.s.fail("material.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.st.materials = append(r.s.st.materials, *m)
	return nil
}

func (r *MaterialRepo) ListByAppointments(_ context.Context, ids []string) ([]*entity.MaterialUsedDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]*entity.MaterialUsedDetail, 0)
	for _, m := range r.s.st.materials {
		if !want[m.AppointmentID] {
			continue
		}
		p := r.s.st.products[m.ProductID]
		out = append(out, &entity.MaterialUsedDetail{MaterialUsed: m, ProductName: p.Name, Unit: p.Unit})
	}
	return out, nil
}

func (r *MaterialRepo) DeleteByAppointment(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	mats := r.s.st.materials[:0]
	for _, m := range r.s.st.materials {
		if m.AppointmentID != id {
			mats = append(mats, m)
		}
	}
	r.s.st.materials = mats
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
