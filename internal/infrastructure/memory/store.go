// Package memory implementa los puertos de persistencia en memoria. Sirve para el modo sin base
// de datos (APP_STORAGE=memory) y como respaldo de las pruebas de las capas superiores.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	writeMu   sync.Mutex // serializa las transacciones del ledger
	products  map[string]entity.Product
	codeSeq   int64
	movements []entity.StockMovement
	depots    map[string]entity.Depot
	contacts  map[string]entity.Contact
	users     map[string]entity.User
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		depots:   make(map[string]entity.Depot),
		contacts: make(map[string]entity.Contact),
		users:    make(map[string]entity.User),
	}
}

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.DepotRepository    = (*DepotRepo)(nil)
	_ repository.ContactRepository  = (*ContactRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ inventory.TxRunner            = (*TxRunner)(nil)
)

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner serializa las escrituras del ledger con un mutex global. Si fn falla, los movimientos
// agregados durante la llamada se descartan.
type TxRunner struct{ s *Store }

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run ejecuta fn con el ledger bloqueado.
func (r *TxRunner) Run(_ context.Context, _ []string, fn func(movRepo repository.MovementRepository) error) error {
	r.s.writeMu.Lock()
	defer r.s.writeMu.Unlock()

	r.s.mu.RLock()
	mark := len(r.s.movements)
	r.s.mu.RUnlock()

	if err := fn(&MovementRepo{s: r.s}); err != nil {
		r.s.mu.Lock()
		r.s.movements = r.s.movements[:mark]
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ s *Store }

// NewProductRepository construye el repositorio.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Code == p.Code {
			return domain.ErrConstraint
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *p
	updated.Code = prev.Code
	updated.Archived = prev.Archived
	r.s.products[p.ID] = updated
	return nil
}

func (r *ProductRepo) SetArchived(_ context.Context, id string, archived bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Archived = archived
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(f.Search)
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if p.Archived && !f.IncludeArchived {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *ProductRepo) NextCodeNumber(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.codeSeq++
	return r.s.codeSeq, nil
}

// ── Depots ────────────────────────────────────────────────────────────────────

// DepotRepo repositorio de depósitos en memoria.
type DepotRepo struct{ s *Store }

// NewDepotRepository construye el repositorio.
func NewDepotRepository(s *Store) *DepotRepo { return &DepotRepo{s: s} }

func (r *DepotRepo) Create(_ context.Context, d *entity.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.depots {
		if strings.EqualFold(existing.Name, d.Name) {
			return domain.ErrConstraint
		}
	}
	r.s.depots[d.ID] = *d
	return nil
}

func (r *DepotRepo) GetByID(_ context.Context, id string) (*entity.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.depots[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DepotRepo) GetByName(_ context.Context, name string) (*entity.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.depots {
		if strings.EqualFold(d.Name, name) {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *DepotRepo) Update(_ context.Context, d *entity.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.depots[d.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.depots {
		if existing.ID != d.ID && strings.EqualFold(existing.Name, d.Name) {
			return domain.ErrConstraint
		}
	}
	r.s.depots[d.ID] = *d
	return nil
}

func (r *DepotRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.depots, id)
	return nil
}

func (r *DepotRepo) List(context.Context) ([]*entity.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Depot, 0, len(r.s.depots))
	for _, d := range r.s.depots {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Contacts ──────────────────────────────────────────────────────────────────

// ContactRepo repositorio de contactos en memoria.
type ContactRepo struct{ s *Store }

// NewContactRepository construye el repositorio.
func NewContactRepository(s *Store) *ContactRepo { return &ContactRepo{s: s} }

func (r *ContactRepo) conflicts(c *entity.Contact) bool {
	for _, existing := range r.s.contacts {
		if existing.ID == c.ID || existing.Kind != c.Kind {
			continue
		}
		if strings.EqualFold(existing.Name, c.Name) || (c.FiscalID != "" && existing.FiscalID == c.FiscalID) {
			return true
		}
	}
	return false
}

func (r *ContactRepo) Create(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.conflicts(c) {
		return domain.ErrConstraint
	}
	r.s.contacts[c.ID] = *c
	return nil
}

func (r *ContactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contacts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ContactRepo) GetByName(_ context.Context, kind entity.ContactKind, name string) (*entity.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.contacts {
		if c.Kind == kind && strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ContactRepo) GetByFiscalID(_ context.Context, kind entity.ContactKind, fiscalID string) (*entity.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.contacts {
		if c.Kind == kind && c.FiscalID == fiscalID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ContactRepo) Update(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contacts[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.conflicts(c) {
		return domain.ErrConstraint
	}
	r.s.contacts[c.ID] = *c
	return nil
}

func (r *ContactRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.contacts, id)
	for pid, p := range r.s.products {
		if p.SupplierID == id {
			p.SupplierID = ""
			r.s.products[pid] = p
		}
	}
	return nil
}

func (r *ContactRepo) List(_ context.Context, kind entity.ContactKind, limit, offset int) ([]*entity.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Contact, 0)
	for _, c := range r.s.contacts {
		if kind != "" && c.Kind != kind {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

// UserRepo repositorio de usuarios en memoria.
type UserRepo struct{ s *Store }

// NewUserRepository construye el repositorio.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) || (u.Email != "" && strings.EqualFold(existing.Email, u.Email)) {
			return domain.ErrConstraint
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return slices.Clip(items)
}
