package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

// ── Inventario ────────────────────────────────────────────────────────────────

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

type InventoryRepo struct {
	s *Store
}

func (r *InventoryRepo) Ensure(productID, warehouseID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := invKey(productID, warehouseID)
	if _, ok := r.s.inventory[key]; !ok {
		r.s.inventory[key] = &entity.InventoryRecord{
			ProductID:   productID,
			WarehouseID: warehouseID,
			UpdatedAt:   time.Now(),
		}
	}
	return nil
}

func (r *InventoryRepo) Get(productID, warehouseID string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec, ok := r.s.inventory[invKey(productID, warehouseID)]; ok {
		c := *rec
		return &c, nil
	}
	return &entity.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}, nil
}

func (r *InventoryRepo) GetForUpdate(productID, warehouseID string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	r.s.lockOrder = append(r.s.lockOrder, invKey(productID, warehouseID))
	r.s.mu.Unlock()
	return r.Get(productID, warehouseID)
}

func (r *InventoryRepo) Update(rec *entity.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *rec
	r.s.inventory[invKey(rec.ProductID, rec.WarehouseID)] = &c
	return nil
}

func (r *InventoryRepo) ListByProduct(productID string) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryRecord
	for _, rec := range r.s.inventory {
		if rec.ProductID == productID {
			c := *rec
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].WarehouseID < list[j].WarehouseID })
	return list, nil
}

func (r *InventoryRepo) ListBelowMinimum(limit int) ([]*entity.LowStockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := map[string]int64{}
	for _, rec := range r.s.inventory {
		totals[rec.ProductID] += rec.Available
	}
	var list []*entity.LowStockItem
	for _, p := range r.s.products {
		if !p.Active || p.MinStock <= 0 {
			continue
		}
		if totals[p.ID] < p.MinStock {
			list = append(list, &entity.LowStockItem{
				ProductID: p.ID,
				Code:      p.Code,
				Name:      p.Name,
				Available: totals[p.ID],
				MinStock:  p.MinStock,
			})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].MinStock-list[i].Available > list[j].MinStock-list[j].Available
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

type StockMovementRepo struct {
	s *Store
}

func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *StockMovementRepo) List(filter entity.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.StockMovement
	for _, m := range r.s.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		c := *m
		all = append(all, &c)
	}
	// Más reciente primero, como el adaptador de postgres.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Code == p.Code {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, p.Code)
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *ProductRepo) GetByIDs(ids []string) (map[string]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			c := *p
			out[id] = &c
		}
	}
	return out, nil
}

func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.ID)
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) UpdatePricing(productID string, cost, price, priceWholesale decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	p.Cost = cost
	p.Price = price
	p.PriceWholesale = priceWholesale
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		c := *p
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ── Bodegas ───────────────────────────────────────────────────────────────────

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

type WarehouseRepo struct {
	s *Store
}

func (r *WarehouseRepo) Create(w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.warehouses {
		if existing.Code == w.Code {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, w.Code)
		}
	}
	c := *w
	r.s.warehouses[w.ID] = &c
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		c := *w
		return &c, nil
	}
	return nil, nil
}

func (r *WarehouseRepo) List() ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Warehouse
	for _, w := range r.s.warehouses {
		c := *w
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

func (r *WarehouseRepo) GetDefault() (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var first *entity.Warehouse
	for _, w := range r.s.warehouses {
		if !w.Active {
			continue
		}
		if w.Code == entity.WarehouseCodeMain {
			c := *w
			return &c, nil
		}
		if first == nil || w.CreatedAt.Before(first.CreatedAt) {
			first = w
		}
	}
	if first == nil {
		return nil, fmt.Errorf("%w: no hay bodegas activas", domain.ErrNotFound)
	}
	c := *first
	return &c, nil
}

// ── Clientes y proveedores ────────────────────────────────────────────────────

var _ repository.ClientRepository = (*ClientRepo)(nil)

type ClientRepo struct {
	s *Store
}

func (r *ClientRepo) Create(c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Client
	for _, c := range r.s.clients {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

type SupplierRepo struct {
	s *Store
}

func (r *SupplierRepo) Create(sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sup
	r.s.suppliers[sup.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sup, ok := r.s.suppliers[id]; ok {
		cp := *sup
		return &cp, nil
	}
	return nil, nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Supplier
	for _, sup := range r.s.suppliers {
		cp := *sup
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

var _ repository.SaleRepository = (*SaleRepo)(nil)

type SaleRepo struct {
	s *Store
}

func (r *SaleRepo) Create(s *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *s
	r.s.sales[s.ID] = &c
	return nil
}

func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *item
	r.s.saleItems[item.SaleID] = append(r.s.saleItems[item.SaleID], &c)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s, ok := r.s.sales[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SaleItem
	for _, it := range r.s.saleItems[saleID] {
		c := *it
		out = append(out, &c)
	}
	return out, nil
}

func (r *SaleRepo) List(clientID string, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Sale
	for _, s := range r.s.sales {
		if clientID != "" && s.ClientID != clientID {
			continue
		}
		c := *s
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

func (r *SaleRepo) UpdateDeliveryStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sales[id]
	if !ok {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	s.DeliveryStatus = status
	return nil
}

func (r *SaleRepo) UpdatePaymentStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sales[id]
	if !ok {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	s.PaymentStatus = status
	return nil
}

// ── Compras ───────────────────────────────────────────────────────────────────

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

type PurchaseRepo struct {
	s *Store
}

func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	r.s.purchases[p.ID] = &c
	return nil
}

func (r *PurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *item
	r.s.purchItems[item.PurchaseID] = append(r.s.purchItems[item.PurchaseID], &c)
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.purchases[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	return r.GetByID(id)
}

func (r *PurchaseRepo) ListItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseItem
	for _, it := range r.s.purchItems[purchaseID] {
		c := *it
		out = append(out, &c)
	}
	return out, nil
}

func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Purchase
	for _, p := range r.s.purchases {
		c := *p
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

func (r *PurchaseRepo) MarkReceived(id string, receivedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.purchases[id]
	if !ok {
		return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	p.Status = entity.PurchaseStatusReceived
	ts := receivedAt
	p.ReceivedAt = &ts
	return nil
}

// ── Carritos ──────────────────────────────────────────────────────────────────

var _ repository.CartRepository = (*CartRepo)(nil)

type CartRepo struct {
	s *Store
}

func (r *CartRepo) GetOrCreate(clientID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.carts[clientID]; ok {
		cp := *c
		return &cp, nil
	}
	now := time.Now()
	c := &entity.Cart{ID: uuid.NewString(), ClientID: clientID, UpdatedAt: now, CreatedAt: now}
	r.s.carts[clientID] = c
	cp := *c
	return &cp, nil
}

func (r *CartRepo) GetForUpdate(clientID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.carts[clientID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CartRepo) AddItem(item *entity.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.cartItems[item.CartID] {
		if it.ProductID == item.ProductID {
			it.Quantity += item.Quantity
			return nil
		}
	}
	c := *item
	r.s.cartItems[item.CartID] = append(r.s.cartItems[item.CartID], &c)
	return nil
}

func (r *CartRepo) listItems(cartID string) []*entity.CartItem {
	var out []*entity.CartItem
	for _, it := range r.s.cartItems[cartID] {
		c := *it
		out = append(out, &c)
	}
	return out
}

func (r *CartRepo) ListItemsForUpdate(cartID string) ([]*entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listItems(cartID), nil
}

func (r *CartRepo) ListItems(cartID string) ([]*entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listItems(cartID), nil
}

func (r *CartRepo) Clear(cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.cartItems, cartID)
	return nil
}

// ── Historial de precios ──────────────────────────────────────────────────────

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

type PriceHistoryRepo struct {
	s *Store
}

func (r *PriceHistoryRepo) Create(h *entity.PriceHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *h
	r.s.history = append(r.s.history, &c)
	return nil
}

func (r *PriceHistoryRepo) ListByProduct(productID string, limit int) ([]*entity.PriceHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PriceHistory
	for i := len(r.s.history) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.history[i].ProductID == productID {
			c := *r.s.history[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── Auditoría ─────────────────────────────────────────────────────────────────

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora en memoria; fuera del snapshot transaccional a
// propósito, igual que el adaptador de postgres va sobre el pool.
type AuditLogRepo struct {
	mu     sync.Mutex
	Logs   []*entity.AuditLog
	FailOn string // acción que fuerza error, para probar el best-effort
}

func (r *AuditLogRepo) Create(a *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn != "" && a.Action == r.FailOn {
		return fmt.Errorf("audit sink caído")
	}
	c := *a
	r.Logs = append(r.Logs, &c)
	return nil
}

// Actions devuelve las acciones registradas en orden.
func (r *AuditLogRepo) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Logs))
	for _, l := range r.Logs {
		out = append(out, l.Action)
	}
	return out
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	s *Store
}

// NewUserRepository repo de usuarios sobre el store.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
