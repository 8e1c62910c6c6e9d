// Package memory implementa los repositorios sobre mapas en memoria, con un
// TxRunner que serializa transacciones y restaura un snapshot ante error.
// Se usa en los tests de casos de uso; el comportamiento observable (atomicidad,
// registros en cero implícitos, recepción idempotente) replica al de postgres.
package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/retail-ops/internal/application/ports"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	inventory  map[string]*entity.InventoryRecord // productID + "|" + warehouseID
	movements  []*entity.StockMovement
	sales      map[string]*entity.Sale
	saleItems  map[string][]*entity.SaleItem
	purchases  map[string]*entity.Purchase
	purchItems map[string][]*entity.PurchaseItem
	clients    map[string]*entity.Client
	suppliers  map[string]*entity.Supplier
	carts      map[string]*entity.Cart // por clientID
	cartItems  map[string][]*entity.CartItem
	history    []*entity.PriceHistory
	users      map[string]*entity.User

	// lockOrder registra el orden en que las transacciones piden bloqueo de
	// registros de inventario; los tests de transferencia lo inspeccionan.
	lockOrder []string
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
		inventory:  map[string]*entity.InventoryRecord{},
		sales:      map[string]*entity.Sale{},
		saleItems:  map[string][]*entity.SaleItem{},
		purchases:  map[string]*entity.Purchase{},
		purchItems: map[string][]*entity.PurchaseItem{},
		clients:    map[string]*entity.Client{},
		suppliers:  map[string]*entity.Supplier{},
		carts:      map[string]*entity.Cart{},
		cartItems:  map[string][]*entity.CartItem{},
		users:      map[string]*entity.User{},
	}
}

func invKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

// Repos construye el juego completo de repositorios sobre el store.
func (s *Store) Repos() *ports.Repos {
	return &ports.Repos{
		Inventory:    &InventoryRepo{s: s},
		Movements:    &StockMovementRepo{s: s},
		Products:     &ProductRepo{s: s},
		Warehouses:   &WarehouseRepo{s: s},
		Clients:      &ClientRepo{s: s},
		Suppliers:    &SupplierRepo{s: s},
		Sales:        &SaleRepo{s: s},
		Purchases:    &PurchaseRepo{s: s},
		Carts:        &CartRepo{s: s},
		PriceHistory: &PriceHistoryRepo{s: s},
	}
}

// LockOrder devuelve el orden registrado de bloqueos de inventario.
func (s *Store) LockOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lockOrder))
	copy(out, s.lockOrder)
	return out
}

// ResetLockOrder limpia el registro de bloqueos.
func (s *Store) ResetLockOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockOrder = nil
}

// snapshot copia profunda del estado mutable.
func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := NewStore()
	for k, v := range s.products {
		c := *v
		snap.products[k] = &c
	}
	for k, v := range s.warehouses {
		c := *v
		snap.warehouses[k] = &c
	}
	for k, v := range s.inventory {
		c := *v
		snap.inventory[k] = &c
	}
	snap.movements = append([]*entity.StockMovement(nil), s.movements...)
	for k, v := range s.sales {
		c := *v
		snap.sales[k] = &c
	}
	for k, v := range s.saleItems {
		snap.saleItems[k] = append([]*entity.SaleItem(nil), v...)
	}
	for k, v := range s.purchases {
		c := *v
		snap.purchases[k] = &c
	}
	for k, v := range s.purchItems {
		snap.purchItems[k] = append([]*entity.PurchaseItem(nil), v...)
	}
	for k, v := range s.clients {
		c := *v
		snap.clients[k] = &c
	}
	for k, v := range s.suppliers {
		c := *v
		snap.suppliers[k] = &c
	}
	for k, v := range s.carts {
		c := *v
		snap.carts[k] = &c
	}
	for k, v := range s.cartItems {
		snap.cartItems[k] = append([]*entity.CartItem(nil), v...)
	}
	snap.history = append([]*entity.PriceHistory(nil), s.history...)
	for k, v := range s.users {
		c := *v
		snap.users[k] = &c
	}
	return snap
}

// restore reemplaza el estado por el del snapshot.
func (s *Store) restore(snap *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.warehouses = snap.warehouses
	s.inventory = snap.inventory
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.purchases = snap.purchases
	s.purchItems = snap.purchItems
	s.clients = snap.clients
	s.suppliers = snap.suppliers
	s.carts = snap.carts
	s.cartItems = snap.cartItems
	s.history = snap.history
	s.users = snap.users
}

// TxRunner ejecuta la función con los repos del store. Las transacciones se
// serializan con un mutex; ante error se restaura el snapshot previo, igual
// que un ROLLBACK.
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxRunner construye el runner transaccional en memoria.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn como una transacción: todo o nada.
func (t *TxRunner) Run(ctx context.Context, fn func(r *ports.Repos) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	snap := t.store.snapshot()
	if err := fn(t.store.Repos()); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

var _ ports.TxRunner = (*TxRunner)(nil)
