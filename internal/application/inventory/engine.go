package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-ops/internal/application/ports"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
	"github.com/tu-usuario/retail-ops/pkg/logger"
)

// StockEngine implementa las operaciones primitivas sobre el inventario:
// entrada, salida, ajuste, reserva, liberación y transferencia. Todas se
// ejecutan dentro de la transacción del caller (reciben repos atados a la tx
// vía ports.Repos) para poder componerse en operaciones mayores; ninguna abre
// su propio Commit.
//
// Disciplina común: bloquear la fila (SELECT FOR UPDATE), chequear, mutar,
// registrar movimiento. Sin el bloqueo dos salidas concurrentes podrían pasar
// ambas el chequeo y dejar el disponible en negativo.
// La bitácora de auditoría va por fuera de la transacción (conexión propia):
// así un fallo al auditar no envenena la tx de negocio, y viceversa.
type StockEngine struct {
	auditRepo repository.AuditLogRepository
	log       *logger.Logger
}

// NewStockEngine construye el motor de stock.
func NewStockEngine(auditRepo repository.AuditLogRepository, log *logger.Logger) *StockEngine {
	return &StockEngine{auditRepo: auditRepo, log: log}
}

// StockInput parámetros de una operación primitiva sobre una bodega concreta.
type StockInput struct {
	ProductID   string
	WarehouseID string // ya resuelta por el caller (nunca vacía aquí)
	Quantity    int64
	Reason      string
	Reference   string
	UserID      string
}

// TransferInput parámetros de una transferencia entre bodegas.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	Reason          string
	Reference       string
	UserID          string
}

// EnsureRecord crea el registro de inventario en cero si no existe.
// Idempotente; no genera movimiento.
func (e *StockEngine) EnsureRecord(r *ports.Repos, productID, warehouseID string) error {
	return r.Inventory.Ensure(productID, warehouseID)
}

// AddStock incrementa el disponible y registra un movimiento de entrada.
// No hay cota superior; solo falla con entrada malformada o error de BD.
func (e *StockEngine) AddStock(r *ports.Repos, in StockInput) error {
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if err := r.Inventory.Ensure(in.ProductID, in.WarehouseID); err != nil {
		return err
	}
	rec, err := r.Inventory.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return err
	}
	now := time.Now()
	rec.Available += in.Quantity
	rec.UpdatedAt = now
	if err := r.Inventory.Update(rec); err != nil {
		return err
	}
	if err := e.appendMovement(r, in, entity.MovementTypeIn, now); err != nil {
		return err
	}
	e.audit(in.UserID, "entrada_stock", in.ProductID,
		fmt.Sprintf("%d por %s ref=%s bodega=%s", in.Quantity, in.Reason, in.Reference, in.WarehouseID))
	return nil
}

// RemoveStock descuenta del disponible bajo bloqueo de fila. Falla con
// ErrInsufficientStock si el disponible no alcanza; registra una salida.
func (e *StockEngine) RemoveStock(r *ports.Repos, in StockInput) error {
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if err := r.Inventory.Ensure(in.ProductID, in.WarehouseID); err != nil {
		return err
	}
	rec, err := r.Inventory.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return err
	}
	if rec.Available < in.Quantity {
		return fmt.Errorf("%w: producto %s en bodega %s", domain.ErrInsufficientStock, in.ProductID, in.WarehouseID)
	}
	now := time.Now()
	rec.Available -= in.Quantity
	rec.UpdatedAt = now
	if err := r.Inventory.Update(rec); err != nil {
		return err
	}
	if err := e.appendMovement(r, in, entity.MovementTypeOut, now); err != nil {
		return err
	}
	e.audit(in.UserID, "salida_stock", in.ProductID,
		fmt.Sprintf("%d por %s ref=%s bodega=%s", in.Quantity, in.Reason, in.Reference, in.WarehouseID))
	return nil
}

// AdjustStock corrección manual: positivo delega en AddStock, negativo en
// RemoveStock con el valor absoluto, cero es no-op (sin movimiento).
func (e *StockEngine) AdjustStock(r *ports.Repos, in StockInput) error {
	if in.Quantity == 0 {
		return nil
	}
	adj := in
	adj.Reason = "ajuste: " + in.Reason
	if in.Quantity > 0 {
		return e.AddStock(r, adj)
	}
	adj.Quantity = -in.Quantity
	return e.RemoveStock(r, adj)
}

// ReserveStock aparta stock para un compromiso pendiente: bajo bloqueo mueve
// cantidad de disponible a reservado. No escribe movimiento (el total en
// bodega no cambia, solo se reclasifica); sí deja auditoría.
func (e *StockEngine) ReserveStock(r *ports.Repos, in StockInput) error {
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if err := r.Inventory.Ensure(in.ProductID, in.WarehouseID); err != nil {
		return err
	}
	rec, err := r.Inventory.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return err
	}
	if rec.Available < in.Quantity {
		return fmt.Errorf("%w: producto %s en bodega %s", domain.ErrInsufficientStock, in.ProductID, in.WarehouseID)
	}
	rec.Available -= in.Quantity
	rec.Reserved += in.Quantity
	rec.UpdatedAt = time.Now()
	if err := r.Inventory.Update(rec); err != nil {
		return err
	}
	e.audit(in.UserID, "reservar_stock", in.ProductID,
		fmt.Sprintf("%d ref=%s bodega=%s", in.Quantity, in.Reference, in.WarehouseID))
	return nil
}

// ReleaseReservation devuelve stock reservado al disponible. Falla con
// ErrInvalidState si se intenta liberar más de lo reservado.
func (e *StockEngine) ReleaseReservation(r *ports.Repos, in StockInput) error {
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if err := r.Inventory.Ensure(in.ProductID, in.WarehouseID); err != nil {
		return err
	}
	rec, err := r.Inventory.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return err
	}
	if rec.Reserved < in.Quantity {
		return fmt.Errorf("%w: cantidad a liberar mayor que la reservada", domain.ErrInvalidState)
	}
	rec.Reserved -= in.Quantity
	rec.Available += in.Quantity
	rec.UpdatedAt = time.Now()
	if err := r.Inventory.Update(rec); err != nil {
		return err
	}
	e.audit(in.UserID, "liberar_reserva", in.ProductID,
		fmt.Sprintf("%d ref=%s bodega=%s", in.Quantity, in.Reference, in.WarehouseID))
	return nil
}

// TransferStock mueve stock entre dos bodegas como par atómico: salida en
// origen + entrada en destino, con dos movimientos bajo la misma referencia.
//
// Regla de orden de bloqueo: las dos filas se bloquean siempre en orden
// ascendente de (producto, bodega), no "origen primero". Dos transferencias
// cruzadas A→B y B→A sobre el mismo producto quedan así serializadas en vez
// de abrazarse mutuamente.
func (e *StockEngine) TransferStock(r *ports.Repos, in TransferInput) error {
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" || in.FromWarehouseID == in.ToWarehouseID {
		return fmt.Errorf("%w: bodega origen y destino deben ser distintas", domain.ErrInvalidInput)
	}
	if err := r.Inventory.Ensure(in.ProductID, in.FromWarehouseID); err != nil {
		return err
	}
	if err := r.Inventory.Ensure(in.ProductID, in.ToWarehouseID); err != nil {
		return err
	}

	ordered := []string{in.FromWarehouseID, in.ToWarehouseID}
	sort.Strings(ordered)
	locked := make(map[string]*entity.InventoryRecord, 2)
	for _, whID := range ordered {
		rec, err := r.Inventory.GetForUpdate(in.ProductID, whID)
		if err != nil {
			return err
		}
		locked[whID] = rec
	}
	origin := locked[in.FromWarehouseID]
	dest := locked[in.ToWarehouseID]

	if origin.Available < in.Quantity {
		return fmt.Errorf("%w: producto %s en bodega %s", domain.ErrInsufficientStock, in.ProductID, in.FromWarehouseID)
	}
	now := time.Now()
	origin.Available -= in.Quantity
	dest.Available += in.Quantity
	origin.UpdatedAt = now
	dest.UpdatedAt = now
	if err := r.Inventory.Update(origin); err != nil {
		return err
	}
	if err := r.Inventory.Update(dest); err != nil {
		return err
	}

	reason := in.Reason
	if reason == "" {
		reason = "transferencia"
	}
	out := StockInput{
		ProductID: in.ProductID, WarehouseID: in.FromWarehouseID,
		Quantity: in.Quantity, Reason: reason, Reference: in.Reference, UserID: in.UserID,
	}
	if err := e.appendMovement(r, out, entity.MovementTypeOut, now); err != nil {
		return err
	}
	inMov := out
	inMov.WarehouseID = in.ToWarehouseID
	if err := e.appendMovement(r, inMov, entity.MovementTypeIn, now); err != nil {
		return err
	}
	e.audit(in.UserID, "transferir_stock", in.ProductID,
		fmt.Sprintf("%d de bodega=%s a bodega=%s ref=%s", in.Quantity, in.FromWarehouseID, in.ToWarehouseID, in.Reference))
	return nil
}

// appendMovement agrega un hecho al libro de movimientos.
func (e *StockEngine) appendMovement(r *ports.Repos, in StockInput, movType string, now time.Time) error {
	return r.Movements.Create(&entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        movType,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		Reference:   in.Reference,
		UserID:      in.UserID,
		CreatedAt:   now,
	})
}

// audit registra la acción en la bitácora. Best-effort: un fallo aquí se loguea
// y se ignora; nunca aborta la transacción de negocio que lo origina.
func (e *StockEngine) audit(userID, action, recordID, detail string) {
	if e.auditRepo == nil {
		return
	}
	err := e.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Table:     "inventario",
		RecordID:  recordID,
		Detail:    detail,
		CreatedAt: time.Now(),
	})
	if err != nil && e.log != nil {
		e.log.Warn().Err(err).Str("accion", action).Msg("falló la escritura de auditoría")
	}
}
