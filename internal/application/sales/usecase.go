package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/application/ports"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

// UseCase crea ventas descontando inventario en una sola transacción, y
// maneja entrega y cancelación. La cabecera de venta solo la muta este flujo.
type UseCase struct {
	txRunner      ports.TxRunner
	engine        *inventory.StockEngine
	clientRepo    repository.ClientRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	saleRepo      repository.SaleRepository
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner ports.TxRunner,
	engine *inventory.StockEngine,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	saleRepo repository.SaleRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		engine:        engine,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		saleRepo:      saleRepo,
	}
}

// CreateSale crea la venta: valida cliente, carga los productos en una sola
// consulta, verifica stock de todas las líneas, inserta cabecera y detalle y
// descuenta stock por línea — todo en una transacción. Cualquier fallo deja
// el libro y los contadores exactamente como antes del intento.
func (uc *UseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.ClientID)
	}

	warehouseID, err := uc.resolveWarehouse(in.WarehouseID)
	if err != nil {
		return nil, err
	}

	// Carga batch de productos (una consulta, no N).
	ids := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := uc.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		if products[item.ProductID] == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
	}

	now := time.Now()
	saleID := uuid.New().String()
	reference := "VENTA " + saleID
	var sale *entity.Sale

	// Cantidad requerida por producto (una venta puede repetir producto en
	// varias líneas) y orden de bloqueo ascendente, el mismo que usan las
	// transferencias: dos ventas concurrentes con líneas cruzadas no se
	// bloquean mutuamente.
	need := make(map[string]int64, len(in.Items))
	for _, item := range in.Items {
		need[item.ProductID] += item.Quantity
	}
	lockIDs := make([]string, 0, len(need))
	for pid := range need {
		lockIDs = append(lockIDs, pid)
	}
	sort.Strings(lockIDs)

	err = uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		// Verificación previa con bloqueo: si alguna línea no alcanza, se
		// aborta antes de cualquier mutación. Las filas quedan bloqueadas
		// hasta el final de la tx, así el chequeo sigue válido al descontar.
		for _, pid := range lockIDs {
			if err := r.Inventory.Ensure(pid, warehouseID); err != nil {
				return err
			}
			rec, err := r.Inventory.GetForUpdate(pid, warehouseID)
			if err != nil {
				return err
			}
			if rec.Available < need[pid] {
				return fmt.Errorf("%w: producto %s en bodega %s", domain.ErrInsufficientStock, pid, warehouseID)
			}
		}

		var total decimal.Decimal
		items := make([]*entity.SaleItem, 0, len(in.Items))
		for _, item := range in.Items {
			unitPrice := item.UnitPrice
			if unitPrice.IsZero() {
				unitPrice = products[item.ProductID].Price
			}
			subtotal := unitPrice.Mul(decimal.NewFromInt(item.Quantity))
			total = total.Add(subtotal)
			items = append(items, &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				Subtotal:  subtotal,
			})
		}
		net := total.Sub(in.Discount).Add(in.Taxes)

		sale = &entity.Sale{
			ID:             saleID,
			ClientID:       in.ClientID,
			WarehouseID:    warehouseID,
			Date:           now,
			Total:          total,
			Discount:       in.Discount,
			Taxes:          in.Taxes,
			Net:            net,
			PaymentStatus:  entity.PaymentStatusPending,
			DeliveryStatus: entity.DeliveryStatusPending,
			CreatedAt:      now,
		}
		if err := r.Sales.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Sales.CreateItem(item); err != nil {
				return err
			}
		}

		// Una salida por línea, referenciando la venta.
		for _, item := range items {
			err := uc.engine.RemoveStock(r, inventory.StockInput{
				ProductID:   item.ProductID,
				WarehouseID: warehouseID,
				Quantity:    item.Quantity,
				Reason:      "venta",
				Reference:   reference,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// DeliverSale marca la venta como entregada. El stock ya se descontó al
// crearla; aquí solo cambia el estado, bajo bloqueo de la cabecera.
func (uc *UseCase) DeliverSale(ctx context.Context, saleID string) error {
	if saleID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		sale, err := r.Sales.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.PaymentStatus == entity.PaymentStatusCancelled {
			return fmt.Errorf("%w: la venta está cancelada", domain.ErrInvalidState)
		}
		if sale.DeliveryStatus == entity.DeliveryStatusDelivered {
			return fmt.Errorf("%w: la venta ya está entregada", domain.ErrInvalidState)
		}
		return r.Sales.UpdateDeliveryStatus(saleID, entity.DeliveryStatusDelivered)
	})
}

// CancelSale cancela una venta no entregada y devuelve el stock de cada línea
// (una entrada por ítem con motivo "cancelacion"), todo en una transacción.
// Repone en la bodega de la cabecera, la misma donde se descontó al crear.
func (uc *UseCase) CancelSale(ctx context.Context, saleID, userID string) error {
	if saleID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		sale, err := r.Sales.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.PaymentStatus == entity.PaymentStatusCancelled {
			return fmt.Errorf("%w: la venta ya está cancelada", domain.ErrInvalidState)
		}
		if sale.DeliveryStatus == entity.DeliveryStatusDelivered {
			return fmt.Errorf("%w: no se puede cancelar una venta entregada", domain.ErrInvalidState)
		}
		items, err := r.Sales.ListItems(saleID)
		if err != nil {
			return err
		}
		for _, item := range items {
			err := uc.engine.AddStock(r, inventory.StockInput{
				ProductID:   item.ProductID,
				WarehouseID: sale.WarehouseID,
				Quantity:    item.Quantity,
				Reason:      "cancelacion",
				Reference:   "VENTA " + saleID,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
		}
		return r.Sales.UpdatePaymentStatus(saleID, entity.PaymentStatusCancelled)
	})
}

// ListSales lista ventas, opcionalmente filtradas por cliente.
func (uc *UseCase) ListSales(ctx context.Context, clientID string, limit, offset int) ([]*dto.SaleResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.saleRepo.List(clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

// GetSaleItems detalle de una venta.
func (uc *UseCase) GetSaleItems(ctx context.Context, saleID string) ([]*dto.SaleItemResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(saleID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, &dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return out, nil
}

func (uc *UseCase) resolveWarehouse(warehouseID string) (string, error) {
	if warehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(warehouseID)
		if err != nil {
			return "", err
		}
		if wh == nil || !wh.Active {
			return "", domain.ErrNotFound
		}
		return wh.ID, nil
	}
	wh, err := uc.warehouseRepo.GetDefault()
	if err != nil {
		return "", err
	}
	if wh == nil {
		return "", domain.ErrNotFound
	}
	return wh.ID, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:             s.ID,
		ClientID:       s.ClientID,
		WarehouseID:    s.WarehouseID,
		Date:           s.Date,
		Total:          s.Total,
		Discount:       s.Discount,
		Taxes:          s.Taxes,
		Net:            s.Net,
		PaymentStatus:  s.PaymentStatus,
		DeliveryStatus: s.DeliveryStatus,
	}
}
