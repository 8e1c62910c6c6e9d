package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/application/ports"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/pricing"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

// PricingConfig márgenes y cotizaciones para el recálculo de precios al
// recibir mercadería. Las cotizaciones van por moneda; la local es 1.
type PricingConfig struct {
	Margins pricing.Margins
	FxRates map[string]decimal.Decimal // USD -> 1050.0, CNY -> ...
}

// FxRate cotización de una moneda a moneda local; la local vale 1.
func (c PricingConfig) FxRate(currency string) (decimal.Decimal, bool) {
	if currency == entity.CurrencyLocal {
		return decimal.NewFromInt(1), true
	}
	rate, ok := c.FxRates[currency]
	return rate, ok
}

// UseCase crea compras y procesa su recepción: al pasar a "recibido" entra el
// stock de cada línea exactamente una vez, se recalculan costo y precios del
// producto y se agrega el histórico — todo en la misma transacción, para que
// costo y stock se muevan juntos.
type UseCase struct {
	txRunner      ports.TxRunner
	engine        *inventory.StockEngine
	supplierRepo  repository.SupplierRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	purchaseRepo  repository.PurchaseRepository
	pricingCfg    PricingConfig
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner ports.TxRunner,
	engine *inventory.StockEngine,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	purchaseRepo repository.PurchaseRepository,
	pricingCfg PricingConfig,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		engine:        engine,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		purchaseRepo:  purchaseRepo,
		pricingCfg:    pricingCfg,
	}
}

// CreatePurchase registra la compra en estado pendiente. No toca stock:
// eso ocurre recién en la recepción.
func (uc *UseCase) CreatePurchase(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	currency := in.Currency
	if currency == "" {
		currency = entity.CurrencyUSD
	}
	fxRate, ok := uc.pricingCfg.FxRate(currency)
	if !ok {
		return nil, fmt.Errorf("%w: moneda %s", domain.ErrInvalidInput, currency)
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.UnitCost.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.ShippingCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}

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
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Date:       now,
		Currency:   currency,
		FxRate:     fxRate,
		Status:     entity.PurchaseStatusPending,
		CreatedAt:  now,
	}

	err = uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		var total decimal.Decimal
		items := make([]*entity.PurchaseItem, 0, len(in.Items))
		for _, item := range in.Items {
			subtotal := item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)).Add(item.ShippingCost)
			total = total.Add(subtotal)
			items = append(items, &entity.PurchaseItem{
				ID:           uuid.New().String(),
				PurchaseID:   purchase.ID,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				UnitCost:     item.UnitCost,
				ShippingCost: item.ShippingCost,
				Subtotal:     subtotal,
			})
		}
		purchase.TotalCost = total
		if err := r.Purchases.Create(purchase); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Purchases.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// ReceivePurchase transiciona la compra a "recibido". Idempotente: si ya está
// recibida devuelve already_received sin efectos. Si no, por cada línea entra
// stock con referencia a la compra, el costo del producto pasa al promedio
// ponderado entre el stock existente y la entrada (los precios salen de ese
// promedio) y se agrega el histórico de precios; cualquier fallo revierte todo,
// incluidas las entradas ya aplicadas en esta llamada.
func (uc *UseCase) ReceivePurchase(ctx context.Context, purchaseID, warehouseID, userID string) (*dto.ReceivePurchaseResponse, error) {
	if purchaseID == "" {
		return nil, domain.ErrInvalidInput
	}
	whID, err := uc.resolveWarehouse(warehouseID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReceivePurchaseResponse{PurchaseID: purchaseID}
	err = uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		purchase, err := r.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, purchaseID)
		}
		if purchase.Status == entity.PurchaseStatusReceived {
			// Reintento sobre una compra ya recibida: éxito sin efectos.
			resp.AlreadyReceived = true
			return nil
		}

		items, err := r.Purchases.ListItems(purchaseID)
		if err != nil {
			return err
		}
		reference := "COMPRA " + purchaseID
		for _, item := range items {
			product, err := r.Products.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}

			// Costo promedio ponderado entre lo que había en la bodega y lo
			// que entra, todo en moneda local; los precios salen del promedio.
			if err := r.Inventory.Ensure(item.ProductID, whID); err != nil {
				return err
			}
			rec, err := r.Inventory.GetForUpdate(item.ProductID, whID)
			if err != nil {
				return err
			}
			onHand := decimal.NewFromInt(rec.Available + rec.Reserved)
			entryCost := item.UnitCost.Mul(purchase.FxRate)
			avgCost := pricing.WeightedAverageCost(onHand, product.Cost,
				decimal.NewFromInt(item.Quantity), entryCost)
			ps := pricing.FromCostLocal(avgCost, uc.pricingCfg.Margins)

			err = uc.engine.AddStock(r, inventory.StockInput{
				ProductID:   item.ProductID,
				WarehouseID: whID,
				Quantity:    item.Quantity,
				Reason:      "compra",
				Reference:   reference,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
			if err := r.Products.UpdatePricing(product.ID, ps.CostLocal, ps.Price, ps.PriceWholesale); err != nil {
				return err
			}
			err = r.PriceHistory.Create(&entity.PriceHistory{
				ID:             uuid.New().String(),
				ProductID:      product.ID,
				Cost:           ps.CostLocal,
				Price:          ps.Price,
				PriceWholesale: ps.PriceWholesale,
				FxRate:         purchase.FxRate,
				Source:         reference,
				CreatedAt:      time.Now(),
			})
			if err != nil {
				return err
			}
		}
		return r.Purchases.MarkReceived(purchaseID, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListPurchases lista compras paginadas.
func (uc *UseCase) ListPurchases(ctx context.Context, limit, offset int) ([]*dto.PurchaseResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.purchaseRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPurchaseResponse(p))
	}
	return out, nil
}

// GetPurchaseItems detalle de una compra.
func (uc *UseCase) GetPurchaseItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	return uc.purchaseRepo.ListItems(purchaseID)
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

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Date:       p.Date,
		Currency:   p.Currency,
		FxRate:     p.FxRate,
		TotalCost:  p.TotalCost,
		Status:     p.Status,
	}
}
