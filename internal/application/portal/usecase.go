package portal

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

// UseCase portal de clientes: carrito y checkout. El checkout es una venta
// con tres garantías extra: bloquea el carrito y sus líneas, toma el precio
// vigente del producto (nunca uno enviado por el cliente) y vacía el carrito
// en la misma transacción — un checkout fallido deja el carrito intacto.
type UseCase struct {
	txRunner      ports.TxRunner
	engine        *inventory.StockEngine
	clientRepo    repository.ClientRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	cartRepo      repository.CartRepository
}

// NewUseCase construye el caso de uso del portal.
func NewUseCase(
	txRunner ports.TxRunner,
	engine *inventory.StockEngine,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	cartRepo repository.CartRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		engine:        engine,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		cartRepo:      cartRepo,
	}
}

// GetCart devuelve el carrito del cliente, creándolo vacío si no existe.
func (uc *UseCase) GetCart(ctx context.Context, clientID string) (*dto.CartResponse, error) {
	if err := uc.checkClient(clientID); err != nil {
		return nil, err
	}
	cart, err := uc.cartRepo.GetOrCreate(clientID)
	if err != nil {
		return nil, err
	}
	items, err := uc.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CartResponse{CartID: cart.ID, ClientID: clientID}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return resp, nil
}

// AddItem agrega un producto al carrito del cliente.
func (uc *UseCase) AddItem(ctx context.Context, clientID string, in dto.AddCartItemRequest) error {
	if in.ProductID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if err := uc.checkClient(clientID); err != nil {
		return err
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.Active {
		return domain.ErrNotFound
	}
	cart, err := uc.cartRepo.GetOrCreate(clientID)
	if err != nil {
		return err
	}
	return uc.cartRepo.AddItem(&entity.CartItem{
		ID:        uuid.New().String(),
		CartID:    cart.ID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
}

// Checkout convierte el carrito en una venta y lo vacía, todo en una
// transacción: carrito bloqueado, líneas y productos bloqueados, precio
// re-derivado del producto, venta creada con salida de stock por línea.
func (uc *UseCase) Checkout(ctx context.Context, clientID string) (*dto.SaleResponse, error) {
	if err := uc.checkClient(clientID); err != nil {
		return nil, err
	}
	warehouse, err := uc.warehouseRepo.GetDefault()
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	saleID := uuid.New().String()
	reference := "VENTA " + saleID
	var sale *entity.Sale

	err = uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		cart, err := r.Carts.GetForUpdate(clientID)
		if err != nil {
			return err
		}
		if cart == nil {
			return fmt.Errorf("%w: el carrito está vacío", domain.ErrInvalidInput)
		}
		cartItems, err := r.Carts.ListItemsForUpdate(cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return fmt.Errorf("%w: el carrito está vacío", domain.ErrInvalidInput)
		}
		// Mismo orden de bloqueo ascendente que ventas y transferencias.
		sort.Slice(cartItems, func(i, j int) bool { return cartItems[i].ProductID < cartItems[j].ProductID })

		var total decimal.Decimal
		items := make([]*entity.SaleItem, 0, len(cartItems))
		for _, ci := range cartItems {
			// Precio autoritativo: siempre el del producto, bajo bloqueo.
			product, err := r.Products.GetForUpdate(ci.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.Active {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, ci.ProductID)
			}
			if err := r.Inventory.Ensure(ci.ProductID, warehouse.ID); err != nil {
				return err
			}
			rec, err := r.Inventory.GetForUpdate(ci.ProductID, warehouse.ID)
			if err != nil {
				return err
			}
			if rec.Available < ci.Quantity {
				return fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, ci.ProductID)
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(ci.Quantity))
			total = total.Add(subtotal)
			items = append(items, &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
		}

		sale = &entity.Sale{
			ID:             saleID,
			ClientID:       clientID,
			WarehouseID:    warehouse.ID,
			Date:           now,
			Total:          total,
			Discount:       decimal.Zero,
			Taxes:          decimal.Zero,
			Net:            total,
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
			err := uc.engine.RemoveStock(r, inventory.StockInput{
				ProductID:   item.ProductID,
				WarehouseID: warehouse.ID,
				Quantity:    item.Quantity,
				Reason:      "venta",
				Reference:   reference,
			})
			if err != nil {
				return err
			}
		}
		return r.Carts.Clear(cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.SaleResponse{
		ID:             sale.ID,
		ClientID:       sale.ClientID,
		WarehouseID:    sale.WarehouseID,
		Date:           sale.Date,
		Total:          sale.Total,
		Discount:       sale.Discount,
		Taxes:          sale.Taxes,
		Net:            sale.Net,
		PaymentStatus:  sale.PaymentStatus,
		DeliveryStatus: sale.DeliveryStatus,
	}, nil
}

func (uc *UseCase) checkClient(clientID string) error {
	if clientID == "" {
		return domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	return nil
}
