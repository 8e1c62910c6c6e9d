package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/application/purchases"
)

// PurchasesHandler maneja las peticiones HTTP de compras (protegido).
type PurchasesHandler struct {
	uc *purchases.UseCase
}

// NewPurchasesHandler construye el handler de compras.
func NewPurchasesHandler(uc *purchases.UseCase) *PurchasesHandler {
	return &PurchasesHandler{uc: uc}
}

// Create godoc
// @Summary      Crear compra a proveedor
// @Description  La compra nace pendiente; el stock se suma recién al recibirla.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "supplier_id, currency, items"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchasesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchase, err := h.uc.CreatePurchase(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// Receive godoc
// @Summary      Recibir compra
// @Description  Suma el stock de cada línea y recalcula costo y precios. La
//
//	operación es idempotente: recibir dos veces no duplica stock.
//
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "ID de la compra"
// @Param        warehouse_id  query  string  false  "Bodega de recepción (vacío = por defecto)"
// @Success      200  {object}  dto.ReceivePurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchasesHandler) Receive(c *fiber.Ctx) error {
	out, err := h.uc.ReceivePurchase(c.Context(), c.Params("id"), c.Query("warehouse_id"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 50)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchasesHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListPurchases(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "purchases": list})
}

// GetItems godoc
// @Summary      Detalle de una compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {array}   entity.PurchaseItem
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/items [get]
func (h *PurchasesHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.uc.GetPurchaseItems(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(items)
}
