package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/application/portal"
)

// PortalHandler maneja el carrito y checkout del portal de clientes.
type PortalHandler struct {
	uc *portal.UseCase
}

// NewPortalHandler construye el handler del portal.
func NewPortalHandler(uc *portal.UseCase) *PortalHandler {
	return &PortalHandler{uc: uc}
}

// GetCart godoc
// @Summary      Ver el carrito de un cliente
// @Tags         portal
// @Security     Bearer
// @Produce      json
// @Param        client_id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/portal/{client_id}/cart [get]
func (h *PortalHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.uc.GetCart(c.Context(), c.Params("client_id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(cart)
}

// AddItem godoc
// @Summary      Agregar producto al carrito
// @Tags         portal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        client_id  path  string                  true  "ID del cliente"
// @Param        body       body  dto.AddCartItemRequest  true  "product_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/portal/{client_id}/cart/items [post]
func (h *PortalHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.AddItem(c.Context(), c.Params("client_id"), in); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "producto agregado al carrito"})
}

// Checkout godoc
// @Summary      Convertir el carrito en venta
// @Description  Toma los precios vigentes de cada producto, descuenta el stock
//
//	y vacía el carrito, todo en la misma transacción.
//
// @Tags         portal
// @Security     Bearer
// @Produce      json
// @Param        client_id  path  string  true  "ID del cliente"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/portal/{client_id}/checkout [post]
func (h *PortalHandler) Checkout(c *fiber.Ctx) error {
	sale, err := h.uc.Checkout(c.Context(), c.Params("client_id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}
