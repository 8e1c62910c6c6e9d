package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

// PartyUseCase alta y consulta de clientes y proveedores.
type PartyUseCase struct {
	clients   repository.ClientRepository
	suppliers repository.SupplierRepository
}

// NewPartyUseCase construye el caso de uso de clientes y proveedores.
func NewPartyUseCase(clients repository.ClientRepository, suppliers repository.SupplierRepository) *PartyUseCase {
	return &PartyUseCase{clients: clients, suppliers: suppliers}
}

// CreateClient da de alta un cliente.
func (uc *PartyUseCase) CreateClient(ctx context.Context, in dto.CreateClientRequest) (*entity.Client, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clients.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient obtiene un cliente.
func (uc *PartyUseCase) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.clients.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// ListClients clientes paginados.
func (uc *PartyUseCase) ListClients(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.clients.List(limit, offset)
}

// CreateSupplier da de alta un proveedor.
func (uc *PartyUseCase) CreateSupplier(ctx context.Context, in dto.CreateSupplierRequest) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.suppliers.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSupplier obtiene un proveedor.
func (uc *PartyUseCase) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.suppliers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// ListSuppliers proveedores paginados.
func (uc *PartyUseCase) ListSuppliers(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.suppliers.List(limit, offset)
}
