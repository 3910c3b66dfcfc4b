package records

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/domain/commerce"
)

// QueryService serves tenant-scoped list and detail reads over the
// synchronized commerce records. It adds no business rules of its own;
// every method binds the caller's tenant before touching a repository.
type QueryService struct {
	customers commerce.CustomerRepository
	orders    commerce.OrderRepository
	products  commerce.ProductRepository
	logger    *zap.Logger
}

// QueryOption configures a QueryService
type QueryOption func(*QueryService)

// WithQueryLogger sets the logger for the query service
func WithQueryLogger(logger *zap.Logger) QueryOption {
	return func(s *QueryService) {
		s.logger = logger
	}
}

// NewQueryService creates a new query service
func NewQueryService(
	customers commerce.CustomerRepository,
	orders commerce.OrderRepository,
	products commerce.ProductRepository,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		customers: customers,
		orders:    orders,
		products:  products,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListCustomers returns one page of the tenant's customers
func (s *QueryService) ListCustomers(ctx context.Context, tenantID uuid.UUID, req ListRequest) (*Page[CustomerResponse], error) {
	opts, err := req.QueryOptions()
	if err != nil {
		return nil, err
	}

	customers, err := s.customers.FindAllForTenant(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.CountForTenant(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, toCustomerResponse(&customers[i]))
	}
	return &Page[CustomerResponse]{Items: items, Total: total, PageNum: opts.Page, PageSize: opts.PageSize}, nil
}

// GetCustomer returns one customer belonging to the tenant
func (s *QueryService) GetCustomer(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// ListOrders returns one page of the tenant's orders
func (s *QueryService) ListOrders(ctx context.Context, tenantID uuid.UUID, req ListRequest) (*Page[OrderResponse], error) {
	opts, err := req.QueryOptions()
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindAllForTenant(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.CountForTenant(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return &Page[OrderResponse]{Items: items, Total: total, PageNum: opts.Page, PageSize: opts.PageSize}, nil
}

// GetOrder returns one order belonging to the tenant
func (s *QueryService) GetOrder(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// ListProducts returns one page of the tenant's products
func (s *QueryService) ListProducts(ctx context.Context, tenantID uuid.UUID, req ListRequest) (*Page[ProductResponse], error) {
	opts, err := req.QueryOptions()
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindAllForTenant(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.products.CountForTenant(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &Page[ProductResponse]{Items: items, Total: total, PageNum: opts.Page, PageSize: opts.PageSize}, nil
}

// GetProduct returns one product belonging to the tenant
func (s *QueryService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	return &resp, nil
}
