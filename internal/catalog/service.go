package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/jsonstore"
)

// ErrValidation is wrapped by every input validation failure.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyName    = fmt.Errorf("%w: product name is required", ErrValidation)
	ErrInvalidPrice = fmt.Errorf("%w: price must not be negative", ErrValidation)
	// ErrInvalidName is returned for names the PUT /products/:name route could not address.
	ErrInvalidName = fmt.Errorf("%w: product name must not contain '/'", ErrValidation)
)

// ErrNotFound is returned when no product matches the given name.
var ErrNotFound = errors.New("product not found")

// ErrDuplicateName is returned when a product with the same name already exists.
var ErrDuplicateName = errors.New("product name already exists")

// Service owns the product catalog.
type Service struct {
	storage jsonstore.Storage[Product]
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage jsonstore.Storage[Product], logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Load returns the catalog in insertion order.
func (s *Service) Load() ([]Product, error) {
	products, err := s.storage.GetAll()
	if err != nil {
		s.logger.Error("failed to load catalog", zap.Error(err))
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return products, nil
}

// List returns the catalog numbered from 1.
func (s *Service) List() ([]Entry, error) {
	products, err := s.Load()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(products))
	for i, p := range products {
		entries = append(entries, Entry{Position: i + 1, Product: p})
	}
	return entries, nil
}

// Add appends a new product and persists the catalog.
func (s *Service) Add(name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, price); err != nil {
		return nil, err
	}

	product := Product{Name: name, Price: price}
	err := s.storage.Update(func(products []Product) ([]Product, error) {
		if indexOf(products, name) >= 0 {
			return nil, ErrDuplicateName
		}
		return append(products, product), nil
	})
	if err != nil {
		if !errors.Is(err, ErrDuplicateName) {
			s.logger.Error("failed to save product", zap.String("name", name), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("product added", zap.String("name", name), zap.String("price", price.StringFixed(2)))
	return &product, nil
}

// Update renames and/or reprices the product currently named originalName.
func (s *Service) Update(originalName, newName string, newPrice decimal.Decimal) (*Product, error) {
	originalName = strings.TrimSpace(originalName)
	newName = strings.TrimSpace(newName)
	if err := validate(newName, newPrice); err != nil {
		return nil, err
	}

	var updated Product
	err := s.storage.Update(func(products []Product) ([]Product, error) {
		i := indexOf(products, originalName)
		if i < 0 {
			return nil, ErrNotFound
		}
		if newName != originalName && indexOf(products, newName) >= 0 {
			return nil, ErrDuplicateName
		}

		products[i].Name = newName
		products[i].Price = newPrice
		updated = products[i]
		return products, nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDuplicateName) {
			s.logger.Error("failed to update product", zap.String("name", originalName), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("product updated",
		zap.String("original_name", originalName),
		zap.String("name", updated.Name),
		zap.String("price", updated.Price.StringFixed(2)),
	)
	return &updated, nil
}

func validate(name string, price decimal.Decimal) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.Contains(name, "/") {
		return ErrInvalidName
	}
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// indexOf returns the first product named name, or -1.
func indexOf(products []Product, name string) int {
	for i, p := range products {
		if p.Name == name {
			return i
		}
	}
	return -1
}
