package business

import (
	"context"
	"strings"

	"storecatalog/internal/inventory/internal/models"
	"storecatalog/pkg/business/service"
	"storecatalog/pkg/logger"
)

// ProductStore - чтение локального кэша каталога.
type ProductStore interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	FindByBarcode(ctx context.Context, code string) (*models.Product, error)
}

type ProductService struct {
	store ProductStore
	text  service.ITextService
	log   logger.Logger
}

func NewProductService(store ProductStore, text service.ITextService, log logger.Logger) *ProductService {
	return &ProductService{store: store, text: text, log: log}
}

// Search ищет по вхождению q в название или основной штрихкод, без учёта регистра и диакритики.
// Пустой q возвращает весь каталог в порядке названий.
func (s *ProductService) Search(ctx context.Context, q string) ([]models.Product, error) {
	products, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.Filter(products, q), nil
}

// Filter - та же фильтрация по уже прочитанному списку (живые подписки).
func (s *ProductService) Filter(products []models.Product, q string) []models.Product {
	q = s.text.CollapseSpaces(q)
	if q == "" {
		return products
	}
	needle := s.text.Fold(q)
	out := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(s.text.Fold(p.Name), needle) || strings.Contains(s.text.Fold(p.PrimaryBarcode), needle) {
			out = append(out, p)
		}
	}
	return out
}

// LookupBarcode разрешает отсканированный код. (nil, nil) - не найдено.
func (s *ProductService) LookupBarcode(ctx context.Context, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if !ValidBarcode(code) {
		s.log.Log("Rejected scanned code %q", code)
		return nil, nil
	}
	product, err := s.store.FindByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		s.log.Log("No product for barcode %s", code)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return s.store.GetByID(ctx, id)
}
