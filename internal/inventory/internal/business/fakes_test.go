package business

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storecatalog/internal/inventory/internal/models"
)

type fakeStore struct {
	mu       sync.Mutex
	products []models.Product
	replaced int
	err      error
}

func (f *fakeStore) GetAll(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.Product(nil), f.products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, f.err
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, f.err
}

func (f *fakeStore) FindByBarcode(ctx context.Context, code string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.PrimaryBarcode == code || strings.Contains(","+ToDelimited(p.Barcodes)+",", ","+code+",") {
			p := p
			return &p, nil
		}
	}
	return nil, f.err
}

func (f *fakeStore) ReplaceAll(ctx context.Context, products []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.replaced++
	f.products = append([]models.Product(nil), products...)
	return nil
}

func (f *fakeStore) Replaced() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replaced
}

type fakeSource struct {
	records  []map[string]interface{}
	progress []int
	err      error
	calls    int
	mu       sync.Mutex
	// block, если задан, держит FetchAllRecords до закрытия канала.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeSource) FetchAllRecords(ctx context.Context, progress func(int)) ([]map[string]interface{}, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	for _, p := range f.progress {
		progress(p)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeHistory struct {
	last *time.Time
	err  error
}

func (f *fakeHistory) LastSync(ctx context.Context) (*time.Time, error) {
	return f.last, f.err
}
