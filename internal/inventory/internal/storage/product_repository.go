package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"storecatalog/internal/inventory/internal/business"
	"storecatalog/internal/inventory/internal/models"
	"storecatalog/pkg/dbconnect"
	"storecatalog/pkg/live"
	"storecatalog/pkg/logger"
)

const productColumns = "id, primary_barcode, barcodes, name, category, stock, price1, price2, price3, price4"

var productColumnList = []string{
	"id", "primary_barcode", "barcodes", "name", "category",
	"stock", "price1", "price2", "price3", "price4",
}

// ProductRepository - локальный кэш каталога в таблице products.
// Читатели видят каталог либо до, либо после ReplaceAll целиком.
type ProductRepository struct {
	db      *sql.DB
	dialect dbconnect.Dialect
	log     logger.Logger

	writeMu sync.Mutex
	version uint64
	changes *live.Feed[uint64]
	now     func() time.Time
}

func NewProductRepository(db *sql.DB, dialect dbconnect.Dialect, log logger.Logger) *ProductRepository {
	r := &ProductRepository{
		db:      db,
		dialect: dialect,
		log:     log,
		changes: live.NewFeed[uint64](),
		now:     time.Now,
	}
	r.changes.Publish(0)
	log.Log("ProductRepository successfully created (%s)", dialect.Name())
	return r
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p        models.Product
		barcodes string
	)
	err := row.Scan(&p.ID, &p.PrimaryBarcode, &barcodes, &p.Name, &p.Category,
		&p.Stock, &p.Price1, &p.Price2, &p.Price3, &p.Price4)
	if err != nil {
		return nil, err
	}
	p.Barcodes = business.FromDelimited(barcodes)
	return &p, nil
}

// GetAll - весь каталог по названию.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// GetByID возвращает (nil, nil), если товара нет.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT "+productColumns+" FROM products WHERE id = ?"), id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return p, nil
}

// FindByBarcode ищет точное совпадение с основным штрихкодом или членство в списке barcodes.
// Список оборачивается запятыми с обеих сторон, и ищется ",code,": так "5" не находит "55".
func (r *ProductRepository) FindByBarcode(ctx context.Context, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if !business.ValidBarcode(code) {
		return nil, nil
	}

	query := "SELECT " + productColumns + " FROM products WHERE primary_barcode = ? OR " +
		r.dialect.Contains("',' || barcodes || ','", "?") + " ORDER BY id LIMIT 1"
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), code, ","+code+",")
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by barcode: %w", err)
	}
	return p, nil
}

// ReplaceAll заменяет весь каталог одной транзакцией: очистка, вставка, отметка в metadata.
// При ошибке старый каталог остаётся нетронутым.
func (r *ProductRepository) ReplaceAll(ctx context.Context, products []models.Product) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	products = dedupeByID(products)
	startTime := r.now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	if r.dialect.Name() == "postgres" {
		err = r.copyProducts(ctx, tx, products)
	} else {
		err = r.upsertProducts(ctx, tx, products)
	}
	if err != nil {
		return err
	}

	if err := setMetadata(ctx, tx, r.dialect, LastSyncKey, strconv.Itoa(len(products)), r.now()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}
	r.log.Log("Replaced catalog with %d products in %v", len(products), r.now().Sub(startTime))

	r.version++
	r.changes.Publish(r.version)
	return nil
}

// copyProducts - массовая загрузка через COPY, только postgres.
func (r *ProductRepository) copyProducts(ctx context.Context, tx *sql.Tx, products []models.Product) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("products", productColumnList...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}
	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, productArgs(p)...); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy product %s: %w", p.ID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	return stmt.Close()
}

func (r *ProductRepository) upsertProducts(ctx context.Context, tx *sql.Tx, products []models.Product) error {
	query := r.dialect.Rebind(`
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			primary_barcode = EXCLUDED.primary_barcode, barcodes = EXCLUDED.barcodes,
			name = EXCLUDED.name, category = EXCLUDED.category, stock = EXCLUDED.stock,
			price1 = EXCLUDED.price1, price2 = EXCLUDED.price2,
			price3 = EXCLUDED.price3, price4 = EXCLUDED.price4`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, productArgs(p)...); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}
	return nil
}

func productArgs(p models.Product) []interface{} {
	return []interface{}{
		p.ID, p.PrimaryBarcode, business.ToDelimited(p.Barcodes), p.Name, p.Category,
		p.Stock, p.Price1, p.Price2, p.Price3, p.Price4,
	}
}

// dedupeByID: один товар на id, побеждает последнее вхождение, порядок - по первому.
func dedupeByID(products []models.Product) []models.Product {
	index := make(map[string]int, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

// ObserveAll - живой запрос GetAll: снимок сразу и заново после каждой замены каталога.
// Подписка заканчивается по Cancel, по ctx или при Close репозитория.
func (r *ProductRepository) ObserveAll(ctx context.Context) *live.Subscription[[]models.Product] {
	return observe(ctx, r, r.GetAll)
}

// ObserveByID - то же для одного товара; nil, пока товара нет в кэше.
func (r *ProductRepository) ObserveByID(ctx context.Context, id string) *live.Subscription[*models.Product] {
	return observe(ctx, r, func(ctx context.Context) (*models.Product, error) {
		return r.GetByID(ctx, id)
	})
}

func observe[T any](ctx context.Context, r *ProductRepository, query func(ctx context.Context) (T, error)) *live.Subscription[T] {
	feed := live.NewFeed[T]()
	sub := feed.Subscribe()
	changes := r.changes.Subscribe()

	go func() {
		defer changes.Cancel()
		defer feed.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Done():
				return
			case _, ok := <-changes.C():
				if !ok {
					return
				}
				v, err := query(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					r.log.Error("Live query failed: %v", err)
					continue
				}
				feed.Publish(v)
			}
		}
	}()
	return sub
}

// Close завершает все живые подписки. Само соединение закрывает владелец *sql.DB.
func (r *ProductRepository) Close() {
	r.changes.Close()
}
