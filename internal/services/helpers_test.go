package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-rank-tracker/internal/domain"
	"github.com/tbourn/go-rank-tracker/internal/repo"
)

// newServiceDB opens a migrated in-memory database private to the test.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// store satisfies every repository interface of this package by delegating
// to the repo package.
type store struct{}

func (store) CreateProduct(ctx context.Context, db *gorm.DB, userID, externalID, name string, order int) (*domain.Product, error) {
	return repo.CreateProduct(ctx, db, userID, externalID, name, order)
}
func (store) GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	return repo.GetProduct(ctx, db, id)
}
func (store) FindProductByExternalID(ctx context.Context, db *gorm.DB, userID, externalID string) (*domain.Product, error) {
	return repo.FindProductByExternalID(ctx, db, userID, externalID)
}
func (store) ListProducts(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Product, error) {
	return repo.ListProducts(ctx, db, userID, offset, limit)
}
func (store) CountProducts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountProducts(ctx, db, userID)
}
func (store) UpdateProduct(ctx context.Context, db *gorm.DB, id string, patch repo.ProductPatch) error {
	return repo.UpdateProduct(ctx, db, id, patch)
}
func (store) DeleteProduct(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteProduct(ctx, db, id)
}
func (store) NextProductOrder(ctx context.Context, db *gorm.DB, userID string) (int, error) {
	return repo.NextProductOrder(ctx, db, userID)
}
func (store) CountRankSamples(ctx context.Context, db *gorm.DB, ids []string) (map[string]int64, error) {
	return repo.CountRankSamples(ctx, db, ids)
}
func (store) ProductsStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	return repo.ProductsStats(ctx, db, userID)
}
func (store) KeywordsCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.KeywordsCount(ctx, db, userID)
}
func (store) RankSamplesCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.RankSamplesCount(ctx, db, userID)
}
func (store) AddKeyword(ctx context.Context, db *gorm.DB, productID, text string) (*domain.Keyword, error) {
	return repo.AddKeyword(ctx, db, productID, text)
}
func (store) ListKeywords(ctx context.Context, db *gorm.DB, productID string) ([]domain.Keyword, error) {
	return repo.ListKeywords(ctx, db, productID)
}
func (store) DeleteKeyword(ctx context.Context, db *gorm.DB, productID, text string) error {
	return repo.DeleteKeyword(ctx, db, productID, text)
}
func (store) ReorderKeywords(ctx context.Context, db *gorm.DB, productID string, orders map[string]int) error {
	return repo.ReorderKeywords(ctx, db, productID, orders)
}
func (store) GetAPIConfig(ctx context.Context, db *gorm.DB, userID string) (*domain.APIConfig, error) {
	return repo.GetAPIConfig(ctx, db, userID)
}
func (store) GetAnyAPIConfig(ctx context.Context, db *gorm.DB) (*domain.APIConfig, error) {
	return repo.GetAnyAPIConfig(ctx, db)
}
func (store) UpsertAPIConfig(ctx context.Context, db *gorm.DB, userID, clientID, clientSecret string) (*domain.APIConfig, error) {
	return repo.UpsertAPIConfig(ctx, db, userID, clientID, clientSecret)
}
func (store) InsertRankSamples(ctx context.Context, db *gorm.DB, rows []domain.RankSample) error {
	return repo.InsertRankSamples(ctx, db, rows)
}
func (store) ListRankSamples(ctx context.Context, db *gorm.DB, productID string, since time.Time, limit int) ([]domain.RankSample, error) {
	return repo.ListRankSamples(ctx, db, productID, since, limit)
}

// seedProduct creates a product owned by userID with the given keywords.
func seedProduct(t *testing.T, db *gorm.DB, userID, externalID string, keywords ...string) *domain.Product {
	t.Helper()
	ctx := context.Background()
	order, err := repo.NextProductOrder(ctx, db, userID)
	if err != nil {
		t.Fatalf("next order: %v", err)
	}
	p, err := repo.CreateProduct(ctx, db, userID, externalID, "product "+externalID, order)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	for _, k := range keywords {
		if _, err := repo.AddKeyword(ctx, db, p.ID, k); err != nil {
			t.Fatalf("add keyword %q: %v", k, err)
		}
	}
	return p
}

func intp(v int) *int { return &v }
