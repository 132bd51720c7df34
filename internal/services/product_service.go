// Package services – ProductService
//
// This file implements ProductService, which manages the tracked product
// registry. It validates and normalizes names and external ids, enforces
// ownership for writes, and coordinates repository operations. Listing is
// open to anonymous callers (shared read-only dashboard) but capped.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
	"github.com/tbourn/go-rank-tracker/internal/repo"
)

// AnonymousListCap bounds the product list served to anonymous callers.
const AnonymousListCap = 100

// ProductRepo defines the repository contract required by ProductService.
type ProductRepo interface {
	CreateProduct(ctx context.Context, db *gorm.DB, userID, externalID, name string, order int) (*domain.Product, error)
	GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Product, error)
	CountProducts(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	UpdateProduct(ctx context.Context, db *gorm.DB, id string, patch repo.ProductPatch) error
	DeleteProduct(ctx context.Context, db *gorm.DB, id string) error
	NextProductOrder(ctx context.Context, db *gorm.DB, userID string) (int, error)
	CountRankSamples(ctx context.Context, db *gorm.DB, productIDs []string) (map[string]int64, error)

	ProductsStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error)
	KeywordsCount(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	RankSamplesCount(ctx context.Context, db *gorm.DB, userID string) (int64, error)
}

// ProductUpdate carries the optional fields of an update request.
type ProductUpdate struct {
	Name       *string
	ExternalID *string
	Order      *int
}

// ProductService provides product-level operations.
type ProductService struct {
	DB   *gorm.DB
	Repo ProductRepo

	// NameMaxLen caps stored names by rune length.
	NameMaxLen int
	// ExternalIDMaxLen caps external ids by rune length.
	ExternalIDMaxLen int
}

// NewProductService constructs a ProductService with default limits.
func NewProductService(db *gorm.DB, r ProductRepo) *ProductService {
	return &ProductService{
		DB:               db,
		Repo:             r,
		NameMaxLen:       255,
		ExternalIDMaxLen: 64,
	}
}

// Create registers a product for userID at the end of the owner's list.
func (s *ProductService) Create(ctx context.Context, userID, externalID, name string) (*domain.Product, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	externalID, name, err := s.cleanFields(externalID, name)
	if err != nil {
		return nil, err
	}
	order, err := s.Repo.NextProductOrder(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.CreateProduct(ctx, s.DB, userID, externalID, name, order)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrDuplicateProduct
	}
	return p, err
}

// ListPage returns a page of products visible to userID (all owners when
// empty) with the total count. Anonymous callers never see more than
// AnonymousListCap rows in total.
func (s *ProductService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountProducts(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if userID == "" && total > AnonymousListCap {
		total = AnonymousListCap
	}
	if total == 0 || int64(offset) >= total {
		return []domain.Product{}, total, nil
	}
	if remaining := int(total) - offset; pageSize > remaining {
		pageSize = remaining
	}

	items, err := s.Repo.ListProducts(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// SampleCounts returns the number of stored rank samples per product.
func (s *ProductService) SampleCounts(ctx context.Context, products []domain.Product) (map[string]int64, error) {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return s.Repo.CountRankSamples(ctx, s.DB, ids)
}

// Fingerprint summarizes everything the product list of userID shows:
// product count and latest update, keyword count, and history size. Any
// product, keyword or refresh change alters it.
func (s *ProductService) Fingerprint(ctx context.Context, userID string) (string, error) {
	n, latest, err := s.Repo.ProductsStats(ctx, s.DB, userID)
	if err != nil {
		return "", err
	}
	kws, err := s.Repo.KeywordsCount(ctx, s.DB, userID)
	if err != nil {
		return "", err
	}
	samples, err := s.Repo.RankSamplesCount(ctx, s.DB, userID)
	if err != nil {
		return "", err
	}
	var ts int64
	if latest != nil {
		ts = latest.UnixNano()
	}
	return fmt.Sprintf("products:%s:%d:%d:%d:%d", userID, n, ts, kws, samples), nil
}

// Get returns one product by internal id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.Repo.GetProduct(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// Update applies upd to product id after checking that userID owns it.
func (s *ProductService) Update(ctx context.Context, userID, id string, upd ProductUpdate) (*domain.Product, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	var patch repo.ProductPatch
	if upd.Name != nil {
		name := clip(normalizeText(*upd.Name), s.NameMaxLen)
		if name == "" {
			return nil, ErrInvalidInput
		}
		patch.Name = &name
	}
	if upd.ExternalID != nil {
		ext := strings.TrimSpace(*upd.ExternalID)
		if ext == "" || (s.ExternalIDMaxLen > 0 && len([]rune(ext)) > s.ExternalIDMaxLen) {
			return nil, ErrInvalidInput
		}
		patch.ExternalID = &ext
	}
	patch.Order = upd.Order

	if err := s.Repo.UpdateProduct(ctx, s.DB, id, patch); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateProduct
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes product id with its keywords and history.
func (s *ProductService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	err := s.Repo.DeleteProduct(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

// owned loads product id and checks that userID owns it.
func (s *ProductService) owned(ctx context.Context, userID, id string) (*domain.Product, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *ProductService) cleanFields(externalID, name string) (string, string, error) {
	externalID = strings.TrimSpace(externalID)
	name = clip(normalizeText(name), s.NameMaxLen)
	if externalID == "" || name == "" {
		return "", "", ErrInvalidInput
	}
	if s.ExternalIDMaxLen > 0 && len([]rune(externalID)) > s.ExternalIDMaxLen {
		return "", "", ErrInvalidInput
	}
	return externalID, name, nil
}
