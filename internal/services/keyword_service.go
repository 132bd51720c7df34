// Package services – KeywordService
//
// This file implements KeywordService, which manages the search terms
// tracked for a product. Keyword text is normalized (width folding, NFC,
// whitespace collapse) before it is stored or compared, so the unique
// (product, text) constraint sees one canonical form. Only the product owner
// may add, remove, or reorder keywords.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
	"github.com/tbourn/go-rank-tracker/internal/repo"
)

// KeywordRepo defines the repository contract required by KeywordService.
type KeywordRepo interface {
	GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error)
	AddKeyword(ctx context.Context, db *gorm.DB, productID, text string) (*domain.Keyword, error)
	ListKeywords(ctx context.Context, db *gorm.DB, productID string) ([]domain.Keyword, error)
	DeleteKeyword(ctx context.Context, db *gorm.DB, productID, text string) error
	ReorderKeywords(ctx context.Context, db *gorm.DB, productID string, orders map[string]int) error
}

// KeywordOrder assigns a display order to one keyword text.
type KeywordOrder struct {
	Keyword string
	Order   int
}

// KeywordService provides keyword-level operations.
type KeywordService struct {
	DB   *gorm.DB
	Repo KeywordRepo

	// MaxLen caps keyword length by runes.
	MaxLen int
}

// NewKeywordService constructs a KeywordService with default limits.
func NewKeywordService(db *gorm.DB, r KeywordRepo) *KeywordService {
	return &KeywordService{DB: db, Repo: r, MaxLen: 100}
}

// Add attaches text to productID.
func (s *KeywordService) Add(ctx context.Context, userID, productID, text string) (*domain.Keyword, error) {
	text, err := s.clean(text)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, userID, productID); err != nil {
		return nil, err
	}
	kw, err := s.Repo.AddKeyword(ctx, s.DB, productID, text)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrDuplicateKeyword
	}
	return kw, err
}

// Remove detaches text from productID. Recorded history stays.
func (s *KeywordService) Remove(ctx context.Context, userID, productID, text string) error {
	text, err := s.clean(text)
	if err != nil {
		return err
	}
	if err := s.checkOwner(ctx, userID, productID); err != nil {
		return err
	}
	err = s.Repo.DeleteKeyword(ctx, s.DB, productID, text)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrKeywordNotFound
	}
	return err
}

// Reorder sets display orders and returns the keywords in their new order.
func (s *KeywordService) Reorder(ctx context.Context, userID, productID string, orders []KeywordOrder) ([]domain.Keyword, error) {
	if err := s.checkOwner(ctx, userID, productID); err != nil {
		return nil, err
	}
	m := make(map[string]int, len(orders))
	for _, o := range orders {
		text, err := s.clean(o.Keyword)
		if err != nil {
			return nil, err
		}
		m[text] = o.Order
	}
	if err := s.Repo.ReorderKeywords(ctx, s.DB, productID, m); err != nil {
		return nil, err
	}
	return s.Repo.ListKeywords(ctx, s.DB, productID)
}

func (s *KeywordService) clean(text string) (string, error) {
	text = normalizeText(text)
	if text == "" {
		return "", ErrInvalidInput
	}
	if s.MaxLen > 0 && len([]rune(text)) > s.MaxLen {
		return "", ErrInvalidInput
	}
	return text, nil
}

func (s *KeywordService) checkOwner(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	p, err := s.Repo.GetProduct(ctx, s.DB, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	return nil
}
