// Package domain defines the persistence models for tracked products, their
// keywords, and the rank history observed for each (product, keyword) pair.
// These types are mapped with GORM and form the core data layer of the rank
// tracker.
package domain

import "time"

// Product represents a marketplace listing tracked by an owner. The
// ExternalID is the identifier the shopping search source uses for the
// listing and is what rank lookups match against.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the owning actor; (UserID, ExternalID) is unique.
//   - ExternalID: marketplace product id used to match search results.
//   - Name: display name.
//   - Order: display order for UI sorting (lower first).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - Keywords: tracked search terms, cascade-deleted with the product.
type Product struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"user_id"     gorm:"type:varchar(64);not null;index;uniqueIndex:ux_product_owner_external,priority:1"`
	ExternalID string    `json:"external_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_product_owner_external,priority:2"`
	Name       string    `json:"name"        gorm:"type:varchar(255);not null"`
	Order      int       `json:"order"       gorm:"column:display_order;not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Keywords []Keyword    `json:"keywords" gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Samples  []RankSample `json:"-"        gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// Keyword is a search term tracked for a product. A product never holds the
// same text twice (enforced by unique index).
type Keyword struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ProductID string    `json:"product_id" gorm:"type:char(36);not null;uniqueIndex:ux_keyword_product_text,priority:1"`
	Text      string    `json:"keyword"    gorm:"column:keyword;type:varchar(255);not null;uniqueIndex:ux_keyword_product_text,priority:2"`
	Order     int       `json:"order"      gorm:"column:display_order;not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Keyword.
func (Keyword) TableName() string { return "keywords" }

// RankSample is one immutable rank observation. Keyword holds a copy of the
// keyword text rather than a reference so history survives keyword deletion
// or renaming. A nil Rank means the product was not found within the searched
// depth. Rows are only ever appended; they disappear solely through the
// product cascade.
type RankSample struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ProductID string    `json:"product_id" gorm:"type:char(36);not null;index:idx_samples_product_created,priority:1"`
	Keyword   string    `json:"keyword"    gorm:"type:varchar(255);not null"`
	Rank      *int      `json:"rank"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_samples_product_created,priority:2"`
}

// TableName returns the database table name for RankSample.
func (RankSample) TableName() string { return "rank_samples" }

// APIConfig stores the shopping search credentials of one actor. The secret
// is never serialized.
type APIConfig struct {
	ID           string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID       string    `json:"user_id"   gorm:"type:varchar(64);not null;uniqueIndex"`
	ClientID     string    `json:"client_id" gorm:"type:varchar(255);not null;default:''"`
	ClientSecret string    `json:"-"         gorm:"type:varchar(255);not null;default:''"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for APIConfig.
func (APIConfig) TableName() string { return "api_configs" }

// Usable reports whether both halves of the credential are present.
func (c *APIConfig) Usable() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}
