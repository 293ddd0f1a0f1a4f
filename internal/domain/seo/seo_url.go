package seo

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// EntitySeoUrl is the entity name of SEO URLs
const EntitySeoUrl = "seo_url"

// Well-known SEO URL route names
const (
	RouteProductDetail = "detail_page"
	RouteListingPage   = "listing_page"
)

// SeoUrl maps a technical path to a readable path for one shop
type SeoUrl struct {
	shared.BaseEntity
	ShopUUID    uuid.UUID `gorm:"column:shop_uuid;type:uuid;not null;index" json:"shopUuid" validate:"required"`
	Name        string    `gorm:"type:varchar(50);not null" json:"name" validate:"required,max=50"`
	ForeignKey  uuid.UUID `gorm:"column:foreign_key;type:uuid;not null;index" json:"foreignKey" validate:"required"`
	PathInfo    string    `gorm:"column:path_info;type:varchar(500);not null" json:"pathInfo" validate:"required,startswith=/"`
	SeoPathInfo string    `gorm:"column:seo_path_info;type:varchar(500);not null" json:"seoPathInfo" validate:"required"`
	IsCanonical bool      `gorm:"column:is_canonical;not null;default:false" json:"isCanonical"`
}

// TableName returns the table name for GORM
func (SeoUrl) TableName() string {
	return "seo_url"
}

// SeoUrlCollection is a collection of SEO URLs
type SeoUrlCollection = shared.Collection[*SeoUrl]

// FilterByForeignKey returns the URLs pointing at one entity
func FilterByForeignKey(urls *SeoUrlCollection, foreignKey uuid.UUID) *SeoUrlCollection {
	return urls.Filter(func(u *SeoUrl) bool { return u.ForeignKey == foreignKey })
}

// Canonical returns the canonical URL of the collection, if any
func Canonical(urls *SeoUrlCollection) (*SeoUrl, bool) {
	for u := range urls.All() {
		if u.IsCanonical {
			return u, true
		}
	}
	return nil, false
}

// NewSeoUrlBasicLoadedEvent creates "seo_url.basic.loaded".
// SEO URLs carry no loaded associations; the child collection is empty, not nil.
func NewSeoUrlBasicLoadedEvent(urls *SeoUrlCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*SeoUrl] {
	return shared.NewBasicLoadedEvent(EntitySeoUrl, urls, ctx, func(*SeoUrlCollection, shared.TranslationContext) shared.NestedEventCollection {
		return shared.NestedEventCollection{}
	})
}
