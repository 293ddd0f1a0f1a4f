package catalog

import (
	"cmp"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// Media is an uploaded file stored in object storage
type Media struct {
	shared.BaseEntity
	FileName   string `gorm:"type:varchar(255);not null" json:"fileName" validate:"required,max=255"`
	MimeType   string `gorm:"type:varchar(100);not null" json:"mimeType" validate:"required"`
	FileSize   int64  `gorm:"not null;default:0" json:"fileSize" validate:"gte=0"`
	StorageKey string `gorm:"type:varchar(500);not null" json:"storageKey" validate:"required"`
	// URL is resolved by a listener after loading and never persisted
	URL string `gorm:"-" json:"url,omitempty"`
}

// TableName returns the table name for GORM
func (Media) TableName() string {
	return "media"
}

// MediaCollection is a collection of media
type MediaCollection = shared.Collection[*Media]

// MediaURLGenerator produces a time-limited download URL for a storage key
type MediaURLGenerator interface {
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, error)
}

// ProductMedia assigns a media file to a product
type ProductMedia struct {
	shared.BaseEntity
	ProductUUID uuid.UUID `gorm:"column:product_uuid;type:uuid;not null;index" json:"productUuid" validate:"required"`
	MediaUUID   uuid.UUID `gorm:"column:media_uuid;type:uuid;not null" json:"mediaUuid" validate:"required"`
	Media       *Media    `gorm:"foreignKey:MediaUUID;references:UUID" json:"media,omitempty" validate:"-"`
	IsCover     bool      `gorm:"column:is_cover;not null;default:false" json:"isCover"`
	Position    int       `gorm:"not null;default:0" json:"position" validate:"gte=0"`
}

// TableName returns the table name for GORM
func (ProductMedia) TableName() string {
	return "product_media"
}

// ProductMediaCollection is a collection of product media assignments
type ProductMediaCollection = shared.Collection[*ProductMedia]

// FilterByProductUUID returns the media assignments of one product
func FilterByProductUUID(media *ProductMediaCollection, productUUID uuid.UUID) *ProductMediaCollection {
	return media.Filter(func(m *ProductMedia) bool { return m.ProductUUID == productUUID })
}

// MediaFiles returns the loaded media of the assignments
func MediaFiles(productMedia *ProductMediaCollection) *MediaCollection {
	return shared.Pluck(productMedia, func(m *ProductMedia) (*Media, bool) {
		return m.Media, m.Media != nil
	})
}

// CompareProductMedia orders cover media first, then by ascending position
func CompareProductMedia(a, b *ProductMedia) int {
	if a.IsCover != b.IsCover {
		if a.IsCover {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Position, b.Position)
}
