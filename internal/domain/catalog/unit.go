package catalog

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
)

// Unit is a unit of measure (pieces, litre, kilogram)
type Unit struct {
	shared.BaseEntity
	ShortCode    string             `gorm:"column:short_code;type:varchar(20);not null" json:"shortCode" validate:"required,max=20"`
	Name         string             `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Translations []*UnitTranslation `gorm:"foreignKey:UnitUUID;references:UUID" json:"translations,omitempty" validate:"-"`
	// Translated is the translation chosen for the reading context; set by a
	// listener after loading and never persisted
	Translated   *UnitTranslation   `gorm:"-" json:"translated,omitempty" validate:"-"`
}

// DisplayName returns the translated name, or the base name without a translation
func (u *Unit) DisplayName() string {
	if u.Translated != nil {
		return u.Translated.Name
	}
	return u.Name
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "unit"
}

// UnitCollection is a collection of units
type UnitCollection = shared.Collection[*Unit]

// Translations returns the loaded translations of all units
func Translations(units *UnitCollection) *UnitTranslationCollection {
	return shared.PluckMany(units, func(u *Unit) []*UnitTranslation { return u.Translations })
}

// UnitTranslation is the localized name of a unit for one language shop
type UnitTranslation struct {
	shared.BaseEntity
	UnitUUID     uuid.UUID  `gorm:"column:unit_uuid;type:uuid;not null;uniqueIndex:idx_unit_translation_language,priority:1" json:"unitUuid" validate:"required"`
	Unit         *Unit      `gorm:"foreignKey:UnitUUID;references:UUID" json:"unit,omitempty" validate:"-"`
	LanguageUUID uuid.UUID  `gorm:"column:language_uuid;type:uuid;not null;uniqueIndex:idx_unit_translation_language,priority:2" json:"languageUuid" validate:"required"`
	Language     *shop.Shop `gorm:"foreignKey:LanguageUUID;references:UUID" json:"language,omitempty" validate:"-"`
	ShortCode    string     `gorm:"column:short_code;type:varchar(20);not null" json:"shortCode" validate:"required,max=20"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
}

// TableName returns the table name for GORM
func (UnitTranslation) TableName() string {
	return "unit_translation"
}

// UnitTranslationCollection is a collection of unit translations
type UnitTranslationCollection = shared.Collection[*UnitTranslation]

// TranslatedUnits returns the loaded units of the translations
func TranslatedUnits(translations *UnitTranslationCollection) *UnitCollection {
	return shared.Pluck(translations, func(t *UnitTranslation) (*Unit, bool) {
		return t.Unit, t.Unit != nil
	})
}

// Languages returns the loaded language shops of the translations
func Languages(translations *UnitTranslationCollection) *shop.ShopCollection {
	return shared.Pluck(translations, func(t *UnitTranslation) (*shop.Shop, bool) {
		return t.Language, t.Language != nil
	})
}
