package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all entity structs held in a Collection
type Entity interface {
	GetUUID() uuid.UUID
}

// BaseEntity provides the identifier and timestamps shared by all entities
type BaseEntity struct {
	UUID      uuid.UUID `gorm:"column:uuid;type:uuid;primaryKey" json:"uuid"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// GetUUID returns the entity identifier
func (e *BaseEntity) GetUUID() uuid.UUID {
	return e.UUID
}

// NewBaseEntity creates a new base entity with a generated UUID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		UUID:      uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewBaseEntityWithUUID creates a base entity with a caller-supplied UUID
func NewBaseEntityWithUUID(id uuid.UUID) BaseEntity {
	e := NewBaseEntity()
	e.UUID = id
	return e
}
