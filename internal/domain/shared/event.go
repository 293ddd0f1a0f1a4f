package shared

import (
	"github.com/google/uuid"
)

// Event name suffixes. Loaded and written event names follow
// "<entity>.basic.loaded", "<entity>.detail.loaded" and "<entity>.written".
const (
	basicLoadedSuffix  = ".basic.loaded"
	detailLoadedSuffix = ".detail.loaded"
	writtenSuffix      = ".written"

	// GenericWrittenEventName is the envelope dispatched after every write
	GenericWrittenEventName = "entity.written"
)

// BasicLoadedEventName returns the basic loaded event name of an entity
func BasicLoadedEventName(entity string) string { return entity + basicLoadedSuffix }

// DetailLoadedEventName returns the detail loaded event name of an entity
func DetailLoadedEventName(entity string) string { return entity + detailLoadedSuffix }

// WrittenEventName returns the written event name of an entity
func WrittenEventName(entity string) string { return entity + writtenSuffix }

// NestedEvent is a node in the event tree dispatched after a read or write.
// Events returns the child events for the associations already present in the
// payload. Implementations may return nil or an empty collection when there
// are none; both mean "no children".
type NestedEvent interface {
	Name() string
	Context() TranslationContext
	Events() NestedEventCollection
}

// NestedEventCollection is an ordered list of child events
type NestedEventCollection []NestedEvent

// Flatten returns the events and all their descendants in pre-order
func (c NestedEventCollection) Flatten() []NestedEvent {
	result := make([]NestedEvent, 0, len(c))
	for _, event := range c {
		if event == nil {
			continue
		}
		result = append(result, event)
		result = append(result, event.Events().Flatten()...)
	}
	return result
}

// Names returns the names of the direct children, skipping nil entries
func (c NestedEventCollection) Names() []string {
	names := make([]string, 0, len(c))
	for _, event := range c {
		if event == nil {
			continue
		}
		names = append(names, event.Name())
	}
	return names
}

// EntityCollectionEvent is implemented by loaded events so that generic
// listeners such as the event log can inspect the payload without knowing
// the concrete entity type
type EntityCollectionEvent interface {
	NestedEvent
	EntityName() string
	Entities() []Entity
}

// LoadedEvent wraps a just-read collection. The children function inspects the
// collection and builds child events for non-empty associations.
type LoadedEvent[T Entity] struct {
	name       string
	entityName string
	collection *Collection[T]
	context    TranslationContext
	children   func(*Collection[T], TranslationContext) NestedEventCollection
}

// NewBasicLoadedEvent creates the "<entity>.basic.loaded" event
func NewBasicLoadedEvent[T Entity](
	entityName string,
	collection *Collection[T],
	ctx TranslationContext,
	children func(*Collection[T], TranslationContext) NestedEventCollection,
) *LoadedEvent[T] {
	return newLoadedEvent(BasicLoadedEventName(entityName), entityName, collection, ctx, children)
}

// NewDetailLoadedEvent creates the "<entity>.detail.loaded" event
func NewDetailLoadedEvent[T Entity](
	entityName string,
	collection *Collection[T],
	ctx TranslationContext,
	children func(*Collection[T], TranslationContext) NestedEventCollection,
) *LoadedEvent[T] {
	return newLoadedEvent(DetailLoadedEventName(entityName), entityName, collection, ctx, children)
}

func newLoadedEvent[T Entity](
	name, entityName string,
	collection *Collection[T],
	ctx TranslationContext,
	children func(*Collection[T], TranslationContext) NestedEventCollection,
) *LoadedEvent[T] {
	if collection == nil {
		collection = NewCollection[T]()
	}
	return &LoadedEvent[T]{
		name:       name,
		entityName: entityName,
		collection: collection,
		context:    ctx,
		children:   children,
	}
}

// Name returns the dispatch key
func (e *LoadedEvent[T]) Name() string { return e.name }

// EntityName returns the entity the payload belongs to
func (e *LoadedEvent[T]) EntityName() string { return e.entityName }

// Context returns the translation context of the read
func (e *LoadedEvent[T]) Context() TranslationContext { return e.context }

// Collection returns the loaded entities
func (e *LoadedEvent[T]) Collection() *Collection[T] { return e.collection }

// Entities returns the loaded entities as the Entity interface
func (e *LoadedEvent[T]) Entities() []Entity {
	result := make([]Entity, 0, e.collection.Count())
	for item := range e.collection.All() {
		result = append(result, item)
	}
	return result
}

// Events builds the child events
func (e *LoadedEvent[T]) Events() NestedEventCollection {
	if e.children == nil {
		return nil
	}
	return e.children(e.collection, e.context)
}

// AppendLoaded appends the event built by factory when the association
// collection is non-empty
func AppendLoaded[A Entity](
	events NestedEventCollection,
	assoc *Collection[A],
	ctx TranslationContext,
	factory func(*Collection[A], TranslationContext) *LoadedEvent[A],
) NestedEventCollection {
	if assoc.Count() == 0 {
		return events
	}
	return append(events, factory(assoc, ctx))
}

// WriteOperation identifies the kind of write that produced a change
type WriteOperation string

const (
	OperationInsert WriteOperation = "insert"
	OperationUpdate WriteOperation = "update"
	OperationUpsert WriteOperation = "upsert"
)

// ChangeRecord describes the change applied to one entity
type ChangeRecord struct {
	UUID      uuid.UUID
	Operation WriteOperation
	Payload   any
}

// WrittenEvent is the typed result of a create, update or upsert
type WrittenEvent struct {
	entityName string
	records    []ChangeRecord
	context    TranslationContext
}

// NewWrittenEvent creates the "<entity>.written" event
func NewWrittenEvent(entityName string, records []ChangeRecord, ctx TranslationContext) *WrittenEvent {
	return &WrittenEvent{
		entityName: entityName,
		records:    records,
		context:    ctx,
	}
}

// Name returns the dispatch key
func (e *WrittenEvent) Name() string { return WrittenEventName(e.entityName) }

// EntityName returns the written entity name
func (e *WrittenEvent) EntityName() string { return e.entityName }

// Context returns the translation context of the write
func (e *WrittenEvent) Context() TranslationContext { return e.context }

// Records returns the change records in write order
func (e *WrittenEvent) Records() []ChangeRecord { return e.records }

// UUIDs returns the identifiers of the affected rows
func (e *WrittenEvent) UUIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.records))
	for _, r := range e.records {
		ids = append(ids, r.UUID)
	}
	return ids
}

// Events returns nil: written events have no children
func (e *WrittenEvent) Events() NestedEventCollection { return nil }

// GenericWrittenEvent is the envelope dispatched for every write.
// Its only child is the typed written event.
type GenericWrittenEvent struct {
	written *WrittenEvent
	context TranslationContext
}

// NewGenericWrittenEvent wraps a typed written event
func NewGenericWrittenEvent(written *WrittenEvent, ctx TranslationContext) *GenericWrittenEvent {
	return &GenericWrittenEvent{written: written, context: ctx}
}

// Name returns the dispatch key
func (e *GenericWrittenEvent) Name() string { return GenericWrittenEventName }

// Context returns the translation context of the write
func (e *GenericWrittenEvent) Context() TranslationContext { return e.context }

// Written returns the wrapped typed event
func (e *GenericWrittenEvent) Written() *WrittenEvent { return e.written }

// Events returns the typed written event
func (e *GenericWrittenEvent) Events() NestedEventCollection {
	if e.written == nil {
		return NestedEventCollection{}
	}
	return NestedEventCollection{e.written}
}
