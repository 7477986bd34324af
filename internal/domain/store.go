// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/filter"
)

// --- Query options ---

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy is one sort term. Terms apply in list order (primary,
// secondary, ...).
type OrderBy struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// PageOptions controls result pagination. When Paginate is false the
// full ordered result set is returned.
type PageOptions struct {
	Paginate bool `json:"paginate"`
	Page     int  `json:"page"`  // 1-based
	Limit    int  `json:"limit"` // page size
}

// ListQuery bundles the options accepted by RecordStore.List.
type ListQuery struct {
	// Filters are arbitrary field conditions, combined with AND.
	Filters []filter.Item

	// IncludeInactive includes soft-deleted records. By default only
	// active records are returned.
	IncludeInactive bool

	// OrderBy sort terms, applied in order.
	OrderBy []OrderBy

	// Page pagination options; nil means no pagination.
	Page *PageOptions

	// CountOnly requests the total count without fetching rows.
	CountOnly bool
}

// Page is a paginated result. For non-paginated queries Docs holds the
// full result set, TotalDocs its length, and Page/Limit/TotalPages are
// zero.
type Page[T any] struct {
	Docs       []T   `json:"docs"`
	TotalDocs  int64 `json:"totalDocs"`
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
}

// --- Record store ---

// RecordStore defines the persistence primitives shared by every
// entity. It is implemented once (storage/postgres.BaseRecordRepo) and
// consumed by composition; entity repositories embed it and add their
// read-side queries.
//
// All operations run against the transaction carried by ctx when one
// is present, otherwise against the pool directly.
type RecordStore[T entity.Validatable] interface {
	// List retrieves records matching the query. Only active records
	// are returned unless q.IncludeInactive is set.
	List(ctx context.Context, q ListQuery) (Page[T], error)

	// GetByID retrieves a record by ID (active or not).
	GetByID(ctx context.Context, id id.ID) (T, error)

	// Create inserts a new record.
	Create(ctx context.Context, rec T) error

	// Update modifies an existing record. The identifier is never part
	// of the SET list. Fails with NotFound when the identifier does not
	// exist and with ConcurrentModification on a version conflict.
	Update(ctx context.Context, rec T) error

	// SoftDelete sets active=false. Returns true iff the flag
	// transitioned, i.e. the record was previously active; deleting an
	// already-inactive record is a no-op returning false.
	SoftDelete(ctx context.Context, id id.ID) (bool, error)

	// Exists checks if a record with the given ID exists.
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, rec T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, rec T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
