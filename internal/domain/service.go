// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
	"assettrack/internal/core/tx"
)

// RecordService provides the business logic shared by every entity:
// validation, lifecycle hooks, and transactional create/update/delete
// over a RecordStore. Entity services embed it and add their own rules
// through hooks or wrapper methods.
type RecordService[T entity.Validatable] struct {
	store     RecordStore[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// RecordServiceConfig configures the record service.
type RecordServiceConfig[T entity.Validatable] struct {
	Store      RecordStore[T]
	TxManager  tx.Manager
	EntityName string
}

// NewRecordService creates a new record service.
func NewRecordService[T entity.Validatable](cfg RecordServiceConfig[T]) *RecordService[T] {
	return &RecordService[T]{
		store:      cfg.Store,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *RecordService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Store exposes the underlying record store for read-side queries.
func (s *RecordService[T]) Store() RecordStore[T] {
	return s.store
}

// Tx exposes the transaction manager for composed multi-step mutations.
func (s *RecordService[T]) Tx() tx.Manager {
	return s.txManager
}

// EntityName returns the name used in error messages.
func (s *RecordService[T]) EntityName() string {
	return s.entityName
}

func (s *RecordService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	// If entity already returns structured AppError, keep it.
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *RecordService[T]) normalizeGetErr(err error, recID any) error {
	if err == nil {
		return nil
	}
	// Preserve existing AppError, but map not-found to the right entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, recID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", recID)
}

// Create validates and inserts a new record.
func (s *RecordService[T]) Create(ctx context.Context, rec T) error {
	if err := rec.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, rec); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, rec); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// After-create hooks run outside the transaction; the record exists
	// by now, failures are the hook's problem.
	_ = s.hooks.Run(ctx, AfterCreate, rec)

	return nil
}

// GetByID retrieves a record by ID.
func (s *RecordService[T]) GetByID(ctx context.Context, recID id.ID) (T, error) {
	rec, err := s.store.GetByID(ctx, recID)
	if err != nil {
		return rec, s.normalizeGetErr(err, recID.String())
	}
	return rec, nil
}

// Update validates and persists changes to an existing record.
func (s *RecordService[T]) Update(ctx context.Context, rec T) error {
	if err := rec.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, rec); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Update(ctx, rec); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.hooks.Run(ctx, AfterUpdate, rec)

	return nil
}

// Delete performs a soft delete. Returns true iff the record was
// previously active (idempotent no-op signal otherwise).
func (s *RecordService[T]) Delete(ctx context.Context, recID id.ID) (bool, error) {
	rec, err := s.store.GetByID(ctx, recID)
	if err != nil {
		return false, s.normalizeGetErr(err, recID.String())
	}

	if err := s.hooks.Run(ctx, BeforeDelete, rec); err != nil {
		return false, err
	}

	var deleted bool
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.store.SoftDelete(ctx, recID)
		if err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	_ = s.hooks.Run(ctx, AfterDelete, rec)

	return deleted, nil
}

// List retrieves records with filtering, ordering and pagination.
func (s *RecordService[T]) List(ctx context.Context, q ListQuery) (Page[T], error) {
	return s.store.List(ctx, q)
}

// Exists checks if a record exists.
func (s *RecordService[T]) Exists(ctx context.Context, recID id.ID) (bool, error) {
	return s.store.Exists(ctx, recID)
}
