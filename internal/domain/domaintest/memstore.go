// Package domaintest provides in-memory test doubles for the domain
// layer: a generic record store, entity repository fakes, a blob store
// and a pass-through transaction manager.
package domaintest

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
	"assettrack/internal/domain"
	"assettrack/internal/domain/filter"
)

// TxManager runs the work function directly, without any transaction.
type TxManager struct{}

func (TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Entity is satisfied by every domain entity (pointer types embedding
// entity.Record).
type Entity interface {
	entity.Validatable
	Base() *entity.Record
}

// MemStore is an in-memory domain.RecordStore. Equality filters are
// matched against `db` struct tags; other operators are not supported.
type MemStore[T Entity] struct {
	mu   sync.Mutex
	recs map[id.ID]T
	name string

	// insertion order, for deterministic listings
	order []id.ID
}

// NewMemStore creates an empty store. name is used in not-found errors.
func NewMemStore[T Entity](name string) *MemStore[T] {
	return &MemStore[T]{
		recs: make(map[id.ID]T),
		name: name,
	}
}

// Seed inserts records bypassing validation.
func (s *MemStore[T]) Seed(recs ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		s.put(r)
	}
}

func (s *MemStore[T]) put(r T) {
	rid := r.Base().ID
	if _, ok := s.recs[rid]; !ok {
		s.order = append(s.order, rid)
	}
	s.recs[rid] = r
}

// All returns every record in insertion order, active or not.
func (s *MemStore[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.order))
	for _, rid := range s.order {
		out = append(out, s.recs[rid])
	}
	return out
}

func (s *MemStore[T]) List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []T
	for _, rid := range s.order {
		r := s.recs[rid]
		if !q.IncludeInactive && !r.Base().Active {
			continue
		}
		if matchesAll(r, q.Filters) {
			docs = append(docs, r)
		}
	}
	sortDocs(docs, q.OrderBy)

	page := domain.Page[T]{Docs: docs, TotalDocs: int64(len(docs))}
	if q.CountOnly {
		page.Docs = nil
		return page, nil
	}
	if q.Page != nil && q.Page.Paginate {
		page.Page = q.Page.Page
		page.Limit = q.Page.Limit
		page.TotalPages = int((page.TotalDocs + int64(q.Page.Limit) - 1) / int64(q.Page.Limit))
		start := (q.Page.Page - 1) * q.Page.Limit
		if start >= len(docs) {
			page.Docs = nil
			return page, nil
		}
		end := start + q.Page.Limit
		if end > len(docs) {
			end = len(docs)
		}
		page.Docs = docs[start:end]
	}
	return page, nil
}

func (s *MemStore[T]) GetByID(ctx context.Context, rid id.ID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recs[rid]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(s.name, rid.String())
	}
	return r, nil
}

func (s *MemStore[T]) Create(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id.IsNil(rec.Base().ID) {
		rec.Base().ID = id.New()
	}
	if _, exists := s.recs[rec.Base().ID]; exists {
		return apperror.NewDuplicate(s.name, "id", rec.Base().ID.String())
	}
	s.put(rec)
	return nil
}

func (s *MemStore[T]) Update(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.recs[rec.Base().ID]
	if !ok {
		return apperror.NewNotFound(s.name, rec.Base().ID.String())
	}
	if cur.Base().Version != rec.Base().Version {
		return apperror.NewConcurrentModification(s.name, rec.Base().ID.String())
	}
	rec.Base().Touch()
	s.put(rec)
	return nil
}

func (s *MemStore[T]) SoftDelete(ctx context.Context, rid id.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recs[rid]
	if !ok {
		return false, apperror.NewNotFound(s.name, rid.String())
	}
	if !r.Base().Active {
		return false, nil
	}
	r.Base().Deactivate()
	return true, nil
}

func (s *MemStore[T]) Exists(ctx context.Context, rid id.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.recs[rid]
	return ok, nil
}

// --- filter matching over db tags ---

func matchesAll[T any](rec T, items []filter.Item) bool {
	for _, it := range items {
		if it.Operator != filter.Equal {
			// only equality is needed by the in-memory fakes
			return false
		}
		got, ok := fieldByTag(rec, it.Field)
		if !ok || !reflect.DeepEqual(got, it.Value) {
			return false
		}
	}
	return true
}

func fieldByTag(rec any, tag string) (any, bool) {
	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return structFieldByTag(v, tag)
}

func structFieldByTag(v reflect.Value, tag string) (any, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			fv := v.Field(i)
			for fv.Kind() == reflect.Pointer {
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				if got, ok := structFieldByTag(fv, tag); ok {
					return got, true
				}
			}
			continue
		}
		if f.Tag.Get("db") == tag {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}

func sortDocs[T Entity](docs []T, terms []domain.OrderBy) {
	if len(terms) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, term := range terms {
			a, _ := fieldByTag(docs[i], term.Field)
			b, _ := fieldByTag(docs[j], term.Field)
			cmp := compareValues(a, b)
			if cmp == 0 {
				continue
			}
			if term.Direction == domain.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b any) int {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	}
	ai, aok := toInt64(a)
	bi, bok := toInt64(b)
	if aok && bok {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
	}
	return 0
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
