// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"encoding/json"
	"strings"

	"assettrack/internal/core/apperror"
	"assettrack/internal/domain"
	"assettrack/internal/domain/filter"
)

// --- List parameters ---

// ListParams are the query parameters accepted by every list endpoint.
// Filter is a JSON-encoded []filter.Item; OrderBy is a comma-separated
// term list where a "-" prefix means descending ("-name,id").
type ListParams struct {
	Page            int    `form:"page"`
	Limit           int    `form:"limit"`
	OrderBy         string `form:"orderBy"`
	IncludeInactive bool   `form:"includeInactive"`
	CountOnly       bool   `form:"countOnly"`
	Filter          string `form:"filter"`
}

// ToQuery converts the parameters into a store query.
func (p ListParams) ToQuery() (domain.ListQuery, error) {
	q := domain.ListQuery{
		IncludeInactive: p.IncludeInactive,
		CountOnly:       p.CountOnly,
	}

	if p.Filter != "" {
		var items []filter.Item
		if err := json.Unmarshal([]byte(p.Filter), &items); err != nil {
			return q, apperror.NewValidation("invalid filter format (json expected)")
		}
		q.Filters = items
	}

	for _, term := range strings.Split(p.OrderBy, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		dir := domain.Asc
		if strings.HasPrefix(term, "-") {
			dir = domain.Desc
			term = term[1:]
		}
		q.OrderBy = append(q.OrderBy, domain.OrderBy{Field: term, Direction: dir})
	}

	if p.Page > 0 || p.Limit > 0 {
		q.Page = &domain.PageOptions{
			Paginate: true,
			Page:     p.Page,
			Limit:    p.Limit,
		}
	}
	return q, nil
}

// --- Common responses ---

// IDResponse carries a created record's identifier.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DeletedResponse reports the outcome of a soft delete. Deleted is
// false when the record was already inactive.
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}
