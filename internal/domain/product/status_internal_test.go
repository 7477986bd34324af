package product

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/domain/maintenance"
)

func comm(outcome commissioning.Outcome, active bool) *commissioning.Commissioning {
	c := commissioning.New(id.New(), outcome)
	c.Active = active
	return c
}

func maint(typ maintenance.Type) *maintenance.Maintenance {
	return &maintenance.Maintenance{
		Record:    entity.NewRecord(),
		Name:      "event",
		ProductID: id.New(),
		Type:      typ,
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		comm   *commissioning.Commissioning
		maints []*maintenance.Maintenance
		want   Status
	}{
		{
			name: "no records",
			want: StatusAwaitingCommissioning,
		},
		{
			name: "passed commissioning",
			comm: comm(commissioning.OutcomePass, true),
			want: StatusActive,
		},
		{
			name: "failed commissioning",
			comm: comm(commissioning.OutcomeFail, true),
			want: StatusAwaitingCommissioning,
		},
		{
			name: "inactive passed commissioning",
			comm: comm(commissioning.OutcomePass, false),
			want: StatusAwaitingCommissioning,
		},
		{
			name:   "service maintenance",
			comm:   comm(commissioning.OutcomePass, true),
			maints: []*maintenance.Maintenance{maint(maintenance.TypeService)},
			want:   StatusUnderService,
		},
		{
			name:   "preventive maintenance",
			comm:   comm(commissioning.OutcomePass, true),
			maints: []*maintenance.Maintenance{maint(maintenance.TypePreventive)},
			want:   StatusInPreventive,
		},
		{
			name: "service outranks preventive",
			comm: comm(commissioning.OutcomePass, true),
			maints: []*maintenance.Maintenance{
				maint(maintenance.TypePreventive),
				maint(maintenance.TypeService),
			},
			want: StatusUnderService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveStatus(tt.comm, tt.maints))
		})
	}
}

func TestDeriveStatus_Idempotent(t *testing.T) {
	c := comm(commissioning.OutcomePass, true)
	maints := []*maintenance.Maintenance{maint(maintenance.TypePreventive)}

	first := deriveStatus(c, maints)
	assert.Equal(t, first, deriveStatus(c, maints))
}
