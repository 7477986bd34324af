package window

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecurrence_Next(t *testing.T) {
	from := date(2026, time.January, 15)

	tests := []struct {
		rec  Recurrence
		want time.Time
	}{
		{Daily, date(2026, time.January, 16)},
		{Weekly, date(2026, time.January, 22)},
		{Monthly, date(2026, time.February, 15)},
		{Quarterly, date(2026, time.April, 15)},
		{SemiAnnually, date(2026, time.July, 15)},
		{Annually, date(2027, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(string(tt.rec), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Next(from))
		})
	}
}

func TestRecurrence_Next_MonthEndNormalizes(t *testing.T) {
	// Jan 31 + one month lands in March per calendar arithmetic
	got := Monthly.Next(date(2026, time.January, 31))
	assert.Equal(t, date(2026, time.March, 3), got)
}

func TestMaintenanceWindow_Bounds(t *testing.T) {
	w := New("quarterly service", Quarterly, 5, 10)
	scheduled := date(2026, time.June, 1)

	min, max := w.Bounds(scheduled)
	assert.Equal(t, date(2026, time.May, 27), min)
	assert.Equal(t, date(2026, time.June, 11), max)
}

func TestMaintenanceWindow_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, New("monthly", Monthly, 3, 3).Validate(ctx))
	})

	t.Run("unknown recurrence", func(t *testing.T) {
		w := New("bad", Recurrence("fortnightly"), 0, 0)
		require.Error(t, w.Validate(ctx))
	})

	t.Run("negative tolerance", func(t *testing.T) {
		w := New("bad", Weekly, -1, 0)
		require.Error(t, w.Validate(ctx))
	})

	t.Run("missing name", func(t *testing.T) {
		w := New("", Weekly, 0, 0)
		require.Error(t, w.Validate(ctx))
	})
}
