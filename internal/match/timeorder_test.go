package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eitanfass/DNA-lab/internal/model"
)

func TestCompareTimes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"chronological across layouts", "2024-01-02 10:00:00", "2024-01-02T09:00:00", 1},
		{"timezone aware", "2024-01-02T10:00:00+02:00", "2024-01-02T09:00:00Z", -1},
		{"equal", "2024-01-02T09:00:00", "2024-01-02T09:00:00", 0},
		{"unparsed before parsed", model.NotAvailable, "2020-01-01", -1},
		{"parsed after unparsed", "2020-01-01", model.UndatedSentinel, 1},
		{"both unparsed use string order", model.NotAvailable, model.UnknownTime, -1},
		{"us date", "03/04/2024", "2024-03-03", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareTimes(tt.a, tt.b))
		})
	}
}

func TestLatestTime(t *testing.T) {
	assert.Equal(t, "2024-05-01T00:00:00", LatestTime("2024-05-01T00:00:00", "2024-04-01T00:00:00"))
	assert.Equal(t, "2024-05-01T00:00:00", LatestTime(model.UnknownTime, "2024-05-01T00:00:00"))
	assert.Equal(t, "Unknown", LatestTime(model.NotAvailable, model.UnknownTime))
}
