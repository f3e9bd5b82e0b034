package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{name: "empty", want: 0},
		{name: "single", scores: []float64{9.5}, want: 9.5},
		{name: "exact", scores: []float64{8, 6}, want: 7},
		{name: "round half up", scores: []float64{7, 7.1}, want: 7.1},
		{name: "round down", scores: []float64{7, 7, 7.1}, want: 7},
		{name: "float noise", scores: []float64{6.3, 7.8}, want: 7.1},
		{name: "quarter", scores: []float64{7, 7.5}, want: 7.3},
		{name: "bounds", scores: []float64{0, 10}, want: 5},
		{name: "all zero", scores: []float64{0, 0, 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Average(tt.scores))
		})
	}
}

func TestGroup(t *testing.T) {
	g := Grade{ID: 3, StudentID: 1, ClassID: 2, Subject: "Algebra", Score: 8}
	assert.Equal(t, GroupKey{StudentID: 1, ClassID: 2, Subject: "Algebra"}, g.Group())

	h := g
	h.Subject = "algebra"
	assert.NotEqual(t, g.Group(), h.Group(), "subjects are case-sensitive")
}
