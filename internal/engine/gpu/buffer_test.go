package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowth(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		need     int
		want     int
		realloc  bool
	}{
		{"fits", 1024, 512, 1024, false},
		{"exact fit", 1024, 1024, 1024, false},
		{"first allocation", 0, 96, 96, true},
		{"doubles", 1024, 1100, 2048, true},
		{"large jump", 1024, 5000, 5000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, realloc := growth(tt.capacity, tt.need)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.realloc, realloc)
		})
	}
}
