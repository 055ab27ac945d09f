package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		expected  int
	}{
		{"no tasks", 0, 0, 0},
		{"none completed", 0, 4, 0},
		{"half completed", 2, 4, 50},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
		{"all completed", 5, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeProgress(tt.completed, tt.total))
		})
	}
}

func TestProgressStatus(t *testing.T) {
	assert.Equal(t, MilestonePending, ProgressStatus(0))
	assert.Equal(t, MilestoneInProgress, ProgressStatus(1))
	assert.Equal(t, MilestoneInProgress, ProgressStatus(99))
	assert.Equal(t, MilestoneCompleted, ProgressStatus(100))
}
