package main

import (
	"testing"
	"time"

	"github.com/fentz26/taskwtools/internal/models"
)

func TestFinished(t *testing.T) {
	start := models.NewTime(time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{"pending", models.Task{Status: models.TaskStatusPending}, false},
		{"started", models.Task{Status: models.TaskStatusPending, Start: start}, false},
		{"waiting", models.Task{Status: models.TaskStatusWaiting}, false},
		{"completed", models.Task{Status: models.TaskStatusCompleted, Start: start}, true},
		{"deleted", models.Task{Status: models.TaskStatusDeleted}, true},
	}
	for _, tt := range tests {
		if got := finished(tt.task.State()); got != tt.want {
			t.Errorf("%s: finished(%s) = %v, want %v", tt.name, tt.task.State(), got, tt.want)
		}
	}
}
