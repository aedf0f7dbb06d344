package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fentz26/taskwtools/internal/ledger"
	"github.com/fentz26/taskwtools/internal/models"
)

func interval(start time.Time, ended bool, tags ...string) models.Interval {
	iv := models.Interval{Start: *models.NewTime(start), Tags: tags}
	if ended {
		iv.End = models.NewTime(start.Add(time.Hour))
	}
	return iv
}

func TestNow(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		intervals  []models.Interval
		wantFQL    string
		wantActive bool
		wantErr    error
	}{
		{
			name: "active",
			intervals: []models.Interval{
				interval(base, true, "home/", "home/dishes"),
				interval(base.Add(2*time.Hour), false, "work/", "work/infra/", "work/infra/deploy", "+urgent", "billable"),
			},
			wantFQL:    "work/infra/deploy",
			wantActive: true,
		},
		{
			name:      "stopped",
			intervals: []models.Interval{interval(base, true, "home/", "home/dishes")},
			wantFQL:   "home/dishes",
		},
		{
			name:       "ledger-only path tags ignored",
			intervals:  []models.Interval{interval(base, false, "Client/Acme", "work/", "work/infra/deploy")},
			wantFQL:    "work/infra/deploy",
			wantActive: true,
		},
		{
			name:    "empty ledger",
			wantErr: ErrNoIntervals,
		},
		{
			name:      "no label tag",
			intervals: []models.Interval{interval(base, false, "meeting", "work/")},
			wantErr:   ErrFQLTagCount,
		},
		{
			name:      "two label tags",
			intervals: []models.Interval{interval(base, false, "a/b", "c/d")},
			wantErr:   ErrFQLTagCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(ledger.NewMemory(tt.intervals...))
			cur, err := tr.Now(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Now failed: %v", err)
			}
			if cur.FQL != tt.wantFQL || cur.Active != tt.wantActive {
				t.Errorf("Now() = (%q, %v), want (%q, %v)", cur.FQL, cur.Active, tt.wantFQL, tt.wantActive)
			}
		})
	}
}

func TestNowIsCached(t *testing.T) {
	l := ledger.NewMemory(interval(time.Now().Add(-time.Hour), false, "work/", "work/x"))
	tr := New(l)
	ctx := context.Background()

	if _, err := tr.Now(ctx); err != nil {
		t.Fatalf("Now failed: %v", err)
	}
	l.FailOn = "export"
	cur, err := tr.Now(ctx)
	if err != nil {
		t.Fatalf("Second Now should be served from cache, got %v", err)
	}
	if cur.FQL != "work/x" {
		t.Errorf("Unexpected cached FQL %q", cur.FQL)
	}

	tr.Set("home/y", false)
	cur, _ = tr.Now(ctx)
	if cur.FQL != "home/y" || cur.Active {
		t.Errorf("Set not reflected: %+v", cur)
	}

	tr.Reset()
	if _, err := tr.Now(ctx); err == nil {
		t.Error("Expected ledger error after Reset")
	}
}
