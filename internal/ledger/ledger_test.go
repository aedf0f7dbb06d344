package ledger

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fentz26/taskwtools/internal/connectors"
	"github.com/fentz26/taskwtools/internal/models"
)

// mockConnector replays canned results and records every invocation.
type mockConnector struct {
	result *connectors.ExecResult
	calls  [][]string
}

func (m *mockConnector) Name() string {
	return "mock"
}

func (m *mockConnector) Execute(ctx context.Context, cmd string, args []string) (*connectors.ExecResult, error) {
	m.calls = append(m.calls, append([]string{cmd}, args...))
	return m.result, nil
}

func (m *mockConnector) IsAllowed(cmd string, args []string) bool {
	return true
}

func TestTimewExport(t *testing.T) {
	conn := &mockConnector{result: &connectors.ExecResult{Stdout: `[
		{"id":2,"start":"20240101T090000Z","end":"20240101T100000Z","tags":["home/dishes","home/"]},
		{"id":1,"start":"20240101T110000Z","tags":["work/","work/infra/","work/infra/deploy"]}
	]`}}
	tw := NewTimew(conn, "timew", nil)

	intervals, err := tw.Export(context.Background(), ":day", "work/")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if want := []string{"timew", "export", ":day", "work/"}; !reflect.DeepEqual(conn.calls[0], want) {
		t.Errorf("Expected call %v, got %v", want, conn.calls[0])
	}
	newest := Newest(intervals)
	if newest == nil || !newest.Active() || !newest.HasTag("work/infra/deploy") {
		t.Errorf("Unexpected newest interval: %+v", newest)
	}
}

func TestDecodeExportAssignsIDs(t *testing.T) {
	intervals, err := DecodeExport([]byte(`[{"start":"20240101T090000Z","end":"20240101T100000Z"},{"start":"20240101T110000Z"}]`))
	if err != nil {
		t.Fatalf("DecodeExport failed: %v", err)
	}
	if intervals[0].ID != 2 || intervals[1].ID != 1 {
		t.Errorf("Expected ids 2,1 got %d,%d", intervals[0].ID, intervals[1].ID)
	}
}

func TestTimewMutations(t *testing.T) {
	conn := &mockConnector{result: &connectors.ExecResult{Stdout: "Tracking work/\n"}}
	var out bytes.Buffer
	tw := NewTimew(conn, "timew", &out)
	ctx := context.Background()

	steps := []struct {
		name string
		run  func() error
		want []string
	}{
		{"start", func() error { return tw.Start(ctx, []string{"work/", "work/x"}) }, []string{"timew", "start", "work/", "work/x"}},
		{"stop", func() error { return tw.Stop(ctx) }, []string{"timew", "stop"}},
		{"continue", func() error { return tw.Continue(ctx, 3) }, []string{"timew", "continue", "@3"}},
		{"tag", func() error { return tw.Tag(ctx, 2, []string{"+urgent"}) }, []string{"timew", "tag", "@2", "+urgent"}},
		{"untag", func() error { return tw.Untag(ctx, 2, []string{"old/"}) }, []string{"timew", "untag", "@2", "old/"}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if err := step.run(); err != nil {
				t.Fatalf("%s failed: %v", step.name, err)
			}
			got := conn.calls[len(conn.calls)-1]
			if !reflect.DeepEqual(got, step.want) {
				t.Errorf("Expected %v, got %v", step.want, got)
			}
		})
	}
	if out.Len() == 0 {
		t.Error("Expected timew output to be copied to the writer")
	}
}

func TestTimewError(t *testing.T) {
	conn := &mockConnector{result: &connectors.ExecResult{ExitCode: 255, Stderr: "There is no active time tracking.\n"}}
	tw := NewTimew(conn, "timew", nil)

	err := tw.Stop(context.Background())
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if lerr.Code != 255 || lerr.Op != "stop" {
		t.Errorf("Unexpected error fields: %+v", lerr)
	}
	if lerr.Error() != "timew stop: exit 255: There is no active time tracking." {
		t.Errorf("Unexpected message %q", lerr.Error())
	}
}

func TestMemoryLedger(t *testing.T) {
	clock := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) // a Wednesday
	m := NewMemory(models.Interval{
		Start: *models.NewTime(clock.Add(-48 * time.Hour)),
		End:   models.NewTime(clock.Add(-47 * time.Hour)),
		Tags:  []string{"home/", "home/dishes"},
	})
	m.SetClock(func() time.Time { return clock })
	ctx := context.Background()

	if err := m.Stop(ctx); err == nil {
		t.Error("Expected stop to fail with nothing active")
	}

	if err := m.Start(ctx, []string{"work/", "work/deploy"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	all, _ := m.Export(ctx)
	if len(all) != 2 || all[1].ID != 1 || !all[1].Active() {
		t.Fatalf("Unexpected intervals after start: %+v", all)
	}

	today, _ := m.Export(ctx, ":day")
	if len(today) != 1 {
		t.Errorf("Expected 1 interval today, got %d", len(today))
	}
	week, _ := m.Export(ctx, ":week")
	if len(week) != 2 {
		t.Errorf("Expected 2 intervals this week, got %d", len(week))
	}

	if err := m.Continue(ctx, 2); err != nil {
		t.Fatalf("Continue failed: %v", err)
	}
	newest := Newest(m.Intervals())
	if !newest.HasTag("home/dishes") || !newest.Active() {
		t.Errorf("Continue should reopen home/dishes, got %+v", newest)
	}

	if err := m.Tag(ctx, 1, []string{"+x"}); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if err := m.Untag(ctx, 1, []string{"home/"}); err != nil {
		t.Fatalf("Untag failed: %v", err)
	}
	got, _ := m.Export(ctx, "home/dishes", "+x")
	if len(got) != 1 || got[0].HasTag("home/") {
		t.Errorf("Unexpected tagged intervals: %+v", got)
	}

	want := []string{"start work/ work/deploy", "continue @2", "tag @1 +x", "untag @1 home/"}
	if !reflect.DeepEqual(m.Ops, want) {
		t.Errorf("Ops = %v, want %v", m.Ops, want)
	}
}

func TestMemoryFailOn(t *testing.T) {
	m := NewMemory(models.Interval{Start: *models.NewTime(time.Now())})
	m.FailOn = "tag"

	err := m.Tag(context.Background(), 1, []string{"a"})
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected injected *Error, got %v", err)
	}
	if len(m.Ops) != 0 {
		t.Errorf("Failed operation should not be recorded, got %v", m.Ops)
	}
}
