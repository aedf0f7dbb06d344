package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/resolve"
)

func verbNamed(t *testing.T, name string) lookupVerb {
	t.Helper()
	for _, v := range lookupVerbs {
		if v.name == name {
			return v
		}
	}
	t.Fatalf("No verb %q", name)
	return lookupVerb{}
}

func found(tasks ...models.Task) *resolve.Result {
	return &resolve.Result{Outcome: resolve.Found, Tasks: tasks}
}

func TestLookupVerbWrite(t *testing.T) {
	deploy := models.Task{ID: 5, UUID: "0b0d4a57-7ab5-4c5e-9a2e-3b1f3c1a9f10", Project: "work.infra", Label: "deploy", Tags: []string{"urgent"}}
	done := models.Task{ID: 0, UUID: "1c2d3e4f-0000-4000-8000-000000000006", Project: "home", Label: "dishes"}

	tests := []struct {
		verb string
		res  *resolve.Result
		want string
	}{
		{"taskid", found(deploy), "5\n"},
		{"taskids", found(deploy, done), "5\n0\n"},
		{"taskuuid", found(deploy), deploy.UUID + "\n"},
		{"taskfqls", found(deploy, done), "work/infra/deploy\nhome/dishes\n"},
		{"tasklabel", found(deploy), "deploy\n"},
		{"timewtags", found(deploy), "work/ work/infra/ work/infra/deploy +urgent\n"},
		{"taskuuid", &resolve.Result{Outcome: resolve.NotFound}, resolve.NoMatchUUID.String() + "\n"},
		{"taskuuids", &resolve.Result{Outcome: resolve.Ambiguous}, resolve.AmbiguousUUID.String() + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			var buf bytes.Buffer
			if err := verbNamed(t, tt.verb).write(&buf, tt.res, nil); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestLookupVerbFailures(t *testing.T) {
	var buf bytes.Buffer

	err := verbNamed(t, "taskid").write(&buf, &resolve.Result{Outcome: resolve.NotFound}, []string{"nothing"})
	if err == nil || !strings.Contains(err.Error(), "no task matches") {
		t.Errorf("Expected not-found error, got %v", err)
	}

	err = verbNamed(t, "tasklabel").write(&buf, found(models.Task{UUID: "u"}), nil)
	if err == nil || !strings.Contains(err.Error(), "no label") {
		t.Errorf("Expected missing label error, got %v", err)
	}

	flagZero = true
	defer func() { flagZero = false }()
	buf.Reset()
	if err := verbNamed(t, "taskfql").write(&buf, &resolve.Result{Outcome: resolve.NotFound}, nil); err != nil {
		t.Fatalf("write with --zero failed: %v", err)
	}
	if buf.String() != resolve.NoMatchUUID.String()+"\n" {
		t.Errorf("Expected sentinel with --zero, got %q", buf.String())
	}
}

func TestFormatIDStrings(t *testing.T) {
	task := &models.Task{ID: 0, UUID: "1c2d3e4f-0000-4000-8000-000000000006"}

	if got, _ := formatID(task); got != "0" {
		t.Errorf("Expected 0, got %q", got)
	}
	flagIDStrings = true
	defer func() { flagIDStrings = false }()
	if got, _ := formatID(task); got != task.UUID {
		t.Errorf("Expected uuid with --idstrings, got %q", got)
	}
	if got, _ := formatID(&models.Task{ID: 7, UUID: "x"}); got != "7" {
		t.Errorf("Expected integer id to win, got %q", got)
	}
}

func TestWriteTasksJSON(t *testing.T) {
	var buf bytes.Buffer
	deploy := models.Task{ID: 5, UUID: "0b0d4a57-7ab5-4c5e-9a2e-3b1f3c1a9f10", Label: "deploy"}

	if err := writeTasksJSON(&buf, found(deploy), nil); err != nil {
		t.Fatalf("writeTasksJSON failed: %v", err)
	}
	var tasks []models.Task
	if err := json.Unmarshal(buf.Bytes(), &tasks); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, buf.String())
	}
	if len(tasks) != 1 || tasks[0].Label != "deploy" {
		t.Errorf("Unexpected tasks %+v", tasks)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("Expected indented output")
	}

	if err := writeTasksJSON(&buf, &resolve.Result{Outcome: resolve.NotFound}, []string{"x"}); err == nil {
		t.Error("Expected an error for no match")
	}
}
