package taskstore

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/taskwtools/internal/models"
)

// Memory is an in-process Store. It evaluates queries with the same
// semantics the taskwarrior adapter asks task for, and records every query
// it receives.
type Memory struct {
	tasks   []models.Task
	now     func() time.Time
	Queries []Query
}

// NewMemory returns a store holding tasks in the given order.
func NewMemory(tasks ...models.Task) *Memory {
	m := &Memory{now: time.Now}
	m.Add(tasks...)
	return m
}

// Add appends tasks to the store.
func (m *Memory) Add(tasks ...models.Task) {
	for i := range tasks {
		m.tasks = append(m.tasks, tasks[i].Clone())
	}
}

// Filter implements Store.
func (m *Memory) Filter(ctx context.Context, q Query) ([]models.Task, error) {
	m.Queries = append(m.Queries, q)

	var out []models.Task
	for i := range m.tasks {
		t := &m.tasks[i]
		ok, err := m.matches(t, q)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (m *Memory) matches(t *models.Task, q Query) (bool, error) {
	for _, c := range q.Clauses {
		ok, err := matchClause(t, c)
		if err != nil || !ok {
			return false, err
		}
	}
	for _, tag := range q.Include {
		if !m.hasTag(t, tag) {
			return false, nil
		}
	}
	for _, tag := range q.Exclude {
		if m.hasTag(t, tag) {
			return false, nil
		}
	}
	return true, nil
}

func (m *Memory) hasTag(t *models.Task, tag string) bool {
	switch tag {
	case TagWaiting:
		return t.Status == models.TaskStatusWaiting || t.Wait != nil && t.Wait.After(m.now())
	case TagBlocked:
		for _, dep := range t.Depends {
			for i := range m.tasks {
				d := &m.tasks[i]
				if d.UUID == dep && (d.Status == models.TaskStatusPending || d.Status == models.TaskStatusWaiting) {
					return true
				}
			}
		}
		return false
	}
	return t.HasTag(tag)
}

func matchClause(t *models.Task, c Clause) (bool, error) {
	var field string
	switch c.Field {
	case "id":
		if t.ID == 0 {
			return false, nil
		}
		field = strconv.Itoa(t.ID)
	case "uuid":
		field = t.UUID
	case "description":
		field = t.Description
	case "project":
		field = t.Project
	case "label":
		field = t.Label
	case "status":
		field = string(t.Status)
	default:
		return false, fmt.Errorf("unsupported field %q", c.Field)
	}

	switch c.Op {
	case OpIs:
		return field == c.Value, nil
	case OpPrefix:
		return field != "" && strings.HasPrefix(field, c.Value), nil
	case OpHas:
		return field != "" && strings.Contains(field, c.Value), nil
	case OpRegex:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", c.Value, err)
		}
		return field != "" && re.MatchString(field), nil
	}
	return false, fmt.Errorf("unsupported operator %s", c.Op)
}
