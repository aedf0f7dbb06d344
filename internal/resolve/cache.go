package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fentz26/taskwtools/internal/models"
)

// Cache memoizes resolutions for the lifetime of one Resolver. It is never
// invalidated; the task store is not expected to change while a single
// command runs.
type Cache struct {
	entries map[string][]models.Task
	hits    int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]models.Task)}
}

// Get returns a private copy of the tasks stored under key.
func (c *Cache) Get(key string) ([]models.Task, bool) {
	tasks, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.hits++
	return cloneTasks(tasks), true
}

// Put stores a copy of tasks under key.
func (c *Cache) Put(key string, tasks []models.Task) {
	c.entries[key] = cloneTasks(tasks)
}

// Hits reports how many lookups were served from the cache.
func (c *Cache) Hits() int {
	return c.hits
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

// cacheKey identifies a resolution: the ordered tokens, the sorted tag
// predicates and the options that shape the lookups.
func cacheKey(tokens []string, req Request, opts Options) string {
	inc := append([]string(nil), req.Include...)
	exc := append([]string(nil), req.Exclude...)
	sort.Strings(inc)
	sort.Strings(exc)

	var b strings.Builder
	b.WriteString(strings.Join(tokens, "\x00"))
	b.WriteString("\x01")
	for _, t := range inc {
		b.WriteString("+" + t + "\x00")
	}
	for _, t := range exc {
		b.WriteString("-" + t + "\x00")
	}
	fmt.Fprintf(&b, "\x01%+v", opts)
	return b.String()
}
