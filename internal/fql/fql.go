// Package fql derives fully-qualified labels and the ledger tags that follow
// from them.
//
// A fully-qualified label joins a task's dotted project with its label using
// slashes: project "work.infra" and label "deploy" give "work/infra/deploy".
package fql

import (
	"strings"

	"github.com/fentz26/taskwtools/internal/models"
)

// Of returns the fully-qualified label of t. The second result is false when
// the task lacks a project or a label.
func Of(t *models.Task) (string, bool) {
	if t == nil || t.Project == "" || t.Label == "" {
		return "", false
	}
	return Join(t.Project, t.Label), true
}

// Join builds a fully-qualified label from a dotted project and a label.
func Join(project, label string) string {
	return strings.ReplaceAll(project, ".", "/") + "/" + label
}

// Split is the inverse of Join: the last segment is the label and the
// remaining segments, joined by dots, are the project.
func Split(f string) (project, label string) {
	i := strings.LastIndexByte(f, '/')
	if i < 0 {
		return "", f
	}
	return strings.ReplaceAll(f[:i], "/", "."), f[i+1:]
}

// Ladder returns the hierarchical tags for f: every project prefix with a
// trailing slash, followed by f itself.
func Ladder(f string) []string {
	segs := strings.Split(f, "/")
	tags := make([]string, 0, len(segs))
	for i := 1; i < len(segs); i++ {
		tags = append(tags, strings.Join(segs[:i], "/")+"/")
	}
	return append(tags, f)
}

// SyncTags returns the ladder of f plus one "+tag" entry per task tag.
func SyncTags(f string, tags []string) []string {
	out := Ladder(f)
	for _, t := range tags {
		out = append(out, "+"+t)
	}
	return out
}

// TaskSyncTags returns the synchronization tags for t, or false when t has no
// fully-qualified label.
func TaskSyncTags(t *models.Task) ([]string, bool) {
	f, ok := Of(t)
	if !ok {
		return nil, false
	}
	return SyncTags(f, t.Tags), true
}

// Valid reports whether tag has the shape of a fully-qualified label: two or
// more non-empty slash-separated segments of lowercase letters, digits and
// hyphens. Ladder prefixes end in a slash and are therefore not valid.
func Valid(tag string) bool {
	if !strings.Contains(tag, "/") {
		return false
	}
	for _, seg := range strings.Split(tag, "/") {
		if seg == "" || strings.IndexFunc(seg, func(r rune) bool { return !IsLabelChar(r) }) >= 0 {
			return false
		}
	}
	return true
}

// Find returns every tag in tags that is a fully-qualified label.
func Find(tags []string) []string {
	var out []string
	for _, t := range tags {
		if Valid(t) {
			out = append(out, t)
		}
	}
	return out
}

// IsLabelChar reports whether r may appear in a label or label path token.
func IsLabelChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '/'
}
