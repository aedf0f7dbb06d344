// Package resolve turns loosely specified task identifiers into task records.
//
// Each argument is classified (see Classify) and looked up in a fixed order of
// tiers: integer id, UUID, UUID prefix, label or label path, and finally a
// substring then regular expression search over description, label and
// project. Integer ids and UUIDs must match exactly one task; the other tiers
// simply fall through when they find nothing.
package resolve

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/taskstore"
	"github.com/fentz26/taskwtools/internal/tracker"
)

// Options tune a resolution.
type Options struct {
	// Multi returns matches for every token instead of stopping at the
	// first token that matched, and widens the description search across
	// all fields.
	Multi bool
	// One fails with an Ambiguous outcome when more than one task matched.
	One bool
	// Zero replaces an empty or ambiguous result with a sentinel pseudo-task.
	Zero bool
	// Exact compares labels and projects for equality instead of containment.
	Exact bool
	// IDOnly skips the description search.
	IDOnly bool
	// Held restricts matches to waiting tasks.
	Held bool
	// Blocked restricts matches to tasks with unfinished dependencies.
	Blocked bool
}

// descriptionFields are searched in order by the description tier.
var descriptionFields = []string{"description", "label", "project"}

// Resolver resolves identifiers against a task store. A Resolver carries its
// own cache and should live for one command invocation.
type Resolver struct {
	store   taskstore.Store
	tracker *tracker.Tracker
	cache   *Cache
}

// New returns a resolver. tr supplies the default token when a request has
// none.
func New(store taskstore.Store, tr *tracker.Tracker) *Resolver {
	return &Resolver{store: store, tracker: tr, cache: NewCache()}
}

// Cache exposes the resolver's cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve looks up the tasks named by req. With no tokens the ledger's
// current label is matched exactly. Errors are either store failures or one of the
// Err* lookup failures; an empty result is not an error.
func (r *Resolver) Resolve(ctx context.Context, req Request, opts Options) (*Result, error) {
	tokens := req.Tokens
	if len(tokens) == 0 {
		if r.tracker == nil {
			return nil, fmt.Errorf("no task given and no ledger to default from")
		}
		cur, err := r.tracker.Now(ctx)
		if err != nil {
			return nil, err
		}
		// The ledger's label is exact; containment could pick a
		// sibling such as "redeploy".
		tokens = []string{cur.FQL}
		opts.Exact = true
		opts.IDOnly = true
	}

	key := cacheKey(tokens, req, opts)
	matched, ok := r.cache.Get(key)
	if !ok {
		var err error
		matched, err = r.lookup(ctx, tokens, r.baseQuery(req, opts), opts)
		if err != nil {
			return nil, err
		}
		r.cache.Put(key, matched)
	}
	return finish(matched, opts), nil
}

func (r *Resolver) baseQuery(req Request, opts Options) taskstore.Query {
	q := taskstore.Query{
		Include: append([]string(nil), req.Include...),
		Exclude: append([]string(nil), req.Exclude...),
	}
	if opts.Held {
		q.Include = append(q.Include, taskstore.TagWaiting)
	}
	if opts.Blocked {
		q.Include = append(q.Include, taskstore.TagBlocked)
	}
	return q
}

// lookup resolves every token and merges the matches, keyed by UUID, in the
// order they were found.
func (r *Resolver) lookup(ctx context.Context, tokens []string, base taskstore.Query, opts Options) ([]models.Task, error) {
	var matched []models.Task
	seen := make(map[string]bool)

	for _, raw := range tokens {
		found, err := r.resolveToken(ctx, Classify(raw), base, opts)
		if err != nil {
			return nil, err
		}
		for _, t := range found {
			if !seen[t.UUID] {
				seen[t.UUID] = true
				matched = append(matched, t)
			}
		}
		if len(found) > 0 && !opts.Multi {
			break
		}
	}
	return matched, nil
}

// finish applies the multiplicity policy. Without Multi, several matches
// narrow to the first one found; only the description tier can produce
// them, and first-found in tier and token order is the intended tie-break.
func finish(matched []models.Task, opts Options) *Result {
	switch {
	case len(matched) == 0:
		res := &Result{Outcome: NotFound}
		if opts.Zero {
			res.Tasks = []models.Task{sentinelTask(NoMatchUUID)}
		}
		return res
	case len(matched) > 1 && opts.One:
		res := &Result{Outcome: Ambiguous}
		if opts.Zero {
			res.Tasks = []models.Task{sentinelTask(AmbiguousUUID)}
		}
		return res
	case len(matched) > 1 && !opts.Multi:
		return &Result{Outcome: Found, Tasks: matched[:1]}
	}
	return &Result{Outcome: Found, Tasks: matched}
}

func (r *Resolver) resolveToken(ctx context.Context, tok Token, base taskstore.Query, opts Options) ([]models.Task, error) {
	for _, tier := range tok.Tiers() {
		var (
			tasks []models.Task
			err   error
		)
		switch tier {
		case KindID:
			return r.unique(ctx, base.Where("id", taskstore.OpIs, strconv.Itoa(tok.ID)), tok, opts, ErrIDNotFound, ErrIDNotUnique)
		case KindUUID:
			// Sentinels fed back from an earlier lookup name no task.
			if IsSentinel(tok.Raw) {
				return nil, nil
			}
			return r.unique(ctx, base.Where("uuid", taskstore.OpIs, tok.UUID.String()), tok, opts, ErrUUIDNotFound, ErrUUIDNotUnique)
		case KindUUIDPrefix:
			tasks, err = r.store.Filter(ctx, base.Where("uuid", taskstore.OpPrefix, strings.ToLower(tok.Raw)))
		case KindLabel:
			tasks, err = r.store.Filter(ctx, base.Where("label", labelOp(opts), tok.Label))
		case KindFQL:
			tasks, err = r.byPath(ctx, tok, base, opts)
		case KindDescription:
			if opts.IDOnly {
				return nil, nil
			}
			tasks, err = r.describe(ctx, tok.Raw, base, opts)
		}
		if err != nil {
			return nil, err
		}
		if len(tasks) > 0 {
			return tasks, nil
		}
	}
	return nil, nil
}

// unique runs an exact lookup that must find one task. A miss is tolerated
// only with Multi, where the token is skipped.
func (r *Resolver) unique(ctx context.Context, q taskstore.Query, tok Token, opts Options, notFound, notUnique error) ([]models.Task, error) {
	tasks, err := r.store.Filter(ctx, q)
	if err != nil {
		return nil, err
	}
	switch {
	case len(tasks) == 0 && opts.Multi:
		return nil, nil
	case len(tasks) == 0:
		return nil, fmt.Errorf("%w: %s", notFound, tok.Raw)
	case len(tasks) > 1:
		return nil, fmt.Errorf("%w: %s", notUnique, tok.Raw)
	}
	return tasks, nil
}

func labelOp(opts Options) taskstore.Op {
	if opts.Exact {
		return taskstore.OpIs
	}
	return taskstore.OpHas
}

// byPath matches a label path on project and label. Without Exact, a path
// that names no task is retried as a dotted project name.
func (r *Resolver) byPath(ctx context.Context, tok Token, base taskstore.Query, opts Options) ([]models.Task, error) {
	op := labelOp(opts)
	tasks, err := r.store.Filter(ctx, base.Where("project", op, tok.Project).Where("label", op, tok.Label))
	if err != nil || len(tasks) > 0 || opts.Exact {
		return tasks, err
	}
	return r.store.Filter(ctx, base.Where("project", taskstore.OpHas, strings.ReplaceAll(tok.Raw, "/", ".")))
}

// describe searches description, label and project, first for the literal
// text and then, if nothing matched, as a pattern. The first field with
// matches wins unless Multi asks for all of them.
func (r *Resolver) describe(ctx context.Context, text string, base taskstore.Query, opts Options) ([]models.Task, error) {
	ops := []taskstore.Op{taskstore.OpHas}
	if _, err := regexp.Compile(text); err == nil {
		ops = append(ops, taskstore.OpRegex)
	}

	for _, op := range ops {
		var out []models.Task
		seen := make(map[string]bool)
		for _, field := range descriptionFields {
			tasks, err := r.store.Filter(ctx, base.Where(field, op, text))
			if err != nil {
				return nil, err
			}
			for _, t := range tasks {
				if !seen[t.UUID] {
					seen[t.UUID] = true
					out = append(out, t)
				}
			}
			if len(out) > 0 && !opts.Multi {
				return out, nil
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}
