// Package fakemongo is an in-memory store.Backend used in tests, standing in
// for a live MongoDB so C3's transactional rename/move/delete semantics can
// be exercised without a database connection, following the in-memory fake
// pattern dphaener-conduit uses for its redis cache in tests.
package fakemongo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/treerest/treerest/store"
)

// Backend is a sync.Mutex-guarded map of documents keyed by id. All writes within a
// single BulkWrite call are applied atomically from the caller's
// perspective: either every op applies, or none do.
type Backend struct {
	mu      sync.Mutex
	docs    map[string]bson.M
	nextSeq int
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{docs: make(map[string]bson.M)}
}

func cloneDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func matches(doc bson.M, filter bson.M) bool {
	for k, v := range filter {
		if k == "$or" {
			clauses, _ := v.(bson.A)
			ok := false
			for _, c := range clauses {
				clause, isMap := c.(bson.M)
				if isMap && matches(doc, clause) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
			continue
		}
		if sub, ok := v.(bson.M); ok {
			if !matchesOperator(doc[k], sub) {
				return false
			}
			continue
		}
		if docVal, ok := doc[k]; !ok || docVal != v {
			return false
		}
	}
	return true
}

func matchesOperator(docVal any, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$in":
			items, _ := arg.(bson.A)
			found := false
			for _, item := range items {
				if item == docVal {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			present := docVal != nil
			if want != present {
				return false
			}
		case "$regex":
			pattern, _ := arg.(string)
			s, _ := docVal.(string)
			prefix := strings.TrimPrefix(pattern, "^")
			if !strings.HasPrefix(s, unescapeRegexLiteral(prefix)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// unescapeRegexLiteral strips the backslash escaping store.regexpEscape adds,
// since the fake only ever receives literal prefixes from this package.
func unescapeRegexLiteral(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (b *Backend) docList() []bson.M {
	out := make([]bson.M, 0, len(b.docs))
	for _, d := range b.docs {
		out = append(out, d)
	}
	return out
}

func applySort(docs []bson.M, sort_ bson.D) {
	if len(sort_) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, s := range sort_ {
			vi := fmt.Sprint(docs[i][s.Key])
			vj := fmt.Sprint(docs[j][s.Key])
			if vi == vj {
				continue
			}
			dir, _ := s.Value.(int)
			if dir < 0 {
				return vi > vj
			}
			return vi < vj
		}
		return false
	})
}

func (b *Backend) FindOne(ctx context.Context, filter bson.M, sortSpec bson.D) (bson.M, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []bson.M
	for _, d := range b.docList() {
		if matches(d, filter) {
			matched = append(matched, d)
		}
	}
	applySort(matched, sortSpec)
	if len(matched) == 0 {
		return nil, nil
	}
	return cloneDoc(matched[0]), nil
}

func (b *Backend) Find(ctx context.Context, filter bson.M, sortSpec bson.D) ([]bson.M, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []bson.M
	for _, d := range b.docList() {
		if matches(d, filter) {
			matched = append(matched, cloneDoc(d))
		}
	}
	applySort(matched, sortSpec)
	return matched, nil
}

func (b *Backend) FindByPathPrefix(ctx context.Context, prefix string) ([]bson.M, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []bson.M
	for _, d := range b.docList() {
		p, _ := d["path"].(string)
		if strings.HasPrefix(p, prefix) {
			matched = append(matched, cloneDoc(d))
		}
	}
	return matched, nil
}

// Aggregate supports the small subset of pipeline stages store.Children
// emits: $match, $addFields with $indexOfArray, $sort.
func (b *Backend) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	docs := b.docList()

	for _, stage := range pipeline {
		if len(stage) == 0 {
			continue
		}
		key := string(stage[0].Key)
		val := stage[0].Value
		switch key {
		case "$match":
			filter, _ := val.(bson.M)
			var out []bson.M
			for _, d := range docs {
				if matches(d, filter) {
					out = append(out, cloneDoc(d))
				}
			}
			docs = out
		case "$addFields":
			fields, _ := val.(bson.M)
			for _, d := range docs {
				for fieldName, expr := range fields {
					d[fieldName] = evalIndexOfArray(d, expr)
				}
			}
		case "$sort":
			spec, _ := val.(bson.M)
			var sortSpec bson.D
			for k, v := range spec {
				sortSpec = append(sortSpec, bson.E{Key: k, Value: v})
			}
			sort.SliceStable(docs, func(i, j int) bool {
				for _, s := range sortSpec {
					vi := toInt(docs[i][s.Key])
					vj := toInt(docs[j][s.Key])
					if vi != vj {
						dir, _ := s.Value.(int)
						if dir < 0 {
							return vi > vj
						}
						return vi < vj
					}
				}
				return false
			})
		}
	}
	return docs, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	}
	return 0
}

func evalIndexOfArray(doc bson.M, expr any) int {
	m, ok := expr.(bson.M)
	if !ok {
		return -1
	}
	spec, ok := m["$indexOfArray"].(bson.A)
	if !ok || len(spec) != 2 {
		return -1
	}
	arr, _ := spec[0].(bson.A)
	fieldRef, _ := spec[1].(string)
	fieldRef = strings.TrimPrefix(fieldRef, "$")
	target := doc[fieldRef]
	for i, v := range arr {
		if v == target {
			return i
		}
	}
	return -1
}

// BulkWrite applies every op against a snapshot copy of the store, committing
// only if every op succeeds, approximating the real backend's one-session
// transaction.
func (b *Backend) BulkWrite(ctx context.Context, ops []store.WriteOp) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make(map[string]bson.M, len(b.docs))
	for k, v := range b.docs {
		snapshot[k] = cloneDoc(v)
	}

	for _, op := range ops {
		if err := b.applyOp(snapshot, op); err != nil {
			return err
		}
	}

	b.docs = snapshot
	return nil
}

func (b *Backend) applyOp(docs map[string]bson.M, op store.WriteOp) error {
	switch op.Kind {
	case store.OpInsert:
		doc, err := toBSONMap(op.Doc)
		if err != nil {
			return err
		}
		id, _ := doc["_id"].(string)
		if id == "" {
			b.nextSeq++
			id = "fake-" + strconv.Itoa(b.nextSeq)
			doc["_id"] = id
		}
		for _, d := range docs {
			if d["path"] == doc["path"] && d["slug"] == doc["slug"] && doc["slug"] != nil {
				return fmt.Errorf("fakemongo: duplicate key (path=%v, slug=%v): %w", doc["path"], doc["slug"], store.ErrDuplicate)
			}
		}
		docs[id] = doc

	case store.OpUpdateByID:
		d, ok := docs[op.ID]
		if !ok {
			return fmt.Errorf("fakemongo: update: no document with id %q", op.ID)
		}
		for k, v := range op.Set {
			d[k] = v
		}

	case store.OpDeleteByID:
		delete(docs, op.ID)

	case store.OpDeleteByPathPrefix:
		for id, d := range docs {
			p, _ := d["path"].(string)
			if strings.HasPrefix(p, op.PathPrefix) {
				delete(docs, id)
			}
		}

	default:
		return fmt.Errorf("fakemongo: unknown write op kind %d", op.Kind)
	}
	return nil
}

func toBSONMap(v any) (bson.M, error) {
	if m, ok := v.(bson.M); ok {
		return cloneDoc(m), nil
	}
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Backend) EnsureIndexes(ctx context.Context) error {
	return nil
}
