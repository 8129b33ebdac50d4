package sitelist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/common/utils"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
)

// Storage keys.
const (
	KeyWhitelist = "whitelist"
	KeyBlacklist = "blacklist"
)

// Key returns the storage key of a list kind.
func Key(kind domain.ListKind) string {
	if kind == domain.Blacklist {
		return KeyBlacklist
	}
	return KeyWhitelist
}

// Repository reads and writes both lists. Each list keeps an index that is
// rebuilt whenever the stored bytes change, so writes made by another
// process through the same store are picked up on the next lookup.
type Repository struct {
	store   kv.Store
	factory BloomFactory
	logger  log.Logger

	mu      sync.Mutex
	indexes map[domain.ListKind]*index
}

// New returns a Repository. A nil factory disables the Bloom pre-check,
// which otherwise applies to lists of at least BloomMinEntries entries.
func New(store kv.Store, factory BloomFactory, logger log.Logger) *Repository {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Repository{
		store:   store,
		factory: factory,
		logger:  logger,
		indexes: make(map[domain.ListKind]*index, 2),
	}
}

// load returns the index for kind, rebuilding it if the stored bytes changed.
func (r *Repository) load(ctx context.Context, kind domain.ListKind) (*index, error) {
	raw, found, err := r.store.Get(ctx, Key(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	if !found {
		raw = nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if idx := r.indexes[kind]; idx.current(raw) {
		return idx, nil
	}
	var entries []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
		}
	}
	idx := buildIndex(raw, uniqSort(entries), r.factory)
	r.indexes[kind] = idx
	r.logger.Debug(map[string]any{"list": kind.String(), "entries": len(idx.entries)}, "sitelist index rebuilt")
	return idx, nil
}

func (r *Repository) save(ctx context.Context, kind domain.ListKind, entries []string) ([]string, error) {
	entries = uniqSort(entries)
	if err := kv.PutJSON(ctx, r.store, Key(kind), entries); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", kind, err)
	}
	return entries, nil
}

// List returns one list, normalised and sorted.
func (r *Repository) List(ctx context.Context, kind domain.ListKind) ([]string, error) {
	idx, err := r.load(ctx, kind)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), idx.entries...), nil
}

// Lists returns both lists.
func (r *Repository) Lists(ctx context.Context) (Lists, error) {
	white, err := r.List(ctx, domain.Whitelist)
	if err != nil {
		return Lists{}, err
	}
	black, err := r.List(ctx, domain.Blacklist)
	if err != nil {
		return Lists{}, err
	}
	return Lists{Whitelist: white, Blacklist: black}, nil
}

// Add inserts a domain. added is false when it was already listed.
func (r *Repository) Add(ctx context.Context, kind domain.ListKind, raw string) (bool, []string, error) {
	name, err := Normalize(raw)
	if err != nil {
		return false, nil, err
	}
	list, err := r.List(ctx, kind)
	if err != nil {
		return false, nil, err
	}
	for _, e := range list {
		if e == name {
			return false, list, nil
		}
	}
	list, err = r.save(ctx, kind, append(list, name))
	if err != nil {
		return false, nil, err
	}
	return true, list, nil
}

// Remove deletes a domain. removed is false when it was not listed.
func (r *Repository) Remove(ctx context.Context, kind domain.ListKind, raw string) (bool, []string, error) {
	list, err := r.List(ctx, kind)
	if err != nil {
		return false, nil, err
	}
	name := utils.CanonicalHostname(raw)
	next := make([]string, 0, len(list))
	for _, e := range list {
		if e != name {
			next = append(next, e)
		}
	}
	if len(next) == len(list) {
		return false, list, nil
	}
	list, err = r.save(ctx, kind, next)
	if err != nil {
		return false, nil, err
	}
	return true, list, nil
}

// Import merges every valid entry of a plain list into kind and returns
// the number of new entries.
func (r *Repository) Import(ctx context.Context, kind domain.ListKind, src io.Reader) (int, []string, error) {
	parsed, err := ParseList(src, r.logger)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse list: %w", err)
	}
	list, err := r.List(ctx, kind)
	if err != nil {
		return 0, nil, err
	}
	before := len(list)
	list, err = r.save(ctx, kind, append(list, parsed...))
	if err != nil {
		return 0, nil, err
	}
	return len(list) - before, list, nil
}

// Match reports whether host equals, or is a subdomain of, a listed entry.
func (r *Repository) Match(ctx context.Context, kind domain.ListKind, host string) (bool, error) {
	idx, err := r.load(ctx, kind)
	if err != nil {
		return false, err
	}
	_, ok := idx.match(utils.CanonicalHostname(host))
	return ok, nil
}

// Enablement decides whether the tool runs on host: the blacklist wins,
// then the whitelist, then auto-detection. An unreadable list counts as
// empty.
func (r *Repository) Enablement(ctx context.Context, autoDetected bool, host string) domain.EnableResult {
	if r.matchOrWarn(ctx, domain.Blacklist, host) {
		return domain.EnableResult{Enabled: false, Reason: domain.ReasonBlacklist}
	}
	if r.matchOrWarn(ctx, domain.Whitelist, host) {
		return domain.EnableResult{Enabled: true, Reason: domain.ReasonWhitelist}
	}
	if autoDetected {
		return domain.EnableResult{Enabled: true, Reason: domain.ReasonAuto}
	}
	return domain.EnableResult{Enabled: false, Reason: domain.ReasonDisabled}
}

func (r *Repository) matchOrWarn(ctx context.Context, kind domain.ListKind, host string) bool {
	ok, err := r.Match(ctx, kind, host)
	if err != nil {
		r.logger.Warn(map[string]any{"list": kind.String(), "error": err.Error()}, "sitelist read failed, treating as empty")
		return false
	}
	return ok
}
