// Package viewstate persists visibility configurations under view ids.
//
// A view stores only what differs from [hierarchy.DefaultConfig], so stored
// state stays small and picks up changed defaults. Views live in any
// cache.Cache backend: a FileCache for the CLI or Redis for servers that
// share views across instances.
//
//	store := viewstate.NewStore(c, nil, cache.ViewTTL)
//	v, err := store.Create(ctx, cfg)
//	// later, possibly in another process
//	cfg, err := store.Config(ctx, v.ID)
package viewstate

import (
	"context"
	"time"

	"github.com/google/uuid"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/conceptree/pkg/cache"
	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/observability"
)

// View is a stored visibility configuration.
type View struct {
	ID        string                `json:"id"`
	Patch     hierarchy.ConfigPatch `json:"patch"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Config returns the full configuration of the view.
func (v *View) Config() hierarchy.Config {
	return v.Patch.Apply(hierarchy.DefaultConfig())
}

// Store reads and writes views.
type Store struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates a store over c. A nil keyer uses the default keyer; a ttl
// of zero keeps views forever.
func NewStore(c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Store {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Store{cache: c, keyer: keyer, ttl: ttl, now: time.Now}
}

// Create stores cfg under a new random id.
func (s *Store) Create(ctx context.Context, cfg hierarchy.Config) (*View, error) {
	now := s.now().UTC()
	v := &View{
		ID:        uuid.NewString(),
		Patch:     cfg.Diff(hierarchy.DefaultConfig()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Get loads a view. Unknown or expired ids yield a NOT_FOUND error.
func (s *Store) Get(ctx context.Context, id string) (*View, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	data, hit, err := s.cache.Get(ctx, s.keyer.ViewKey(id))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load view %s", id)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "view")
		return nil, errs.New(errs.ErrCodeNotFound, "view %s not found", id)
	}
	observability.Cache().OnCacheHit(ctx, "view")

	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "decode view %s", id)
	}
	return &v, nil
}

// Config loads the full configuration of a view.
func (s *Store) Config(ctx context.Context, id string) (hierarchy.Config, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return hierarchy.Config{}, err
	}
	return v.Config(), nil
}

// Put replaces the configuration of a view, creating it when absent.
func (s *Store) Put(ctx context.Context, id string, cfg hierarchy.Config) (*View, error) {
	v, err := s.Get(ctx, id)
	if errs.Is(err, errs.ErrCodeNotFound) {
		v = &View{ID: id, CreatedAt: s.now().UTC()}
	} else if err != nil {
		return nil, err
	}
	v.Patch = cfg.Diff(hierarchy.DefaultConfig())
	v.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a view. Deleting an unknown view is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.keyer.ViewKey(id))
}

func (s *Store) save(ctx context.Context, v *View) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode view %s", v.ID)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return s.cache.Set(ctx, s.keyer.ViewKey(v.ID), data, s.ttl)
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "store view %s", v.ID)
	}
	observability.Cache().OnCacheSet(ctx, "view", len(data))
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid view id %q", id)
	}
	return nil
}
