package viewstate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/conceptree/pkg/cache"
	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
)

func newStore() (*Store, *cache.MemoryCache) {
	c := cache.NewMemoryCache()
	s := NewStore(c, nil, time.Hour)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, c
}

func TestCreateGet(t *testing.T) {
	ctx := context.Background()
	s, c := newStore()

	cfg := hierarchy.DefaultConfig().
		TogglePath("/A", hierarchy.Expand).
		SetTreatment(hierarchy.CatAllButFirstOccurrence, false)
	v, err := s.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(v.ID); err != nil {
		t.Errorf("id %q is not a uuid", v.ID)
	}

	// Only the differences from the default configuration are stored.
	raw, _, _ := c.Get(ctx, "view:"+v.ID)
	var stored View
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("stored view: %v", err)
	}
	if stored.Patch.ExpandAll != nil || len(stored.Patch.SpecialConceptTreatment) != 1 || len(stored.Patch.SpecificPaths) != 1 {
		t.Errorf("stored patch = %+v", stored.Patch)
	}

	got, err := s.Config(ctx, v.ID)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if got.SpecificPaths["/A"] != hierarchy.Expand || got.Treatment(hierarchy.CatAllButFirstOccurrence) {
		t.Errorf("Config = %+v", got)
	}
	if !got.Treatment(hierarchy.CatAddedCids) {
		t.Error("default treatment lost")
	}
}

func TestPut(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	v, _ := s.Create(ctx, hierarchy.DefaultConfig())
	created := v.CreatedAt
	s.now = func() time.Time { return created.Add(time.Minute) }

	updated, err := s.Put(ctx, v.ID, hierarchy.DefaultConfig().ToggleExpandAll())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !updated.CreatedAt.Equal(created) || !updated.UpdatedAt.After(created) {
		t.Errorf("timestamps = %v, %v", updated.CreatedAt, updated.UpdatedAt)
	}
	if cfg, _ := s.Config(ctx, v.ID); !cfg.ExpandAll {
		t.Error("Put did not persist expandAll")
	}

	fresh := uuid.NewString()
	if _, err := s.Put(ctx, fresh, hierarchy.DefaultConfig()); err != nil {
		t.Fatalf("Put new id: %v", err)
	}
	if _, err := s.Get(ctx, fresh); err != nil {
		t.Errorf("Get after Put: %v", err)
	}
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	tests := []struct {
		name string
		id   string
		code errs.Code
	}{
		{"unknown", uuid.NewString(), errs.ErrCodeNotFound},
		{"malformed", "../etc/passwd", errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Get(ctx, tt.id); !errs.Is(err, tt.code) {
				t.Errorf("Get(%q) = %v, want %s", tt.id, err, tt.code)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	v, _ := s.Create(ctx, hierarchy.DefaultConfig())
	if err := s.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, v.ID); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Get after Delete = %v", err)
	}
	if err := s.Delete(ctx, v.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}
