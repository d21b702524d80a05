package cache

import (
	"testing"

	"fitcoach/assistant-app/internal/domain"
)

func TestPutGet(t *testing.T) {
	c := New()
	if _, ok := c.Get("male_18_30_week1_day1"); ok {
		t.Error("empty cache should miss")
	}

	plan := &domain.PlanRecord{Key: "male_18_30_week1_day1", Name: "Push Day"}
	c.Put(plan.Key, plan)

	got, ok := c.Get(plan.Key)
	if !ok || got.Name != "Push Day" {
		t.Errorf("got %v/%t, want Push Day", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestReplaceSwapsWholesale(t *testing.T) {
	c := New()
	c.Put("stale", &domain.PlanRecord{Key: "stale"})

	c.Replace(map[string]*domain.PlanRecord{
		"fresh1": {Key: "fresh1"},
		"fresh2": {Key: "fresh2"},
	})

	if _, ok := c.Get("stale"); ok {
		t.Error("stale entry survived replace")
	}
	if _, ok := c.Get("fresh1"); !ok {
		t.Error("fresh entry missing after replace")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestReplaceNil(t *testing.T) {
	c := New()
	c.Put("k", &domain.PlanRecord{Key: "k"})
	c.Replace(nil)
	if c.Len() != 0 {
		t.Errorf("len = %d, want 0 after nil replace", c.Len())
	}
}
