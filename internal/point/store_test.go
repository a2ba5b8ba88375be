package point

import (
	"errors"
	"testing"
)

// TestCreate_AssignsFreshIDs verifies ids are unique and ordered.
func TestCreate_AssignsFreshIDs(t *testing.T) {
	s := NewStore(0)
	a, err := s.Create(10, 20)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := s.Create(30, 40)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %d and %d", a.ID, b.ID)
	}
	if a.Key != 0 || a.Gesture != nil {
		t.Fatalf("new point should be unbound with no gesture: %+v", a)
	}
}

// TestCreate_Limit verifies the point cap is enforced.
func TestCreate_Limit(t *testing.T) {
	s := NewStore(2)
	for i := 0; i < 2; i++ {
		if _, err := s.Create(i, i); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := s.Create(9, 9); !errors.Is(err, ErrLimit) {
		t.Fatalf("expected ErrLimit, got %v", err)
	}
}

// TestMove_UnknownID verifies NotFound on absent ids.
func TestMove_UnknownID(t *testing.T) {
	s := NewStore(0)
	if err := s.Move(42, 1, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestBindKey_StealsFromPriorHolder verifies rebinding clears the old
// holder so no two points ever share a key.
func TestBindKey_StealsFromPriorHolder(t *testing.T) {
	s := NewStore(0)
	a, _ := s.Create(0, 0)
	b, _ := s.Create(1, 1)

	if err := s.BindKey(a.ID, 0x41); err != nil {
		t.Fatalf("bind a: %v", err)
	}
	if err := s.BindKey(b.ID, 0x41); err != nil {
		t.Fatalf("bind b: %v", err)
	}

	got, ok := s.Get(a.ID)
	if !ok || got.Key != 0 {
		t.Fatalf("expected point %d unbound, got key %d", a.ID, got.Key)
	}
	got, ok = s.Get(b.ID)
	if !ok || got.Key != 0x41 {
		t.Fatalf("expected point %d bound to 0x41, got key %d", b.ID, got.Key)
	}
}

// TestBindKey_InvariantUnderChurn verifies the single-binding
// invariant across a mixed sequence of mutations.
func TestBindKey_InvariantUnderChurn(t *testing.T) {
	s := NewStore(0)
	var ids []int
	for i := 0; i < 5; i++ {
		p, _ := s.Create(i*10, i*10)
		ids = append(ids, p.ID)
	}
	keys := []uint16{0x41, 0x42, 0x41, 0x43, 0x42}
	for i, id := range ids {
		if err := s.BindKey(id, keys[i]); err != nil {
			t.Fatalf("bind %d: %v", id, err)
		}
	}
	_ = s.Delete(ids[0])
	_ = s.Move(ids[1], 5, 5)

	counts := make(map[uint16]int)
	for _, p := range s.Snapshot() {
		if p.Key != 0 {
			counts[p.Key]++
		}
	}
	for k, n := range counts {
		if n > 1 {
			t.Fatalf("key 0x%X bound to %d points", k, n)
		}
	}
}

// TestUnbindKey_NoopWhenUnbound verifies clearing an unbound point
// succeeds.
func TestUnbindKey_NoopWhenUnbound(t *testing.T) {
	s := NewStore(0)
	p, _ := s.Create(0, 0)
	if err := s.UnbindKey(p.ID); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if err := s.UnbindKey(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestDelete_RemovesPoint verifies deletion and NotFound afterwards.
func TestDelete_RemovesPoint(t *testing.T) {
	s := NewStore(0)
	p, _ := s.Create(0, 0)
	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get(p.ID); ok {
		t.Fatalf("point %d still present after delete", p.ID)
	}
	if err := s.Delete(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestSetGesture_CopiesDescriptor verifies the store never aliases
// caller-owned gesture structs.
func TestSetGesture_CopiesDescriptor(t *testing.T) {
	s := NewStore(0)
	p, _ := s.Create(0, 0)
	g := &Gesture{Kind: KindFlick, DX: 1, Distance: 100, DurationMs: 50}
	if err := s.SetGesture(p.ID, g); err != nil {
		t.Fatalf("set gesture: %v", err)
	}
	g.Distance = 999

	got, _ := s.Get(p.ID)
	if got.Gesture == nil || got.Gesture.Distance != 100 {
		t.Fatalf("gesture aliased caller memory: %+v", got.Gesture)
	}

	if err := s.SetGesture(p.ID, nil); err != nil {
		t.Fatalf("clear gesture: %v", err)
	}
	got, _ = s.Get(p.ID)
	if got.Gesture != nil {
		t.Fatalf("expected cleared gesture, got %+v", got.Gesture)
	}
}

// TestByKey_FindsBoundPoint verifies key lookup.
func TestByKey_FindsBoundPoint(t *testing.T) {
	s := NewStore(0)
	p, _ := s.Create(7, 8)
	_ = s.BindKey(p.ID, 0x20)

	got, ok := s.ByKey(0x20)
	if !ok || got.ID != p.ID {
		t.Fatalf("expected point %d, got ok=%v %+v", p.ID, ok, got)
	}
	if _, ok := s.ByKey(0x21); ok {
		t.Fatalf("expected no point for unbound key")
	}
	if _, ok := s.ByKey(0); ok {
		t.Fatalf("key 0 must never match")
	}
}

// TestSnapshot_CreationOrder verifies snapshot ordering survives
// deletion in the middle.
func TestSnapshot_CreationOrder(t *testing.T) {
	s := NewStore(0)
	a, _ := s.Create(1, 1)
	b, _ := s.Create(2, 2)
	c, _ := s.Create(3, 3)
	_ = s.Delete(b.ID)

	snap := s.Snapshot()
	if len(snap) != 2 || snap[0].ID != a.ID || snap[1].ID != c.ID {
		t.Fatalf("unexpected snapshot order: %+v", snap)
	}
}

// TestReplace_SanitizesDuplicateKeys verifies Replace reapplies the
// one-point-per-key invariant and keeps ids stable.
func TestReplace_SanitizesDuplicateKeys(t *testing.T) {
	s := NewStore(0)
	s.Replace([]TouchPoint{
		{ID: 3, X: 1, Y: 1, Key: 0x41},
		{ID: 5, X: 2, Y: 2, Key: 0x41},
	})

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 points, got %d", len(snap))
	}
	if snap[0].Key != 0x41 || snap[1].Key != 0 {
		t.Fatalf("duplicate key not sanitized: %+v", snap)
	}

	p, err := s.Create(9, 9)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID <= 5 {
		t.Fatalf("new id %d collides with loaded ids", p.ID)
	}
}
