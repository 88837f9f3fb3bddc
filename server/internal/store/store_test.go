package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sliderstack/sliderstack/pkg/types"
)

func container(id string) types.ContainerStatus {
	return types.ContainerStatus{ContainerID: id, Component: "worker", State: 3}
}

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestLiveness_DefaultAndSet(t *testing.T) {
	st := New(5 * time.Minute)
	if got := st.Liveness(); got != (types.LivenessStatus{}) {
		t.Errorf("fresh liveness: got %+v, want zero", got)
	}
	st.SetLiveness(types.LivenessStatus{AllRequestsSatisfied: true, RequestsOutstanding: 2})
	got := st.Liveness()
	if !got.AllRequestsSatisfied || got.RequestsOutstanding != 2 {
		t.Errorf("liveness: got %+v", got)
	}
}

func TestComponents_SortedByPriorityThenName(t *testing.T) {
	st := New(5 * time.Minute)
	st.PutComponent(types.ComponentStatus{Name: "worker", Priority: 2})
	st.PutComponent(types.ComponentStatus{Name: "master", Priority: 1})
	st.PutComponent(types.ComponentStatus{Name: "backup", Priority: 2})

	got := st.Components()
	want := []string{"master", "backup", "worker"}
	if len(got) != len(want) {
		t.Fatalf("Components: got %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("Components[%d]: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestComponent_Overwrites(t *testing.T) {
	st := New(5 * time.Minute)
	st.PutComponent(types.ComponentStatus{Name: "worker", Desired: 1})
	st.PutComponent(types.ComponentStatus{Name: "worker", Desired: 4})

	c, ok := st.Component("worker")
	if !ok {
		t.Fatal("Component: expected entry after two puts")
	}
	if c.Desired != 4 {
		t.Errorf("Desired: got %d, want 4", c.Desired)
	}
	if _, ok := st.Component("missing"); ok {
		t.Error("Component(missing): expected false")
	}
}

func TestPutContainerAndGet(t *testing.T) {
	st := New(5 * time.Minute)
	if !st.PutContainer(container("c-1")) {
		t.Fatal("PutContainer: expected container to be kept")
	}

	e, ok := st.Container("c-1")
	if !ok {
		t.Fatal("Container: expected entry, got none")
	}
	if e.Container.ContainerID != "c-1" {
		t.Errorf("ContainerID: got %q, want c-1", e.Container.ContainerID)
	}
}

func TestPutContainer_ReleasedRemoves(t *testing.T) {
	st := New(5 * time.Minute)
	st.PutContainer(container("c-1"))

	released := true
	c := container("c-1")
	c.Released = &released
	if st.PutContainer(c) {
		t.Error("PutContainer(released): expected false")
	}
	if _, ok := st.Container("c-1"); ok {
		t.Error("released container still present")
	}
}

func TestPutContainer_NotReleasedKeeps(t *testing.T) {
	st := New(5 * time.Minute)
	released := false
	c := container("c-1")
	c.Released = &released
	if !st.PutContainer(c) {
		t.Error("PutContainer(released=false): expected true")
	}
}

func TestContainers_ExcludesStaleAndOrders(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute)) // stale
	st.PutContainer(container("old"))

	st.now = fixedClock(base)
	b := container("b")
	b.CreateTime = 200
	a := container("a")
	a.CreateTime = 200
	first := container("z")
	first.CreateTime = 100
	st.PutContainer(b)
	st.PutContainer(a)
	st.PutContainer(first)

	got := st.Containers()
	want := []string{"z", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Containers: got %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ContainerID != id {
			t.Errorf("Containers[%d]: got %q, want %q", i, got[i].ContainerID, id)
		}
	}
	if n := st.Count(); n != 4 {
		t.Errorf("Count: got %d, want 4", n)
	}
}

func TestEvict_RemovesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.PutContainer(container("old1"))
	st.PutContainer(container("old2"))

	st.now = fixedClock(base)
	st.PutContainer(container("live"))

	removed := st.Evict(base)
	if removed != 2 {
		t.Errorf("Evict: removed %d, want 2", removed)
	}
	if st.Count() != 1 {
		t.Errorf("Count after evict: got %d, want 1", st.Count())
	}
}

func TestEvict_NoOp_AllLive(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base)
	st.PutContainer(container("c"))

	if removed := st.Evict(base); removed != 0 {
		t.Errorf("Evict on live entry: removed %d, want 0", removed)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	st := New(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestModels(t *testing.T) {
	st := New(5 * time.Minute)
	if _, ok := st.Model("app"); ok {
		t.Fatal("Model on empty store: expected false")
	}
	st.SetModel("resolved", `{"internal":{}}`)
	st.SetModel("app", `{}`)

	doc, ok := st.Model("resolved")
	if !ok || doc != `{"internal":{}}` {
		t.Errorf("Model(resolved): got %q, %v", doc, ok)
	}
	names := st.ModelNames()
	if len(names) != 2 || names[0] != "app" || names[1] != "resolved" {
		t.Errorf("ModelNames: got %v", names)
	}
}

func TestConcurrentPuts(t *testing.T) {
	st := New(5 * time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.PutContainer(container("concurrent"))
		}()
	}
	wg.Wait()

	// Should have exactly one entry (all same container ID).
	if st.Count() != 1 {
		t.Errorf("Count after concurrent puts: got %d, want 1", st.Count())
	}
}

func TestConcurrentMixedOps(t *testing.T) {
	st := New(5 * time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			st.PutContainer(container("c-a"))
		}()
		go func() {
			defer wg.Done()
			st.PutComponent(types.ComponentStatus{Name: "worker"})
		}()
		go func() {
			defer wg.Done()
			st.Containers()
			st.Components()
		}()
	}
	wg.Wait()
}
