package catalog

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestStore_Expire(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	var loads int
	Register(treeDefinition(&loads))
	store := NewStore(Env{}, quietSettings())
	ctx := context.Background()

	inst, err := store.Instance(ctx, "tree")
	if err != nil {
		t.Fatal(err)
	}
	now := inst.LoadedAt.Add(time.Minute)

	if got := store.Expire(now, time.Hour); len(got) != 0 {
		t.Errorf("Expire() dropped %v, want nothing", got)
	}
	if got := store.Expire(now, time.Second); !reflect.DeepEqual(got, []string{"tree"}) {
		t.Errorf("Expire() = %v, want [tree]", got)
	}
	if _, err := store.Instance(ctx, "tree"); err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Errorf("loads = %d, want a reload after expiry", loads)
	}
}

func TestStore_RunExpiryStops(t *testing.T) {
	store := NewStore(Env{}, quietSettings())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.RunExpiry(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunExpiry did not stop after cancel")
	}
}
