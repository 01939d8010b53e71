package store

import (
	"bytes"
	"testing"
)

func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")
	if err := base.Set(k, v); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := base.CacheWrap()
	got, err := cache.Get(k)
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if !bytes.Equal(got, v) {
		t.Fatalf("want %q, got %q", v, got)
	}

	// writes in the cache must not leak to the base until Write
	k2, v2 := []byte("waffle"), []byte("fry")
	if err := cache.Set(k2, v2); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if has, _ := base.Has(k2); has {
		t.Fatal("cache write leaked to the base store")
	}
	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	if has, _ := base.Has(k2); !has {
		t.Fatal("cache write was not applied to the base store")
	}
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := base.CacheWrap()
	if err := cache.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := cache.Delete([]byte("a")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	cache.Discard()

	if has, _ := base.Has([]byte("a")); !has {
		t.Fatal("discarded delete was applied")
	}
	if has, _ := base.Has([]byte("b")); has {
		t.Fatal("discarded write was applied")
	}
}

func TestBTreeCacheDelete(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := base.CacheWrap()
	if err := cache.Delete([]byte("a")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	// deleted in the cache, still present below
	if got, _ := cache.Get([]byte("a")); got != nil {
		t.Fatalf("want no value, got %q", got)
	}
	if has, _ := base.Has([]byte("a")); !has {
		t.Fatal("delete leaked to the base store")
	}

	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	if has, _ := base.Has([]byte("a")); has {
		t.Fatal("delete was not applied to the base store")
	}
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := base.Set([]byte("c"), []byte("3")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := base.CacheWrap()
	if err := cache.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := cache.Delete([]byte("c")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}

	iter, err := cache.Iterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot create iterator: %+v", err)
	}
	defer iter.Close()

	var keys []string
	for ; iter.Valid(); _ = iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	want := []string{"a", "b"}
	if len(keys) != len(want) {
		t.Fatalf("want keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("want keys %v, got %v", want, keys)
		}
	}
}

func TestBTreeCacheReverseIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c"} {
		if err := base.Set([]byte(k), []byte(k)); err != nil {
			t.Fatalf("cannot set: %+v", err)
		}
	}

	iter, err := base.ReverseIterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot create iterator: %+v", err)
	}
	defer iter.Close()

	var keys []string
	for ; iter.Valid(); _ = iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	want := []string{"c", "b", "a"}
	if len(keys) != len(want) {
		t.Fatalf("want keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("want keys %v, got %v", want, keys)
		}
	}
}

func TestLogableStore(t *testing.T) {
	kv, log := LogableStore()

	if err := kv.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := kv.Delete([]byte("b")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}

	ops := log.ShowOps()
	if len(ops) != 2 {
		t.Fatalf("want 2 ops, got %d", len(ops))
	}
	if !ops[0].IsSetOp() || ops[1].IsSetOp() {
		t.Fatal("unexpected op kinds")
	}
	if string(ops[0].Key()) != "a" || string(ops[1].Key()) != "b" {
		t.Fatal("unexpected op keys")
	}
}
