package common

import (
	"testing"
	"time"
)

func TestCacheService_SetGetDelete(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)
	defer cs.Close()

	cs.Set("form_session:a", 42, time.Minute)
	val, found := cs.Get("form_session:a")
	if !found || val.(int) != 42 {
		t.Fatalf("Expected 42, got %v (found=%v)", val, found)
	}
	if n := cs.ItemCount(); n != 1 {
		t.Errorf("Expected 1 item, got %d", n)
	}

	var evicted []string
	cs.OnEvicted(func(key string, value interface{}) {
		evicted = append(evicted, key)
	})
	cs.Delete("form_session:a")

	if _, found := cs.Get("form_session:a"); found {
		t.Error("Expected the entry to be gone")
	}
	if len(evicted) != 1 || evicted[0] != "form_session:a" {
		t.Errorf("Expected one eviction callback, got %v", evicted)
	}
}

func TestCacheService_Expiry(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)
	defer cs.Close()

	cs.Set("short", "v", time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if _, found := cs.Get("short"); found {
		t.Error("Expected the entry to have expired")
	}
}
