package set

import (
	"fmt"
	"testing"
)

func TestSetAddHas(t *testing.T) {
	t.Parallel()

	s := New[string]()

	if s.Has("missing") {
		t.Fatalf("expected missing key")
	}

	if !s.Add("a") {
		t.Fatalf("first Add should report insertion")
	}

	if s.Add("a") {
		t.Fatalf("second Add should report existing key")
	}

	if !s.Has("a") {
		t.Fatalf("expected existing key")
	}

	if s.Len() != 1 {
		t.Fatalf("len = %d; want %d", s.Len(), 1)
	}
}

func TestSetRemove(t *testing.T) {
	t.Parallel()

	s := New[string]()
	for i := range 10 {
		s.Add(fmt.Sprintf("k-%d", i))
	}

	s.Remove("k-3")
	s.Remove("absent")

	if s.Has("k-3") {
		t.Fatalf("removed key still present")
	}

	if s.Len() != 9 {
		t.Fatalf("len = %d; want %d", s.Len(), 9)
	}
}
