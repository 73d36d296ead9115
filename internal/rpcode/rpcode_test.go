package rpcode

import (
	"context"
	"strings"
	"sync"
	"testing"
)

const testChars = "abcdefhjknpstxyz23456789"

func neverExists(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func TestGenerateWellFormed(t *testing.T) {
	g := New(8, testChars)

	for i := 0; i < 50; i++ {
		code, err := g.Generate(context.Background(), neverExists)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 8 {
			t.Fatalf("code %q has length %d, want 8", code, len(code))
		}
		for _, c := range code {
			if !strings.ContainsRune(testChars, c) {
				t.Fatalf("code %q contains %q, not in alphabet", code, c)
			}
		}
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	g := New(8, testChars)

	var mu sync.Mutex
	taken := make(map[string]bool)
	var collisions int

	exists := func(ctx context.Context, code string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if taken[code] {
			collisions++
			return true, nil
		}
		return false, nil
	}

	// First allocation, then mark it taken and allocate again: the second
	// call must return a different code.
	first, err := g.Generate(context.Background(), exists)
	if err != nil {
		t.Fatal(err)
	}
	taken[first] = true

	second, err := g.Generate(context.Background(), exists)
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Fatalf("allocator returned taken code %q", second)
	}
}

func TestGenerateUniqueUnderContention(t *testing.T) {
	// Deliberately tiny code space to force collisions and exercise retry.
	g := New(2, "ab")

	var mu sync.Mutex
	taken := make(map[string]bool)

	exists := func(ctx context.Context, code string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		return taken[code], nil
	}
	claim := func(code string) bool {
		mu.Lock()
		defer mu.Unlock()
		if taken[code] {
			return false
		}
		taken[code] = true
		return true
	}

	// 2-char codes over {a,b}: exactly 4 possible. Allocate all of them.
	for i := 0; i < 4; i++ {
		code, err := g.Generate(context.Background(), exists)
		if err != nil {
			t.Fatalf("allocation %d: %v", i, err)
		}
		if !claim(code) {
			t.Fatalf("allocation %d returned duplicate code %q", i, code)
		}
	}

	// Space exhausted: the cap must fire instead of looping forever.
	if _, err := g.Generate(context.Background(), exists); err != ErrExhausted {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestGenerateHonorsContext(t *testing.T) {
	g := New(8, testChars)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, neverExists); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
