package idgen

import "testing"

func resetNode(t *testing.T) {
	t.Helper()
	mu.Lock()
	node = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		node = nil
		mu.Unlock()
	})
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("expected non-empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestInitializeInvalidNodeThenGenerate(t *testing.T) {
	resetNode(t)

	if err := Initialize(1 << 20); err == nil {
		t.Fatal("expected error for out-of-range node ID")
	}
	if id := GenerateID(); id == "" {
		t.Fatal("expected GenerateID to fall back to the default node")
	}
}

func TestInitializeRetryAfterFailure(t *testing.T) {
	resetNode(t)

	if err := Initialize(-1); err == nil {
		t.Fatal("expected error for negative node ID")
	}
	if err := Initialize(7); err != nil {
		t.Fatalf("Initialize after failure: %v", err)
	}
	if got := node.Generate().Node(); got != 7 {
		t.Fatalf("node = %d, want 7", got)
	}
	if err := Initialize(9); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if got := node.Generate().Node(); got != 7 {
		t.Fatalf("node changed to %d after second Initialize", got)
	}
}
