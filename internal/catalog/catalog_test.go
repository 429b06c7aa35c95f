package catalog

import "testing"

func TestDefaultItems_DecodesSeed(t *testing.T) {
	items, err := DefaultItems()
	if err != nil {
		t.Fatalf("DefaultItems() failed: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected at least one seed item")
	}

	seen := make(map[string]bool)
	for _, item := range items {
		if item.ID == "" {
			t.Error("seed item with empty id")
		}
		if item.Name == "" {
			t.Errorf("seed item %q has empty name", item.ID)
		}
		if seen[item.ID] {
			t.Errorf("duplicate seed id %q", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestDefaultItems_ColorsAreHex(t *testing.T) {
	items, err := DefaultItems()
	if err != nil {
		t.Fatalf("DefaultItems() failed: %v", err)
	}
	for _, item := range items {
		if len(item.Color) != 7 || item.Color[0] != '#' {
			t.Errorf("item %q: color %q is not #rrggbb", item.ID, item.Color)
		}
	}
}
