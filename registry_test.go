/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queryset

import (
	"testing"
)

type otherRecord struct {
	stubRecord
}

func TestRegistry(t *testing.T) {
	t.Run("BasicOperations", func(t *testing.T) {
		reg := NewRegistry()
		qs := New[*stubRecord](&recordingBackend{})

		// Register queryset
		err := Register(reg, "widgets", qs)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		// Lookup queryset
		retrieved, err := Lookup[*stubRecord](reg, "widgets")
		if err != nil {
			t.Fatalf("Failed to look up: %v", err)
		}
		if retrieved != qs {
			t.Fatal("Lookup returned a different queryset")
		}

		// List registered names
		names := reg.Names()
		if len(names) != 1 || names[0] != "widgets" {
			t.Fatalf("Expected [widgets], got %v", names)
		}

		// Remove queryset
		err = reg.Remove("widgets")
		if err != nil {
			t.Fatalf("Failed to remove: %v", err)
		}
		if _, err := Lookup[*stubRecord](reg, "widgets"); err == nil {
			t.Fatal("Expected lookup after removal to fail")
		}
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		reg := NewRegistry()
		qs := New[*stubRecord](&recordingBackend{})

		if err := Register(reg, "widgets", qs); err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		if err := Register(reg, "widgets", qs); err == nil {
			t.Fatal("Expected duplicate registration to fail")
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		reg := NewRegistry()
		qs := New[*stubRecord](&recordingBackend{})

		if err := Register(reg, "widgets", qs); err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		// Looking the name up under a different record type must fail
		// rather than panic.
		if _, err := Lookup[*otherRecord](reg, "widgets"); err == nil {
			t.Fatal("Expected type-mismatched lookup to fail")
		}
	})

	t.Run("UnknownName", func(t *testing.T) {
		reg := NewRegistry()

		if _, err := Lookup[*stubRecord](reg, "nope"); err == nil {
			t.Fatal("Expected lookup of unknown name to fail")
		}
		if err := reg.Remove("nope"); err == nil {
			t.Fatal("Expected removal of unknown name to fail")
		}
	})
}
