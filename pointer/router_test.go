// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pointer

import "testing"

type elem string

func (e elem) ID() string { return string(e) }

func TestRouterDefault(t *testing.T) {
	root := elem("root")
	r := NewRouter(root)
	if r.Active() != root {
		t.Errorf("Active() = %v, want root", r.Active())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if NewRouter(nil).Active() != nil {
		t.Error("router without default should have no active element")
	}
}

func TestRouterActivateRelease(t *testing.T) {
	root := elem("root")
	r := NewRouter(root)

	t1 := r.Activate(elem("a"))
	t2 := r.Activate(elem("b"))
	if t1 == 0 || t2 == 0 || t1 == t2 {
		t.Fatalf("tokens %d, %d must be distinct and non-zero", t1, t2)
	}
	if got := r.Active(); got != elem("b") {
		t.Errorf("Active() = %v, want b", got)
	}

	if !r.Release(t2) {
		t.Error("Release(t2) = false")
	}
	if got := r.Active(); got != elem("a") {
		t.Errorf("after releasing b, Active() = %v, want a", got)
	}
	if r.Release(t2) {
		t.Error("second Release(t2) should report false")
	}

	r.Release(t1)
	if got := r.Active(); got != root {
		t.Errorf("after releasing all, Active() = %v, want root", got)
	}
}

func TestRouterOutOfOrderRelease(t *testing.T) {
	tests := []struct {
		name    string
		release []int // indexes into tokens for a, b, c
		want    Element
	}{
		{"release middle", []int{1}, elem("c")},
		{"release bottom", []int{0}, elem("c")},
		{"release top then bottom", []int{2, 0}, elem("b")},
		{"release bottom then top", []int{0, 2}, elem("b")},
		{"release all reversed", []int{0, 1, 2}, elem("root")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(elem("root"))
			tokens := []Token{
				r.Activate(elem("a")),
				r.Activate(elem("b")),
				r.Activate(elem("c")),
			}
			for _, i := range tt.release {
				r.Release(tokens[i])
			}
			if got := r.Active(); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
			if act := r.Active(); act != elem("root") && !r.Mounted(act) {
				t.Errorf("active element %v is not mounted", act)
			}
		})
	}
}

func TestRouterHover(t *testing.T) {
	r := NewRouter(elem("root"))
	r.Activate(elem("a"))
	tb := r.Activate(elem("b"))

	if !r.Hover(elem("a")) {
		t.Error("Hover(a) = false for a mounted element")
	}
	if got := r.Active(); got != elem("a") {
		t.Errorf("Active() = %v, want a", got)
	}

	if r.Hover(elem("ghost")) {
		t.Error("Hover(ghost) = true for an unmounted element")
	}
	if got := r.Active(); got != elem("a") {
		t.Errorf("unmounted hover changed Active() to %v", got)
	}

	// b was pushed down by the hover; releasing it keeps a active.
	r.Release(tb)
	if got := r.Active(); got != elem("a") {
		t.Errorf("Active() = %v, want a", got)
	}
	if r.Mounted(elem("b")) {
		t.Error("b should no longer be mounted")
	}
	if r.Hover(nil) {
		t.Error("Hover(nil) = true")
	}
}

func TestRouterUnknownToken(t *testing.T) {
	r := NewRouter(elem("root"))
	r.Activate(elem("a"))
	if r.Release(Token(99)) {
		t.Error("Release of an unknown token should report false")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
