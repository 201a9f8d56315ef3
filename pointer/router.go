// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pointer decides which page element receives pointer events.
//
// Every view activates its element when it mounts and releases it when it
// unmounts. Activations stack: releasing the active one hands focus back
// to the most recent activation that is still mounted, and finally to the
// default element (usually the page root). Releases may arrive in any order.
package pointer

import "sync"

// Element is anything that can receive pointer events.
type Element interface {
	ID() string
}

// Token identifies one activation. The zero Token is never issued.
type Token uint64

type activation struct {
	token Token
	elem  Element
}

// Router tracks the single element that currently receives pointer events.
//
// Router is safe for concurrent use.
type Router struct {
	mu    sync.Mutex
	def   Element
	stack []activation // most recent last
	next  Token
}

// NewRouter creates a router that falls back to def when nothing is
// activated. def may be nil.
func NewRouter(def Element) *Router {
	return &Router{def: def}
}

// Activate makes e the active target and returns the token that releases
// it. The previously active element is implicitly deactivated.
func (r *Router) Activate(e Element) Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.stack = append(r.stack, activation{token: r.next, elem: e})
	return r.next
}

// Release removes the activation tok. If it was the active one, the most
// recent remaining activation becomes active, or the default when none is
// left. Unknown or already released tokens are ignored and report false.
func (r *Router) Release(tok Token) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].token == tok {
			r.stack = append(r.stack[:i], r.stack[i+1:]...)
			return true
		}
	}
	return false
}

// Hover brings a mounted element to the front, making it active. For an
// element that is not mounted the active target is left unchanged and
// Hover reports false.
func (r *Router) Hover(e Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e == nil {
		return false
	}
	for i := len(r.stack) - 1; i >= 0; i-- {
		if sameElement(r.stack[i].elem, e) {
			a := r.stack[i]
			r.stack = append(r.stack[:i], r.stack[i+1:]...)
			r.stack = append(r.stack, a)
			return true
		}
	}
	return false
}

// Active returns the element currently receiving pointer events, or the
// default element when nothing is activated.
func (r *Router) Active() Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.stack); n > 0 {
		return r.stack[n-1].elem
	}
	return r.def
}

// Mounted reports whether e holds a live activation.
func (r *Router) Mounted(e Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.stack {
		if sameElement(a.elem, e) {
			return true
		}
	}
	return false
}

// Default returns the fallback element.
func (r *Router) Default() Element {
	return r.def
}

// Len returns the number of live activations.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

func sameElement(a, b Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || a.ID() == b.ID()
}
