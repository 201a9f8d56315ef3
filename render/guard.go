// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Guard errors.
var (
	// ErrGuardBusy is returned when a lease is requested while another one
	// is still open. Two views never render at the same time.
	ErrGuardBusy = errors.New("render: device state already leased")

	// ErrNilTarget is returned when a lease is requested for a nil target.
	ErrNilTarget = errors.New("render: nil target")
)

// StateSnapshot is the shared device state a view may change while it
// renders. It is captured and restored exactly once per view per frame.
type StateSnapshot struct {
	AutoClear bool
	XR        XRState
	Target    RenderTarget
}

// Capture records the current state of d.
func Capture(d Device) StateSnapshot {
	return StateSnapshot{
		AutoClear: d.AutoClear(),
		XR:        d.XR(),
		Target:    d.RenderTarget(),
	}
}

// Restore writes the snapshot back into d.
func (s StateSnapshot) Restore(d Device) {
	d.SetRenderTarget(s.Target)
	d.SetAutoClear(s.AutoClear)
	d.SetXR(s.XR)
}

// StateGuard hands out exclusive, scoped access to a shared Device.
//
// Acquire prepares the device for off-screen rendering into a view target
// and returns a Lease; releasing the lease puts the captured state back.
// Only one lease may be open at a time.
//
// Example:
//
//	guard := render.NewStateGuard(device)
//	err := guard.Run(view.Target(), func() error {
//	    return device.Render(scene, camera)
//	})
type StateGuard struct {
	device Device
	open   *Lease
}

// NewStateGuard creates a guard for device.
func NewStateGuard(device Device) *StateGuard {
	return &StateGuard{device: device}
}

// Device returns the guarded device.
func (g *StateGuard) Device() Device {
	return g.device
}

// Busy reports whether a lease is currently open.
func (g *StateGuard) Busy() bool {
	return g.open != nil
}

// Acquire captures the device state, then forces auto-clear on, turns XR
// off and makes target the current output.
func (g *StateGuard) Acquire(target RenderTarget) (*Lease, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if g.open != nil {
		return nil, ErrGuardBusy
	}

	l := &Lease{guard: g, saved: Capture(g.device)}
	g.device.SetAutoClear(true)
	g.device.SetXR(XRState{})
	g.device.SetRenderTarget(target)
	g.open = l
	return l, nil
}

// Run acquires a lease for target, calls body and releases the lease on
// every exit path, including a panic in body. Errors and panics from body
// are passed through unchanged.
func (g *StateGuard) Run(target RenderTarget, body func() error) error {
	lease, err := g.Acquire(target)
	if err != nil {
		return err
	}
	defer lease.Release()
	return body()
}

// Lease is the restore handle returned by StateGuard.Acquire.
type Lease struct {
	guard    *StateGuard
	saved    StateSnapshot
	released bool
}

// Snapshot returns the state captured when the lease was acquired.
func (l *Lease) Snapshot() StateSnapshot {
	return l.saved
}

// Release restores the captured state. Calling it more than once is a no-op.
func (l *Lease) Release() {
	if l.released {
		return
	}
	l.released = true
	l.saved.Restore(l.guard.device)
	if l.guard.open == l {
		l.guard.open = nil
	}
}
