package vpitest

import (
	"github.com/wippyai/go-vpi/resource"
)

// CapsuleCounter counts capsule allocations and reclamations.
type CapsuleCounter struct {
	Created int
	Dropped int
}

var _ resource.Observer = (*CapsuleCounter)(nil)

// OnResourceEvent implements resource.Observer.
func (c *CapsuleCounter) OnResourceEvent(e resource.Event) {
	switch e.Type {
	case resource.EventCreated:
		c.Created++
	case resource.EventDropped:
		c.Dropped++
	}
}

// Live returns the number of capsules not yet reclaimed.
func (c *CapsuleCounter) Live() int {
	return c.Created - c.Dropped
}
