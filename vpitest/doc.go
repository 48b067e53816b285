// Package vpitest provides an in-memory fake of the native VPI surface.
//
// Native implements abi.Interface over a small design tree built with
// AddModule, AddNet and friends. Every method counts its calls, so tests
// can assert that an operation issued no native calls at all. Fire and
// Change drive callbacks the way a simulator would, and CapsuleCounter
// observes callback capsule allocation.
//
// Native is not safe for concurrent use. Like a real simulator it may call
// back into the plugin from inside Fire, Change and PutValue.
package vpitest
