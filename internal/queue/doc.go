// Package queue provides the bounded, non-blocking hand-off used between the
// background pollers and the single-threaded chat controller.
//
// Both the key poller and the transport receiver push into a Queue; the
// controller polls one item of each per tick. Push evicts the oldest item
// when the queue is full and counts the eviction, so a stalled consumer
// costs memory proportional to the capacity only.
package queue
