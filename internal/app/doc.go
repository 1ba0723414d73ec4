// Package app wires the ports together into the two programs of the system.
//
// Producer side: a [Pipeline] pulls items from a [Device], runs them through
// [Stage] functions and hands each frame to a [Transmitter], whose bounded
// queue provides backpressure all the way back to capture.
//
// Collector side: a [Collector] receives frames sequentially and writes them
// through a ports.FrameStore.
package app
