// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [FrameSource]: a capture device yielding one raw item per call
//   - [Outbound]: the producer side of the messaging transport
//   - [Inbound]: the collector side of the messaging transport
//   - [FrameStore]: persists frames on the collector
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters under internal/adapters provide the zmq, file system, capture
// source and zerolog implementations.
package ports
