// Package source provides capture devices for the camera pipeline.
//
//   - [Pattern] renders a synthetic test card at a fixed frame rate.
//   - [Spool] watches a directory into which an external capture tool drops
//     finished images, and yields them in arrival order.
package source
