// Package pkg provides the core libraries for sharecard rendering and export.
//
// # Overview
//
// Sharecard turns an activity and its task list into platform-sized share
// assets. The pkg directory is organized by pipeline stage:
//
//  1. [template] - The closed platform table (dimensions, formats, caption limits) and packs
//  2. [caption] - Deterministic caption composition with per-style policies
//  3. [card] - Off-screen card rasterization to PNG, JPG, and single-page PDF
//  4. [export] - Single-asset and pack export flows (save, share, fallback, tracking)
//  5. [track] - HTTP client for the activity service (tasks, share beacons)
//  6. [cache] - Artifact cache backends (file, redis, null) and key derivation
//  7. [preview] - Responsive preview scale math
//
// # Architecture
//
// The typical data flow through sharecard:
//
//	Activity (service or file)
//	         ↓
//	caption.Compose ──────────────┐
//	         ↓                    │
//	card.Renderer.Render          │
//	         ↓                    ↓
//	export.Exporter (save / share sheet / clipboard)
//	         ↓
//	track.Client.TrackShare (best-effort beacon)
//
// Supporting packages: [errors] for coded errors, [httputil] for response
// caching and retry, [observability] for optional instrumentation hooks, and
// [buildinfo] for version metadata.
package pkg
