// Package domain models disaster readings and their engineered feature
// vectors.
//
// # Feature Orders
//
// Every trained model consumes a fixed-length feature vector whose length and
// field order were frozen at training time. The canonical orders are exported
// as slices ([EarthquakeSeverityOrder], [CyclonePathOrder],
// [CycloneKinematicsOrder], [CycloneSeverityOrder]); artifact bundles declare
// the order they were trained with and the registry rejects any bundle whose
// declaration drifts from the canonical one. A mismatch is a fatal
// configuration fault, never a per-request condition.
//
// # Circular Encoding
//
// Storm direction is an angular quantity: 359° and 1° are two degrees apart,
// not 358. Models therefore consume the (sin, cos) encoding produced by
// [EncodeDirection]; [DecodeDirection] inverts it via atan2 and normalizes
// into [0, 360).
//
// # Severity Scale
//
// The four-level scale (Mild, Moderate, Severe, Catastrophic) is totally
// ordered by increasing risk. Cluster-trained bundles ship a table mapping
// cluster id to label, ranked by mean reconstruction error at training time.
//
// # Range Invariants
//
// Builders reject physically impossible readings before any model runs:
// magnitude 0–10, depth 0–700 km, latitude ±90, longitude ±180, storm speed
// 0–300 km/h, storm direction 0–360°.
package domain
