// Package trend implements the windowed time-series store and the
// tie-corrected Mann-Kendall trend engine at the heart of slabwatch.
//
// Each kernel slab cache is tracked as an Entity holding:
//   - the full ordered sample history (the total horizon, unbounded by default)
//   - boundary trackers marking the oldest sample still inside the mid-term
//     (1h) and short-term (15m) horizons
//   - one tie histogram per horizon, counting retained samples per exact value
//
// Every cycle the Engine recomputes, per entity and per horizon, the S
// statistic, the tie-corrected variance, the Z-score and the increasing-trend
// decision. The pairwise scan is O(n²) over the full history; all three
// horizons are accumulated in a single pass.
package trend
