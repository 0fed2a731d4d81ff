// Package detection holds the hand-tuned detectors that decide whether a
// capture plausibly shows a topic.
//
// Every detector is a pure function of an imaging.PixelBuffer and returns a
// Verdict. Nothing is cached between calls, so identical input always yields
// identical output.
//
// # Colour Detectors
//
// DetectEarth and DetectHeart follow a "pixel predicate plus ratio threshold"
// pattern: each pixel is tested against a few channel inequalities, matching
// pixels are counted, and the resulting percentages are compared against
// fixed thresholds. Pixels whose brightness (mean of R, G and B) is below 30
// or above 240 are skipped as sensor noise or overexposure but
// still count towards the total, so percentages are always relative to the
// whole capture.
//
// # Edge & Shape Analysis
//
// DetectEdges marks interior pixels whose summed luminance gradient towards
// the right and lower neighbours exceeds 25. ShapeMetrics then summarises the
// edge map:
//
//   - EdgeDensity: edge pixels / all pixels, in [0,1]
//   - Roundness: 1 - stddev(d)/mean(d) over each edge pixel's distance d to
//     the edge centroid; 1 means perfectly uniform, 0 when there are no edges
//   - Complexity: EdgeDensity * 100
//
// DetectBrainShape combines these metrics with an organ-colour percentage that
// admits red, skin-toned and neutral grey pixels, the latter so that black and
// white textbook diagrams are not rejected.
//
// # Confidence
//
// Confidences are heuristic scores on a 0..100 scale, not calibrated
// probabilities. A detector reports its confidence whether or not it matched.
//
// # Tuning
//
// All thresholds are exported constants. They were tuned by hand against
// printed material and should be treated as fixed until a tuning pass
// revisits them together with the tests that pin them.
package detection
