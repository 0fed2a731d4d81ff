// Package server exposes frame recognition as MCP (Model Context Protocol)
// tools over stdio.
//
// An MCP client stands in for the camera view: it passes the path of a
// captured frame and the topic the user selected, and gets back the same
// result the scanning UI would show.
//
// # Tools
//
// Recognition:
//   - frame_recognize: one full attempt (crop, content check, detectors)
//   - topics_list: topic catalog with hints and model paths
//
// Diagnostics, each run on the same centred crop as recognition:
//   - frame_check_content: variance test that rejects blank frames
//   - frame_color_stats: Earth, Heart and organ colour ratios
//   - frame_edge_metrics: edge density, roundness, complexity, brain shape rule
//   - frame_edge_map: edge pixels rendered as PNG
//   - frame_classify: raw classifier predictions and keyword verdict
//   - frame_dominant_colors: quantised palette
//   - frame_info: frame dimensions and crop placement
//
// # Classifier
//
// When a classifier backend is configured the server starts loading it as
// soon as it is created and keeps it for its lifetime. Tools never wait for
// the load: until it finishes, Brain recognition uses the shape rule.
//
// # Images
//
// Frames are decoded once and cached by path for the life of the process.
// Recognition attempts are serialised.
//
// # Errors
//
// Bad arguments and unreadable files come back as tool results with
// isError set. A frame that loads but cannot be recognised is not an
// error; it is a result with matched=false and an explanation.
package server
