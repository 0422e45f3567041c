// Package topology models the external topology description of a video
// processing pipeline: which nodes exist, which pads they declare, and which
// endpoints connect them. It is consumed read-only by the graph build and
// link assembly passes.
package topology
