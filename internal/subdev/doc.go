// Package subdev models the runtime side of the pipeline: bound subdevice
// handles, their media entities and pads, the command interface used to
// drive them, and the published media device holding the assembled graph.
package subdev
