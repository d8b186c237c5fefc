// Package flexdoc marshals ordinary Go values onto a flexbuffers.Builder
// and unmarshals a flexbuffers.Reference back into them, using struct
// tags the way an encoding/json-shaped API would, so callers do not
// need to hand-write Builder calls for everyday struct/slice/map data.
package flexdoc
