// Package media runs the image pipelines behind avatar and image grid
// fields: pick, crop, optional face detection, resize and upload.
//
// Every stage is a host collaborator expressed as a small interface. Picking,
// face detection and uploading have no default and report ErrUnavailable
// when missing; cropping and resizing fall back to in-process
// implementations built on golang.org/x/image/draw. Each run is bounded by a
// timeout so a stalled upload cannot keep a field busy forever.
package media
