// Package model defines the immutable flow configuration consumed by the flow
// controller and renderers: pages, the fields they host, and the records
// emitted to the host as the user fills them in. Page and field types are
// open string tags; the built-in tags are listed as constants but hosts may
// register renderers for any other tag. Structs carry json/yaml tags so flow
// definitions can be loaded from disk and snapshots stay deterministic.
package model
