// Package loader materialises a Git tree object into a working directory:
// it walks the tree's blobs, recognises the action manifest, and writes
// either a node-script action or a composite action's files to disk while
// preserving POSIX file modes.
package loader

// EntryKind distinguishes the kinds of object a tree entry can reference.
type EntryKind int

const (
	// BlobEntry is a regular file.
	BlobEntry EntryKind = iota
	// TreeEntry is a subdirectory.
	TreeEntry
	// OtherEntry is a symlink, submodule, commit, or anything else the
	// loader does not materialise; encountering one is a fatal error.
	OtherEntry
)

// Entry is one child of a tree object.
type Entry struct {
	Name string
	Mode uint32
	ID   string
	Kind EntryKind
}

// ObjectReader is the external collaborator the loader consumes: it reads
// Git objects by id without the loader ever depending on a concrete Git
// library. The core only consumes (ref -> object id) pairs and this
// object-reading handle.
type ObjectReader interface {
	// Tree lists the entries of the tree object named by id.
	Tree(id string) ([]Entry, error)
	// Blob reads the full contents of the blob object named by id.
	Blob(id string) ([]byte, error)
}
