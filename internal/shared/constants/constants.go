package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// SnapshotSchemaVersion is written into every progress snapshot. Snapshots
	// carrying a different version are discarded on load.
	SnapshotSchemaVersion = 1
	// AutosaveDebounce is how long the autosaver waits after the last mutation
	// before flushing a progress snapshot.
	AutosaveDebounce = 2 * time.Second
	// SnapshotFileSuffix is appended to the assessment type to form the
	// per-type snapshot file name.
	SnapshotFileSuffix = "_assessment.json"
)
