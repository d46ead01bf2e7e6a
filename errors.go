package svdag

import "errors"

var (
	// ErrCorruptReference rejects a serialized DAG whose child indices
	// fall outside the node array, or whose child masks disagree with
	// their child pointers.
	ErrCorruptReference = errors.New("corrupt node reference")

	// ErrBuildFailure reports an aborted offline build (mesh load error,
	// empty triangle set). No file is left behind.
	ErrBuildFailure = errors.New("build failed")
)
