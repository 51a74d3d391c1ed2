package engine

import "time"

// DiagnoseResult summarizes a read-only audit.
type DiagnoseResult struct {
	// Visited is the number of files and directories classified.
	Visited int `json:"visited"`

	// Issues is the number of findings, errors excluded.
	Issues int `json:"issues"`

	// Errors is the number of recovered filesystem failures.
	Errors int `json:"errors"`

	Elapsed time.Duration `json:"elapsed"`
}

// FixResult summarizes a repair.
type FixResult struct {
	// Fixed counts renames performed (or planned, in dry-run).
	Fixed int `json:"fixed"`

	// Removed counts empty directories removed (or planned, in dry-run).
	Removed int `json:"removed"`

	// Unresolved counts findings no pass could repair: Length and
	// NameLength findings, reserved names (InvalidName), and Characters
	// findings left in place because the skip policy hit a collision or the
	// replacement left no usable name.
	Unresolved int `json:"unresolved"`

	// Errors is the number of recovered filesystem failures.
	Errors int `json:"errors"`

	DryRun  bool          `json:"dry_run"`
	Elapsed time.Duration `json:"elapsed"`
}
