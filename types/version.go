package types

// Version is the canonical project version.
// The CLI, the stub format, and the launcher cache layout move in
// lockstep under this version.
const Version = "0.4.0"
