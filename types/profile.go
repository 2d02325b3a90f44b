package types

import "fmt"

// JVMProfile selects the invocation mode baked into the launcher stub.
// The set is closed; each profile maps to a fixed set of JVM flags.
type JVMProfile string

const (
	// ProfileServer is the default: the classic server VM with tiered
	// compilation. Best peak throughput for long-running services.
	ProfileServer JVMProfile = "server"

	// ProfileNative favors startup latency over peak throughput:
	// compilation stops at C1 and class sharing is preferred.
	ProfileNative JVMProfile = "native"
)

// ParseProfile parses a profile name.
func ParseProfile(s string) (JVMProfile, error) {
	switch JVMProfile(s) {
	case ProfileServer, ProfileNative:
		return JVMProfile(s), nil
	default:
		return "", fmt.Errorf("invalid profile: %s (use: server, native)", s)
	}
}

// Flags returns the JVM flags implied by the profile, in the order
// they are placed on the launch command line. The server profile adds
// none; modern runtimes ship only the server VM, so the default
// invocation already is one.
func (p JVMProfile) Flags() []string {
	if p == ProfileNative {
		return []string{"-XX:TieredStopAtLevel=1", "-Xshare:auto"}
	}
	return nil
}

// String returns the canonical profile name.
func (p JVMProfile) String() string { return string(p) }
