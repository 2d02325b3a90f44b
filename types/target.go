// Package types defines shared domain types for the jbundle CLI.
package types

import (
	"fmt"
	"runtime"
)

// Target identifies a platform the generated binary can run on.
// The set is closed: JDK distributions are only published for these
// four os/arch pairs.
type Target string

const (
	TargetLinuxX64   Target = "linux-x64"
	TargetLinuxArm64 Target = "linux-aarch64"
	TargetMacOSX64   Target = "macos-x64"
	TargetMacOSArm64 Target = "macos-aarch64"
)

// ParseTarget parses a target string. Returns an error listing the
// valid values for anything outside the closed set.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetLinuxX64, TargetLinuxArm64, TargetMacOSX64, TargetMacOSArm64:
		return Target(s), nil
	default:
		return "", fmt.Errorf("invalid target: %s (use: linux-x64, linux-aarch64, macos-x64, macos-aarch64)", s)
	}
}

// CurrentTarget returns the target matching the build host.
// Unknown hosts fall back to linux-x64, the most common CI platform.
func CurrentTarget() Target {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return TargetLinuxX64
	case "linux/arm64":
		return TargetLinuxArm64
	case "darwin/amd64":
		return TargetMacOSX64
	case "darwin/arm64":
		return TargetMacOSArm64
	default:
		return TargetLinuxX64
	}
}

// OS returns the operating system component in JDK vendor API form
// ("linux" or "mac").
func (t Target) OS() string {
	switch t {
	case TargetMacOSX64, TargetMacOSArm64:
		return "mac"
	default:
		return "linux"
	}
}

// Arch returns the architecture component in JDK vendor API form
// ("x64" or "aarch64").
func (t Target) Arch() string {
	switch t {
	case TargetLinuxArm64, TargetMacOSArm64:
		return "aarch64"
	default:
		return "x64"
	}
}

// String returns the canonical target name.
func (t Target) String() string { return string(t) }
