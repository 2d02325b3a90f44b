package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbundle/jbundle/types"
)

// DefaultJavaVersion is used when neither the CLI nor the project file
// requests a version. The jar's own version metadata may still
// override it mid-pipeline when it was not explicitly requested.
const DefaultJavaVersion = 21

// Flags carries raw CLI input for resolution. Zero values mean
// "not supplied".
type Flags struct {
	Input         string
	Output        string
	JavaVersion   int
	Target        string
	JVMArgs       []string
	Shrink        bool
	Profile       string
	NoAppCDS      bool
	CRaC          bool
	CompactBanner bool
	Verbose       bool
}

// BuildConfig is the fully-resolved build configuration. It is built
// once before the pipeline starts and never mutated; every downstream
// component reads it by pointer.
type BuildConfig struct {
	Input               string
	Output              string
	JavaVersion         int
	JavaVersionExplicit bool
	Target              types.Target
	JVMArgs             []string
	Shrink              bool
	Profile             types.JVMProfile
	AppCDS              bool
	CRaC                bool
	CompactBanner       bool
	Verbose             bool
}

// Resolve merges CLI flags, the optional project file, and fixed
// defaults into a BuildConfig.
//
// Precedence: a CLI value wins; otherwise the project-file value;
// otherwise the default. Boolean enable flags (shrink, crac,
// compact_banner) are OR-combined. --no-appcds always wins over the
// project file when supplied.
func Resolve(flags Flags, project *ProjectConfig) (*BuildConfig, error) {
	targetStr := flags.Target
	fromProject := false
	if targetStr == "" && project != nil && project.Target != nil {
		targetStr = *project.Target
		fromProject = true
	}
	target := types.CurrentTarget()
	if targetStr != "" {
		parsed, err := types.ParseTarget(targetStr)
		if err != nil {
			if fromProject {
				return nil, fmt.Errorf("%s: %w", ProjectFileName, err)
			}
			return nil, err
		}
		target = parsed
	}

	javaVersion := flags.JavaVersion
	explicit := javaVersion > 0
	if !explicit && project != nil && project.JavaVersion != nil {
		javaVersion = *project.JavaVersion
		explicit = true
	}
	if javaVersion <= 0 {
		javaVersion = DefaultJavaVersion
	}

	jvmArgs := flags.JVMArgs
	if len(jvmArgs) == 0 && project != nil {
		jvmArgs = project.JVMArgs
	}

	profileStr := flags.Profile
	if profileStr == "" && project != nil && project.Profile != nil {
		profileStr = *project.Profile
	}
	if profileStr == "" {
		profileStr = string(types.ProfileServer)
	}
	profile, err := types.ParseProfile(profileStr)
	if err != nil {
		return nil, err
	}

	appcds := true
	if flags.NoAppCDS {
		appcds = false
	} else if project != nil && project.AppCDS != nil {
		appcds = *project.AppCDS
	}

	return &BuildConfig{
		Input:               flags.Input,
		Output:              flags.Output,
		JavaVersion:         javaVersion,
		JavaVersionExplicit: explicit,
		Target:              target,
		JVMArgs:             jvmArgs,
		Shrink:              flags.Shrink || boolOr(project, func(p *ProjectConfig) *bool { return p.Shrink }),
		Profile:             profile,
		AppCDS:              appcds,
		CRaC:                flags.CRaC || boolOr(project, func(p *ProjectConfig) *bool { return p.CRaC }),
		CompactBanner:       flags.CompactBanner || boolOr(project, func(p *ProjectConfig) *bool { return p.CompactBanner }),
		Verbose:             flags.Verbose,
	}, nil
}

// boolOr extracts an optional boolean from the project config,
// treating absence as false.
func boolOr(project *ProjectConfig, field func(*ProjectConfig) *bool) bool {
	if project == nil {
		return false
	}
	if v := field(project); v != nil {
		return *v
	}
	return false
}

// CacheRoot returns the build-machine cache root (~/.jbundle/cache).
// The launcher stub uses the same root on the target machine, keyed by
// payload content identifier instead of JDK version.
func CacheRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".jbundle", "cache"), nil
}
