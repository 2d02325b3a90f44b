package config

import (
	"testing"

	"github.com/jbundle/jbundle/types"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(Flags{Input: "app.jar", Output: "app"}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.JavaVersion != DefaultJavaVersion {
		t.Errorf("JavaVersion = %d, want %d", cfg.JavaVersion, DefaultJavaVersion)
	}
	if cfg.JavaVersionExplicit {
		t.Error("JavaVersionExplicit should be false when defaulted")
	}
	if cfg.Target != types.CurrentTarget() {
		t.Errorf("Target = %s, want current host", cfg.Target)
	}
	if cfg.Profile != types.ProfileServer {
		t.Errorf("Profile = %s, want server", cfg.Profile)
	}
	if !cfg.AppCDS {
		t.Error("AppCDS should default to enabled")
	}
	if cfg.Shrink || cfg.CRaC || cfg.CompactBanner {
		t.Error("shrink/crac/compact_banner should default to disabled")
	}
}

func TestResolve_CLIOverridesProject(t *testing.T) {
	project := &ProjectConfig{
		JavaVersion: intPtr(17),
		Target:      strPtr("linux-aarch64"),
		JVMArgs:     []string{"-Xmx256m"},
		Profile:     strPtr("native"),
	}
	cfg, err := Resolve(Flags{
		JavaVersion: 21,
		Target:      "macos-aarch64",
		JVMArgs:     []string{"-Xmx1g"},
		Profile:     "server",
	}, project)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.JavaVersion != 21 {
		t.Errorf("JavaVersion = %d, want CLI value 21", cfg.JavaVersion)
	}
	if cfg.Target != types.TargetMacOSArm64 {
		t.Errorf("Target = %s, want CLI value macos-aarch64", cfg.Target)
	}
	if len(cfg.JVMArgs) != 1 || cfg.JVMArgs[0] != "-Xmx1g" {
		t.Errorf("JVMArgs = %v, want CLI value", cfg.JVMArgs)
	}
	if cfg.Profile != types.ProfileServer {
		t.Errorf("Profile = %s, want CLI value server", cfg.Profile)
	}
}

func TestResolve_ProjectFileUsedWhenCLIAbsent(t *testing.T) {
	project := &ProjectConfig{
		JavaVersion: intPtr(17),
		Target:      strPtr("linux-aarch64"),
		JVMArgs:     []string{"-Xmx256m", "-Dapp.env=prod"},
		Profile:     strPtr("native"),
	}
	cfg, err := Resolve(Flags{}, project)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.JavaVersion != 17 {
		t.Errorf("JavaVersion = %d, want project value 17", cfg.JavaVersion)
	}
	if !cfg.JavaVersionExplicit {
		t.Error("project-file version counts as explicitly requested")
	}
	if cfg.Target != types.TargetLinuxArm64 {
		t.Errorf("Target = %s, want project value", cfg.Target)
	}
	if len(cfg.JVMArgs) != 2 {
		t.Errorf("JVMArgs = %v, want project values", cfg.JVMArgs)
	}
	if cfg.Profile != types.ProfileNative {
		t.Errorf("Profile = %s, want project value native", cfg.Profile)
	}
}

func TestResolve_EnableFlagsAreORCombined(t *testing.T) {
	cases := []struct {
		name    string
		cli     bool
		project *bool
		want    bool
	}{
		{"both absent", false, nil, false},
		{"cli only", true, nil, true},
		{"project only", false, boolPtr(true), true},
		{"project false cli true", true, boolPtr(false), true},
		{"both true", true, boolPtr(true), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			project := &ProjectConfig{Shrink: c.project, CRaC: c.project, CompactBanner: c.project}
			cfg, err := Resolve(Flags{Shrink: c.cli, CRaC: c.cli, CompactBanner: c.cli}, project)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if cfg.Shrink != c.want {
				t.Errorf("Shrink = %v, want %v", cfg.Shrink, c.want)
			}
			if cfg.CRaC != c.want {
				t.Errorf("CRaC = %v, want %v", cfg.CRaC, c.want)
			}
			if cfg.CompactBanner != c.want {
				t.Errorf("CompactBanner = %v, want %v", cfg.CompactBanner, c.want)
			}
		})
	}
}

func TestResolve_NoAppCDSWinsOverProject(t *testing.T) {
	project := &ProjectConfig{AppCDS: boolPtr(true)}
	cfg, err := Resolve(Flags{NoAppCDS: true}, project)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.AppCDS {
		t.Error("--no-appcds must win over project file")
	}

	cfg, err = Resolve(Flags{}, &ProjectConfig{AppCDS: boolPtr(false)})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.AppCDS {
		t.Error("project file appcds: false should disable AppCDS")
	}
}

func TestResolve_InvalidTarget(t *testing.T) {
	if _, err := Resolve(Flags{Target: "windows-x64"}, nil); err == nil {
		t.Error("invalid CLI target should fail")
	}
	if _, err := Resolve(Flags{}, &ProjectConfig{Target: strPtr("bogus")}); err == nil {
		t.Error("invalid project target should fail")
	}
}

func TestResolve_InvalidProfile(t *testing.T) {
	if _, err := Resolve(Flags{Profile: "client"}, nil); err == nil {
		t.Error("invalid profile should fail")
	}
}
