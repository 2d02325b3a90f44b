package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
)

// DetectBuildSystem sniffs dir for a recognized build system by its
// marker files. Maven wins when both are present: a pom.xml alongside
// gradle files usually means the Maven build is the canonical one.
func (t *Exec) DetectBuildSystem(dir string) (BuildSystem, error) {
	if fileExists(filepath.Join(dir, "pom.xml")) {
		return Maven, nil
	}
	for _, marker := range []string{"build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts"} {
		if fileExists(filepath.Join(dir, marker)) {
			return Gradle, nil
		}
	}
	return "", fmt.Errorf("no recognized build system in %s (expected pom.xml or build.gradle)", dir)
}

// BuildCommandDescription returns the human-readable build invocation
// shown in the stage line.
func BuildCommandDescription(system BuildSystem) string {
	switch system {
	case Maven:
		return "mvn package"
	case Gradle:
		return "gradle build"
	default:
		return string(system)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
