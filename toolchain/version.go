package toolchain

import (
	"archive/zip"
	"bufio"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/jbundle/jbundle/iox"
)

// classFileVersionBase is the offset between a class file's major
// version and the Java release (major 52 = Java 8, 61 = Java 17).
const classFileVersionBase = 44

// ResolveJarVersion sniffs the Java version a jar was built for.
// The manifest's Build-Jdk-Spec is authoritative when present;
// otherwise the bytecode major version of the first class entry is
// used. ok is false when neither source yields a version.
func (t *Exec) ResolveJarVersion(jar string) (int, bool) {
	reader, err := zip.OpenReader(jar)
	if err != nil {
		return 0, false
	}
	defer iox.DiscardClose(reader)

	if v, ok := manifestVersion(&reader.Reader); ok {
		return v, true
	}
	return bytecodeVersion(&reader.Reader)
}

func manifestVersion(reader *zip.Reader) (int, bool) {
	for _, entry := range reader.File {
		if entry.Name != "META-INF/MANIFEST.MF" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return 0, false
		}
		defer iox.DiscardClose(rc)

		scanner := bufio.NewScanner(rc)
		for scanner.Scan() {
			line := scanner.Text()
			for _, key := range []string{"Build-Jdk-Spec:", "Build-Jdk:"} {
				if strings.HasPrefix(line, key) {
					if v, ok := parseJavaVersion(strings.TrimSpace(line[len(key):])); ok {
						return v, true
					}
				}
			}
		}
		return 0, false
	}
	return 0, false
}

// parseJavaVersion parses "17", "17.0.2", or legacy "1.8" forms.
func parseJavaVersion(s string) (int, bool) {
	if rest, ok := strings.CutPrefix(s, "1."); ok {
		s = rest
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 8 {
		return 0, false
	}
	return v, true
}

// bytecodeVersion reads the class file major version of the first
// class entry outside versioned/multi-release directories.
func bytecodeVersion(reader *zip.Reader) (int, bool) {
	for _, entry := range reader.File {
		if !strings.HasSuffix(entry.Name, ".class") ||
			strings.HasPrefix(entry.Name, "META-INF/") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return 0, false
		}
		var header [8]byte
		_, err = io.ReadFull(rc, header[:])
		_ = rc.Close()
		if err != nil {
			return 0, false
		}
		if binary.BigEndian.Uint32(header[:4]) != 0xCAFEBABE {
			return 0, false
		}
		major := int(binary.BigEndian.Uint16(header[6:8]))
		version := major - classFileVersionBase
		if version < 8 {
			return 0, false
		}
		return version, true
	}
	return 0, false
}
