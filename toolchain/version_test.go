package toolchain

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeJar creates a jar with the given entries.
func writeJar(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close jar: %v", err)
	}
	path := filepath.Join(t.TempDir(), "app.jar")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write jar: %v", err)
	}
	return path
}

// classBytes builds a minimal class file header with the given major
// version.
func classBytes(major uint16) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[:4], 0xCAFEBABE)
	binary.BigEndian.PutUint16(b[6:8], major)
	return b
}

func TestResolveJarVersion_Manifest(t *testing.T) {
	jar := writeJar(t, map[string][]byte{
		"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0\nBuild-Jdk-Spec: 17\n"),
	})
	v, ok := NewExec(nil).ResolveJarVersion(jar)
	if !ok || v != 17 {
		t.Errorf("version = %d (ok=%v), want 17", v, ok)
	}
}

func TestResolveJarVersion_LegacyManifestForm(t *testing.T) {
	jar := writeJar(t, map[string][]byte{
		"META-INF/MANIFEST.MF": []byte("Build-Jdk: 1.8.0_292\n"),
	})
	v, ok := NewExec(nil).ResolveJarVersion(jar)
	if !ok || v != 8 {
		t.Errorf("version = %d (ok=%v), want 8", v, ok)
	}
}

func TestResolveJarVersion_Bytecode(t *testing.T) {
	jar := writeJar(t, map[string][]byte{
		"com/example/Main.class": classBytes(61), // Java 17
	})
	v, ok := NewExec(nil).ResolveJarVersion(jar)
	if !ok || v != 17 {
		t.Errorf("version = %d (ok=%v), want 17", v, ok)
	}
}

func TestResolveJarVersion_Undetectable(t *testing.T) {
	jar := writeJar(t, map[string][]byte{
		"resource.txt": []byte("data"),
	})
	if _, ok := NewExec(nil).ResolveJarVersion(jar); ok {
		t.Error("jar without manifest version or classes should be undetectable")
	}
}

func TestParseJavaVersion(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"21", 21, true},
		{"17.0.2", 17, true},
		{"1.8", 8, true},
		{"7", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		v, ok := parseJavaVersion(c.in)
		if ok != c.ok || v != c.want {
			t.Errorf("parseJavaVersion(%q) = (%d, %v), want (%d, %v)", c.in, v, ok, c.want, c.ok)
		}
	}
}

func TestShrinkJar_RemovesSkippableEntries(t *testing.T) {
	payload := bytes.Repeat([]byte("the same compressible line\n"), 200)
	jar := writeJar(t, map[string][]byte{
		"com/example/Main.class":        classBytes(61),
		"data.txt":                      payload,
		"META-INF/maven/group/pom.xml":  bytes.Repeat([]byte("<xml/>"), 500),
		"META-INF/SIGNING.SF":           []byte("signature"),
	})

	result, err := NewExec(nil).ShrinkJar(context.Background(), jar)
	if err != nil {
		t.Fatalf("shrink failed: %v", err)
	}
	if result.OriginalSize <= 0 {
		t.Error("original size not recorded")
	}

	reader, err := zip.OpenReader(result.JarPath)
	if err != nil {
		t.Fatalf("open shrunk jar: %v", err)
	}
	defer reader.Close()
	for _, entry := range reader.File {
		if entry.Name == "META-INF/maven/group/pom.xml" || entry.Name == "META-INF/SIGNING.SF" {
			t.Errorf("skippable entry survived shrink: %s", entry.Name)
		}
	}
}

func TestShrinkJar_KeepsOriginalWhenNoReduction(t *testing.T) {
	// A tiny jar of incompressible-looking content cannot shrink.
	jar := writeJar(t, map[string][]byte{"a": {0x01}})
	result, err := NewExec(nil).ShrinkJar(context.Background(), jar)
	if err != nil {
		t.Fatalf("shrink failed: %v", err)
	}
	if result.ShrunkSize < result.OriginalSize && result.JarPath == jar {
		t.Error("reduced jar should have a new path")
	}
	if result.ShrunkSize >= result.OriginalSize && result.JarPath != jar {
		t.Errorf("no reduction should keep original path, got %s", result.JarPath)
	}
}
