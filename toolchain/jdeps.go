package toolchain

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// AnalyzeModules discovers the runtime modules the jar requires by
// delegating to jdeps. The result is deduplicated and sorted so that
// identical inputs always produce the identical module list; the
// trimmed runtime built from it feeds a content-addressed cache key.
func (t *Exec) AnalyzeModules(ctx context.Context, jdkHome, jar string, release int) ([]string, error) {
	args := []string{"--print-module-deps", "--ignore-missing-deps", "-q"}
	if release >= 9 {
		args = append(args, "--multi-release", fmt.Sprintf("%d", release))
	}
	args = append(args, jar)

	out, err := t.run(ctx, "", binPath(jdkHome, "jdeps"), args...)
	if err != nil {
		return nil, fmt.Errorf("analyzing module dependencies: %w", err)
	}

	modules := parseModuleDeps(out)
	if len(modules) == 0 {
		return nil, fmt.Errorf("analyzing module dependencies: jdeps produced no modules for %s", jar)
	}
	return modules, nil
}

// parseModuleDeps extracts the module list from jdeps output: the last
// non-empty line is the comma-separated module set. java.base is
// always required, whether or not jdeps lists it.
func parseModuleDeps(out string) []string {
	var depsLine string
	for _, line := range strings.Split(out, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			depsLine = trimmed
		}
	}
	if depsLine == "" {
		return nil
	}

	seen := map[string]bool{"java.base": true}
	modules := []string{"java.base"}
	for _, module := range strings.Split(depsLine, ",") {
		module = strings.TrimSpace(module)
		if module == "" || seen[module] {
			continue
		}
		seen[module] = true
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}
