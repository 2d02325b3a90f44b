package pack

import (
	"fmt"
	"strings"

	"github.com/jbundle/jbundle/types"
)

// PayloadMarker is the final line of every stub. The compressed
// payload begins at the byte immediately after it.
const PayloadMarker = "# --- PAYLOAD BELOW ---\n"

// banner is the full startup banner, written to stderr on every
// launch.
const banner = `cat >&2 <<'BANNER'
   _ _                    _ _
  (_) |__  _   _ _ __   __| | | ___
  | | '_ \| | | | '_ \ / _` + "`" + ` | |/ _ \
  | | |_) | |_| | | | | (_| | |  __/
 _/ |_.__/ \__,_|_| |_|\__,_|_|\___|
|__/
BANNER
`

// StubParams parameterizes the launcher stub.
type StubParams struct {
	// CacheID is the payload content identifier; it keys the
	// launcher-side extraction cache.
	CacheID string
	// PayloadSize is the exact byte length of the payload appended
	// after the stub. Extraction reads exactly this many trailing
	// bytes of the artifact's own file.
	PayloadSize int64
	// JVMArgs are inserted verbatim, space-joined, between the
	// runtime binary invocation and the -jar argument.
	JVMArgs       []string
	Profile       types.JVMProfile
	HasAppCDS     bool
	HasCRaC       bool
	CompactBanner bool
}

// GenerateStub renders the POSIX shell launcher stub. The text is
// LF-only UTF-8, so its byte length is reproducible across build
// hosts.
//
// The stub implements the launcher state machine: check the keyed
// cache directory; when absent, extract the trailing PAYLOAD_SIZE
// bytes of the running file into a temp directory and promote it with
// a rename, so a concurrent first run converges on one winner; then
// replace the process image with the cached runtime.
func GenerateStub(p StubParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#!/bin/sh\nset -e\n")
	fmt.Fprintf(&b, "CACHE_ID=%q\n", p.CacheID)
	b.WriteString("CACHE_DIR=\"${HOME}/.jbundle/cache/${CACHE_ID}\"\n")
	fmt.Fprintf(&b, "PAYLOAD_SIZE=%d\n\n", p.PayloadSize)

	if p.CompactBanner {
		b.WriteString("echo \"jbundle\" >&2\n")
	} else {
		b.WriteString(banner)
	}
	b.WriteString("\n")

	b.WriteString(`if [ ! -d "$CACHE_DIR/runtime" ]; then
    WORK_DIR="${CACHE_DIR}.tmp.$$"
    rm -rf "$WORK_DIR"
    mkdir -p "$WORK_DIR"
    echo "Extracting runtime (first run)..." >&2
    tail -c "$PAYLOAD_SIZE" "$0" | tar xzf - -C "$WORK_DIR"
    if [ ! -d "$CACHE_DIR/runtime" ]; then
        mv "$WORK_DIR" "$CACHE_DIR" 2>/dev/null
    fi
    rm -rf "$WORK_DIR"
fi

`)

	if p.HasCRaC {
		b.WriteString(`if [ -d "$CACHE_DIR/crac" ]; then
    exec "$CACHE_DIR/runtime/bin/java" -XX:CRaCRestoreFrom="$CACHE_DIR/crac" "$@"
fi

`)
	}

	fmt.Fprintf(&b, "exec \"$CACHE_DIR/runtime/bin/java\"%s -jar \"$CACHE_DIR/app.jar\" \"$@\"\n", launchArgs(p))
	b.WriteString("exit 0\n")
	b.WriteString(PayloadMarker)

	return b.String()
}

// launchArgs renders the flags between the java binary and -jar:
// profile flags, then the configured JVM args, then the shared
// archive flag. Each argument carries a leading space.
func launchArgs(p StubParams) string {
	args := p.Profile.Flags()
	args = append(args, p.JVMArgs...)
	if p.HasAppCDS {
		args = append(args, `-XX:SharedArchiveFile="$CACHE_DIR/app.jsa"`)
	}
	if len(args) == 0 {
		return ""
	}
	return " " + strings.Join(args, " ")
}
