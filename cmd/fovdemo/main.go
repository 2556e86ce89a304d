// fovdemo serves an interactive field-of-view visualizer over SSH: each
// connection gets its own avatar that can walk a small builtin world (or
// one loaded from a TOML world-definition file) while the screen draws the
// avatar's current zone, lighting the tiles of that zone that internal/fov
// currently computes as visible (visible tiles in other zones are not drawn).
//
// Build:
//
//	go build -o fovdemo ./cmd/fovdemo
//
// Usage:
//
//	./fovdemo [--port 2222] [--key server_host_key] [--world path.toml] [--radius 8]
//
// Connect from any terminal:
//
//	ssh -p 2222 localhost
package main

import (
	cryptorand "crypto/rand"
	"crypto/ed25519"
	"encoding/pem"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/tilecaster/zonefov/internal/ids"
	internalterm "github.com/tilecaster/zonefov/internal/term"
	"github.com/tilecaster/zonefov/internal/world"
	"github.com/tilecaster/zonefov/internal/worlddef"
	"github.com/tilecaster/zonefov/internal/zone"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

// allowedTerms is the set of TERM values we accept from SSH clients.
// Anything not in this set is replaced with "xterm-256color".
var allowedTerms = map[string]bool{
	"xterm-256color":        true,
	"xterm":                 true,
	"xterm-color":           true,
	"screen-256color":       true,
	"screen":                true,
	"tmux-256color":         true,
	"tmux":                  true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

const maxUsernameLen = 16

// sanitizeName cleans a username for display: strips non-printable runes and
// truncates to maxUsernameLen.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsPrint(r) && !unicode.IsControl(r) {
			b.WriteRune(r)
			if b.Len() >= maxUsernameLen {
				break
			}
		}
	}
	s := b.String()
	// Truncate to maxUsernameLen runes (the byte check above is approximate
	// for multi-byte runes, so do a rune-level trim).
	runes := []rune(s)
	if len(runes) > maxUsernameLen {
		runes = runes[:maxUsernameLen]
	}
	return string(runes)
}

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	worldFile := flag.String("world", "", "Path to a TOML world-definition file (uses the builtin demo world if empty)")
	radius := flag.Int("radius", 8, "FOV radius")
	flag.Parse()

	logger := slog.Default()

	doc := worlddef.DemoDocument()
	if *worldFile != "" {
		loaded, err := worlddef.Load(*worldFile)
		if err != nil {
			logger.Error("load world", "error", err)
			os.Exit(1)
		}
		doc = loaded
	}
	w, byName, err := worlddef.Build(doc)
	if err != nil {
		logger.Error("build world", "error", err)
		os.Exit(1)
	}
	spawnZone, ok := byName["west-room"]
	if !ok {
		for _, id := range w.ZoneIDs() {
			spawnZone = id
			break
		}
	}

	signer := loadOrCreateHostKey(logger, *keyFile)

	sshSrv := &gossh.Server{
		Addr:        fmt.Sprintf(":%d", *port),
		IdleTimeout: 10 * time.Minute,
		MaxTimeout:  4 * time.Hour,
		Handler: func(s gossh.Session) {
			handleSession(logger, w, spawnZone, *radius, s)
		},
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{signer},
	}

	logger.Info("fovdemo listening", "port", *port)
	logger.Info("connect with", "cmd", fmt.Sprintf("ssh -p %d -o StrictHostKeyChecking=no localhost", *port))
	if err := sshSrv.ListenAndServe(); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}

// termMu serializes os.Setenv("TERM") around tcell screen creation.
// Multiple goroutines may create screens concurrently.
var termMu sync.Mutex

// handleSession is the gliderlabs SSH handler for one connection. The
// World is shared read-only across every connection — it is fully built
// before ListenAndServe starts and never mutated afterward — so each
// session only needs its own avatar state.
func handleSession(logger *slog.Logger, w *world.World[worlddef.TileKind], spawnZone ids.ZoneID, radius int, s gossh.Session) {
	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "This demo requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	term := "xterm-256color"
	for _, env := range s.Environ() {
		if strings.HasPrefix(env, "TERM=") {
			candidate := env[5:]
			if allowedTerms[candidate] {
				term = candidate
			}
			break
		}
	}

	tty := internalterm.NewSessionTty(s, pty, winCh)
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}
	defer screen.Fini()

	name := sanitizeName(s.User())
	if name == "" {
		name = sanitizeName(s.RemoteAddr().String())
	}
	if name == "" {
		name = "explorer"
	}
	logger.Info("session connected", "name", name, "remote", s.RemoteAddr().String())
	defer logger.Info("session disconnected", "name", name)

	sess := newFovSession(w, spawnZone, radius, screen, name)
	sess.run()
}

// ─── host key ────────────────────────────────────────────────────────────────

func loadOrCreateHostKey(logger *slog.Logger, path string) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", "path", path)
			return signer
		}
	}

	logger.Info("generating new ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(cryptorand.Reader)
	if err != nil {
		logger.Error("generate host key", "error", err)
		os.Exit(1)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		logger.Error("create signer", "error", err)
		os.Exit(1)
	}
	if pemBlock, err := xssh.MarshalPrivateKey(key, "fovdemo server"); err == nil {
		_ = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0600)
	}
	return signer
}

// spawnLocal always starts an avatar at the zone's near-center tile.
func spawnLocal(z *zone.Zone[worlddef.TileKind]) zone.LocalCoord {
	return zone.LocalCoord{X: z.Size / 2, Y: z.Size / 2}
}
