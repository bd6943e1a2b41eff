package main

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/powerfolio/powerfolio/internal/config"
)

const releaseEndpoint = "https://api.github.com/repos/powerfolio/powerfolio/releases/latest"

var (
	errNoAsset     = errors.New("release has no build for this platform")
	errNoChecksums = errors.New("release checksums missing")
	errNoBinary    = errors.New("powerfolio binary not found in tarball")
)

// release is the slice of the GitHub release payload the updater reads.
type release struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

func (r release) version() string {
	return strings.TrimPrefix(r.TagName, "v")
}

func (r release) assetURL(name string) string {
	for _, a := range r.Assets {
		if a.Name == name {
			return a.BrowserDownloadURL
		}
	}
	return ""
}

// parseVersion splits a semver-ish tag into its numeric fields. Missing
// or garbled fields read as zero.
func parseVersion(v string) [3]int {
	var out [3]int
	parts := strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3)
	for i := 0; i < len(parts) && i < 3; i++ {
		n, _ := strconv.Atoi(parts[i]) //nolint:errcheck // zero on parse failure is desired
		out[i] = n
	}
	return out
}

// newerVersion reports whether latest is strictly newer than current.
func newerVersion(latest, current string) bool {
	l, c := parseVersion(latest), parseVersion(current)
	for i := range l {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

// updater swaps the running binary for the latest release build. Every
// step logs through the same file logger the TUI uses.
type updater struct {
	http *http.Client
	log  zerolog.Logger
}

func runUpdate(cfg config.Config) error {
	if version == "dev" {
		fmt.Println("dev build — install a release to enable updates")
		return nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("update: find executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("update: resolve symlinks: %w", err)
	}

	u := &updater{
		http: &http.Client{Timeout: 15 * time.Second},
		log:  fileLogger(cfg).With().Str("component", "updater").Logger(),
	}

	rel, err := u.latest()
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	current := strings.TrimPrefix(version, "v")
	if !newerVersion(rel.version(), current) {
		printAlreadyCurrent("v" + current)
		return nil
	}
	u.log.Info().Str("current", current).Str("latest", rel.version()).Msg("newer release available")

	newBin, cleanup, err := u.fetch(rel)
	defer cleanup()
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if err := replaceBinary(execPath, newBin); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	u.log.Info().Str("path", execPath).Str("version", rel.version()).Msg("binary replaced")

	// Re-exec into the new binary so its own code prints the success
	// note; the running process still holds the old code in memory.
	if err := syscall.Exec(execPath, []string{"powerfolio", "--update-done", "v" + current, "v" + rel.version()}, os.Environ()); err != nil {
		printUpdateSuccess("v"+current, "v"+rel.version())
	}
	return nil
}

// latest fetches the newest release from the GitHub API.
func (u *updater) latest() (release, error) {
	var rel release
	resp, err := u.http.Get(releaseEndpoint)
	if err != nil {
		return rel, fmt.Errorf("check releases: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return rel, fmt.Errorf("release lookup returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return rel, fmt.Errorf("parse release: %w", err)
	}
	return rel, nil
}

// fetch downloads the platform tarball, verifies it against the
// release's checksum manifest and extracts the binary. The returned
// cleanup removes the temp workspace.
func (u *updater) fetch(rel release) (string, func(), error) {
	tarballName := fmt.Sprintf("powerfolio_%s_%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	tarballURL := rel.assetURL(tarballName)
	if tarballURL == "" {
		return "", func() {}, fmt.Errorf("%w: %s in %s", errNoAsset, tarballName, rel.TagName)
	}
	sumsURL := rel.assetURL("checksums.txt")
	if sumsURL == "" {
		return "", func() {}, fmt.Errorf("%w in %s", errNoChecksums, rel.TagName)
	}

	dir, err := os.MkdirTemp("", "powerfolio-update-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) } //nolint:errcheck

	tarballPath := filepath.Join(dir, tarballName)
	if err := u.download(tarballURL, tarballPath); err != nil {
		return "", cleanup, fmt.Errorf("download %s: %w", tarballName, err)
	}
	u.log.Debug().Str("asset", tarballName).Msg("tarball downloaded")

	sumsData, err := u.downloadBytes(sumsURL)
	if err != nil {
		return "", cleanup, fmt.Errorf("download checksums: %w", err)
	}
	if err := verifyTarball(tarballPath, parseChecksums(sumsData)); err != nil {
		return "", cleanup, err
	}
	u.log.Debug().Str("asset", tarballName).Msg("checksum verified")

	binPath := filepath.Join(dir, "powerfolio")
	if err := extractBinary(tarballPath, binPath); err != nil {
		return "", cleanup, err
	}
	return binPath, cleanup, nil
}

func (u *updater) download(url, dest string) error {
	resp, err := u.http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %s from %s", resp.Status, url)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()                   //nolint:errcheck
	const maxDownloadSize = 100 << 20 // 100 MB
	_, err = io.Copy(f, io.LimitReader(resp.Body, maxDownloadSize))
	return err
}

func (u *updater) downloadBytes(url string) ([]byte, error) {
	resp, err := u.http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %s from %s", resp.Status, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// parseChecksums reads a sha256sum-style manifest into a map keyed by
// file name.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			sums[fields[1]] = fields[0]
		}
	}
	return sums
}

// verifyTarball checks path against its entry in the manifest.
func verifyTarball(path string, sums map[string]string) error {
	name := filepath.Base(path)
	want, ok := sums[name]
	if !ok {
		return fmt.Errorf("%w: no entry for %s", errNoChecksums, name)
	}
	got, err := fileSHA256(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("checksum mismatch for %s: want %s, got %s", name, want, got)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// extractBinary pulls the powerfolio binary out of the release tarball,
// ignoring any other entries.
func extractBinary(tarballPath, dest string) error {
	f, err := os.Open(tarballPath)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close() //nolint:errcheck

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return errNoBinary
		}
		if err != nil {
			return fmt.Errorf("tar read: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || filepath.Base(hdr.Name) != "powerfolio" {
			continue
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
		if err != nil {
			return err
		}
		const maxBinarySize = 200 << 20 // 200 MB
		if _, err := io.Copy(out, io.LimitReader(tr, maxBinarySize)); err != nil {
			out.Close() //nolint:errcheck
			return err
		}
		return out.Close()
	}
}

// replaceBinary stages newBin next to execPath and renames it into
// place, which is atomic on the same filesystem.
func replaceBinary(execPath, newBin string) error {
	stagePath := execPath + ".new"
	defer os.Remove(stagePath) //nolint:errcheck

	src, err := os.Open(newBin)
	if err != nil {
		return fmt.Errorf("open extracted binary: %w", err)
	}
	defer src.Close() //nolint:errcheck

	dst, err := os.OpenFile(stagePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied writing to %s — try with sudo", filepath.Dir(execPath))
		}
		return fmt.Errorf("stage binary: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close() //nolint:errcheck
		return fmt.Errorf("write staged binary: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close staged binary: %w", err)
	}

	if err := os.Rename(stagePath, execPath); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied replacing %s — try with sudo", execPath)
		}
		return fmt.Errorf("replace binary: %w", err)
	}
	return nil
}

var (
	updateDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	updateNote = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	updateGood = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true)
	updateMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
)

func printUpdateSuccess(oldVersion, newVersion string) {
	fmt.Printf("\n  %s\n", updateMark.Render("P O W E R F O L I O"))
	fmt.Printf("\n  %s %s %s\n", updateDim.Render(oldVersion), updateGood.Render("→"), updateGood.Render(newVersion))
	fmt.Printf("\n  %s\n\n", updateNote.Render("Updated. Run powerfolio to see what changed."))
}

func printAlreadyCurrent(currentVersion string) {
	fmt.Printf("\n  %s\n", updateMark.Render("P O W E R F O L I O"))
	fmt.Printf("\n  %s %s %s\n", updateGood.Render(currentVersion), updateMark.Render("✦"), updateNote.Render("current"))
	fmt.Printf("\n  %s\n\n", updateNote.Render("Nothing to do. You're on the latest release."))
}
