//go:build linux

package fs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Volume is a mounted filesystem shown under the sidebar's devices.
type Volume struct {
	Name string
	Path string
}

var pseudoFS = map[string]bool{
	"tmpfs": true, "devtmpfs": true, "cgroup": true, "cgroup2": true,
	"proc": true, "sysfs": true, "overlay": true, "squashfs": true,
}

var systemMounts = []string{"/sys", "/proc", "/dev", "/run", "/snap", "/boot"}

// Volumes lists the root plus real mounts read from /proc/mounts.
func Volumes() []Volume {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return []Volume{{Name: "/", Path: "/"}}
	}
	defer f.Close()
	return parseMounts(f)
}

func parseMounts(r io.Reader) []Volume {
	vols := []Volume{{Name: "/", Path: "/"}}
	seen := map[string]bool{"/": true}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mount, fsType := unescapeMount(fields[1]), fields[2]
		if seen[mount] || pseudoFS[fsType] || isSystemMount(mount) {
			continue
		}
		seen[mount] = true

		name := mount
		switch {
		case strings.HasPrefix(mount, "/media/"), strings.HasPrefix(mount, "/mnt/"):
			name = filepath.Base(mount)
		case mount == "/home":
			name = "Home"
		}
		vols = append(vols, Volume{Name: name, Path: mount})
	}
	return vols
}

func isSystemMount(mount string) bool {
	for _, prefix := range systemMounts {
		if mount == prefix || strings.HasPrefix(mount, prefix+"/") {
			return true
		}
	}
	return false
}

// /proc/mounts encodes spaces and tabs as octal escapes.
func unescapeMount(s string) string {
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}
