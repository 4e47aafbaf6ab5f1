//go:build !linux

package fs

// Volume is a mounted filesystem shown under the sidebar's devices.
type Volume struct {
	Name string
	Path string
}

// Volumes lists only the filesystem root on this platform.
func Volumes() []Volume {
	return []Volume{{Name: "/", Path: "/"}}
}
