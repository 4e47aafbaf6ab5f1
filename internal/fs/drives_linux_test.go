//go:build linux

package fs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMounts(t *testing.T) {
	table := strings.Join([]string{
		"/dev/sda1 / ext4 rw 0 0",
		"proc /proc proc rw 0 0",
		"tmpfs /tmp tmpfs rw 0 0",
		"/dev/sda2 /home ext4 rw 0 0",
		"/dev/sdb1 /media/usb\\040stick vfat rw 0 0",
		"/dev/sdc1 /run/media/x ext4 rw 0 0",
	}, "\n")
	vols := Volumes()
	require.NotEmpty(t, vols)
	assert.Equal(t, "/", vols[0].Path)

	got := parseMounts(strings.NewReader(table))
	assert.Equal(t, []Volume{
		{Name: "/", Path: "/"},
		{Name: "Home", Path: "/home"},
		{Name: "usb stick", Path: "/media/usb stick"},
	}, got)
}
