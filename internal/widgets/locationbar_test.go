package widgets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/fileman/internal/bus"
)

func TestBreadcrumbs(t *testing.T) {
	tests := []struct {
		path string
		want []Crumb
	}{
		{"", nil},
		{"/", []Crumb{{Label: "/", Path: "/"}}},
		{"/home/user", []Crumb{
			{Label: "/", Path: "/", Clickable: true},
			{Label: "home", Path: "/home", Clickable: true},
			{Label: "user", Path: "/home/user"},
		}},
		{"/tmp//x/", []Crumb{
			{Label: "/", Path: "/", Clickable: true},
			{Label: "tmp", Path: "/tmp", Clickable: true},
			{Label: "x", Path: "/tmp/x"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Breadcrumbs(tt.path))
		})
	}
}

func TestLocationBarClickCrumb(t *testing.T) {
	b := NewLocationBar("/home/user", bus.NewQueue[bus.Status]())
	b.SetPath("/home/user/docs")

	require.Len(t, b.Crumbs(), 4)
	b.ClickCrumb(3)
	assert.False(t, b.Update(), "last crumb is not clickable")
	assert.Equal(t, "/home/user/docs", b.Path())

	b.ClickCrumb(9)
	assert.False(t, b.Update())

	b.ClickCrumb(1)
	assert.True(t, b.Update())
	assert.Equal(t, "/home", b.Path())
	assert.Len(t, b.Crumbs(), 2)
}

func TestLocationBarSubmit(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), nil, 0o644))

	status := bus.NewQueue[bus.Status]()
	b := NewLocationBar(root, status)
	b.SetPath(root)

	b.Submit("sub")
	assert.True(t, b.Update())
	assert.Equal(t, sub, b.Path())

	b.Submit("~")
	assert.True(t, b.Update())
	assert.Equal(t, root, b.Path())

	b.Submit("file")
	assert.False(t, b.Update())
	assert.Equal(t, root, b.Path())
	msgs := status.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, bus.StatusError, msgs[0].Kind)
	assert.Contains(t, msgs[0].Text, "not a directory")
}
