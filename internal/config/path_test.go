package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("PARA_TEST_DIR", "/srv/notes")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "absolute untouched", in: "/var/lib/para", want: "/var/lib/para"},
		{name: "tilde slash", in: "~/Documents/vault", want: filepath.Join(home, "Documents/vault")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$PARA_TEST_DIR/inbox", want: "/srv/notes/inbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
