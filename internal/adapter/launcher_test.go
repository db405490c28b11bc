package adapter

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func recordingLauncher(l *Launcher, fail map[string]bool) *[]call {
	var calls []call
	l.run = func(name string, args ...string) error {
		calls = append(calls, call{name, args})
		if fail[name] {
			return errors.New("not found")
		}
		return nil
	}
	return &calls
}

func TestLaunch_ConfiguredPlayer(t *testing.T) {
	l := NewLauncher("/usr/bin/mpv", []string{"--fs"}, "", NullLogger())
	calls := recordingLauncher(l, nil)

	require.NoError(t, l.Launch("http://x/a.m3u8", "Alien"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "/usr/bin/mpv", (*calls)[0].name)
	assert.Equal(t, []string{"--fs", "--force-media-title=Alien", "http://x/a.m3u8"}, (*calls)[0].args)
}

func TestLaunch_UnknownPlayerGetsNoTitle(t *testing.T) {
	l := NewLauncher("myplayer", nil, "", NullLogger())
	calls := recordingLauncher(l, nil)

	require.NoError(t, l.Launch("http://x/a", "Alien"))
	assert.Equal(t, []string{"http://x/a"}, (*calls)[0].args)
}

func TestLaunch_ExplicitTitleFlag(t *testing.T) {
	l := NewLauncher("vlc", nil, "--title=", NullLogger())
	calls := recordingLauncher(l, nil)

	require.NoError(t, l.Launch("http://x/a", "Alien"))
	assert.Equal(t, []string{"--title=Alien", "http://x/a"}, (*calls)[0].args)
}

func TestLaunch_EmptyURL(t *testing.T) {
	l := NewLauncher("mpv", nil, "", NullLogger())
	calls := recordingLauncher(l, nil)

	assert.Error(t, l.Launch("", "Alien"))
	assert.Empty(t, *calls)
}

func TestLaunch_FallsBackToSystemDefault(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("default handler differs per platform")
	}
	l := NewLauncher("", nil, "", NullLogger())
	fail := map[string]bool{}
	for _, p := range players {
		for _, c := range p.commands {
			fail[c] = true
		}
	}
	calls := recordingLauncher(l, fail)

	require.NoError(t, l.Launch("http://x/a", ""))
	last := (*calls)[len(*calls)-1]
	assert.Equal(t, call{"xdg-open", []string{"http://x/a"}}, last)
}
