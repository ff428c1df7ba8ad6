package cmd

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastly713/shadowshare/pkg/bitmap"
	"github.com/Beastly713/shadowshare/pkg/pipeline"
	"github.com/Beastly713/shadowshare/pkg/shamir"
)

func press(t *testing.T, m model, msgs ...tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyR     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
)

// distributed writes a 6x4 secret and shadows a.bmp, b.bmp and c.bmp with
// k=2 into /shadows of a fresh appFS.
func distributed(t *testing.T) (afero.Fs, *bitmap.Image) {
	t.Helper()
	fs := afero.NewMemMapFs()
	prev := appFS
	appFS = fs
	t.Cleanup(func() { appFS = prev })

	r := rand.New(rand.NewPCG(5, 6))
	secret := grayFile(t, fs, "/in/secret.bmp", 6, 4, r)
	var covers []string
	for _, name := range []string{"/in/a.bmp", "/in/b.bmp", "/in/c.bmp"} {
		grayFile(t, fs, name, 16, 16, r)
		covers = append(covers, name)
	}
	require.NoError(t, afero.WriteFile(fs, "/shadows/notes.txt", []byte("not a shadow"), 0644))

	for seed := uint16(1); ; seed++ {
		_, err := pipeline.Distribute(context.Background(), pipeline.DistributeConfig{
			Secret: "/in/secret.bmp", Covers: covers, Threshold: 2, Seed: seed,
			OutputDir: "/shadows", Overflow: shamir.OverflowReject, FS: fs,
		})
		if errors.Is(err, shamir.ErrShareOverflow) && seed < 200 {
			continue
		}
		require.NoError(t, err)
		break
	}
	return fs, secret
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInteractiveRecover(t *testing.T) {
	fs, secret := distributed(t)

	m := initialModel("/shadows")
	names := make([]string, len(m.files))
	for i, f := range m.files {
		names[i] = f.name
	}
	assert.Equal(t, []string{"..", "a.bmp", "b.bmp", "c.bmp"}, names)

	// one shadow is not enough
	m, _ = press(t, m, keyDown, keySpace, keyR)
	assert.False(t, m.naming)
	assert.Contains(t, m.status, "at least 2")

	// select b.bmp too, give k and name the output
	m, _ = press(t, m, keyDown, keySpace, keyR)
	require.True(t, m.naming)

	m, _ = press(t, m, typed("2"), keyEnter)
	require.Equal(t, 2, m.threshold)

	m, _ = press(t, m, typed("out.bmp"))
	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)
	assert.False(t, m.naming)

	next, _ := m.Update(cmd())
	m = next.(model)
	assert.Contains(t, m.status, "Success")

	got, err := bitmap.Load(fs, "/shadows/out.bmp")
	require.NoError(t, err)
	assert.Equal(t, secret.Pixels, got.Pixels)

	assert.Contains(t, m.View(), "out.bmp")
}

func TestInteractiveRecoverExtraShadows(t *testing.T) {
	fs, secret := distributed(t)

	// all three shadows of a k=2 distribution
	m := initialModel("/shadows")
	m, _ = press(t, m, keyDown, keySpace, keyDown, keySpace, keyDown, keySpace, keyR)
	require.True(t, m.naming)

	m, _ = press(t, m, keyEnter)
	assert.Zero(t, m.threshold, "k is required")
	assert.Contains(t, m.status, "between 2 and 3")

	m, _ = press(t, m, typed("4"), keyEnter)
	assert.Zero(t, m.threshold, "k above the selection")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, typed("2"), keyEnter)
	require.Equal(t, 2, m.threshold)

	m, _ = press(t, m, typed("all.bmp"))
	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)

	next, _ := m.Update(cmd())
	m = next.(model)
	assert.Contains(t, m.status, "Success")

	got, err := bitmap.Load(fs, "/shadows/all.bmp")
	require.NoError(t, err)
	assert.Equal(t, secret.Pixels, got.Pixels)
}

func TestInteractiveCancel(t *testing.T) {
	distributed(t)

	m := initialModel("/shadows")
	m, _ = press(t, m, keyDown, keySpace, keyDown, keySpace, keyR, typed("2"), keyEnter)
	require.Equal(t, 2, m.threshold)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.naming)
	assert.Zero(t, m.threshold)
	assert.Equal(t, browseHelp, m.status)
	assert.Empty(t, m.kInput.Value())
}
