package profile_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"i4.energy/across/wifictl/profile"
	"i4.energy/across/wifictl/wifi"
)

func TestStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	s, err := profile.Open(path, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	home := wifi.NetworkProfile{SSID: "home", Password: "secret", Security: wifi.SecurityWPA2}
	office := wifi.NetworkProfile{SSID: "office", Security: wifi.SecurityOpen}
	lab := wifi.NetworkProfile{SSID: "lab", Password: "x", Security: wifi.SecurityWPA3}

	i, err := s.Add(home)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = s.Add(office)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	got, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, home, got)

	// Deleting frees the slot for the next Add
	require.NoError(t, s.Delete(0))
	_, err = s.Get(0)
	require.ErrorIs(t, err, profile.ErrNotFound)

	i, err = s.Add(lab)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	got, err = s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, office, got, "other profiles keep their index")

	_, err = s.Add(home)
	require.NoError(t, err)
	_, err = s.Add(home)
	require.ErrorIs(t, err, profile.ErrFull)

	require.ErrorIs(t, s.Delete(7), profile.ErrNotFound)
	require.ErrorIs(t, s.Delete(-1), profile.ErrNotFound)
}

func TestStorePersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	s, err := profile.Open(path, 0)
	require.NoError(t, err)

	_, err = s.Add(wifi.NetworkProfile{SSID: "a"})
	require.NoError(t, err)
	_, err = s.Add(wifi.NetworkProfile{SSID: "b", Password: "pw", Security: wifi.SecurityWPA})
	require.NoError(t, err)
	_, err = s.Add(wifi.NetworkProfile{SSID: "c"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(1))
	require.NoError(t, s.Delete(2))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := profile.Open(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())

	got, err := reopened.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "a", got.SSID)

	// No temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("null slots", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		doc := "profiles:\n- null\n- ssid: home\n  password: pw\n  security: wpa2\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		s, err := profile.Open(path, 4)
		require.NoError(t, err)

		_, err = s.Get(0)
		require.ErrorIs(t, err, profile.ErrNotFound)

		got, err := s.Get(1)
		require.NoError(t, err)
		assert.Equal(t, wifi.NetworkProfile{SSID: "home", Password: "pw", Security: wifi.SecurityWPA2}, got)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles: [\n"), 0o600))

		_, err := profile.Open(path, 4)
		require.Error(t, err)
	})

	t.Run("unknown security", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles:\n- ssid: x\n  security: rot13\n"), 0o600))

		_, err := profile.Open(path, 4)
		require.Error(t, err)
	})

	t.Run("over capacity", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles:\n- ssid: a\n- ssid: b\n"), 0o600))

		_, err := profile.Open(path, 1)
		require.Error(t, err)
	})
}

func TestStoreConcurrentAdd(t *testing.T) {
	t.Parallel()

	s, err := profile.Open(filepath.Join(t.TempDir(), "profiles.yaml"), 16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	indexes := make(chan int, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			i, err := s.Add(wifi.NetworkProfile{SSID: "n"})
			assert.NoError(t, err)
			indexes <- i
		}()
	}
	wg.Wait()
	close(indexes)

	seen := map[int]bool{}
	for i := range indexes {
		assert.False(t, seen[i], "index %d handed out twice", i)
		seen[i] = true
	}
	assert.Equal(t, 16, s.Len())
}
