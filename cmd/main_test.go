package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/richard-senior/spiro/internal/config"
	"github.com/richard-senior/spiro/pkg/spiro"
	"github.com/richard-senior/spiro/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, dbPath string) *config.SpiroConfig {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DbPath = dbPath
	return cfg
}

// requireFreshParams checks a session started from randomized defaults
func requireFreshParams(t *testing.T, p spiro.Params) {
	t.Helper()
	require.NoError(t, p.Validate())
	assert.Equal(t, spiro.DefaultParamMax, p.ParamMax)
	assert.Equal(t, spiro.LightRed, p.Color)
	assert.Equal(t, spiro.DefaultWidth, p.Width)
	assert.Less(t, p.A, spiro.DefaultParamMax)
	assert.Less(t, p.B, spiro.DefaultParamMax)
	assert.Less(t, p.C, spiro.DefaultParamMax)
}

func TestOpenSessionWithCorruptDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spiro.db")
	junk := bytes.Repeat([]byte("not a sqlite database "), 64)
	require.NoError(t, os.WriteFile(path, junk, 0644))

	session, st := openSession(testConfig(t, path), false)
	defer st.Close()

	assert.IsType(t, &store.MemoryStore{}, st)
	requireFreshParams(t, session.Params())
	assert.NoError(t, session.Save())
	assert.Len(t, session.Frame().Points, spiro.SampleCount(session.Params().A))
}

func TestOpenSessionWithUncreatableDirectory(t *testing.T) {
	// a regular file where the assets directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	session, st := openSession(testConfig(t, filepath.Join(blocker, "nested", "spiro.db")), false)
	defer st.Close()

	requireFreshParams(t, session.Params())
	assert.NoError(t, session.Save())
}

func TestOpenSessionRestoresSavedSettings(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "state", "spiro.db"))

	session, st := openSession(cfg, false)
	want := session.Update(func(p *spiro.Params) {
		p.SetA(5)
		p.SetB(7)
		p.SetC(3)
		p.SetWidth(2)
	})
	require.NoError(t, session.Save())
	require.NoError(t, st.Close())

	session, st = openSession(cfg, false)
	defer st.Close()
	assert.Equal(t, want, session.Params())
}

func TestOpenSessionInMemory(t *testing.T) {
	session, st := openSession(testConfig(t, filepath.Join(t.TempDir(), "unused.db")), true)
	defer st.Close()

	_, isMemory := st.(*store.MemoryStore)
	assert.True(t, isMemory)
	requireFreshParams(t, session.Params())
}
