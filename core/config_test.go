package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niclabs/p11pal/objects"
	"github.com/niclabs/p11pal/storage/fs"
	"github.com/niclabs/p11pal/storage/pebble"
	"github.com/niclabs/p11pal/storage/sqlite3"
)

func loadConfig(t *testing.T, content string) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, LoadConfig(path))
}

func TestLoadConfig_Defaults(t *testing.T) {
	loadConfig(t, "")

	config, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "fs", config.PAL.StorageType)
	assert.Equal(t, "info", config.General.LogLevel)
	assert.Zero(t, config.PAL.MaxObjectSize)
	assert.Equal(t, objects.Labels{}, config.PAL.Labels)

	fsConfig, err := fs.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, ".", fsConfig.Directory)
}

func TestLoadConfig_File(t *testing.T) {
	loadConfig(t, `
general:
  loglevel: debug
pal:
  storagetype: sqlite3
  maxobjectsize: 4096
  labels:
    privatekey: Fleet Key
    codesigningkey: OTA Key
sqlite3:
  path: /var/lib/p11pal/objects.db
`)

	config, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", config.General.LogLevel)
	assert.Equal(t, "sqlite3", config.PAL.StorageType)
	assert.Equal(t, 4096, config.PAL.MaxObjectSize)
	assert.Equal(t, objects.Labels{PrivateKey: "Fleet Key", CodeSigningKey: "OTA Key"}, config.PAL.Labels)

	sqliteConfig, err := sqlite3.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/p11pal/objects.db", sqliteConfig.Path)

	pebbleConfig, err := pebble.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "p11pal.pebble", pebbleConfig.Path)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	assert.Error(t, LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestNewStorage(t *testing.T) {
	dir := t.TempDir()
	loadConfig(t, "fs:\n  directory: "+dir+"\n"+
		"sqlite3:\n  path: "+filepath.Join(dir, "pal.db")+"\n"+
		"pebble:\n  path: "+filepath.Join(dir, "pal.pebble")+"\n")

	s, err := NewStorage("fs")
	require.NoError(t, err)
	assert.IsType(t, &fs.Storage{}, s)

	s, err = NewStorage("sqlite3")
	require.NoError(t, err)
	assert.IsType(t, &sqlite3.DB{}, s)
	require.NoError(t, s.CloseStorage())

	s, err = NewStorage("pebble")
	require.NoError(t, err)
	assert.IsType(t, &pebble.DB{}, s)
	require.NoError(t, s.CloseStorage())

	_, err = NewStorage("floppy")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "pal.log")
	logger, err := NewLogger(GeneralConfig{LogFile: logFile, LogLevel: "debug"})
	require.NoError(t, err)
	logger.Debug("hello")
	_ = logger.Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")

	_, err = NewLogger(GeneralConfig{LogLevel: "loud"})
	assert.Error(t, err)
}
