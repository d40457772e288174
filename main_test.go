package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Koldun" {
		t.Errorf("Expected app name Koldun, got %s", AppName)
	}
}

func TestCommands(t *testing.T) {
	app := newApp()
	want := []string{"play", "window", "serve", "mcp", "atlas", "levels"}
	for _, name := range want {
		if app.Command(name) == nil {
			t.Errorf("Expected command %s", name)
		}
	}
	if app.DefaultCommand != "play" {
		t.Errorf("Expected play as default command, got %s", app.DefaultCommand)
	}
}

func TestFlagDefaults(t *testing.T) {
	serve := newApp().Command("serve")
	var port, host bool
	for _, f := range serve.Flags {
		for _, name := range f.Names() {
			switch name {
			case "port":
				port = true
			case "host":
				host = true
			}
		}
	}
	if !port || !host {
		t.Error("serve should define --host and --port")
	}
}

func TestLevelsCommand(t *testing.T) {
	// levels writes to stdout; run it through the app to check wiring.
	if err := newApp().Run(context.Background(), []string{"koldun", "levels"}); err != nil {
		t.Fatalf("levels failed: %v", err)
	}
}

func TestLevelsCommand_InvalidDir(t *testing.T) {
	err := newApp().Run(context.Background(), []string{"koldun", "--levels-dir", "/non/existent/path", "levels"})
	if err == nil {
		t.Error("Expected error for non-existent level directory")
	}
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	good, err := os.ReadFile(filepath.Join("game", "config", "levels", "level1.yaml"))
	if err != nil {
		t.Skip("built-in levels not found")
	}
	goodPath := filepath.Join(dir, "level1.yaml")
	badPath := filepath.Join(dir, "bad.yaml")
	os.WriteFile(goodPath, good, 0644)
	os.WriteFile(badPath, []byte("id: bad\nname: Bad\nlayout: []\n"), 0644)

	var out bytes.Buffer
	if err := validateFiles(&out, []string{goodPath}); err != nil {
		t.Errorf("Expected level1 to validate, got %v: %s", err, out.String())
	}

	out.Reset()
	err = validateFiles(&out, []string{goodPath, badPath, filepath.Join(dir, "missing.yaml")})
	if !errors.Is(err, errInvalidLevels) {
		t.Errorf("Expected errInvalidLevels, got %v", err)
	}
	if strings.Count(out.String(), "INVALID") != 2 {
		t.Errorf("Expected two invalid files, got:\n%s", out.String())
	}
}

func TestAtlasCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.bin")
	if err := newApp().Run(context.Background(), []string{"koldun", "atlas", path}); err != nil {
		t.Fatalf("atlas failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Atlas not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Atlas is empty")
	}

	if err := newApp().Run(context.Background(), []string{"koldun", "atlas"}); err == nil {
		t.Error("Expected error without a file name")
	}
}

func TestOpenAssets(t *testing.T) {
	if _, err := openAssets(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("Expected error for a missing atlas file")
	}
}
