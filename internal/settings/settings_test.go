package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFakeLibclang(t *testing.T, dir string) {
	t.Helper()
	names, ok := libNames[runtime.GOOS]
	if !ok || len(names) == 0 {
		t.Skip("no known libclang name for " + runtime.GOOS)
	}
	if err := os.WriteFile(filepath.Join(dir, names[0]), []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingPathIsNotAnError(t *testing.T) {
	f, err := Load("")
	if err != nil || f != nil {
		t.Fatalf("Load(\"\") = %v, %v; want nil, nil", f, err)
	}
}

func TestDiscoverLibclangPrefersSettingsFile(t *testing.T) {
	libDir := t.TempDir()
	writeFakeLibclang(t, libDir)

	settingsDir := t.TempDir()
	settingsPath := filepath.Join(settingsDir, "settings.json")
	body, err := json.Marshal(File{LLVMBinPath: libDir})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(settingsPath, body, 0o644); err != nil {
		t.Fatal(err)
	}

	status := DiscoverLibclang(settingsPath, "")
	if !status.Found || status.Source != SourceSettings || status.Path != libDir {
		t.Fatalf("status = %+v, want Found=true Source=settings Path=%s", status, libDir)
	}
}

func TestDiscoverLibclangFallsBackToEnvVar(t *testing.T) {
	libDir := t.TempDir()
	writeFakeLibclang(t, libDir)

	t.Setenv("LIBCLANG_PATH", libDir)

	status := DiscoverLibclang("", "")
	if !status.Found || status.Source != SourceEnv {
		t.Fatalf("status = %+v, want Found=true Source=env_var", status)
	}
}

func TestDiscoverLibclangFallsBackToBundledPath(t *testing.T) {
	t.Setenv("LIBCLANG_PATH", "")

	bundled := t.TempDir()
	writeFakeLibclang(t, bundled)

	status := DiscoverLibclang("", bundled)
	if !status.Found {
		t.Fatalf("status = %+v, want bundled path to be found when nothing else matches", status)
	}
}
