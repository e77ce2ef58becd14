package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchSettingsFile_AppliesExternalEdit(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")

	changes := make(chan PanelSettings, 1)
	watcher, err := watchSettingsFile(settingsPath, func(s PanelSettings) {
		select {
		case changes <- s:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	content := `{"address":"https://example.com/docs","width":500,"height":700}`
	if err := os.WriteFile(settingsPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	select {
	case settings := <-changes:
		if settings.Address != "https://example.com/docs" {
			t.Errorf("Expected address https://example.com/docs, got %s", settings.Address)
		}
		if settings.Width != 500 || settings.Height != 700 {
			t.Errorf("Expected size 500x700, got %dx%d", settings.Width, settings.Height)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Timed out waiting for settings change")
	}
}

func TestWatchSettingsFile_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")

	changes := make(chan PanelSettings, 1)
	watcher, err := watchSettingsFile(settingsPath, func(s PanelSettings) {
		select {
		case changes <- s:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	otherPath := filepath.Join(dir, "other.json")
	if err := os.WriteFile(otherPath, []byte(`{}`), 0644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}

	select {
	case settings := <-changes:
		t.Errorf("Expected no change for unrelated file, got %+v", settings)
	case <-time.After(SettingsDebounceDelay + 500*time.Millisecond):
	}
}

func TestWatchSettingsFile_StopIsClean(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")

	watcher, err := watchSettingsFile(settingsPath, func(PanelSettings) {})
	if err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// Stop must not panic or hang, even right after start
	watcher.Stop()
}

func TestReadPanelSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		wantErr bool
		want    PanelSettings
	}{
		{
			name:    "missing file returns defaults",
			missing: true,
			want:    PanelSettings{Width: DefaultPanelWidth, Height: DefaultPanelHeight},
		},
		{
			name:    "valid settings",
			content: `{"address":"https://example.com","width":500,"height":700,"openOnStartup":true}`,
			want:    PanelSettings{Address: "https://example.com", Width: 500, Height: 700, OpenOnStartup: true},
		},
		{
			name:    "invalid JSON returns defaults with error",
			content: `{not json`,
			wantErr: true,
			want:    PanelSettings{Width: DefaultPanelWidth, Height: DefaultPanelHeight},
		},
		{
			name:    "non-positive sizes fall back to defaults",
			content: `{"address":"https://example.com","width":0,"height":-10}`,
			want:    PanelSettings{Address: "https://example.com", Width: DefaultPanelWidth, Height: DefaultPanelHeight},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			if !tt.missing {
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatalf("Failed to write settings: %v", err)
				}
			}

			settings, err := readPanelSettings(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if settings != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, settings)
			}
		})
	}
}
