package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool installs an executable script on PATH that prints a version line.
func fakeTool(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
}

func TestCheckTools(t *testing.T) {
	dir := t.TempDir()
	fakeTool(t, dir, "flutter", `echo "Flutter 3.24.0 - channel stable"`)
	fakeTool(t, dir, "dart", `echo "Dart SDK version: 3.5.0" >&2`)
	fakeTool(t, dir, "pod", "exit 1")
	t.Setenv("PATH", dir)

	doctor := NewDoctor(WithTools("flutter", "dart", "pod", "firebase"))
	statuses := doctor.CheckTools(context.Background())
	require.Len(t, statuses, 4)

	t.Run("installed tool reports version", func(t *testing.T) {
		flutter := statuses[0]
		assert.Equal(t, "flutter", flutter.Name)
		assert.True(t, flutter.Installed())
		assert.NoError(t, flutter.Err)
		assert.Equal(t, "Flutter 3.24.0 - channel stable", flutter.Version)
	})

	t.Run("stderr version output is captured", func(t *testing.T) {
		dart := statuses[1]
		assert.True(t, dart.Installed())
		assert.Equal(t, "Dart SDK version: 3.5.0", dart.Version)
	})

	t.Run("failing version probe reports error", func(t *testing.T) {
		pod := statuses[2]
		assert.True(t, pod.Installed())
		assert.Error(t, pod.Err)
	})

	t.Run("missing tool reports not found", func(t *testing.T) {
		firebase := statuses[3]
		assert.False(t, firebase.Installed())
		require.Error(t, firebase.Err)
		assert.Contains(t, firebase.Err.Error(), "not found on PATH")
	})
}

func TestDefaultTools(t *testing.T) {
	doctor := NewDoctor()
	assert.Equal(t, DefaultTools, doctor.tools)
}

func TestClassifyDaemon(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    string
	}{
		{
			name:    "gradle daemon",
			cmdline: "/usr/bin/java -cp gradle-launcher.jar org.gradle.launcher.daemon.bootstrap.GradleDaemon 8.7",
			want:    "gradle",
		},
		{
			name:    "dart frontend server",
			cmdline: "/opt/flutter/bin/cache/dart-sdk/bin/dart frontend_server.dart.snapshot --sdk-root",
			want:    "dart",
		},
		{
			name:    "dart vm service",
			cmdline: "dart --enable-vm-service run bin/main.dart",
			want:    "dart",
		},
		{
			name:    "unrelated process",
			cmdline: "/usr/bin/vim pubspec.yaml",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDaemon(tt.cmdline))
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Flutter 3.24.0", firstLine("Flutter 3.24.0\nTools revision abc\n"))
	assert.Equal(t, "one line", firstLine("  one line  "))
	assert.Equal(t, "", firstLine(""))
}
