package pvctl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteCAOverrideNoBundlesNoFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCAOverride(context.Background(), dir))
	require.NoFileExists(t, filepath.Join(dir, overrideFile))
}

func TestWriteCAOverrideMountsBundles(t *testing.T) {
	dir := t.TempDir()
	caDir := filepath.Join(dir, customCADir)
	require.NoError(t, os.MkdirAll(caDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(caDir, "corp.crt"), []byte("x"), 0o640))

	require.NoError(t, WriteCAOverride(context.Background(), dir))

	b, err := os.ReadFile(filepath.Join(dir, overrideFile))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(b, &doc))
	services := doc["services"].(map[string]any)
	backend := services["backend"].(map[string]any)
	volumes := backend["volumes"].([]any)
	require.Contains(t, volumes[0], customCADir)
	require.Contains(t, doc, "x-pvctl")
}

func TestWriteCAOverrideMergesExisting(t *testing.T) {
	dir := t.TempDir()
	caDir := filepath.Join(dir, customCADir)
	require.NoError(t, os.MkdirAll(caDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(caDir, "corp.crt"), []byte("x"), 0o640))

	existing := "services:\n  frontend:\n    ports:\n      - \"8080:80\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, overrideFile), []byte(existing), 0o640))

	require.NoError(t, WriteCAOverride(context.Background(), dir))

	b, err := os.ReadFile(filepath.Join(dir, overrideFile))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(b, &doc))
	services := doc["services"].(map[string]any)
	require.Contains(t, services, "frontend")
	require.Contains(t, services, "backend")
}

func TestWriteCAOverrideRerunNeverDuplicatesMounts(t *testing.T) {
	dir := t.TempDir()
	caDir := filepath.Join(dir, customCADir)
	require.NoError(t, os.MkdirAll(caDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(caDir, "corp.crt"), []byte("x"), 0o640))

	require.NoError(t, WriteCAOverride(context.Background(), dir))
	require.NoError(t, WriteCAOverride(context.Background(), dir))

	b, err := os.ReadFile(filepath.Join(dir, overrideFile))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(b, &doc))
	services := doc["services"].(map[string]any)
	backend := services["backend"].(map[string]any)
	volumes := backend["volumes"].([]any)
	require.Len(t, volumes, 1)
}

func TestWriteCAOverrideScalarAnnotationOverwritten(t *testing.T) {
	dir := t.TempDir()
	caDir := filepath.Join(dir, customCADir)
	require.NoError(t, os.MkdirAll(caDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(caDir, "corp.crt"), []byte("x"), 0o640))

	// A hand-edited override may carry anything under the annotation key.
	existing := "x-pvctl: edited-by-hand\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, overrideFile), []byte(existing), 0o640))

	require.NoError(t, WriteCAOverride(context.Background(), dir))

	b, err := os.ReadFile(filepath.Join(dir, overrideFile))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(b, &doc))
	x := doc["x-pvctl"].(map[string]any)
	require.Contains(t, x, "generated_at")
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{"a": map[string]any{"x": 1}, "s": []any{1}}
	src := map[string]any{"a": map[string]any{"y": 2}, "s": []any{2, 1}, "b": 3}
	deepMerge(dst, src)

	a := dst["a"].(map[string]any)
	require.Equal(t, 1, a["x"])
	require.Equal(t, 2, a["y"])
	require.Equal(t, []any{1, 2}, dst["s"])
	require.Equal(t, 3, dst["b"])
}
