package pvctl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"gopkg.in/yaml.v3"
)

const overrideFile = "docker-compose.override.yml"

// WriteCAOverride generates a compose override that mounts the operator's
// custom CA bundles into the backend, so outbound TLS to a privately signed
// GitLab verifies. No-op when the custom CA directory holds no bundles. An
// existing override is merged, not clobbered.
func WriteCAOverride(ctx context.Context, dir string) error {
	_ = ctx
	if CountCustomCACerts(dir) == 0 {
		return nil
	}

	overlay := map[string]any{
		"services": map[string]any{
			"backend": map[string]any{
				"volumes": []any{
					"./" + customCADir + ":/usr/local/share/ca-certificates:ro",
				},
			},
		},
	}

	target := filepath.Join(dir, overrideFile)
	merged := map[string]any{}
	if b, err := os.ReadFile(target); err == nil {
		if err := yaml.Unmarshal(b, &merged); err != nil {
			return fmt.Errorf("parse existing %s: %w", overrideFile, err)
		}
	}
	deepMerge(merged, overlay)

	x, ok := merged["x-pvctl"].(map[string]any)
	if !ok {
		x = map[string]any{}
		merged["x-pvctl"] = x
	}
	x["generated_at"] = time.Now().UTC().Format(time.RFC3339)

	out, err := yaml.Marshal(merged)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, out, 0o640); err != nil {
		return err
	}
	fmt.Printf("wrote %s (custom CA mounts)\n", overrideFile)
	return nil
}

func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		existing, exists := dst[k]
		if !exists {
			dst[k] = v
			continue
		}

		dstMap, dstMapOK := existing.(map[string]any)
		srcMap, srcMapOK := v.(map[string]any)
		if dstMapOK && srcMapOK {
			deepMerge(dstMap, srcMap)
			continue
		}

		dstSlice, dstSliceOK := existing.([]any)
		srcSlice, srcSliceOK := v.([]any)
		if dstSliceOK && srcSliceOK {
			dst[k] = appendMissing(dstSlice, srcSlice)
			continue
		}

		dst[k] = v
	}
}

// appendMissing concatenates slices skipping entries dst already holds.
// Compose rejects duplicate volume targets, so merging a generated overlay
// into its own previous output must not stack the same mount twice.
func appendMissing(dst, src []any) []any {
	for _, v := range src {
		found := false
		for _, e := range dst {
			if reflect.DeepEqual(e, v) {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
