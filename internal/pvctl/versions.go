package pvctl

import (
	"fmt"
	"strings"
)

// Versions is the release manifest shipped with the deployment repository.
// It is read-only here; the release process owns it.
type Versions struct {
	Frontend string
	Backend  string
}

func ReadVersions(path string) (Versions, error) {
	vars, err := ReadEnvValues(path)
	if err != nil {
		return Versions{}, fmt.Errorf("read versions manifest: %w", err)
	}

	v := Versions{
		Frontend: strings.TrimSpace(vars["FRONTEND_TAG"]),
		Backend:  strings.TrimSpace(vars["BACKEND_TAG"]),
	}
	if v.Frontend == "" {
		return Versions{}, fmt.Errorf("%s: FRONTEND_TAG missing", path)
	}
	if v.Backend == "" {
		return Versions{}, fmt.Errorf("%s: BACKEND_TAG missing", path)
	}
	return v, nil
}
