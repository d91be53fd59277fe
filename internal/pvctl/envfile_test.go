package pvctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvFileUpsertIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# header comment\nDOMAIN=\"review.example.com\"\n\nFRONTEND_TAG=\"1.2.0\"\nUNKNOWN_KEY=\"kept\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))

	ef, err := LoadEnvFile(path)
	require.NoError(t, err)

	ef.Set("FRONTEND_TAG", "1.3.0")
	ef.Set("FRONTEND_TAG", "1.3.0")
	ef.Set("BACKEND_TAG", "1.3.1")

	rendered := ef.Render()
	require.Equal(t,
		"# header comment\n"+
			"DOMAIN=\"review.example.com\"\n"+
			"\n"+
			"FRONTEND_TAG=\"1.3.0\"\n"+
			"UNKNOWN_KEY=\"kept\"\n"+
			"BACKEND_TAG=\"1.3.1\"\n",
		rendered)
}

func TestEnvFileSetUpdatesInPlace(t *testing.T) {
	ef := NewEnvFile()
	ef.addRaw(`A="1"`)
	ef.addRaw(`B="2"`)
	ef.Set("A", "10")

	require.Equal(t, "10", ef.Get("A"))
	require.Equal(t, "A=\"10\"\nB=\"2\"\n", ef.Render())
}

func TestEnvFileGetStripsQuotes(t *testing.T) {
	ef := NewEnvFile()
	ef.addRaw(`KEY="quoted value"`)
	ef.addRaw(`BARE=plain`)

	require.Equal(t, "quoted value", ef.Get("KEY"))
	require.Equal(t, "plain", ef.Get("BARE"))
	require.Equal(t, "", ef.Get("MISSING"))
}

func TestEnvFileValues(t *testing.T) {
	ef := NewEnvFile()
	ef.addRaw("# comment")
	ef.addRaw(`A="1"`)
	ef.addRaw("not a pair")

	vars := ef.Values()
	require.Equal(t, map[string]string{"A": "1"}, vars)
}

func TestEnvFileSpecialCharactersRoundTrip(t *testing.T) {
	// Operator-entered secrets can carry quotes, dollars, and backslashes;
	// they must survive render and read back whole through godotenv.
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	secrets := map[string]string{
		"OIDC_CLIENT_SECRET": `pa"ss$word`,
		"POSTGRES_PASSWORD":  `back\slash"and$more`,
		"REDIS_PASSWORD":     `${HOME} stays literal`,
	}

	ef := NewEnvFile()
	for k, v := range secrets {
		ef.Set(k, v)
		require.Equal(t, v, ef.Get(k), k)
	}
	require.NoError(t, ef.Save(path))

	vars, err := ReadEnvValues(path)
	require.NoError(t, err)
	for k, v := range secrets {
		require.Equal(t, v, vars[k], k)
	}

	loaded, err := LoadEnvFile(path)
	require.NoError(t, err)
	for k, v := range secrets {
		require.Equal(t, v, loaded.Get(k), k)
	}
}

func TestEnvFileSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	ef := NewEnvFile()
	ef.Set("DOMAIN", "review.example.com")
	require.NoError(t, ef.Save(path))

	vars, err := ReadEnvValues(path)
	require.NoError(t, err)
	require.Equal(t, "review.example.com", vars["DOMAIN"])
}
