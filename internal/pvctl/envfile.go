package pvctl

import (
	"bufio"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFile is a line-oriented KEY=VALUE store. Unlike a plain map it keeps
// every line of the underlying file, so comments, blank lines, and unknown
// keys survive a load/merge/persist cycle untouched. Set is an upsert:
// existing keys keep their position, new keys append.
type EnvFile struct {
	lines []envLine
	index map[string]int
}

type envLine struct {
	raw   string
	key   string
	isKey bool
}

func NewEnvFile() *EnvFile {
	return &EnvFile{index: map[string]int{}}
}

// LoadEnvFile parses path preserving line order. Lines that are not
// KEY=VALUE pairs (comments, blanks, garbage) are kept verbatim.
func LoadEnvFile(path string) (*EnvFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ef := NewEnvFile()
	s := bufio.NewScanner(file)
	for s.Scan() {
		ef.addRaw(s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return ef, nil
}

func (ef *EnvFile) addRaw(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || !strings.Contains(trimmed, "=") {
		ef.lines = append(ef.lines, envLine{raw: line})
		return
	}
	key := strings.TrimSpace(trimmed[:strings.Index(trimmed, "=")])
	if key == "" {
		ef.lines = append(ef.lines, envLine{raw: line})
		return
	}
	ef.lines = append(ef.lines, envLine{raw: line, key: key, isKey: true})
	if _, seen := ef.index[key]; !seen {
		ef.index[key] = len(ef.lines) - 1
	}
}

func (ef *EnvFile) Has(key string) bool {
	_, ok := ef.index[key]
	return ok
}

// Get returns the value for key with surrounding quotes stripped.
func (ef *EnvFile) Get(key string) string {
	i, ok := ef.index[key]
	if !ok {
		return ""
	}
	raw := strings.TrimSpace(ef.lines[i].raw)
	val := strings.TrimSpace(raw[strings.Index(raw, "=")+1:])
	return unquoteEnvValue(val)
}

// Set updates key in place when present, appends it otherwise. Calling Set
// repeatedly with the same key never duplicates the line.
func (ef *EnvFile) Set(key, value string) {
	line := key + "=" + quoteEnvValue(value)
	if i, ok := ef.index[key]; ok {
		ef.lines[i] = envLine{raw: line, key: key, isKey: true}
		return
	}
	ef.lines = append(ef.lines, envLine{raw: line, key: key, isKey: true})
	ef.index[key] = len(ef.lines) - 1
}

// Values flattens the file into a map, last assignment wins.
func (ef *EnvFile) Values() map[string]string {
	vars := map[string]string{}
	for _, l := range ef.lines {
		if l.isKey {
			raw := strings.TrimSpace(l.raw)
			val := strings.TrimSpace(raw[strings.Index(raw, "=")+1:])
			vars[l.key] = unquoteEnvValue(val)
		}
	}
	return vars
}

// quoteEnvValue double-quotes a value the way compose and godotenv read it
// back. Backslash, quote, and dollar must be escaped or an operator-entered
// secret containing them renders an unparseable file.
func quoteEnvValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, `$`, `\$`)
	return `"` + v + `"`
}

func unquoteEnvValue(v string) string {
	if len(v) < 2 || !strings.HasPrefix(v, `"`) || !strings.HasSuffix(v, `"`) {
		return v
	}
	v = v[1 : len(v)-1]
	v = strings.ReplaceAll(v, `\$`, `$`)
	v = strings.ReplaceAll(v, `\"`, `"`)
	v = strings.ReplaceAll(v, `\\`, `\`)
	return v
}

func (ef *EnvFile) Render() string {
	var b strings.Builder
	for _, l := range ef.lines {
		b.WriteString(l.raw)
		b.WriteString("\n")
	}
	return b.String()
}

func (ef *EnvFile) Save(path string) error {
	return os.WriteFile(path, []byte(ef.Render()), 0o640)
}

// ReadEnvValues reads a KEY=VALUE file into a map. Shell-style quoting is
// handled by godotenv, which matches how compose itself sources the file.
func ReadEnvValues(path string) (map[string]string, error) {
	return godotenv.Read(path)
}
