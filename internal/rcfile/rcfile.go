package rcfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Flavor selects the shell syntax for emitted assignments.
type Flavor string

const (
	// Csh emits `setenv KEY VALUE` lines (tcsh, the project default).
	Csh Flavor = "csh"
	// Sh emits `export KEY=VALUE` lines (POSIX shells).
	Sh Flavor = "sh"
)

// ParseFlavor converts a user-supplied shell name to a Flavor.
func ParseFlavor(name string) (Flavor, error) {
	switch strings.ToLower(name) {
	case "csh", "tcsh":
		return Csh, nil
	case "sh", "bash", "zsh", "ksh":
		return Sh, nil
	}
	return "", fmt.Errorf("unsupported shell %q (expected csh or sh)", name)
}

// Entry represents a single variable assignment from an rc file.
type Entry struct {
	Key   string
	Value string
}

// EmitLine renders one assignment in the given shell syntax.
func EmitLine(flavor Flavor, key, value string) string {
	if flavor == Sh {
		return fmt.Sprintf("export %s=%s", key, quote(value))
	}
	return fmt.Sprintf("setenv %s %s", key, quote(value))
}

// WriteScript writes the entries as an eval-able script.
func WriteScript(w io.Writer, flavor Flavor, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, EmitLine(flavor, e.Key, e.Value)); err != nil {
			return err
		}
	}
	return nil
}

// quote wraps the value in double quotes when it contains whitespace or
// shell metacharacters. Double quotes keep `$` expansion live in both csh
// and sh, so variable references in generated files still expand.
func quote(value string) string {
	if value == "" {
		return `""`
	}
	if !strings.ContainsAny(value, " \t'\"\\*?[](){}<>|&;#~$") {
		return value
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range value {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Parse reads variable assignments from an rc fragment. It accepts both
// `setenv KEY VALUE` and `export KEY=VALUE` forms as well as bare
// `KEY=VALUE` lines. Comments, blank lines, and anything else (control
// flow, aliases) are skipped: the files this package reads are generated
// assignment lists, not arbitrary scripts.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if entry, ok := parseLine(line); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rc file: %w", err)
	}
	return entries, nil
}

// ParseFile opens and parses an rc fragment from disk.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rc file %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing rc file %s: %w", path, err)
	}
	return entries, nil
}

func parseLine(line string) (Entry, bool) {
	if rest, ok := strings.CutPrefix(line, "setenv "); ok {
		key, value, found := strings.Cut(strings.TrimSpace(rest), " ")
		if !found {
			// `setenv KEY` with no value sets the empty string in csh.
			return Entry{Key: strings.TrimSpace(rest)}, validKey(strings.TrimSpace(rest))
		}
		return Entry{Key: key, Value: unquote(strings.TrimSpace(value))}, validKey(key)
	}

	rest := strings.TrimPrefix(line, "export ")
	key, value, found := strings.Cut(rest, "=")
	if !found {
		return Entry{}, false
	}
	key = strings.TrimSpace(key)
	return Entry{Key: key, Value: unquote(strings.TrimSpace(value))}, validKey(key)
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			inner := value[1 : len(value)-1]
			inner = strings.ReplaceAll(inner, `\"`, `"`)
			inner = strings.ReplaceAll(inner, `\\`, `\`)
			return inner
		}
	}
	return value
}

// Expand substitutes $VAR and ${VAR} references in value using lookup.
// Unknown variables expand to the empty string, matching shell behavior
// for unset variables under `set nonomatch`.
func Expand(value string, lookup func(string) (string, bool)) string {
	return os.Expand(value, func(key string) string {
		v, _ := lookup(key)
		return v
	})
}
