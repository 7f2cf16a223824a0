package command

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// BracePath renders a filesystem path for a script: forward slashes on every
// host, wrapped in braces so the interpreter performs no substitution.
func BracePath(path string) string {
	return "{" + filepath.ToSlash(path) + "}"
}

// Nested renders a command as a single brace-delimited word so it can be
// passed as an argument to another command. Paths inside it are already
// brace-quoted and nest without substitution.
func Nested(args []string) string {
	return "{" + strings.Join(args, " ") + "}"
}

var escaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `$`, `\$`, `"`, `\"`)

// Escape quotes text as a literal word with no command or variable
// substitution.
func Escape(text string) string {
	return `"` + escaper.Replace(text) + `"`
}

// List renders items as a literal list expression.
//
//	List([]string{"1.0", "[x]"}) == `[list "1.0" "\[x]"]`
func List(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = Escape(it)
	}
	return "[list " + strings.Join(quoted, " ") + "]"
}

var placeholderPattern = regexp.MustCompile(`@\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Placeholder returns the token standing for a file path that is only known
// once a workspace exists. Fill replaces it.
func Placeholder(name string) string {
	return "@{" + name + "}"
}

// Placeholders lists the distinct placeholder names in text, sorted.
func Placeholders(text string) []string {
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Fill substitutes every placeholder in text with the brace-quoted path
// registered under its name. Paths without a placeholder are ignored; a
// placeholder without a path is an error and nothing is substituted.
func Fill(text string, paths map[string]string) (string, error) {
	var missing []string
	for _, name := range Placeholders(text) {
		if _, ok := paths[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("unfilled placeholders %q", missing)
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(tok string) string {
		name := placeholderPattern.FindStringSubmatch(tok)[1]
		return BracePath(paths[name])
	}), nil
}
