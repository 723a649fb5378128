package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadPrompt reads a prompt template from the prompts directory. A
// missing template is a wiring error, so construction fails rather than
// deferring to request time.
func loadPrompt(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	return string(data), nil
}

// renderPrompt substitutes {{placeholder}} markers in a template.
func renderPrompt(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
