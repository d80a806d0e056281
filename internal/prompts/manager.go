package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

type PromptManager struct {
	prompts map[string]map[string]string // mode -> variant -> complete prompt
	// keys each prompt expects, same indexing as prompts
	keys map[string]map[string][]string
}

// loaded prompt template
type PromptTemplate struct {
	BasePrompt   string            `yaml:"base_prompt"`
	DetailLevels map[string]string `yaml:"detail_levels"`
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]map[string]string),
		keys:    make(map[string]map[string][]string),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// BuildPrompt fills the {{.Key}} placeholders of a mode/variant template with data
func (pm *PromptManager) BuildPrompt(mode, variant string, data map[string]string) (string, error) {
	modePrompts, exists := pm.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	promptTemplate, exists := modePrompts[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	// one pass, so values containing placeholder syntax are never expanded
	pairs := make([]string, 0, 2*len(data))
	for _, key := range pm.keys[mode][variant] {
		value, ok := data[key]
		if !ok {
			return "", fmt.Errorf("missing value for {{.%s}} in %s/%s", key, mode, variant)
		}
		pairs = append(pairs, "{{."+key+"}}", value)
	}

	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(promptTemplate)), nil
}

// GetTemplates lists the loaded modes
func (pm *PromptManager) GetTemplates() []string {
	modes := make([]string, 0, len(pm.prompts))
	for mode := range pm.prompts {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.prompts[name] = make(map[string]string)
		pm.keys[name] = make(map[string][]string)

		for variant, variantPrompt := range promptTemplate.DetailLevels {
			var fullPrompt strings.Builder
			if promptTemplate.BasePrompt != "" {
				fullPrompt.WriteString(promptTemplate.BasePrompt)
				fullPrompt.WriteString("\n\n")
			}
			fullPrompt.WriteString(variantPrompt)
			pm.prompts[name][variant] = fullPrompt.String()
			pm.keys[name][variant] = placeholderKeys(fullPrompt.String())
		}
	}

	return nil
}

func placeholderKeys(prompt string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range placeholder.FindAllStringSubmatch(prompt, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}
