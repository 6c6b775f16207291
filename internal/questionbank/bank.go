package questionbank

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// embeds the built-in question sets, one file per role
//
//go:embed templates/*.yaml
var templateFS embed.FS

// DefaultRole is used when a requested role has no question set.
const DefaultRole = "Frontend Developer"

// QuestionSet is the ordered question list for one role, with optional
// per-difficulty replacements.
type QuestionSet struct {
	Role       string              `yaml:"role" json:"role"`
	Default    bool                `yaml:"default" json:"-"`
	Questions  []string            `yaml:"questions" json:"questions"`
	Difficulty map[string][]string `yaml:"difficulty" json:"difficulty,omitempty"`
}

type Bank struct {
	mu          sync.RWMutex
	sets        map[string]QuestionSet // lowercased role -> set
	defaultRole string
}

// New loads the embedded question sets.
func New() (*Bank, error) {
	b := &Bank{
		sets:        make(map[string]QuestionSet),
		defaultRole: DefaultRole,
	}
	if err := b.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load question sets: %w", err)
	}
	if _, ok := b.sets[roleKey(b.defaultRole)]; !ok {
		return nil, fmt.Errorf("default role %q has no question set", b.defaultRole)
	}
	return b, nil
}

func (b *Bank) loadTemplates() error {
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

		var set QuestionSet
		if err := yaml.Unmarshal(data, &set); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if err := set.validate(); err != nil {
			return fmt.Errorf("invalid template file %s: %w", entry.Name(), err)
		}

		b.sets[roleKey(set.Role)] = set
		if set.Default {
			b.defaultRole = set.Role
		}
	}
	return nil
}

func (s QuestionSet) validate() error {
	if strings.TrimSpace(s.Role) == "" {
		return fmt.Errorf("role is required")
	}
	if len(s.Questions) == 0 {
		return fmt.Errorf("role %q has no questions", s.Role)
	}
	for level, qs := range s.Difficulty {
		if len(qs) == 0 {
			return fmt.Errorf("role %q difficulty %q has no questions", s.Role, level)
		}
	}
	return nil
}

// Questions returns the ordered question list for role. A difficulty-specific
// list wins over the base list; unknown roles get the default role's questions.
// Role and difficulty matching ignore case.
func (b *Bank) Questions(role, difficulty string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set, ok := b.sets[roleKey(role)]
	if !ok {
		set = b.sets[roleKey(b.defaultRole)]
	}
	if difficulty != "" {
		for level, qs := range set.Difficulty {
			if strings.EqualFold(level, difficulty) {
				return append([]string(nil), qs...)
			}
		}
	}
	return append([]string(nil), set.Questions...)
}

// Has reports whether role has its own question set.
func (b *Bank) Has(role string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.sets[roleKey(role)]
	return ok
}

// Roles lists the known roles in alphabetical order.
func (b *Bank) Roles() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	roles := make([]string, 0, len(b.sets))
	for _, set := range b.sets {
		roles = append(roles, set.Role)
	}
	sort.Strings(roles)
	return roles
}

// Merge adds or replaces question sets, typically from an external store.
// Invalid sets are skipped and counted.
func (b *Bank) Merge(sets []QuestionSet) (merged int, skipped int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, set := range sets {
		if err := set.validate(); err != nil {
			skipped++
			continue
		}
		b.sets[roleKey(set.Role)] = set
		merged++
	}
	return merged, skipped
}

func roleKey(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
