package harness

import (
	"sync"

	"goldenapi/internal/config"
)

// MemoryLanguageSwitcher records the active language in memory. It is used
// when the system under test takes its language from the request only.
type MemoryLanguageSwitcher struct {
	mu      sync.Mutex
	current string
	history []string
}

// NewMemoryLanguageSwitcher starts with the default language active.
func NewMemoryLanguageSwitcher() *MemoryLanguageSwitcher {
	return &MemoryLanguageSwitcher{current: config.DefaultLanguage}
}

func (s *MemoryLanguageSwitcher) SwitchLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = lang
	s.history = append(s.history, lang)
	return nil
}

func (s *MemoryLanguageSwitcher) CurrentLanguage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// History returns every language switched to, in order.
func (s *MemoryLanguageSwitcher) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}
