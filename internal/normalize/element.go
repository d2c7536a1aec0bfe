package normalize

import (
	"fmt"
	"regexp"
	"sync"
)

// MinRemainingLength is the size a non-trivial payload must keep after an
// element is removed from it.
const MinRemainingLength = 100

// GuardError reports that removing an element left almost nothing of a
// non-trivial payload, which means the element wrapped the whole document.
type GuardError struct {
	Element string
	Before  int
	After   int
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("removing <%s> shrank the response from %d to %d characters", e.Element, e.Before, e.After)
}

var (
	elementCacheMu sync.Mutex
	elementCache   = map[string]*regexp.Regexp{}
)

// elementPattern matches <name>..</name>, <name/> and <name />, with or
// without attributes.
func elementPattern(name string) *regexp.Regexp {
	elementCacheMu.Lock()
	defer elementCacheMu.Unlock()

	if re, ok := elementCache[name]; ok {
		return re
	}
	n := regexp.QuoteMeta(name)
	re := regexp.MustCompile(`(?s)<` + n + `(?:\s+|\s[^>]*[^/>])?>.*?</` + n + `\s*>|<` + n + `(?:\s[^>]*)?/>`)
	elementCache[name] = re
	return re
}

// RemoveElement removes every occurrence of the named element.
func RemoveElement(text, name string) string {
	return elementPattern(name).ReplaceAllString(text, "")
}

// RemoveElementGuarded removes the named element and fails with *GuardError
// when a payload longer than MinRemainingLength is left with at most
// MinRemainingLength characters.
func RemoveElementGuarded(text, name string) (string, error) {
	out := RemoveElement(text, name)
	if len(text) > MinRemainingLength && out != text && len(out) <= MinRemainingLength {
		return text, &GuardError{Element: name, Before: len(text), After: len(out)}
	}
	return out, nil
}

// RemoveElements applies RemoveElementGuarded for each name in order.
func RemoveElements(text string, names []string) (string, error) {
	var err error
	for _, name := range names {
		text, err = RemoveElementGuarded(text, name)
		if err != nil {
			return text, err
		}
	}
	return text, nil
}
