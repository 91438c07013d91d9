// Package regex implements fxhost.RegexEngine against
// github.com/dlclark/regexp2, chosen over the standard library's
// regexp (RE2) because FilterX's regexp_search needs .NET-style named
// capture groups (`(?<name>...)`) and PCRE2-compatible backreference
// support, neither of which RE2's linear-time guarantee allows.
package regex

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dlclark/regexp2"

	"filterx/internal/fxhost"
)

type Engine struct{}

func NewEngine() Engine { return Engine{} }

type code struct {
	re    *regexp2.Regexp
	names map[string]int
}

func (c *code) NameTable() map[string]int { return c.names }

// Compile builds the name table up front (mirroring PCRE2's
// NAMETABLE/NAMEENTRYSIZE/NAMECOUNT introspection from spec.md section
// 6) so regexp_search's Init can require a literal pattern without
// re-deriving it on every match.
func (Engine) Compile(pattern string) (fxhost.RegexCode, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("filterx: compile pattern: %w", err)
	}
	names := make(map[string]int)
	for _, name := range re.GetGroupNames() {
		if _, err := strconv.Atoi(name); err == nil {
			continue // numbered groups carry their index as name too
		}
		names[name] = re.GroupNumberFromName(name)
	}
	return &code{re: re, names: names}, nil
}

func (Engine) Match(rc fxhost.RegexCode, subject string) (fxhost.RegexMatch, error) {
	c, ok := rc.(*code)
	if !ok {
		return fxhost.RegexMatch{}, fmt.Errorf("filterx: regex code from a different engine")
	}

	m, err := c.re.FindStringMatch(subject)
	if err != nil {
		return fxhost.RegexMatch{}, fmt.Errorf("filterx: match failed: %w", err)
	}
	if m == nil {
		return fxhost.RegexMatch{}, nil
	}

	numbers := c.re.GetGroupNumbers()
	sort.Ints(numbers)
	size := 0
	if len(numbers) > 0 {
		size = numbers[len(numbers)-1] + 1
	}
	groups := make([]string, size)
	present := make([]bool, size)
	for _, n := range numbers {
		g := m.GroupByNumber(n)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		present[n] = true
		groups[n] = g.String()
	}
	return fxhost.RegexMatch{Groups: groups, Present: present, NameToGroup: c.names}, nil
}
