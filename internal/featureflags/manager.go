package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"
)

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "christmas_theme=12-01..12-31,new_editor=25%,legacy_forum=off"
type Manager struct {
	flags map[string]string
	now   func() time.Time
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out, now: time.Now}
}

// Enabled returns whether a flag is enabled for a given user.
// Supported values:
// - on/true/1
// - off/false/0
// - N% (deterministic user rollout, e.g. 25%)
// - MM-DD..MM-DD (recurring yearly window, e.g. 12-01..12-31)
func (m *Manager) Enabled(name string, userID string) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	if strings.Contains(value, "..") {
		return inWindow(value, m.now())
	}

	if strings.HasSuffix(value, "%") {
		pctRaw := strings.TrimSuffix(value, "%")
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return false
		}
		if pct <= 0 {
			return false
		}
		if pct >= 100 {
			return true
		}
		if userID == "" {
			return false
		}
		return rolloutBucket(name, userID) < pct
	}

	return false
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID string) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + userID))
	return int(h.Sum32() % 100)
}

// inWindow evaluates a recurring MM-DD..MM-DD window against now.
// Windows may wrap the year end, e.g. 12-20..01-05.
func inWindow(value string, now time.Time) bool {
	parts := strings.SplitN(value, "..", 2)
	if len(parts) != 2 {
		return false
	}
	start, okStart := parseMonthDay(parts[0])
	end, okEnd := parseMonthDay(parts[1])
	if !okStart || !okEnd {
		return false
	}

	today := int(now.Month())*100 + now.Day()
	if start <= end {
		return today >= start && today <= end
	}
	// Window wraps the new year.
	return today >= start || today <= end
}

// parseMonthDay encodes MM-DD as MM*100+DD for ordered comparison.
func parseMonthDay(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return month*100 + day, true
}
