package sitelist

import (
	"bufio"
	"io"
	"strings"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
)

// ParseList parses a newline-delimited list of domains.
//
// Behavior:
// - Supports comments starting with '#' (inline or whole-line)
// - Accepts bare hosts, host:port and http(s) URLs; a leading "*." or "." is dropped
// - Skips empty lines and entries Normalize rejects
// - De-duplicates while preserving first-seen order
func ParseList(r io.Reader, logger log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.GetLogger()
	}
	scanner := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	out := make([]string, 0, 64)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimPrefix(scanner.Text(), "\uFEFF")
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		s = strings.TrimPrefix(s, "*.")
		s = strings.TrimPrefix(s, ".")

		name, err := Normalize(s)
		if err != nil {
			logger.Debug(map[string]any{"line": lineNum, "raw": s, "error": err.Error()}, "skip_invalid_domain")
			continue
		}
		if _, ok := seen[name]; ok {
			logger.Debug(map[string]any{"line": lineNum, "name": name}, "skip_duplicate")
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	logger.Debug(map[string]any{"count": len(out)}, "parse_list_done")
	return out, nil
}
