// internal/locvec/parser.go
package locvec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex matches a single segment after the prefix, e.g. `p`, `p0` or `b15`.
var segmentRegex = regexp.MustCompile(`^([A-Za-z])(\d*)$`)

// Parse decodes a location vector into its path. The prefix segment is dropped,
// so a vector consisting of the prefix alone decodes to an empty path.
func Parse(vector string) (Path, error) {
	if vector == "" {
		return nil, fmt.Errorf("location vector cannot be empty")
	}

	segments := strings.Split(vector, ":")
	path := make(Path, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		if segment == "" {
			return nil, fmt.Errorf("location vector %q contains empty segment", vector)
		}

		matches := segmentRegex.FindStringSubmatch(segment)
		if matches == nil {
			return nil, fmt.Errorf("invalid location segment %q in %q", segment, vector)
		}

		label := NewLabel(matches[1][0])
		if matches[2] != "" {
			index, err := strconv.Atoi(matches[2])
			if err != nil {
				return nil, fmt.Errorf("invalid index in segment %q: %w", segment, err)
			}
			label.Index = index
		}
		path = append(path, label)
	}

	return path, nil
}
