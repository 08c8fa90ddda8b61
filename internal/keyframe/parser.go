package keyframe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/motionfx/pkg/utils"
)

// Parse parses the compact table form used in configuration files.
//
// Format: whitespace separated "stop,value" pairs, optionally followed (or
// preceded) by a single ease keyword:
//
//	"0,0.7 0.5,1 1,0.7"
//	"0,150 0.5,0 1,-150 EaseOut"
//
// The result is validated; an invalid table returns a *Error or a parse error.
func Parse(s string) (Set, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Set{}, &Error{Index: -1, Reason: "table is empty"}
	}

	var set Set
	for _, part := range strings.Fields(s) {
		if !strings.Contains(part, ",") {
			// 缓动关键字
			if _, ok := utils.EaseByName(part); !ok {
				return Set{}, fmt.Errorf("parse keyframe table %q: unknown token %q", s, part)
			}
			if set.Ease != "" {
				return Set{}, fmt.Errorf("parse keyframe table %q: more than one ease keyword", s)
			}
			set.Ease = part
			continue
		}

		pair := strings.Split(part, ",")
		if len(pair) != 2 {
			return Set{}, fmt.Errorf("parse keyframe table %q: malformed pair %q", s, part)
		}
		stop, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			return Set{}, fmt.Errorf("parse keyframe table %q: stop %q: %w", s, pair[0], err)
		}
		value, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return Set{}, fmt.Errorf("parse keyframe table %q: value %q: %w", s, pair[1], err)
		}
		set.Keyframes = append(set.Keyframes, Keyframe{Stop: stop, Value: value})
	}

	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// String formats the table back into the compact form accepted by Parse.
func (s Set) String() string {
	var b strings.Builder
	for i, k := range s.Keyframes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(k.Stop, 'g', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(k.Value, 'g', -1, 64))
	}
	if s.Ease != "" && s.Ease != "Linear" {
		b.WriteByte(' ')
		b.WriteString(s.Ease)
	}
	return b.String()
}
