package feed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Selection picks part of a decoded payload and converts it.
type Selection struct {
	// Path is a dot-separated list of attribute names and list positions,
	// e.g. "data.0.price". Empty selects the whole payload.
	Path string
	// Type converts the selected value. cty.NilType keeps it as decoded.
	Type cty.Type
}

// ParsePath turns a dotted selection path into a cty.Path.
func ParsePath(path string) (cty.Path, error) {
	if path == "" {
		return nil, nil
	}
	var out cty.Path
	for _, step := range strings.Split(path, ".") {
		if step == "" {
			return nil, fmt.Errorf("invalid path %q: empty step", path)
		}
		if i, err := strconv.Atoi(step); err == nil {
			out = out.Index(cty.NumberIntVal(int64(i)))
			continue
		}
		out = out.GetAttr(step)
	}
	return out, nil
}

// Apply selects and converts part of v.
func (s Selection) Apply(v cty.Value) (cty.Value, error) {
	path, err := ParsePath(s.Path)
	if err != nil {
		return cty.NilVal, err
	}
	if len(path) > 0 {
		selected, err := path.Apply(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("failed to select %q: %w", s.Path, err)
		}
		v = selected
	}
	return value.Convert(v, s.Type)
}

// Decode parses a JSON document and applies the selection.
func (s Selection) Decode(data []byte) (cty.Value, error) {
	v, err := value.FromJSON(data)
	if err != nil {
		return cty.NilVal, err
	}
	return s.Apply(v)
}
