// Package docs renders operator documentation for the -docs flag.
package docs

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/zclconf/go-cty/cty"
)

// Formats lists the accepted values of Write's format argument.
var Formats = []string{"json", "hcl"}

// Collect returns the docs of the concrete classes, sorted by library and
// then by name.
func Collect(classes []*operator.Class) []operator.Docs {
	var out []operator.Docs
	for _, class := range classes {
		if class.Concrete() {
			out = append(out, class.Docs())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Library != out[j].Library {
			return out[i].Library < out[j].Library
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Write renders docs in the given format.
func Write(w io.Writer, format string, docs []operator.Docs) error {
	switch format {
	case "json":
		return WriteJSON(w, docs)
	case "hcl":
		return WriteHCL(w, docs)
	default:
		return fmt.Errorf("unknown docs format %q", format)
	}
}

// WriteJSON writes docs as an indented JSON array.
func WriteJSON(w io.Writer, docs []operator.Docs) error {
	records := make([]map[string]any, len(docs))
	for i, d := range docs {
		records[i] = d.ToMap()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteHCL writes docs as `operator` blocks with nested `parameter` blocks.
func WriteHCL(w io.Writer, docs []operator.Docs) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()
	for i, d := range docs {
		if i > 0 {
			root.AppendNewline()
		}
		block := root.AppendNewBlock("operator", []string{d.Name})
		body := block.Body()
		body.SetAttributeValue("display_name", cty.StringVal(d.DisplayName))
		body.SetAttributeValue("library", cty.StringVal(d.Library))
		body.SetAttributeValue("family", cty.StringVal(d.Family))
		setString(body, "description", d.Description)
		setString(body, "example", d.Example)
		body.SetAttributeValue("min_params", cty.NumberIntVal(int64(d.MinParams)))
		if d.MaxParams != operator.Unbounded {
			body.SetAttributeValue("max_params", cty.NumberIntVal(int64(d.MaxParams)))
		}

		for _, p := range d.Parameters {
			pb := body.AppendNewBlock("parameter", []string{p.Name}).Body()
			pb.SetAttributeValue("type", cty.StringVal(p.Type))
			pb.SetAttributeValue("required", cty.BoolVal(p.Required))
			setString(pb, "description", p.Description)
			setString(pb, "default", p.Default)
			if p.Min != nil {
				pb.SetAttributeValue("min", cty.NumberFloatVal(*p.Min))
			}
			if p.Max != nil {
				pb.SetAttributeValue("max", cty.NumberFloatVal(*p.Max))
			}
			if len(p.Options) > 0 {
				options := make([]cty.Value, len(p.Options))
				for i, o := range p.Options {
					options[i] = cty.StringVal(o)
				}
				pb.SetAttributeValue("options", cty.ListVal(options))
			}
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func setString(body *hclwrite.Body, name, s string) {
	if s != "" {
		body.SetAttributeValue(name, cty.StringVal(s))
	}
}
