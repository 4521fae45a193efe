package operator

import (
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Docs is the documentation record of a class.
type Docs struct {
	Name        string
	DisplayName string
	Description string
	Library     string
	Family      string
	Example     string
	MinParams   int
	MaxParams   int
	Parameters  []ParameterDocs
}

type ParameterDocs struct {
	Name        string
	Description string
	Type        string
	Required    bool
	Default     string
	Min         *float64
	Max         *float64
	Options     []string
}

// Docs renders the class documentation.
func (c *Class) Docs() Docs {
	bounds := c.Bounds()
	d := Docs{
		Name:        c.Name,
		DisplayName: c.Title(),
		Description: c.Description,
		Library:     c.Lib(),
		Family:      string(c.Family),
		Example:     c.Example,
		MinParams:   bounds.Min,
		MaxParams:   bounds.Max,
	}
	for _, p := range c.Parameters {
		pd := ParameterDocs{
			Name:        p.Name,
			Description: p.Description,
			Type:        p.TypeName(),
			Required:    p.Required,
			Min:         p.Min,
			Max:         p.Max,
		}
		if p.Default != cty.NilVal {
			pd.Default = value.Format(p.Default)
		}
		for _, option := range p.Options {
			pd.Options = append(pd.Options, value.Format(option))
		}
		d.Parameters = append(d.Parameters, pd)
	}
	return d
}

// ToMap flattens the record into plain keys and values. Empty fields are
// left out.
func (d Docs) ToMap() map[string]any {
	out := map[string]any{
		"name":         d.Name,
		"display_name": d.DisplayName,
		"library":      d.Library,
		"family":       d.Family,
		"min_params":   d.MinParams,
		"max_params":   d.MaxParams,
	}
	if d.Description != "" {
		out["description"] = d.Description
	}
	if d.Example != "" {
		out["example"] = d.Example
	}
	if len(d.Parameters) > 0 {
		params := make([]map[string]any, len(d.Parameters))
		for i, p := range d.Parameters {
			params[i] = p.ToMap()
		}
		out["parameters"] = params
	}
	return out
}

func (p ParameterDocs) ToMap() map[string]any {
	out := map[string]any{
		"name":     p.Name,
		"type":     p.Type,
		"required": p.Required,
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Default != "" {
		out["default"] = p.Default
	}
	if p.Min != nil {
		out["min"] = *p.Min
	}
	if p.Max != nil {
		out["max"] = *p.Max
	}
	if len(p.Options) > 0 {
		out["options"] = p.Options
	}
	return out
}
