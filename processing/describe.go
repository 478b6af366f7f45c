package processing

// Description is a flat, serializable view of a Filter for display.
type Description struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Descriptor string   `json:"descriptor" yaml:"descriptor"`
	Operand    string   `json:"operand,omitempty" yaml:"operand,omitempty"`
	ItemKind   string   `json:"item_kind,omitempty" yaml:"item_kind,omitempty"`
	Items      []string `json:"items,omitempty" yaml:"items,omitempty"`
	Rate       string   `json:"rate,omitempty" yaml:"rate,omitempty"`
	Scope      []string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// Describe flattens f. A nil f yields the zero Description.
func Describe(f Filter) Description {
	return Match(f,
		func(m MaskFilter) Description {
			return Description{
				Kind:       KindMask.String(),
				Descriptor: m.String(),
				Operand:    m.Operand.Name(),
				ItemKind:   m.Item.Kind().String(),
				Items:      m.Item.Values(),
			}
		},
		func(d DecimationFilter) Description {
			desc := Description{
				Kind:       KindDecimation.String(),
				Descriptor: d.String(),
				Rate:       d.Rate(),
			}
			for _, item := range d.Scope {
				desc.Scope = append(desc.Scope, item.String())
			}
			return desc
		},
	)
}
