// Package chart turns derived tables into Vega-Lite chart specifications
// that the dashboard page renders with vega-embed.
package chart

// SchemaURL is the Vega-Lite schema every spec declares.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is the subset of a Vega-Lite view or layer specification the
// dashboard uses.
type Spec struct {
	Schema   string    `json:"$schema,omitempty"`
	Title    string    `json:"title,omitempty"`
	Width    string    `json:"width,omitempty"`
	Data     *Data     `json:"data,omitempty"`
	Mark     *Mark     `json:"mark,omitempty"`
	Encoding *Encoding `json:"encoding,omitempty"`
	Params   []Param   `json:"params,omitempty"`
	Layer    []Spec    `json:"layer,omitempty"`
}

// Data holds inline rows.
type Data struct {
	Values any `json:"values"`
}

// Mark is a mark definition.
type Mark struct {
	Type       string    `json:"type"`
	Size       float64   `json:"size,omitempty"`
	Color      string    `json:"color,omitempty"`
	StrokeDash []float64 `json:"strokeDash,omitempty"`
}

// Encoding binds fields to visual channels.
type Encoding struct {
	X       *Channel  `json:"x,omitempty"`
	Y       *Channel  `json:"y,omitempty"`
	Color   *Channel  `json:"color,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Channel is a field or constant-value channel definition.
type Channel struct {
	Field  string `json:"field,omitempty"`
	Type   string `json:"type,omitempty"`
	Title  string `json:"title,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Format string `json:"format,omitempty"`
	Scale  *Scale `json:"scale,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Scale overrides a channel's colour range.
type Scale struct {
	Range []string `json:"range"`
}

// Param declares a selection parameter.
type Param struct {
	Name   string `json:"name"`
	Select string `json:"select"`
	Bind   string `json:"bind,omitempty"`
}

// Field type shorthands.
const (
	nominal      = "nominal"
	quantitative = "quantitative"
)

func field(name, typ, title string) *Channel {
	return &Channel{Field: name, Type: typ, Title: title}
}

func value(v string) *Channel { return &Channel{Value: v} }

// interactive binds pan and zoom to the view scales.
func interactive(id string) []Param {
	return []Param{{Name: id + "_zoom", Select: "interval", Bind: "scales"}}
}
