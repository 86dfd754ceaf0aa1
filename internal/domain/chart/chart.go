package chart

import (
	"github.com/okian/criatividade/internal/domain/aggregate"
)

// Chart titles.
const (
	TitleDistribution  = "Distribuição Geral de Criatividade"
	TitleLeaderAverage = "Taxa Média de Repetição por Equipe (Líder)"
	TitleMatrix        = "Composição das Equipes por Nível de Criatividade"
	TitleLowest        = "Top 10 Autores com Menor Taxa de Repetição"
	TitleHighest       = "Top 10 Autores com Maior Taxa de Repetição"
	TitleAuthorScatter = "Volume de Mensagens vs Taxa de Repetição por Autor"
)

const (
	ruleColor        = "gray"
	scatterPointSize = 80
)

// Palette is the categorical colour range; bars use its first colour.
var Palette = []string{"#d80073", "#f7cce3", "#4f3f91", "#ececec", "#e3e3e3", "#262626"}

// RateRamp colours the author scatter from low to high repetition.
var RateRamp = []string{"#4f3f91", "#d80073"}

var guideDash = []float64{5, 5}

// Chart is one renderable dashboard chart.
type Chart struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Spec  Spec   `json:"spec"`
}

// Build renders the six derived tables in dashboard order.
func Build(t aggregate.Tables) []Chart {
	return []Chart{
		distribution(t.Distribution),
		leaderAverage(t.LeaderAverages),
		matrix(t.Matrix),
		ranking("lowest-repetition", TitleLowest, t.Lowest),
		ranking("highest-repetition", TitleHighest, t.Highest),
		authorScatter(t.Authors),
	}
}

func view(id, title string, values any, mark *Mark, enc *Encoding) Chart {
	return Chart{
		ID:    id,
		Title: title,
		Spec: Spec{
			Schema:   SchemaURL,
			Title:    title,
			Width:    "container",
			Data:     &Data{Values: values},
			Mark:     mark,
			Encoding: enc,
			Params:   interactive(idParam(id)),
		},
	}
}

func distribution(rows []aggregate.CategoryCount) Chart {
	y := field("criatividade", nominal, "Criatividade")
	y.Sort = "x"
	return view("creativity-distribution", TitleDistribution, rows, &Mark{Type: "bar"}, &Encoding{
		Y:     y,
		X:     field("count", quantitative, "Contagem"),
		Color: value(Palette[0]),
		Tooltip: []Channel{
			{Field: "criatividade", Type: nominal},
			{Field: "count", Type: quantitative},
		},
	})
}

func leaderAverage(rows []aggregate.LeaderAverage) Chart {
	y := field("lider", nominal, "Líder")
	y.Sort = "x"
	return view("avg-repetition-by-leader", TitleLeaderAverage, rows, &Mark{Type: "bar"}, &Encoding{
		Y:     y,
		X:     field("repetition_rate", quantitative, "Taxa Média de Repetição"),
		Color: value(Palette[0]),
		Tooltip: []Channel{
			{Field: "lider", Type: nominal},
			{Field: "repetition_rate", Type: quantitative},
		},
	})
}

func matrix(rows []aggregate.CreativityShare) Chart {
	color := field("criatividade", nominal, "Nível de Criatividade")
	color.Scale = &Scale{Range: Palette}
	return view("creativity-matrix", TitleMatrix, rows, &Mark{Type: "bar"}, &Encoding{
		Y:     field("lider", nominal, "Líder"),
		X:     field("percentage", quantitative, "% de Criatividade"),
		Color: color,
		Tooltip: []Channel{
			{Field: "lider", Type: nominal},
			{Field: "criatividade", Type: nominal},
			{Field: "percentage", Type: quantitative, Format: ".1f"},
		},
	})
}

func ranking(id, title string, rows any) Chart {
	y := field("author", nominal, "Autor")
	y.Sort = "x"
	return view(id, title, rows, &Mark{Type: "bar"}, &Encoding{
		Y:     y,
		X:     field("repetition_rate", quantitative, "Taxa de Repetição"),
		Color: value(Palette[0]),
		Tooltip: []Channel{
			{Field: "author", Type: nominal},
			{Field: "repetition_rate", Type: quantitative},
		},
	})
}

func authorScatter(m aggregate.AuthorMetrics) Chart {
	color := field("repetition_rate", quantitative, "Taxa de Repetição")
	color.Scale = &Scale{Range: RateRamp}
	points := Spec{
		Data: &Data{Values: m.Authors},
		Mark: &Mark{Type: "circle", Size: scatterPointSize},
		Encoding: &Encoding{
			X:     field("total_msgs", quantitative, "Volume de Mensagens"),
			Y:     field("repetition_rate", quantitative, "Taxa de Repetição"),
			Color: color,
			Tooltip: []Channel{
				{Field: "author", Type: nominal},
				{Field: "total_msgs", Type: quantitative},
				{Field: "repetition_rate", Type: quantitative},
			},
		},
		Params: interactive(idParam("author-matrix")),
	}
	vertical := Spec{
		Data:     &Data{Values: []map[string]float64{{"median_msgs": m.MedianTotalMsgs}}},
		Mark:     &Mark{Type: "rule", Color: ruleColor, StrokeDash: guideDash},
		Encoding: &Encoding{X: field("median_msgs", quantitative, "")},
	}
	horizontal := Spec{
		Data:     &Data{Values: []map[string]float64{{"median_repetition": m.MedianRepetitionRate}}},
		Mark:     &Mark{Type: "rule", Color: ruleColor, StrokeDash: guideDash},
		Encoding: &Encoding{Y: field("median_repetition", quantitative, "")},
	}
	return Chart{
		ID:    "author-matrix",
		Title: TitleAuthorScatter,
		Spec: Spec{
			Schema: SchemaURL,
			Title:  TitleAuthorScatter,
			Width:  "container",
			Layer:  []Spec{points, vertical, horizontal},
		},
	}
}

// idParam makes a chart id usable as a Vega parameter name.
func idParam(id string) string {
	out := []byte(id)
	for i, c := range out {
		if c == '-' {
			out[i] = '_'
		}
	}
	return string(out)
}
