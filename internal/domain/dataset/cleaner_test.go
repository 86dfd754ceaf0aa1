package dataset_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/okian/criatividade/internal/domain/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRate(t *testing.T) {
	Convey("Given locale formatted percentages", t, func() {
		cases := map[string]float64{
			"12,5%":    12.5,
			"7%":       7.0,
			"3,0":      3.0,
			"12.5":     12.5,
			" 4,25 % ": 4.25,
			"0":        0,
		}
		for in, want := range cases {
			got, err := dataset.ParseRate(in)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, want, 1e-12)
		}
	})

	Convey("Given plain numeric text", t, func() {
		Convey("Then parsing is the identity on its float value", func() {
			for _, in := range []string{"1", "0.25", "99.999", "-3.5", "1e2"} {
				want, _ := strconv.ParseFloat(in, 64)
				got, err := dataset.ParseRate(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})
	})

	Convey("Given text that is not a finite number", t, func() {
		for _, in := range []string{"", "%", "abc", "1.234,5%", "NaN", "Inf"} {
			_, err := dataset.ParseRate(in)
			So(errors.Is(err, dataset.ErrColumnConversion), ShouldBeTrue)
		}
	})
}

func TestClean(t *testing.T) {
	Convey("Given a loaded table", t, func() {
		tbl := mustLoad(t, csvOf(
			"Ana;X;Alta;10;12,5%",
			"Ana;Y;Baixa;20;7%",
			"Bia;Z;Alta;30;3,0",
		))

		Convey("When it is cleaned", func() {
			out, err := dataset.Clean(tbl)

			Convey("Then repetition_rate is numeric", func() {
				So(err, ShouldBeNil)
				So(out.Cleaned(), ShouldBeTrue)
				rates, err := out.Floats(dataset.ColRepetitionRate)
				So(err, ShouldBeNil)
				So(rates, ShouldResemble, []float64{12.5, 7, 3})
			})

			Convey("And the other columns are untouched", func() {
				leaders, _ := out.Texts(dataset.ColLider)
				So(leaders, ShouldResemble, []string{"Ana", "Ana", "Bia"})
				totals, _ := out.Ints(dataset.ColTotalMsgs)
				So(totals, ShouldResemble, []int{10, 20, 30})
			})

			Convey("And the input table still holds text", func() {
				So(tbl.Cleaned(), ShouldBeFalse)
				rates, _ := tbl.Texts(dataset.ColRepetitionRate)
				So(rates[0], ShouldEqual, "12,5%")
			})

			Convey("And cleaning again is a no-op", func() {
				again, err := dataset.Clean(out)
				So(err, ShouldBeNil)
				r1, _ := out.Floats(dataset.ColRepetitionRate)
				r2, _ := again.Floats(dataset.ColRepetitionRate)
				So(r2, ShouldResemble, r1)
			})

			Convey("And rows expose the schema columns", func() {
				rows, err := out.Rows()
				So(err, ShouldBeNil)
				So(rows[1], ShouldResemble, dataset.Row{
					Lider: "Ana", Author: "Y", Criatividade: "Baixa", TotalMsgs: 20, RepetitionRate: 7,
				})
			})
		})
	})

	Convey("Given a table with an empty repetition_rate cell", t, func() {
		tbl := mustLoad(t, csvOf(
			"Ana;X;Alta;10;12,5%",
			"Ana;Y;Baixa;20;",
		))

		Convey("Then the whole column fails", func() {
			_, err := dataset.Clean(tbl)
			So(errors.Is(err, dataset.ErrColumnConversion), ShouldBeTrue)
			var ce *dataset.ConversionError
			So(errors.As(err, &ce), ShouldBeTrue)
			So(ce.Row, ShouldEqual, 2)
			So(ce.Column, ShouldEqual, dataset.ColRepetitionRate)
		})
	})

	Convey("Given a table with non-numeric rate text", t, func() {
		tbl := mustLoad(t, csvOf("Ana;X;Alta;10;alto"))

		Convey("Then cleaning fails instead of producing zero", func() {
			_, err := dataset.Clean(tbl)
			So(errors.Is(err, dataset.ErrColumnConversion), ShouldBeTrue)
		})
	})

	Convey("Given a rate cell holding a missing-value marker", t, func() {
		tbl := mustLoad(t, csvOf("Ana;X;Alta;10;5%", "Ana;Y;Alta;10;NA"))

		Convey("Then the error quotes the cell as written", func() {
			_, err := dataset.Clean(tbl)
			var ce *dataset.ConversionError
			So(errors.As(err, &ce), ShouldBeTrue)
			So(ce.Row, ShouldEqual, 2)
			So(ce.Value, ShouldEqual, "NA")
			So(err.Error(), ShouldContainSubstring, `cannot parse "NA"`)
		})
	})

	Convey("Given an empty table", t, func() {
		tbl := mustLoad(t, csvOf())

		Convey("Then cleaning succeeds with zero rows", func() {
			out, err := dataset.Clean(tbl)
			So(err, ShouldBeNil)
			So(out.Nrow(), ShouldEqual, 0)
			So(out.Cleaned(), ShouldBeTrue)
		})
	})
}
