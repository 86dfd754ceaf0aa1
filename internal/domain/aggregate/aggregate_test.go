package aggregate_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/okian/criatividade/internal/domain/aggregate"
	"github.com/okian/criatividade/internal/domain/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

const header = "lider;author;criatividade;total_msgs;repetition_rate"

func cleaned(t *testing.T, lines ...string) dataset.Table {
	t.Helper()
	raw := []byte(strings.Join(append([]string{header}, lines...), "\n") + "\n")
	tbl, err := dataset.Load(context.Background(), raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tbl, err = dataset.Clean(tbl)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	return tbl
}

func TestEndToEndScenario(t *testing.T) {
	Convey("Given two rows of leader A", t, func() {
		tbl := cleaned(t,
			"A;X;Alta;10;5%",
			"A;Y;Baixa;20;10%",
		)

		Convey("When all tables are computed", func() {
			out, err := aggregate.Compute(tbl, 0)
			So(err, ShouldBeNil)

			Convey("Then the leader average is 7.5", func() {
				So(out.LeaderAverages, ShouldResemble, []aggregate.LeaderAverage{{Lider: "A", RepetitionRate: 7.5}})
			})

			Convey("And each level is counted once", func() {
				So(out.Distribution, ShouldResemble, []aggregate.CategoryCount{
					{Criatividade: "Alta", Count: 1},
					{Criatividade: "Baixa", Count: 1},
				})
			})

			Convey("And the matrix splits the team in halves", func() {
				So(out.Matrix, ShouldResemble, []aggregate.CreativityShare{
					{Lider: "A", Criatividade: "Alta", Count: 1, Percentage: 50},
					{Lider: "A", Criatividade: "Baixa", Count: 1, Percentage: 50},
				})
			})

			Convey("And the author medians sit between both authors", func() {
				So(out.Authors.MedianTotalMsgs, ShouldEqual, 15.0)
				So(out.Authors.MedianRepetitionRate, ShouldEqual, 7.5)
			})
		})
	})
}

func TestCreativityDistribution(t *testing.T) {
	Convey("Given rows with repeated levels and a missing level", t, func() {
		tbl := cleaned(t,
			"A;X;Baixa;1;1%",
			"A;Y;Alta;1;1%",
			"B;Z;Baixa;1;1%",
			"B;W;;1;1%",
			"C;V;Média;1;1%",
		)

		Convey("Then counts are sorted largest first, ties by label", func() {
			dist, err := aggregate.CreativityDistribution(tbl)
			So(err, ShouldBeNil)
			So(dist, ShouldResemble, []aggregate.CategoryCount{
				{Criatividade: "Baixa", Count: 2},
				{Criatividade: "Alta", Count: 1},
				{Criatividade: "Média", Count: 1},
			})
		})
	})
}

func TestCreativityMatrix(t *testing.T) {
	Convey("Given uneven teams", t, func() {
		tbl := cleaned(t,
			"A;a1;Alta;1;1%",
			"A;a2;Alta;1;1%",
			"A;a3;Baixa;1;1%",
			"B;b1;Média;1;1%",
			"B;b2;Alta;1;1%",
			"B;b3;Baixa;1;1%",
			"B;b4;Baixa;1;1%",
			"C;c1;Nenhuma;1;1%",
		)

		Convey("Then each leader's percentages sum to 100", func() {
			matrix, err := aggregate.CreativityMatrix(tbl)
			So(err, ShouldBeNil)
			sums := map[string]float64{}
			for _, s := range matrix {
				sums[s.Lider] += s.Percentage
			}
			So(len(sums), ShouldEqual, 3)
			for _, sum := range sums {
				So(math.Abs(sum-100)/100, ShouldBeLessThan, 1e-6)
			}
		})

		Convey("And a team's share reflects its own size", func() {
			matrix, _ := aggregate.CreativityMatrix(tbl)
			So(matrix[0].Lider, ShouldEqual, "A")
			So(matrix[0].Criatividade, ShouldEqual, "Alta")
			So(matrix[0].Count, ShouldEqual, 2)
			So(matrix[0].Percentage, ShouldAlmostEqual, 200.0/3.0, 1e-9)
		})
	})
}

func TestAvgRepetitionByLeader(t *testing.T) {
	Convey("Given leaders with several rows", t, func() {
		tbl := cleaned(t,
			"B;b1;Alta;1;10%",
			"A;a1;Alta;1;1,5%",
			"B;b2;Alta;1;20%",
			";x;Alta;1;99%",
			"A;a2;Alta;1;2,5%",
		)

		Convey("Then means are per leader, sorted, and missing leaders are skipped", func() {
			avg, err := aggregate.AvgRepetitionByLeader(tbl)
			So(err, ShouldBeNil)
			So(avg, ShouldResemble, []aggregate.LeaderAverage{
				{Lider: "A", RepetitionRate: 2},
				{Lider: "B", RepetitionRate: 15},
			})
		})
	})

	Convey("Given a table that was not cleaned", t, func() {
		tbl, err := dataset.Load(context.Background(), []byte(header+"\nA;a;Alta;1;1%\n"))
		So(err, ShouldBeNil)

		Convey("Then the aggregation refuses to run", func() {
			_, err := aggregate.AvgRepetitionByLeader(tbl)
			So(errors.Is(err, dataset.ErrNotCleaned), ShouldBeTrue)
		})
	})
}

func TestRankings(t *testing.T) {
	Convey("Given fifteen rows", t, func() {
		lines := make([]string, 0, 15)
		for i := 0; i < 15; i++ {
			rate := (i * 7) % 15
			lines = append(lines, fmt.Sprintf("L;author%02d;Alta;%d;%d,5%%", i, i, rate))
		}
		tbl := cleaned(t, lines...)

		low, err := aggregate.LowestRepetition(tbl, aggregate.DefaultTopN)
		So(err, ShouldBeNil)
		high, err := aggregate.HighestRepetition(tbl, aggregate.DefaultTopN)
		So(err, ShouldBeNil)

		Convey("Then each ranking is truncated to ten rows", func() {
			So(len(low), ShouldEqual, 10)
			So(len(high), ShouldEqual, 10)
		})

		Convey("And the rankings are sorted in opposite directions", func() {
			for i := 1; i < len(low); i++ {
				So(low[i-1].RepetitionRate, ShouldBeLessThanOrEqualTo, low[i].RepetitionRate)
				So(high[i-1].RepetitionRate, ShouldBeGreaterThanOrEqualTo, high[i].RepetitionRate)
			}
			So(low[0].RepetitionRate, ShouldEqual, 0.5)
			So(high[0].RepetitionRate, ShouldEqual, 14.5)
		})

		Convey("And together they hold at most twenty distinct rows within the overall range", func() {
			seen := map[string]bool{}
			for _, r := range append(append([]dataset.Row{}, low...), high...) {
				seen[r.Author] = true
				So(r.RepetitionRate, ShouldBeGreaterThanOrEqualTo, low[0].RepetitionRate)
				So(r.RepetitionRate, ShouldBeLessThanOrEqualTo, high[0].RepetitionRate)
			}
			So(len(seen), ShouldBeLessThanOrEqualTo, 20)
		})
	})

	Convey("Given fewer than ten rows with ties", t, func() {
		tbl := cleaned(t,
			"L;first;Alta;1;5%",
			"L;second;Alta;2;1%",
			"L;third;Alta;3;5%",
		)

		Convey("Then every row is returned in sorted order", func() {
			low, err := aggregate.LowestRepetition(tbl, 10)
			So(err, ShouldBeNil)
			So(authors(low), ShouldResemble, []string{"second", "first", "third"})

			high, err := aggregate.HighestRepetition(tbl, 10)
			So(err, ShouldBeNil)
			So(authors(high), ShouldResemble, []string{"first", "third", "second"})
		})

		Convey("And the rows are not altered", func() {
			low, _ := aggregate.LowestRepetition(tbl, 10)
			So(low[0], ShouldResemble, dataset.Row{
				Lider: "L", Author: "second", Criatividade: "Alta", TotalMsgs: 2, RepetitionRate: 1,
			})
		})
	})
}

func authors(rows []dataset.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Author
	}
	return out
}

func TestAuthorSummary(t *testing.T) {
	Convey("Given authors with several rows", t, func() {
		tbl := cleaned(t,
			"A;ana;Alta;10;2%",
			"A;bia;Alta;5;10%",
			"B;ana;Baixa;30;4%",
			"B;caio;Baixa;7;1%",
		)

		Convey("When summarising", func() {
			m, err := aggregate.AuthorSummary(tbl)
			So(err, ShouldBeNil)

			Convey("Then totals are summed over exactly the author's rows", func() {
				So(m.Authors, ShouldResemble, []aggregate.AuthorMetric{
					{Author: "ana", TotalMsgs: 40, RepetitionRate: 3},
					{Author: "bia", TotalMsgs: 5, RepetitionRate: 10},
					{Author: "caio", TotalMsgs: 7, RepetitionRate: 1},
				})
			})

			Convey("And the medians are taken across authors", func() {
				So(m.MedianTotalMsgs, ShouldEqual, 7.0)
				So(m.MedianRepetitionRate, ShouldEqual, 3.0)
			})
		})
	})

	Convey("Given an empty table", t, func() {
		tbl := cleaned(t)

		Convey("Then every table is empty and medians are zero", func() {
			out, err := aggregate.Compute(tbl, 10)
			So(err, ShouldBeNil)
			So(out.Distribution, ShouldBeEmpty)
			So(out.LeaderAverages, ShouldBeEmpty)
			So(out.Matrix, ShouldBeEmpty)
			So(out.Lowest, ShouldBeEmpty)
			So(out.Highest, ShouldBeEmpty)
			So(out.Authors.Authors, ShouldBeEmpty)
			So(out.Authors.MedianTotalMsgs, ShouldEqual, 0)
		})
	})

	Convey("Given a table missing the author column", t, func() {
		Convey("Then the summary reports the missing column", func() {
			_, err := aggregate.AuthorSummary(dataset.Table{})
			So(errors.Is(err, dataset.ErrMissingColumn), ShouldBeTrue)
		})
	})
}
