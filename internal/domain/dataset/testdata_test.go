package dataset_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/criatividade/internal/domain/dataset"
)

const header = "lider;author;criatividade;total_msgs;repetition_rate"

func csvOf(lines ...string) []byte {
	return []byte(strings.Join(append([]string{header}, lines...), "\n") + "\n")
}

func mustLoad(t *testing.T, raw []byte) dataset.Table {
	t.Helper()
	tbl, err := dataset.Load(context.Background(), raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return tbl
}

func mustClean(t *testing.T, raw []byte) dataset.Table {
	t.Helper()
	tbl, err := dataset.Clean(mustLoad(t, raw))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	return tbl
}
