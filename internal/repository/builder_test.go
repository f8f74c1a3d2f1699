package repository

import (
	"reflect"
	"testing"
)

func TestQueryBuilder(t *testing.T) {
	t.Run("BaseOnly", func(t *testing.T) {
		query, args := newQueryBuilder("SELECT * FROM reports WHERE 1=1").Query()
		if query != "SELECT * FROM reports WHERE 1=1" {
			t.Errorf("unexpected query: %s", query)
		}
		if len(args) != 0 {
			t.Errorf("expected no args, got %v", args)
		}
	})

	t.Run("ConjunctivePredicates", func(t *testing.T) {
		b := newQueryBuilder("SELECT * FROM reports WHERE 1=1")
		b.Where("operator_id = ?", int64(4)).
			Where("report_date >= ?", "2024-11-01").
			OrderBy("report_date DESC")

		query, args := b.Query()
		want := "SELECT * FROM reports WHERE 1=1 AND operator_id = ? AND report_date >= ? ORDER BY report_date DESC"
		if query != want {
			t.Errorf("unexpected query:\n got %s\nwant %s", query, want)
		}
		if !reflect.DeepEqual(args, []any{int64(4), "2024-11-01"}) {
			t.Errorf("unexpected args: %v", args)
		}
	})

	t.Run("LimitBindsParameter", func(t *testing.T) {
		query, args := newQueryBuilder("SELECT * FROM transactions WHERE 1=1").
			Where("suspicious_flag = ?", 1).
			Limit(100).
			Query()

		want := "SELECT * FROM transactions WHERE 1=1 AND suspicious_flag = ? LIMIT ?"
		if query != want {
			t.Errorf("unexpected query:\n got %s\nwant %s", query, want)
		}
		if !reflect.DeepEqual(args, []any{1, 100}) {
			t.Errorf("unexpected args: %v", args)
		}
	})
}

func TestRebind(t *testing.T) {
	sqlite := &SQLRepository{driver: "sqlite"}
	postgres := &SQLRepository{driver: "postgres"}

	query := "SELECT * FROM reports WHERE operator_id = ? AND report_date >= ? LIMIT ?"

	if got := sqlite.rebind(query); got != query {
		t.Errorf("sqlite rebind changed query: %s", got)
	}

	want := "SELECT * FROM reports WHERE operator_id = $1 AND report_date >= $2 LIMIT $3"
	if got := postgres.rebind(query); got != want {
		t.Errorf("postgres rebind:\n got %s\nwant %s", got, want)
	}
}
