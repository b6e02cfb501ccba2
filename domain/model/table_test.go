package model

import "testing"

func newTestTable() *Table {
	return NewTable(
		"users",
		NewHeader([]string{"id", "name"}),
		[]Record{
			NewRecord([]string{"1", "Bob"}),
			NewRecord([]string{"2", "Amy"}),
		},
	)
}

func TestTableAccessors(t *testing.T) {
	t.Parallel()

	table := newTestTable()
	if table.Name() != "users" {
		t.Errorf("Name() = %q, want %q", table.Name(), "users")
	}
	if table.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", table.NumRows())
	}
	if !table.Header().Equal(NewHeader([]string{"id", "name"})) {
		t.Errorf("unexpected header %v", table.Header())
	}
	if len(table.ColumnInfo()) != 2 {
		t.Fatalf("expected 2 column infos, got %d", len(table.ColumnInfo()))
	}
	if table.ColumnInfo()[0].Type != ColumnTypeInteger {
		t.Errorf("id column type = %v, want %v", table.ColumnInfo()[0].Type, ColumnTypeInteger)
	}
}

func TestTableProfile(t *testing.T) {
	t.Parallel()

	table := newTestTable()
	p := table.Profile("id")
	if p == nil {
		t.Fatal("Profile(id) returned nil")
	}
	if p.UniquenessRatio != 1.0 {
		t.Errorf("id uniqueness = %f, want 1.0", p.UniquenessRatio)
	}
	if table.Profile("missing") != nil {
		t.Error("Profile(missing) should return nil")
	}
}

func TestTableEqual(t *testing.T) {
	t.Parallel()

	if !newTestTable().Equal(newTestTable()) {
		t.Error("identical tables should be equal")
	}

	other := NewTable("users", NewHeader([]string{"id", "name"}),
		[]Record{NewRecord([]string{"1", "Bob"})})
	if newTestTable().Equal(other) {
		t.Error("tables with different row counts should not be equal")
	}
}

func TestHeaderIndex(t *testing.T) {
	t.Parallel()

	h := NewHeader([]string{"id", "name"})
	if h.Index("name") != 1 {
		t.Errorf("Index(name) = %d, want 1", h.Index("name"))
	}
	if h.Index("missing") != -1 {
		t.Errorf("Index(missing) = %d, want -1", h.Index("missing"))
	}
}

func TestTableFromFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"users.csv", "users"},
		{"/tmp/orders.tsv", "orders"},
		{"data.csv.gz", "data"},
		{"dump.sql.zst", "dump"},
		{"report.xlsx", "report"},
	}
	for _, tt := range tests {
		if got := TableFromFilePath(tt.path); got != tt.want {
			t.Errorf("TableFromFilePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
