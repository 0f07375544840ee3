package listing

import (
	"testing"
)

type person struct {
	name string
	dept string
	age  int
}

var people = []person{
	{"Ana Lopez", "Engineering", 31},
	{"Ben Carter", "Sales", 45},
	{"Chloe Nguyen", "Engineering", 28},
	{"Dev Patel", "Finance", 39},
	{"Eve Martin", "Sales", 23},
}

var cols = Columns[person]{
	Text: func(p person) []string { return []string{p.name, p.dept} },
	Sorters: map[string]func(a, b person) int{
		"name": ByString(func(p person) string { return p.name }),
		"age":  ByOrdered(func(p person) int { return p.age }),
	},
}

func names(ps []person) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchSubstringAndTypos(t *testing.T) {
	got := Apply(people, cols, Query{Search: "engin", SortKey: "name"})
	if want := []string{"Ana Lopez", "Chloe Nguyen"}; !equal(names(got.Items), want) {
		t.Fatalf("engin: %v", names(got.Items))
	}
	got = Apply(people, cols, Query{Search: "finanse"})
	if want := []string{"Dev Patel"}; !equal(names(got.Items), want) {
		t.Fatalf("typo: %v", names(got.Items))
	}
	got = Apply(people, cols, Query{Search: "sales eve"})
	if want := []string{"Eve Martin"}; !equal(names(got.Items), want) {
		t.Fatalf("two terms: %v", names(got.Items))
	}
	got = Apply(people, cols, Query{Search: "xyz"})
	if got.Total != 0 || got.Pages != 1 || len(got.Items) != 0 {
		t.Fatalf("no match page = %+v", got)
	}
}

func TestShortTermsAreExact(t *testing.T) {
	got := Filter(people, cols.Text, "bem")
	if len(got) != 0 {
		t.Fatalf("short term matched fuzzily: %v", names(got))
	}
}

func TestSortDirections(t *testing.T) {
	got := Apply(people, cols, Query{SortKey: "age", PageSize: 10})
	if want := []string{"Eve Martin", "Chloe Nguyen", "Ana Lopez", "Dev Patel", "Ben Carter"}; !equal(names(got.Items), want) {
		t.Fatalf("asc: %v", names(got.Items))
	}
	got = Apply(people, cols, Query{SortKey: "age", Desc: true, PageSize: 10})
	if names(got.Items)[0] != "Ben Carter" {
		t.Fatalf("desc: %v", names(got.Items))
	}
	if people[0].name != "Ana Lopez" {
		t.Fatalf("input reordered")
	}
}

func TestPaginateClamps(t *testing.T) {
	p := Paginate(people, 2, 2)
	if !equal(names(p.Items), []string{"Chloe Nguyen", "Dev Patel"}) || p.Pages != 3 || p.Total != 5 {
		t.Fatalf("page 2 = %+v", p)
	}
	p = Paginate(people, 99, 2)
	if p.Page != 3 || len(p.Items) != 1 {
		t.Fatalf("clamped high = %+v", p)
	}
	p = Paginate(people, -1, 0)
	if p.Page != 1 || len(p.Items) != 5 {
		t.Fatalf("defaults = %+v", p)
	}
	empty := Paginate([]person(nil), 1, 5)
	if empty.Pages != 1 || empty.Page != 1 || len(empty.Items) != 0 {
		t.Fatalf("empty = %+v", empty)
	}
}
