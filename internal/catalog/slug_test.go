package catalog_test

import (
	"testing"

	"github.com/RamD446/allindiajobs/internal/catalog"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Senior Software Developer", "senior-software-developer"},
		{"IBPS PO 2026 — Apply Now!", "ibps-po-2026-apply-now"},
		{"  Bank   Officer  ", "bank-officer"},
		{"C++ / Go Developer", "c-go-developer"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := catalog.Slug(c.title); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}
