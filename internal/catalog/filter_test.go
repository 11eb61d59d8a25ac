package catalog_test

import (
	"reflect"
	"testing"

	"github.com/RamD446/allindiajobs/internal/catalog"
)

func sampleJobs() []catalog.Job {
	return []catalog.Job{
		{ID: "1", Title: "IBPS PO", Category: "IBPS PO", Company: "IBPS", CreatedDate: "2026-08-20"},
		{ID: "2", Title: "SBI Clerk", Category: "SBI Clerk", Company: "SBI", CreatedDate: "2026-08-22"},
		{ID: "3", Title: "Clerk", Category: catalog.CategoryGovernment, Company: "State Govt", CreatedDate: "2026-08-25"},
		{ID: "4", Title: "Developer", Category: catalog.CategoryITSoftware, Company: "Tech Ltd", Type: "Full-time", CreatedDate: "2026-08-24"},
		{ID: "5", Title: "Stay Positive", Category: catalog.CategoryMotivation, CreatedDate: "2026-08-26"},
	}
}

func ids(jobs []catalog.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

// ── Scenario: banking bucket keeps exactly the bank-token postings ─────────

func TestApply_BankingBucket(t *testing.T) {
	got := catalog.Apply(sampleJobs(), catalog.NewViewState(catalog.BucketBanking))
	want := []string{"2", "1"} // newest first
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("banking bucket = %v, want %v", ids(got), want)
	}
}

// ── Scenario: default bucket excludes the editorial posting ────────────────

func TestApply_DefaultBucketExcludesEditorial(t *testing.T) {
	got := catalog.Apply(sampleJobs(), catalog.NewViewState(catalog.BucketAllLatest))
	for _, job := range got {
		if job.ID == "5" {
			t.Error("editorial posting should be excluded from all-latest-jobs")
		}
	}
	if len(got) != 4 {
		t.Errorf("all-latest-jobs has %d postings, want 4", len(got))
	}
}

// ── Sort order ─────────────────────────────────────────────────────────────

func TestApply_NewestFirst(t *testing.T) {
	got := catalog.Apply(sampleJobs(), catalog.NewViewState(catalog.BucketAllLatest))
	want := []string{"3", "4", "2", "1"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
}

func TestApply_StableTies(t *testing.T) {
	jobs := []catalog.Job{
		{ID: "a", Category: catalog.CategoryITSoftware, CreatedDate: "2026-08-20"},
		{ID: "b", Category: catalog.CategoryITSoftware, CreatedDate: "2026-08-20"},
		{ID: "c", Category: catalog.CategoryITSoftware, CreatedDate: "2026-08-20"},
	}
	got := catalog.Apply(jobs, catalog.NewViewState(catalog.BucketAllLatest))
	if !reflect.DeepEqual(ids(got), []string{"a", "b", "c"}) {
		t.Errorf("tied timestamps should keep input order, got %v", ids(got))
	}
}

func TestApply_MalformedDateSortsLast(t *testing.T) {
	jobs := []catalog.Job{
		{ID: "bad", Category: catalog.CategoryITSoftware, CreatedDate: "not-a-date"},
		{ID: "ok", Category: catalog.CategoryITSoftware, CreatedDate: "2026-08-20"},
	}
	got := catalog.Apply(jobs, catalog.NewViewState(catalog.BucketAllLatest))
	if got[len(got)-1].ID != "bad" {
		t.Errorf("malformed createdDate should sort last, got order %v", ids(got))
	}
}

// ── Idempotence ────────────────────────────────────────────────────────────

func TestApply_Idempotent(t *testing.T) {
	state := catalog.ViewState{
		Bucket: catalog.BucketAllLatest,
		Facets: catalog.Facets{Companies: []string{"SBI", "Tech Ltd"}},
		Page:   1,
	}
	once := catalog.Apply(sampleJobs(), state)
	twice := catalog.Apply(once, state)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("Apply twice = %v, want %v", ids(twice), ids(once))
	}
}

// ── Facet semantics: OR within a group, AND across groups ──────────────────

func TestApply_FacetsORWithinGroup(t *testing.T) {
	state := catalog.NewViewState(catalog.BucketAllLatest)
	state.Facets.Companies = []string{"IBPS", "SBI"}
	got := catalog.Apply(sampleJobs(), state)
	if !reflect.DeepEqual(ids(got), []string{"2", "1"}) {
		t.Errorf("company facet = %v, want [2 1]", ids(got))
	}
}

func TestApply_FacetsANDAcrossGroups(t *testing.T) {
	state := catalog.NewViewState(catalog.BucketAllLatest)
	state.Facets.Companies = []string{"Tech Ltd", "SBI"}
	state.Facets.Types = []string{"Full-time"}
	got := catalog.Apply(sampleJobs(), state)
	// Only job 4 has both company "Tech Ltd" and type "Full-time".
	if !reflect.DeepEqual(ids(got), []string{"4"}) {
		t.Errorf("combined facets = %v, want [4]", ids(got))
	}
}

// ── ViewState transitions ──────────────────────────────────────────────────

func TestViewState_WithBucketClearsFacetsAndPage(t *testing.T) {
	state := catalog.NewViewState(catalog.BucketAllLatest).
		ToggleFacet("company", "SBI").
		WithPage(3)

	next := state.WithBucket(catalog.BucketGovernment)
	if next.Bucket != catalog.BucketGovernment {
		t.Errorf("bucket = %q, want government-jobs", next.Bucket)
	}
	if !next.Facets.Empty() {
		t.Error("switching bucket should clear all facet selections")
	}
	if next.Page != 1 {
		t.Errorf("page = %d, want 1", next.Page)
	}
}

func TestViewState_ToggleFacetResetsPageKeepsBucket(t *testing.T) {
	state := catalog.NewViewState(catalog.BucketPrivate).WithPage(4)
	next := state.ToggleFacet("experience", "Fresher")
	if next.Bucket != catalog.BucketPrivate {
		t.Errorf("bucket = %q, want private-jobs", next.Bucket)
	}
	if next.Page != 1 {
		t.Errorf("page = %d, want 1", next.Page)
	}
	if !reflect.DeepEqual(next.Facets.Experience, []string{"Fresher"}) {
		t.Errorf("experience facet = %v, want [Fresher]", next.Facets.Experience)
	}
}

func TestViewState_ToggleFacetTwiceRemoves(t *testing.T) {
	state := catalog.NewViewState(catalog.BucketAllLatest).
		ToggleFacet("salary", "5-10 LPA").
		ToggleFacet("salary", "5-10 LPA")
	if !state.Facets.Empty() {
		t.Errorf("toggling the same value twice should deselect it, got %+v", state.Facets)
	}
}

func TestViewState_ToggleFacetDoesNotMutateOriginal(t *testing.T) {
	original := catalog.NewViewState(catalog.BucketAllLatest).ToggleFacet("company", "A")
	_ = original.ToggleFacet("company", "B")
	if len(original.Facets.Companies) != 1 {
		t.Errorf("original state mutated: %v", original.Facets.Companies)
	}
}
