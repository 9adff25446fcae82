package view_test

import (
	"fmt"
	"slices"
	"testing"

	"golang.org/x/text/language"

	"github.com/rsilvagit/resumatch/internal/filter"
	"github.com/rsilvagit/resumatch/internal/mock"
	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/view"
)

func matchIDs(scores []model.MatchScore) []string {
	out := make([]string, 0, len(scores))
	for _, m := range scores {
		out = append(out, m.ID)
	}
	return out
}

func names(scores []model.MatchScore) []string {
	out := make([]string, 0, len(scores))
	for _, m := range scores {
		out = append(out, m.CandidateName)
	}
	return out
}

// sample builds n records with repeating scores, so ties exist.
func sample(n int) []model.MatchScore {
	out := make([]model.MatchScore, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.MatchScore{
			ID:            fmt.Sprintf("m-%02d", i),
			JobID:         fmt.Sprintf("job-%d", i%3),
			CandidateName: fmt.Sprintf("Candidate %02d", (i*7)%n),
			JobTitle:      "Engineer",
			OverallScore:  float64((i * 37) % 10 * 10),
			ScoredAt:      fmt.Sprintf("2024-01-%02dT10:00:00Z", i%28+1),
		})
	}
	return out
}

// ── Paginate ───────────────────────────────────────────────────────────────

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}
	cases := []struct {
		page, size int
		want       []int
	}{
		{0, 3, []int{0, 1, 2}},
		{1, 3, []int{3, 4, 5}},
		{2, 3, []int{6}},
		{3, 3, []int{}},
		{-1, 3, []int{}},
		{0, 0, []int{}},
		{0, -2, []int{}},
		{0, 10, items},
	}
	for _, tc := range cases {
		got := view.Paginate(items, tc.page, tc.size)
		if got == nil {
			t.Errorf("Paginate(%d,%d) returned nil", tc.page, tc.size)
		}
		if !slices.Equal(got, tc.want) {
			t.Errorf("Paginate(%d,%d) = %v, want %v", tc.page, tc.size, got, tc.want)
		}
	}
}

func TestPaginate_DoesNotAliasTail(t *testing.T) {
	items := []int{0, 1, 2, 3}
	page := view.Paginate(items, 0, 2)
	page = append(page, 99)
	if items[2] != 2 {
		t.Error("appending to a page overwrote the source collection")
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 10, 0}, {1, 10, 1}, {10, 10, 1}, {11, 10, 2}, {5, 0, 0},
	}
	for _, tc := range cases {
		if got := view.PageCount(tc.total, tc.size); got != tc.want {
			t.Errorf("PageCount(%d,%d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

// ── Composition: paginate(sort(filter(data))) ───────────────────────────────

func TestMatches_Composition(t *testing.T) {
	data := sample(23)
	for _, search := range []string{"", "candidate 1"} {
		for _, size := range []int{1, 4, 10} {
			q := view.Query{JobID: "job-1", Search: search, SortKey: view.KeyScore, Order: view.Descending, PageSize: size}
			filtered := filter.Matches(data, filter.Options{JobID: q.JobID, Search: q.Search})
			sorted := view.SortMatches(filtered, q.SortKey, q.Order, q.Locale)

			for page := 0; page <= len(filtered)/size+1; page++ {
				q.Page = page
				got := view.Matches(data, q)

				lo := min(page*size, len(sorted))
				hi := min((page+1)*size, len(sorted))
				want := sorted[lo:hi]
				if !slices.Equal(matchIDs(got.Rows), matchIDs(want)) {
					t.Errorf("search=%q size=%d page=%d: rows %v, want %v",
						search, size, page, matchIDs(got.Rows), matchIDs(want))
				}
				if got.Summary.Total != len(filtered) {
					t.Errorf("summary total = %d, want %d", got.Summary.Total, len(filtered))
				}
			}
		}
	}
}

func TestMatches_DefaultPageSize(t *testing.T) {
	got := view.Matches(sample(25), view.Query{SortKey: view.KeyScore})
	if got.PageSize != view.DefaultPageSize || len(got.Rows) != 10 || got.Pages != 3 {
		t.Errorf("page = size %d rows %d pages %d", got.PageSize, len(got.Rows), got.Pages)
	}
}

// ── Sort ───────────────────────────────────────────────────────────────────

func TestSortMatches_DescendingIsExactReverse(t *testing.T) {
	data := sample(20)
	for _, key := range []string{view.KeyScore, view.KeyCandidate, view.KeyJobTitle, view.KeyDate, view.KeyTechnical} {
		asc := matchIDs(view.SortMatches(data, key, view.Ascending, language.Und))
		desc := matchIDs(view.SortMatches(data, key, view.Descending, language.Und))
		slices.Reverse(desc)
		if !slices.Equal(asc, desc) {
			t.Errorf("key %s: descending is not the reverse of ascending\nasc:  %v\ndesc: %v", key, asc, desc)
		}
	}
}

func TestSortMatches_ByScore(t *testing.T) {
	got := matchIDs(view.SortMatches(mock.MatchScores(), "matchScore", view.Descending, language.Und))
	want := []string{"match-2", "match-1", "match-3"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortMatches_LocaleAware(t *testing.T) {
	data := []model.MatchScore{
		{ID: "1", CandidateName: "Zoe"},
		{ID: "2", CandidateName: "Åsa"},
		{ID: "3", CandidateName: "Adam"},
		{ID: "4", CandidateName: "émile"},
	}

	got := names(view.SortMatches(data, view.KeyCandidate, view.Ascending, language.Und))
	want := []string{"Adam", "Åsa", "émile", "Zoe"}
	if !slices.Equal(got, want) {
		t.Errorf("root collation: got %v, want %v", got, want)
	}

	// Swedish sorts Å after Z.
	got = names(view.SortMatches(data, view.KeyCandidate, view.Ascending, language.Swedish))
	want = []string{"Adam", "émile", "Zoe", "Åsa"}
	if !slices.Equal(got, want) {
		t.Errorf("swedish collation: got %v, want %v", got, want)
	}
}

func TestSortMatches_MissingValues(t *testing.T) {
	data := []model.MatchScore{
		{ID: "a", OverallScore: 50, ScoredAt: "2024-01-02T00:00:00Z", CandidateName: "Bea"},
		{ID: "b"},
		{ID: "c", OverallScore: 10, ScoredAt: "garbage", CandidateName: "Al"},
	}
	if got := matchIDs(view.SortMatches(data, view.KeyScore, view.Ascending, language.Und)); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("score asc = %v", got)
	}
	if got := matchIDs(view.SortMatches(data, view.KeyDate, view.Ascending, language.Und)); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("date asc = %v", got)
	}
	if got := matchIDs(view.SortMatches(data, view.KeyCandidate, view.Ascending, language.Und)); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("name asc = %v", got)
	}
}

func TestSortMatches_UnknownKeyKeepsOrder(t *testing.T) {
	data := sample(6)
	for _, order := range []view.Order{view.Ascending, view.Descending} {
		got := matchIDs(view.SortMatches(data, "salary", order, language.Und))
		if !slices.Equal(got, matchIDs(data)) {
			t.Errorf("order %s: got %v, want input order", order, got)
		}
	}
}

func TestSortMatches_DoesNotMutateInput(t *testing.T) {
	data := sample(8)
	before := matchIDs(data)
	view.SortMatches(data, view.KeyScore, view.Ascending, language.Und)
	if !slices.Equal(before, matchIDs(data)) {
		t.Error("SortMatches reordered its input")
	}
}

func TestSortJobs(t *testing.T) {
	jobs := mock.Jobs()
	ids := func(js []model.Job) []string {
		var out []string
		for _, j := range js {
			out = append(out, j.ID)
		}
		return out
	}
	if got := ids(view.SortJobs(jobs, view.KeyCreatedAt, view.Ascending, language.Und)); !slices.Equal(got, []string{"job-3", "job-2", "job-1"}) {
		t.Errorf("createdAt asc = %v", got)
	}
	if got := ids(view.SortJobs(jobs, view.KeyCompany, view.Ascending, language.Und)); !slices.Equal(got, []string{"job-2", "job-3", "job-1"}) {
		t.Errorf("company asc = %v", got)
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]view.Order{"asc": view.Ascending, "DESC": view.Descending, "": view.Descending} {
		got, err := view.ParseOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseOrder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := view.ParseOrder("sideways"); err == nil {
		t.Error("ParseOrder(sideways) should fail")
	}
}

// ── Aggregates ─────────────────────────────────────────────────────────────

func TestSummarize(t *testing.T) {
	got := view.Summarize(mock.MatchScores())
	want := view.Summary{Total: 3, Average: 85, TopMatches: 2}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
	if again := view.Summarize(mock.MatchScores()); again != got {
		t.Errorf("Summarize is not idempotent: %+v vs %+v", again, got)
	}
}

func TestSummarize_RoundsAndCountsThreshold(t *testing.T) {
	got := view.Summarize([]model.MatchScore{{OverallScore: 80}, {OverallScore: 79.9}, {OverallScore: 70}})
	if got.Average != 76.6 {
		t.Errorf("Average = %v, want 76.6", got.Average)
	}
	if got.TopMatches != 1 {
		t.Errorf("TopMatches = %d, want 1 (80 counts, 79.9 does not)", got.TopMatches)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := view.Summarize(nil); got != (view.Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

// ── Skills and bands ───────────────────────────────────────────────────────

func TestTopSkills(t *testing.T) {
	set := &model.SkillSet{
		Tools:                []string{"Git"},
		CloudPlatforms:       []string{"AWS"},
		Databases:            []string{"Postgres"},
		Frameworks:           []string{"React", "Gin"},
		ProgrammingLanguages: []string{"Go", "TS"},
	}
	got := view.TopSkills(set)
	want := []string{"Go", "TS", "React", "Gin", "Postgres"}
	if !slices.Equal(got, want) {
		t.Errorf("TopSkills = %v, want %v", got, want)
	}
	if got := view.TopSkills(nil); got == nil || len(got) != 0 {
		t.Errorf("TopSkills(nil) = %#v, want empty", got)
	}
}

func TestChips(t *testing.T) {
	shown, more := view.Chips([]string{"a", "b", "c", "d", "e"}, 3)
	if !slices.Equal(shown, []string{"a", "b", "c"}) || more != 2 {
		t.Errorf("Chips = %v +%d", shown, more)
	}
	shown, more = view.Chips([]string{"a"}, 3)
	if len(shown) != 1 || more != 0 {
		t.Errorf("Chips = %v +%d", shown, more)
	}
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		score float64
		label string
		color string
	}{
		{120, "Excellent", "success"},
		{90, "Excellent", "success"},
		{89.9, "Very Good", "primary"},
		{80, "Very Good", "primary"},
		{70, "Good", "warning"},
		{65, "Fair", "error"},
		{59, "Poor", "error"},
		{-5, "Poor", "error"},
	}
	for _, tc := range cases {
		got := view.BandFor(tc.score)
		if got.Label != tc.label || got.Color != tc.color {
			t.Errorf("BandFor(%v) = %+v, want %s/%s", tc.score, got, tc.label, tc.color)
		}
	}
	if view.Clamp(150) != 100 || view.Clamp(-1) != 0 || view.Clamp(42) != 42 {
		t.Error("Clamp out of [0,100]")
	}
}
