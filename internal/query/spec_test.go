package query

import (
	"testing"
	"time"

	"galeria-pdf/internal/models"

	"github.com/stretchr/testify/require"
)

func TestBuild_Defaults(t *testing.T) {
	spec := Build(7, Params{})

	require.Equal(t, int64(7), spec.CallerID)
	require.Equal(t, FilterAll, spec.Filter)
	require.Equal(t, SearchAll, spec.SearchBy)
	require.Equal(t, SortNewest, spec.Sort)
	require.Empty(t, spec.Search)
	require.Nil(t, spec.CreatedAfter)
}

func TestBuild_MalformedEnumsFallBack(t *testing.T) {
	spec := Build(1, Params{
		Search:     "  invoice  ",
		SearchBy:   "banana",
		Sort:       "sideways",
		Filter:     "everything",
		DateFilter: "yesterday",
	})

	require.Equal(t, FilterAll, spec.Filter)
	require.Equal(t, SearchAll, spec.SearchBy)
	require.Equal(t, SortNewest, spec.Sort)
	require.Nil(t, spec.CreatedAfter)
	require.Equal(t, "invoice", spec.Search, "search term should be trimmed")
}

func TestBuild_NameIsAliasForTitle(t *testing.T) {
	spec := Build(1, Params{SearchBy: "name"})
	require.Equal(t, SearchTitle, spec.SearchBy)

	spec = Build(1, Params{SearchBy: "title"})
	require.Equal(t, SearchTitle, spec.SearchBy)
}

func TestCreatedAfterFor(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.Local)

	require.Nil(t, CreatedAfterFor("all", now))
	require.Nil(t, CreatedAfterFor("", now))

	today := CreatedAfterFor("today", now)
	require.NotNil(t, today)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), *today)

	week := CreatedAfterFor("week", now)
	require.NotNil(t, week)
	require.Equal(t, now.AddDate(0, 0, -7), *week)

	month := CreatedAfterFor("month", now)
	require.NotNil(t, month)
	require.Equal(t, now.AddDate(0, -1, 0), *month)
}

func doc(owner int64, public bool) models.PdfDocument {
	return models.PdfDocument{
		ID:        "x",
		OwnerID:   owner,
		Title:     "Quarterly Invoice",
		Tags:      []string{"work", "2024"},
		IsPublic:  public,
		CreatedAt: time.Now(),
	}
}

func TestMatches_Visibility(t *testing.T) {
	const caller = int64(1)

	// filter=all: own documents and anyone's public ones.
	all := Build(caller, Params{})
	require.True(t, all.Matches(doc(caller, false)))
	require.True(t, all.Matches(doc(caller, true)))
	require.True(t, all.Matches(doc(2, true)))
	require.False(t, all.Matches(doc(2, false)), "another user's private document must never be visible")

	public := Build(caller, Params{Filter: "public"})
	require.True(t, public.Matches(doc(2, true)))
	require.True(t, public.Matches(doc(caller, false)), "filter=public still includes the caller's own documents")
	require.False(t, public.Matches(doc(2, false)))

	private := Build(caller, Params{Filter: "private"})
	require.True(t, private.Matches(doc(caller, false)))
	require.False(t, private.Matches(doc(caller, true)))
	require.False(t, private.Matches(doc(2, false)))
	require.False(t, private.Matches(doc(2, true)))
}

func TestMatches_Search(t *testing.T) {
	const caller = int64(1)
	d := doc(caller, false)
	d.Description = "March statement"

	require.True(t, Build(caller, Params{Search: "INVOICE", SearchBy: "title"}).Matches(d))
	require.False(t, Build(caller, Params{Search: "statement", SearchBy: "title"}).Matches(d))
	require.True(t, Build(caller, Params{Search: "statement", SearchBy: "description"}).Matches(d))
	require.True(t, Build(caller, Params{Search: "WORK", SearchBy: "tags"}).Matches(d))
	require.False(t, Build(caller, Params{Search: "invoice", SearchBy: "tags"}).Matches(d))

	// searchBy=all is the OR of the three.
	require.True(t, Build(caller, Params{Search: "2024"}).Matches(d))
	require.True(t, Build(caller, Params{Search: "statement"}).Matches(d))
	require.False(t, Build(caller, Params{Search: "nowhere"}).Matches(d))
}

func TestMatches_SearchCombinesWithVisibility(t *testing.T) {
	// A matching search never overrides the visibility rule.
	spec := Build(1, Params{Search: "invoice"})
	require.False(t, spec.Matches(doc(2, false)))
}

func TestMatches_DateCutoff(t *testing.T) {
	spec := Build(1, Params{DateFilter: "week"})

	fresh := doc(1, false)
	require.True(t, spec.Matches(fresh))

	stale := doc(1, false)
	stale.CreatedAt = time.Now().AddDate(0, 0, -30)
	require.False(t, spec.Matches(stale))
}
