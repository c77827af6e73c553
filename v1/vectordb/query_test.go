package vectordb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefetchQuery_Depth(t *testing.T) {
	leaf := PrefetchQuery{Query: NewQueryNearest(1, 2)}
	assert.Equal(t, 1, leaf.Depth())

	tree := PrefetchQuery{
		Prefetch: []PrefetchQuery{
			leaf,
			{Prefetch: []PrefetchQuery{leaf}, Query: NewQueryFusion(RRF)},
		},
		Query: NewQueryFusion(DBSF),
	}
	assert.Equal(t, 3, tree.Depth())
}

func TestSearchRequest_ToQuery(t *testing.T) {
	f := NewFilter(NewMatchKeyword("city", "Berlin"))
	q := SearchRequest{
		Collection:  "docs",
		Vector:      Vector{0.1, 0.2},
		Using:       Ptr("dense"),
		Filter:      f,
		Limit:       5,
		WithPayload: true,
	}.ToQuery()

	assert.Equal(t, "docs", q.Collection)
	assert.Equal(t, NearestQuery{Vector: Vector{0.1, 0.2}}, q.Query)
	assert.Equal(t, uint64(5), *q.Limit)
	assert.Same(t, f, q.Filter)
	assert.True(t, q.WithPayload)
}

func TestRecommendAndDiscover_ToQuery(t *testing.T) {
	rec := RecommendRequest{
		Collection: "docs",
		Positive:   []VectorInput{NewIDNum(1)},
		Negative:   []VectorInput{Vector{0, 1}},
		Limit:      3,
	}.ToQuery()
	assert.Equal(t, RecommendQuery{Positive: []VectorInput{NewIDNum(1)}, Negative: []VectorInput{Vector{0, 1}}}, rec.Query)

	ctx := []ContextPair{{Positive: NewIDNum(2), Negative: NewIDNum(3)}}
	disc := DiscoverRequest{Collection: "docs", Target: NewIDNum(1), Context: ctx, Limit: 2}.ToQuery()
	assert.Equal(t, DiscoverQuery{Target: NewIDNum(1), Context: ctx}, disc.Query)
	assert.Equal(t, uint64(2), *disc.Limit)
}

func TestQueryRequest_Grouped(t *testing.T) {
	q := QueryRequest{
		Collection: "docs",
		Query:      NewQueryNearest(1),
		Limit:      Ptr[uint64](4),
		Offset:     Ptr[uint64](10),
	}
	g := q.Grouped(Grouping{GroupBy: "author", GroupSize: 2})

	assert.Equal(t, "author", g.GroupBy)
	assert.Equal(t, uint64(2), *g.GroupSize)
	assert.Equal(t, uint64(4), *g.Limit)
	assert.Equal(t, q.Query, g.Query)
}

func TestBatchCollection(t *testing.T) {
	name, err := BatchCollection([]QueryRequest{{Collection: "a"}, {Collection: "a"}})
	require.NoError(t, err)
	assert.Equal(t, "a", name)

	_, err = BatchCollection(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = BatchCollection([]QueryRequest{{Collection: "a"}, {Collection: "b"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFilter(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.True(t, Filter{Must: []Condition{}}.IsEmpty())

	f := Must(
		NewMatchKeyword("city", "London"),
		NewNestedFilter(Should(NewIsNull("price"), NewRange("price", Range{Lt: Ptr(100.0)}))),
	)
	assert.False(t, f.IsEmpty())
	nested, ok := f.Must[1].(Filter)
	require.True(t, ok)
	assert.Len(t, nested.Should, 2)
}

func TestNormalizeMatch(t *testing.T) {
	tests := []struct {
		name string
		in   Match
		want Match
	}{
		{"empty any integers", MatchAnyIntegers{}, MatchAnyKeywords(nil)},
		{"nil any integers", MatchAnyIntegers(nil), MatchAnyKeywords(nil)},
		{"empty any keywords", MatchAnyKeywords{}, MatchAnyKeywords(nil)},
		{"empty except integers", MatchExceptIntegers{}, MatchExceptKeywords(nil)},
		{"empty except keywords", MatchExceptKeywords{}, MatchExceptKeywords(nil)},
		{"filled integers", MatchAnyIntegers{1}, MatchAnyIntegers{1}},
		{"filled except", MatchExceptKeywords{"a"}, MatchExceptKeywords{"a"}},
		{"keyword", MatchKeyword(""), MatchKeyword("")},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMatch(tt.in))
		})
	}

	assert.Equal(t, MatchAnyKeywords(nil), NewMatchAnyInts("level").Match)
	assert.Equal(t, MatchExceptKeywords(nil), NewMatchExceptInts("level").Match)
	assert.Equal(t, MatchAnyKeywords(nil), NewMatchAnyKeywords("tag").Match)
	assert.Equal(t, MatchAnyIntegers{3}, NewMatchAnyInts("level", 3).Match)
}

func TestEnumSpellings(t *testing.T) {
	assert.Equal(t, "Cosine", Cosine.String())
	assert.Equal(t, "manhattan", Manhattan.SchemaName())

	d, ok := ParseDistance("Dot")
	assert.True(t, ok)
	assert.Equal(t, Dot, d)
	_, ok = ParseDistance("dot")
	assert.False(t, ok)
	d, ok = ParseDistanceSchema("euclid")
	assert.True(t, ok)
	assert.Equal(t, Euclid, d)

	ft, ok := ParseFieldType("keyword")
	assert.True(t, ok)
	assert.Equal(t, FieldTypeKeyword, ft)

	st, ok := ParseUpdateStatus("completed")
	assert.True(t, ok)
	assert.Equal(t, UpdateStatusCompleted, st)

	cs, ok := ParseCollectionStatus("green")
	assert.True(t, ok)
	assert.Equal(t, CollectionStatusGreen, cs)
}

func TestGroupIDAndShardKey(t *testing.T) {
	assert.Equal(t, "7", NewGroupIDUnsigned(7).String())
	assert.Equal(t, "-1", NewGroupIDInteger(-1).String())
	assert.Equal(t, "a", NewGroupIDString("a").String())
	assert.NotEqual(t, NewGroupIDUnsigned(1), NewGroupIDInteger(1))

	assert.True(t, NewShardNumber(3).IsNumber())
	assert.Equal(t, "eu", NewShardKeyword("eu").String())
}
