package rest

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip[T any](t *testing.T, codec vectordb.Codec[T, json.RawMessage], in T) T {
	t.Helper()
	w, err := codec.Encode(in)
	require.NoError(t, err)
	out, err := codec.Decode(w)
	require.NoError(t, err, "decoding %s", w)
	return out
}

func kindOfErr(err error) vectordb.Kind { return vectordb.KindOf(err) }

const sampleUUID = "5c56c793-69f3-4fbf-87e6-c4bf54c28c26"

func TestPointIDs_RoundTrip(t *testing.T) {
	for _, id := range []vectordb.PointID{
		vectordb.NewIDNum(0),
		vectordb.NewIDNum(math.MaxUint64),
		vectordb.MustIDUUID(sampleUUID),
	} {
		assert.Equal(t, id, roundTrip(t, PointIDs, id), id.String())
	}
}

func TestPointIDs_Shapes(t *testing.T) {
	w, err := PointIDs.Encode(vectordb.NewIDNum(7))
	require.NoError(t, err)
	assert.JSONEq(t, `7`, string(w))

	w, err = PointIDs.Encode(vectordb.MustIDUUID(sampleUUID))
	require.NoError(t, err)
	assert.JSONEq(t, `"`+sampleUUID+`"`, string(w))
}

func TestPointIDs_DecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want vectordb.Kind
	}{
		{"bad uuid", `"not-a-uuid"`, vectordb.KindDataCorrupted},
		{"negative", `-1`, vectordb.KindDataCorrupted},
		{"fraction", `1.5`, vectordb.KindTypeMismatch},
		{"null", `null`, vectordb.KindDataCorrupted},
		{"bool", `true`, vectordb.KindTypeMismatch},
		{"broken json", `{`, vectordb.KindDataCorrupted},
		{"trailing data", `1 2`, vectordb.KindDataCorrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PointIDs.Decode(json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.Equal(t, tt.want, kindOfErr(err))
		})
	}
}

func TestValues_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   vectordb.Value
	}{
		{"null", vectordb.NullValue{}},
		{"bool", vectordb.BoolValue(false)},
		{"integer", vectordb.IntegerValue(42)},
		{"min integer", vectordb.IntegerValue(math.MinInt64)},
		{"max integer", vectordb.IntegerValue(math.MaxInt64)},
		{"double", vectordb.DoubleValue(3.14)},
		{"whole double", vectordb.DoubleValue(3)},
		{"tiny double", vectordb.DoubleValue(1e-300)},
		{"string", vectordb.StringValue("héllo")},
		{"empty array", vectordb.NewArray()},
		{"empty object", vectordb.ObjectValue{}},
		{"nested", vectordb.ObjectValue{
			"tags": vectordb.NewArray(vectordb.StringValue("a"), vectordb.IntegerValue(1)),
			"meta": vectordb.ObjectValue{"score": vectordb.DoubleValue(0.5), "ok": vectordb.NullValue{}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.in, roundTrip(t, Values, tt.in))
		})
	}
}

func TestValues_IntegerVersusDouble(t *testing.T) {
	w, err := Values.Encode(vectordb.IntegerValue(42))
	require.NoError(t, err)
	assert.Equal(t, `42`, string(w))

	w, err = Values.Encode(vectordb.DoubleValue(3.14))
	require.NoError(t, err)
	assert.Equal(t, `3.14`, string(w))

	w, err = Values.Encode(vectordb.DoubleValue(3))
	require.NoError(t, err)
	assert.Equal(t, `3.0`, string(w))

	v, err := Values.Decode(json.RawMessage(`42`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.IntegerValue(42), v)

	v, err = Values.Decode(json.RawMessage(`42.0`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.DoubleValue(42), v)

	v, err = Values.Decode(json.RawMessage(`1e3`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.DoubleValue(1000), v)
}

func TestValues_Failures(t *testing.T) {
	_, err := Values.Encode(vectordb.DoubleValue(math.NaN()))
	assert.True(t, errors.Is(err, vectordb.ErrDataCorrupted))

	_, err = Values.Encode(vectordb.ArrayValue{vectordb.DoubleValue(math.Inf(1))})
	var typed *vectordb.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, "$[0]", typed.Path)

	_, err = Values.Decode(json.RawMessage(`1e400`))
	assert.True(t, errors.Is(err, vectordb.ErrDataCorrupted))
}

func TestValues_IntegerOverflowFallsBackToDouble(t *testing.T) {
	v, err := Values.Decode(json.RawMessage(`18446744073709551615`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.DoubleValue(18446744073709551615), v)

	v, err = Values.Decode(json.RawMessage(`-9223372036854775808`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.IntegerValue(math.MinInt64), v)
}

func TestPayloads_RoundTrip(t *testing.T) {
	p := vectordb.MustPayload(map[string]any{
		"city":  "Berlin",
		"count": 3,
		"ratio": 0.25,
		"tags":  []any{"x", "y"},
	})
	assert.Equal(t, p, roundTrip(t, Payloads, p))

	w, err := Payloads.Encode(vectordb.Payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(w))

	decoded, err := Payloads.Decode(json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestPayloads_DecodeReportsPath(t *testing.T) {
	_, err := Payloads.Decode(json.RawMessage(`{"outer":[1, 99999999999999999999]}`))
	var typed *vectordb.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, vectordb.KindDataCorrupted, typed.Kind)
	assert.Equal(t, "$.outer[1]", typed.Path)
}

func TestVectors_RoundTrip(t *testing.T) {
	dense := vectordb.Vector{0.1, 0.2, 0.3}
	assert.Equal(t, vectordb.VectorData(dense), roundTrip[vectordb.VectorData](t, Vectors, dense))

	named := vectordb.NamedVectors{"image": {1, 0}, "text": {0, 1, 0}}
	assert.Equal(t, vectordb.VectorData(named), roundTrip[vectordb.VectorData](t, Vectors, named))
}

func TestVectors_RejectsSparse(t *testing.T) {
	_, err := Vectors.Decode(json.RawMessage(`{"text":{"indices":[1],"values":[0.5]}}`))
	assert.True(t, errors.Is(err, vectordb.ErrTypeMismatch))
}

func sampleFilter() vectordb.Filter {
	return vectordb.Filter{
		Must: []vectordb.Condition{
			vectordb.NewMatchKeyword("city", "London"),
			vectordb.NewMatchInt("year", 2024),
			vectordb.NewMatchBool("active", true),
			vectordb.NewRange("price", vectordb.Range{Gte: vectordb.Ptr(10.0), Lt: vectordb.Ptr(99.5)}),
			vectordb.NewGeoRadius("location", vectordb.GeoPoint{Lon: 13.4, Lat: 52.5}, 1000),
		},
		Should: []vectordb.Condition{
			vectordb.NewMatchAnyKeywords("tag", "a", "b"),
			vectordb.NewMatchAnyInts("level", 1, 2),
			vectordb.NewMatchText("body", "vector search"),
			vectordb.NewGeoBoundingBox("area", vectordb.GeoPoint{Lon: 0, Lat: 10}, vectordb.GeoPoint{Lon: 10, Lat: 0}),
		},
		MustNot: []vectordb.Condition{
			vectordb.NewMatchExceptKeywords("color", "red"),
			vectordb.NewMatchExceptInts("size", 3),
			vectordb.NewIsEmpty("notes"),
			vectordb.NewIsNull("deleted_at"),
			vectordb.NewHasID(vectordb.NewIDNum(1), vectordb.MustIDUUID(sampleUUID)),
			vectordb.NewNestedFilter(vectordb.Should(vectordb.NewMatchKeyword("kind", "draft"))),
		},
	}
}

func TestFilters_RoundTrip(t *testing.T) {
	f := sampleFilter()
	assert.Equal(t, f, roundTrip(t, Filters, f))
}

func TestFilters_EmptyFilterIsEmptyObject(t *testing.T) {
	w, err := Filters.Encode(vectordb.Filter{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(w))
	assert.Equal(t, vectordb.Filter{}, roundTrip(t, Filters, vectordb.Filter{}))
}

func TestFilters_WireShape(t *testing.T) {
	w, err := Filters.Encode(vectordb.Filter{
		Must:    []vectordb.Condition{vectordb.NewMatchKeyword("city", "London")},
		MustNot: []vectordb.Condition{vectordb.NewIsNull("deleted_at")},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"must": [{"key": "city", "match": {"value": "London"}}],
		"must_not": [{"is_null": {"key": "deleted_at"}}]
	}`, string(w))
}

func TestFilters_DecodeServerShapes(t *testing.T) {
	// A single condition in place of a list, and a wrapped nested filter.
	f, err := Filters.Decode(json.RawMessage(`{
		"must": {"key": "n", "match": {"value": 5}},
		"should": [{"filter": {"must": [{"has_id": [1]}]}}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.Filter{
		Must:   []vectordb.Condition{vectordb.NewMatchInt("n", 5)},
		Should: []vectordb.Condition{vectordb.Must(vectordb.NewHasID(vectordb.NewIDNum(1)))},
	}, f)

	_, err = Filters.Decode(json.RawMessage(`{"must": [], "min_should": {"conditions": [], "min_count": 1}}`))
	assert.True(t, errors.Is(err, vectordb.ErrTypeMismatch))
}

func TestConditions_FieldConditionNeedsExactlyOneTest(t *testing.T) {
	_, err := Conditions.Encode(vectordb.FieldCondition{Key: "k"})
	assert.True(t, errors.Is(err, vectordb.ErrInvalidArgument))

	_, err = Conditions.Encode(vectordb.FieldCondition{
		Key:   "k",
		Match: vectordb.MatchKeyword("v"),
		Range: &vectordb.Range{Gt: vectordb.Ptr(1.0)},
	})
	assert.True(t, errors.Is(err, vectordb.ErrInvalidArgument))

	_, err = Conditions.Decode(json.RawMessage(`{"key": "k", "match": {"value": "v"}, "range": {"gt": 1}}`))
	assert.True(t, errors.Is(err, vectordb.ErrDataCorrupted))
}

func TestConditions_DecodeUnsupported(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"has_vector", `{"has_vector": "image"}`},
		{"nested", `{"nested": {"key": "items", "filter": {}}}`},
		{"unknown key", `{"bogus": 1}`},
		{"phrase", `{"key": "body", "match": {"phrase": "exact words"}}`},
		{"values count", `{"key": "tags", "values_count": {"gt": 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Conditions.Decode(json.RawMessage(tt.raw))
			assert.True(t, errors.Is(err, vectordb.ErrTypeMismatch), "got %v", err)
		})
	}
}

func TestMatch_DecodeOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want vectordb.Match
	}{
		{"keyword", `{"value": "x"}`, vectordb.MatchKeyword("x")},
		{"integer", `{"value": -3}`, vectordb.MatchInteger(-3)},
		{"bool", `{"value": true}`, vectordb.MatchBool(true)},
		{"text", `{"text": "hello world"}`, vectordb.MatchText("hello world")},
		{"any strings", `{"any": ["a", "b"]}`, vectordb.MatchAnyKeywords{"a", "b"}},
		{"any ints", `{"any": [1, 2]}`, vectordb.MatchAnyIntegers{1, 2}},
		{"empty any reads as strings", `{"any": []}`, vectordb.MatchAnyKeywords(nil)},
		{"except strings", `{"except": ["a"]}`, vectordb.MatchExceptKeywords{"a"}},
		{"except ints", `{"except": [7]}`, vectordb.MatchExceptIntegers{7}},
		{"empty except reads as strings", `{"except": []}`, vectordb.MatchExceptKeywords(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Conditions.Decode(json.RawMessage(`{"key": "f", "match": ` + tt.raw + `}`))
			require.NoError(t, err)
			assert.Equal(t, vectordb.FieldCondition{Key: "f", Match: tt.want}, c)
		})
	}
}

func TestMatch_EmptyIntegerListEncodesAsEmptyList(t *testing.T) {
	for _, m := range []vectordb.Match{vectordb.MatchAnyIntegers{}, vectordb.MatchExceptIntegers(nil)} {
		raw, err := Conditions.Encode(vectordb.FieldCondition{Key: "level", Match: m})
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "null")

		back, err := Conditions.Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, vectordb.FieldCondition{Key: "level", Match: vectordb.NormalizeMatch(m)}, back)
	}
}

func TestQueries_RoundTrip(t *testing.T) {
	id := vectordb.MustIDUUID(sampleUUID)
	desc := vectordb.Desc
	tests := []struct {
		name string
		in   vectordb.QueryInput
	}{
		{"nearest", vectordb.NewQueryNearest(0.1, 0.2)},
		{"nearest id", vectordb.NewQueryNearestID(id)},
		{"recommend", vectordb.RecommendQuery{
			Positive: []vectordb.VectorInput{vectordb.NewIDNum(1), vectordb.Vector{1, 0}},
			Negative: []vectordb.VectorInput{id},
		}},
		{"recommend positive only", vectordb.RecommendQuery{Positive: []vectordb.VectorInput{vectordb.NewIDNum(4)}}},
		{"discover", vectordb.DiscoverQuery{
			Target:  vectordb.Vector{0.5, 0.5},
			Context: []vectordb.ContextPair{{Positive: vectordb.NewIDNum(2), Negative: vectordb.NewIDNum(3)}},
		}},
		{"context", vectordb.ContextQuery{Pairs: []vectordb.ContextPair{{Positive: vectordb.Vector{1}, Negative: vectordb.Vector{0}}}}},
		{"order by", vectordb.OrderByQuery{Key: "timestamp", Direction: &desc}},
		{"order by default", vectordb.OrderByQuery{Key: "timestamp"}},
		{"rrf", vectordb.NewQueryFusion(vectordb.RRF)},
		{"dbsf", vectordb.NewQueryFusion(vectordb.DBSF)},
		{"sample", vectordb.SampleQuery{Sample: vectordb.SampleRandom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.in, roundTrip(t, Queries, tt.in))
		})
	}
}

func TestQueries_WireShape(t *testing.T) {
	w, err := Queries.Encode(vectordb.NewQueryFusion(vectordb.RRF))
	require.NoError(t, err)
	assert.JSONEq(t, `{"fusion": "rrf"}`, string(w))

	w, err = Queries.Encode(vectordb.NewQueryNearestID(vectordb.NewIDNum(9)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"nearest": 9}`, string(w))
}

func TestQueries_DecodeShorthands(t *testing.T) {
	q, err := Queries.Decode(json.RawMessage(`[0.5, 0.25]`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.NewQueryNearest(0.5, 0.25), q)

	q, err = Queries.Decode(json.RawMessage(`12`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.NewQueryNearestID(vectordb.NewIDNum(12)), q)

	q, err = Queries.Decode(json.RawMessage(`{"order_by": "created_at"}`))
	require.NoError(t, err)
	assert.Equal(t, vectordb.OrderByQuery{Key: "created_at"}, q)
}

func TestQueries_DecodeFailures(t *testing.T) {
	_, err := Queries.Decode(json.RawMessage(`{"fusion": "rrf", "sample": "random"}`))
	assert.True(t, errors.Is(err, vectordb.ErrDataCorrupted))

	_, err = Queries.Decode(json.RawMessage(`{"fusion": "borda"}`))
	assert.True(t, errors.Is(err, vectordb.ErrDataCorrupted))

	_, err = Queries.Decode(json.RawMessage(`{"formula": {}}`))
	assert.True(t, errors.Is(err, vectordb.ErrTypeMismatch))
}

func TestPrefetches_DeepRoundTrip(t *testing.T) {
	leaf := func(v float32) vectordb.PrefetchQuery {
		return vectordb.PrefetchQuery{
			Query:  vectordb.NewQueryNearest(v, 1-v),
			Using:  vectordb.Ptr("dense"),
			Limit:  vectordb.Ptr[uint64](50),
			Filter: vectordb.NewFilter(vectordb.NewMatchKeyword("lang", "en")),
		}
	}
	in := vectordb.PrefetchQuery{
		Query: vectordb.NewQueryFusion(vectordb.RRF),
		Prefetch: []vectordb.PrefetchQuery{
			{
				Query:    vectordb.NewQueryFusion(vectordb.DBSF),
				Prefetch: []vectordb.PrefetchQuery{leaf(0.25), leaf(0.5)},
			},
			{
				Query:          vectordb.NewQueryNearest(0.75, 0.25),
				ScoreThreshold: vectordb.Ptr[float32](0.3),
				Prefetch: []vectordb.PrefetchQuery{{
					Query:    vectordb.NewQueryFusion(vectordb.RRF),
					Prefetch: []vectordb.PrefetchQuery{leaf(0.125)},
				}},
			},
		},
		Limit: vectordb.Ptr[uint64](10),
	}
	require.GreaterOrEqual(t, in.Depth(), 3)
	assert.Equal(t, in, roundTrip(t, Prefetches, in))
}

func TestPrefetches_DecodeSingleObject(t *testing.T) {
	p, err := Prefetches.Decode(json.RawMessage(`{"prefetch": {"query": [1, 0], "limit": 5}, "query": {"fusion": "rrf"}}`))
	require.NoError(t, err)
	require.Len(t, p.Prefetch, 1)
	assert.Equal(t, vectordb.NewQueryNearest(1, 0), p.Prefetch[0].Query)
	assert.Equal(t, vectordb.Ptr[uint64](5), p.Prefetch[0].Limit)
}

func TestConfigs_RoundTrip(t *testing.T) {
	single := vectordb.VectorParams{Size: 384, Distance: vectordb.Cosine}
	assert.Equal(t, vectordb.VectorsConfig(single), roundTrip[vectordb.VectorsConfig](t, Configs, single))

	named := vectordb.NamedVectorParams{
		"image": {Size: 512, Distance: vectordb.Dot, OnDisk: vectordb.Ptr(true)},
		"text":  {Size: 768, Distance: vectordb.Manhattan},
	}
	assert.Equal(t, vectordb.VectorsConfig(named), roundTrip[vectordb.VectorsConfig](t, Configs, named))

	_, err := Configs.Encode(vectordb.VectorParams{Size: 3})
	assert.True(t, errors.Is(err, vectordb.ErrInvalidArgument))
}

func TestConfigs_DistanceCasing(t *testing.T) {
	w, err := Configs.Encode(vectordb.VectorParams{Size: 4, Distance: vectordb.Cosine})
	require.NoError(t, err)
	assert.JSONEq(t, `{"size": 4, "distance": "Cosine"}`, string(w))

	_, err = Configs.Decode(json.RawMessage(`{"size": 4, "distance": "cosine"}`))
	assert.Error(t, err)
}

func TestEncodeSelector_FilterWins(t *testing.T) {
	f := vectordb.Must(vectordb.NewMatchKeyword("k", "v"))
	c, err := encodeDelete(vectordb.DeleteRequest{
		Collection: "docs",
		Selector:   vectordb.PointsSelector{IDs: []vectordb.PointID{vectordb.NewIDNum(1)}, Filter: &f},
		Wait:       vectordb.Ptr(true),
	})
	require.NoError(t, err)
	body := c.body.(object)
	assert.Contains(t, body, "filter")
	assert.NotContains(t, body, "points")
	assert.Equal(t, "/collections/docs/points/delete", c.path)
	assert.Equal(t, "true", c.query.Get("wait"))
}

func TestEncodeUpdateBatch_KeysEveryOperation(t *testing.T) {
	one := vectordb.SelectIDs(vectordb.NewIDNum(1))
	c, err := encodeUpdateBatch(vectordb.UpdateBatchRequest{
		Collection: "docs",
		Operations: []vectordb.UpdateOperation{
			vectordb.UpsertOperation{Points: []vectordb.PointStruct{{ID: vectordb.NewIDNum(1), Vectors: vectordb.Vector{1, 0}}}},
			vectordb.SetPayloadOperation{Payload: vectordb.Payload{"a": vectordb.IntegerValue(1)}, Selector: one},
			vectordb.OverwritePayloadOperation{Payload: vectordb.Payload{"b": vectordb.BoolValue(false)}, Selector: one},
			vectordb.DeletePayloadOperation{Keys: []string{"a"}, Selector: one},
			vectordb.ClearPayloadOperation{Selector: one},
			vectordb.DeletePointsOperation{Selector: one},
		},
	})
	require.NoError(t, err)
	ops := c.body.(object)["operations"].([]any)
	require.Len(t, ops, 6)
	for i, key := range []string{"upsert", "set_payload", "overwrite_payload", "delete_payload", "clear_payload", "delete"} {
		assert.Contains(t, ops[i], key)
	}
}

func TestCollectionPath_EscapesNames(t *testing.T) {
	assert.Equal(t, "/collections/a%2Fb/points", collectionPath("a/b", "points"))
}

func TestDecodeSnapshotTime(t *testing.T) {
	ts, err := decodeSnapshotTime("$", "2024-05-01T10:20:30.123456")
	require.NoError(t, err)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 123456000, ts.Nanosecond())

	ts, err = decodeSnapshotTime("$", "2024-05-01T10:20:30Z")
	require.NoError(t, err)
	assert.Equal(t, 30, ts.Second())

	_, err = decodeSnapshotTime("$", "yesterday")
	assert.True(t, errors.Is(err, vectordb.ErrDataCorrupted))
}
