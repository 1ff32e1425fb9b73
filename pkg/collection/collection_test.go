package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/tailorcraft/pkg/collection"
)

type order struct {
	ID     string
	Bucket string
	Amount float64
}

func TestFilterAndMap(t *testing.T) {
	orders := []order{
		{ID: "a", Bucket: "today", Amount: 500},
		{ID: "b", Bucket: "overdue", Amount: 1200},
		{ID: "c", Bucket: "today", Amount: 300},
	}

	today := collection.Filter(orders, func(o order) bool { return o.Bucket == "today" })
	assert.Len(t, today, 2)

	ids := collection.Map(today, func(o order) string { return o.ID })
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestGroupBy(t *testing.T) {
	orders := []order{
		{ID: "a", Bucket: "today"},
		{ID: "b", Bucket: "overdue"},
		{ID: "c", Bucket: "today"},
	}

	groups := collection.GroupBy(orders, func(o order) string { return o.Bucket })
	assert.Len(t, groups["today"], 2)
	assert.Len(t, groups["overdue"], 1)
}

func TestSum(t *testing.T) {
	orders := []order{{Amount: 500}, {Amount: 1200}, {Amount: 300}}
	assert.Equal(t, 2000.0, collection.Sum(orders, func(o order) float64 { return o.Amount }))
}

func TestSortBy(t *testing.T) {
	orders := []order{{Amount: 500}, {Amount: 1200}, {Amount: 300}}
	collection.SortBy(orders, func(a, b order) bool { return a.Amount < b.Amount })
	assert.Equal(t, 300.0, orders[0].Amount)
	assert.Equal(t, 1200.0, orders[2].Amount)
}

func TestKeyBy(t *testing.T) {
	orders := []order{{ID: "a"}, {ID: "b"}}
	m := collection.KeyBy(orders, func(o order) string { return o.ID })
	assert.Equal(t, "b", m["b"].ID)
}

func TestContains(t *testing.T) {
	orders := []order{{Bucket: "today"}, {Bucket: "upcoming"}}
	assert.True(t, collection.Contains(orders, func(o order) bool { return o.Bucket == "upcoming" }))
	assert.False(t, collection.Contains(orders, func(o order) bool { return o.Bucket == "overdue" }))
}
