package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Humphrey-He/vanya/pkg/catalog"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

func product(t *testing.T, id string) catalog.Product {
	t.Helper()
	p, err := catalog.Default().Find(id)
	require.NoError(t, err)
	return p
}

func TestAddItemMergesSameKey(t *testing.T) {
	ctx := context.Background()
	s := New()
	rose := product(t, "1")

	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 1, Size: "M", Color: "Pink"}))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 2, Size: "M", Color: "Pink"}))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItemDistinctColorIsNewLine(t *testing.T) {
	ctx := context.Background()
	s := New()
	rose := product(t, "1")

	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 1, Size: "M", Color: "Pink"}))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 1, Size: "M", Color: "Silver"}))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "6"), Quantity: 1, Size: "S", Color: "Coral"}))

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, Key{"1", "M", "Pink"}, items[0].Key())
	assert.Equal(t, Key{"1", "M", "Silver"}, items[1].Key())
	assert.Equal(t, Key{"6", "S", "Coral"}, items[2].Key())
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	s := New()
	rose := product(t, "1")

	tests := []struct {
		name string
		item LineItem
		want error
	}{
		{"zero quantity", LineItem{Product: rose, Quantity: 0, Size: "M", Color: "Pink"}, verrors.ErrInvalidQuantity},
		{"size not offered", LineItem{Product: rose, Quantity: 1, Size: "XXL", Color: "Pink"}, verrors.ErrInvalidSize},
		{"color not offered", LineItem{Product: rose, Quantity: 1, Size: "M", Color: "Navy"}, verrors.ErrInvalidColor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.AddItem(ctx, tc.item)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, verrors.IsValidation(err))
		})
	}
	assert.Zero(t, s.Len())
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	s := New()
	rose := product(t, "1")
	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 1, Size: "M", Color: "Pink"}))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 1, Size: "L", Color: "Pink"}))

	require.NoError(t, s.RemoveItem(ctx, "1", "M", "Pink"))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "L", items[0].Size)

	// absent key is a silent no-op
	require.NoError(t, s.RemoveItem(ctx, "1", "M", "Pink"))
	require.NoError(t, s.RemoveItem(ctx, "404", "M", "Pink"))
	assert.Equal(t, 1, s.Len())
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "2"), Quantity: 1, Size: "XXL", Color: "Navy"}))

	require.NoError(t, s.UpdateQuantity(ctx, "2", "XXL", "Navy", 5))
	assert.Equal(t, 5, s.TotalItems())

	require.NoError(t, s.UpdateQuantity(ctx, "2", "XXL", "Navy", 0))
	assert.Equal(t, 1, s.TotalItems(), "quantity is clamped to one")

	require.NoError(t, s.UpdateQuantity(ctx, "2", "XXL", "Navy", -3))
	assert.Equal(t, 1, s.TotalItems())

	require.NoError(t, s.UpdateQuantity(ctx, "2", "S", "Navy", 9))
	assert.Equal(t, 1, s.TotalItems(), "absent key is untouched")
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	s := New()
	assert.Zero(t, s.TotalPrice())
	assert.Zero(t, s.TotalItems())

	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "1"), Quantity: 2, Size: "S", Color: "Silver"}))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "6"), Quantity: 1, Size: "XS", Color: "Peach"}))

	assert.Equal(t, 3, s.TotalItems())
	assert.Equal(t, 2*45999+38999, s.TotalPrice())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "3"), Quantity: 1, Size: "M", Color: "Wine"}))

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalPrice())
}

func TestDeduct(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	s := New(WithSlot(persist.NewSlot[State](mem, nil, SlotName)))
	rose := product(t, "1")
	peach := product(t, "6")

	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 3, Size: "M", Color: "Pink"}))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: peach, Quantity: 1, Size: "S", Color: "Peach"}))
	ordered := s.Items()
	require.NoError(t, s.AddItem(ctx, LineItem{Product: rose, Quantity: 2, Size: "M", Color: "Pink"}))
	writes := mem.Writes()

	require.NoError(t, s.Deduct(ctx, ordered))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity, "quantity added after the snapshot survives")
	assert.Equal(t, writes+1, mem.Writes())

	require.NoError(t, s.Deduct(ctx, []LineItem{{Product: peach, Quantity: 1, Size: "S", Color: "Peach"}}))
	assert.Equal(t, writes+1, mem.Writes(), "no matching line, no write")
}

func TestItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "3"), Quantity: 1, Size: "M", Color: "Wine"}))

	items := s.Items()
	items[0].Quantity = 99
	items[0].Product.Colors[0] = "Black"

	fresh := s.Items()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "Maroon", fresh[0].Product.Colors[0])
}

func TestPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	slot := persist.NewSlot[State](mem, nil, SlotName)

	s := New(WithSlot(slot))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "5"), Quantity: 2, Size: "XXL", Color: "Mint"}))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "4"), Quantity: 1, Size: "XS", Color: "Ivory"}))
	assert.Equal(t, 2, mem.Writes())

	restored := New(WithSlot(slot))
	ok, err := restored.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, s.Items(), restored.Items())
	assert.Equal(t, 2*54999+92999, restored.TotalPrice())

	// A no-op removal does not write a new snapshot.
	require.NoError(t, restored.RemoveItem(ctx, "9", "M", "Red"))
	assert.Equal(t, 2, mem.Writes())
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	s := New(WithSlot(persist.NewSlot[State](persist.NewMemoryStorage(), nil, SlotName)))
	ok, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestPersistFailureIsReported(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	s := New(WithSlot(persist.NewSlot[State](mem, nil, SlotName)))
	require.NoError(t, mem.Close())

	err := s.AddItem(ctx, LineItem{Product: product(t, "1"), Quantity: 1, Size: "M", Color: "Pink"})
	assert.True(t, verrors.IsClosed(err), "got %v", err)
	// the in-memory mutation still happened
	assert.Equal(t, 1, s.TotalItems())
}

func TestSummarize(t *testing.T) {
	rules := DefaultShippingRules()

	tests := []struct {
		name  string
		items []LineItem
		want  Summary
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  Summary{},
		},
		{
			name:  "below threshold pays shipping",
			items: []LineItem{{Product: product(t, "6"), Quantity: 1}},
			want:  Summary{Items: 1, Subtotal: 38999, Shipping: 500, Total: 39499, Savings: 11000, UntilFreeShipping: 11002},
		},
		{
			name:  "above threshold ships free",
			items: []LineItem{{Product: product(t, "3"), Quantity: 1}},
			want:  Summary{Items: 1, Subtotal: 78999, Total: 78999},
		},
		{
			name: "savings scale with quantity",
			items: []LineItem{
				{Product: product(t, "1"), Quantity: 2},
				{Product: product(t, "5"), Quantity: 1},
			},
			want: Summary{Items: 3, Subtotal: 146997, Total: 146997, Savings: 28000},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summarize(tc.items, rules))
		})
	}
}

func TestSummaryThresholdIsExclusive(t *testing.T) {
	items := []LineItem{{Product: catalog.Product{ID: "x", Price: 50000}, Quantity: 1}}
	sum := Summarize(items, DefaultShippingRules())
	assert.Equal(t, 500, sum.Shipping)
	assert.Equal(t, 50500, sum.Total)
	assert.Equal(t, 1, sum.UntilFreeShipping)
}

func TestResetDeletesSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	slot := persist.NewSlot[State](mem, nil, SlotName)

	s := New(WithSlot(slot))
	require.NoError(t, s.AddItem(ctx, LineItem{Product: product(t, "1"), Quantity: 1, Size: "M", Color: "Pink"}))
	require.NoError(t, s.Reset(ctx))
	assert.Zero(t, s.Len())
	assert.Empty(t, mem.Names())

	ok, err := New(WithSlot(slot)).Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
