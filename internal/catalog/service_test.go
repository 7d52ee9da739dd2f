package catalog

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pos_sales/internal/jsonstore"
)

func newFileService(t *testing.T) *Service {
	t.Helper()
	storage, err := jsonstore.NewFile[Product](filepath.Join(t.TempDir(), "products.json"))
	require.NoError(t, err)
	return NewService(storage, zaptest.NewLogger(t))
}

func TestLoad_FirstRunIsEmpty(t *testing.T) {
	svc := newFileService(t)

	products, err := svc.Load()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAdd_ThenLoadReturnsProductLast(t *testing.T) {
	svc := newFileService(t)

	_, err := svc.Add("Burger", decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	_, err = svc.Add("Fries", decimal.RequireFromString("2.35"))
	require.NoError(t, err)

	products, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, products, 2)

	last := products[len(products)-1]
	assert.Equal(t, "Fries", last.Name)
	assert.True(t, decimal.RequireFromString("2.35").Equal(last.Price), "price round trip, got %s", last.Price)
	assert.Equal(t, "Burger", products[0].Name, "insertion order preserved")
}

func TestAdd_Validation(t *testing.T) {
	svc := NewService(jsonstore.NewMemory[Product](), zaptest.NewLogger(t))

	_, err := svc.Add("   ", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add("Soda", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add("Free sample", decimal.Zero)
	assert.NoError(t, err)

	products, err := svc.Load()
	require.NoError(t, err)
	assert.Len(t, products, 1, "failed adds must not persist anything")
}

func TestAdd_RejectsSlashInName(t *testing.T) {
	svc := NewService(jsonstore.NewMemory[Product](), zaptest.NewLogger(t))

	_, err := svc.Add("Combo 1/2", decimal.NewFromInt(4))
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add("Combo", decimal.NewFromInt(4))
	require.NoError(t, err)
	_, err = svc.Update("Combo", "Combo/Large", decimal.NewFromInt(6))
	assert.ErrorIs(t, err, ErrInvalidName)

	products, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Combo", products[0].Name)
}

func TestAdd_RejectsDuplicateName(t *testing.T) {
	svc := NewService(jsonstore.NewMemory[Product](), zaptest.NewLogger(t))

	_, err := svc.Add("Burger", decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = svc.Add(" Burger ", decimal.NewFromInt(6))
	assert.ErrorIs(t, err, ErrDuplicateName)

	products, err := svc.Load()
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestUpdate(t *testing.T) {
	storage := jsonstore.NewMemory(
		Product{Name: "Burger", Price: decimal.NewFromInt(5)},
		Product{Name: "Fries", Price: decimal.NewFromInt(2)},
	)
	svc := NewService(storage, zaptest.NewLogger(t))

	t.Run("renames and reprices in place", func(t *testing.T) {
		updated, err := svc.Update("Burger", "Cheeseburger", decimal.RequireFromString("6.5"))
		require.NoError(t, err)
		assert.Equal(t, "Cheeseburger", updated.Name)

		products, err := svc.Load()
		require.NoError(t, err)
		assert.Equal(t, "Cheeseburger", products[0].Name)
		assert.True(t, decimal.RequireFromString("6.5").Equal(products[0].Price))
	})

	t.Run("price only", func(t *testing.T) {
		_, err := svc.Update("Fries", "Fries", decimal.NewFromInt(3))
		require.NoError(t, err)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := svc.Update("Burger", "Burger", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rename onto another product", func(t *testing.T) {
		_, err := svc.Update("Fries", "Cheeseburger", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("empty new name", func(t *testing.T) {
		_, err := svc.Update("Fries", "", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	products, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Fries", products[1].Name)
	assert.True(t, decimal.NewFromInt(3).Equal(products[1].Price))
}

func TestList_NumbersFromOne(t *testing.T) {
	svc := NewService(jsonstore.NewMemory(
		Product{Name: "A", Price: decimal.NewFromInt(1)},
		Product{Name: "B", Price: decimal.NewFromInt(2)},
	), zaptest.NewLogger(t))

	entries, err := svc.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "B", entries[1].Name)
	assert.Equal(t, 2, entries[1].Position)
}
