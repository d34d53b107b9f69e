package service

import (
	"context"
	"testing"

	"go-kasir-pos/internal/catalog"
	"go-kasir-pos/internal/gateway"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStock_AppliesAndSyncs(t *testing.T) {
	st := newStation(t)

	_, err := st.inventory.AdjustStock("5", -150)
	require.NoError(t, err)
	_, err = st.inventory.SetStock("1", 11)
	require.NoError(t, err)
	_, err = st.inventory.SetStockNote("1", "restock pagi")
	require.NoError(t, err)
	_, err = st.inventory.AdjustStock("2", 0)
	require.NoError(t, err)

	result, err := st.inventory.CommitStock(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, -100, result.Records[0].Delta)
	assert.Equal(t, 0, result.Records[0].NewStock)
	assert.Equal(t, 60, result.Records[1].NewStock)
	assert.Equal(t, "restock pagi", result.Records[1].Note)
	assert.Equal(t, []string{"5", "1"}, result.Synced)
	assert.Empty(t, result.Unsynced)
	assert.Equal(t, "2 produk berhasil diupdate!", result.Confirmation)

	require.Len(t, st.gw.stockCalls, 2)
	assert.Equal(t, "5", st.gw.stockCalls[0].ProductID)

	p, _ := st.loader.Store().Find("5")
	assert.Equal(t, 0, p.Stock)

	view := st.inventory.StockView()
	assert.Empty(t, view.Pending)
	assert.Equal(t, "2 produk berhasil diupdate!", view.Confirmation)
	assert.False(t, view.Stale)
	assert.Contains(t, st.hub.actions(), "stock_committed")

	entries, _ := st.journal.FindRecent(5)
	require.Len(t, entries, 1)
	assert.Equal(t, model.JournalStock, entries[0].Kind)
	assert.Equal(t, result.BatchID, entries[0].Reference)
	assert.Equal(t, "SUCCESS", entries[0].Outcome)
}

func TestCommitStock_UnsyncedKeepsLocalAndMarksStale(t *testing.T) {
	st := newStation(t)
	st.gw.stockFail["7"] = true

	st.inventory.AdjustStock("7", 5)
	st.inventory.AdjustStock("8", -10)

	result, err := st.inventory.CommitStock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"7"}, result.Unsynced)
	assert.Equal(t, []string{"8"}, result.Synced)

	p, _ := st.loader.Store().Find("7")
	assert.Equal(t, 30, p.Stock, "optimistic write is kept")
	assert.True(t, st.inventory.StockView().Stale)

	entries, _ := st.journal.FindRecent(5)
	require.Len(t, entries, 1)
	assert.Equal(t, "FAILURE", entries[0].Outcome)
	assert.Contains(t, entries[0].Note, "7")

	// reload reconciles with the remote store
	st.loader.Reload(context.Background())
	assert.False(t, st.inventory.StockView().Stale)
}

func TestCommitStock_NothingPending(t *testing.T) {
	st := newStation(t)

	_, err := st.inventory.CommitStock(context.Background())

	assert.ErrorIs(t, err, stock.ErrNothingToCommit)
	assert.Empty(t, st.gw.stockCalls)
}

func TestResetStock(t *testing.T) {
	st := newStation(t)
	st.inventory.AdjustStock("1", 3)

	view := st.inventory.ResetStock()

	assert.Empty(t, view.Pending)
	assert.Equal(t, 0, view.PendingCount)
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	st := newStation(t)

	_, err := st.inventory.AdjustStock("missing", 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestAddProduct(t *testing.T) {
	st := newStation(t)

	result, err := st.inventory.AddProduct(context.Background(), &model.ProductDraft{
		Name:      "  Kopi Susu Gula Aren ",
		Category:  model.CategoryDrinks,
		Price:     18000,
		Stock:     40,
		Available: true,
		ImageBlob: "aGVsbG8=", ImageFileName: "kopi.png",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Product.ID)
	assert.Equal(t, "Kopi Susu Gula Aren", result.Product.Name)
	assert.Equal(t, "Pcs", result.Product.StockUnit)
	assert.Empty(t, result.Product.ImageBlob)
	assert.Equal(t, gateway.ResultUnknown, result.Result)

	require.Len(t, st.gw.drafts, 1)
	assert.Equal(t, "aGVsbG8=", st.gw.drafts[0].ImageBlob)

	_, ok := st.loader.Store().Find(result.Product.ID)
	assert.True(t, ok, "catalog reloaded with the new product")
	assert.Contains(t, st.hub.actions(), "product_added")
}

func TestAddProduct_Refusals(t *testing.T) {
	st := newStation(t)

	_, err := st.inventory.AddProduct(context.Background(), &model.ProductDraft{Name: " ", Category: model.CategoryFood})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = st.inventory.AddProduct(context.Background(), &model.ProductDraft{ID: "3", Name: "Burger", Category: model.CategoryFood})
	assert.ErrorIs(t, err, ErrDuplicateProduct)

	assert.Empty(t, st.gw.drafts)

	st.gw.draftResult = gateway.ResultFailure
	_, err = st.inventory.AddProduct(context.Background(), &model.ProductDraft{Name: "Puding", Category: model.CategoryDessert})
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.ErrorIs(t, err, gateway.ErrRejected)
}
