package accounts

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reports/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(id, accountID, amount string) model.Transaction {
	return model.Transaction{
		ID:        id,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		AccountID: accountID,
		Amount:    dec(amount),
	}
}

func findNode(forest []*Node, id string) *Node {
	var found *Node
	Walk(forest, func(n *Node) {
		if n.ID == id {
			found = n
		}
	})
	return found
}

var hierarchy = []model.Account{
	{ID: "5000", Number: "5000", Name: "Operating Expenses", Type: model.AccountTypeExpense},
	{ID: "5100", Number: "5100", Name: "Occupancy", Type: model.AccountTypeExpense, ParentID: "5000"},
	{ID: "5110", Number: "5110", Name: "Rent", Type: model.AccountTypeExpense, ParentID: "5100"},
	{ID: "5120", Number: "5120", Name: "Utilities", Type: model.AccountTypeExpense, ParentID: "5100"},
	{ID: "5200", Number: "5200", Name: "Travel", Type: model.AccountTypeExpense, ParentID: "5000"},
	{ID: "4000", Number: "4000", Name: "Revenue", Type: model.AccountTypeIncome},
}

func TestBuildTree_GrandchildRollsUp(t *testing.T) {
	txns := []model.Transaction{
		txn("t1", "5110", "-1200"),
		txn("t2", "5120", "-80.50"),
		txn("t3", "5000", "-10"),
		txn("t4", "4000", "999"),
	}

	forest, err := BuildTree(hierarchy, txns, model.AccountTypeExpense)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	root := forest[0]
	assert.Equal(t, "5000", root.ID)
	assert.True(t, root.Total.Equal(dec("-1290.50")), "root total = %s", root.Total)
	assert.True(t, findNode(forest, "5100").Total.Equal(dec("-1280.50")))
	assert.True(t, findNode(forest, "5110").Total.Equal(dec("-1200")))
	assert.True(t, findNode(forest, "5200").Total.IsZero(), "empty branches are kept with zero total")
	assert.True(t, DirectTotal(root).Equal(dec("-10")))
	assert.True(t, SumRoots(forest).Equal(dec("-1290.50")))
}

func TestBuildTree_Depth(t *testing.T) {
	forest, err := BuildTree(hierarchy, nil, model.AccountTypeExpense)
	require.NoError(t, err)

	depths := map[string]int{}
	Walk(forest, func(n *Node) {
		depths[n.ID] = n.Depth
	})
	assert.Equal(t, map[string]int{"5000": 0, "5100": 1, "5110": 2, "5120": 2, "5200": 1}, depths)
}

func TestBuildTree_RootSelection(t *testing.T) {
	forest, err := BuildTree(hierarchy, nil, model.AccountTypeIncome)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "4000", forest[0].ID)

	forest, err = BuildTree(hierarchy, nil, model.AccountTypeAsset)
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestBuildTree_ChildAttachedRegardlessOfType(t *testing.T) {
	accts := []model.Account{
		{ID: "4000", Name: "Revenue", Type: model.AccountTypeIncome},
		{ID: "4900", Name: "Refunds", Type: model.AccountTypeExpense, ParentID: "4000"},
	}
	txns := []model.Transaction{txn("t1", "4000", "500"), txn("t2", "4900", "-50")}

	income, err := BuildTree(accts, txns, model.AccountTypeIncome)
	require.NoError(t, err)
	require.Len(t, income, 1)
	require.Len(t, income[0].Children, 1)
	assert.True(t, income[0].Total.Equal(dec("450")))

	expense, err := BuildTree(accts, txns, model.AccountTypeExpense)
	require.NoError(t, err)
	assert.Empty(t, expense, "a child never becomes a root of its own type")
}

func TestBuildTree_Orphan(t *testing.T) {
	accts := []model.Account{
		{ID: "5300", Name: "Meals", Type: model.AccountTypeExpense, ParentID: "gone"},
	}
	forest, err := BuildTree(accts, []model.Transaction{txn("t1", "5300", "-25")}, model.AccountTypeExpense)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "5300", forest[0].ID)
	assert.Equal(t, 0, forest[0].Depth)
	assert.True(t, forest[0].Total.Equal(dec("-25")))
}

func TestBuildTree_Empty(t *testing.T) {
	forest, err := BuildTree(nil, []model.Transaction{txn("t1", "x", "1")}, model.AccountTypes...)
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestBuildTree_Cycle(t *testing.T) {
	accts := []model.Account{
		{ID: "a", Name: "A", Type: model.AccountTypeAsset, ParentID: "c"},
		{ID: "b", Name: "B", Type: model.AccountTypeAsset, ParentID: "a"},
		{ID: "c", Name: "C", Type: model.AccountTypeAsset, ParentID: "b"},
		{ID: "d", Name: "D", Type: model.AccountTypeAsset},
	}
	_, err := BuildTree(accts, nil, model.AccountTypeAsset)
	var cycleErr *CyclicHierarchyError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a", "c", "b", "a"}, cycleErr.Cycle)
}

func TestBuildTree_SelfParent(t *testing.T) {
	accts := []model.Account{{ID: "a", Name: "A", Type: model.AccountTypeAsset, ParentID: "a"}}
	_, err := BuildTree(accts, nil, model.AccountTypeAsset)
	var cycleErr *CyclicHierarchyError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a", "a"}, cycleErr.Cycle)
}

func TestBuildTree_DuplicateID(t *testing.T) {
	accts := []model.Account{
		{ID: "a", Name: "A", Type: model.AccountTypeAsset},
		{ID: "a", Name: "A again", Type: model.AccountTypeAsset},
	}
	_, err := BuildTree(accts, nil, model.AccountTypeAsset)
	require.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestBuildTree_DoesNotMutateInput(t *testing.T) {
	accts := append([]model.Account(nil), hierarchy...)
	txns := []model.Transaction{txn("t1", "5110", "-1200")}
	snapshot := append([]model.Account(nil), accts...)

	_, err := BuildTree(accts, txns, model.AccountTypeExpense)
	require.NoError(t, err)
	assert.Equal(t, snapshot, accts)
	assert.True(t, txns[0].Amount.Equal(dec("-1200")))
}

func TestBuildTreeBy_BaseAmount(t *testing.T) {
	accts := []model.Account{{ID: "4000", Name: "Revenue", Type: model.AccountTypeIncome}}
	txns := []model.Transaction{{ID: "t1", AccountID: "4000", Amount: dec("100"), BaseCurrencyAmount: dec("110")}}

	forest, err := BuildTreeBy(accts, txns, []model.AccountType{model.AccountTypeIncome}, BaseAmount)
	require.NoError(t, err)
	assert.True(t, forest[0].Total.Equal(dec("110")))
}

func TestSortByNumber(t *testing.T) {
	accts := []model.Account{
		{ID: "b", Number: "2", Name: "B", Type: model.AccountTypeAsset},
		{ID: "a", Number: "1", Name: "A", Type: model.AccountTypeAsset},
		{ID: "a2", Number: "12", Name: "A2", Type: model.AccountTypeAsset, ParentID: "a"},
		{ID: "a1", Number: "11", Name: "A1", Type: model.AccountTypeAsset, ParentID: "a"},
	}
	forest, err := BuildTree(accts, nil, model.AccountTypeAsset)
	require.NoError(t, err)

	SortByNumber(forest)

	var order []string
	Walk(forest, func(n *Node) { order = append(order, n.ID) })
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, order)
}

func TestUncategorized(t *testing.T) {
	txns := []model.Transaction{txn("t1", "5110", "-1"), txn("t2", "nope", "-1")}
	assert.Equal(t, []string{"t2"}, Uncategorized(hierarchy, txns))
}

// randomForest builds n accounts where each account's parent, if any, has a
// lower index, so the result is always acyclic.
func randomForest(r *rand.Rand, n int) []model.Account {
	accts := make([]model.Account, n)
	for i := range accts {
		accts[i] = model.Account{
			ID:   fmt.Sprintf("a%d", i),
			Name: fmt.Sprintf("Account %d", i),
			Type: model.AccountTypes[r.Intn(len(model.AccountTypes))],
		}
		switch p := r.Intn(4); {
		case i > 0 && p > 0:
			accts[i].ParentID = fmt.Sprintf("a%d", r.Intn(i))
		case p == 0 && r.Intn(2) == 0:
			accts[i].ParentID = "missing"
		}
	}
	r.Shuffle(len(accts), func(i, j int) { accts[i], accts[j] = accts[j], accts[i] })
	return accts
}

func TestBuildTree_AggregationProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		accts := randomForest(r, 1+r.Intn(30))

		var txns []model.Transaction
		for i := 0; i < r.Intn(80); i++ {
			acct := accts[r.Intn(len(accts))].ID
			if r.Intn(10) == 0 {
				acct = "unknown"
			}
			amt := decimal.New(int64(r.Intn(200000)-100000), -2)
			txns = append(txns, model.Transaction{ID: fmt.Sprintf("t%d", i), AccountID: acct, Amount: amt})
		}

		types := []model.AccountType{model.AccountTypes[r.Intn(len(model.AccountTypes))]}
		forest, err := BuildTree(accts, txns, types...)
		require.NoError(t, err)

		for _, root := range forest {
			assert.Equal(t, 0, root.Depth)
			assert.Equal(t, types[0], root.Type)
		}

		Walk(forest, func(n *Node) {
			want := decimal.Zero
			for _, tx := range txns {
				if tx.AccountID == n.ID {
					want = want.Add(tx.Amount)
				}
			}
			for _, c := range n.Children {
				want = want.Add(c.Total)
				assert.Equal(t, n.Depth+1, c.Depth, "child depth of %s", c.ID)
			}
			assert.True(t, want.Equal(n.Total), "iter %d node %s: want %s got %s", iter, n.ID, want, n.Total)
		})
	}
}
