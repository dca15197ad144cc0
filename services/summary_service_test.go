package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/tests/testutil"
	"github.com/kendall-kelly/tna-tracker-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type summaryFixture struct {
	db           *gorm.DB
	svc          *SummaryService
	buyer        *models.Buyer
	merchandiser *models.User
}

func newSummaryFixture(t *testing.T) *summaryFixture {
	db := testutil.NewTestDB(t)
	return &summaryFixture{
		db:           db,
		svc:          NewSummaryService(db),
		buyer:        testutil.CreateBuyer(t, db, "H&M"),
		merchandiser: testutil.CreateUser(t, db, models.RoleMerchandiser),
	}
}

func (f *summaryFixture) tna(t *testing.T, style string, sampleSendingDate time.Time) *models.TNA {
	return testutil.CreateTNA(t, f.db, testutil.TNAOptions{
		Style:             style,
		SampleSendingDate: sampleSendingDate,
		Buyer:             f.buyer,
		Merchandiser:      f.merchandiser,
	})
}

func boolPtr(b bool) *bool { return &b }

func TestSummaryCard_Buckets(t *testing.T) {
	f := newSummaryFixture(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f.svc.SetClock(func() time.Time { return now })

	f.tna(t, "OVERDUE", time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC))
	f.tna(t, "TODAY", time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC))
	f.tna(t, "TOMORROW", time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC))
	f.tna(t, "SHIPPED", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	f.tna(t, "PENDING-DHL", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	testutil.CreateDHL(t, f.db, "SHIPPED", true)
	testutil.CreateDHL(t, f.db, "PENDING-DHL", false)
	testutil.CreateDHL(t, f.db, "TOMORROW", false)

	counts, err := f.svc.Card(context.Background(), Scope{})
	require.NoError(t, err)

	assert.Equal(t, 5, counts.Total)
	assert.Equal(t, 1, counts.Completed)
	assert.Equal(t, 2, counts.Overdue)
	assert.Equal(t, 2, counts.OnProcess)
	assert.Equal(t, counts.Total, counts.Completed+counts.Overdue+counts.OnProcess)
}

func TestSummaryCard_OverdueCutoffIsUTCDay(t *testing.T) {
	f := newSummaryFixture(t)
	// 01:00 in UTC+3 is still the previous day in UTC
	f.svc.SetClock(func() time.Time {
		return time.Date(2024, 6, 15, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	})

	f.tna(t, "DUE-14", time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC))
	f.tna(t, "DUE-13", time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC))

	counts, err := f.svc.Card(context.Background(), Scope{})
	require.NoError(t, err)
	assert.Equal(t, CardCounts{Overdue: 1, OnProcess: 1, Total: 2}, *counts)
}

func TestSummaryCard_PastAndFutureWithoutShipment(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   CardCounts
	}{
		{"yesterday is overdue", -1, CardCounts{Overdue: 1, Total: 1}},
		{"tomorrow is on process", 1, CardCounts{OnProcess: 1, Total: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSummaryFixture(t)
			f.tna(t, "S1", time.Now().UTC().AddDate(0, 0, tt.offset))

			counts, err := f.svc.Card(context.Background(), Scope{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, *counts)
		})
	}
}

func TestSummaryCard_MerchandiserScope(t *testing.T) {
	f := newSummaryFixture(t)
	other := testutil.CreateUser(t, f.db, models.RoleMerchandiser)

	f.tna(t, "MINE", time.Now().AddDate(0, 0, 3))
	testutil.CreateTNA(t, f.db, testutil.TNAOptions{Style: "THEIRS", Buyer: f.buyer, Merchandiser: other})

	counts, err := f.svc.Card(context.Background(), ScopeFor(f.merchandiser))
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Total)

	admin := testutil.CreateUser(t, f.db, models.RoleAdmin)
	counts, err = f.svc.Card(context.Background(), ScopeFor(admin))
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
}

func TestDepartmentProgress_NoTNAs(t *testing.T) {
	f := newSummaryFixture(t)

	progress, err := f.svc.DepartmentProgress(context.Background(), Scope{})
	require.NoError(t, err)
	require.Len(t, progress, 4)

	wantOrder := []string{DepartmentMerchandising, DepartmentCAD, DepartmentFabric, DepartmentSample}
	for i, p := range progress {
		assert.Equal(t, wantOrder[i], p.Department)
		assert.Equal(t, 0, p.Total)
		assert.Equal(t, 0, p.Completed)
		assert.Equal(t, 0, p.Percentage)
	}
}

func TestDepartmentProgress_Predicates(t *testing.T) {
	f := newSummaryFixture(t)
	uid := f.merchandiser.ID

	f.tna(t, "S1", time.Now().AddDate(0, 0, 5))
	f.tna(t, "S2", time.Now().AddDate(0, 0, 5))
	f.tna(t, "S3", time.Now().AddDate(0, 0, 5))

	// any DHL row counts for merchandising, complete or not
	testutil.CreateDHL(t, f.db, "S1", false)
	testutil.CreateDHL(t, f.db, "S2", true)

	testutil.CreateCad(t, f.db, "S1", uid, true)
	testutil.CreateCad(t, f.db, "S2", uid, false)

	testutil.CreateFabric(t, f.db, "S1", uid, false)
	testutil.CreateFabric(t, f.db, "S1", uid, true)

	testutil.CreateSample(t, f.db, "S3", uid, false)

	progress, err := f.svc.DepartmentProgress(context.Background(), Scope{})
	require.NoError(t, err)

	byDept := map[string]DepartmentProgress{}
	for _, p := range progress {
		byDept[p.Department] = p
		assert.Equal(t, 3, p.Total)
		assert.GreaterOrEqual(t, p.Percentage, 0)
		assert.LessOrEqual(t, p.Percentage, 100)
	}

	assert.Equal(t, 2, byDept[DepartmentMerchandising].Completed)
	assert.Equal(t, 67, byDept[DepartmentMerchandising].Percentage)
	assert.Equal(t, 1, byDept[DepartmentCAD].Completed)
	assert.Equal(t, 33, byDept[DepartmentCAD].Percentage)
	assert.Equal(t, 1, byDept[DepartmentFabric].Completed)
	assert.Equal(t, 0, byDept[DepartmentSample].Completed)
}

func TestDepartmentProgress_DuplicateStylesCountPerTNA(t *testing.T) {
	f := newSummaryFixture(t)

	f.tna(t, "DUP", time.Now())
	f.tna(t, "DUP", time.Now())
	f.tna(t, "OTHER", time.Now())
	testutil.CreateCad(t, f.db, "DUP", f.merchandiser.ID, true)

	progress, err := f.svc.DepartmentProgress(context.Background(), Scope{})
	require.NoError(t, err)
	assert.Equal(t, DepartmentCAD, progress[1].Department)
	assert.Equal(t, 2, progress[1].Completed)
	assert.Equal(t, 3, progress[1].Total)
	assert.Equal(t, 67, progress[1].Percentage)
}

func TestSummaryList_PaginationAfterFilter(t *testing.T) {
	f := newSummaryFixture(t)

	for i := 0; i < 25; i++ {
		f.tna(t, fmt.Sprintf("STYLE-%02d", i), time.Now().AddDate(0, 0, 10))
	}

	page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
		Page: utils.Pagination{Page: 3, PageSize: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.PageSize)

	// newest first: the last page holds the oldest rows
	assert.Equal(t, "STYLE-00", page.Data[4].Style)
}

func TestSummaryList_TotalCountsFilteredRows(t *testing.T) {
	f := newSummaryFixture(t)

	for i := 0; i < 30; i++ {
		style := fmt.Sprintf("S-%02d", i)
		f.tna(t, style, time.Now())
		if i%6 == 0 {
			testutil.CreateDHL(t, f.db, style, true)
		}
	}

	page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
		Completed: boolPtr(false),
		Page:      utils.Pagination{Page: 3, PageSize: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Data, 5)
}

func TestSummaryList_CompletedFilterAnyTrueWins(t *testing.T) {
	f := newSummaryFixture(t)

	f.tna(t, "MIXED", time.Now())
	f.tna(t, "ALL-FALSE", time.Now())
	f.tna(t, "NO-DHL", time.Now())

	testutil.CreateDHL(t, f.db, "MIXED", false)
	testutil.CreateDHL(t, f.db, "MIXED", true)
	testutil.CreateDHL(t, f.db, "ALL-FALSE", false)
	testutil.CreateDHL(t, f.db, "ALL-FALSE", false)

	styles := func(completed *bool) []string {
		page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
			Completed: completed,
			Page:      utils.Pagination{Page: 1, PageSize: 10},
		})
		require.NoError(t, err)
		var out []string
		for _, row := range page.Data {
			out = append(out, row.Style)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"MIXED"}, styles(boolPtr(true)))
	assert.ElementsMatch(t, []string{"ALL-FALSE", "NO-DHL"}, styles(boolPtr(false)))
	assert.ElementsMatch(t, []string{"MIXED", "ALL-FALSE", "NO-DHL"}, styles(nil))
}

func TestSummaryList_NullEnrichment(t *testing.T) {
	f := newSummaryFixture(t)
	f.tna(t, "LONELY", time.Now())

	page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
		Page: utils.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	raw, err := json.Marshal(page.Data[0])
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"cad", "fabricBooking", "sampleDevelopment", "dhlTracking"} {
		value, present := decoded[key]
		assert.True(t, present, "key %s must be present", key)
		assert.Nil(t, value, "key %s must be null", key)
	}
	assert.Equal(t, "H&M", decoded["buyerName"])
	assert.Equal(t, f.merchandiser.Name, decoded["merchandiser"])
	assert.NotContains(t, decoded, "buyer")
}

func TestSummaryList_Enrichment(t *testing.T) {
	f := newSummaryFixture(t)
	uid := f.merchandiser.ID
	f.tna(t, "FULL", time.Now())

	firstCad := testutil.CreateCad(t, f.db, "FULL", uid, false)
	testutil.CreateCad(t, f.db, "FULL", uid, true)
	fabric := testutil.CreateFabric(t, f.db, "FULL", uid, true)
	sample := testutil.CreateSample(t, f.db, "FULL", uid, false)
	testutil.CreateDHL(t, f.db, "FULL", false)
	shipped := testutil.CreateDHL(t, f.db, "FULL", true)

	page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
		Page: utils.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	row := page.Data[0]

	require.NotNil(t, row.Cad)
	assert.Equal(t, firstCad.ID, row.Cad.ID)
	require.NotNil(t, row.FabricBooking)
	assert.Equal(t, fabric.ID, row.FabricBooking.ID)
	assert.NotNil(t, row.FabricBooking.ActualReceiveDate)
	require.NotNil(t, row.SampleDevelopment)
	assert.Equal(t, sample.ID, row.SampleDevelopment.ID)
	assert.Equal(t, 3, row.SampleDevelopment.SampleQuantity)
	require.NotNil(t, row.DHLTracking)
	assert.True(t, row.DHLTracking.IsComplete)
	assert.Equal(t, shipped.TrackingNumber, row.DHLTracking.TrackingNumber)
}

func TestSummaryList_SearchAndDateRange(t *testing.T) {
	f := newSummaryFixture(t)
	zara := testutil.CreateBuyer(t, f.db, "Zara")

	f.tna(t, "ALPHA-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	f.tna(t, "BETA-1", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	testutil.CreateTNA(t, f.db, testutil.TNAOptions{
		Style:             "GAMMA-1",
		SampleSendingDate: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		Buyer:             zara,
		Merchandiser:      f.merchandiser,
	})

	list := func(filter SummaryFilter) []string {
		filter.Page = utils.Pagination{Page: 1, PageSize: 50}
		page, err := f.svc.List(context.Background(), Scope{}, filter)
		require.NoError(t, err)
		var out []string
		for _, row := range page.Data {
			out = append(out, row.Style)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"ALPHA-1"}, list(SummaryFilter{Search: "alpha"}))
	assert.ElementsMatch(t, []string{"GAMMA-1"}, list(SummaryFilter{Search: "ZAR"}))
	assert.Len(t, list(SummaryFilter{Search: f.merchandiser.Name}), 3)

	march, err := utils.ParseDateRange("2024-03-01", "2024-03-20")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ALPHA-1", "BETA-1"}, list(SummaryFilter{Range: march}))

	from, err := utils.ParseDateRange("2024-03-02", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BETA-1", "GAMMA-1"}, list(SummaryFilter{Range: from}))
}

func TestSummaryList_SearchWildcardsAreLiteral(t *testing.T) {
	f := newSummaryFixture(t)
	f.tna(t, "PROMO_50%", time.Now().UTC())
	f.tna(t, "PROMO-50", time.Now().UTC())

	for search, want := range map[string]int{"%": 1, "o_5": 1, "promo": 2} {
		page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
			Search: search,
			Page:   utils.Pagination{Page: 1, PageSize: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(want), page.Total, search)
	}
}

func TestSummaryList_EmptyPage(t *testing.T) {
	f := newSummaryFixture(t)

	page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
		Completed: boolPtr(true),
		Page:      utils.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestSummaryList_PageBeyondEnd(t *testing.T) {
	f := newSummaryFixture(t)
	f.tna(t, "ONLY-1", time.Now().UTC())

	page, err := f.svc.List(context.Background(), Scope{}, SummaryFilter{
		Page: utils.NewPagination(strconv.Itoa(math.MaxInt), "10", 10),
	})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, math.MaxInt, page.Page)
}

func TestSummaryService_DatabaseErrorAborts(t *testing.T) {
	f := newSummaryFixture(t)
	f.tna(t, "S1", time.Now())
	require.NoError(t, f.db.Migrator().DropTable(&models.DHLTracking{}))

	_, err := f.svc.Card(context.Background(), Scope{})
	assert.Error(t, err)

	_, err = f.svc.List(context.Background(), Scope{}, SummaryFilter{
		Completed: boolPtr(true),
		Page:      utils.Pagination{Page: 1, PageSize: 10},
	})
	assert.Error(t, err)

	_, err = f.svc.DepartmentProgress(context.Background(), Scope{})
	assert.Error(t, err)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 0, percentage(5, 0))
	assert.Equal(t, 50, percentage(1, 2))
	assert.Equal(t, 100, percentage(4, 4))
	assert.Equal(t, 17, percentage(1, 6))
}

func TestChunkStyles(t *testing.T) {
	calls := 0
	require.NoError(t, chunkStyles(nil, func([]string) error { calls++; return nil }))
	assert.Equal(t, 0, calls)

	styles := make([]string, styleChunkSize+1)
	var sizes []int
	require.NoError(t, chunkStyles(styles, func(c []string) error { sizes = append(sizes, len(c)); return nil }))
	assert.Equal(t, []int{styleChunkSize, 1}, sizes)
}
