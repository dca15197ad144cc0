package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// styleChunkSize bounds the number of bind parameters in one IN-list
const styleChunkSize = 500

// Department names in reporting order
const (
	DepartmentMerchandising = "Merchandising"
	DepartmentCAD           = "CAD"
	DepartmentFabric        = "Fabric"
	DepartmentSample        = "Sample"
)

// SummaryFilter narrows the TNA summary list
type SummaryFilter struct {
	Search    string
	Range     utils.DateRange
	Completed *bool // nil means no completion filter
	Page      utils.Pagination
}

// FabricSummary is the fabric booking projection attached to a summary row
type FabricSummary struct {
	ID                uint       `json:"id"`
	Style             string     `json:"style"`
	BookingDate       time.Time  `json:"bookingDate"`
	ReceiveDate       time.Time  `json:"receiveDate"`
	ActualBookingDate *time.Time `json:"actualBookingDate"`
	ActualReceiveDate *time.Time `json:"actualReceiveDate"`
}

// SampleSummary is the sample development projection attached to a summary row
type SampleSummary struct {
	ID                       uint       `json:"id"`
	Style                    string     `json:"style"`
	SamplemanName            string     `json:"samplemanName"`
	SampleReceiveDate        time.Time  `json:"sampleReceiveDate"`
	SampleCompleteDate       time.Time  `json:"sampleCompleteDate"`
	ActualSampleReceiveDate  *time.Time `json:"actualSampleReceiveDate"`
	ActualSampleCompleteDate *time.Time `json:"actualSampleCompleteDate"`
	SampleQuantity           int        `json:"sampleQuantity"`
}

// DHLSummary is the shipment projection attached to a summary row
type DHLSummary struct {
	Date           time.Time `json:"date"`
	TrackingNumber string    `json:"trackingNumber"`
	IsComplete     bool      `json:"isComplete"`
}

// TNASummaryRow is one TNA with flat buyer and merchandiser names and the
// representative sub-record of each workflow. Missing sub-records encode as null.
type TNASummaryRow struct {
	ID                uint              `json:"id"`
	Style             string            `json:"style"`
	ItemName          string            `json:"itemName"`
	ItemImage         *string           `json:"itemImage"`
	SampleSendingDate time.Time         `json:"sampleSendingDate"`
	OrderDate         time.Time         `json:"orderDate"`
	Status            string            `json:"status"`
	SampleType        string            `json:"sampleType"`
	BuyerID           uint              `json:"buyerId"`
	MerchandiserID    uint              `json:"merchandiserId"`
	CreatedByID       uint              `json:"createdById"`
	CreatedAt         time.Time         `json:"createdAt"`
	BuyerName         *string           `json:"buyerName"`
	MerchandiserName  *string           `json:"merchandiser"`
	Cad               *models.CadDesign `gorm:"-" json:"cad"`
	FabricBooking     *FabricSummary    `gorm:"-" json:"fabricBooking"`
	SampleDevelopment *SampleSummary    `gorm:"-" json:"sampleDevelopment"`
	DHLTracking       *DHLSummary       `gorm:"-" json:"dhlTracking"`
}

// SummaryPage is one page of the TNA summary list
type SummaryPage struct {
	Data       []TNASummaryRow `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
}

// CardCounts classifies every visible TNA into exactly one bucket
type CardCounts struct {
	OnProcess int `json:"onProcess"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Total     int `json:"total"`
}

// DepartmentProgress is the completion ratio of one department
type DepartmentProgress struct {
	Department string `json:"department"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// SummaryService builds the cross-workflow TNA views. Every related-table
// lookup is one batched IN-list query over the styles involved.
type SummaryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSummaryService creates a SummaryService
func NewSummaryService(db *gorm.DB) *SummaryService {
	return &SummaryService{db: db, now: time.Now}
}

// SetClock overrides the time source used for overdue classification
func (s *SummaryService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SummaryService) candidates(ctx context.Context, scope Scope, filter SummaryFilter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("tnas").
		Select(`tnas.id, tnas.style, tnas.item_name, tnas.item_image, tnas.sample_sending_date,
			tnas.order_date, tnas.status, tnas.sample_type, tnas.buyer_id, tnas.merchandiser_id,
			tnas.created_by_id, tnas.created_at, b.name AS buyer_name, u.name AS merchandiser_name`).
		Joins("LEFT JOIN buyers b ON b.id = tnas.buyer_id").
		Joins("LEFT JOIN users u ON u.id = tnas.merchandiser_id")

	q = scope.Apply(q, "tnas.created_by_id")

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := utils.ContainsPattern(search)
		q = q.Where(
			"("+utils.LikeClause("tnas.style")+" OR "+utils.LikeClause("tnas.item_name")+
				" OR "+utils.LikeClause("b.name")+" OR "+utils.LikeClause("u.name")+")",
			like, like, like, like,
		)
	}
	if filter.Range.Start != nil {
		q = q.Where("tnas.sample_sending_date >= ?", *filter.Range.Start)
	}
	if filter.Range.End != nil {
		q = q.Where("tnas.sample_sending_date <= ?", *filter.Range.End)
	}
	return q
}

// List returns the filtered, paginated and enriched TNA summary.
// The completion filter runs before pagination so Total counts filtered rows.
func (s *SummaryService) List(ctx context.Context, scope Scope, filter SummaryFilter) (*SummaryPage, error) {
	var all []TNASummaryRow
	err := s.candidates(ctx, scope, filter).
		Order("tnas.created_at DESC").Order("tnas.id DESC").
		Scan(&all).Error
	if err != nil {
		return nil, errors.Wrap(err, "load tna candidates")
	}

	if filter.Completed != nil {
		completion, err := s.dhlCompletion(ctx, distinctStyles(all))
		if err != nil {
			return nil, err
		}
		want := *filter.Completed
		filtered := all[:0]
		for _, row := range all {
			if completion[row.Style] == want {
				filtered = append(filtered, row)
			}
		}
		all = filtered
	}

	total := int64(len(all))
	start, end := filter.Page.Bounds(len(all))
	page := all[start:end]

	if err := s.enrich(ctx, page); err != nil {
		return nil, err
	}

	if page == nil {
		page = []TNASummaryRow{}
	}
	return &SummaryPage{
		Data:       page,
		Page:       filter.Page.Page,
		PageSize:   filter.Page.PageSize,
		Total:      total,
		TotalPages: filter.Page.TotalPages(total),
	}, nil
}

// Card classifies every visible TNA as completed, overdue or on process
func (s *SummaryService) Card(ctx context.Context, scope Scope) (*CardCounts, error) {
	var tnas []struct {
		Style             string
		SampleSendingDate time.Time
	}
	q := scope.Apply(s.db.WithContext(ctx).Model(&models.TNA{}), "created_by_id")
	if err := q.Select("style, sample_sending_date").Scan(&tnas).Error; err != nil {
		return nil, errors.Wrap(err, "load tnas")
	}

	styles := make([]string, 0, len(tnas))
	for _, t := range tnas {
		styles = append(styles, t.Style)
	}
	completion, err := s.dhlCompletion(ctx, uniq(styles))
	if err != nil {
		return nil, err
	}

	today := utils.StartOfDay(s.now().UTC())
	counts := &CardCounts{Total: len(tnas)}
	for _, t := range tnas {
		switch {
		case completion[t.Style]:
			counts.Completed++
		case utils.StartOfDay(t.SampleSendingDate.UTC()).Before(today):
			counts.Overdue++
		default:
			counts.OnProcess++
		}
	}
	return counts, nil
}

// DepartmentProgress reports, for each department in fixed order, how many
// visible TNAs have a style that finished that department's workflow.
func (s *SummaryService) DepartmentProgress(ctx context.Context, scope Scope) ([]DepartmentProgress, error) {
	var styles []string
	q := scope.Apply(s.db.WithContext(ctx).Model(&models.TNA{}), "created_by_id")
	if err := q.Pluck("style", &styles).Error; err != nil {
		return nil, errors.Wrap(err, "load tna styles")
	}
	distinct := uniq(styles)

	checks := []struct {
		department string
		model      interface{}
		condition  string
	}{
		{DepartmentMerchandising, &models.DHLTracking{}, ""},
		{DepartmentCAD, &models.CadDesign{}, "final_complete_date IS NOT NULL"},
		{DepartmentFabric, &models.FabricBooking{}, "actual_receive_date IS NOT NULL"},
		{DepartmentSample, &models.SampleDevelopment{}, "actual_sample_complete_date IS NOT NULL"},
	}

	total := len(styles)
	result := make([]DepartmentProgress, 0, len(checks))
	for _, check := range checks {
		done, err := s.stylesMatching(ctx, check.model, check.condition, distinct)
		if err != nil {
			return nil, errors.Wrapf(err, "%s progress", check.department)
		}

		completed := 0
		for _, style := range styles {
			if done[style] {
				completed++
			}
		}
		result = append(result, DepartmentProgress{
			Department: check.department,
			Completed:  completed,
			Total:      total,
			Percentage: percentage(completed, total),
		})
	}
	return result, nil
}

func percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// dhlCompletion maps each style with an isComplete=true DHL row to true.
// Styles with no rows or only incomplete rows map to false.
func (s *SummaryService) dhlCompletion(ctx context.Context, styles []string) (map[string]bool, error) {
	completion := make(map[string]bool, len(styles))
	err := chunkStyles(styles, func(chunk []string) error {
		var rows []struct {
			Style      string
			IsComplete bool
		}
		err := s.db.WithContext(ctx).Model(&models.DHLTracking{}).
			Select("style, is_complete").
			Where("style IN ?", chunk).
			Scan(&rows).Error
		if err != nil {
			return errors.Wrap(err, "load dhl completion")
		}
		for _, row := range rows {
			if row.IsComplete {
				completion[row.Style] = true
			}
		}
		return nil
	})
	return completion, err
}

// stylesMatching returns the styles having at least one row of model that satisfies condition
func (s *SummaryService) stylesMatching(ctx context.Context, model interface{}, condition string, styles []string) (map[string]bool, error) {
	done := make(map[string]bool, len(styles))
	err := chunkStyles(styles, func(chunk []string) error {
		var matched []string
		q := s.db.WithContext(ctx).Model(model).Distinct("style").Where("style IN ?", chunk)
		if condition != "" {
			q = q.Where(condition)
		}
		if err := q.Pluck("style", &matched).Error; err != nil {
			return err
		}
		for _, style := range matched {
			done[style] = true
		}
		return nil
	})
	return done, err
}

// enrich attaches the representative CAD, fabric, sample and DHL rows to each summary row
func (s *SummaryService) enrich(ctx context.Context, rows []TNASummaryRow) error {
	styles := distinctStyles(rows)
	if len(styles) == 0 {
		return nil
	}

	cads := make(map[string]*models.CadDesign)
	fabrics := make(map[string]*FabricSummary)
	samples := make(map[string]*SampleSummary)
	shipments := make(map[string]*DHLSummary)

	err := chunkStyles(styles, func(chunk []string) error {
		db := s.db.WithContext(ctx)

		var cadRows []models.CadDesign
		if err := db.Where("style IN ?", chunk).Order("id ASC").Find(&cadRows).Error; err != nil {
			return errors.Wrap(err, "load cad designs")
		}
		for i := range cadRows {
			if _, ok := cads[cadRows[i].Style]; !ok {
				cads[cadRows[i].Style] = &cadRows[i]
			}
		}

		var fabricRows []FabricSummary
		err := db.Model(&models.FabricBooking{}).
			Select("id, style, booking_date, receive_date, actual_booking_date, actual_receive_date").
			Where("style IN ?", chunk).Order("id ASC").
			Scan(&fabricRows).Error
		if err != nil {
			return errors.Wrap(err, "load fabric bookings")
		}
		for i := range fabricRows {
			if _, ok := fabrics[fabricRows[i].Style]; !ok {
				fabrics[fabricRows[i].Style] = &fabricRows[i]
			}
		}

		var sampleRows []SampleSummary
		err = db.Model(&models.SampleDevelopment{}).
			Select(`id, style, sampleman_name, sample_receive_date, sample_complete_date,
				actual_sample_receive_date, actual_sample_complete_date, sample_quantity`).
			Where("style IN ?", chunk).Order("id ASC").
			Scan(&sampleRows).Error
		if err != nil {
			return errors.Wrap(err, "load sample developments")
		}
		for i := range sampleRows {
			if _, ok := samples[sampleRows[i].Style]; !ok {
				samples[sampleRows[i].Style] = &sampleRows[i]
			}
		}

		var dhlRows []struct {
			Style string
			DHLSummary
		}
		err = db.Model(&models.DHLTracking{}).
			Select("style, date, tracking_number, is_complete").
			Where("style IN ?", chunk).Order("id ASC").
			Scan(&dhlRows).Error
		if err != nil {
			return errors.Wrap(err, "load dhl trackings")
		}
		for i := range dhlRows {
			current, seen := shipments[dhlRows[i].Style]
			// the first complete row wins over an earlier incomplete one
			if !seen || (!current.IsComplete && dhlRows[i].IsComplete) {
				shipment := dhlRows[i].DHLSummary
				shipments[dhlRows[i].Style] = &shipment
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i := range rows {
		style := rows[i].Style
		rows[i].Cad = cads[style]
		rows[i].FabricBooking = fabrics[style]
		rows[i].SampleDevelopment = samples[style]
		rows[i].DHLTracking = shipments[style]
	}
	return nil
}

func distinctStyles(rows []TNASummaryRow) []string {
	styles := make([]string, 0, len(rows))
	for _, row := range rows {
		styles = append(styles, row.Style)
	}
	return uniq(styles)
}

func uniq(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// chunkStyles calls fn for consecutive slices of styles; empty input makes no call
func chunkStyles(styles []string, fn func(chunk []string) error) error {
	for start := 0; start < len(styles); start += styleChunkSize {
		end := start + styleChunkSize
		if end > len(styles) {
			end = len(styles)
		}
		if err := fn(styles[start:end]); err != nil {
			return err
		}
	}
	return nil
}
