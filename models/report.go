package models

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/smilefnb/smile_backend/config"
	"github.com/smilefnb/smile_backend/utils"
	"gorm.io/gorm"
)

func init() {
	// Money fields go over the wire as JSON numbers, matching the front-end
	// payload shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// validate mirrors gin's binding tags for callers that bypass the HTTP
// layer (batch internals, seed binaries).
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// Report is an immutable billing record for one sold line item, written at
// checkout. Reports are append-only: no update path exists.
type Report struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TableId     int             `gorm:"index;not null" json:"table_id"`
	Date        string          `gorm:"size:50;not null" json:"date"`
	Hour        string          `gorm:"size:50;not null" json:"hour"`
	ProductCode string          `gorm:"size:50;not null" json:"product_code"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Total       decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"total"`
	ShipFee     decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"ship_fee"`
	Discount    decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"discount"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Report) TableName() string {
	return "report"
}

// NewReport is the checkout payload; field names follow the front-end's
// camelCase convention.
type NewReport struct {
	TableNumber   *int            `json:"tableNumber" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	Time          string          `json:"time" binding:"required"`
	Code          string          `json:"code" binding:"required"`
	NameDish      string          `json:"nameDish" binding:"required"`
	Quantity      int             `json:"quantity"`
	TotalCheck    decimal.Decimal `json:"totalCheck"`
	ShipFee       decimal.Decimal `json:"shipFee"`
	DiscountCheck decimal.Decimal `json:"discountCheck"`
}

func (input *NewReport) toReport() *Report {
	return &Report{
		TableId:     *input.TableNumber,
		Date:        input.Date,
		Hour:        input.Time,
		ProductCode: input.Code,
		ProductName: input.NameDish,
		Quantity:    input.Quantity,
		Total:       input.TotalCheck,
		ShipFee:     input.ShipFee,
		Discount:    input.DiscountCheck,
	}
}

func GetAllReports(ctx context.Context) ([]*Report, error) {
	db := config.GetDB()

	var reports []*Report
	if err := db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func GetReportsByTable(ctx context.Context, tableId int) ([]*Report, error) {
	db := config.GetDB()

	var reports []*Report
	if err := db.WithContext(ctx).Where("table_id = ?", tableId).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func CreateReport(ctx context.Context, input *NewReport) (*Report, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	db := config.GetDB()
	report := input.toReport()
	if err := db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// CreateReportBatch persists the whole checkout in one transaction: either
// every report is written and gets an identifier, or none are. Results come
// back in input order.
func CreateReportBatch(ctx context.Context, inputs []*NewReport) ([]*Report, error) {
	db := config.GetDB()

	reports := make([]*Report, 0, len(inputs))
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, input := range inputs {
			if err := validate.Struct(input); err != nil {
				return fmt.Errorf("report %d: %w", i, err)
			}
			report := input.toReport()
			if err := tx.WithContext(ctx).Create(report).Error; err != nil {
				return fmt.Errorf("report %d: %w", i, err)
			}
			reports = append(reports, report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func DeleteAllReports(ctx context.Context) error {
	db := config.GetDB()

	return db.WithContext(ctx).Where("1 = 1").Delete(&Report{}).Error
}

func DeleteReportById(ctx context.Context, id int) error {
	db := config.GetDB()

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&Report{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
