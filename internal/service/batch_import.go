package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportRowResult reports the outcome of one spreadsheet row.
type ImportRowResult struct {
	Row     int    `json:"row"`
	OK      bool   `json:"ok"`
	BatchID string `json:"batch_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImportSummary is returned from a bulk import request.
type ImportSummary struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}

type BatchImportService interface {
	ImportBatches(farmerID uuid.UUID, file io.Reader) (*ImportSummary, error)
}

type batchImportService struct {
	productRepo repository.ProductRepository
	farmRepo    repository.FarmRepository
	batchSvc    BatchService
}

func NewBatchImportService(productRepo repository.ProductRepository, farmRepo repository.FarmRepository, batchSvc BatchService) BatchImportService {
	return &batchImportService{
		productRepo: productRepo,
		farmRepo:    farmRepo,
		batchSvc:    batchSvc,
	}
}

// ImportBatches reads an xlsx price list, one batch per row:
//
//	| product name | harvest date (YYYY-MM-DD) | quantity kg | price per kg | grade |
//
// The first row is treated as a header. Bad rows are reported individually;
// good rows are created. Product names are matched case-insensitively
// against the catalogue.
func (s *batchImportService) ImportBatches(farmerID uuid.UUID, file io.Reader) (*ImportSummary, error) {
	if _, err := s.farmRepo.FindByUser(farmerID); err != nil {
		return nil, ErrNoFarm
	}

	xlsx, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read spreadsheet: %w", err)
	}
	defer xlsx.Close()

	sheets := xlsx.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := xlsx.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}

	summary := &ImportSummary{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		batch, err := s.parseRow(row)
		if err != nil {
			summary.Failed++
			summary.Rows = append(summary.Rows, ImportRowResult{Row: rowNum, Error: err.Error()})
			continue
		}

		created, err := s.batchSvc.CreateBatch(farmerID, batch)
		if err != nil {
			summary.Failed++
			summary.Rows = append(summary.Rows, ImportRowResult{Row: rowNum, Error: err.Error()})
			continue
		}

		summary.Created++
		summary.Rows = append(summary.Rows, ImportRowResult{Row: rowNum, OK: true, BatchID: created.ID.String()})
	}

	return summary, nil
}

func (s *batchImportService) parseRow(row []string) (*model.HarvestBatch, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("expected at least 4 columns, got %d", len(row))
	}

	name := strings.TrimSpace(row[0])
	if name == "" {
		return nil, fmt.Errorf("product name is empty")
	}
	product, err := s.productRepo.FindByNormalizedName(name)
	if err != nil {
		return nil, fmt.Errorf("no catalogue product matches %q", name)
	}

	harvestDate, err := time.Parse("2006-01-02", strings.TrimSpace(row[1]))
	if err != nil {
		return nil, fmt.Errorf("bad harvest date %q, use YYYY-MM-DD", row[1])
	}

	quantity, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil || quantity <= 0 {
		return nil, fmt.Errorf("bad quantity %q", row[2])
	}

	price, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("bad price %q", row[3])
	}

	grade := "A"
	if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
		grade = strings.ToUpper(strings.TrimSpace(row[4]))
		if grade != "A" && grade != "B" && grade != "C" {
			return nil, fmt.Errorf("bad grade %q, use A, B or C", row[4])
		}
	}

	return &model.HarvestBatch{
		ProductID:   product.ID,
		HarvestDate: harvestDate,
		QuantityKg:  quantity,
		PricePerKg:  price,
		Grade:       grade,
	}, nil
}
