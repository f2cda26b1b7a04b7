package service

import (
	"bytes"
	"errors"
	"testing"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"

	"github.com/xuri/excelize/v2"
)

func buildImportSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []interface{}{"Product", "Harvest Date", "Quantity (kg)", "Price per kg", "Grade"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("write row %d: %v", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize sheet: %v", err)
	}
	return buf
}

func TestImportBatchesMixedRows(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	batchSvc := newBatchService(db, hub)
	svc := NewBatchImportService(repository.NewProductRepo(db), repository.NewFarmRepo(db), batchSvc)

	farmer, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	createProduct(t, db, "Spinach", 5)
	createProduct(t, db, "Carrot", 14)

	buf := buildImportSheet(t, [][]interface{}{
		{"Spinach", "2026-08-28", "12.5", "9000", "A"},
		{"spinach", "2026-08-27", "8", "8500", ""},      // Name matching is case-insensitive
		{"Dragonfruit", "2026-08-28", "5", "20000"},     // Not in catalogue
		{"Carrot", "28/08/2026", "5", "7000"},           // Bad date format
		{"Carrot", "2026-08-28", "-3", "7000"},          // Bad quantity
		{"Carrot", "2026-08-28", "5", "7000", "Z"},      // Bad grade
	})

	summary, err := svc.ImportBatches(farmer.ID, buf)
	if err != nil {
		t.Fatalf("ImportBatches failed: %v", err)
	}

	if summary.Created != 2 {
		t.Errorf("created = %d, want 2", summary.Created)
	}
	if summary.Failed != 4 {
		t.Errorf("failed = %d, want 4", summary.Failed)
	}
	if len(summary.Rows) != 6 {
		t.Fatalf("row results = %d, want 6", len(summary.Rows))
	}
	if !summary.Rows[0].OK || summary.Rows[0].BatchID == "" {
		t.Errorf("row 2 = %+v, want success with batch id", summary.Rows[0])
	}
	if summary.Rows[2].OK || summary.Rows[2].Error == "" {
		t.Errorf("row 4 = %+v, want failure with message", summary.Rows[2])
	}

	var count int64
	db.Model(&model.HarvestBatch{}).Where("farm_id = ?", farm.ID).Count(&count)
	if count != 2 {
		t.Errorf("batch rows = %d, want 2", count)
	}
}

func TestImportBatchesWithoutFarm(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	batchSvc := newBatchService(db, hub)
	svc := NewBatchImportService(repository.NewProductRepo(db), repository.NewFarmRepo(db), batchSvc)

	customer := createCustomer(t, db, "nofarm@example.com")
	buf := buildImportSheet(t, nil)

	if _, err := svc.ImportBatches(customer.ID, buf); !errors.Is(err, ErrNoFarm) {
		t.Fatalf("err = %v, want ErrNoFarm", err)
	}
}

func TestImportBatchesRejectsGarbageFile(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	batchSvc := newBatchService(db, hub)
	svc := NewBatchImportService(repository.NewProductRepo(db), repository.NewFarmRepo(db), batchSvc)

	farmer, _ := createFarmer(t, db, "farmer@example.com", "Green Valley")

	if _, err := svc.ImportBatches(farmer.ID, bytes.NewBufferString("not a spreadsheet")); err == nil {
		t.Fatal("expected an error for a non-xlsx upload")
	}
}
