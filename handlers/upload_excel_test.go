package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"surveyimport/config"
	"surveyimport/services"
	"surveyimport/testhelpers"
)

func multipartUpload(t *testing.T, fileName string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(content)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/system-surveyor/upload-excel", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func sampleWorkbook(t *testing.T) []byte {
	return testhelpers.MakeXLSX(t, [][]any{
		{"System Type", "Element Name", "Manufacturer", "Model", "Quantity", "Price", "Install Hours"},
		{"Video Surveillance", "Indoor Camera", "Axis", "M3086-V", 2, 300, 1.5},
		{"Network", "PoE Switch", "Ubiquiti", "USW-24", 1, 500, 2},
	})
}

func TestHandleUploadExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	importer := services.NewEquipmentImporter(100)

	req := multipartUpload(t, "survey.xlsx", sampleWorkbook(t), nil)
	rec := httptest.NewRecorder()

	if err := HandleUploadExcel(app, importer, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool                     `json:"success"`
		Data    services.EquipmentImport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !body.Success {
		t.Error("expected success")
	}
	if got := len(body.Data.Equipment.Cameras); got != 1 {
		t.Errorf("cameras = %d, want 1", got)
	}
	if got := len(body.Data.Equipment.Network); got != 1 {
		t.Errorf("network = %d, want 1", got)
	}
	if body.Data.Totals.TotalCost != 1100 {
		t.Errorf("totalCost = %v, want 1100", body.Data.Totals.TotalCost)
	}
	if body.Data.Totals.TotalInstallHours != 5 {
		t.Errorf("totalInstallHours = %v, want 5", body.Data.Totals.TotalInstallHours)
	}
	if body.Data.ImportID == "" {
		t.Fatal("expected importId with persistence on")
	}

	stored, err := services.LoadImport(app, body.Data.ImportID)
	if err != nil {
		t.Fatalf("LoadImport: %v", err)
	}
	if stored.Source != services.SourceExcel || len(stored.Items) != 2 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestHandleUploadExcel_CSVNoPersist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	csv := "System Type,Element Name,Quantity,Price\nAccess Control,Card Reader,2,150\n"

	req := multipartUpload(t, "survey.csv", []byte(csv), map[string]string{"persist": "false"})
	rec := httptest.NewRecorder()

	if err := HandleUploadExcel(app, services.NewEquipmentImporter(85), config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), `"importId"`) {
		t.Error("persist=false should not store the import")
	}
	if !strings.Contains(rec.Body.String(), "Card Reader") {
		t.Errorf("expected reader in body: %s", rec.Body.String())
	}
}

func TestHandleUploadExcel_Rejections(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	importer := services.NewEquipmentImporter(85)

	tests := []struct {
		name     string
		fileName string
		content  []byte
		want     int
	}{
		{"no file", "", nil, http.StatusBadRequest},
		{"wrong extension", "notes.txt", []byte("hello"), http.StatusBadRequest},
		{"corrupt workbook", "broken.xlsx", []byte("not a zip"), http.StatusUnprocessableEntity},
		{"header only", "empty.csv", []byte("System Type,Element Name\n"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartUpload(t, tt.fileName, tt.content, nil)
			rec := httptest.NewRecorder()
			if err := HandleUploadExcel(app, importer, noPersist())(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleUploadExcel_TooLarge(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := noPersist()
	cfg.MaxUploadBytes = 1 << 10

	req := multipartUpload(t, "big.csv", bytes.Repeat([]byte("a,b\n"), 4096), nil)
	rec := httptest.NewRecorder()
	if err := HandleUploadExcel(app, services.NewEquipmentImporter(85), cfg)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestHandleUploadWarningReport(t *testing.T) {
	body := `[{"row":3,"field":"price","message":"\"abc\" is not a number, using 0"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/system-surveyor/upload-excel/warnings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	if err := HandleUploadWarningReport()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Warnings", "B2"); v != "price" {
		t.Errorf("B2 = %q, want price", v)
	}
}

func TestHandleUploadWarningReport_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/system-surveyor/upload-excel/warnings", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	if err := HandleUploadWarningReport()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleImportTemplateDownload(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/system-surveyor/upload-excel/template", nil)
	rec := httptest.NewRecorder()

	if err := HandleImportTemplateDownload(services.DefaultCategoryRules())(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "equipment_import_template.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
