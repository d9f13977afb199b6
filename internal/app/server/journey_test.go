package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hris/internal/app/server"
	"hris/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func startApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:           ":0",
		DatabaseURL:    dbURL,
		JWTSecret:      "test-secret",
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 5 * 1024 * 1024,
		RunMigrations:  true,
		Environment:    "test",
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.DB.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts
}

func TestContractLifecycleJourney(t *testing.T) {
	app, ts := startApp(t)
	client := ts.Client()

	futureEnd := time.Now().AddDate(1, 0, 0).Format("02/01/2006")
	name := fmt.Sprintf("Journey Tester %d", time.Now().UnixNano())

	created := postJSON(t, client, ts.URL+"/api/elnusa/users", map[string]any{
		"nama_karyawan": name,
		"jabatan":       "Operator",
		"no_kontrak":    "K-J-001",
		"kontrak_awal":  "01/01/2025",
		"kontrak_akhir": futureEnd,
		"gaji_pokok":    "5000000",
	}, http.StatusCreated)

	var rec struct {
		ID           int64   `json:"id"`
		KontrakAwal  string  `json:"kontrak_awal"`
		SebabNA      *string `json:"sebab_na"`
		KontrakAkhir string  `json:"kontrak_akhir"`
	}
	mustDecode(t, created.Data, &rec)
	if rec.KontrakAwal != "2025-01-01" {
		t.Fatalf("expected normalized start date, got %s", rec.KontrakAwal)
	}
	if rec.SebabNA != nil {
		t.Fatalf("expected active record, got sebab_na %v", *rec.SebabNA)
	}
	userURL := fmt.Sprintf("%s/api/elnusa/users/%d", ts.URL, rec.ID)

	// An update that changes nothing material must not write history.
	update := map[string]any{
		"nama_karyawan": name,
		"jabatan":       "Operator Senior",
		"no_kontrak":    "K-J-001",
		"kontrak_awal":  "01/01/2025",
		"kontrak_akhir": futureEnd,
	}
	resp := putJSON(t, client, userURL, update, http.StatusOK)
	var updateResult struct {
		History struct {
			Skipped bool `json:"skipped"`
			Written bool `json:"written"`
		} `json:"history"`
	}
	mustDecode(t, resp.Data, &updateResult)
	if !updateResult.History.Skipped {
		t.Fatalf("expected history skip, got %+v", updateResult.History)
	}

	// A new contract number is material and must be audited.
	update["no_kontrak"] = "K-J-002"
	resp = putJSON(t, client, userURL, update, http.StatusOK)
	mustDecode(t, resp.Data, &updateResult)
	if !updateResult.History.Written {
		t.Fatalf("expected history write, got %+v", updateResult.History)
	}

	histResp := getJSON(t, client, userURL+"/all-contract-history", http.StatusOK)
	var entries []struct {
		NoKontrakLama *string `json:"no_kontrak_lama"`
		NoKontrakBaru *string `json:"no_kontrak_baru"`
	}
	mustDecode(t, histResp.Data, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].NoKontrakBaru == nil || *entries[0].NoKontrakBaru != "K-J-002" {
		t.Fatalf("unexpected history entry: %+v", entries[0])
	}

	// Deactivate with an explicit reason.
	putJSON(t, client, userURL+"/na", map[string]any{"sebab_na": "resign"}, http.StatusOK)

	// Clearing the reason without touching the contract must be rejected.
	update["sebab_na"] = ""
	putJSON(t, client, userURL, update, http.StatusBadRequest)

	// Phase one clears the reason and names the fields still required.
	restoreResp := putJSON(t, client, userURL+"/restore", nil, http.StatusOK)
	var restore struct {
		FieldsToUpdate []string `json:"fieldsToUpdate"`
	}
	mustDecode(t, restoreResp.Data, &restore)
	if len(restore.FieldsToUpdate) != 2 {
		t.Fatalf("expected two fields to update, got %v", restore.FieldsToUpdate)
	}

	// Restoring an already-active record is an error.
	putJSON(t, client, userURL+"/restore", nil, http.StatusBadRequest)

	// Phase two: a fresh contract completes the reactivation.
	update["no_kontrak"] = "K-J-003"
	update["kontrak_akhir"] = time.Now().AddDate(2, 0, 0).Format("02/01/2006")
	putJSON(t, client, userURL, update, http.StatusOK)

	getResp := getJSON(t, client, userURL, http.StatusOK)
	mustDecode(t, getResp.Data, &rec)
	if rec.SebabNA != nil {
		t.Fatalf("expected restored record, got sebab_na %v", *rec.SebabNA)
	}

	// Expire the contract behind the API's back, then sweep.
	past := time.Now().AddDate(0, 0, -10).Format("2006-01-02")
	if _, err := app.DB.Exec(context.Background(),
		"UPDATE elnusa_employees SET kontrak_akhir = $1 WHERE id = $2", past, rec.ID); err != nil {
		t.Fatalf("failed to expire contract: %v", err)
	}

	sweepResp := getJSON(t, client, ts.URL+"/api/elnusa/check-expired", http.StatusOK)
	var sweepResult struct {
		Marked int     `json:"marked"`
		IDs    []int64 `json:"ids"`
	}
	mustDecode(t, sweepResp.Data, &sweepResult)
	if !containsID(sweepResult.IDs, rec.ID) {
		t.Fatalf("expected sweep to mark %d, got %v", rec.ID, sweepResult.IDs)
	}

	getResp = getJSON(t, client, userURL, http.StatusOK)
	mustDecode(t, getResp.Data, &rec)
	if rec.SebabNA == nil || *rec.SebabNA != "EOC" {
		t.Fatalf("expected EOC after sweep, got %v", rec.SebabNA)
	}

	// Certificates ride along with the employee.
	postJSON(t, client, userURL+"/certificates", map[string]any{
		"judul_sertifikat": "K3 Umum",
		"berlaku_mulai":    "01/01/2025",
		"berlaku_sampai":   "01/01/2027",
	}, http.StatusCreated)

	certResp := getJSON(t, client, userURL+"/certificates", http.StatusOK)
	var certs []struct {
		JudulSertifikat string `json:"judul_sertifikat"`
	}
	mustDecode(t, certResp.Data, &certs)
	if len(certs) != 1 || certs[0].JudulSertifikat != "K3 Umum" {
		t.Fatalf("unexpected certificates: %+v", certs)
	}

	// PDF summary renders for any record.
	pdfReq, _ := http.NewRequest(http.MethodGet, userURL+"/contract-summary/pdf", nil)
	pdfResp, err := client.Do(pdfReq)
	if err != nil {
		t.Fatalf("pdf request failed: %v", err)
	}
	pdfBody, _ := io.ReadAll(pdfResp.Body)
	pdfResp.Body.Close()
	if pdfResp.StatusCode != http.StatusOK || !bytes.HasPrefix(pdfBody, []byte("%PDF")) {
		t.Fatalf("expected PDF response, got status %d", pdfResp.StatusCode)
	}

	// Delete cascades history and certificates.
	deleteJSON(t, client, userURL, http.StatusOK)
	getJSON(t, client, userURL, http.StatusNotFound)
}

func TestBulkImportJourney(t *testing.T) {
	_, ts := startApp(t)
	client := ts.Client()

	futureEnd := time.Now().AddDate(1, 0, 0).Format("02/01/2006")
	stamp := time.Now().UnixNano()
	csvData := fmt.Sprintf(
		"nama_karyawan,no_kontrak,kontrak_awal,kontrak_akhir,gaji_pokok\n"+
			"Bulk A %d,BK-1,01/01/2025,%s,4500000\n"+
			"Bulk B %d,BK-2,01/01/2025,%s,Rp 5.000.000\n"+
			"Bulk C %d,BK-3,01/01/2025,%s,5500000\n",
		stamp, futureEnd, stamp, futureEnd, stamp, futureEnd)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "import.csv")
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	if _, err := part.Write([]byte(csvData)); err != nil {
		t.Fatalf("multipart write: %v", err)
	}
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/regional2s/upload-bulk", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var result struct {
		Success int `json:"success"`
		Failed  int `json:"failed"`
	}
	mustDecode(t, env.Data, &result)
	if result.Success != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 imported and 1 rejected, got %+v", result)
	}
}

func containsID(ids []int64, want int64) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

func mustDecode(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
}

func doJSON(t *testing.T, client *http.Client, method, url string, payload any, wantStatus int) envelope {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, url, wantStatus, resp.StatusCode, raw)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return env
}

func postJSON(t *testing.T, client *http.Client, url string, payload any, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, payload, wantStatus)
}

func putJSON(t *testing.T, client *http.Client, url string, payload any, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, payload, wantStatus)
}

func getJSON(t *testing.T, client *http.Client, url string, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, nil, wantStatus)
}

func deleteJSON(t *testing.T, client *http.Client, url string, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodDelete, url, nil, wantStatus)
}
