package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"incentive-service/internal/config"
	"incentive-service/internal/incentive/catalog"
	"incentive-service/internal/incentive/handler"
)

func testDeps() handler.Deps {
	return handler.Deps{
		Cfg:     config.Config{MaxUploadMB: 16, HeaderRow: 1},
		Catalog: catalog.Default(),
		Logger:  zerolog.Nop(),
	}
}

func uploadRequest(t *testing.T, target string, fields map[string]string, rows [][]any) *http.Request {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, rowData := range rows {
		cell, err := excelize.CoordinatesToCellName(1, 1+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rowData))
	}
	wb, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "upload.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(wb.Bytes())
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var handlerRows = [][]any{
	{"Salesman Name", "Item Group", "Mobile No", "Date"},
	{"Ravi", "Sarees", "9876500001", "2023-03-15"},
	{"Ravi", "Kurtis", "9876500001", "2023-03-15"},
	{"Meena", "Jewellery", "9876500002", "2023-03-16"},
}

func TestParseEndpoint(t *testing.T) {
	req := uploadRequest(t, "/incentives/parse", nil, handlerRows)
	rec := httptest.NewRecorder()
	handler.Parse(testDeps())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Metrics []struct {
			Name           string `json:"name"`
			TotalIncentive int    `json:"totalIncentive"`
		} `json:"metrics"`
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Metrics, 2)
	assert.Equal(t, "Ravi", res.Metrics[0].Name)
	assert.Equal(t, 20, res.Metrics[0].TotalIncentive)
	assert.Equal(t, []string{"2023-03-15", "2023-03-16"}, res.Dates)
}

func TestParseEndpointMissingColumns(t *testing.T) {
	req := uploadRequest(t, "/incentives/parse", nil, [][]any{
		{"Qty", "Rate", "Amount"},
		{"1", "2", "2"},
	})
	rec := httptest.NewRecorder()
	handler.Parse(testDeps())(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "missing_columns", res.Error)
	assert.ElementsMatch(t, []string{"salesperson", "department", "customer"}, res.Missing)
}

func TestParseEndpointNoFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/incentives/parse", nil)
	rec := httptest.NewRecorder()
	handler.Parse(testDeps())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportEndpointWeek(t *testing.T) {
	req := uploadRequest(t, "/incentives/report",
		map[string]string{"timeframe": "week", "date": "2023-03-13"}, handlerRows)
	rec := httptest.NewRecorder()
	handler.Report(testDeps())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Timeframe   string `json:"timeframe"`
		Salespeople []struct {
			Name           string `json:"name"`
			TotalIncentive int    `json:"totalIncentive"`
		} `json:"salespeople"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "week", res.Timeframe)
	require.Len(t, res.Salespeople, 2)
	assert.Equal(t, 20, res.Salespeople[0].TotalIncentive)
}

func TestReportEndpointBadTimeframe(t *testing.T) {
	req := uploadRequest(t, "/incentives/report",
		map[string]string{"timeframe": "fortnight"}, handlerRows)
	rec := httptest.NewRecorder()
	handler.Report(testDeps())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
