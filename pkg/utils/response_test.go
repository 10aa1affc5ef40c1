package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusConflict, "cedula taken")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"cedula taken"}`, rec.Body.String())
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "atenciones_2024-03-01.csv", "text/csv", []byte("a\r\n"))

	assert.Equal(t, `attachment; filename="atenciones_2024-03-01.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "a\r\n", rec.Body.String())
}
