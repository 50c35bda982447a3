package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusinessThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create: %w", ErrBusiness("time_conflict"))

	assert.True(t, IsBusiness(err, "time_conflict"))
	assert.False(t, IsBusiness(err, "too_soon"))
	assert.False(t, IsBusiness(errors.New("time_conflict"), "time_conflict"))
}

func TestPgErrorClassification(t *testing.T) {
	excl := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	uniq := &pgconn.PgError{Code: "23505"}

	assert.True(t, IsExclusionConflict(excl))
	assert.False(t, IsExclusionConflict(uniq))
	assert.True(t, IsUniqueViolation(uniq))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestFromBusinessWritesMappedStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"conflict", ErrBusiness("time_conflict"), http.StatusConflict, "time_conflict"},
		{"exclusion", &pgconn.PgError{Code: "23P01"}, http.StatusConflict, "time_conflict"},
		{"unknown code", ErrBusiness("weird"), http.StatusBadRequest, "weird"},
		{"not found", ErrBusiness("appointment_not_found"), http.StatusNotFound, "appointment_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			require.True(t, FromBusiness(c, tc.err))
			assert.Equal(t, tc.wantStatus, w.Code)

			var body HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestRespondFallsBackToInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, errors.New("db down"), "failed_to_list")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed_to_list")
}

func TestDetailsAreSerialized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromBusiness(c, ErrBusinessWithDetails("bloqueo_overlaps_appointments", []uint{4, 9}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error_code":"bloqueo_overlaps_appointments","message":"Hay turnos pendientes en el rango a bloquear.","details":[4,9]}`, w.Body.String())
}
