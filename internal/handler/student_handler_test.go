package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/school-services/internal/models"
	"github.com/schooldesk/school-services/internal/service"
	appErrors "github.com/schooldesk/school-services/pkg/errors"
)

type studentServiceMock struct {
	listResp     []models.Student
	listErr      error
	getResp      *models.Student
	getErr       error
	createResp   *models.Student
	createErr    error
	updateResp   *models.Student
	updateErr    error
	deleteErr    error
	createCalled bool
	lastFilter   models.StudentFilter
}

func (m *studentServiceMock) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	return m.listResp, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.listResp)}, nil
}

func (m *studentServiceMock) Get(ctx context.Context, id string) (*models.Student, error) {
	return m.getResp, m.getErr
}

func (m *studentServiceMock) Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error) {
	m.createCalled = true
	return m.createResp, m.createErr
}

func (m *studentServiceMock) Update(ctx context.Context, id string, req service.UpdateStudentRequest) (*models.Student, error) {
	return m.updateResp, m.updateErr
}

func (m *studentServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func TestStudentHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &studentServiceMock{
		createResp: &models.Student{ID: "s1", Name: "Jane Doe", Email: "jane@x.com"},
	}
	h := NewStudentHandler(mockSvc)

	payload, _ := json.Marshal(service.CreateStudentRequest{
		Name:        "Jane Doe",
		Email:       "jane@x.com",
		DateOfBirth: models.NewDate(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
		Address:     "1 Main St",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
}

func TestStudentHandlerCreateAcceptsCalendarDates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &studentServiceMock{
		createResp: &models.Student{ID: "s1", Name: "Jane Doe", Email: "jane@x.com"},
	}
	h := NewStudentHandler(mockSvc)

	// birth dates arrive as plain YYYY-MM-DD, not RFC 3339 timestamps
	body := `{"name":"Jane Doe","email":"jane@x.com","date_of_birth":"2000-01-01","address":"1 Main St"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/students", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
}

func TestStudentHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudentHandler(&studentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/students", bytes.NewBufferString(`{"name":"Jane"`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &studentServiceMock{
		createErr: appErrors.Clone(appErrors.ErrConflict, "email already used"),
	}
	h := NewStudentHandler(mockSvc)

	payload, _ := json.Marshal(service.CreateStudentRequest{
		Name:        "Jane Doe",
		Email:       "jane@x.com",
		DateOfBirth: models.NewDate(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
		Address:     "1 Main St",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestStudentHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &studentServiceMock{
		listResp: []models.Student{{ID: "s1", Name: "Jane Doe"}},
	}
	h := NewStudentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/students?classId=MATH101&page=2", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MATH101", mockSvc.lastFilter.ClassID)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &studentServiceMock{
		getErr: appErrors.Clone(appErrors.ErrNotFound, "student not found"),
	}
	h := NewStudentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/students/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudentHandler(&studentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/api/students/s1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
