package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/school-services/internal/models"
	"github.com/schooldesk/school-services/internal/service"
	appErrors "github.com/schooldesk/school-services/pkg/errors"
)

type teacherServiceMock struct {
	listResp   []models.Teacher
	listErr    error
	getResp    *models.Teacher
	getErr     error
	createResp *models.Teacher
	createErr  error
	updateResp *models.Teacher
	updateErr  error
	deleteErr  error
	lastFilter models.TeacherFilter
}

func (m *teacherServiceMock) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	return m.listResp, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.listResp)}, nil
}

func (m *teacherServiceMock) Get(ctx context.Context, id string) (*models.Teacher, error) {
	return m.getResp, m.getErr
}

func (m *teacherServiceMock) Create(ctx context.Context, req service.CreateTeacherRequest) (*models.Teacher, error) {
	return m.createResp, m.createErr
}

func (m *teacherServiceMock) Update(ctx context.Context, id string, req service.UpdateTeacherRequest) (*models.Teacher, error) {
	return m.updateResp, m.updateErr
}

func (m *teacherServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func TestTeacherHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &teacherServiceMock{
		createResp: &models.Teacher{ID: "t1", FirstName: "Ada", LastName: "Byron", Email: "ada@x.com", Active: true},
	}
	h := NewTeacherHandler(mockSvc)

	payload, _ := json.Marshal(service.CreateTeacherRequest{
		FirstName: "Ada",
		LastName:  "Byron",
		Email:     "ada@x.com",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/teachers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestTeacherHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTeacherHandler(&teacherServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/teachers", bytes.NewBufferString(`not-json`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeacherHandlerListActiveFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &teacherServiceMock{
		listResp: []models.Teacher{{ID: "t1", FirstName: "Ada", LastName: "Byron", Active: true}},
	}
	h := NewTeacherHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/teachers?active=true&sort=last_name", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastFilter.Active)
	assert.True(t, *mockSvc.lastFilter.Active)
	assert.Equal(t, "last_name", mockSvc.lastFilter.SortBy)
}

func TestTeacherHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &teacherServiceMock{
		getErr: appErrors.Clone(appErrors.ErrNotFound, "teacher not found"),
	}
	h := NewTeacherHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/teachers/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeacherHandlerUpdateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &teacherServiceMock{
		updateErr: appErrors.Clone(appErrors.ErrConflict, "email already used"),
	}
	h := NewTeacherHandler(mockSvc)

	payload, _ := json.Marshal(service.UpdateTeacherRequest{
		FirstName: "Ada",
		LastName:  "Byron",
		Email:     "taken@x.com",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/api/teachers/t1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t1"}}

	h.Update(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTeacherHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTeacherHandler(&teacherServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/api/teachers/t1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t1"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
