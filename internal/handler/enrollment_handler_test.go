package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/school-services/internal/models"
	appErrors "github.com/schooldesk/school-services/pkg/errors"
)

type enrollmentServiceMock struct {
	enrollResp    *models.Enrollment
	enrollErr     error
	listResp      []models.Enrollment
	listErr       error
	updateResp    *models.Enrollment
	updateErr     error
	deleteErr     error
	lastStudentID string
	lastClassID   string
	lastStatus    models.EnrollmentStatus
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, studentID, classID string) (*models.Enrollment, error) {
	m.lastStudentID = studentID
	m.lastClassID = classID
	return m.enrollResp, m.enrollErr
}

func (m *enrollmentServiceMock) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	m.lastStudentID = studentID
	return m.listResp, m.listErr
}

func (m *enrollmentServiceMock) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	m.lastStatus = status
	return m.updateResp, m.updateErr
}

func (m *enrollmentServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func TestEnrollmentHandlerEnroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{
		enrollResp: &models.Enrollment{ID: "e1", StudentID: "s1", ClassID: "MATH101", Status: models.EnrollmentStatusActive},
	}
	h := NewEnrollmentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/students/s1/enrollments?classId=MATH101", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Enroll(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "s1", mockSvc.lastStudentID)
	assert.Equal(t, "MATH101", mockSvc.lastClassID)
}

func TestEnrollmentHandlerEnrollStudentNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{
		enrollErr: appErrors.Clone(appErrors.ErrNotFound, "student not found"),
	}
	h := NewEnrollmentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/students/missing/enrollments?classId=MATH101", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Enroll(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollmentHandlerEnrollDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{
		enrollErr: appErrors.Clone(appErrors.ErrConflict, "student already enrolled in class"),
	}
	h := NewEnrollmentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/students/s1/enrollments?classId=MATH101", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Enroll(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestEnrollmentHandlerListByStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now().UTC()
	mockSvc := &enrollmentServiceMock{
		listResp: []models.Enrollment{
			{ID: "e1", StudentID: "s1", ClassID: "MATH101", EnrollmentDate: now, Status: models.EnrollmentStatusActive},
		},
	}
	h := NewEnrollmentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/students/s1/enrollments", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.ListByStudent(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", mockSvc.lastStudentID)
}

func TestEnrollmentHandlerUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	completed := time.Now().UTC()
	mockSvc := &enrollmentServiceMock{
		updateResp: &models.Enrollment{ID: "e1", Status: models.EnrollmentStatusCompleted, CompletionDate: &completed},
	}
	h := NewEnrollmentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/api/students/enrollments/e1/status?newStatus=COMPLETED", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "enrollmentId", Value: "e1"}}

	h.UpdateStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EnrollmentStatusCompleted, mockSvc.lastStatus)
}

func TestEnrollmentHandlerUpdateStatusInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{
		updateErr: appErrors.Clone(appErrors.ErrValidation, "invalid enrollment status"),
	}
	h := NewEnrollmentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/api/students/enrollments/e1/status?newStatus=GRADUATED", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "enrollmentId", Value: "e1"}}

	h.UpdateStatus(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(&enrollmentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/api/students/enrollments/e1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "enrollmentId", Value: "e1"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
