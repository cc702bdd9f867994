package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/core/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
	"github.com/imovelbooks/imovel_books_app/internal/handlers"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
	"github.com/imovelbooks/imovel_books_app/pkg/config"
)

// --- Mock TaxProjectionService ---
type MockTaxProjectionService struct {
	mock.Mock
}

func (m *MockTaxProjectionService) CalculateTaxProjections(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string) ([]domain.TaxProjection, error) {
	args := m.Called(ctx, userID, month, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxProjection), args.Error(1)
}
func (m *MockTaxProjectionService) GetTaxProjections(ctx context.Context, userID string, params dto.ListProjectionsParams) ([]domain.TaxProjection, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxProjection), args.Error(1)
}
func (m *MockTaxProjectionService) UpdateProjection(ctx context.Context, userID string, projectionID string, req dto.UpdateProjectionRequest) (*domain.TaxProjection, error) {
	args := m.Called(ctx, userID, projectionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxProjection), args.Error(1)
}
func (m *MockTaxProjectionService) ConfirmProjection(ctx context.Context, userID string, projectionID string) (*domain.TaxProjection, error) {
	args := m.Called(ctx, userID, projectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxProjection), args.Error(1)
}
func (m *MockTaxProjectionService) RecalculateForMonth(ctx context.Context, userID string, month domain.ReferenceMonth) ([]domain.TaxProjection, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxProjection), args.Error(1)
}
func (m *MockTaxProjectionService) DeleteProjection(ctx context.Context, userID string, projectionID string) error {
	args := m.Called(ctx, userID, projectionID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.TaxProjectionSvcFacade = (*MockTaxProjectionService)(nil)

// --- Test Suite ---
type ProjectionHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockProjectionService *MockTaxProjectionService
	userID                string
}

func (suite *ProjectionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.userID = uuid.NewString()

	// Identity comes from the trusted gateway header; no default user in tests.
	suite.router.Use(middleware.GatewayIdentity(""))

	suite.mockProjectionService = new(MockTaxProjectionService)
	container := &services.Container{Projections: suite.mockProjectionService}
	handlers.RegisterRoutes(suite.router, &config.Config{}, container)
}

func (suite *ProjectionHandlerTestSuite) serve(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", suite.userID)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleProjection(userID string) domain.TaxProjection {
	return domain.TaxProjection{
		ProjectionID:   uuid.NewString(),
		UserID:         userID,
		TaxType:        domain.TaxPIS,
		ReferenceMonth: "2025-07",
		DueDate:        time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
		BaseAmount:     domain.MustMoney("10000.00"),
		TaxAmount:      domain.MustMoney("165.00"),
		TotalAmount:    domain.MustMoney("165.00"),
		Status:         domain.StatusProjected,
	}
}

// --- Test Cases ---

func (suite *ProjectionHandlerTestSuite) TestCalculateProjections_Success() {
	expected := sampleProjection(suite.userID)
	suite.mockProjectionService.On("CalculateTaxProjections",
		mock.Anything,
		suite.userID,
		domain.ReferenceMonth("2025-07"),
		[]string(nil),
	).Return([]domain.TaxProjection{expected}, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/tax-projections/calculate", dto.CalculateProjectionsRequest{
		ReferenceMonth: "2025-07",
	})

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody []dto.ProjectionResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.Require().NoError(err)
	suite.Require().Len(responseBody, 1)
	suite.Equal(expected.ProjectionID, responseBody[0].ProjectionID)
	suite.Equal("165.00", responseBody[0].TotalAmount.String())
	suite.Equal("R$ 165,00", responseBody[0].TotalAmountFormatted)

	suite.mockProjectionService.AssertExpectations(suite.T())
}

func (suite *ProjectionHandlerTestSuite) TestCalculateProjections_InvalidMonth() {
	w := suite.serve(http.MethodPost, "/api/v1/tax-projections/calculate", dto.CalculateProjectionsRequest{
		ReferenceMonth: "07/2025",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockProjectionService.AssertNotCalled(suite.T(), "CalculateTaxProjections", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProjectionHandlerTestSuite) TestCalculateProjections_MissingIdentity() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/tax-projections/calculate", bytes.NewReader([]byte(`{"referenceMonth":"2025-07"}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ProjectionHandlerTestSuite) TestListProjections_PassesFilters() {
	expected := sampleProjection(suite.userID)
	suite.mockProjectionService.On("GetTaxProjections",
		mock.Anything,
		suite.userID,
		mock.MatchedBy(func(p dto.ListProjectionsParams) bool {
			return p.ReferenceMonth != nil && *p.ReferenceMonth == "2025-07" &&
				p.Status != nil && *p.Status == "PROJECTED"
		}),
	).Return([]domain.TaxProjection{expected}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/tax-projections?referenceMonth=2025-07&status=PROJECTED", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockProjectionService.AssertExpectations(suite.T())
}

func (suite *ProjectionHandlerTestSuite) TestListProjections_RejectsUnknownStatus() {
	w := suite.serve(http.MethodGet, "/api/v1/tax-projections?status=CANCELLED", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockProjectionService.AssertNotCalled(suite.T(), "GetTaxProjections", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProjectionHandlerTestSuite) TestConfirmProjection_Success() {
	confirmed := sampleProjection(suite.userID)
	confirmed.Status = domain.StatusConfirmed
	txnID := uuid.NewString()
	confirmed.TransactionID = &txnID

	suite.mockProjectionService.On("ConfirmProjection", mock.Anything, suite.userID, confirmed.ProjectionID).
		Return(&confirmed, nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tax-projections/%s/confirm", confirmed.ProjectionID), nil)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.ProjectionResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusConfirmed, responseBody.Status)
	suite.Require().NotNil(responseBody.TransactionID)
	suite.Equal(txnID, *responseBody.TransactionID)
}

func (suite *ProjectionHandlerTestSuite) TestConfirmProjection_AlreadyConfirmed() {
	projectionID := uuid.NewString()
	suite.mockProjectionService.On("ConfirmProjection", mock.Anything, suite.userID, projectionID).
		Return(nil, fmt.Errorf("%w: projection %s", apperrors.ErrAlreadyConfirmed, projectionID)).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tax-projections/%s/confirm", projectionID), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ProjectionHandlerTestSuite) TestUpdateProjection_NotFound() {
	projectionID := uuid.NewString()
	suite.mockProjectionService.On("UpdateProjection", mock.Anything, suite.userID, projectionID, mock.AnythingOfType("dto.UpdateProjectionRequest")).
		Return(nil, fmt.Errorf("projection lookup: %w", apperrors.ErrNotFound)).Once()

	notes := "ajuste manual"
	w := suite.serve(http.MethodPut, "/api/v1/tax-projections/"+projectionID, dto.UpdateProjectionRequest{Notes: &notes})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProjectionHandlerTestSuite) TestDeleteProjection_Success() {
	projectionID := uuid.NewString()
	suite.mockProjectionService.On("DeleteProjection", mock.Anything, suite.userID, projectionID).
		Return(nil).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/tax-projections/"+projectionID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockProjectionService.AssertExpectations(suite.T())
}

func (suite *ProjectionHandlerTestSuite) TestDeleteProjection_ConfirmedConflict() {
	projectionID := uuid.NewString()
	suite.mockProjectionService.On("DeleteProjection", mock.Anything, suite.userID, projectionID).
		Return(fmt.Errorf("%w: confirmed projections cannot be deleted", apperrors.ErrInvalidState)).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/tax-projections/"+projectionID, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Run Test Suite ---
func TestProjectionHandler(t *testing.T) {
	suite.Run(t, new(ProjectionHandlerTestSuite))
}
