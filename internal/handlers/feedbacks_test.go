package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/webfinancas/api/internal/handlers"
	"github.com/webfinancas/api/internal/models"
)

func TestListFeedbacks_Success(t *testing.T) {
	mockService := &handlers.MockFeedbackBoardService{
		ListFunc: func(ctx context.Context) ([]*models.Feedback, error) {
			return []*models.Feedback{
				{ID: 2, Title: "Newer", Author: "Ana", Status: models.StatusReviewing, CreatedAt: time.Now()},
				{ID: 1, Title: "Older", Author: "Bruno", Status: models.StatusShipped, CreatedAt: time.Now().Add(-time.Hour)},
			}, nil
		},
	}

	handler := handlers.NewFeedbackHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodGet, "/api/feedbacks", nil)
	req = handlers.WithAuthContext(req, 7)

	w := httptest.NewRecorder()
	handler.List(w, req)

	var resp []handlers.FeedbackResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Len(t, resp, 2)
	assert.Equal(t, "Newer", resp[0].Title)
}

func TestCreateFeedback_Success(t *testing.T) {
	mockService := &handlers.MockFeedbackBoardService{
		CreateFunc: func(ctx context.Context, userID int64, title, body string) (*models.Feedback, error) {
			return &models.Feedback{
				ID:        1,
				Title:     title,
				Body:      body,
				Author:    "Ana",
				Status:    models.StatusReviewing,
				UserID:    userID,
				CreatedAt: time.Now(),
			}, nil
		},
	}

	handler := handlers.NewFeedbackHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodPost, "/api/feedbacks", handlers.CreateFeedbackRequest{
		Title: "Dark mode",
		Body:  "A dark theme would be great.",
	})
	req = handlers.WithAuthContext(req, 7)

	w := httptest.NewRecorder()
	handler.Create(w, req)

	var resp handlers.FeedbackResponse
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "reviewing", resp.Status)
	assert.Equal(t, "Ana", resp.Author)
}

func TestCreateFeedback_ProfanityRejected(t *testing.T) {
	mockService := &handlers.MockFeedbackBoardService{
		CreateFunc: func(ctx context.Context, userID int64, title, body string) (*models.Feedback, error) {
			return nil, models.ErrContentRejected
		},
	}

	handler := handlers.NewFeedbackHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodPost, "/api/feedbacks", handlers.CreateFeedbackRequest{
		Title: "This app is crap",
		Body:  "Honestly.",
	})
	req = handlers.WithAuthContext(req, 7)

	w := httptest.NewRecorder()
	handler.Create(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestCreateFeedback_MissingTitle(t *testing.T) {
	handler := handlers.NewFeedbackHandler(&handlers.MockFeedbackBoardService{})
	req := handlers.NewTestRequest(t, http.MethodPost, "/api/feedbacks", handlers.CreateFeedbackRequest{
		Body: "No title here.",
	})
	req = handlers.WithAuthContext(req, 7)

	w := httptest.NewRecorder()
	handler.Create(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestSetFeedbackStatus_Success(t *testing.T) {
	mockService := &handlers.MockFeedbackBoardService{
		SetStatusFunc: func(ctx context.Context, id int64, status string) (*models.Feedback, error) {
			return &models.Feedback{ID: id, Title: "Dark mode", Status: status, CreatedAt: time.Now()}, nil
		},
	}

	handler := handlers.NewFeedbackHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/feedbacks/1/status", handlers.FeedbackStatusRequest{
		Status: models.StatusInProgress,
	})
	req = handlers.WithAuthContext(req, 7)
	req = handlers.WithChiURLParam(req, "id", "1")

	w := httptest.NewRecorder()
	handler.SetStatus(w, req)

	var resp handlers.FeedbackResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "in_progress", resp.Status)
}

func TestSetFeedbackStatus_UnknownStatus(t *testing.T) {
	handler := handlers.NewFeedbackHandler(&handlers.MockFeedbackBoardService{})
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/feedbacks/1/status", handlers.FeedbackStatusRequest{
		Status: "done",
	})
	req = handlers.WithAuthContext(req, 7)
	req = handlers.WithChiURLParam(req, "id", "1")

	w := httptest.NewRecorder()
	handler.SetStatus(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestSetFeedbackStatus_NotFound(t *testing.T) {
	mockService := &handlers.MockFeedbackBoardService{
		SetStatusFunc: func(ctx context.Context, id int64, status string) (*models.Feedback, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewFeedbackHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/feedbacks/999/status", handlers.FeedbackStatusRequest{
		Status: models.StatusShipped,
	})
	req = handlers.WithAuthContext(req, 7)
	req = handlers.WithChiURLParam(req, "id", "999")

	w := httptest.NewRecorder()
	handler.SetStatus(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}
