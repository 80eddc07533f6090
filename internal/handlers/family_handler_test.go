package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
	"chitieu/internal/services"
)

type mockFamilyService struct {
	createFn  func(userID, name string) (*models.Family, error)
	joinFn    func(userID, inviteCode string) (*models.Family, error)
	leaveFn   func(userID string) error
	getFn     func(userID string) *models.Family
	membersFn func(userID string) []services.OwnerView
}

func (m *mockFamilyService) Create(userID, name string) (*models.Family, error) {
	if m.createFn != nil {
		return m.createFn(userID, name)
	}
	return &models.Family{Base: models.Base{ID: "f1"}, Name: name, InviteCode: "ABCD2345"}, nil
}

func (m *mockFamilyService) Join(userID, inviteCode string) (*models.Family, error) {
	if m.joinFn != nil {
		return m.joinFn(userID, inviteCode)
	}
	return &models.Family{Base: models.Base{ID: "f1"}}, nil
}

func (m *mockFamilyService) Leave(userID string) error {
	if m.leaveFn != nil {
		return m.leaveFn(userID)
	}
	return nil
}

func (m *mockFamilyService) Get(userID string) *models.Family {
	if m.getFn != nil {
		return m.getFn(userID)
	}
	return nil
}

func (m *mockFamilyService) Members(userID string) []services.OwnerView {
	if m.membersFn != nil {
		return m.membersFn(userID)
	}
	return []services.OwnerView{}
}

var _ services.FamilyServicer = (*mockFamilyService)(nil)

func setupFamilyRouter(handler *FamilyHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("u1"))
	auth.POST("/families", handler.CreateFamily)
	auth.POST("/families/join", handler.JoinFamily)
	auth.POST("/families/leave", handler.LeaveFamily)
	auth.GET("/families/me", handler.GetFamily)
	auth.GET("/families/members", handler.GetFamilyMembers)
	return r
}

func TestFamilyHandler_Create(t *testing.T) {
	r := setupFamilyRouter(NewFamilyHandler(&mockFamilyService{}))

	rec := doRequest(r, http.MethodPost, "/families", `{"name":"Nhà mình"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFamilyHandler_Join(t *testing.T) {
	t.Run("returns 404 for an unknown code", func(t *testing.T) {
		svc := &mockFamilyService{
			joinFn: func(_, _ string) (*models.Family, error) {
				return nil, apperrors.ErrFamilyNotFound
			},
		}
		r := setupFamilyRouter(NewFamilyHandler(svc))

		rec := doRequest(r, http.MethodPost, "/families/join", `{"invite_code":"NOPE9999"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		body := parseJSON(t, rec)
		errObj := body["error"].(map[string]interface{})
		if errObj["code"] != "FAMILY_NOT_FOUND" {
			t.Errorf("expected code FAMILY_NOT_FOUND, got %v", errObj["code"])
		}
	})
}

func TestFamilyHandler_Get(t *testing.T) {
	t.Run("returns null family when not in one", func(t *testing.T) {
		r := setupFamilyRouter(NewFamilyHandler(&mockFamilyService{}))

		rec := doRequest(r, http.MethodGet, "/families/me", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := parseJSON(t, rec)
		if body["family"] != nil {
			t.Errorf("expected null family, got %v", body["family"])
		}
	})
}
