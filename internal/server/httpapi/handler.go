package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/services"
)

type placeResponse struct {
	Place *models.Place `json:"place"`
}

type placesResponse struct {
	Places []*models.Place `json:"places"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

type usersResponse struct {
	Users []*models.User `json:"users"`
}

func (s *HTTPServer) getPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := s.places.GetByID(ctx, chi.URLParam(r, "pid"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, s.logger, w, http.StatusOK, placeResponse{Place: p})
}

func (s *HTTPServer) listPlacesByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := s.places.ListByUser(ctx, chi.URLParam(r, "uid"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if len(list) == 0 {
		writeMessage(ctx, s.logger, w, http.StatusNotFound, msgNoPlacesForUser)
		return
	}
	writeJSON(ctx, s.logger, w, http.StatusOK, placesResponse{Places: list})
}

func (s *HTTPServer) createPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createPlaceRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	p, err := s.places.Create(ctx, services.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		CreatorID:   req.Creator,
		Image:       req.Image,
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, s.logger, w, http.StatusCreated, placeResponse{Place: p})
}

func (s *HTTPServer) updatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updatePlaceRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	p, err := s.places.Update(ctx, chi.URLParam(r, "pid"), req.Title, req.Description)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, s.logger, w, http.StatusOK, placeResponse{Place: p})
}

func (s *HTTPServer) deletePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.places.Delete(ctx, chi.URLParam(r, "pid")); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeMessage(ctx, s.logger, w, http.StatusOK, "Deleted place.")
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := s.users.List(ctx)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if list == nil {
		list = []*models.User{}
	}
	writeJSON(ctx, s.logger, w, http.StatusOK, usersResponse{Users: list})
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signupRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	u, err := s.users.Signup(ctx, services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    req.Image,
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, s.logger, w, http.StatusCreated, userResponse{User: u})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if _, err := s.users.Login(ctx, req.Email, req.Password); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeMessage(ctx, s.logger, w, http.StatusOK, "Logged in.")
}

func (s *HTTPServer) presignImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req uploadRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	target, err := s.images.PresignUpload(ctx, req.Kind)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, s.logger, w, http.StatusCreated, target)
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error(ctx, "health check failed", "error", err)
		writeJSON(ctx, s.logger, w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(ctx, s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}
