package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/server/services"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type createPlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"min=5"`
	Address     string `json:"address" validate:"required"`
	Creator     string `json:"creator" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"min=5"`
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	Image    string `json:"image" validate:"omitempty,url"`
}

func (r *signupRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = services.NormalizeEmail(r.Email)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type uploadRequest struct {
	Kind string `json:"kind" validate:"required,oneof=place user"`
}

// decodeAndValidate reads a JSON body into dst and checks its validate
// tags. Both malformed JSON and failed rules wrap common.ErrorValidation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", common.ErrorValidation, err)
	}
	if n, ok := dst.(interface{ normalize() }); ok {
		n.normalize()
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}
