package controllers

import (
	"net/http"

	"github.com/paperlane/circulation-backend/api/middleware"
	"github.com/paperlane/circulation-backend/api/responses"
	"github.com/paperlane/circulation-backend/api/validators"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/internal/users"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/paperlane/circulation-backend/pkg/logger"
	"gorm.io/gorm"
)

type registerDeviceRequest struct {
	Token string `json:"token" validate:"required"`
}

// RegisterDeviceToken stores the caller's FCM token. Distributer sessions
// write the distributer record; staff sessions write the user record.
func RegisterDeviceToken(userRepo users.Repository, distributerRepo distributers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerDeviceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := writeDeviceToken(r, userRepo, distributerRepo, &req.Token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "registered"})
	}
}

// RemoveDeviceToken clears the caller's FCM token, stopping push delivery
// to the device.
func RemoveDeviceToken(userRepo users.Repository, distributerRepo distributers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := writeDeviceToken(r, userRepo, distributerRepo, nil); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func writeDeviceToken(r *http.Request, userRepo users.Repository, distributerRepo distributers.Repository, token *string) error {
	ctx := r.Context()
	if distributerID := middleware.DistributerIDFromContext(ctx); distributerID != nil {
		if err := distributerRepo.UpdateFCMToken(ctx, *distributerID, token); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "distributer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update distributer token")
		}
		return nil
	}

	actorID := middleware.ActorIDFromContext(ctx)
	if err := userRepo.UpdateFCMToken(ctx, actorID, token); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user token")
	}
	return nil
}
