package api

import (
	"encoding/json"
	"log"
	"math"
	"net/http"

	"galeria-pdf/internal/auth"
	"galeria-pdf/internal/models"
)

// @Summary      Get current user info
// @Description  Retrieves information about the currently authenticated user from their JWT token.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  auth.AppClaims
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(claims)
}

type ProfileStats struct {
	TotalPdfs   int64 `json:"totalPDFs"`
	PublicPdfs  int64 `json:"publicPDFs"`
	PrivatePdfs int64 `json:"privatePDFs"`
	// Total storage in megabytes, rounded to two decimal places.
	TotalStorage float64 `json:"totalStorage"`
}

type ProfileResponse struct {
	User  *models.User `json:"user"`
	Stats ProfileStats `json:"stats"`
}

// @Summary      Get user profile with stats
// @Description  Returns the authenticated user's account data together with aggregate document statistics.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {string}  string "Unauthorized"
// @Failure      404  {string}  string "User not found"
// @Router       /users/profile [get]
func (s *Server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	stats, err := s.store.GetUserStats(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("ERROR: Failed to aggregate stats for user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to retrieve user stats", http.StatusInternalServerError)
		return
	}

	response := ProfileResponse{
		User: user,
		Stats: ProfileStats{
			TotalPdfs:    stats.TotalPdfs,
			PublicPdfs:   stats.PublicPdfs,
			PrivatePdfs:  stats.PrivatePdfs,
			TotalStorage: math.Round(float64(stats.TotalStorageBytes)/1024/1024*100) / 100,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      400  {string}  string "Current password is incorrect or new password too weak"
// @Failure      401  {string}  string "Unauthorized"
// @Router       /users/change-password [post]
func (s *Server) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 6 {
		http.Error(w, "New password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		http.Error(w, "Current password is incorrect", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.UpdateUserPassword(r.Context(), claims.UserID, hashedPassword); err != nil {
		log.Printf("ERROR: Failed to update password for user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password updated successfully"})
}
