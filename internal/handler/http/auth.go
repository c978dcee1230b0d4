package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
)

type AuthService interface {
	// Register creates new user with hashed password and returns it with a fresh token
	Register(ctx context.Context, user *models.User, password string) (*models.User, string, error)
	// Login verifies credentials and returns the user with a fresh token
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type UserService interface {
	// GetUser returns user by id
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthHandler represents HTTP handler for auth-related requests
type AuthHandler struct {
	svc   AuthService
	users UserService
}

// NewAuthHandler creates new AuthHandler instance
func NewAuthHandler(svc AuthService, users UserService) *AuthHandler {
	return &AuthHandler{
		svc:   svc,
		users: users,
	}
}

type userResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Role         string          `json:"role"`
	Address      *models.Address `json:"address"`
	RewardPoints int             `json:"rewardPoints"`

	RestaurantName string   `json:"restaurantName,omitempty"`
	Cuisine        []string `json:"cuisine,omitempty"`
	VehicleType    string   `json:"vehicleType,omitempty"`
	LicensePlate   string   `json:"licensePlate,omitempty"`

	CreatedAt string `json:"createdAt"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           user.Role,
		Address:        user.Address,
		RewardPoints:   user.RewardPoints,
		RestaurantName: user.RestaurantName,
		Cuisine:        user.Cuisine,
		VehicleType:    user.VehicleType,
		LicensePlate:   user.LicensePlate,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}

type registerRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Phone          string          `json:"phone"`
	Role           string          `json:"role"`
	Address        *models.Address `json:"address"`
	RestaurantName string          `json:"restaurantName"`
	Cuisine        []string        `json:"cuisine"`
	VehicleType    string          `json:"vehicleType"`
	LicensePlate   string          `json:"licensePlate"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// RegisterUser registers a new user
// 201 — user created;
// 400 — missing fields or password too short;
// 409 — email already registered;
// 500 — internal server error.
func (ah *AuthHandler) RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Name == "" || req.Email == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "please provide all fields")
			return
		}

		user := models.User{
			Name:           req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			Role:           req.Role,
			Address:        req.Address,
			RestaurantName: req.RestaurantName,
			Cuisine:        req.Cuisine,
			VehicleType:    req.VehicleType,
			LicensePlate:   req.LicensePlate,
		}

		created, token, err := ah.svc.Register(r.Context(), &user, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, authResponse{
			Token: token,
			User:  newUserResponse(created),
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser authenticates a user
// 200 — authenticated;
// 400 — missing email or password;
// 401 — invalid credentials;
// 500 — internal server error.
func (ah *AuthHandler) LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Email == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "please provide email and password")
			return
		}

		user, token, err := ah.svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			Token: token,
			User:  newUserResponse(user),
		})
	}
}

// Me returns the authenticated user
func (ah *AuthHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := ah.users.GetUser(r.Context(), payload.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}
