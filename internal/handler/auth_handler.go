package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quicknotes/internal/domain"
	"quicknotes/internal/service"
	"quicknotes/pkg/response"
	"quicknotes/pkg/token"

	"github.com/go-playground/validator/v10"
)

// ProfileVerifier validates a provider-signed ID token and returns the
// profile it certifies.
type ProfileVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (domain.ProviderCredential, error)
}

type AuthHandler struct {
	auth     *service.AuthService
	issuer   *token.Issuer
	provider ProfileVerifier
	validate *validator.Validate
}

// NewAuthHandler builds the handler. provider may be nil when no OAuth
// provider is configured.
func NewAuthHandler(auth *service.AuthService, issuer *token.Issuer, provider ProfileVerifier) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		issuer:   issuer,
		provider: provider,
		validate: validator.New(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.auth.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(w, "Email already registered")
			return
		}
		log.Printf("signup failed: %v", err)
		response.InternalError(w, "Failed to create user")
		return
	}

	response.Created(w, domain.SignupResponse{ID: user.ID, Email: user.Email})
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IDToken  string `json:"id_token"`
}

// Authenticate handles POST /auth. A body carrying id_token goes through
// the provider path; otherwise email and password are expected.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if req.IDToken != "" {
		h.authenticateProvider(w, r, req.IDToken)
		return
	}

	login := domain.LoginRequest{Email: req.Email, Password: req.Password}
	if err := h.validate.Struct(login); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	identity, err := h.auth.Authenticate(r.Context(), domain.PasswordCredential{
		Email:    login.Email,
		Password: login.Password,
	})
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.issueToken(w, identity)
}

// Callback handles GET /auth, the provider redirect target carrying the ID
// token in the query string.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	rawIDToken := r.URL.Query().Get("id_token")
	if rawIDToken == "" {
		response.BadRequest(w, "Missing id_token")
		return
	}

	h.authenticateProvider(w, r, rawIDToken)
}

func (h *AuthHandler) authenticateProvider(w http.ResponseWriter, r *http.Request, rawIDToken string) {
	if h.provider == nil {
		response.BadRequest(w, "Provider login is not configured")
		return
	}

	cred, err := h.provider.Verify(r.Context(), rawIDToken)
	if err != nil {
		response.Unauthorized(w, "Invalid provider token")
		return
	}

	identity, err := h.auth.Authenticate(r.Context(), cred)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.issueToken(w, identity)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, identity *domain.Identity) {
	signed, err := h.issuer.Issue(identity)
	if err != nil {
		log.Printf("failed to issue session token: %v", err)
		response.InternalError(w, "Failed to issue session token")
		return
	}

	response.Success(w, domain.TokenResponse{
		Token:     signed,
		ExpiresIn: int64(h.issuer.TTL().Seconds()),
	})
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		// one message for wrong password and unknown account alike
		response.Unauthorized(w, "Invalid credentials")
		return
	}

	log.Printf("authentication failed: %v", err)
	response.InternalError(w, "Authentication failed")
}
