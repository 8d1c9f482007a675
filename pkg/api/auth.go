package api

import (
	"errors"
	"net/http"

	"github.com/stockroomd/stockroom/internal/core/domain"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		writeDomainError(w, err)
		return
	}

	user := domain.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.CreateUser(r.Context(), &user); err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info("user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	user, err := s.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same response as a bad password, so usernames can't be probed.
			writeDomainError(w, domain.ErrInvalidCredentials)
			return
		}
		writeDomainError(w, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeDomainError(w, domain.ErrInvalidCredentials)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("issuing token", "username", user.Username, "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Username: user.Username,
		Role:     string(user.Role),
	})
}
