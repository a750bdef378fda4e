package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

var errInvalidBody = errors.New("invalid request body")

func RegisterHandler(svc Service, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := RegisterRequest{}
		if err := decodeRequest(r.Body, &req); err != nil {
			encodeError(err, w, log)
			return
		}

		id, err := svc.Register(r.Context(), req)
		if err != nil {
			encodeError(err, w, log)
			return
		}

		log.Debug("identity registered", zap.String("id", string(id)))
		writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "User registered successfully"})
	})
}

func LoginHandler(svc Service, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := LoginRequest{}
		if err := decodeRequest(r.Body, &req); err != nil {
			encodeError(err, w, log)
			return
		}

		token, err := svc.Login(r.Context(), req)
		if err != nil {
			encodeError(err, w, log)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"token": token})
	})
}

func encodeError(err error, w http.ResponseWriter, log *zap.Logger) {
	var violations Violations
	switch {
	case errors.As(err, &violations):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": violations})
	case errors.Is(err, errInvalidBody):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid request body"})
	case errors.Is(err, ErrExistingName):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "User already exists"})
	case errors.Is(err, ErrInvalidData):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid data"})
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"error": "Invalid credentials"})
	default:
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Internal server error"})
	}
}

// decodeRequest reads a JSON object into dst. An empty body counts as {}.
func decodeRequest(body io.Reader, dst interface{}) error {
	if body == nil {
		return nil
	}
	err := json.NewDecoder(body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidBody
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
