package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/jimiolaniyan/accounts"
	"github.com/jimiolaniyan/accounts/auth"
	"github.com/jimiolaniyan/accounts/logger"
)

func newRouter(svc auth.Service, tokens auth.TokenVerifier, log *zap.Logger) http.Handler {
	router := httprouter.New()
	router.Handler(http.MethodPost, "/register", auth.RegisterHandler(svc, log))
	router.Handler(http.MethodPost, "/login", auth.LoginHandler(svc, log))
	router.Handler(http.MethodGet, "/", auth.RequireAuth(tokens, accounts.DirectoryHandler(accounts.Directory(), log)))
	router.GlobalOPTIONS = http.HandlerFunc(preflight)

	return logger.Middleware(log)(allowAnyOrigin(router))
}

// allowAnyOrigin sets the CORS origin header on every response.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Access-Control-Request-Method") == "" {
		return
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
	if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
		h.Set("Access-Control-Allow-Headers", req)
		h.Add("Vary", "Access-Control-Request-Headers")
	}
	w.WriteHeader(http.StatusNoContent)
}
