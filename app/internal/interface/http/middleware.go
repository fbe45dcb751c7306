package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domres "example.com/storefront/app/internal/domain/reservation"
	domuser "example.com/storefront/app/internal/domain/user"
)

type ctxKey int

const (
	ctxUserKey ctxKey = iota
	ctxOwnerKey
)

const (
	sessionHeader     = "X-Session-ID"
	sessionCookieName = "cart_session"
	sessionCookieAge  = 30 * 24 * time.Hour
	maxSessionIDLen   = 64
)

var (
	errUnauthenticated = errors.New("unauthenticated")
	errForbidden       = errors.New("forbidden")
	errInternal        = errors.New("internal server error")
)

type authUser struct {
	UserID   int64
	RoleCode domuser.RoleCode
	Email    string
	Name     string
}

// bearerUser returns the caller from the Authorization header. present is
// false when no bearer token was sent at all.
func (a *API) bearerUser(r *http.Request) (user *authUser, present bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	claims, err := a.tokenSvc.ParseToken(token)
	if err != nil {
		return nil, true
	}
	return &authUser{
		UserID:   claims.UserID,
		RoleCode: claims.RoleCode,
		Email:    claims.Email,
		Name:     claims.Name,
	}, true
}

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := a.bearerUser(r)
		if user == nil {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerMiddleware resolves who a cart belongs to: the signed-in user, or
// else the anonymous session. A session id is minted when the client has
// none yet.
func (a *API) ownerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, present := a.bearerUser(r)
		switch {
		case user != nil:
			ctx = context.WithValue(ctx, ctxUserKey, user)
			ctx = context.WithValue(ctx, ctxOwnerKey, domres.UserOwner(user.UserID))
		case present:
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		default:
			sid := sessionFromRequest(r)
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(sessionCookieAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(sessionHeader, sid)
			ctx = context.WithValue(ctx, ctxOwnerKey, domres.SessionOwner(sid))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromRequest(r *http.Request) string {
	sid := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sid == "" {
		if c, err := r.Cookie(sessionCookieName); err == nil {
			sid = strings.TrimSpace(c.Value)
		}
	}
	if len(sid) > maxSessionIDLen {
		return ""
	}
	return sid
}

func (a *API) requireRoles(roles ...domuser.RoleCode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getAuthUser(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, errUnauthenticated)
				return
			}
			for _, role := range roles {
				if user.RoleCode == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, errForbidden)
		})
	}
}

func (a *API) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			a.logger.Info("http request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

func getAuthUser(ctx context.Context) *authUser {
	if user, ok := ctx.Value(ctxUserKey).(*authUser); ok {
		return user
	}
	return nil
}

func getOwner(ctx context.Context) (domres.Owner, bool) {
	owner, ok := ctx.Value(ctxOwnerKey).(domres.Owner)
	return owner, ok
}
