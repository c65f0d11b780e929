package http

import (
	"net/http"

	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/domain/model/auth"
	"github.com/papyrus-lab/papyrus/pkg/usecase"
)

// authMiddleware resolves the request identity into the context. In
// no-authn mode every request runs as the configured fixed user;
// otherwise the token_id/token_secret cookie pair must validate.
func authMiddleware(authUC usecase.AuthUseCaseInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil || authUC.IsNoAuthn() {
				token, err := resolveToken(r, authUC)
				if err != nil {
					token = auth.NewAnonymousUser()
				}
				ctx := auth.ContextWithToken(r.Context(), token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token, err := resolveToken(r, authUC)
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveToken(r *http.Request, authUC usecase.AuthUseCaseInterface) (*auth.Token, error) {
	if authUC == nil {
		return auth.NewAnonymousUser(), nil
	}

	tokenIDCookie, err := r.Cookie("token_id")
	if err != nil {
		return nil, err
	}
	tokenSecretCookie, err := r.Cookie("token_secret")
	if err != nil {
		return nil, err
	}

	return authUC.ValidateToken(r.Context(),
		auth.TokenID(tokenIDCookie.Value),
		auth.TokenSecret(tokenSecretCookie.Value))
}

// requestUser extracts the request identity set by authMiddleware
func requestUser(r *http.Request) model.UserID {
	if token, ok := auth.TokenFromContext(r.Context()); ok {
		return model.UserID(token.Sub)
	}
	return ""
}
