package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// StaffAuth gates the staff console. With a Firebase project configured it
// verifies ID tokens; otherwise it falls back to comparing a static admin
// token. With neither configured every request is rejected.
type StaffAuth struct {
	authClient *auth.Client
	adminToken string
}

func NewStaffAuth(ctx context.Context, firebaseProjectID, adminToken string) (*StaffAuth, error) {
	m := &StaffAuth{adminToken: adminToken}
	if firebaseProjectID == "" {
		return m, nil
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: firebaseProjectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	m.authClient = client
	return m, nil
}

func (m *StaffAuth) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")

		if m.authClient != nil {
			token, err := m.authClient.VerifyIDToken(c.Request().Context(), tokenStr)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
			}
			c.Set("uid", token.UID)
			return next(c)
		}
		if m.adminToken != "" && subtle.ConstantTimeCompare([]byte(tokenStr), []byte(m.adminToken)) == 1 {
			return next(c)
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
}
