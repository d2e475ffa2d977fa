package session

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier checks Firebase ID tokens. Admins carry a custom "role"
// claim set to "admin".
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin SDK. Credentials are
// taken from GOOGLE_APPLICATION_CREDENTIALS when opts is empty.
func NewFirebaseVerifier(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirebaseVerifier, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify implements Verifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Session, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("verify id token: %w", err)
	}
	s := Session{UserID: t.UID, Token: token, Role: "user"}
	if role, ok := t.Claims["role"].(string); ok && role != "" {
		s.Role = role
	}
	if email, ok := t.Claims["email"].(string); ok {
		s.Email = email
	}
	return s, nil
}
