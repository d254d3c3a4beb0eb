package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

var ErrInvalidIDToken = errors.New("invalid or revoked ID token")

// Identity is what a verified Google sign-in tells us about the caller.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

func NewFirebaseVerifier(ctx context.Context, projectID, credentialsJSON string) (*FirebaseVerifier, error) {
	if projectID == "" || credentialsJSON == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID and FIREBASE_CREDENTIALS_JSON must be set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if token.Audience != v.projectID {
		return nil, fmt.Errorf("%w: audience %q", ErrInvalidIDToken, token.Audience)
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrInvalidIDToken)
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return &Identity{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}

// DisabledVerifier rejects every token. It stands in when Firebase is not
// configured so the rest of the API can still run.
type DisabledVerifier struct{}

func (DisabledVerifier) Verify(context.Context, string) (*Identity, error) {
	return nil, fmt.Errorf("%w: google sign-in is not configured", ErrInvalidIDToken)
}
