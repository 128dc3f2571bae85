package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reydisse/Wordcloud/internal/models"
)

// ErrInvalidToken is returned when an ID token fails verification
var ErrInvalidToken = errors.New("invalid ID token")

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint
// and extracts the presenter principal.
type GoogleVerifier struct {
	clientID   string
	httpClient *http.Client
	baseURL    string
}

type tokenInfo struct {
	Audience string `json:"aud"`
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Expires  string `json:"exp"`
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	if clientID == "" {
		log.Fatal("GOOGLE_CLIENT_ID is required")
	}

	log.Println("google verifier initialized")

	return &GoogleVerifier{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    googleTokenInfoURL,
	}
}

// Verify checks an ID token and returns the authenticated principal
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*models.Principal, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	endpoint := v.baseURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if info.Audience != v.clientID {
		log.Printf("❌ Token audience mismatch: %s", info.Audience)
		return nil, ErrInvalidToken
	}

	if exp, err := strconv.ParseInt(info.Expires, 10, 64); err == nil {
		if time.Now().After(time.Unix(exp, 0)) {
			return nil, ErrInvalidToken
		}
	}

	return &models.Principal{
		UID:         info.Subject,
		DisplayName: info.Name,
		Email:       info.Email,
		PhotoURL:    info.Picture,
	}, nil
}
