package oauth

import (
	"context"
	"fmt"

	"quicknotes/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
)

// GoogleIssuer is the OIDC issuer for Google accounts.
const GoogleIssuer = "https://accounts.google.com"

// Verifier checks provider-signed ID tokens and extracts the profile this
// subsystem consumes. The provider's own token exchange happens on the
// client; only its result reaches us, and we do not trust it unverified.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

type profileClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verify validates rawIDToken's signature, audience and expiry against the
// provider's published keys and returns the certified profile.
func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (domain.ProviderCredential, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return domain.ProviderCredential{}, fmt.Errorf("failed to verify id token: %w", err)
	}

	var claims profileClaims
	if err := idToken.Claims(&claims); err != nil {
		return domain.ProviderCredential{}, fmt.Errorf("failed to parse id token claims: %w", err)
	}
	if claims.Email == "" {
		return domain.ProviderCredential{}, fmt.Errorf("id token carries no email claim")
	}

	return domain.ProviderCredential{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
