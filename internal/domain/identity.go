package domain

// Identity is the authenticated principal derived from a credential,
// independent of transport. It is never persisted; the session issuer
// carries it inside token claims.
type Identity struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Credential is one way of proving who you are. The two implementations
// cover the password form and the externally verified provider profile.
type Credential interface {
	credential()
}

type PasswordCredential struct {
	Email    string
	Password string
}

func (PasswordCredential) credential() {}

// ProviderCredential is a profile certified by an external OAuth provider.
// Verification of the provider's signature happens before one of these is
// constructed; the authenticator trusts it as-is.
type ProviderCredential struct {
	Email   string
	Name    string
	Picture string
}

func (ProviderCredential) credential() {}
