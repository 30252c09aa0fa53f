package models

// Kind of token kept in the token store.
// Values are the literal storage keys and must stay compatible with existing stores.
type TokenKind string

const (
	AccessToken  TokenKind = "accessToken"
	RefreshToken TokenKind = "refreshToken"
)

// Token pair issued by the backend on login or refresh
type TokenPair struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

// Credentials are forwarded to the backend and never persisted
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
