package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const CookieName = "jwt"

// ErrNoCredential is the rejection reason for a carrier that was not present
// on the request.
var ErrNoCredential = errors.New("no credential on carrier")

// CredentialSource extracts a raw bearer token from one carrier of a request.
type CredentialSource interface {
	Name() string
	Token(r *http.Request) (string, bool)
}

type HeaderSource struct{}

func (HeaderSource) Name() string { return "header" }

func (HeaderSource) Token(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}

type CookieSource struct {
	Cookie string
}

func (CookieSource) Name() string { return "cookie" }

func (s CookieSource) Token(r *http.Request) (string, bool) {
	c, err := r.Cookie(s.Cookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

type TokenValidator interface {
	Ready() error
	ValidateToken(token string) (*CustomClaims, error)
}

// Result is the verdict of one carrier.
type Result struct {
	Source   string
	Accepted bool
	OwnerID  uuid.UUID
	Reason   error
}

// Outcome is the verdict of the whole chain. Attempts lists every carrier
// that was consulted, in order.
type Outcome struct {
	Accepted bool
	OwnerID  uuid.UUID
	Attempts []Result
}

// Verifier walks its sources in order and accepts the first carrier whose
// token validates. A rejected carrier never stops the walk.
type Verifier struct {
	tokens  TokenValidator
	sources []CredentialSource
}

func NewVerifier(tokens TokenValidator, sources ...CredentialSource) *Verifier {
	return &Verifier{tokens: tokens, sources: sources}
}

// NewDefaultVerifier checks the Authorization header first and the jwt cookie
// second.
func NewDefaultVerifier(tokens TokenValidator) *Verifier {
	return NewVerifier(tokens, HeaderSource{}, CookieSource{Cookie: CookieName})
}

// Verify returns an error only when the server cannot verify anything at all
// (ErrSigningKeyMissing). Client credential problems are reported through
// Outcome.Accepted == false.
func (v *Verifier) Verify(r *http.Request) (Outcome, error) {
	if err := v.tokens.Ready(); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Attempts: make([]Result, 0, len(v.sources))}
	for _, src := range v.sources {
		res := v.try(src, r)
		out.Attempts = append(out.Attempts, res)
		if res.Accepted {
			out.Accepted = true
			out.OwnerID = res.OwnerID
			return out, nil
		}
	}
	return out, nil
}

func (v *Verifier) try(src CredentialSource, r *http.Request) Result {
	res := Result{Source: src.Name()}
	token, ok := src.Token(r)
	if !ok {
		res.Reason = ErrNoCredential
		return res
	}
	claims, err := v.tokens.ValidateToken(token)
	if err != nil {
		res.Reason = err
		return res
	}
	res.Accepted = true
	res.OwnerID = claims.OwnerID
	return res
}
