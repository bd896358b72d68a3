package security

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Messenger signs every webhook delivery with an HMAC-SHA1 of the raw body,
// carried in the x-hub-signature header as "sha1=<hexdigest>".
const signatureMethod = "sha1"

var (
	// ErrMissingSignature is returned when the header is absent. Unsigned
	// requests are rejected the same way as badly signed ones.
	ErrMissingSignature = errors.New("missing x-hub-signature header")

	// ErrInvalidSignature is returned when the digest does not match the
	// HMAC of the body under the configured app secret.
	ErrInvalidSignature = errors.New("invalid request signature")
)

// Verifier authenticates raw webhook bodies against the shared app secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given app secret.
func NewVerifier(appSecret string) *Verifier {
	return &Verifier{secret: []byte(appSecret)}
}

// Verify checks the x-hub-signature header value against the HMAC-SHA1 of
// body. It returns nil only when the digests match; any failure must abort
// processing of the request before the body is parsed or dispatched.
func (v *Verifier) Verify(body []byte, header string) error {
	if header == "" {
		return ErrMissingSignature
	}

	method, digest, ok := strings.Cut(header, "=")
	if !ok {
		return fmt.Errorf("%w: malformed header %q", ErrInvalidSignature, header)
	}
	if method != signatureMethod {
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidSignature, method)
	}

	mac := hmac.New(sha1.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(digest), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the header value for a body, e.g. for tests and local tools.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha1.New, v.secret)
	mac.Write(body)
	return signatureMethod + "=" + hex.EncodeToString(mac.Sum(nil))
}
