package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Report download tokens are self-contained: jobID, expiry and the stored
// file path travel inside the token so the download endpoint needs no bearer
// auth. Wire format is "jobID.expiryUnix.base64Path.hexSignature".
const tokenParts = 4

// SignedURLSigner mints and verifies report download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a download token for the report job's stored file.
func (s *SignedURLSigner) Generate(jobID, relPath string) (string, time.Time, error) {
	if jobID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("jobID and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	expiry := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	signature := s.sign(jobID, expiry, encodedPath)
	token := strings.Join([]string{jobID, expiry, encodedPath, signature}, ".")
	return token, expiresAt, nil
}

// Parse verifies a download token and returns the job ID, stored file path
// and expiry it carries. allowExpired skips the expiry check; the cleanup
// loop uses it to resolve file paths of reports past their TTL.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	fields := strings.Split(token, ".")
	if len(fields) != tokenParts {
		return "", "", time.Time{}, fmt.Errorf("invalid token format")
	}
	jobID, expiry, encodedPath, signature := fields[0], fields[1], fields[2], fields[3]

	if !hmac.Equal([]byte(s.sign(jobID, expiry, encodedPath)), []byte(signature)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}

	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode path: %w", err)
	}

	expUnix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid timestamp")
	}
	expiresAt = time.Unix(expUnix, 0)
	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}
	return jobID, string(rawPath), expiresAt, nil
}

func (s *SignedURLSigner) sign(jobID, expiry, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", jobID, expiry, encodedPath)
	return hex.EncodeToString(mac.Sum(nil))
}
