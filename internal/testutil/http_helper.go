package testutil

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	"github.com/limitedgamerz39-afk/friendflix/internal/utils"
)

// HTTPHelper provides a robust way to make HTTP requests in tests.
// It enforces error checking and provides a fluent API for building requests.
type HTTPHelper struct {
	t   *testing.T
	app *fiber.App
}

// NewHTTPHelper creates a new test helper for a given Fiber app.
func NewHTTPHelper(t *testing.T, app *fiber.App) *HTTPHelper {
	require.NotNil(t, app, "Fiber app provided to HTTPHelper cannot be nil")
	return &HTTPHelper{t: t, app: app}
}

// Request represents a test request under construction.
type Request struct {
	helper     *HTTPHelper
	method     string
	path       string
	bodyReader io.Reader
	headers    http.Header
}

// NewRequest begins building a new test request. It centralizes body marshaling.
func (h *HTTPHelper) NewRequest(method, path string, body interface{}) *Request {
	var bodyBytes []byte
	if body != nil {
		switch b := body.(type) {
		case []byte:
			bodyBytes = b
		case string:
			bodyBytes = []byte(b)
		default:
			jsonBytes, err := json.Marshal(body)
			require.NoError(h.t, err, "Failed to marshal request body to JSON")
			bodyBytes = jsonBytes
		}
	}

	req := &Request{
		helper:     h,
		method:     method,
		path:       path,
		bodyReader: bytes.NewReader(bodyBytes),
		headers:    make(http.Header),
	}
	if body != nil {
		req.WithHeader(types.HeaderContentType, "application/json")
	}
	return req
}

// WithHeader adds a header to the request.
func (r *Request) WithHeader(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

// WithJWTAuth adds the token as Authorization: Bearer header.
func (r *Request) WithJWTAuth(token string) *Request {
	return r.WithHeader(types.HeaderAuthorization, types.BearerPrefix+token)
}

// AsMultipartForm configures the request to be sent as multipart/form-data.
// Each file is written with the given filename and content type.
func (r *Request) AsMultipartForm(formData map[string]string, files map[string]File) *Request {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	for key, val := range formData {
		_ = writer.WriteField(key, val)
	}

	for key, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, file.Name))
		header.Set(types.HeaderContentType, file.ContentType)
		part, err := writer.CreatePart(header)
		require.NoError(r.helper.t, err)
		_, _ = part.Write(file.Data)
	}

	require.NoError(r.helper.t, writer.Close())

	r.bodyReader = bytes.NewReader(body.Bytes())
	r.WithHeader(types.HeaderContentType, writer.FormDataContentType())
	return r
}

// File is one multipart file part.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Send executes the request and returns the response.
func (r *Request) Send() *http.Response {
	req := httptest.NewRequest(r.method, r.path, r.bodyReader)
	req.Header = r.headers

	resp, err := r.helper.app.Test(req, int(10*time.Second.Milliseconds()))
	require.NoError(r.helper.t, err, "app.Test should not return an error")
	require.NotNil(r.helper.t, resp, "app.Test response should not be nil")
	return resp
}

// DecodeJSON reads the response body into out.
func DecodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// CreateTestUserContext creates a test user context for testing purposes.
func CreateTestUserContext(uid string) types.UserContext {
	userID, _ := uuid.FromString(uid)
	return types.UserContext{
		UserID:      userID,
		Username:    "test@example.com",
		DisplayName: "Test User",
		SocialName:  "testuser",
		SystemRole:  types.UserRole,
		CreatedDate: time.Now().Unix(),
	}
}

// NewUserContext returns a test user with a fresh id.
func NewUserContext() types.UserContext {
	return CreateTestUserContext(uuid.Must(uuid.NewV4()).String())
}

// GenerateTestJWT creates a signed test JWT token carrying userCtx under the claim key.
func GenerateTestJWT(privateKeyPEM string, userCtx types.UserContext) (string, error) {
	claims := utils.TokenClaims{
		Claim: map[string]interface{}{
			types.HeaderUID: userCtx.UserID.String(),
			"username":      userCtx.Username,
			"displayName":   userCtx.DisplayName,
			"avatar":        userCtx.Avatar,
			"role":          userCtx.SystemRole,
			"socialName":    userCtx.SocialName,
			"banner":        userCtx.Banner,
			"tagLine":       userCtx.TagLine,
			"createdDate":   userCtx.CreatedDate,
		},
	}

	token, err := utils.GenerateJWTToken([]byte(privateKeyPEM), claims, 1)
	if err != nil {
		return "", fmt.Errorf("failed to generate test JWT: %w", err)
	}
	return token, nil
}

// GenerateECDSAKeyPairPEM generates valid ECDSA key pairs for testing.
// Returns (publicKeyPEM, privateKeyPEM) as strings.
func GenerateECDSAKeyPairPEM(t *testing.T) (string, string) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err, "Failed to generate ECDSA private key")

	privBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err, "Failed to marshal ECDSA private key")
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})

	pubBytes, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err, "Failed to marshal ECDSA public key")
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})

	return string(pubPEM), string(privPEM)
}
