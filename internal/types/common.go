package types

import "github.com/gofrs/uuid"

// HTTP Header Constants
const (
	HeaderUID           = "uid"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "
	// UserCtxName is the fiber locals key holding the authenticated UserContext.
	UserCtxName = "user"
	// ClaimKey is the JWT claim carrying the user payload.
	ClaimKey = "claim"
)

// Common Values
const (
	UserRole  = "user"
	AdminRole = "admin"
)

// UserContext is the authenticated caller as decoded from the access token.
type UserContext struct {
	UserID      uuid.UUID `json:"uid"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	SocialName  string    `json:"socialName"`
	Avatar      string    `json:"avatar"`
	Banner      string    `json:"banner"`
	TagLine     string    `json:"tagLine"`
	SystemRole  string    `json:"role"`
	CreatedDate int64     `json:"createdDate"`
}

// Name is the label used in notification text.
func (u UserContext) Name() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.SocialName != "":
		return u.SocialName
	case u.Username != "":
		return u.Username
	}
	return "Someone"
}

// PageResult is the standard pagination envelope counterpart for list endpoints.
type PageResult struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
}

// NewPageResult computes the page count for total items at the given limit.
func NewPageResult(page, limit int, total int64) PageResult {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageResult{CurrentPage: page, TotalPages: pages, Total: total}
}

// NormalizePage clamps page and limit into usable values.
func NormalizePage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
