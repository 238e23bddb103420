package validation

import (
	"strings"
	"unicode/utf8"

	postsErrors "github.com/limitedgamerz39-afk/friendflix/posts/errors"
	"github.com/limitedgamerz39-afk/friendflix/posts/models"
)

// NormalizeCreatePostRequest applies defaults and checks the reference shape and field
// lengths. Media existence is checked by the service.
func NormalizeCreatePostRequest(req *models.CreatePostRequest) error {
	if req == nil {
		return postsErrors.Validationf("request is required")
	}

	req.Caption = strings.TrimSpace(req.Caption)
	if req.MediaID != "" && len(req.MediaIDs) > 0 {
		return postsErrors.Validationf("Cannot provide both mediaId and mediaIds")
	}
	if req.MediaID == "" && len(req.MediaIDs) == 0 && req.Caption == "" {
		return postsErrors.Validationf("Caption is required for text-only posts")
	}
	seen := make(map[string]struct{}, len(req.MediaIDs))
	for _, id := range req.MediaIDs {
		if strings.TrimSpace(id) == "" {
			return postsErrors.Validationf("mediaIds cannot contain empty ids")
		}
		if _, dup := seen[id]; dup {
			return postsErrors.Validationf("mediaIds cannot contain duplicates")
		}
		seen[id] = struct{}{}
	}

	if utf8.RuneCountInString(req.Caption) > models.MaxCaptionLength {
		return postsErrors.Validationf("caption cannot exceed %d characters", models.MaxCaptionLength)
	}
	if utf8.RuneCountInString(req.Title) > models.MaxTitleLength {
		return postsErrors.Validationf("title cannot exceed %d characters", models.MaxTitleLength)
	}
	if utf8.RuneCountInString(req.Description) > models.MaxDescriptionLength {
		return postsErrors.Validationf("description cannot exceed %d characters", models.MaxDescriptionLength)
	}

	if req.PostType == "" {
		req.PostType = models.PostTypePost
	}
	if !req.PostType.Valid() {
		return postsErrors.Validationf("invalid postType %q", req.PostType)
	}
	if req.Category == "" {
		req.Category = models.CategoryOther
	}
	if !req.Category.Valid() {
		return postsErrors.Validationf("invalid category %q", req.Category)
	}
	if req.Duration != nil && *req.Duration < 0 {
		return postsErrors.Validationf("duration cannot be negative")
	}
	return nil
}

func ValidateComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", postsErrors.Validationf("Comment text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return "", postsErrors.Validationf("comment cannot exceed %d characters", models.MaxCommentLength)
	}
	return text, nil
}
