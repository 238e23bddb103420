package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/limitedgamerz39-afk/friendflix/profile/models"
)

const (
	socialNameMinLength = 3
	socialNameMaxLength = 50
	fullNameMaxLength   = 100
	urlMaxLength        = 500
	tagLineMaxLength    = 500
)

var (
	// letters, digits and _ . - inside; alphanumeric at both ends
	socialNamePattern       = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_.-]*[a-zA-Z0-9])?$`)
	consecutiveSpecialChars = regexp.MustCompile(`[_.-]{2,}`)
)

func ValidateUpdateProfileRequest(req *models.UpdateProfileRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	if req.Empty() {
		return fmt.Errorf("at least one field is required")
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return fmt.Errorf("fullName cannot be empty or whitespace only")
		}
		if len(*req.FullName) > fullNameMaxLength {
			return fmt.Errorf("fullName cannot exceed %d characters", fullNameMaxLength)
		}
	}

	if req.SocialName != nil {
		if err := ValidateSocialName(*req.SocialName); err != nil {
			return fmt.Errorf("socialName validation failed: %w", err)
		}
	}

	if err := validateOptionalURL("avatar", req.Avatar); err != nil {
		return err
	}
	if err := validateOptionalURL("banner", req.Banner); err != nil {
		return err
	}

	if req.TagLine != nil && len(*req.TagLine) > tagLineMaxLength {
		return fmt.Errorf("tagLine cannot exceed %d characters", tagLineMaxLength)
	}

	return nil
}

// ValidateSocialName enforces 3-50 characters of letters, digits, underscores, hyphens
// and periods, alphanumeric at both ends, no spaces and no runs of special characters.
func ValidateSocialName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("social name cannot be empty")
	}
	if strings.Contains(name, " ") {
		return fmt.Errorf("social name cannot contain spaces")
	}
	if len(trimmed) < socialNameMinLength {
		return fmt.Errorf("social name must be at least %d characters", socialNameMinLength)
	}
	if len(trimmed) > socialNameMaxLength {
		return fmt.Errorf("social name cannot exceed %d characters", socialNameMaxLength)
	}
	if consecutiveSpecialChars.MatchString(trimmed) {
		return fmt.Errorf("social name cannot contain consecutive special characters")
	}
	if !socialNamePattern.MatchString(trimmed) {
		return fmt.Errorf("social name must start and end with alphanumeric characters and can only contain letters, numbers, underscores, hyphens, and periods")
	}
	return nil
}

// empty clears the field
func validateOptionalURL(field string, value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	if !isValidURL(*value) {
		return fmt.Errorf("invalid %s URL format", field)
	}
	if len(*value) > urlMaxLength {
		return fmt.Errorf("%s URL cannot exceed %d characters", field, urlMaxLength)
	}
	return nil
}

func isValidURL(urlStr string) bool {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
