package errors

import "unicode"

// ValidateID validates an element, lane, or flow identifier.
// Identifiers travel into XML attributes and cache keys, so the rules
// are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidModel, "id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidModel, "id too long (max 256 characters): %q", id[:32]+"...")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidModel, "id contains invalid characters: %q", id)
		}
	}

	return nil
}
