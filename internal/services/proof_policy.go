package services

import (
	"errors"
	"strings"
)

var (
	ErrContentRequired = errors.New("description required")
	ErrProofRequired   = errors.New("proof image required")
	ErrProofType       = errors.New("invalid proof file type")
)

var allowedProofExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

func ValidateCheckInContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", ErrContentRequired
	}
	return content, nil
}

// ValidateProofFilename returns the lowercased extension of an allowed proof
// image name, without the dot.
func ValidateProofFilename(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", ErrProofRequired
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 || dot == len(name)-1 {
		return "", ErrProofType
	}

	extension := strings.ToLower(name[dot+1:])
	if !allowedProofExtensions[extension] {
		return "", ErrProofType
	}
	return extension, nil
}
