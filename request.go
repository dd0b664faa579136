package zealgen

import "strings"

// DefaultMaxPages is the page budget used when none is given.
const DefaultMaxPages = 100

// GenerateRequest describes one docset generation.
type GenerateRequest struct {
	URLs     []string
	Output   string
	Rendered bool
	MaxPages int
}

// Validate returns an error if the request cannot be run.
// It performs no I/O.
func (r *GenerateRequest) Validate() error {
	if len(r.URLs) == 0 {
		return Errorf(EINVALID, "at least one URL required")
	}
	for _, u := range r.URLs {
		if strings.TrimSpace(u) == "" {
			return Errorf(EINVALID, "empty URL")
		}
	}
	if strings.TrimSpace(r.Output) == "" {
		return Errorf(EINVALID, "output path required")
	}
	if r.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative, got %d", r.MaxPages)
	}
	return nil
}
