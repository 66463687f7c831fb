package health

import (
	"time"

	"contractorreg-backend/internal/extract"
)

// Banner is the plain-text body served at the root path.
const Banner = "ContractorReg backend is running"

// Service reports liveness of the process.
type Service struct {
	started time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{started: time.Now()}
}

// Status returns the health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":               true,
		"uptimeSeconds":    int64(time.Since(s.started).Seconds()),
		"supportedFormats": []string{extract.ExtPDF, extract.ExtDOCX},
	}
}
