package service

import (
	"os"
	"path/filepath"
)

// DefaultSampleDir is where WriteSamples puts documents when no directory is given.
var DefaultSampleDir = filepath.Join("data", "sample_docs")

var sampleDocs = []struct {
	name string
	text string
}{
	{"ticket_001.txt", "Payment service failing intermittently for EU users. Error code: PAY-502. Timeouts seen in gateway."},
	{"ticket_002.txt", "Dashboard not loading for user in APAC. Frontend 503 and image assets failing to load."},
	{"runbook_001.txt", "Runbook: How to restart payment gateway. Step 1: check pods. Step 2: restart service."},
	{"incident_001.txt", "Past incident: gateway throttling during peak. Root cause: misconfigured rate limiter."},
	{"faq_001.txt", "FAQ: Common errors and what they mean. PAY-502 indicates upstream timeout."},
}

// WriteSamples writes a small set of synthetic support documents into dir
// and returns their paths.
func WriteSamples(dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultSampleDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(sampleDocs))
	for _, doc := range sampleDocs {
		p := filepath.Join(dir, doc.name)
		if err := os.WriteFile(p, []byte(doc.text), 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
