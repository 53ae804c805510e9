package registry

import (
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// CheckRegistryHealth probes the CrossRef API and records the outcome in
// healthStatus. The optional fn runs once on the first healthy probe; the
// caller uses it to start the queue workers only when the registry side is
// reachable.
func CheckRegistryHealth(crossrefURL string, healthStatus *bool, healthMutex *sync.Mutex, fn ...func()) {
	log.Println("Checking registry health...")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(crossrefURL + "/works?rows=0&mailto=" + crossrefMailto)
	if err != nil {
		log.Println("Error checking registry health:", err)
		healthMutex.Lock()
		*healthStatus = false
		healthMutex.Unlock()
		return
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Println("Error closing registry response body:", err)
		}
	}(resp.Body)

	isHealthy := resp.StatusCode >= 200 && resp.StatusCode < 300

	if isHealthy && len(fn) > 0 {
		fn[0]()
	}

	log.Println("Setting registry health status to", isHealthy)
	healthMutex.Lock()
	*healthStatus = isHealthy
	healthMutex.Unlock()
}
