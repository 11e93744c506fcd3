package utils

import (
	"log"
	"strings"
)

// LogEvent writes one application log line in the module/action key=value
// shape the HTTP logger uses, so both join on request_id. An empty request id
// is logged as "-" to keep the line grep-able. Keep message free of payload
// data.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] request_id=%s action=%s msg=%s", strings.ToUpper(module), req, action, message)
}
