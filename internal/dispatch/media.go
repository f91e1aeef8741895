package dispatch

import (
	"net/url"
	"strings"

	"github.com/hagateway/twilio-dispatch/pkg/logger"
)

// Path prefixes served by the platform's web server. References under these
// prefixes are reachable at <external base URL><path>.
var localPathPrefixes = []string{"/local/", "/media/", "/api/"}

// ResolveMediaURLs turns media references into absolute URLs the provider
// can fetch. Absolute URLs pass through unchanged (no reachability probe;
// unreachable media surfaces later as a per-recipient provider error).
// Local references are prefixed with the external base URL. One bad
// reference fails the whole resolution so the caller is never silently
// missing attachments.
func ResolveMediaURLs(refs []string, externalBaseURL string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	resolved := make([]string, 0, len(refs))

	for _, ref := range refs {
		if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Host != "" {
			resolved = append(resolved, ref)
			continue
		}

		if !hasLocalPrefix(ref) {
			return nil, &ValidationError{Kind: KindUnsupportedMediaReference, Value: ref}
		}

		if externalBaseURL == "" {
			return nil, &ConfigurationError{Kind: KindMissingExternalURL}
		}

		full := strings.TrimRight(externalBaseURL, "/") + ref
		logger.Debugf("Resolved local media %s to %s", ref, full)
		resolved = append(resolved, full)
	}

	return resolved, nil
}

func hasLocalPrefix(ref string) bool {
	for _, prefix := range localPathPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}
