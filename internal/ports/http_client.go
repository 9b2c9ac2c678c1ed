package ports

import "net/http"

// HTTPClient is the transport a ProblemSender submits through.
// *http.Client satisfies it; tests substitute a recorder.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
