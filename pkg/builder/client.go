// Package builder turns a parsed document into a populated knowledge
// graph: document hierarchy, reading-order sequence, table and image
// candidates, and resolved cross-reference edges.
package builder

import "github.com/docugraph/backend/pkg/reference"

const (
	defaultHeadingRatio    = 1.4
	defaultShortHeadingMax = 80
)

// Client builds knowledge graphs from parsed documents. It holds the
// heading-detection tuning and the reference machinery; the client is
// stateless across builds and safe to share.
//
// A Client should be created using NewClient.
type Client struct {
	headingRatio    float64
	shortHeadingMax int
	detector        *reference.Detector
	resolver        *reference.Resolver
}

// NewClientParams defines the configuration for creating a Client.
//
// HeadingRatio is the multiple of the page's median run height at which
// a run becomes a heading candidate. ShortHeadingMax is the maximum
// length of an isolated run still considered a heading. ContextWindow
// is the width of the context captured around detected references.
type NewClientParams struct {
	HeadingRatio    float64
	ShortHeadingMax int
	ContextWindow   int
}

// NewClient creates a Client configured with the provided parameters.
// Zero values fall back to the defaults (ratio 1.4, short heading 80
// characters). The reference catalog is loaded here and fails fast if
// inconsistent.
func NewClient(params NewClientParams) (*Client, error) {
	ratio := params.HeadingRatio
	if ratio <= 0 {
		ratio = defaultHeadingRatio
	}
	shortMax := params.ShortHeadingMax
	if shortMax <= 0 {
		shortMax = defaultShortHeadingMax
	}

	catalog, err := reference.NewCatalog()
	if err != nil {
		return nil, err
	}
	matcher := reference.NewMatcher(reference.NewMatcherParams{
		Catalog:       catalog,
		ContextWindow: params.ContextWindow,
	})

	return &Client{
		headingRatio:    ratio,
		shortHeadingMax: shortMax,
		detector:        reference.NewDetector(reference.NewDetectorParams{Matcher: matcher}),
		resolver:        reference.NewResolver(),
	}, nil
}
