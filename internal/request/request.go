package request

import (
	"goldenapi/internal/api"
)

// Request is one synthesized (operation, period, format) combination.
type Request struct {
	// ID is "Module.method[_period].format[.extension]"
	ID string `json:"id"`
	// Operation is the API operation addressed
	Operation api.Operation `json:"operation"`
	// Period and Format are the combination's coordinates
	Period string `json:"period"`
	Format string `json:"format"`
	// Params is the final parameter set parsed from the rendered query
	Params api.Params `json:"params"`
	// Query is the rendered query string, without the leading "?"
	Query string `json:"query"`
	// SubtableResolved is true when the probe supplied an idSubtable
	SubtableResolved bool `json:"subtableResolved,omitempty"`
}

// Collection is the ordered, identifier-unique request set of one run.
type Collection struct {
	requests []Request
	index    map[string]int
	// Skipped lists combinations the metadata provider declined to render
	Skipped []api.Skip
}

func newCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// add appends r. An operation that takes no period renders the same query
// for every period; such repeats are dropped. Any other reuse of an
// identifier is an error.
func (c *Collection) add(r Request) error {
	if i, exists := c.index[r.ID]; exists {
		if c.requests[i].Query == r.Query {
			return nil
		}
		return &DuplicateRequestError{ID: r.ID}
	}
	c.index[r.ID] = len(c.requests)
	c.requests = append(c.requests, r)
	return nil
}

// Requests returns the requests in synthesis order.
func (c *Collection) Requests() []Request {
	return c.requests
}

// IDs returns the request identifiers in synthesis order.
func (c *Collection) IDs() []string {
	ids := make([]string, len(c.requests))
	for i, r := range c.requests {
		ids[i] = r.ID
	}
	return ids
}

// Get returns the request with the given identifier.
func (c *Collection) Get(id string) (Request, bool) {
	i, ok := c.index[id]
	if !ok {
		return Request{}, false
	}
	return c.requests[i], true
}

// Len returns the number of requests.
func (c *Collection) Len() int {
	return len(c.requests)
}
