package diagnostics

import "encoding/json"

// Batch is the JSON-mode wrapper emitted by the CLI driver (spec.md
// §6): one object per diagnostic plus the BuildID correlating the
// batch to a single compiler invocation, for the language server to
// match against its own request/response log.
type Batch struct {
	BuildID     string        `json:"buildId"`
	Diagnostics []*Diagnostic `json:"diagnostics"`
}

// MarshalBatch renders every diagnostic collected by c as a single
// indented JSON Batch object: the build ID plus a "diagnostics" array
// holding one object per diagnostic.
func MarshalBatch(c *Collector) ([]byte, error) {
	b := Batch{BuildID: c.BuildID, Diagnostics: c.Diagnostics()}
	return json.MarshalIndent(b, "", "  ")
}
