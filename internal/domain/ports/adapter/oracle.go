package adapter

import "context"

// OracleClient is the port for the text oracle (translation or generative model).
// Generate is text in, text out; any failure is reported as an error and the
// caller decides whether to fall back.
type OracleClient interface {
	Name() string
	Generate(ctx context.Context, input string) (string, error)
}
