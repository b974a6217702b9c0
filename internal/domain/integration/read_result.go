package integration

// ReadResultKind tags the outcome of a remote read
type ReadResultKind int

const (
	ReadFound ReadResultKind = iota
	ReadNotFound
	ReadFailed
)

// String returns the outcome name
func (k ReadResultKind) String() string {
	switch k {
	case ReadFound:
		return "found"
	case ReadNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// ReadResult is the outcome of reading a remote product: exactly one of
// Found(Product), NotFound or Failed(Err).
type ReadResult struct {
	Kind    ReadResultKind
	Product *RemoteProduct
	Err     error
}

// Found wraps a successfully read product
func Found(p *RemoteProduct) ReadResult {
	return ReadResult{Kind: ReadFound, Product: p}
}

// NotFound signals that the remote product was deleted upstream
func NotFound(err error) ReadResult {
	return ReadResult{Kind: ReadNotFound, Err: err}
}

// Failed wraps any other error
func Failed(err error) ReadResult {
	return ReadResult{Kind: ReadFailed, Err: err}
}

// ReadResultFrom classifies a read outcome
func ReadResultFrom(p *RemoteProduct, err error) ReadResult {
	switch {
	case err == nil:
		return Found(p)
	case IsNotFound(err):
		return NotFound(err)
	default:
		return Failed(err)
	}
}
