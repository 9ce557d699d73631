package archive

import (
	"fmt"

	"github.com/arloliu/cscarchive/errs"
)

// Read looks up key in r and returns its value as stored, without any type
// conversion. A missing key yields an error wrapping errs.ErrKeyNotFound.
func Read(r Reader, key string) (Value, error) {
	v, ok := r.Read(key)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", errs.ErrKeyNotFound, key)
	}

	return v, nil
}
