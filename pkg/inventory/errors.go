package inventory

import (
	"errors"
	"fmt"
)

// RemoteError is a non-success response from the inventory service. It is
// fatal for the current asset's remaining operations but does not abort
// other assets in the run.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("inventory returned %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a RemoteError with HTTP 404.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == 404
}
