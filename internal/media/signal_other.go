//go:build !unix

package media

import (
	"errors"
	"os"
)

var errNoJobControl = errors.New("process suspension not supported")

func suspend(*os.Process) error { return errNoJobControl }

func resume(*os.Process) error { return errNoJobControl }
