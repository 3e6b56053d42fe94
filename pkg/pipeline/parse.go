package pipeline

import (
	"os"

	"github.com/matzehuels/itfstack/pkg/errors"
)

// ReadSource validates path and reads the file. Failures are returned as
// *errors.Error with KindInvalidInput or KindIO.
func ReadSource(path string) ([]byte, error) {
	if err := errors.ValidateSourcePath(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.KindNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.KindIO, err, "read %s", path)
	}
	return src, nil
}
