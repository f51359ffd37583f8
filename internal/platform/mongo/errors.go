package mongo

import (
	"context"
	"errors"
	"fmt"

	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/taskplanner/planner-api/internal/store"
)

// MapError maps a driver error to the matching store error, wrapping the
// original so it stays available for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, driver.ErrNoDocuments):
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	case driver.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrClientDisconnected),
		driver.IsTimeout(err),
		driver.IsNetworkError(err):
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return err
}
