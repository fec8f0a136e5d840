package entity

import (
	"fmt"

	"github.com/rtdyn/dynclamp"
)

func selfConnectError(name string) error {
	return fmt.Errorf("entity: %q: %w", name, dynclamp.ErrSelfConnect)
}
