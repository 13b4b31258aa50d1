package repository

import (
	"time"
)

// Clock abstracts the process clock so conversions can anchor "today" to a
// fixed instant in tests. Production wiring uses the system clock.
type Clock interface {
	// Now returns the current instant
	Now() time.Time
}
